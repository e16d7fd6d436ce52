package league

// League is the flat list of every club with a name index over it.
type League struct {
	clubs  []*Club
	byName map[string]*Club
}

// NewLeague indexes clubs by name. Club names must be unique, player names
// must be unique within a club and no player may be listed by two clubs.
func NewLeague(clubs []*Club) (*League, error) {
	l := &League{
		clubs:  clubs,
		byName: make(map[string]*Club, len(clubs)),
	}
	owners := make(map[*Player]string)
	for _, c := range clubs {
		if _, ok := l.byName[c.Name]; ok {
			return nil, &DuplicateClubError{Name: c.Name}
		}
		l.byName[c.Name] = c
		players := make(map[string]struct{}, len(c.Squad)+len(c.Youth))
		for _, p := range append(append([]*Player(nil), c.Squad...), c.Youth...) {
			if other, ok := owners[p]; ok {
				return nil, &SharedPlayerError{Player: p.Name, Clubs: [2]string{other, c.Name}}
			}
			owners[p] = c.Name
			if _, ok := players[p.Name]; ok {
				return nil, &DuplicatePlayerError{Club: c.Name, Player: p.Name}
			}
			players[p.Name] = struct{}{}
		}
	}
	return l, nil
}

// Club resolves a fixture reference.
func (l *League) Club(name string) (*Club, error) {
	c, ok := l.byName[name]
	if !ok {
		return nil, &UnknownClubError{Name: name}
	}
	return c, nil
}

// Clubs returns every club in input order.
func (l *League) Clubs() []*Club {
	return l.clubs
}

// Region returns the clubs of one state, in input order.
func (l *League) Region(abbr string) []*Club {
	var out []*Club
	for _, c := range l.clubs {
		if c.StateAbbr == abbr {
			out = append(out, c)
		}
	}
	return out
}

// Regions returns the distinct state codes in first-seen order.
func (l *League) Regions() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range l.clubs {
		if _, ok := seen[c.StateAbbr]; !ok {
			seen[c.StateAbbr] = struct{}{}
			out = append(out, c.StateAbbr)
		}
	}
	return out
}

func names(clubs []*Club) []string {
	out := make([]string, len(clubs))
	for i, c := range clubs {
		out[i] = c.Name
	}
	return out
}
