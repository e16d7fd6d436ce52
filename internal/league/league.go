package league

import (
	"math"
	"slices"
)

// DefaultRating is the club rating used when no squad player is available.
const DefaultRating = 50.0

// Player is a squad or youth member of a club.
type Player struct {
	Name        string
	Age         int
	Strength    int
	Technique   int
	Speed       int
	Morale      int
	Personality string
	IsLegendary bool

	Potential   int
	Loyalty     int
	Injured     bool
	Suspended   int // matches left to serve
	Goals       int
	YellowCards int
	RedCards    int
}

// Overall is the rounded mean of the three skill attributes.
func (p *Player) Overall() int {
	return int(math.Round(float64(p.Strength+p.Technique+p.Speed) / 3))
}

// Available reports whether the player can take part in a match.
func (p *Player) Available() bool {
	return !p.Injured && p.Suspended == 0
}

// Club represents a club in the league.
type Club struct {
	Name      string
	StateAbbr string
	StateName string
	Budget    int64
	Squad     []*Player
	Youth     []*Player

	Points       int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
}

// Rating is the mean overall of the available squad players, or
// DefaultRating when nobody in the squad can play.
func (c *Club) Rating() float64 {
	sum, n := 0, 0
	for _, p := range c.Squad {
		if !p.Available() {
			continue
		}
		sum += p.Overall()
		n++
	}
	if n == 0 {
		return DefaultRating
	}
	return float64(sum) / float64(n)
}

func (c *Club) Played() int {
	return c.Wins + c.Draws + c.Losses
}

func (c *Club) GoalDiff() int {
	return c.GoalsFor - c.GoalsAgainst
}

// Clone returns a deep copy; the copy shares no player or slice with c.
func (c *Club) Clone() *Club {
	cp := *c
	cp.Squad = clonePlayers(c.Squad)
	cp.Youth = clonePlayers(c.Youth)
	return &cp
}

func clonePlayers(ps []*Player) []*Player {
	if ps == nil {
		return nil
	}
	out := make([]*Player, len(ps))
	for i, p := range ps {
		cp := *p
		out[i] = &cp
	}
	return out
}

// ResetStandings zeroes the season record.
func (c *Club) ResetStandings() {
	c.Points, c.Wins, c.Draws, c.Losses = 0, 0, 0, 0
	c.GoalsFor, c.GoalsAgainst = 0, 0
}

// Score is the recorded outcome of a resolved fixture.
type Score struct {
	Home int
	Away int
}

// Fixture is one scheduled match. Home and Away name clubs; the fixture
// never owns them.
type Fixture struct {
	Week  int
	Home  string
	Away  string
	Score *Score // nil until the fixture has been played
}

func (f Fixture) Played() bool {
	return f.Score != nil
}

// EventKind enumerates what can happen during a match.
type EventKind int

const (
	Goal EventKind = iota
	YellowCard
	RedCard
	MinorInjury
	MajorInjury
	Offside
	GreatSave
)

var eventKindNames = []string{
	Goal:        "goal",
	YellowCard:  "yellow_card",
	RedCard:     "red_card",
	MinorInjury: "minor_injury",
	MajorInjury: "major_injury",
	Offside:     "offside",
	GreatSave:   "great_save",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[k]
}

// ParseEventKind is the inverse of EventKind.String.
func ParseEventKind(s string) (EventKind, bool) {
	i := slices.Index(eventKindNames, s)
	if i < 0 {
		return 0, false
	}
	return EventKind(i), true
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EventKind) UnmarshalText(b []byte) error {
	v, ok := ParseEventKind(string(b))
	if !ok {
		return &UnknownEventKindError{Kind: string(b)}
	}
	*k = v
	return nil
}

// MatchEvent is one minute-stamped incident of a match.
type MatchEvent struct {
	Minute int       `json:"minute"`
	Club   string    `json:"club"`
	Player string    `json:"player"`
	Kind   EventKind `json:"kind"`
}

// MatchResult is the outcome of one simulated fixture.
type MatchResult struct {
	Home      string       `json:"home"`
	Away      string       `json:"away"`
	GoalsHome int          `json:"goals_home"`
	GoalsAway int          `json:"goals_away"`
	Timeline  []MatchEvent `json:"timeline"`
}

// TableEntry holds the standings info for one club.
type TableEntry struct {
	Position     int    `json:"position"`
	Club         string `json:"club"`
	Played       int    `json:"played"`
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Losses       int    `json:"losses"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	GoalDiff     int    `json:"goal_diff"`
	Points       int    `json:"points"`
}

// Prediction is a club's estimated chance of finishing first.
type Prediction struct {
	Club        string  `json:"club"`
	Probability float64 `json:"probability"`
}
