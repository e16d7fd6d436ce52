package league

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

const (
	BaseGoals        = 1.3
	RatingScale      = 25.0
	HomeAdvantage    = 0.15
	MinExpectedGoals = 0.3
	MaxExpectedGoals = 4.0
	MaxGoals         = 6

	MinEvents = 6
	MaxEvents = 16

	matchMinutes = 90
	lateMinute   = 80
	redCardBan   = 2
)

var eventWeights = []struct {
	kind   EventKind
	weight float64
}{
	{Goal, 30},
	{YellowCard, 20},
	{RedCard, 3},
	{MinorInjury, 7},
	{MajorInjury, 2},
	{Offside, 20},
	{GreatSave, 18},
}

// MatchEngine simulates fixtures from an explicitly owned random source.
// The same club states and the same source state give the same result.
type MatchEngine struct {
	rng *rand.Rand
}

// NewMatchEngine returns an engine drawing from rng, which must not be nil.
func NewMatchEngine(rng *rand.Rand) *MatchEngine {
	return &MatchEngine{rng: rng}
}

// WeekRand is the source used to resolve one week of a season.
func WeekRand(seed int64, season, week int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(season)<<32|uint64(uint32(week))))
}

// ExpectedGoals is the scoring mean of a side rated self against other.
func ExpectedGoals(self, other float64, home bool) float64 {
	xg := BaseGoals + (self-other)/RatingScale
	if home {
		xg += HomeAdvantage
	}
	return math.Min(MaxExpectedGoals, math.Max(MinExpectedGoals, xg))
}

// Simulate resolves home against away. It reads both clubs and mutates
// neither; see ApplyMatch.
func (e *MatchEngine) Simulate(home, away *Club) (*MatchResult, error) {
	homePool, err := eventPool(home)
	if err != nil {
		return nil, err
	}
	awayPool, err := eventPool(away)
	if err != nil {
		return nil, err
	}

	hr, ar := home.Rating(), away.Rating()
	goalsHome := e.poisson(ExpectedGoals(hr, ar, true))
	goalsAway := e.poisson(ExpectedGoals(ar, hr, false))

	count := MinEvents + e.rng.IntN(MaxEvents-MinEvents+1)
	minutes := e.rng.Perm(matchMinutes)[:count]
	sort.Ints(minutes)

	homeShare := 0.5
	if hr+ar > 0 {
		homeShare = hr / (hr + ar)
	}
	leftHome, leftAway := goalsHome, goalsAway
	timeline := make([]MatchEvent, 0, count+goalsHome+goalsAway)
	for _, m := range minutes {
		minute := m + 1
		kind := e.drawKind()
		if kind == Goal {
			homeAttack := e.rng.Float64() < homeShare
			switch {
			case homeAttack && leftHome > 0:
				timeline = append(timeline, e.event(minute, home.Name, homePool, Goal))
				leftHome--
			case !homeAttack && leftAway > 0:
				timeline = append(timeline, e.event(minute, away.Name, awayPool, Goal))
				leftAway--
			case homeAttack:
				timeline = append(timeline, e.event(minute, away.Name, awayPool, GreatSave))
			default:
				timeline = append(timeline, e.event(minute, home.Name, homePool, GreatSave))
			}
			continue
		}
		if e.rng.IntN(2) == 0 {
			timeline = append(timeline, e.event(minute, home.Name, homePool, kind))
		} else {
			timeline = append(timeline, e.event(minute, away.Name, awayPool, kind))
		}
	}

	// Goals the event pass did not place go in at the end
	for ; leftHome > 0; leftHome-- {
		timeline = append(timeline, e.event(e.lateMinute(), home.Name, homePool, Goal))
	}
	for ; leftAway > 0; leftAway-- {
		timeline = append(timeline, e.event(e.lateMinute(), away.Name, awayPool, Goal))
	}
	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Minute < timeline[j].Minute
	})

	return &MatchResult{
		Home:      home.Name,
		Away:      away.Name,
		GoalsHome: goalsHome,
		GoalsAway: goalsAway,
		Timeline:  timeline,
	}, nil
}

// eventPool is who incidents can be attributed to: available squad players,
// else the whole squad, else the youth roster.
func eventPool(c *Club) ([]*Player, error) {
	pool := make([]*Player, 0, len(c.Squad))
	for _, p := range c.Squad {
		if p.Available() {
			pool = append(pool, p)
		}
	}
	switch {
	case len(pool) > 0:
		return pool, nil
	case len(c.Squad) > 0:
		return c.Squad, nil
	case len(c.Youth) > 0:
		return c.Youth, nil
	}
	return nil, &RosterError{Club: c.Name}
}

func (e *MatchEngine) event(minute int, club string, pool []*Player, kind EventKind) MatchEvent {
	p := pool[e.rng.IntN(len(pool))]
	return MatchEvent{Minute: minute, Club: club, Player: p.Name, Kind: kind}
}

func (e *MatchEngine) lateMinute() int {
	return lateMinute + e.rng.IntN(matchMinutes-lateMinute+1)
}

func (e *MatchEngine) drawKind() EventKind {
	total := 0.0
	for _, w := range eventWeights {
		total += w.weight
	}
	x := e.rng.Float64() * total
	for _, w := range eventWeights {
		if x < w.weight {
			return w.kind
		}
		x -= w.weight
	}
	return eventWeights[len(eventWeights)-1].kind
}

// poisson samples Knuth's way, capped at MaxGoals so the loop is bounded.
func (e *MatchEngine) poisson(lambda float64) int {
	l := math.Exp(-lambda)
	p := 1.0
	for k := 0; k < MaxGoals; k++ {
		p *= e.rng.Float64()
		if p <= l {
			return k
		}
	}
	return MaxGoals
}

// ApplyMatch books res onto both clubs: player counters and standings.
// It must run exactly once per resolved fixture.
func ApplyMatch(home, away *Club, res *MatchResult) error {
	if res.Home != home.Name || res.Away != away.Name {
		return fmt.Errorf("result %s v %s applied to %s v %s", res.Home, res.Away, home.Name, away.Name)
	}
	// Resolve every player before touching anything
	players := make([]*Player, len(res.Timeline))
	for i, ev := range res.Timeline {
		var club *Club
		switch ev.Club {
		case home.Name:
			club = home
		case away.Name:
			club = away
		default:
			return &UnknownClubError{Name: ev.Club}
		}
		if players[i] = club.player(ev.Player); players[i] == nil {
			return fmt.Errorf("event at %d': player %q not in %s", ev.Minute, ev.Player, club.Name)
		}
	}
	for i, ev := range res.Timeline {
		p := players[i]
		switch ev.Kind {
		case Goal:
			p.Goals++
		case YellowCard:
			p.YellowCards++
		case RedCard:
			p.RedCards++
			p.Suspended += redCardBan
		case MinorInjury, MajorInjury:
			p.Injured = true
		}
	}
	ApplyResult(home, res.GoalsHome, res.GoalsAway)
	ApplyResult(away, res.GoalsAway, res.GoalsHome)
	return nil
}

// player looks a name up in the squad first, then the youth roster.
func (c *Club) player(name string) *Player {
	for _, p := range c.Squad {
		if p.Name == name {
			return p
		}
	}
	for _, p := range c.Youth {
		if p.Name == name {
			return p
		}
	}
	return nil
}
