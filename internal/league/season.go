package league

import (
	"fmt"
)

// Season is a state league: a fixed double round-robin and a week pointer.
// CurrentWeek == TotalWeeks+1 means the season is over.
type Season struct {
	Region      string
	Seed        int64
	CurrentWeek int
	TotalWeeks  int

	fixtures []Fixture
}

// NewSeason schedules the named clubs of region.
func NewSeason(region string, names []string, seed int64) (*Season, error) {
	fixtures, err := BuildSchedule(names, seed)
	if err != nil {
		return nil, fmt.Errorf("building %s schedule: %w", region, err)
	}
	return &Season{
		Region:      region,
		Seed:        seed,
		CurrentWeek: 1,
		TotalWeeks:  TotalWeeks(len(names)),
		fixtures:    fixtures,
	}, nil
}

// RestoreSeason rebuilds a season from a stored fixture list. The list is
// taken verbatim; TotalWeeks is its last week.
func RestoreSeason(region string, seed int64, currentWeek int, fixtures []Fixture) (*Season, error) {
	total := 0
	busy := make(map[int]map[string]struct{})
	for i, f := range fixtures {
		if f.Week < 1 {
			return nil, &ScheduleError{Reason: fmt.Sprintf("fixture %d has week %d", i, f.Week)}
		}
		if f.Home == "" || f.Away == "" || f.Home == f.Away {
			return nil, &ScheduleError{Reason: fmt.Sprintf("fixture %d pairs %q with %q", i, f.Home, f.Away)}
		}
		if busy[f.Week] == nil {
			busy[f.Week] = make(map[string]struct{})
		}
		for _, name := range []string{f.Home, f.Away} {
			if _, ok := busy[f.Week][name]; ok {
				return nil, &ScheduleError{Reason: fmt.Sprintf("%q plays twice in week %d", name, f.Week)}
			}
			busy[f.Week][name] = struct{}{}
		}
		total = max(total, f.Week)
	}
	if currentWeek < 1 || currentWeek > total+1 {
		return nil, &ScheduleError{Reason: fmt.Sprintf("current week %d outside 1..%d", currentWeek, total+1)}
	}
	return &Season{
		Region:      region,
		Seed:        seed,
		CurrentWeek: currentWeek,
		TotalWeeks:  total,
		fixtures:    copyFixtures(fixtures),
	}, nil
}

// Fixtures returns a copy of the whole schedule in week order.
func (s *Season) Fixtures() []Fixture {
	return copyFixtures(s.fixtures)
}

// FixturesOfWeek returns the fixtures of week w; empty outside 1..TotalWeeks.
func (s *Season) FixturesOfWeek(w int) []Fixture {
	var out []Fixture
	for _, i := range s.weekIndexes(w) {
		out = append(out, copyFixture(s.fixtures[i]))
	}
	return out
}

func (s *Season) weekIndexes(w int) []int {
	if w < 1 || w > s.TotalWeeks {
		return nil
	}
	var idx []int
	for i, f := range s.fixtures {
		if f.Week == w {
			idx = append(idx, i)
		}
	}
	return idx
}

// weekFresh reports whether none of the fixtures at idx has been played.
func (s *Season) weekFresh(idx []int) bool {
	for _, i := range idx {
		if s.fixtures[i].Played() {
			return false
		}
	}
	return true
}

// AdvanceWeek moves to the next week. Past the last week it is a no-op.
func (s *Season) AdvanceWeek() {
	if s.CurrentWeek <= s.TotalWeeks {
		s.CurrentWeek++
	}
}

func (s *Season) IsFinished() bool {
	return s.CurrentWeek > s.TotalWeeks
}

// Clubs returns the names scheduled in the season, in first-seen order.
func (s *Season) Clubs() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, f := range s.fixtures {
		for _, name := range []string{f.Home, f.Away} {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	return names
}

func copyFixtures(fs []Fixture) []Fixture {
	if fs == nil {
		return nil
	}
	out := make([]Fixture, len(fs))
	for i, f := range fs {
		out[i] = copyFixture(f)
	}
	return out
}

func copyFixture(f Fixture) Fixture {
	if f.Score != nil {
		sc := *f.Score
		f.Score = &sc
	}
	return f
}
