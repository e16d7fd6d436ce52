package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSchedule_DoubleRoundRobinCoverage(t *testing.T) {
	for n := 2; n <= 12; n++ {
		names := clubNames(n)
		fixtures, err := BuildSchedule(names, int64(n))
		require.NoError(t, err)

		total := TotalWeeks(n)
		assert.Equal(t, n*(n-1), len(fixtures), "n=%d", n)

		// every ordered pair exactly once, so every unordered pair twice
		pairs := make(map[[2]string]int)
		pairWeek := make(map[[2]string]int)
		for _, f := range fixtures {
			assert.NotEqual(t, f.Home, f.Away)
			assert.GreaterOrEqual(t, f.Week, 1)
			assert.LessOrEqual(t, f.Week, total)
			pairs[[2]string{f.Home, f.Away}]++
			pairWeek[[2]string{f.Home, f.Away}] = f.Week
		}
		for _, a := range names {
			for _, b := range names {
				if a == b {
					continue
				}
				assert.Equal(t, 1, pairs[[2]string{a, b}], "n=%d %s v %s", n, a, b)
				assert.NotEqual(t, pairWeek[[2]string{a, b}], pairWeek[[2]string{b, a}], "n=%d legs share a week", n)
			}
		}
	}
}

func TestBuildSchedule_NoClubTwiceInAWeek(t *testing.T) {
	for n := 2; n <= 11; n++ {
		fixtures, err := BuildSchedule(clubNames(n), 99)
		require.NoError(t, err)

		busy := make(map[int]map[string]bool)
		for _, f := range fixtures {
			if busy[f.Week] == nil {
				busy[f.Week] = make(map[string]bool)
			}
			assert.False(t, busy[f.Week][f.Home], "n=%d week %d %s", n, f.Week, f.Home)
			assert.False(t, busy[f.Week][f.Away], "n=%d week %d %s", n, f.Week, f.Away)
			busy[f.Week][f.Home] = true
			busy[f.Week][f.Away] = true
		}
	}
}

func TestBuildSchedule_EvenFieldPlaysEveryWeek(t *testing.T) {
	n := 8
	fixtures, err := BuildSchedule(clubNames(n), 3)
	require.NoError(t, err)

	perWeek := make(map[int]int)
	for _, f := range fixtures {
		perWeek[f.Week]++
	}
	assert.Len(t, perWeek, 2*(n-1))
	for w := 1; w <= 2*(n-1); w++ {
		assert.Equal(t, n/2, perWeek[w], "week %d", w)
	}
}

func TestBuildSchedule_OddFieldHasOneByePerWeek(t *testing.T) {
	n := 7
	names := clubNames(n)
	fixtures, err := BuildSchedule(names, 11)
	require.NoError(t, err)

	assert.Equal(t, 12, TotalWeeks(n))
	known := make(map[string]bool)
	for _, name := range names {
		known[name] = true
	}
	perWeek := make(map[int]int)
	for _, f := range fixtures {
		assert.True(t, known[f.Home], "unexpected club %q", f.Home)
		assert.True(t, known[f.Away], "unexpected club %q", f.Away)
		perWeek[f.Week]++
	}
	for w := 1; w <= TotalWeeks(n); w++ {
		// one club sits out each week
		assert.Equal(t, (n-1)/2, perWeek[w], "week %d", w)
	}
}

func TestBuildSchedule_SixClubsSeed42(t *testing.T) {
	names := clubNames(6)
	s, err := NewSeason("SP", names, 42)
	require.NoError(t, err)
	assert.Equal(t, 10, s.TotalWeeks)

	week1 := s.FixturesOfWeek(1)
	require.Len(t, week1, 3)
	seen := make(map[string]bool)
	for _, f := range week1 {
		seen[f.Home] = true
		seen[f.Away] = true
	}
	assert.Len(t, seen, 6)
}

func TestBuildSchedule_TinyFields(t *testing.T) {
	for _, names := range [][]string{nil, {}, {"Only"}} {
		fixtures, err := BuildSchedule(names, 1)
		require.NoError(t, err)
		assert.Empty(t, fixtures)
		assert.Equal(t, 0, TotalWeeks(len(names)))
	}

	fixtures, err := BuildSchedule([]string{"A", "B"}, 1)
	require.NoError(t, err)
	require.Len(t, fixtures, 2)
	assert.Equal(t, 2, TotalWeeks(2))
	assert.Equal(t, fixtures[0].Home, fixtures[1].Away)
}

func TestBuildSchedule_SameSeedSameSchedule(t *testing.T) {
	a, err := BuildSchedule(clubNames(10), 2024)
	require.NoError(t, err)
	b, err := BuildSchedule(clubNames(10), 2024)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuildSchedule_RejectsBadNames(t *testing.T) {
	_, err := BuildSchedule([]string{"A", "B", "A"}, 1)
	var dup *DuplicateClubError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "A", dup.Name)

	_, err = BuildSchedule([]string{"A", ""}, 1)
	var sched *ScheduleError
	assert.ErrorAs(t, err, &sched)
}

func TestBuildSchedule_HomeGamesBalanced(t *testing.T) {
	n := 10
	fixtures, err := BuildSchedule(clubNames(n), 5)
	require.NoError(t, err)

	home := make(map[string]int)
	for _, f := range fixtures {
		home[f.Home]++
	}
	for name, h := range home {
		assert.Equal(t, n-1, h, "%s home games", name)
	}
}
