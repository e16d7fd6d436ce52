package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeason_FixturesOfWeekOutOfRange(t *testing.T) {
	s, err := NewSeason("SP", clubNames(4), 1)
	require.NoError(t, err)
	require.Equal(t, 6, s.TotalWeeks)

	assert.Empty(t, s.FixturesOfWeek(0))
	assert.Empty(t, s.FixturesOfWeek(-3))
	assert.Empty(t, s.FixturesOfWeek(7))
	for w := 1; w <= 6; w++ {
		assert.Len(t, s.FixturesOfWeek(w), 2)
	}
}

func TestSeason_AdvanceWeekSaturates(t *testing.T) {
	s, err := NewSeason("SP", clubNames(6), 42)
	require.NoError(t, err)
	assert.False(t, s.IsFinished())

	for i := 0; i < s.TotalWeeks+5; i++ {
		s.AdvanceWeek()
	}
	assert.Equal(t, s.TotalWeeks+1, s.CurrentWeek)
	assert.True(t, s.IsFinished())
	assert.Empty(t, s.FixturesOfWeek(s.CurrentWeek))
}

func TestSeason_EmptyRegionIsFinished(t *testing.T) {
	for _, names := range [][]string{nil, {"Lonely"}} {
		s, err := NewSeason("AC", names, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, s.TotalWeeks)
		assert.Equal(t, 1, s.CurrentWeek)
		assert.True(t, s.IsFinished())
		s.AdvanceWeek()
		assert.Equal(t, 1, s.CurrentWeek)
	}
}

func TestSeason_FixturesAreCopies(t *testing.T) {
	s, err := NewSeason("SP", clubNames(4), 1)
	require.NoError(t, err)

	fs := s.Fixtures()
	fs[0].Home = "Tampered"
	fs[0].Score = &Score{Home: 9}
	assert.NotEqual(t, "Tampered", s.Fixtures()[0].Home)
	assert.Nil(t, s.Fixtures()[0].Score)
}

func TestRestoreSeason_RoundTrip(t *testing.T) {
	s, err := NewSeason("SP", clubNames(7), 9)
	require.NoError(t, err)
	s.AdvanceWeek()
	s.AdvanceWeek()

	r, err := RestoreSeason(s.Region, s.Seed, s.CurrentWeek, s.Fixtures())
	require.NoError(t, err)
	assert.Equal(t, s, r)
}

func TestRestoreSeason_Rejects(t *testing.T) {
	ok := []Fixture{{Week: 1, Home: "A", Away: "B"}, {Week: 2, Home: "B", Away: "A"}}

	tests := []struct {
		name     string
		current  int
		fixtures []Fixture
	}{
		{"week zero", 1, []Fixture{{Week: 0, Home: "A", Away: "B"}}},
		{"self match", 1, []Fixture{{Week: 1, Home: "A", Away: "A"}}},
		{"missing club", 1, []Fixture{{Week: 1, Home: "A", Away: ""}}},
		{"double booked", 1, []Fixture{{Week: 1, Home: "A", Away: "B"}, {Week: 1, Home: "C", Away: "A"}}},
		{"current too low", 0, ok},
		{"current past end", 4, ok},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RestoreSeason("SP", 1, tt.current, tt.fixtures)
			var serr *ScheduleError
			assert.ErrorAs(t, err, &serr)
		})
	}

	s, err := RestoreSeason("SP", 1, 3, ok)
	require.NoError(t, err)
	assert.True(t, s.IsFinished())
}
