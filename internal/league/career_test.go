package league

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClubs() []*Club {
	var clubs []*Club
	for i, overall := range []int{72, 68, 65, 60, 55, 50} {
		clubs = append(clubs, newClub(fmt.Sprintf("SP Club %d", i+1), "SP", overall, 16))
	}
	clubs = append(clubs, newClub("RJ Club 1", "RJ", 70, 16), newClub("RJ Club 2", "RJ", 60, 16))
	return clubs
}

func newTestCareer(t *testing.T) *Career {
	t.Helper()
	c, err := NewCareer(Meta{Coach: "Tite", Seed: 42, Team: "SP Club 3"}, testClubs())
	require.NoError(t, err)
	return c
}

func TestNewCareer_SchedulesCoachRegion(t *testing.T) {
	c := newTestCareer(t)

	assert.NotEqual(t, uuid.Nil, c.Meta.ID)
	assert.Equal(t, 1, c.Meta.Season)
	assert.Equal(t, "SP state", c.Meta.State)
	assert.False(t, c.Meta.CreatedAt.IsZero())
	assert.Equal(t, "SP", c.Season.Region)
	assert.Equal(t, 10, c.Season.TotalWeeks)
	assert.NotContains(t, c.Season.Clubs(), "RJ Club 1")

	team, err := c.Team()
	require.NoError(t, err)
	assert.Equal(t, "SP Club 3", team.Name)
}

func TestNewCareer_UnknownTeam(t *testing.T) {
	_, err := NewCareer(Meta{Team: "Nobody FC"}, testClubs())
	var unknown *UnknownClubError
	assert.ErrorAs(t, err, &unknown)
}

func TestCareer_PlayFullSeason(t *testing.T) {
	c := newTestCareer(t)

	weeks := 0
	for !c.Season.IsFinished() {
		results, err := c.PlayWeek()
		require.NoError(t, err)
		assert.Len(t, results, 3)
		weeks++
	}
	assert.Equal(t, c.Season.TotalWeeks, weeks)

	_, err := c.PlayWeek()
	assert.ErrorIs(t, err, ErrSeasonFinished)

	for _, f := range c.Season.Fixtures() {
		assert.True(t, f.Played(), "week %d %s v %s", f.Week, f.Home, f.Away)
	}

	wins, losses, goalsFor, goalsAgainst := 0, 0, 0, 0
	for _, club := range c.League.Region("SP") {
		assert.Equal(t, 10, club.Played(), club.Name)
		assert.Equal(t, 3*club.Wins+club.Draws, club.Points, club.Name)
		wins += club.Wins
		losses += club.Losses
		goalsFor += club.GoalsFor
		goalsAgainst += club.GoalsAgainst
	}
	assert.Equal(t, wins, losses)
	assert.Equal(t, goalsFor, goalsAgainst)

	// clubs of other states never play
	for _, club := range c.League.Region("RJ") {
		assert.Equal(t, 0, club.Played())
	}
}

func TestCareer_StandingsMatchRecordedScores(t *testing.T) {
	c := newTestCareer(t)
	for i := 0; i < 4; i++ {
		_, err := c.PlayWeek()
		require.NoError(t, err)
	}

	points := make(map[string]int)
	for _, f := range c.Season.Fixtures() {
		if !f.Played() {
			continue
		}
		switch {
		case f.Score.Home > f.Score.Away:
			points[f.Home] += 3
		case f.Score.Home < f.Score.Away:
			points[f.Away] += 3
		default:
			points[f.Home]++
			points[f.Away]++
		}
	}
	for _, e := range c.Standings() {
		assert.Equal(t, points[e.Club], e.Points, e.Club)
	}
}

func TestCareer_SameSeedSameSeason(t *testing.T) {
	a := newTestCareer(t)
	b := newTestCareer(t)
	for !a.Season.IsFinished() {
		ra, err := a.PlayWeek()
		require.NoError(t, err)
		rb, err := b.PlayWeek()
		require.NoError(t, err)
		assert.Equal(t, ra, rb)
	}
	assert.Equal(t, a.Standings(), b.Standings())
}

func TestCareer_RetryDoesNotDoubleCount(t *testing.T) {
	c := newTestCareer(t)
	week1 := c.Season.FixturesOfWeek(1)
	require.NotEmpty(t, week1)

	// empty one club's rosters so the week fails part way
	victim, err := c.League.Club(week1[len(week1)-1].Home)
	require.NoError(t, err)
	squad := victim.Squad
	victim.Squad = nil

	_, err = c.PlayWeek()
	var rerr *RosterError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 1, c.Season.CurrentWeek)

	victim.Squad = squad
	_, err = c.PlayWeek()
	require.NoError(t, err)
	assert.Equal(t, 2, c.Season.CurrentWeek)

	for _, club := range c.League.Region("SP") {
		assert.Equal(t, 1, club.Played(), club.Name)
	}
}

func TestCareer_StartNextSeason(t *testing.T) {
	c := newTestCareer(t)
	assert.Error(t, c.StartNextSeason())

	for !c.Season.IsFinished() {
		_, err := c.PlayWeek()
		require.NoError(t, err)
	}
	require.NoError(t, c.StartNextSeason())

	assert.Equal(t, 2, c.Meta.Season)
	assert.Equal(t, 1, c.Season.CurrentWeek)
	assert.Equal(t, 10, c.Season.TotalWeeks)
	for _, club := range c.League.Region("SP") {
		assert.Equal(t, 0, club.Points)
		assert.Equal(t, 0, club.Played())
	}
}

func TestCareer_NoSeason(t *testing.T) {
	c := &Career{League: &League{}}
	_, err := c.PlayWeek()
	assert.ErrorIs(t, err, ErrNoSeason)
	assert.Nil(t, c.Standings())
}

func TestCareer_TitleOdds(t *testing.T) {
	c := newTestCareer(t)
	for i := 0; i < 3; i++ {
		_, err := c.PlayWeek()
		require.NoError(t, err)
	}
	before := c.Standings()

	preds, err := c.TitleOdds(200, seeded(8))
	require.NoError(t, err)
	require.Len(t, preds, 6)

	total := 0.0
	for i, p := range preds {
		total += p.Probability
		if i > 0 {
			assert.GreaterOrEqual(t, preds[i-1].Probability, p.Probability)
		}
	}
	assert.InDelta(t, 100.0, total, 0.1)
	assert.Equal(t, before, c.Standings(), "odds must not touch the career")
	assert.Equal(t, 4, c.Season.CurrentWeek)

	_, err = c.TitleOdds(0, seeded(8))
	assert.Error(t, err)
}
