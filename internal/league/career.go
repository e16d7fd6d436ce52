package league

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Meta describes the coach's career.
type Meta struct {
	ID        uuid.UUID
	Coach     string
	Seed      int64
	Season    int
	Team      string
	State     string
	CreatedAt time.Time
}

// Career is everything a save holds: the coach, every club and the state
// league in progress (nil when none is scheduled).
type Career struct {
	Meta   Meta
	League *League
	Season *Season
}

// NewCareer indexes clubs and schedules the state league of meta.Team.
func NewCareer(meta Meta, clubs []*Club) (*Career, error) {
	lg, err := NewLeague(clubs)
	if err != nil {
		return nil, err
	}
	team, err := lg.Club(meta.Team)
	if err != nil {
		return nil, fmt.Errorf("coach team: %w", err)
	}
	if meta.ID == uuid.Nil {
		meta.ID = uuid.New()
	}
	if meta.Season == 0 {
		meta.Season = 1
	}
	if meta.State == "" {
		meta.State = team.StateName
	}
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}

	season, err := NewSeason(team.StateAbbr, names(lg.Region(team.StateAbbr)), meta.Seed)
	if err != nil {
		return nil, err
	}
	return &Career{Meta: meta, League: lg, Season: season}, nil
}

// Team is the coach's club.
func (c *Career) Team() (*Club, error) {
	return c.League.Club(c.Meta.Team)
}

// PlayWeek resolves every fixture of the current week and moves on.
// Fixtures already carrying a score are skipped, so a retry after a
// failure never books a match twice.
func (c *Career) PlayWeek() ([]*MatchResult, error) {
	if c.Season == nil {
		return nil, ErrNoSeason
	}
	if c.Season.IsFinished() {
		return nil, ErrSeasonFinished
	}
	week := c.Season.CurrentWeek
	idx := c.Season.weekIndexes(week)
	rng := WeekRand(c.Meta.Seed, c.Meta.Season, week)

	if c.Season.weekFresh(idx) {
		tickSquads(c.League.Region(c.Season.Region), rng)
	}

	engine := NewMatchEngine(rng)
	var results []*MatchResult
	for _, i := range idx {
		f := c.Season.fixtures[i]
		if f.Played() {
			continue
		}
		home, err := c.League.Club(f.Home)
		if err != nil {
			return results, fmt.Errorf("week %d: %w", week, err)
		}
		away, err := c.League.Club(f.Away)
		if err != nil {
			return results, fmt.Errorf("week %d: %w", week, err)
		}
		res, err := engine.Simulate(home, away)
		if err != nil {
			return results, fmt.Errorf("week %d %s v %s: %w", week, f.Home, f.Away, err)
		}
		if err := ApplyMatch(home, away, res); err != nil {
			return results, fmt.Errorf("week %d %s v %s: %w", week, f.Home, f.Away, err)
		}
		c.Season.fixtures[i].Score = &Score{Home: res.GoalsHome, Away: res.GoalsAway}
		results = append(results, res)
	}

	c.Season.AdvanceWeek()
	return results, nil
}

// TrainTeam holds a training session for the coach's squad. The session is
// drawn from the career seed, season and current week.
func (c *Career) TrainTeam(focus Focus) (*Club, error) {
	team, err := c.Team()
	if err != nil {
		return nil, err
	}
	week := 0
	if c.Season != nil {
		week = c.Season.CurrentWeek
	}
	team.TrainSquad(focus, TrainingRand(c.Meta.Seed, c.Meta.Season, week))
	return team, nil
}

// Standings is the table of the state league.
func (c *Career) Standings() []TableEntry {
	if c.Season == nil {
		return nil
	}
	return Table(c.League.Region(c.Season.Region))
}

// StartNextSeason clears the state league's records and schedules a new
// season once the current one is over.
func (c *Career) StartNextSeason() error {
	if c.Season == nil {
		return ErrNoSeason
	}
	if !c.Season.IsFinished() {
		return fmt.Errorf("season %d still has %d weeks to play", c.Meta.Season, c.Season.TotalWeeks-c.Season.CurrentWeek+1)
	}
	clubs := c.League.Region(c.Season.Region)
	season, err := NewSeason(c.Season.Region, names(clubs), c.Meta.Seed+int64(c.Meta.Season))
	if err != nil {
		return err
	}
	for _, club := range clubs {
		club.ResetStandings()
	}
	c.Meta.Season++
	c.Season = season
	return nil
}
