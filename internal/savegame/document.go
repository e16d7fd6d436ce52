// Package savegame reads and writes careers as JSON or YAML documents.
package savegame

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/utakatalp/league-simulator/internal/league"
)

const defaultPersonality = "Neutral"

// defaultLoyalty is assumed for players saved before loyalty was tracked.
const defaultLoyalty = 50

// Document is the on-disk shape of a career. Pointer fields are required
// on load; the rest default when absent.
type Document struct {
	Meta        *MetaDoc   `json:"meta" yaml:"meta"`
	Clubs       []ClubDoc  `json:"clubs" yaml:"clubs"`
	StateLeague *LeagueDoc `json:"state_league" yaml:"state_league"`
}

type MetaDoc struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	Coach     string    `json:"coach" yaml:"coach"`
	Seed      int64     `json:"seed" yaml:"seed"`
	Season    int       `json:"season" yaml:"season"`
	Team      string    `json:"team" yaml:"team"`
	State     string    `json:"state" yaml:"state"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

type ClubDoc struct {
	Name         *string     `json:"name" yaml:"name"`
	StateAbbr    *string     `json:"state_abbr" yaml:"state_abbr"`
	StateName    string      `json:"state_name" yaml:"state_name"`
	Budget       int64       `json:"budget" yaml:"budget"`
	Points       int         `json:"points" yaml:"points"`
	Wins         int         `json:"wins" yaml:"wins"`
	Draws        int         `json:"draws" yaml:"draws"`
	Losses       int         `json:"losses" yaml:"losses"`
	GoalsFor     int         `json:"goals_for" yaml:"goals_for"`
	GoalsAgainst int         `json:"goals_against" yaml:"goals_against"`
	Squad        []PlayerDoc `json:"squad" yaml:"squad"`
	Youth        []PlayerDoc `json:"youth" yaml:"youth"`
}

type PlayerDoc struct {
	Name        *string `json:"name" yaml:"name"`
	Age         *int    `json:"age" yaml:"age"`
	Strength    *int    `json:"strength" yaml:"strength"`
	Technique   *int    `json:"technique" yaml:"technique"`
	Speed       *int    `json:"speed" yaml:"speed"`
	Morale      *int    `json:"morale" yaml:"morale"`
	Personality string  `json:"personality" yaml:"personality"`
	IsLegendary bool    `json:"isLegendary" yaml:"isLegendary"`

	Potential   *int `json:"potential,omitempty" yaml:"potential,omitempty"`
	Loyalty     *int `json:"loyalty,omitempty" yaml:"loyalty,omitempty"`
	Injured     bool `json:"injured,omitempty" yaml:"injured,omitempty"`
	Suspended   int  `json:"suspended,omitempty" yaml:"suspended,omitempty"`
	Goals       int  `json:"goals,omitempty" yaml:"goals,omitempty"`
	YellowCards int  `json:"yellow_cards,omitempty" yaml:"yellow_cards,omitempty"`
	RedCards    int  `json:"red_cards,omitempty" yaml:"red_cards,omitempty"`
}

type LeagueDoc struct {
	StateAbbr   *string      `json:"state_abbr" yaml:"state_abbr"`
	CurrentWeek *int         `json:"current_week" yaml:"current_week"`
	TotalWeeks  *int         `json:"total_weeks,omitempty" yaml:"total_weeks,omitempty"`
	Seed        int64        `json:"seed" yaml:"seed"`
	Fixtures    []FixtureDoc `json:"fixtures" yaml:"fixtures"`
}

type FixtureDoc struct {
	Week      int    `json:"week" yaml:"week"`
	Home      string `json:"home" yaml:"home"`
	Away      string `json:"away" yaml:"away"`
	GoalsHome *int   `json:"goals_home,omitempty" yaml:"goals_home,omitempty"`
	GoalsAway *int   `json:"goals_away,omitempty" yaml:"goals_away,omitempty"`
}

func ptr[T any](v T) *T { return &v }

// FromCareer captures c as a document.
func FromCareer(c *league.Career) *Document {
	doc := &Document{
		Meta: &MetaDoc{
			ID:        c.Meta.ID.String(),
			Coach:     c.Meta.Coach,
			Seed:      c.Meta.Seed,
			Season:    c.Meta.Season,
			Team:      c.Meta.Team,
			State:     c.Meta.State,
			CreatedAt: c.Meta.CreatedAt,
		},
		Clubs: make([]ClubDoc, 0, len(c.League.Clubs())),
	}
	for _, club := range c.League.Clubs() {
		doc.Clubs = append(doc.Clubs, ClubDoc{
			Name:         ptr(club.Name),
			StateAbbr:    ptr(club.StateAbbr),
			StateName:    club.StateName,
			Budget:       club.Budget,
			Points:       club.Points,
			Wins:         club.Wins,
			Draws:        club.Draws,
			Losses:       club.Losses,
			GoalsFor:     club.GoalsFor,
			GoalsAgainst: club.GoalsAgainst,
			Squad:        playerDocs(club.Squad),
			Youth:        playerDocs(club.Youth),
		})
	}
	if s := c.Season; s != nil {
		ld := &LeagueDoc{
			StateAbbr:   ptr(s.Region),
			CurrentWeek: ptr(s.CurrentWeek),
			TotalWeeks:  ptr(s.TotalWeeks),
			Seed:        s.Seed,
			Fixtures:    []FixtureDoc{},
		}
		for _, f := range s.Fixtures() {
			fd := FixtureDoc{Week: f.Week, Home: f.Home, Away: f.Away}
			if f.Score != nil {
				fd.GoalsHome, fd.GoalsAway = ptr(f.Score.Home), ptr(f.Score.Away)
			}
			ld.Fixtures = append(ld.Fixtures, fd)
		}
		doc.StateLeague = ld
	}
	return doc
}

func playerDocs(ps []*league.Player) []PlayerDoc {
	out := make([]PlayerDoc, 0, len(ps))
	for _, p := range ps {
		out = append(out, PlayerDoc{
			Name:        ptr(p.Name),
			Age:         ptr(p.Age),
			Strength:    ptr(p.Strength),
			Technique:   ptr(p.Technique),
			Speed:       ptr(p.Speed),
			Morale:      ptr(p.Morale),
			Personality: p.Personality,
			IsLegendary: p.IsLegendary,
			Potential:   ptr(p.Potential),
			Loyalty:     ptr(p.Loyalty),
			Injured:     p.Injured,
			Suspended:   p.Suspended,
			Goals:       p.Goals,
			YellowCards: p.YellowCards,
			RedCards:    p.RedCards,
		})
	}
	return out
}

// Career rebuilds an operable career. Any missing required field, broken
// standings record or dangling fixture reference fails the whole document.
func (d *Document) Career() (*league.Career, error) {
	if d.Meta == nil {
		return nil, fmt.Errorf("missing meta")
	}
	if d.Clubs == nil {
		return nil, fmt.Errorf("missing clubs")
	}

	meta := league.Meta{
		Coach:     d.Meta.Coach,
		Seed:      d.Meta.Seed,
		Season:    max(d.Meta.Season, 1),
		Team:      d.Meta.Team,
		State:     d.Meta.State,
		CreatedAt: d.Meta.CreatedAt,
	}
	if d.Meta.ID == "" {
		meta.ID = uuid.New()
	} else {
		id, err := uuid.Parse(d.Meta.ID)
		if err != nil {
			return nil, fmt.Errorf("meta.id: %w", err)
		}
		meta.ID = id
	}

	clubs := make([]*league.Club, 0, len(d.Clubs))
	for i, cd := range d.Clubs {
		club, err := cd.club()
		if err != nil {
			return nil, fmt.Errorf("clubs[%d]: %w", i, err)
		}
		clubs = append(clubs, club)
	}
	lg, err := league.NewLeague(clubs)
	if err != nil {
		return nil, err
	}
	if meta.Team != "" {
		if _, err := lg.Club(meta.Team); err != nil {
			return nil, fmt.Errorf("meta.team: %w", err)
		}
	}

	career := &league.Career{Meta: meta, League: lg}
	if d.StateLeague != nil {
		season, err := d.StateLeague.season(lg)
		if err != nil {
			return nil, fmt.Errorf("state_league: %w", err)
		}
		career.Season = season
	}
	return career, nil
}

func (cd ClubDoc) club() (*league.Club, error) {
	if cd.Name == nil || *cd.Name == "" {
		return nil, fmt.Errorf("missing name")
	}
	if cd.StateAbbr == nil {
		return nil, fmt.Errorf("%s: missing state_abbr", *cd.Name)
	}
	if cd.Points != 3*cd.Wins+cd.Draws {
		return nil, fmt.Errorf("%s: %d points do not match %d wins and %d draws", *cd.Name, cd.Points, cd.Wins, cd.Draws)
	}
	club := &league.Club{
		Name:         *cd.Name,
		StateAbbr:    *cd.StateAbbr,
		StateName:    cd.StateName,
		Budget:       cd.Budget,
		Points:       cd.Points,
		Wins:         cd.Wins,
		Draws:        cd.Draws,
		Losses:       cd.Losses,
		GoalsFor:     cd.GoalsFor,
		GoalsAgainst: cd.GoalsAgainst,
	}
	var err error
	if club.Squad, err = players(cd.Squad); err != nil {
		return nil, fmt.Errorf("%s squad: %w", club.Name, err)
	}
	if club.Youth, err = players(cd.Youth); err != nil {
		return nil, fmt.Errorf("%s youth: %w", club.Name, err)
	}
	return club, nil
}

func players(docs []PlayerDoc) ([]*league.Player, error) {
	out := make([]*league.Player, 0, len(docs))
	for i, pd := range docs {
		if pd.Name == nil || pd.Age == nil || pd.Strength == nil ||
			pd.Technique == nil || pd.Speed == nil || pd.Morale == nil {
			return nil, fmt.Errorf("player %d: missing required attribute", i)
		}
		p := &league.Player{
			Name:        *pd.Name,
			Age:         *pd.Age,
			Strength:    *pd.Strength,
			Technique:   *pd.Technique,
			Speed:       *pd.Speed,
			Morale:      *pd.Morale,
			Personality: pd.Personality,
			IsLegendary: pd.IsLegendary,
			Loyalty:     defaultLoyalty,
			Injured:     pd.Injured,
			Suspended:   pd.Suspended,
			Goals:       pd.Goals,
			YellowCards: pd.YellowCards,
			RedCards:    pd.RedCards,
		}
		if p.Personality == "" {
			p.Personality = defaultPersonality
		}
		p.Potential = p.Overall()
		if pd.Potential != nil {
			p.Potential = *pd.Potential
		}
		if pd.Loyalty != nil {
			p.Loyalty = *pd.Loyalty
		}
		out = append(out, p)
	}
	return out, nil
}

func (ld *LeagueDoc) season(lg *league.League) (*league.Season, error) {
	if ld.StateAbbr == nil {
		return nil, fmt.Errorf("missing state_abbr")
	}
	if ld.CurrentWeek == nil {
		return nil, fmt.Errorf("missing current_week")
	}
	if ld.Fixtures == nil {
		return nil, fmt.Errorf("missing fixtures")
	}
	fixtures := make([]league.Fixture, 0, len(ld.Fixtures))
	for i, fd := range ld.Fixtures {
		for _, name := range []string{fd.Home, fd.Away} {
			if _, err := lg.Club(name); err != nil {
				return nil, fmt.Errorf("fixtures[%d]: %w", i, err)
			}
		}
		f := league.Fixture{Week: fd.Week, Home: fd.Home, Away: fd.Away}
		switch {
		case fd.GoalsHome != nil && fd.GoalsAway != nil:
			f.Score = &league.Score{Home: *fd.GoalsHome, Away: *fd.GoalsAway}
		case fd.GoalsHome != nil || fd.GoalsAway != nil:
			return nil, fmt.Errorf("fixtures[%d]: partial score", i)
		}
		fixtures = append(fixtures, f)
	}
	season, err := league.RestoreSeason(*ld.StateAbbr, ld.Seed, *ld.CurrentWeek, fixtures)
	if err != nil {
		return nil, err
	}
	if ld.TotalWeeks != nil && *ld.TotalWeeks != season.TotalWeeks {
		return nil, fmt.Errorf("total_weeks %d disagrees with fixture list (%d)", *ld.TotalWeeks, season.TotalWeeks)
	}
	return season, nil
}
