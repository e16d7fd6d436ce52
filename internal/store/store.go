package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/utakatalp/league-simulator/internal/league"
	"github.com/utakatalp/league-simulator/internal/savegame"
)

var ErrCareerNotFound = errors.New("career not found")

const (
	rosterSquad = "squad"
	rosterYouth = "youth"
)

// Store wraps a Postgres connection and persists whole careers.
type Store struct {
	DB *sql.DB
}

// CareerSummary is one row of ListCareers.
type CareerSummary struct {
	ID        uuid.UUID
	Coach     string
	Team      string
	Season    int
	UpdatedAt time.Time
}

// NewStore opens a Postgres connection using the given connection string.
func NewStore(ctx context.Context, connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// verify early
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// Migrate creates the necessary tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS careers (
			id            UUID PRIMARY KEY,
			coach         TEXT        NOT NULL,
			seed          BIGINT      NOT NULL,
			season        INT         NOT NULL,
			team          TEXT        NOT NULL,
			state         TEXT        NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			region        TEXT,
			current_week  INT,
			total_weeks   INT,
			league_seed   BIGINT
		);`,
		`CREATE TABLE IF NOT EXISTS clubs (
			career_id     UUID   NOT NULL REFERENCES careers(id) ON DELETE CASCADE,
			position      INT    NOT NULL,
			name          TEXT   NOT NULL,
			state_abbr    TEXT   NOT NULL,
			state_name    TEXT   NOT NULL,
			budget        BIGINT NOT NULL DEFAULT 0,
			points        INT    NOT NULL DEFAULT 0,
			wins          INT    NOT NULL DEFAULT 0,
			draws         INT    NOT NULL DEFAULT 0,
			losses        INT    NOT NULL DEFAULT 0,
			goals_for     INT    NOT NULL DEFAULT 0,
			goals_against INT    NOT NULL DEFAULT 0,
			PRIMARY KEY (career_id, name)
		);`,
		`CREATE TABLE IF NOT EXISTS players (
			career_id     UUID    NOT NULL,
			club_name     TEXT    NOT NULL,
			roster        TEXT    NOT NULL,
			position      INT     NOT NULL,
			name          TEXT    NOT NULL,
			age           INT     NOT NULL,
			strength      INT     NOT NULL,
			technique     INT     NOT NULL,
			speed         INT     NOT NULL,
			morale        INT     NOT NULL,
			personality   TEXT    NOT NULL,
			is_legendary  BOOLEAN NOT NULL DEFAULT false,
			potential     INT     NOT NULL,
			loyalty       INT     NOT NULL,
			injured       BOOLEAN NOT NULL DEFAULT false,
			suspended     INT     NOT NULL DEFAULT 0,
			goals         INT     NOT NULL DEFAULT 0,
			yellow_cards  INT     NOT NULL DEFAULT 0,
			red_cards     INT     NOT NULL DEFAULT 0,
			PRIMARY KEY (career_id, club_name, roster, position),
			FOREIGN KEY (career_id, club_name) REFERENCES clubs(career_id, name) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS fixtures (
			career_id     UUID NOT NULL REFERENCES careers(id) ON DELETE CASCADE,
			position      INT  NOT NULL,
			week          INT  NOT NULL,
			home          TEXT NOT NULL,
			away          TEXT NOT NULL,
			goals_home    INT,
			goals_away    INT,
			PRIMARY KEY (career_id, position)
		);`,
	}
	for _, q := range queries {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

// SaveCareer replaces everything stored under the career's id in one
// transaction.
func (s *Store) SaveCareer(ctx context.Context, c *league.Career) error {
	doc := savegame.FromCareer(c)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin SaveCareer tx: %w", err)
	}
	defer tx.Rollback()

	var region, currentWeek, totalWeeks, leagueSeed any
	if ld := doc.StateLeague; ld != nil {
		region, currentWeek, totalWeeks, leagueSeed = *ld.StateAbbr, *ld.CurrentWeek, *ld.TotalWeeks, ld.Seed
	}
	const upsertCareer = `
	INSERT INTO careers (id, coach, seed, season, team, state, created_at, updated_at,
	                     region, current_week, total_weeks, league_seed)
	VALUES ($1, $2, $3, $4, $5, $6, $7, now(), $8, $9, $10, $11)
	ON CONFLICT (id) DO UPDATE SET
		coach = EXCLUDED.coach,
		seed = EXCLUDED.seed,
		season = EXCLUDED.season,
		team = EXCLUDED.team,
		state = EXCLUDED.state,
		updated_at = now(),
		region = EXCLUDED.region,
		current_week = EXCLUDED.current_week,
		total_weeks = EXCLUDED.total_weeks,
		league_seed = EXCLUDED.league_seed
	`
	m := doc.Meta
	if _, err := tx.ExecContext(ctx, upsertCareer,
		c.Meta.ID, m.Coach, m.Seed, m.Season, m.Team, m.State, m.CreatedAt,
		region, currentWeek, totalWeeks, leagueSeed,
	); err != nil {
		return fmt.Errorf("saving career %s: %w", c.Meta.ID, err)
	}

	for _, q := range []string{
		`DELETE FROM fixtures WHERE career_id = $1`,
		`DELETE FROM players WHERE career_id = $1`,
		`DELETE FROM clubs WHERE career_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, q, c.Meta.ID); err != nil {
			return fmt.Errorf("clearing career %s: %w", c.Meta.ID, err)
		}
	}

	const insertClub = `
	INSERT INTO clubs (career_id, position, name, state_abbr, state_name, budget,
	                   points, wins, draws, losses, goals_for, goals_against)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	for i, cd := range doc.Clubs {
		if _, err := tx.ExecContext(ctx, insertClub,
			c.Meta.ID, i, *cd.Name, *cd.StateAbbr, cd.StateName, cd.Budget,
			cd.Points, cd.Wins, cd.Draws, cd.Losses, cd.GoalsFor, cd.GoalsAgainst,
		); err != nil {
			return fmt.Errorf("inserting club %s: %w", *cd.Name, err)
		}
		if err := insertPlayers(ctx, tx, c.Meta.ID, *cd.Name, rosterSquad, cd.Squad); err != nil {
			return err
		}
		if err := insertPlayers(ctx, tx, c.Meta.ID, *cd.Name, rosterYouth, cd.Youth); err != nil {
			return err
		}
	}

	if ld := doc.StateLeague; ld != nil {
		const insertFixture = `
		INSERT INTO fixtures (career_id, position, week, home, away, goals_home, goals_away)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		for i, f := range ld.Fixtures {
			if _, err := tx.ExecContext(ctx, insertFixture,
				c.Meta.ID, i, f.Week, f.Home, f.Away, f.GoalsHome, f.GoalsAway,
			); err != nil {
				return fmt.Errorf("inserting fixture %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit SaveCareer tx: %w", err)
	}
	return nil
}

func insertPlayers(ctx context.Context, tx *sql.Tx, id uuid.UUID, club, roster string, players []savegame.PlayerDoc) error {
	const q = `
	INSERT INTO players (career_id, club_name, roster, position, name, age, strength,
	                     technique, speed, morale, personality, is_legendary, potential,
	                     loyalty, injured, suspended, goals, yellow_cards, red_cards)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	for i, p := range players {
		if _, err := tx.ExecContext(ctx, q,
			id, club, roster, i, *p.Name, *p.Age, *p.Strength,
			*p.Technique, *p.Speed, *p.Morale, p.Personality, p.IsLegendary, *p.Potential,
			*p.Loyalty, p.Injured, p.Suspended, p.Goals, p.YellowCards, p.RedCards,
		); err != nil {
			return fmt.Errorf("inserting %s player %s: %w", club, *p.Name, err)
		}
	}
	return nil
}

// LoadCareer rebuilds the career stored under id.
func (s *Store) LoadCareer(ctx context.Context, id uuid.UUID) (*league.Career, error) {
	doc := &savegame.Document{Meta: &savegame.MetaDoc{ID: id.String()}}

	var (
		region                  sql.NullString
		currentWeek, totalWeeks sql.NullInt64
		leagueSeed              sql.NullInt64
	)
	err := s.DB.QueryRowContext(ctx, `
	SELECT coach, seed, season, team, state, created_at,
	       region, current_week, total_weeks, league_seed
	FROM careers
	WHERE id = $1
	`, id).Scan(
		&doc.Meta.Coach, &doc.Meta.Seed, &doc.Meta.Season, &doc.Meta.Team, &doc.Meta.State, &doc.Meta.CreatedAt,
		&region, &currentWeek, &totalWeeks, &leagueSeed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCareerNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying career: %w", err)
	}
	doc.Meta.CreatedAt = doc.Meta.CreatedAt.UTC()

	if doc.Clubs, err = s.loadClubs(ctx, id); err != nil {
		return nil, err
	}
	if region.Valid {
		ld := &savegame.LeagueDoc{
			StateAbbr:   &region.String,
			CurrentWeek: ptr(int(currentWeek.Int64)),
			TotalWeeks:  ptr(int(totalWeeks.Int64)),
			Seed:        leagueSeed.Int64,
		}
		if ld.Fixtures, err = s.loadFixtures(ctx, id); err != nil {
			return nil, err
		}
		doc.StateLeague = ld
	}

	c, err := doc.Career()
	if err != nil {
		return nil, fmt.Errorf("rebuilding career %s: %w", id, err)
	}
	return c, nil
}

func (s *Store) loadClubs(ctx context.Context, id uuid.UUID) ([]savegame.ClubDoc, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT name, state_abbr, state_name, budget, points, wins, draws, losses,
	       goals_for, goals_against
	FROM clubs
	WHERE career_id = $1
	ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying clubs: %w", err)
	}
	defer rows.Close()

	clubs := []savegame.ClubDoc{}
	index := make(map[string]int)
	for rows.Next() {
		var name, abbr string
		cd := savegame.ClubDoc{Squad: []savegame.PlayerDoc{}, Youth: []savegame.PlayerDoc{}}
		if err := rows.Scan(
			&name, &abbr, &cd.StateName, &cd.Budget, &cd.Points, &cd.Wins, &cd.Draws, &cd.Losses,
			&cd.GoalsFor, &cd.GoalsAgainst,
		); err != nil {
			return nil, fmt.Errorf("scanning club row: %w", err)
		}
		cd.Name, cd.StateAbbr = &name, &abbr
		index[name] = len(clubs)
		clubs = append(clubs, cd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating club rows: %w", err)
	}

	prows, err := s.DB.QueryContext(ctx, `
	SELECT club_name, roster, name, age, strength, technique, speed, morale,
	       personality, is_legendary, potential, loyalty, injured, suspended,
	       goals, yellow_cards, red_cards
	FROM players
	WHERE career_id = $1
	ORDER BY club_name, roster, position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var club, roster, name string
		var age, strength, technique, speed, morale, potential, loyalty int
		var p savegame.PlayerDoc
		if err := prows.Scan(
			&club, &roster, &name, &age, &strength, &technique, &speed, &morale,
			&p.Personality, &p.IsLegendary, &potential, &loyalty, &p.Injured, &p.Suspended,
			&p.Goals, &p.YellowCards, &p.RedCards,
		); err != nil {
			return nil, fmt.Errorf("scanning player row: %w", err)
		}
		p.Name, p.Age, p.Strength, p.Technique, p.Speed, p.Morale = &name, &age, &strength, &technique, &speed, &morale
		p.Potential, p.Loyalty = &potential, &loyalty

		i, ok := index[club]
		if !ok {
			return nil, fmt.Errorf("player %s belongs to unknown club %s", name, club)
		}
		if roster == rosterYouth {
			clubs[i].Youth = append(clubs[i].Youth, p)
		} else {
			clubs[i].Squad = append(clubs[i].Squad, p)
		}
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("iterating player rows: %w", err)
	}
	return clubs, nil
}

func (s *Store) loadFixtures(ctx context.Context, id uuid.UUID) ([]savegame.FixtureDoc, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT week, home, away, goals_home, goals_away
	FROM fixtures
	WHERE career_id = $1
	ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying fixtures: %w", err)
	}
	defer rows.Close()

	fixtures := []savegame.FixtureDoc{}
	for rows.Next() {
		var f savegame.FixtureDoc
		var gh, ga sql.NullInt64
		if err := rows.Scan(&f.Week, &f.Home, &f.Away, &gh, &ga); err != nil {
			return nil, fmt.Errorf("scanning fixture: %w", err)
		}
		if gh.Valid && ga.Valid {
			f.GoalsHome, f.GoalsAway = ptr(int(gh.Int64)), ptr(int(ga.Int64))
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, rows.Err()
}

// ListCareers returns every stored career, most recently saved first.
func (s *Store) ListCareers(ctx context.Context) ([]CareerSummary, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, coach, team, season, updated_at
	FROM careers
	ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying careers: %w", err)
	}
	defer rows.Close()

	var out []CareerSummary
	for rows.Next() {
		var cs CareerSummary
		if err := rows.Scan(&cs.ID, &cs.Coach, &cs.Team, &cs.Season, &cs.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning career row: %w", err)
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating career rows: %w", err)
	}
	return out, nil
}

// DeleteCareer removes a career; clubs, players and fixtures cascade.
func (s *Store) DeleteCareer(ctx context.Context, id uuid.UUID) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM careers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting career: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrCareerNotFound, id)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
