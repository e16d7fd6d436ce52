package savegame

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utakatalp/league-simulator/internal/league"
	"github.com/utakatalp/league-simulator/internal/roster"
)

func newCareer(t *testing.T) *league.Career {
	t.Helper()
	clubs := roster.Generate(rand.New(rand.NewPCG(5, 0)), roster.Options{
		ClubsPerState: 5,
		SquadSize:     16,
		YouthSize:     3,
		States:        []roster.State{{Abbr: "SP", Name: "São Paulo"}, {Abbr: "RJ", Name: "Rio de Janeiro"}},
	})
	c, err := league.NewCareer(league.Meta{
		Coach:     "Tite",
		Seed:      5,
		Team:      clubs[0].Name,
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}, clubs)
	require.NoError(t, err)
	return c
}

func playWeeks(t *testing.T, c *league.Career, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := c.PlayWeek()
		require.NoError(t, err)
	}
}

func mustJSON(t *testing.T, c *league.Career) string {
	t.Helper()
	data, err := Marshal(c, JSON)
	require.NoError(t, err)
	return string(data)
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	for _, name := range []string{"career.save.json", "career.save.yaml"} {
		t.Run(name, func(t *testing.T) {
			c := newCareer(t)
			playWeeks(t, c, 3)

			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(path, c))
			got, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, c.Meta, got.Meta)
			assert.Equal(t, 4, got.Season.CurrentWeek)
			assert.Equal(t, c.Season.TotalWeeks, got.Season.TotalWeeks)
			assert.Equal(t, c.Season.Fixtures(), got.Season.Fixtures())
			assert.Equal(t, c.Standings(), got.Standings())
			assert.Equal(t, mustJSON(t, c), mustJSON(t, got))
		})
	}
}

func TestSaveLoad_ResumeMatchesUninterrupted(t *testing.T) {
	a := newCareer(t)
	playWeeks(t, a, 2)

	path := filepath.Join(t.TempDir(), "career.save.json")
	require.NoError(t, Save(path, a))
	b, err := Load(path)
	require.NoError(t, err)

	for !a.Season.IsFinished() {
		ra, err := a.PlayWeek()
		require.NoError(t, err)
		rb, err := b.PlayWeek()
		require.NoError(t, err)
		assert.Equal(t, ra, rb)
	}
	assert.True(t, b.Season.IsFinished())
	assert.Equal(t, mustJSON(t, a), mustJSON(t, b))
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "saves")
	path := filepath.Join(dir, "career.save.json")
	c := newCareer(t)

	require.NoError(t, Save(path, c))
	playWeeks(t, c, 1)
	require.NoError(t, Save(path, c))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "career.save.json", entries[0].Name())
}

func TestLoad_DefaultsOptionalFields(t *testing.T) {
	path := writeFile(t, "old.json", `{
  "meta": {"coach": "Zico", "seed": 3, "season": 2, "team": "Alpha", "state": "SP"},
  "clubs": [
    {"name": "Alpha", "state_abbr": "SP", "points": 4, "wins": 1, "draws": 1, "losses": 0,
     "squad": [{"name": "Pelé", "age": 20, "strength": 50, "technique": 60, "speed": 70, "morale": 55}]},
    {"name": "Beta", "state_abbr": "SP", "points": 1, "wins": 0, "draws": 1, "losses": 1, "squad": []}
  ],
  "state_league": {
    "state_abbr": "SP", "current_week": 2, "seed": 3,
    "fixtures": [
      {"week": 1, "home": "Alpha", "away": "Beta", "goals_home": 1, "goals_away": 1},
      {"week": 2, "home": "Beta", "away": "Alpha"}
    ]
  }
}`)

	c, err := Load(path)
	require.NoError(t, err)

	alpha, err := c.League.Club("Alpha")
	require.NoError(t, err)
	p := alpha.Squad[0]
	assert.Equal(t, "Neutral", p.Personality)
	assert.Equal(t, 60, p.Potential)
	assert.Equal(t, 50, p.Loyalty)
	assert.Empty(t, alpha.Youth)

	assert.Equal(t, 2, c.Meta.Season)
	assert.Equal(t, 2, c.Season.TotalWeeks)
	assert.Equal(t, 2, c.Season.CurrentWeek)
	assert.Equal(t, &league.Score{Home: 1, Away: 1}, c.Season.Fixtures()[0].Score)
	assert.Nil(t, c.Season.Fixtures()[1].Score)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))

	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, errors.Is(err, ErrSchema))
}

func TestLoad_SchemaErrors(t *testing.T) {
	const clubs = `[
    {"name": "Alpha", "state_abbr": "SP", "squad": []},
    {"name": "Beta", "state_abbr": "SP", "squad": []}
  ]`

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"meta": `},
		{"missing meta", `{"clubs": ` + clubs + `}`},
		{"missing clubs", `{"meta": {"team": "Alpha"}}`},
		{"bad id", `{"meta": {"id": "nope", "team": "Alpha"}, "clubs": ` + clubs + `}`},
		{"unknown team", `{"meta": {"team": "Gamma"}, "clubs": ` + clubs + `}`},
		{"missing player attribute", `{"meta": {"team": "Alpha"}, "clubs": [
			{"name": "Alpha", "state_abbr": "SP", "squad": [{"name": "X", "age": 20, "strength": 50, "technique": 50, "speed": 50}]}]}`},
		{"points mismatch", `{"meta": {"team": "Alpha"}, "clubs": [
			{"name": "Alpha", "state_abbr": "SP", "points": 5, "wins": 1, "draws": 1, "squad": []}]}`},
		{"duplicate club", `{"meta": {"team": "Alpha"}, "clubs": [
			{"name": "Alpha", "state_abbr": "SP"}, {"name": "Alpha", "state_abbr": "RJ"}]}`},
		{"dangling fixture", `{"meta": {"team": "Alpha"}, "clubs": ` + clubs + `, "state_league": {
			"state_abbr": "SP", "current_week": 1, "fixtures": [{"week": 1, "home": "Alpha", "away": "Gamma"}]}}`},
		{"missing current week", `{"meta": {"team": "Alpha"}, "clubs": ` + clubs + `, "state_league": {
			"state_abbr": "SP", "fixtures": [{"week": 1, "home": "Alpha", "away": "Beta"}]}}`},
		{"partial score", `{"meta": {"team": "Alpha"}, "clubs": ` + clubs + `, "state_league": {
			"state_abbr": "SP", "current_week": 1, "fixtures": [{"week": 1, "home": "Alpha", "away": "Beta", "goals_home": 2}]}}`},
		{"total weeks disagree", `{"meta": {"team": "Alpha"}, "clubs": ` + clubs + `, "state_league": {
			"state_abbr": "SP", "current_week": 1, "total_weeks": 6, "fixtures": [{"week": 1, "home": "Alpha", "away": "Beta"}]}}`},
		{"week past end", `{"meta": {"team": "Alpha"}, "clubs": ` + clubs + `, "state_league": {
			"state_abbr": "SP", "current_week": 5, "fixtures": [{"week": 1, "home": "Alpha", "away": "Beta"}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "career.json", tt.body))

			var lerr *LoadError
			require.ErrorAs(t, err, &lerr)
			assert.ErrorIs(t, err, ErrSchema)
		})
	}
}

func TestLoad_DanglingFixtureNamesClub(t *testing.T) {
	path := writeFile(t, "career.yaml", `
meta: {team: Alpha}
clubs:
  - {name: Alpha, state_abbr: SP}
  - {name: Beta, state_abbr: SP}
state_league:
  state_abbr: SP
  current_week: 1
  fixtures:
    - {week: 1, home: Ghost, away: Beta}
`)
	_, err := Load(path)

	var unknown *league.UnknownClubError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Ghost", unknown.Name)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestUnmarshal_WrapsSchema(t *testing.T) {
	_, err := Unmarshal([]byte("meta: ["), YAML)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, YAML, FormatFor("a/b.YML"))
	assert.Equal(t, YAML, FormatFor("career.save.yaml"))
	assert.Equal(t, JSON, FormatFor("career.save.json"))
	assert.Equal(t, JSON, FormatFor("career"))
}

func TestLoad_DuplicatePlayerNameInClub(t *testing.T) {
	path := writeFile(t, "career.json", `{
  "meta": {"team": "Alpha"},
  "clubs": [
    {"name": "Alpha", "state_abbr": "SP",
     "squad": [
       {"name": "X", "age": 24, "strength": 60, "technique": 60, "speed": 60, "morale": 60, "injured": true},
       {"name": "X", "age": 27, "strength": 70, "technique": 70, "speed": 70, "morale": 60}
     ]},
    {"name": "Beta", "state_abbr": "SP", "squad": []}
  ]
}`)
	_, err := Load(path)

	var dup *league.DuplicatePlayerError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Alpha", dup.Club)
	assert.Equal(t, "X", dup.Player)
	assert.ErrorIs(t, err, ErrSchema)

	_, err = Unmarshal([]byte(`{"meta": {"team": "Alpha"}, "clubs": [{"name": "Alpha", "state_abbr": "SP",
		"squad": [{"name": "X", "age": 20, "strength": 50, "technique": 50, "speed": 50, "morale": 50}],
		"youth": [{"name": "X", "age": 16, "strength": 40, "technique": 40, "speed": 40, "morale": 50}]}]}`), JSON)
	assert.ErrorAs(t, err, &dup)
	assert.ErrorIs(t, err, ErrSchema)
}
