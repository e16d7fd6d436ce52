// Package api serves a career over HTTP.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/utakatalp/league-simulator/internal/league"
)

var (
	errBadRequest    = errors.New("bad request")
	errSeasonRunning = errors.New("season still running")
)

const maxOddsRuns = 20_000

// Saver persists a career after it changes.
type Saver interface {
	Save(c *league.Career) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(c *league.Career) error

func (f SaverFunc) Save(c *league.Career) error { return f(c) }

// Server owns one career. The engine is single-threaded, so every
// request runs under mu.
type Server struct {
	mu       sync.Mutex
	career   *league.Career
	saver    Saver
	logger   *slog.Logger
	oddsRuns int
}

func NewServer(c *league.Career, saver Saver, logger *slog.Logger, oddsRuns int) *Server {
	return &Server{career: c, saver: saver, logger: logger, oddsRuns: oddsRuns}
}

// Handler builds the router wrapped in CORS handling.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/health", s.health).Methods(http.MethodGet)
	v1.HandleFunc("/career", s.getCareer).Methods(http.MethodGet)
	v1.HandleFunc("/table", s.getTable).Methods(http.MethodGet)
	v1.HandleFunc("/fixtures", s.getFixtures).Methods(http.MethodGet)
	v1.HandleFunc("/weeks/{week:[0-9]+}/fixtures", s.getWeek).Methods(http.MethodGet)
	v1.HandleFunc("/weeks/play", s.playWeek).Methods(http.MethodPost)
	v1.HandleFunc("/season/next", s.nextSeason).Methods(http.MethodPost)
	v1.HandleFunc("/odds", s.getOdds).Methods(http.MethodGet)
	v1.HandleFunc("/clubs/{name}", s.getClub).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(r)
}

type careerView struct {
	ID          string `json:"id"`
	Coach       string `json:"coach"`
	Team        string `json:"team"`
	State       string `json:"state"`
	Season      int    `json:"season"`
	Region      string `json:"region,omitempty"`
	CurrentWeek int    `json:"current_week"`
	TotalWeeks  int    `json:"total_weeks"`
	Finished    bool   `json:"finished"`
}

type fixtureView struct {
	Week      int    `json:"week"`
	Home      string `json:"home"`
	Away      string `json:"away"`
	GoalsHome *int   `json:"goals_home,omitempty"`
	GoalsAway *int   `json:"goals_away,omitempty"`
}

type playerView struct {
	Name        string `json:"name"`
	Age         int    `json:"age"`
	Overall     int    `json:"overall"`
	Strength    int    `json:"strength"`
	Technique   int    `json:"technique"`
	Speed       int    `json:"speed"`
	Morale      int    `json:"morale"`
	Personality string `json:"personality"`
	Injured     bool   `json:"injured"`
	Suspended   int    `json:"suspended"`
	Goals       int    `json:"goals"`
	YellowCards int    `json:"yellow_cards"`
	RedCards    int    `json:"red_cards"`
}

type clubView struct {
	Name      string       `json:"name"`
	StateAbbr string       `json:"state_abbr"`
	StateName string       `json:"state_name"`
	Budget    int64        `json:"budget"`
	Rating    float64      `json:"rating"`
	Points    int          `json:"points"`
	Squad     []playerView `json:"squad"`
	Youth     []playerView `json:"youth"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) getCareer(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.career.Meta
	v := careerView{
		ID:     m.ID.String(),
		Coach:  m.Coach,
		Team:   m.Team,
		State:  m.State,
		Season: m.Season,
	}
	if season := s.career.Season; season != nil {
		v.Region = season.Region
		v.CurrentWeek = season.CurrentWeek
		v.TotalWeeks = season.TotalWeeks
		v.Finished = season.IsFinished()
	}
	RespondJSON(w, http.StatusOK, v)
}

func (s *Server) getTable(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.career.Standings()
	if table == nil {
		table = []league.TableEntry{}
	}
	RespondJSON(w, http.StatusOK, table)
}

func (s *Server) getFixtures(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.career.Season == nil {
		RespondError(w, league.ErrNoSeason)
		return
	}
	RespondJSON(w, http.StatusOK, fixtureViews(s.career.Season.Fixtures()))
}

func (s *Server) getWeek(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(mux.Vars(r)["week"])
	if err != nil {
		RespondError(w, fmt.Errorf("%w: week: %v", errBadRequest, err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.career.Season == nil {
		RespondError(w, league.ErrNoSeason)
		return
	}
	RespondJSON(w, http.StatusOK, fixtureViews(s.career.Season.FixturesOfWeek(week)))
}

func (s *Server) playWeek(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results, err := s.career.PlayWeek()
	if err != nil {
		s.logger.Warn("play week failed", "error", err)
		RespondError(w, err)
		return
	}
	s.logger.Info("week played",
		"career", s.career.Meta.ID,
		"week", s.career.Season.CurrentWeek-1,
		"matches", len(results),
	)
	if err := s.saver.Save(s.career); err != nil {
		s.logger.Error("saving career", "error", err)
		RespondError(w, err)
		return
	}
	if results == nil {
		results = []*league.MatchResult{}
	}
	RespondJSON(w, http.StatusOK, results)
}

func (s *Server) nextSeason(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.career.Season != nil && !s.career.Season.IsFinished() {
		RespondError(w, errSeasonRunning)
		return
	}
	if err := s.career.StartNextSeason(); err != nil {
		RespondError(w, err)
		return
	}
	if err := s.saver.Save(s.career); err != nil {
		s.logger.Error("saving career", "error", err)
		RespondError(w, err)
		return
	}
	s.logger.Info("season started", "career", s.career.Meta.ID, "season", s.career.Meta.Season)
	RespondJSON(w, http.StatusCreated, map[string]int{"season": s.career.Meta.Season})
}

func (s *Server) getOdds(w http.ResponseWriter, r *http.Request) {
	runs := s.oddsRuns
	if q := r.URL.Query().Get("runs"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > maxOddsRuns {
			RespondError(w, fmt.Errorf("%w: runs must be between 1 and %d", errBadRequest, maxOddsRuns))
			return
		}
		runs = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.career.Season == nil {
		RespondError(w, league.ErrNoSeason)
		return
	}
	// Same state, same odds
	rng := rand.New(rand.NewPCG(uint64(s.career.Meta.Seed), uint64(s.career.Season.CurrentWeek)))
	preds, err := s.career.TitleOdds(runs, rng)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, preds)
}

func (s *Server) getClub(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	club, err := s.career.League.Club(mux.Vars(r)["name"])
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, clubView{
		Name:      club.Name,
		StateAbbr: club.StateAbbr,
		StateName: club.StateName,
		Budget:    club.Budget,
		Rating:    club.Rating(),
		Points:    club.Points,
		Squad:     playerViews(club.Squad),
		Youth:     playerViews(club.Youth),
	})
}

func fixtureViews(fs []league.Fixture) []fixtureView {
	out := make([]fixtureView, 0, len(fs))
	for _, f := range fs {
		v := fixtureView{Week: f.Week, Home: f.Home, Away: f.Away}
		if f.Score != nil {
			v.GoalsHome, v.GoalsAway = &f.Score.Home, &f.Score.Away
		}
		out = append(out, v)
	}
	return out
}

func playerViews(ps []*league.Player) []playerView {
	out := make([]playerView, 0, len(ps))
	for _, p := range ps {
		out = append(out, playerView{
			Name:        p.Name,
			Age:         p.Age,
			Overall:     p.Overall(),
			Strength:    p.Strength,
			Technique:   p.Technique,
			Speed:       p.Speed,
			Morale:      p.Morale,
			Personality: p.Personality,
			Injured:     p.Injured,
			Suspended:   p.Suspended,
			Goals:       p.Goals,
			YellowCards: p.YellowCards,
			RedCards:    p.RedCards,
		})
	}
	return out
}
