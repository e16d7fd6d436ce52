package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/utakatalp/league-simulator/internal/api"
	"github.com/utakatalp/league-simulator/internal/config"
	"github.com/utakatalp/league-simulator/internal/league"
	"github.com/utakatalp/league-simulator/internal/roster"
	"github.com/utakatalp/league-simulator/internal/savegame"
	"github.com/utakatalp/league-simulator/internal/store"
)

const usage = `usage: league-sim <command> [flags]

commands:
  new     start a career (-coach, -state, -team, -seed)
  play    play the next weeks of the state league (-weeks)
  table   print the state league table
  odds    estimate title chances (-runs)
  train   run a training session for the coach's squad (-focus)
  next    start the next season once the current one is over
  serve   serve the career over HTTP
`

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Args[1:]); err != nil {
		logger.Error("league-sim failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errors.New("missing command")
	}

	repo, err := openRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "new":
		return cmdNew(ctx, cfg, logger, repo, rest)
	case "play":
		return cmdPlay(ctx, logger, repo, rest)
	case "table":
		return cmdTable(ctx, repo)
	case "odds":
		return cmdOdds(ctx, cfg, repo, rest)
	case "train":
		return cmdTrain(ctx, logger, repo, rest)
	case "next":
		return cmdNext(ctx, logger, repo)
	case "serve":
		return cmdServe(ctx, cfg, logger, repo)
	}
	fmt.Fprint(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", cmd)
}

// repo is where the career lives between runs.
type repo interface {
	Load(ctx context.Context) (*league.Career, error)
	Save(ctx context.Context, c *league.Career) error
	Close() error
}

type fileRepo struct {
	savegame.FileStore
}

func (r fileRepo) Load(context.Context) (*league.Career, error) { return r.FileStore.Load() }

func (r fileRepo) Save(_ context.Context, c *league.Career) error { return r.FileStore.Save(c) }

func (fileRepo) Close() error { return nil }

type pgRepo struct {
	st *store.Store
	id uuid.UUID
}

func (r *pgRepo) Load(ctx context.Context) (*league.Career, error) {
	if r.id == uuid.Nil {
		return nil, errors.New("CAREER_ID is required with postgres storage")
	}
	return r.st.LoadCareer(ctx, r.id)
}

func (r *pgRepo) Save(ctx context.Context, c *league.Career) error {
	r.id = c.Meta.ID
	return r.st.SaveCareer(ctx, c)
}

func (r *pgRepo) Close() error { return r.st.Close() }

func openRepo(ctx context.Context, cfg *config.Config) (repo, error) {
	if cfg.Storage == config.StorageFile {
		return fileRepo{savegame.FileStore{Path: cfg.SavePath}}, nil
	}

	st, err := store.NewStore(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	r := &pgRepo{st: st}
	if cfg.CareerID != "" {
		if r.id, err = uuid.Parse(cfg.CareerID); err != nil {
			st.Close()
			return nil, fmt.Errorf("CAREER_ID: %w", err)
		}
	}
	return r, nil
}

func cmdNew(ctx context.Context, cfg *config.Config, logger *slog.Logger, r repo, args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	coach := fs.String("coach", "Coach", "coach name")
	state := fs.String("state", "SP", "state code of the coach's club")
	team := fs.String("team", "", "club name (first club of the state when empty)")
	seed := fs.Int64("seed", 0, "world seed (random when 0)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *seed == 0 {
		*seed = 1 + rand.Int64N(1_000_000)
	}

	clubs := roster.Generate(rand.New(rand.NewPCG(uint64(*seed), 0)), roster.Options{
		ClubsPerState: cfg.ClubsPerState,
		SquadSize:     cfg.SquadSize,
		YouthSize:     cfg.YouthSize,
	})
	if *team == "" {
		for _, c := range clubs {
			if c.StateAbbr == *state {
				*team = c.Name
				break
			}
		}
		if *team == "" {
			return fmt.Errorf("no clubs in state %q", *state)
		}
	}

	career, err := league.NewCareer(league.Meta{Coach: *coach, Seed: *seed, Team: *team}, clubs)
	if err != nil {
		return err
	}
	if err := r.Save(ctx, career); err != nil {
		return fmt.Errorf("saving new career: %w", err)
	}
	logger.Info("career created",
		"id", career.Meta.ID,
		"team", career.Meta.Team,
		"seed", career.Meta.Seed,
		"weeks", career.Season.TotalWeeks,
	)
	fmt.Printf("%s takes charge of %s (%s). Career %s, %d weeks to play.\n",
		career.Meta.Coach, career.Meta.Team, career.Meta.State, career.Meta.ID, career.Season.TotalWeeks)
	return nil
}

func cmdPlay(ctx context.Context, logger *slog.Logger, r repo, args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	weeks := fs.Int("weeks", 1, "number of weeks to play")
	if err := fs.Parse(args); err != nil {
		return err
	}

	career, err := r.Load(ctx)
	if err != nil {
		return err
	}
	for i := 0; i < *weeks; i++ {
		if career.Season == nil || career.Season.IsFinished() {
			fmt.Println("The state league is over.")
			break
		}
		week := career.Season.CurrentWeek
		results, err := career.PlayWeek()
		if err != nil {
			return err
		}
		// a played week is never replayed, so save each one
		if err := r.Save(ctx, career); err != nil {
			return fmt.Errorf("saving week %d: %w", week, err)
		}
		logger.Debug("week played", "week", week, "matches", len(results))

		fmt.Printf("Week %d\n", week)
		for _, res := range results {
			fmt.Printf("  %s %d x %d %s\n", res.Home, res.GoalsHome, res.GoalsAway, res.Away)
			for _, ev := range res.Timeline {
				if ev.Kind == league.Goal || ev.Kind == league.RedCard {
					fmt.Printf("    %2d' %s: %s (%s)\n", ev.Minute, ev.Club, ev.Kind, ev.Player)
				}
			}
		}
	}
	return nil
}

func cmdTable(ctx context.Context, r repo) error {
	career, err := r.Load(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
	fmt.Fprintln(tw, "Pos\tClub\tP\tW\tD\tL\tGF\tGA\tGD\tPts")
	for _, e := range career.Standings() {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			e.Position, e.Club, e.Played, e.Wins, e.Draws, e.Losses,
			e.GoalsFor, e.GoalsAgainst, e.GoalDiff, e.Points)
	}
	return tw.Flush()
}

func cmdOdds(ctx context.Context, cfg *config.Config, r repo, args []string) error {
	fs := flag.NewFlagSet("odds", flag.ContinueOnError)
	runs := fs.Int("runs", cfg.OddsRuns, "simulated seasons")
	if err := fs.Parse(args); err != nil {
		return err
	}

	career, err := r.Load(ctx)
	if err != nil {
		return err
	}
	if career.Season == nil {
		return league.ErrNoSeason
	}
	rng := rand.New(rand.NewPCG(uint64(career.Meta.Seed), uint64(career.Season.CurrentWeek)))
	preds, err := career.TitleOdds(*runs, rng)
	if err != nil {
		return err
	}
	for _, p := range preds {
		fmt.Printf("%6.2f%%  %s\n", p.Probability, p.Club)
	}
	return nil
}

func cmdTrain(ctx context.Context, logger *slog.Logger, r repo, args []string) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	focus := fs.String("focus", string(league.FocusTechnique), "strength, technique, speed or morale")
	if err := fs.Parse(args); err != nil {
		return err
	}
	switch league.Focus(*focus) {
	case league.FocusStrength, league.FocusTechnique, league.FocusSpeed, league.FocusMorale:
	default:
		return fmt.Errorf("unknown focus %q", *focus)
	}

	career, err := r.Load(ctx)
	if err != nil {
		return err
	}
	team, err := career.TrainTeam(league.Focus(*focus))
	if err != nil {
		return err
	}
	if err := r.Save(ctx, career); err != nil {
		return err
	}
	logger.Info("squad trained", "team", team.Name, "focus", *focus, "rating", team.Rating())
	return nil
}

func cmdNext(ctx context.Context, logger *slog.Logger, r repo) error {
	career, err := r.Load(ctx)
	if err != nil {
		return err
	}
	if err := career.StartNextSeason(); err != nil {
		return err
	}
	if err := r.Save(ctx, career); err != nil {
		return err
	}
	logger.Info("season started", "season", career.Meta.Season, "weeks", career.Season.TotalWeeks)
	return nil
}

func cmdServe(ctx context.Context, cfg *config.Config, logger *slog.Logger, r repo) error {
	career, err := r.Load(ctx)
	if err != nil {
		return err
	}
	saver := api.SaverFunc(func(c *league.Career) error { return r.Save(ctx, c) })
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewServer(career, saver, logger, cfg.OddsRuns).Handler(cfg.Origins()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr, "career", career.Meta.ID)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
