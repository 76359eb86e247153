// Package console implements the wordplan command line interface.
package console

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/aliskhannn/wordplan/internal/catalog"
	"github.com/aliskhannn/wordplan/internal/clock"
	"github.com/aliskhannn/wordplan/internal/config"
	"github.com/aliskhannn/wordplan/internal/infra/postgres"
	"github.com/aliskhannn/wordplan/internal/logger"
	"github.com/aliskhannn/wordplan/internal/ranking"
	"github.com/aliskhannn/wordplan/internal/repository"
	"github.com/aliskhannn/wordplan/internal/service"
)

const defaultUser = "local"

var globalFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "config, c",
		Usage: "path to the config file (default: ./config/config.yaml)",
	},
	cli.StringFlag{
		Name:   "user, u",
		Usage:  "learner to act as",
		Value:  defaultUser,
		EnvVar: "WORDPLAN_USER",
	},
	cli.StringFlag{
		Name:  "now",
		Usage: "pretend the current time is this RFC 3339 time or YYYY-MM-DD day",
	},
	cli.DurationFlag{
		Name:  "advance",
		Usage: "move the clock forward by this duration, e.g. 48h",
	},
	cli.BoolFlag{
		Name:  "verbose",
		Usage: "enable debug logging",
	},
}

type app struct {
	ctx context.Context
	fs  afero.Fs
	in  io.Reader
	out io.Writer
}

// Execute runs the command line app with args. Answers for interactive
// commands are read from in.
func Execute(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	a := &app{ctx: ctx, fs: afero.NewOsFs(), in: in, out: out}

	cliApp := cli.NewApp()
	cliApp.Name = "wordplan"
	cliApp.HelpName = "wordplan"
	cliApp.Usage = "plan, learn and review vocabulary"
	cliApp.UsageText = "wordplan [global options] <command> [arguments...]"
	cliApp.Version = "1.0.0"
	cliApp.Writer = out
	cliApp.Flags = globalFlags
	cliApp.Commands = a.commands()

	return cliApp.Run(args)
}

// env is everything a command needs to serve one learner.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	books   *catalog.Catalog
	session *service.Session
	scores  *service.ScoreService
}

type envAction func(c *cli.Context, e *env) error

// withEnv opens the learner's session before running fn.
func (a *app) withEnv(fn envAction) func(c *cli.Context) error {
	return func(c *cli.Context) error {
		e, closeFn, err := a.open(c)
		if err != nil {
			return err
		}
		defer closeFn()
		defer func() { _ = e.logger.Sync() }()

		return fn(c, e)
	}
}

func (a *app) open(c *cli.Context) (*env, func(), error) {
	cfg, log, err := a.setup(c)
	if err != nil {
		return nil, nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	books, err := catalog.Load(a.fs, cfg.Catalog.Path, cfg.Catalog.Sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}

	if err = cfg.RequireDatabase(); err != nil {
		return nil, nil, err
	}
	store, closeStore, err := repository.Open(a.ctx, repository.Options{
		Driver: cfg.Storage.Driver,
		Path:   cfg.Storage.Path,
		DSN:    cfg.DB.URL,
		Fs:     a.fs,
		Pool: postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}

	clk, err := newClock(c, loc)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	sess, err := service.OpenSession(a.ctx, c.GlobalString("user"), store, books, clk, loc, log)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	var client service.RankingClient
	if cfg.Ranking.BaseURL != "" {
		client = ranking.NewClient(cfg.Ranking.BaseURL, cfg.Ranking.Timeout)
	}

	return &env{
		cfg:     cfg,
		logger:  log,
		books:   books,
		session: sess,
		scores:  service.NewScoreService(client, store, log),
	}, closeStore, nil
}

func (a *app) setup(c *cli.Context) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.NewCLI(c.GlobalBool("verbose"))
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

// newClock returns the system clock unless --now or --advance asks for a
// fixed point in time.
func newClock(c *cli.Context, loc *time.Location) (clock.Clock, error) {
	nowFlag := c.GlobalString("now")
	advance := c.GlobalDuration("advance")
	if nowFlag == "" && advance == 0 {
		return clock.System{}, nil
	}

	start := time.Now()
	if nowFlag != "" {
		t, err := parseTime(nowFlag, loc)
		if err != nil {
			return nil, err
		}
		start = t
	}

	l := clock.NewLogical(start)
	l.Advance(advance)
	return l, nil
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(clock.DayLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: want RFC 3339 time or YYYY-MM-DD", s)
	}
	return t, nil
}
