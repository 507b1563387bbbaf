package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/hilt/cli/config"
	"github.com/justapithecus/hilt/log"
	"github.com/justapithecus/hilt/report"
	"github.com/justapithecus/hilt/session"
	"github.com/justapithecus/hilt/types"
)

// timeNow is swappable in tests for stable timestamped paths.
var timeNow = time.Now

// Exit codes for the labeling commands.
const (
	exitSuccess     = 0
	exitFatal       = 1
	exitInterrupted = 130
)

// labelAction is the shared action behind classify and rank.
func labelAction(task types.Task) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return cli.Exit(err.Error(), exitFatal)
		}

		dirs := cfg.ResolveDirs()
		if err := dirs.Ensure(); err != nil {
			return cli.Exit(fmt.Sprintf("create directories: %v", err), exitFatal)
		}

		seed := cfg.SeedOr(config.DefaultSeed)
		if c.IsSet("seed") {
			seed = c.Int64("seed")
		}
		maxLen := cfg.MaxLenOr(config.DefaultMaxLen)
		if c.IsSet("max-len") {
			maxLen = c.Int("max-len")
		}

		annotator := cfg.Annotator
		if v := c.String("annotator-id"); v != "" {
			annotator.ID = v
		}
		if v := c.String("annotator-name"); v != "" {
			annotator.Name = v
		}
		if v := c.String("annotator-email"); v != "" {
			annotator.Email = v
		}

		sessionCfg := types.SessionConfig{
			Task:   task,
			Input:  dirs.ResolveInput(c.String("input")),
			Seed:   seed,
			MaxLen: maxLen,
		}
		if !annotator.Empty() {
			sessionCfg.Annotator = &annotator
		}

		sessionID := uuid.NewString()
		logger := log.NewLogger(sessionID, task)
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		sp := dirs.SessionPaths(sessionCfg.Input, timeNow())
		runner := session.New(session.Options{
			Config:      sessionCfg,
			SessionID:   sessionID,
			OutputPath:  sp.Output,
			JournalPath: sp.Journal,
			In:          os.Stdin,
			Out:         os.Stdout,
			Logger:      logger,
		})

		outcome, err := runner.Run(ctx)
		switch {
		case errors.Is(err, session.ErrReviewDeclined):
			fmt.Println("Nothing to do; existing labels left as they are.")
			return nil
		case errors.Is(err, session.ErrInterrupted):
			return cli.Exit("interrupted; progress saved", exitInterrupted)
		case err != nil:
			return cli.Exit(err.Error(), exitFatal)
		}

		l, err := report.Build(outcome)
		if err != nil {
			return cli.Exit(err.Error(), exitFatal)
		}
		if err := report.WriteLog(sp.Log, l); err != nil {
			return cli.Exit(err.Error(), exitFatal)
		}
		if err := report.WriteText(sp.Report, l, report.Paths{Output: sp.Output, Log: sp.Log}); err != nil {
			return cli.Exit(err.Error(), exitFatal)
		}

		fmt.Println()
		fmt.Printf("Output : %s\n", sp.Output)
		fmt.Printf("Log    : %s\n", sp.Log)
		fmt.Printf("Report : %s\n", sp.Report)
		return nil
	}
}
