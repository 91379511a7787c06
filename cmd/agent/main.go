package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mouss/ligue1-agent/internal/app"
	"github.com/mouss/ligue1-agent/internal/config"
	"github.com/mouss/ligue1-agent/internal/observability"
	"github.com/mouss/ligue1-agent/internal/platform/logging"
	"github.com/mouss/ligue1-agent/internal/usecase"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownUptrace(shutdownCtx); err != nil {
			logger.Error("shutdown uptrace", "error", err)
		}
	}()

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := stopPyroscope(); err != nil {
			logger.Error("stop pyroscope", "error", err)
		}
	}()

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof server", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
			logger.Error("stop pprof server", "error", err)
		}
	}()

	db, err := app.OpenDB(ctx, cfg)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("close database", "error", err)
		}
	}()

	container := app.NewContainer(cfg, db, logger)

	if err := runCommand(ctx, cfg, container, logger, os.Args[1], os.Args[2:]); err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, cfg config.Config, container *app.Container, logger *logging.Logger, command string, args []string) error {
	switch command {
	case "sync":
		flags := flag.NewFlagSet("sync", flag.ContinueOnError)
		season := flags.Int("season", time.Now().UTC().Year(), "season start year to synchronize")
		if err := flags.Parse(args); err != nil {
			return err
		}

		stats, err := container.Sync.Run(ctx, *season)
		if err != nil {
			return err
		}
		logger.Info("sync finished",
			"season", stats.Season,
			"fetched", stats.Fetched,
			"upserted", stats.Upserted,
			"skipped", stats.Skipped,
		)
		return nil

	case "recompute":
		flags := flag.NewFlagSet("recompute", flag.ContinueOnError)
		workers := flags.Int("workers", cfg.RecomputeMaxWorkers, "maximum concurrent workers")
		if err := flags.Parse(args); err != nil {
			return err
		}

		result, err := container.Recompute.Run(ctx, usecase.RecomputeInput{MaxWorkers: *workers})
		if err != nil {
			return err
		}
		logger.Info("recompute finished",
			"tasks", result.TaskCount,
			"success", result.SuccessCount,
			"failed", result.FailedCount,
			"skipped", result.SkippedCount,
		)
		if result.FailedCount > 0 {
			return fmt.Errorf("%d recompute task(s) failed", result.FailedCount)
		}
		return nil

	case "export":
		flags := flag.NewFlagSet("export", flag.ContinueOnError)
		limit := flags.Int("limit", 10, "number of upcoming matches to export")
		out := flags.String("out", "", "output file path (stdout when empty)")
		if err := flags.Parse(args); err != nil {
			return err
		}

		matches, err := container.Matches.ListUpcoming(ctx, time.Now().UTC(), *limit)
		if err != nil {
			return fmt.Errorf("list upcoming matches: %w", err)
		}

		writer := os.Stdout
		if *out != "" {
			file, err := os.Create(*out)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer func() {
				if err := file.Close(); err != nil {
					logger.Error("close output file", "error", err)
				}
			}()
			writer = file
		}

		written, err := container.Export.Write(ctx, writer, matches)
		if err != nil {
			return err
		}
		logger.Info("export finished", "rows", written)
		return nil

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: agent <sync|recompute|export> [flags]")
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintln(os.Stderr, "  agent sync -season 2025")
	fmt.Fprintln(os.Stderr, "  agent recompute -workers 8")
	fmt.Fprintln(os.Stderr, "  agent export -limit 10 -out features.ndjson")
}
