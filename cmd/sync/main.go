package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	sonic "github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/match-center/external/easycoach"
	"github.com/riskibarqy/match-center/internal/app"
	"github.com/riskibarqy/match-center/internal/config"
	"github.com/riskibarqy/match-center/internal/platform/logging"
)

func main() {
	leagueID := flag.String("league", "", "Upstream league id to sync")
	seasonID := flag.String("season", "", "Upstream season id to sync")
	file := flag.String("file", "", "Import a saved league payload (JSON) instead of calling upstream")
	enrich := flag.Bool("enrich", false, "Pull roster, events and video for every stored match after syncing")
	competitions := flag.Bool("competitions", false, "Backfill missing competition labels from upstream")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, options{
		leagueID:     strings.TrimSpace(*leagueID),
		seasonID:     strings.TrimSpace(*seasonID),
		file:         strings.TrimSpace(*file),
		enrich:       *enrich,
		competitions: *competitions,
	}); err != nil {
		logger.Error("sync failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

type options struct {
	leagueID     string
	seasonID     string
	file         string
	enrich       bool
	competitions bool
}

func run(ctx context.Context, cfg config.Config, logger *logging.Logger, opts options) error {
	if opts.file == "" && opts.leagueID == "" && !opts.enrich && !opts.competitions {
		return fmt.Errorf("nothing to do: pass -league/-season, -file, -enrich or -competitions")
	}

	services, err := app.NewServices(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}
	defer func() {
		if err := services.Close(); err != nil {
			logger.Warn("close storage failed", "error", err)
		}
	}()

	switch {
	case opts.file != "":
		raw, err := os.ReadFile(opts.file)
		if err != nil {
			return fmt.Errorf("read %s: %w", opts.file, err)
		}
		list, err := easycoach.ParseLeague(raw)
		if err != nil {
			return fmt.Errorf("parse %s: %w", opts.file, err)
		}
		result, err := services.Sync.ImportLeague(ctx, list)
		if err != nil {
			return err
		}
		printResult(result)
	case opts.leagueID != "":
		result, err := services.Sync.SyncLeague(ctx, opts.leagueID, opts.seasonID)
		if err != nil {
			return err
		}
		printResult(result)
	}

	if opts.competitions {
		result, err := services.Sync.UpdateCompetitions(ctx)
		if err != nil {
			return err
		}
		printResult(result)
	}
	if opts.enrich {
		result, err := services.Sync.EnrichMatches(ctx, nil)
		if err != nil {
			return err
		}
		printResult(result)
	}
	return nil
}

func printResult(v any) {
	out, err := sonic.ConfigDefault.MarshalIndent(v, "", "  ")
	if err != nil {
		return
	}
	fmt.Println(string(out))
}
