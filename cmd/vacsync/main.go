package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"

	"github.com/vacsync/vacsync/internal/app"
	"github.com/vacsync/vacsync/internal/cache"
	"github.com/vacsync/vacsync/internal/config"
	syncsvc "github.com/vacsync/vacsync/internal/domain/sync"
	"github.com/vacsync/vacsync/internal/report"
	"github.com/vacsync/vacsync/internal/ui"
	"github.com/vacsync/vacsync/pkg/logging"
)

func main() {
	var (
		refresh       = flag.Bool("refresh", false, "ignore the file cache and refetch")
		keyword       = flag.String("keyword", "", "search keyword to pass to the job boards")
		period        = flag.Int("period", 0, "only fetch vacancies published within this many days")
		reportKeyword = flag.String("report-keyword", "", "keyword highlighted in the verification report (default \"python\")")
		cacheInfo     = flag.Bool("cache-info", false, "print cache state and exit")
		clearCache    = flag.Bool("clear-cache", false, "delete the cache files and exit")
		noSheets      = flag.Bool("no-sheets", false, "skip the Google Sheets export")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.NewConsole(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	// Cache inspection works without a database connection.
	cacheStore := cache.NewStore(cfg.CacheDir, time.Duration(cfg.CacheTTLHours)*time.Hour)
	if *cacheInfo {
		ui.RenderCacheInfo(cacheStore.Inspect(time.Now()))
		return
	}
	if *clearCache {
		removed, err := cacheStore.Clear()
		if err != nil {
			pterm.Error.Printfln("cache clear failed: %v", err)
			os.Exit(1)
		}
		if removed > 0 {
			pterm.Success.Println("cache cleared")
		} else {
			pterm.Info.Println("cache already empty")
		}
		return
	}

	ui.PrintBanner()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, runParams{
		useCache:      !*refresh,
		keyword:       *keyword,
		periodDays:    *period,
		reportKeyword: *reportKeyword,
		exportSheets:  !*noSheets,
	}); err != nil {
		pterm.Error.Printfln("%v", err)
		os.Exit(1)
	}
}

type runParams struct {
	useCache      bool
	keyword       string
	periodDays    int
	reportKeyword string
	exportSheets  bool
}

func run(ctx context.Context, cfg config.Config, logger *logging.Logger, params runParams) error {
	res, cleanup, err := app.InitializeResources(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer cleanup()

	rep, err := res.Service.Run(ctx, syncsvc.RunOptions{
		UseCache:      params.useCache,
		Keyword:       params.keyword,
		PeriodDays:    params.periodDays,
		ReportKeyword: params.reportKeyword,
	})
	if err != nil {
		return err
	}

	ui.RenderReport(rep)

	if params.exportSheets && res.Sheets != nil && cfg.Sheets.SpreadsheetID != "" {
		if err := report.ExportSheets(ctx, res.Sheets, cfg.Sheets.SpreadsheetID, rep); err != nil {
			logger.Warn("sheets export failed", "err", err)
		} else {
			pterm.Success.Println("report exported to Google Sheets")
		}
	}

	pterm.Success.Println("sync finished")
	return nil
}
