package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/maltedev/tasker-scraper/internal/browser"
	"github.com/maltedev/tasker-scraper/internal/config"
	"github.com/maltedev/tasker-scraper/internal/jobs"
	"github.com/maltedev/tasker-scraper/internal/queue"
	"github.com/maltedev/tasker-scraper/internal/ratelimit"
	"github.com/maltedev/tasker-scraper/internal/scraper"
	"github.com/maltedev/tasker-scraper/internal/storage"
	"github.com/maltedev/tasker-scraper/pkg/logger"
)

func main() {
	var (
		categoryFlag = flag.String("category", "", "Comma-separated category keys to scrape")
		all          = flag.Bool("all", false, "Scrape every known category")
		list         = flag.Bool("list", false, "List known category keys and exit")
		maxPages     = flag.Int("max-pages", 0, "Limit each walk to its first N pages (0 = all)")
		headless     = flag.Bool("headless", true, "Run browser in headless mode")
		output       = flag.String("output", "", "Output directory (overrides SCRAPER_OUTPUT_DIR)")
	)
	flag.Parse()

	if *list {
		for _, key := range scraper.CategoryKeys() {
			fmt.Println(key)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if *output != "" {
		cfg.Scraper.OutputDir = *output
	}
	if *maxPages > 0 {
		cfg.Scraper.MaxPages = *maxPages
	}

	logger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("starting tasker scraper")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received")
		cancel()
	}()

	var keys []string
	switch {
	case *all:
		keys = scraper.CategoryKeys()
	case *categoryFlag != "":
		for _, k := range strings.Split(*categoryFlag, ",") {
			keys = append(keys, strings.TrimSpace(k))
		}
	default:
		logger.Error("nothing to do: pass -category or -all")
		flag.Usage()
		os.Exit(2)
	}

	pending := queue.NewInMemoryQueue()
	for _, key := range keys {
		if _, err := scraper.GetCategory(key); err != nil {
			logger.Error("skipping unknown category", "key", key)
			continue
		}
		if err := pending.Push(&queue.Task{
			ID:        key,
			Category:  key,
			MaxPages:  cfg.Scraper.MaxPages,
			CreatedAt: time.Now(),
		}); err != nil {
			logger.Error("failed to queue category", "key", key, "error", err)
		}
	}
	pending.Close()

	if pending.Size() == 0 {
		logger.Error("no valid categories to scrape")
		os.Exit(2)
	}

	b, err := browser.New(&browser.Options{
		Headless:       *headless && cfg.Browser.Headless,
		Timeout:        cfg.Browser.Timeout,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		AcceptLanguage: cfg.Browser.AcceptLanguage,
		TimezoneID:     cfg.Browser.TimezoneID,
		Locale:         cfg.Browser.Locale,
		ProxyServer:    cfg.Browser.ProxyServer,
	})
	if err != nil {
		logger.Error("failed to initialize browser", "error", err)
		os.Exit(1)
	}

	results, err := storage.NewResultStore(filepath.Join(cfg.Scraper.OutputDir, "results.json"))
	if err != nil {
		logger.Error("failed to open result store", "error", err)
		os.Exit(1)
	}

	limiter := ratelimit.NewAdaptiveRateLimiter(cfg.Scraper.RateLimitMin, cfg.Scraper.RateLimitMax)
	runner := jobs.NewBrowserRunner(b, limiter, cfg.Scraper.Address, logger)

	if err := os.MkdirAll(cfg.Scraper.OutputDir, 0755); err != nil {
		logger.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	exitCode := 0
	for {
		task, err := pending.Pop(ctx)
		if err != nil {
			break
		}

		if err := runCategory(ctx, runner, results, cfg, task, logger); err != nil {
			if ctx.Err() != nil {
				break
			}
			exitCode = 1
		}
	}

	printSummary(results)
	b.Close()
	os.Exit(exitCode)
}

func runCategory(ctx context.Context, runner jobs.Runner, results *storage.ResultStore, cfg *config.Config, task *queue.Task, log *slog.Logger) error {
	category, err := scraper.GetCategory(task.Category)
	if err != nil {
		return err
	}

	log.Info("scraping category", "key", category.Key, "name", category.Name)

	run := &storage.RunResult{Category: category.Key, Status: "running"}
	if err := results.Put(run); err != nil {
		log.Error("failed to record run", "error", err)
	}

	walk, err := runner.Run(ctx, category, scraper.WalkConfig{
		MaxPages:   task.MaxPages,
		PerPageCap: cfg.Scraper.PerPageCap,
	})
	if err != nil {
		log.Error("category failed", "key", category.Key, "error", err)
		results.UpdateStatus(category.Key, "failed", err.Error())
		return err
	}

	now := time.Now()
	for i := range walk.Taskers {
		walk.Taskers[i].Category = category.Key
		walk.Taskers[i].ScrapedAt = now
	}

	run.Status = "completed"
	run.Pages = walk.PagesVisited
	run.Unresolved = walk.Unresolved
	run.Taskers = walk.Taskers
	if err := results.Put(run); err != nil {
		log.Error("failed to record run", "error", err)
	}

	if len(walk.Taskers) > 0 {
		path := storage.CSVPath(cfg.Scraper.OutputDir, category.Key, now)
		if err := storage.WriteCSV(path, walk.Taskers); err != nil {
			log.Error("failed to write csv", "error", err)
		} else {
			log.Info("csv written", "path", path)
		}
	}

	log.Info("category done",
		"key", category.Key,
		"taskers", len(walk.Taskers),
		"pages", walk.PagesVisited,
		"unresolved", walk.Unresolved)
	return nil
}

func printSummary(results *storage.ResultStore) {
	stats := results.Stats()
	out, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(out))
}
