// Command backfill re-runs enrichment over cards that still miss one or more
// tracked fields. Intended for cron or one-off invocation after adding a new
// source; concurrency is bounded so upstream providers are not hammered.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/wordnest/wordnest-backend/internal/adapter/postgres"
	"github.com/wordnest/wordnest-backend/internal/adapter/postgres/wordcard"
	"github.com/wordnest/wordnest-backend/internal/adapter/provider/datamuse"
	"github.com/wordnest/wordnest-backend/internal/adapter/provider/freedict"
	"github.com/wordnest/wordnest-backend/internal/adapter/provider/imagegen"
	"github.com/wordnest/wordnest-backend/internal/adapter/provider/youdao"
	"github.com/wordnest/wordnest-backend/internal/app"
	"github.com/wordnest/wordnest-backend/internal/assets"
	"github.com/wordnest/wordnest-backend/internal/config"
	"github.com/wordnest/wordnest-backend/internal/service/enrich"
)

func main() {
	batchSize := flag.Int("batch", 200, "maximum cards to process in one run")
	workers := flag.Int("workers", 4, "concurrent enrichment workers")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall run timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	cards := wordcard.New(pool, postgres.NewTxManager(pool))

	svc := enrich.NewService(
		logger,
		cards,
		freedict.New(cfg.Providers.DictionaryBaseURL, cfg.Providers.RequestTimeout, logger),
		youdao.New(cfg.Providers.TranslateBaseURL, cfg.Providers.RequestTimeout, logger),
		imagegen.New(cfg.Providers.ImageGenBaseURL, cfg.Providers.RequestTimeout, logger),
		datamuse.New(cfg.Providers.SuggestBaseURL, cfg.Providers.RequestTimeout, logger),
		assets.New(cfg.Assets.Root, cfg.Assets.PublicPrefix, cfg.Assets.DownloadTimeout, logger),
		cfg.Suggest,
	)

	incomplete, err := cards.ListIncomplete(ctx, *batchSize)
	if err != nil {
		logger.Error("list incomplete cards", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("backfill starting",
		slog.Int("cards", len(incomplete)),
		slog.Int("workers", *workers),
	)

	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	enriched, failed := 0, 0

	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				card := incomplete[i]
				if _, err := svc.Ensure(ctx, card.VCID, card.Word); err != nil {
					logger.Warn("enrich failed",
						slog.String("vc_id", card.VCID),
						slog.String("word", card.Word),
						slog.String("error", err.Error()),
					)
					mu.Lock()
					failed++
					mu.Unlock()
					continue
				}
				mu.Lock()
				enriched++
				mu.Unlock()
			}
		}()
	}

	for i := range incomplete {
		select {
		case jobs <- i:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	logger.Info("backfill complete",
		slog.Int("enriched", enriched),
		slog.Int("failed", failed),
	)

	if ctx.Err() != nil {
		logger.Error("backfill timed out", slog.String("error", ctx.Err().Error()))
		os.Exit(1)
	}
}
