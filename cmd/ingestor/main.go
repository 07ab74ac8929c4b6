package main

import (
	"context"
	"database/sql"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_dashboard/internal/adapters/feed"
	"review_dashboard/internal/adapters/observability"
	redisad "review_dashboard/internal/adapters/redis"
	"review_dashboard/internal/app"
	"review_dashboard/internal/domain"
	"review_dashboard/internal/mockdata"
	"review_dashboard/internal/shared"
	mysqlrepo "review_dashboard/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.MustLoad()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "ingestor")

	mode := "feed"
	if cfg.FeedBase == "" {
		mode = "mock"
	}
	log.Info().
		Str("mode", mode).
		Str("base", cfg.FeedBase).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()

	if mode == "mock" {
		ing := app.NewIngestionService(nil, repo, cache)
		rs := mockdata.Generate(mockdata.Options{Seed: cfg.MockSeed, Count: cfg.MockCount, Anchor: time.Now().UTC()})
		rep, err := ing.IngestReviews(ctx, rs)
		if err != nil {
			log.Fatal().Err(err).Msg("mock ingestion failed")
		}
		log.Info().Int("stored", rep.Stored).Int("skipped", rep.Skipped).Msg("ingestion completed")
		return
	}

	client, err := feed.New(cfg.FeedBase, cfg.FeedKey, cfg.FeedRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize feed client")
	}
	ing := app.NewIngestionService(client, repo, cache)
	sem := semaphore.NewWeighted(int64(cfg.Workers))

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total app.IngestReport
	)
	for _, p := range domain.DefaultRegistry().Keys() {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Error().Err(err).Msg("semaphore acquire failed")
			break
		}

		wg.Add(1)
		go func(p domain.Platform) {
			defer wg.Done()
			defer sem.Release(1)

			rep, err := ing.IngestPlatform(ctx, p)
			mu.Lock()
			total.Fetched += rep.Fetched
			total.Stored += rep.Stored
			total.Skipped += rep.Skipped
			mu.Unlock()
			if err != nil {
				log.Warn().Str("platform", string(p)).Err(err).Msg("ingest failed")
				return
			}
			log.Info().
				Str("platform", string(p)).
				Int("fetched", rep.Fetched).
				Int("stored", rep.Stored).
				Int("skipped", rep.Skipped).
				Msg("ingest ok")
		}(p)
	}

	wg.Wait()
	log.Info().
		Int("fetched", total.Fetched).
		Int("stored", total.Stored).
		Int("skipped", total.Skipped).
		Msg("ingestion completed")
}
