package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "review_dashboard/internal/adapters/http_server"
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

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api")

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	var src domain.ReviewSource
	switch cfg.ReviewSource {
	case shared.SourceMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			// not fatal: the dashboard starts empty and /v1/admin/reload retries
			log.Error().Err(err).Msg("db.Ping failed")
		} else {
			log.Info().Msg("database connection ok")
		}

		cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer cache.Close()
		if err := cache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable; snapshot reads go straight to MySQL")
		}
		src = app.NewCachedSource(mysqlrepo.New(db), cache, cfg.CacheTTL())
	default:
		src = app.NewStaticSource(mockdata.Options{Seed: cfg.MockSeed, Count: cfg.MockCount, Anchor: time.Now().UTC()})
	}

	dash := app.NewDashboardService(src, domain.DefaultRegistry(), app.DashboardOptions{
		TrendMonths: cfg.TrendMonths,
		TopLimit:    cfg.TopLimit,
	})
	if err := dash.Reload(ctx); err != nil {
		log.Warn().Err(err).Str("source", cfg.ReviewSource).Msg("starting with an empty dashboard")
	}

	// http
	srv := server.New(15 * time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{D: dash})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("source", cfg.ReviewSource).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
