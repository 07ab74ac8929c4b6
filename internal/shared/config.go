package shared

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/rs/zerolog/log"

	"review_dashboard/internal/insights"
)

const (
	SourceMock  = "mock"
	SourceMySQL = "mysql"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"prod"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"METRICS_ADDR"`

	ReviewSource string `env:"REVIEW_SOURCE" envDefault:"mock"`
	MySQLDSN     string `env:"MYSQL_DSN" envDefault:"root:root@tcp(localhost:3306)/reviews?parseTime=true&charset=utf8mb4,utf8&loc=UTC"`
	RedisAddr    string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass    string `env:"REDIS_PASSWORD"`
	RedisDB      int    `env:"REDIS_DB" envDefault:"0"`
	CacheTTLSec  int    `env:"CACHE_TTL_SECONDS" envDefault:"300"`

	FeedBase string `env:"FEED_BASE_URL"`
	FeedKey  string `env:"FEED_API_KEY"`
	FeedRPS  int    `env:"FEED_RPS" envDefault:"5"`
	Workers  int    `env:"INGEST_WORKERS" envDefault:"4"`

	MockSeed  uint64 `env:"MOCK_SEED" envDefault:"42"`
	MockCount int    `env:"MOCK_COUNT" envDefault:"100"`

	TrendMonths int `env:"TREND_MONTHS" envDefault:"3"`
	TopLimit    int `env:"TOP_LIMIT" envDefault:"3"`
}

func (c Config) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSec) * time.Second }

func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	switch c.ReviewSource {
	case SourceMock, SourceMySQL:
	default:
		return Config{}, fmt.Errorf("parse config: REVIEW_SOURCE must be %q or %q, got %q", SourceMock, SourceMySQL, c.ReviewSource)
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.TrendMonths <= 0 {
		c.TrendMonths = 3
	}
	c.TrendMonths = min(c.TrendMonths, insights.MaxTrendMonths)
	if c.TopLimit < 0 {
		c.TopLimit = 0
	}
	return c, nil
}

// MustLoad is Load for mains.
func MustLoad() Config {
	c, err := Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if c.FeedBase != "" && c.FeedKey == "" {
		log.Warn().Msg("FEED_API_KEY is empty")
	}
	return c
}
