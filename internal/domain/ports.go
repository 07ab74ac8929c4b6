package domain

import "context"

type ReviewRepository interface {
	// Write paths
	UpsertReviews(ctx context.Context, rs []Review) error
	LogMiss(ctx context.Context, platform Platform, status int, reason string) error

	// Read paths
	ListReviews(ctx context.Context) ([]Review, error)
}

// FeedClient pulls raw review payloads for one platform from an upstream feed.
type FeedClient interface {
	GetReviews(ctx context.Context, platform Platform) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// ReviewSource produces a full Review Store snapshot.
type ReviewSource interface {
	LoadReviews(ctx context.Context) ([]Review, error)
}
