package app

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"review_dashboard/internal/domain"
	"review_dashboard/internal/mockdata"
)

// SnapshotCacheKey is where CachedSource keeps the full review list.
const SnapshotCacheKey = "reviews:snapshot"

// StaticSource serves generated demo reviews.
type StaticSource struct {
	opts mockdata.Options
}

func NewStaticSource(o mockdata.Options) *StaticSource { return &StaticSource{opts: o} }

func (s *StaticSource) LoadReviews(ctx context.Context) ([]domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return mockdata.Generate(s.opts), nil
}

// CachedSource reads the snapshot from the repository, fronted by a cache.
// Cache failures are logged and fall through to the repository.
type CachedSource struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewCachedSource(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{repo: r, cache: c, cacheTTL: ttl}
}

func (s *CachedSource) LoadReviews(ctx context.Context) ([]domain.Review, error) {
	if s.cache != nil {
		var rs []domain.Review
		ok, err := s.cache.Get(ctx, SnapshotCacheKey, &rs)
		if err != nil {
			log.Warn().Err(err).Str("key", SnapshotCacheKey).Msg("cache read failed")
		}
		if ok {
			return rs, nil
		}
	}

	rs, err := s.repo.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	// copy so later cache encoding never races a caller mutating the repo's slice
	out := slices.Clone(rs)

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, SnapshotCacheKey, out, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", SnapshotCacheKey).Msg("cache write failed")
		}
	}
	return out, nil
}
