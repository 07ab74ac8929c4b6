package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"review_dashboard/internal/adapters/observability"
	"review_dashboard/internal/domain"
)

type IngestReport struct {
	Fetched int `json:"fetched"`
	Stored  int `json:"stored"`
	Skipped int `json:"skipped"`
}

func (r *IngestReport) merge(o IngestReport) {
	r.Fetched += o.Fetched
	r.Stored += o.Stored
	r.Skipped += o.Skipped
}

type IngestionService struct {
	feed  domain.FeedClient
	repo  domain.ReviewRepository
	cache domain.Cache
}

func NewIngestionService(f domain.FeedClient, r domain.ReviewRepository, cache domain.Cache) *IngestionService {
	return &IngestionService{feed: f, repo: r, cache: cache}
}

// IngestPlatform pulls one platform's feed and stores its valid reviews.
// A feed that is missing (404) or refused (401/403) is recorded as a miss and
// is not an error.
func (s *IngestionService) IngestPlatform(ctx context.Context, p domain.Platform) (IngestReport, error) {
	if s.feed == nil {
		return IngestReport{}, errors.New("ingest: no feed client configured")
	}
	raw, err := s.feed.GetReviews(ctx, p)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			_ = s.repo.LogMiss(ctx, p, 404, "feed")
			s.invalidateSnapshot(ctx)
			log.Warn().Str("platform", string(p)).Msg("feed not found")
			return IngestReport{}, nil
		case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrForbidden):
			_ = s.repo.LogMiss(ctx, p, 403, "feed")
			s.invalidateSnapshot(ctx)
			log.Warn().Str("platform", string(p)).Msg("feed refused")
			return IngestReport{}, nil
		default:
			// Anything else is unexpected (network/5xx/JSON/etc.) -> bubble up.
			return IngestReport{}, fmt.Errorf("fetch %s feed: %w", p, err)
		}
	}

	rep, err := s.store(ctx, mapReviews(p, raw))
	rep.Fetched = len(raw)
	return rep, err
}

// IngestReviews stores already-built reviews, e.g. generated demo data.
func (s *IngestionService) IngestReviews(ctx context.Context, rs []domain.Review) (IngestReport, error) {
	rep, err := s.store(ctx, rs)
	rep.Fetched = len(rs)
	return rep, err
}

// IngestAll runs IngestPlatform for each platform in order and sums the reports.
// It stops at the first unexpected error.
func (s *IngestionService) IngestAll(ctx context.Context, ps []domain.Platform) (IngestReport, error) {
	var total IngestReport
	for _, p := range ps {
		rep, err := s.IngestPlatform(ctx, p)
		total.merge(rep)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (s *IngestionService) store(ctx context.Context, rs []domain.Review) (IngestReport, error) {
	var rep IngestReport
	valid := make([]domain.Review, 0, len(rs))
	stored := map[string]int{}
	skipped := map[string]int{}

	for _, r := range rs {
		if err := domain.ValidateReview(r); err != nil {
			rep.Skipped++
			skipped[string(r.Platform)]++
			log.Debug().Err(err).Str("id", r.ID).Str("platform", string(r.Platform)).Msg("skip invalid review")
			continue
		}
		valid = append(valid, r)
		stored[string(r.Platform)]++
	}

	if len(valid) > 0 {
		if err := s.repo.UpsertReviews(ctx, valid); err != nil {
			// do not swallow this; surface so we know inserts failed
			return rep, fmt.Errorf("upsert %d reviews: %w", len(valid), err)
		}
	}
	rep.Stored = len(valid)

	for p, n := range stored {
		observability.ObserveIngest(p, "stored", n)
	}
	for p, n := range skipped {
		observability.ObserveIngest(p, "skipped", n)
	}
	if rep.Skipped > 0 {
		log.Warn().Int("skipped", rep.Skipped).Int("stored", rep.Stored).Msg("invalid reviews skipped")
	}

	// success: even if nothing was stored, drop the cached snapshot
	s.invalidateSnapshot(ctx)
	return rep, nil
}

func (s *IngestionService) invalidateSnapshot(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, SnapshotCacheKey); err != nil {
		log.Warn().Err(err).Msg("snapshot cache invalidation failed")
	}
}
