package app_test

import (
	"context"
	"errors"
	"testing"

	"review_dashboard/internal/adapters/feed"
	"review_dashboard/internal/app"
	"review_dashboard/internal/domain"
)

type fakeFeed struct {
	payload map[domain.Platform][]map[string]any
	errs    map[domain.Platform]error
	calls   []domain.Platform
}

func (f *fakeFeed) GetReviews(ctx context.Context, p domain.Platform) ([]map[string]any, error) {
	f.calls = append(f.calls, p)
	if err := f.errs[p]; err != nil {
		return nil, err
	}
	return f.payload[p], nil
}

func TestIngestPlatform_StoresValidSkipsInvalid(t *testing.T) {
	fc := &fakeFeed{payload: map[domain.Platform][]map[string]any{
		domain.Talabat: {
			{"id": "t-1", "rating": 5, "comment": "Great", "date": "2024-03-01", "location": "Marina", "brand": "Cafe", "reviewer": "Ana"},
			{"review_id": "t-2", "score": "4", "text": "Good", "created_at": "2024-02-01T10:00:00Z", "author": "Bob"},
			{"id": "t-3", "rating": 9, "comment": "out of range", "date": "2024-02-01"},
			{"id": "t-4", "rating": 3, "comment": "no date"},
		},
	}}
	repo := &fakeRepo{}
	cache := &fakeCache{store: map[string]any{app.SnapshotCacheKey: []domain.Review{}}}
	svc := app.NewIngestionService(fc, repo, cache)

	rep, err := svc.IngestPlatform(context.Background(), domain.Talabat)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rep.Fetched != 4 || rep.Stored != 2 || rep.Skipped != 2 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if len(repo.upserted) != 2 || repo.upserted[1].ID != "t-2" || repo.upserted[1].Date != "2024-02-01" {
		t.Fatalf("unexpected upserts: %+v", repo.upserted)
	}
	if _, ok := cache.store[app.SnapshotCacheKey]; ok {
		t.Fatalf("snapshot cache should be invalidated")
	}
}

func TestIngestPlatform_NotFoundIsMiss(t *testing.T) {
	fc := &fakeFeed{errs: map[domain.Platform]error{domain.Google: feed.ErrNotFound}}
	repo := &fakeRepo{}
	cache := &fakeCache{}
	svc := app.NewIngestionService(fc, repo, cache)

	rep, err := svc.IngestPlatform(context.Background(), domain.Google)
	if err != nil {
		t.Fatalf("404 should not fail ingestion: %v", err)
	}
	if rep != (app.IngestReport{}) {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if len(repo.misses) != 1 || repo.misses[0] != 404 {
		t.Fatalf("expected 404 miss, got %v", repo.misses)
	}
	if len(cache.dels) != 1 || cache.dels[0] != app.SnapshotCacheKey {
		t.Fatalf("expected snapshot invalidation, got %v", cache.dels)
	}
}

func TestIngestPlatform_ForbiddenIsMiss(t *testing.T) {
	for _, e := range []error{feed.ErrForbidden, feed.ErrUnauthorized} {
		fc := &fakeFeed{errs: map[domain.Platform]error{domain.Careem: e}}
		repo := &fakeRepo{}
		svc := app.NewIngestionService(fc, repo, nil)

		if _, err := svc.IngestPlatform(context.Background(), domain.Careem); err != nil {
			t.Fatalf("%v should not fail ingestion: %v", e, err)
		}
		if len(repo.misses) != 1 || repo.misses[0] != 403 {
			t.Fatalf("expected 403 miss for %v, got %v", e, repo.misses)
		}
	}
}

func TestIngestPlatform_UnexpectedErrorBubbles(t *testing.T) {
	boom := errors.New("connection reset")
	fc := &fakeFeed{errs: map[domain.Platform]error{domain.Noon: boom}}
	svc := app.NewIngestionService(fc, &fakeRepo{}, nil)

	if _, err := svc.IngestPlatform(context.Background(), domain.Noon); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestIngestAll_SumsReports(t *testing.T) {
	fc := &fakeFeed{
		payload: map[domain.Platform][]map[string]any{
			domain.Talabat: {{"id": "t-1", "rating": 5, "date": "2024-03-01"}},
			domain.Noon:    {{"id": "n-1", "rating": 2, "date": "2024-03-02"}, {"id": "n-2", "rating": 0, "date": "2024-03-02"}},
		},
		errs: map[domain.Platform]error{domain.Google: feed.ErrNotFound},
	}
	repo := &fakeRepo{}
	svc := app.NewIngestionService(fc, repo, nil)

	rep, err := svc.IngestAll(context.Background(), domain.DefaultRegistry().Keys())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rep.Fetched != 3 || rep.Stored != 2 || rep.Skipped != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if len(fc.calls) != 4 {
		t.Fatalf("expected every platform to be fetched, got %v", fc.calls)
	}
}

func TestIngestReviews_Generated(t *testing.T) {
	repo := &fakeRepo{}
	svc := app.NewIngestionService(nil, repo, nil)

	rep, err := svc.IngestReviews(context.Background(), sample())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rep.Stored != 4 || rep.Skipped != 0 || len(repo.upserted) != 4 {
		t.Fatalf("unexpected report: %+v", rep)
	}

	if _, err := svc.IngestPlatform(context.Background(), domain.Talabat); err == nil {
		t.Fatalf("expected error without feed client")
	}
}
