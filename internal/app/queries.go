package app

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"review_dashboard/internal/adapters/observability"
	"review_dashboard/internal/domain"
	"review_dashboard/internal/insights"
)

const (
	StatusOK     = "ok"
	StatusNoData = "no_data"
)

// Snapshot is one immutable Review Store value. Readers must not modify Reviews.
type Snapshot struct {
	Reviews  []domain.Review
	LoadedAt time.Time
	Loaded   bool
}

type DashboardOptions struct {
	TrendMonths int
	TopLimit    int
	Now         func() time.Time
}

type Overview struct {
	Status       string                    `json:"status"`
	LoadedAt     time.Time                 `json:"loadedAt"`
	Total        int                       `json:"total"`
	Unregistered int                       `json:"unregistered"`
	Ratings      []domain.AggregatedRating `json:"ratings"`
	Sentiment    domain.SentimentBucket    `json:"sentiment"`
	Shares       domain.SentimentShare     `json:"sentimentShares"`
	TopPositive  []domain.Review           `json:"topPositive"`
	TopNegative  []domain.Review           `json:"topNegative"`
	Options      domain.FilterOptions      `json:"filters"`
}

type ReviewList struct {
	Total   int             `json:"total"`
	Matched int             `json:"matched"`
	Items   []domain.Review `json:"items"`
}

// DashboardService holds the current snapshot and derives every dashboard view
// from it. Views are recomputed per call; a Reload swaps the snapshot atomically.
type DashboardService struct {
	src  domain.ReviewSource
	reg  domain.Registry
	opts DashboardOptions
	snap atomic.Pointer[Snapshot]
}

func NewDashboardService(src domain.ReviewSource, reg domain.Registry, opts DashboardOptions) *DashboardService {
	if opts.TrendMonths <= 0 {
		opts.TrendMonths = 3
	}
	opts.TrendMonths = min(opts.TrendMonths, insights.MaxTrendMonths)
	if opts.TopLimit < 0 {
		opts.TopLimit = 0
	}
	if opts.Now == nil {
		// review dates are UTC calendar days
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	s := &DashboardService{src: src, reg: reg, opts: opts}
	s.snap.Store(&Snapshot{Reviews: []domain.Review{}})
	return s
}

// Reload pulls a fresh snapshot from the source. A failing source leaves the
// service with an empty, not-loaded snapshot; the error is returned for logging.
func (s *DashboardService) Reload(ctx context.Context) error {
	rs, err := s.src.LoadReviews(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("snapshot load failed; serving empty dashboard")
		s.snap.Store(&Snapshot{Reviews: []domain.Review{}, LoadedAt: s.opts.Now()})
		observability.ObserveSnapshot(0, 0, true)
		return err
	}
	if rs == nil {
		rs = []domain.Review{}
	}
	unreg := insights.Unregistered(rs, s.reg)
	if unreg > 0 {
		log.Warn().Int("unregistered", unreg).Msg("snapshot holds reviews for platforms missing from the registry")
	}
	s.snap.Store(&Snapshot{Reviews: rs, LoadedAt: s.opts.Now(), Loaded: true})
	observability.ObserveSnapshot(len(rs), unreg, false)
	log.Info().Int("reviews", len(rs)).Msg("snapshot loaded")
	return nil
}

func (s *DashboardService) Snapshot() Snapshot { return *s.snap.Load() }

func (s *DashboardService) Registry() domain.Registry { return s.reg }

func (s *DashboardService) reviews() []domain.Review { return s.snap.Load().Reviews }

func (s *DashboardService) Overview() Overview {
	snap := s.Snapshot()
	status := StatusOK
	if !snap.Loaded || len(snap.Reviews) == 0 {
		status = StatusNoData
	}
	sent := insights.Sentiment(snap.Reviews)
	return Overview{
		Status:       status,
		LoadedAt:     snap.LoadedAt,
		Total:        len(snap.Reviews),
		Unregistered: insights.Unregistered(snap.Reviews, s.reg),
		Ratings:      insights.PlatformAggregates(snap.Reviews, s.reg),
		Sentiment:    sent,
		Shares:       insights.Share(sent),
		TopPositive:  insights.TopReviews(snap.Reviews, insights.Positive, s.opts.TopLimit),
		TopNegative:  insights.TopReviews(snap.Reviews, insights.Negative, s.opts.TopLimit),
		Options:      insights.Options(snap.Reviews),
	}
}

func (s *DashboardService) Ratings() []domain.AggregatedRating {
	return insights.PlatformAggregates(s.reviews(), s.reg)
}

func (s *DashboardService) Sentiment() (domain.SentimentBucket, domain.SentimentShare) {
	b := insights.Sentiment(s.reviews())
	return b, insights.Share(b)
}

// Top returns the top reviews of polarity p. A negative limit selects the
// configured default.
func (s *DashboardService) Top(p insights.Polarity, limit int) []domain.Review {
	if limit < 0 {
		limit = s.opts.TopLimit
	}
	return insights.TopReviews(s.reviews(), p, limit)
}

func (s *DashboardService) Options() domain.FilterOptions {
	return insights.Options(s.reviews())
}

// Trends buckets the snapshot by month, ending with the current month.
// months <= 0 selects the configured window.
func (s *DashboardService) Trends(months int) []domain.TrendBucket {
	if months <= 0 {
		months = s.opts.TrendMonths
	}
	months = min(months, insights.MaxTrendMonths)
	return insights.TrendSeries(s.reviews(), s.reg, insights.Bucketing{Months: months, Anchor: s.opts.Now()})
}

func (s *DashboardService) Reviews(c insights.Criteria) ReviewList {
	rs := s.reviews()
	items := insights.Filter(rs, c)
	return ReviewList{Total: len(rs), Matched: len(items), Items: items}
}

func (s *DashboardService) Breakdown(d insights.Dimension) []domain.CategoryBreakdown {
	return insights.Breakdown(s.reviews(), s.reg, d)
}

func (s *DashboardService) PlatformReviews(p domain.Platform) []domain.Review {
	return insights.PlatformFeed(s.reviews(), p)
}
