package httpserver

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"review_dashboard/internal/app"
	"review_dashboard/internal/domain"
	"review_dashboard/internal/insights"
)

type Handlers struct{ D *app.DashboardService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1", func(v1 chi.Router) {
		v1.Get("/dashboard", h.dashboard)
		v1.Get("/ratings", h.ratings)
		v1.Get("/sentiment", h.sentiment)
		v1.Get("/filters", h.filters)
		v1.Get("/trends", h.trends)
		v1.Get("/reviews", h.listReviews)
		v1.Get("/reviews/top", h.topReviews)
		v1.Get("/reviews/export.xlsx", h.exportReviews)
		v1.Get("/breakdown/{dimension}", h.breakdown)
		v1.Get("/platforms/{platform}/reviews", h.platformReviews)
		v1.Post("/admin/reload", h.reload)
	})
}

// ---- query shapes ----

type topQuery struct {
	Polarity string `validate:"omitempty,oneof=positive negative"`
	Limit    *int   `validate:"omitempty,min=0,max=100"`
}

type trendQuery struct {
	Months int `validate:"omitempty,min=1,max=24"`
}

type reviewsQuery struct {
	Platforms []string `validate:"dive,oneof=talabat noon careem google"`
	Locations []string `validate:"dive,max=255"`
	Brands    []string `validate:"dive,max=255"`
	Search    string   `validate:"max=200"`
	Sort      string   `validate:"omitempty,oneof=date date-desc rating rating-desc"`
}

// multiValues collects repeated and comma-separated values of a query key.
func multiValues(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func parseReviewsQuery(r *http.Request) (insights.Criteria, error) {
	q := reviewsQuery{
		Platforms: multiValues(r, "platform"),
		Locations: multiValues(r, "location"),
		Brands:    multiValues(r, "brand"),
		Search:    r.URL.Query().Get("q"),
		Sort:      strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sort"))),
	}
	for i, p := range q.Platforms {
		q.Platforms[i] = strings.ToLower(p)
	}
	if err := domain.Validate(q); err != nil {
		return insights.Criteria{}, err
	}
	order, err := insights.ParseSort(q.Sort)
	if err != nil {
		return insights.Criteria{}, err
	}
	c := insights.Criteria{
		Locations: q.Locations,
		Brands:    q.Brands,
		Search:    q.Search,
		SortBy:    order,
	}
	for _, p := range q.Platforms {
		c.Platforms = append(c.Platforms, domain.Platform(p))
	}
	return c, nil
}

// optionalInt returns nil when key is absent.
func optionalInt(r *http.Request, key string) (*int, error) {
	s := strings.TrimSpace(r.URL.Query().Get(key))
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, &domain.ValidationError{Fields: map[string]string{key: "must be an integer"}}
	}
	return &n, nil
}

// ---- response helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Invalid query", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON sends v with a weak ETag and answers 304 when the client already
// holds that version.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// ---- handlers ----

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.D.Overview())
}

func (h *Handlers) ratings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, struct {
		Ratings []domain.AggregatedRating `json:"ratings"`
	}{h.D.Ratings()})
}

func (h *Handlers) sentiment(w http.ResponseWriter, r *http.Request) {
	b, share := h.D.Sentiment()
	writeJSON(w, r, struct {
		Total  int                    `json:"total"`
		Counts domain.SentimentBucket `json:"counts"`
		Shares domain.SentimentShare  `json:"shares"`
	}{b.Total(), b, share})
}

func (h *Handlers) filters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.D.Options())
}

func (h *Handlers) topReviews(w http.ResponseWriter, r *http.Request) {
	limit, err := optionalInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	q := topQuery{Polarity: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("polarity"))), Limit: limit}
	if err := domain.Validate(q); err != nil {
		writeError(w, err)
		return
	}
	p, err := insights.ParsePolarity(q.Polarity)
	if err != nil {
		writeError(w, err)
		return
	}
	n := -1 // configured default
	if limit != nil {
		n = *limit
	}
	writeJSON(w, r, struct {
		Polarity string          `json:"polarity"`
		Items    []domain.Review `json:"items"`
	}{p.String(), h.D.Top(p, n)})
}

func (h *Handlers) trends(w http.ResponseWriter, r *http.Request) {
	mp, err := optionalInt(r, "months")
	if err != nil {
		writeError(w, err)
		return
	}
	months := 0
	if mp != nil {
		months = *mp
	}
	if err := domain.Validate(trendQuery{Months: months}); err != nil {
		writeError(w, err)
		return
	}
	buckets := h.D.Trends(months)
	writeJSON(w, r, struct {
		Months  int                  `json:"months"`
		Buckets []domain.TrendBucket `json:"buckets"`
	}{len(buckets), buckets})
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	c, err := parseReviewsQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, h.D.Reviews(c))
}

func (h *Handlers) exportReviews(w http.ResponseWriter, r *http.Request) {
	c, err := parseReviewsQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	list := h.D.Reviews(c)

	// render before writing headers so a failure can still become a problem response
	var buf bytes.Buffer
	if err := writeReviewsXLSX(&buf, list.Items, h.D.Registry()); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=reviews.xlsx")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error().Err(err).Msg("failed to write export body")
	}
}

func (h *Handlers) breakdown(w http.ResponseWriter, r *http.Request) {
	d, err := insights.ParseDimension(chi.URLParam(r, "dimension"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, struct {
		Dimension insights.Dimension         `json:"dimension"`
		Rows      []domain.CategoryBreakdown `json:"rows"`
	}{d, h.D.Breakdown(d)})
}

func (h *Handlers) platformReviews(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.ParsePlatform(chi.URLParam(r, "platform"))
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown platform")
		return
	}
	writeJSON(w, r, struct {
		Platform domain.Platform `json:"platform"`
		Items    []domain.Review `json:"items"`
	}{p, h.D.PlatformReviews(p)})
}

func (h *Handlers) reload(w http.ResponseWriter, r *http.Request) {
	if err := h.D.Reload(r.Context()); err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Snapshot unavailable", "review source could not be loaded; serving an empty dashboard")
		return
	}
	snap := h.D.Snapshot()
	writeJSON(w, r, struct {
		Status   string    `json:"status"`
		Total    int       `json:"total"`
		LoadedAt time.Time `json:"loadedAt"`
	}{app.StatusOK, len(snap.Reviews), snap.LoadedAt})
}
