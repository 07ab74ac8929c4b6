package mockdata_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_dashboard/internal/domain"
	"review_dashboard/internal/insights"
	"review_dashboard/internal/mockdata"
)

var anchor = time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

func TestGenerate_Deterministic(t *testing.T) {
	o := mockdata.Options{Seed: 7, Count: 50, Anchor: anchor}
	assert.Equal(t, mockdata.Generate(o), mockdata.Generate(o))

	other := mockdata.Generate(mockdata.Options{Seed: 8, Count: 50, Anchor: anchor})
	assert.NotEqual(t, mockdata.Generate(o), other)
}

func TestGenerate_ProducesValidReviews(t *testing.T) {
	reviews := mockdata.Generate(mockdata.Options{Seed: 42, Count: 100, Anchor: anchor})
	require.Len(t, reviews, 100)

	earliest := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	seen := map[string]bool{}
	for _, r := range reviews {
		require.NoError(t, domain.ValidateReview(r), r.ID)
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true

		day, ok := r.Day()
		require.True(t, ok)
		assert.False(t, day.Before(earliest), r.Date)
		assert.False(t, day.After(anchor), r.Date)
	}
}

func TestGenerate_ZeroCount(t *testing.T) {
	got := mockdata.Generate(mockdata.Options{Seed: 1, Anchor: anchor})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGenerate_WindowMatchesTrendBuckets(t *testing.T) {
	mid := time.Date(2024, time.May, 17, 15, 0, 0, 0, time.UTC)
	reviews := mockdata.Generate(mockdata.Options{Seed: 3, Count: 200, Anchor: mid, Window: 3})

	buckets := insights.TrendSeries(reviews, domain.DefaultRegistry(), insights.Bucketing{Months: 3, Anchor: mid})
	require.Len(t, buckets, 3)
	assert.Equal(t, "2024-03", buckets[0].Month)

	total := 0
	for _, b := range buckets {
		total += b.Overall.Count
	}
	assert.Equal(t, len(reviews), total, "every generated review lands in a trend bucket")
}
