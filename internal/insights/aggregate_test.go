package insights_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_dashboard/internal/domain"
	"review_dashboard/internal/insights"
)

func rv(id string, p domain.Platform, rating int) domain.Review {
	return domain.Review{ID: id, Platform: p, Rating: rating, Date: "2024-03-10"}
}

func sumCounts(ars []domain.AggregatedRating) int {
	n := 0
	for _, a := range ars {
		n += a.ReviewCount
	}
	return n
}

func TestPlatformAggregates_AveragesAndRegistryOrder(t *testing.T) {
	reviews := []domain.Review{
		rv("1", domain.Noon, 5),
		rv("2", domain.Talabat, 4),
		rv("3", domain.Talabat, 3),
		rv("4", domain.Talabat, 3),
	}

	got := insights.PlatformAggregates(reviews, domain.DefaultRegistry())

	require.Len(t, got, 4)
	assert.Equal(t, domain.AggregatedRating{Platform: "Talabat", AverageRating: 3.3, ReviewCount: 3, Color: "#F97316"}, got[0])
	assert.Equal(t, domain.AggregatedRating{Platform: "Noon", AverageRating: 5, ReviewCount: 1, Color: "#FACC15"}, got[1])
	// no data: zero average with zero count
	assert.Equal(t, 0.0, got[2].AverageRating)
	assert.Equal(t, 0, got[2].ReviewCount)
	assert.Equal(t, "Careem", got[2].Platform)
}

func TestPlatformAggregates_OutputSizeEqualsRegistry(t *testing.T) {
	reg := domain.Registry{{Key: domain.Google, Name: "Google", Color: "#3B82F6"}}

	got := insights.PlatformAggregates(nil, reg)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].ReviewCount)

	got = insights.PlatformAggregates([]domain.Review{rv("1", domain.Talabat, 5)}, reg)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].ReviewCount)
}

func TestPlatformAggregates_CountConservation(t *testing.T) {
	reviews := []domain.Review{
		rv("1", domain.Talabat, 5),
		rv("2", domain.Noon, 1),
		rv("3", domain.Careem, 2),
		rv("4", domain.Google, 4),
	}

	full := domain.DefaultRegistry()
	got := insights.PlatformAggregates(reviews, full)
	assert.Equal(t, len(reviews), sumCounts(got))
	assert.Zero(t, insights.Unregistered(reviews, full))

	partial := full[:2]
	got = insights.PlatformAggregates(reviews, partial)
	assert.Less(t, sumCounts(got), len(reviews))
	assert.Equal(t, len(reviews), sumCounts(got)+insights.Unregistered(reviews, partial))
}

func TestPlatformAggregates_SkipsOutOfRangeRatings(t *testing.T) {
	reviews := []domain.Review{rv("1", domain.Talabat, 5), rv("2", domain.Talabat, 0), rv("3", domain.Talabat, 9)}

	got := insights.PlatformAggregates(reviews, domain.DefaultRegistry())
	assert.Equal(t, 1, got[0].ReviewCount)
	assert.Equal(t, 5.0, got[0].AverageRating)
}

func TestSentiment_Partition(t *testing.T) {
	reviews := []domain.Review{
		rv("1", domain.Talabat, 5),
		rv("2", domain.Talabat, 4),
		rv("3", domain.Noon, 3),
		rv("4", domain.Noon, 2),
		rv("5", domain.Google, 1),
	}

	s := insights.Sentiment(reviews)
	assert.Equal(t, domain.SentimentBucket{Positive: 2, Neutral: 1, Negative: 2}, s)
	assert.Equal(t, len(reviews), s.Positive+s.Neutral+s.Negative)
}

func TestSentiment_Empty(t *testing.T) {
	s := insights.Sentiment(nil)
	assert.Equal(t, domain.SentimentBucket{}, s)
	assert.Equal(t, domain.SentimentShare{}, insights.Share(s))
}

func TestShare_Percentages(t *testing.T) {
	got := insights.Share(domain.SentimentBucket{Positive: 1, Neutral: 1, Negative: 1})
	assert.Equal(t, domain.SentimentShare{Positive: 33.3, Neutral: 33.3, Negative: 33.3}, got)

	got = insights.Share(domain.SentimentBucket{Positive: 3, Negative: 1})
	assert.Equal(t, 75.0, got.Positive)
	assert.Equal(t, 0.0, got.Neutral)
	assert.Equal(t, 25.0, got.Negative)
}

func TestAccumulator_EmptyIsFlagged(t *testing.T) {
	var acc insights.Accumulator
	st := acc.Stat()
	assert.True(t, st.Empty)
	assert.Equal(t, 0, st.Count)
	assert.Equal(t, 0.0, st.Average)

	acc.Add(1)
	st = acc.Stat()
	assert.False(t, st.Empty)
	assert.Equal(t, 1.0, st.Average)
}

// The batch average must not drift with insertion order. The single-prior-sample
// running mean (avg = (avg + x) / 2) fails this on the same data.
func TestAccumulator_OrderIndependent(t *testing.T) {
	orders := [][]int{
		{5, 1, 1, 1},
		{1, 1, 1, 5},
		{1, 5, 1, 1},
	}
	var first float64
	for i, order := range orders {
		var acc insights.Accumulator
		for _, r := range order {
			acc.Add(r)
		}
		st := acc.Stat()
		assert.Equal(t, 4, st.Count)
		if i == 0 {
			first = st.Average
			continue
		}
		assert.Equal(t, first, st.Average, "order %v", order)
	}
	assert.Equal(t, 2.0, first)

	naive := func(xs []int) float64 {
		avg := float64(xs[0])
		for _, x := range xs[1:] {
			avg = (avg + float64(x)) / 2
		}
		return avg
	}
	assert.NotEqual(t, naive(orders[0]), naive(orders[1]))
}
