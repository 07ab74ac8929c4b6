package insights

import "review_dashboard/internal/domain"

// PlatformAggregates returns one entry per registry platform, in registry
// order. Reviews whose platform is not in reg are not reported anywhere; use
// Unregistered to detect them. A platform without reviews reports average 0
// with ReviewCount 0.
func PlatformAggregates(reviews []domain.Review, reg domain.Registry) []domain.AggregatedRating {
	accs := newPlatformAccs(reg)
	for _, r := range reviews {
		if !r.HasValidRating() {
			continue
		}
		accs.add(r)
	}

	out := make([]domain.AggregatedRating, len(reg))
	for i, info := range reg {
		st := accs.accs[i].Stat()
		out[i] = domain.AggregatedRating{
			Platform:      info.Name,
			AverageRating: st.Average,
			ReviewCount:   st.Count,
			Color:         info.Color,
		}
	}
	return out
}

// Unregistered counts reviews whose platform is missing from reg.
func Unregistered(reviews []domain.Review, reg domain.Registry) int {
	n := 0
	for _, r := range reviews {
		if !reg.Contains(r.Platform) {
			n++
		}
	}
	return n
}

// Sentiment partitions reviews by rating: >=4 positive, 3 neutral, <=2 negative.
// The three counts always sum to len(reviews).
func Sentiment(reviews []domain.Review) domain.SentimentBucket {
	var s domain.SentimentBucket
	for _, r := range reviews {
		switch {
		case r.Rating >= 4:
			s.Positive++
		case r.Rating == 3:
			s.Neutral++
		default:
			s.Negative++
		}
	}
	return s
}

// Share converts a bucket into percentages of its total.
func Share(s domain.SentimentBucket) domain.SentimentShare {
	total := s.Total()
	if total == 0 {
		return domain.SentimentShare{}
	}
	pct := func(n int) float64 { return round1(float64(n) * 100 / float64(total)) }
	return domain.SentimentShare{
		Positive: pct(s.Positive),
		Neutral:  pct(s.Neutral),
		Negative: pct(s.Negative),
	}
}
