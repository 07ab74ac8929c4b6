package insights

import (
	"time"

	"review_dashboard/internal/domain"
)

const monthLayout = "2006-01"

// MaxTrendMonths caps the trend window hosts accept.
const MaxTrendMonths = 24

// Bucketing selects the trailing window of calendar months ending with the
// month of Anchor.
type Bucketing struct {
	Months int
	Anchor time.Time
}

// TrendSeries returns one bucket per month of the window, oldest first. Each
// bucket holds per-platform averages (registry order) and an overall average
// across every review that falls in the month. Reviews with an unparseable
// date or out-of-range rating are left out of the series.
func TrendSeries(reviews []domain.Review, reg domain.Registry, b Bucketing) []domain.TrendBucket {
	if b.Months <= 0 {
		return []domain.TrendBucket{}
	}

	start := time.Date(b.Anchor.Year(), b.Anchor.Month()-time.Month(b.Months-1), 1, 0, 0, 0, 0, time.UTC)

	perPlatform := make([]*platformAccs, b.Months)
	overall := make([]Accumulator, b.Months)
	for i := range perPlatform {
		perPlatform[i] = newPlatformAccs(reg)
	}

	for _, r := range reviews {
		if !r.HasValidRating() {
			continue
		}
		day, ok := r.Day()
		if !ok {
			continue
		}
		idx := monthsBetween(start, day)
		if idx < 0 || idx >= b.Months {
			continue
		}
		perPlatform[idx].add(r)
		overall[idx].Add(r.Rating)
	}

	out := make([]domain.TrendBucket, b.Months)
	for i := range out {
		out[i] = domain.TrendBucket{
			Month:     start.AddDate(0, i, 0).Format(monthLayout),
			Platforms: perPlatform[i].stats(),
			Overall:   overall[i].Stat(),
		}
	}
	return out
}

func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}
