package insights

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"review_dashboard/internal/domain"
)

type Polarity int

const (
	Positive Polarity = iota
	Negative
)

func (p Polarity) String() string {
	if p == Negative {
		return "negative"
	}
	return "positive"
}

func ParsePolarity(s string) (Polarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "positive":
		return Positive, nil
	case "negative":
		return Negative, nil
	}
	return Positive, fmt.Errorf("%w: polarity %q", domain.ErrInvalidInput, s)
}

// TopReviews returns up to limit reviews of the given polarity. Positive picks
// ratings >= 4, highest first; Negative picks ratings <= 2, lowest first. Ties
// keep input order. Fewer matches than limit is not an error.
func TopReviews(reviews []domain.Review, p Polarity, limit int) []domain.Review {
	if limit <= 0 {
		return []domain.Review{}
	}

	matches := make([]domain.Review, 0, min(limit, len(reviews)))
	for _, r := range reviews {
		if !r.HasValidRating() {
			continue
		}
		if (p == Positive && r.Rating >= 4) || (p == Negative && r.Rating <= 2) {
			matches = append(matches, r)
		}
	}

	slices.SortStableFunc(matches, func(a, b domain.Review) int {
		if p == Positive {
			return cmp.Compare(b.Rating, a.Rating)
		}
		return cmp.Compare(a.Rating, b.Rating)
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return slices.Clip(matches)
}
