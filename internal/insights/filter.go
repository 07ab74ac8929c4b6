package insights

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"review_dashboard/internal/domain"
)

type SortOrder string

const (
	SortDateDesc   SortOrder = "date-desc"
	SortRatingDesc SortOrder = "rating-desc"
)

func ParseSort(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "date", "date-desc":
		return SortDateDesc, nil
	case "rating", "rating-desc":
		return SortRatingDesc, nil
	}
	return "", fmt.Errorf("%w: sort %q", domain.ErrInvalidInput, s)
}

// Criteria selects and orders reviews. Within a category any listed value
// matches; across categories every constraint must hold. An empty category
// (or empty Search) places no restriction, it does not match nothing.
type Criteria struct {
	Platforms []domain.Platform
	Locations []string
	Brands    []string
	Search    string
	SortBy    SortOrder
}

// Filter returns the reviews matching c, sorted by c.SortBy. Sorting is
// stable; reviews with an unparseable date go last under SortDateDesc.
func Filter(reviews []domain.Review, c Criteria) []domain.Review {
	platforms := toSet(c.Platforms)
	locations := toSet(c.Locations)
	brands := toSet(c.Brands)
	needle := strings.ToLower(c.Search)

	type keyed struct {
		r   domain.Review
		day time.Time
		ok  bool
	}
	matched := make([]keyed, 0, len(reviews))
	for _, r := range reviews {
		if !inSet(platforms, r.Platform) || !inSet(locations, r.Location) || !inSet(brands, r.Brand) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(r.Comment), needle) &&
			!strings.Contains(strings.ToLower(r.Reviewer), needle) {
			continue
		}
		k := keyed{r: r}
		k.day, k.ok = r.Day()
		matched = append(matched, k)
	}

	if c.SortBy == SortRatingDesc {
		slices.SortStableFunc(matched, func(a, b keyed) int { return cmp.Compare(b.r.Rating, a.r.Rating) })
	} else {
		slices.SortStableFunc(matched, func(a, b keyed) int {
			switch {
			case a.ok && b.ok:
				return b.day.Compare(a.day)
			case a.ok:
				return -1
			case b.ok:
				return 1
			}
			return 0
		})
	}

	out := make([]domain.Review, len(matched))
	for i, k := range matched {
		out[i] = k.r
	}
	return out
}

// PlatformFeed returns one platform's reviews, newest first.
func PlatformFeed(reviews []domain.Review, p domain.Platform) []domain.Review {
	return Filter(reviews, Criteria{Platforms: []domain.Platform{p}, SortBy: SortDateDesc})
}

func toSet[T comparable](vs []T) map[T]struct{} {
	if len(vs) == 0 {
		return nil
	}
	set := make(map[T]struct{}, len(vs))
	for _, v := range vs {
		set[v] = struct{}{}
	}
	return set
}

// inSet treats a nil set as a wildcard.
func inSet[T comparable](set map[T]struct{}, v T) bool {
	if set == nil {
		return true
	}
	_, ok := set[v]
	return ok
}
