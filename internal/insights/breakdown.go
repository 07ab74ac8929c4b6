package insights

import (
	"fmt"
	"strings"

	"review_dashboard/internal/domain"
)

// Dimension names a category label a breakdown groups by.
type Dimension string

const (
	ByLocation Dimension = "location"
	ByBrand    Dimension = "brand"
)

func ParseDimension(s string) (Dimension, error) {
	switch d := Dimension(strings.ToLower(strings.TrimSpace(s))); d {
	case ByLocation, ByBrand:
		return d, nil
	}
	return "", fmt.Errorf("%w: dimension %q", domain.ErrNotFound, s)
}

// Breakdown groups reviews by the dimension's label (first-seen order) and
// reports per-platform and overall averages for each group.
func Breakdown(reviews []domain.Review, reg domain.Registry, d Dimension) []domain.CategoryBreakdown {
	key := func(r domain.Review) string { return r.Location }
	if d == ByBrand {
		key = func(r domain.Review) string { return r.Brand }
	}

	type group struct {
		name     string
		platform *platformAccs
		overall  Accumulator
	}
	var groups []*group
	index := make(map[string]*group)

	for _, r := range reviews {
		name := key(r)
		g, ok := index[name]
		if !ok {
			g = &group{name: name, platform: newPlatformAccs(reg)}
			index[name] = g
			groups = append(groups, g)
		}
		if !r.HasValidRating() {
			continue
		}
		g.platform.add(r)
		g.overall.Add(r.Rating)
	}

	out := make([]domain.CategoryBreakdown, len(groups))
	for i, g := range groups {
		out[i] = domain.CategoryBreakdown{
			Name:      g.name,
			Platforms: g.platform.stats(),
			Overall:   g.overall.Stat(),
		}
	}
	return out
}

func LocationBreakdown(reviews []domain.Review, reg domain.Registry) []domain.CategoryBreakdown {
	return Breakdown(reviews, reg, ByLocation)
}

func BrandBreakdown(reviews []domain.Review, reg domain.Registry) []domain.CategoryBreakdown {
	return Breakdown(reviews, reg, ByBrand)
}
