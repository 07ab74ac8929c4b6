package insights

import "review_dashboard/internal/domain"

// Options lists the distinct locations and brands of a snapshot in the order
// they first appear.
func Options(reviews []domain.Review) domain.FilterOptions {
	return domain.FilterOptions{
		Locations: distinct(reviews, func(r domain.Review) string { return r.Location }),
		Brands:    distinct(reviews, func(r domain.Review) string { return r.Brand }),
	}
}

func distinct(reviews []domain.Review, key func(domain.Review) string) []string {
	seen := make(map[string]struct{}, 8)
	out := make([]string, 0, 8)
	for _, r := range reviews {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
