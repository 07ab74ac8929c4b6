// Package mockdata generates demo reviews from an explicit seed.
package mockdata

import (
	"fmt"
	"math/rand/v2"
	"time"

	"review_dashboard/internal/domain"
)

var (
	locations = []string{"Downtown", "Business Bay", "Marina", "JBR", "Festival City"}
	brands    = []string{"Main Branch", "Express", "Premium", "Cafe"}
	reviewers = []string{"Ahmed S.", "Sarah M.", "John D.", "Fatima K.", "Mohammed R.", "Lisa T.", "Ali H.", "Emma W."}

	positiveComments = []string{
		"Absolutely loved the food! Fast delivery and excellent packaging.",
		"The best shawarma in town. Will definitely order again!",
		"Friendly staff and amazing taste. Highly recommended!",
		"Food was delicious and arrived hot. Great value for money.",
		"Outstanding service and quality. My new favorite restaurant!",
	}
	neutralComments = []string{
		"Food was okay. Nothing special but not bad either.",
		"Delivery was on time, but the food was slightly cold.",
		"Average taste, reasonable prices.",
		"Decent food but portion size could be better.",
		"Not bad, might order again if I'm in the area.",
	}
	negativeComments = []string{
		"Very disappointed with the quality. Not as advertised.",
		"Food was cold and delivery took too long.",
		"Poor packaging, food was spilled. Won't order again.",
		"Overpriced for the quality you get. Not worth it.",
		"Wrong order delivered and customer service was unhelpful.",
	}
)

type Options struct {
	Seed   uint64
	Count  int
	Anchor time.Time // newest possible review date
	Window int       // calendar months up to and including Anchor's; 0 means 3
}

// Generate returns Count reviews dated from the first day of the window's
// oldest month through Anchor.
// The same options always produce the same reviews.
func Generate(o Options) []domain.Review {
	if o.Count <= 0 {
		return []domain.Review{}
	}
	window := o.Window
	if window <= 0 {
		window = 3
	}

	rng := rand.New(rand.NewPCG(o.Seed, o.Seed^0x9e3779b97f4a7c15))
	platforms := domain.Platforms()

	end := time.Date(o.Anchor.Year(), o.Anchor.Month(), o.Anchor.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(end.Year(), end.Month()-time.Month(window-1), 1, 0, 0, 0, 0, time.UTC)
	spanDays := int(end.Sub(start).Hours()/24) + 1

	out := make([]domain.Review, 0, o.Count)
	for i := 0; i < o.Count; i++ {
		rating := rng.IntN(5) + 1

		var comment string
		switch {
		case rating >= 4:
			comment = pick(rng, positiveComments)
		case rating == 3:
			comment = pick(rng, neutralComments)
		default:
			comment = pick(rng, negativeComments)
		}

		out = append(out, domain.Review{
			ID:       fmt.Sprintf("review-%d", i),
			Platform: pick(rng, platforms),
			Rating:   rating,
			Comment:  comment,
			Date:     start.AddDate(0, 0, rng.IntN(spanDays)).Format(domain.DateLayout),
			Reviewer: pick(rng, reviewers),
			Location: pick(rng, locations),
			Brand:    pick(rng, brands),
		})
	}
	return out
}

func pick[T any](rng *rand.Rand, xs []T) T {
	return xs[rng.IntN(len(xs))]
}
