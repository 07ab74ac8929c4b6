// Package insights derives the dashboard's read models from a Review Store
// snapshot. Every function is pure: it never mutates its input and returns
// freshly allocated results.
package insights

import (
	"math"

	"review_dashboard/internal/domain"
)

// Accumulator folds ratings into an integer sum and a count. The average is
// computed once from the totals, so the result does not depend on the order
// ratings were added in.
type Accumulator struct {
	sum   int
	count int
}

func (a *Accumulator) Add(rating int) {
	a.sum += rating
	a.count++
}

func (a Accumulator) Count() int { return a.count }

func (a Accumulator) Stat() domain.RatingStat {
	if a.count == 0 {
		return domain.RatingStat{Empty: true}
	}
	return domain.RatingStat{Average: round1(float64(a.sum) / float64(a.count)), Count: a.count}
}

// round1 rounds half away from zero to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// platformAccs keeps one accumulator per registry entry, in registry order.
type platformAccs struct {
	reg  domain.Registry
	accs []Accumulator
}

func newPlatformAccs(reg domain.Registry) *platformAccs {
	return &platformAccs{reg: reg, accs: make([]Accumulator, len(reg))}
}

// add records r under its platform; reviews for unregistered platforms are ignored.
func (p *platformAccs) add(r domain.Review) {
	for i, info := range p.reg {
		if info.Key == r.Platform {
			p.accs[i].Add(r.Rating)
			return
		}
	}
}

func (p *platformAccs) stats() []domain.PlatformStat {
	out := make([]domain.PlatformStat, len(p.reg))
	for i, info := range p.reg {
		out[i] = domain.PlatformStat{Platform: info.Key, Name: info.Name, RatingStat: p.accs[i].Stat()}
	}
	return out
}
