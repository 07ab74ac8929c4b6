package domain

// Derived read models. All of them are recomputed from a snapshot on every call.

type AggregatedRating struct {
	Platform      string  `json:"platform"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
	Color         string  `json:"color"`
}

type SentimentBucket struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

func (s SentimentBucket) Total() int { return s.Positive + s.Neutral + s.Negative }

// SentimentShare holds percentages of the total, rounded to one decimal.
type SentimentShare struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

type FilterOptions struct {
	Locations []string `json:"locations"`
	Brands    []string `json:"brands"`
}

// RatingStat is an average together with the number of samples behind it.
// Empty is set iff Count is zero; Average is then 0 and carries no meaning.
type RatingStat struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
	Empty   bool    `json:"empty"`
}

type PlatformStat struct {
	Platform Platform `json:"platform"`
	Name     string   `json:"name"`
	RatingStat
}

// TrendBucket is one calendar month of the trend series.
type TrendBucket struct {
	Month     string         `json:"month"` // YYYY-MM
	Platforms []PlatformStat `json:"platforms"`
	Overall   RatingStat     `json:"overall"`
}

// CategoryBreakdown is one location or brand row of the breakdown view.
type CategoryBreakdown struct {
	Name      string         `json:"name"`
	Platforms []PlatformStat `json:"platforms"`
	Overall   RatingStat     `json:"overall"`
}
