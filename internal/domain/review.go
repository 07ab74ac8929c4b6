package domain

import "time"

// DateLayout is the calendar-date format reviews carry (no time of day).
const DateLayout = "2006-01-02"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is one customer feedback record. Values are treated as immutable once
// they are part of a snapshot.
type Review struct {
	ID       string   `json:"id" validate:"required,max=128"`
	Platform Platform `json:"platform" validate:"required,oneof=talabat noon careem google"`
	Rating   int      `json:"rating" validate:"min=1,max=5"`
	Comment  string   `json:"comment" validate:"max=5000"`
	Date     string   `json:"date" validate:"required,datetime=2006-01-02"`
	Reviewer string   `json:"reviewer" validate:"max=255"`
	Location string   `json:"location" validate:"max=255"`
	Brand    string   `json:"brand" validate:"max=255"`
}

// Day parses Date. ok is false for an unparseable date.
func (r Review) Day() (time.Time, bool) {
	t, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (r Review) HasValidRating() bool {
	return r.Rating >= MinRating && r.Rating <= MaxRating
}
