package app

import (
	"crypto/sha1"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"time"

	"review_dashboard/internal/domain"
)

/********** alias registry (single source of truth) **********/

var reviewAliases = map[string][]string{
	"id":              {"id", "review_id", "reviewId", "external_id"},
	"rating":          {"rating", "rate", "score", "stars", "rating.value"},
	"comment":         {"comment", "text", "review_text", "review", "content", "body", "message"},
	"reviewer":        {"reviewer", "author", "name", "userName", "reviewer.name", "user.name"},
	"reviewer_first":  {"first_name", "firstname", "user.first_name", "user.firstName"},
	"reviewer_last":   {"last_name", "lastname", "user.last_name", "user.lastName"},
	"date":            {"date", "review_date", "created_at", "createdAt", "published_at", "time"},
	"location":        {"location", "branch", "outlet", "location.name", "branch.name"},
	"brand":           {"brand", "brand_name", "restaurant", "brand.name", "store.name"},
	"platform_source": {"platform", "source", "provider"},
}

// Layouts tried in order when a feed date is a string.
var dateLayouts = []string{
	domain.DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, key string) string {
	for _, p := range reviewAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, " ")
}

// getFloatFlexible: number from several paths (float64/int/string like "4,0").
func getFloatFlexible(m map[string]any, paths ...string) (float64, bool) {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// normalizeDate renders a feed date as YYYY-MM-DD (UTC). Numbers are unix
// seconds. Unknown formats are returned unchanged so validation rejects them.
func normalizeDate(m map[string]any) string {
	for _, k := range reviewAliases["date"] {
		switch v := lookupAny(m, k).(type) {
		case float64:
			return time.Unix(int64(v), 0).UTC().Format(domain.DateLayout)
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					return t.UTC().Format(domain.DateLayout)
				}
			}
			return s
		}
	}
	return ""
}

/********** reviews mapper **********/

// mapReviews turns raw feed objects into reviews of platform p. Records are
// not validated here.
func mapReviews(p domain.Platform, in []map[string]any) []domain.Review {
	out := make([]domain.Review, 0, len(in))
	for _, r := range in {
		rv := domain.Review{
			Platform: p,
			Comment:  firstNonEmptyAlias(r, "comment"),
			Date:     normalizeDate(r),
			Location: firstNonEmptyAlias(r, "location"),
			Brand:    firstNonEmptyAlias(r, "brand"),
		}

		// a record naming a known platform keeps it
		if src := firstNonEmptyAlias(r, "platform_source"); src != "" {
			if sp, ok := domain.ParsePlatform(src); ok {
				rv.Platform = sp
			}
		}

		// Reviewer → prefer single field; fallback to first + last.
		if s := firstNonEmptyAlias(r, "reviewer"); s != "" {
			rv.Reviewer = s
		} else {
			rv.Reviewer = joinNonEmpty(firstNonEmptyAlias(r, "reviewer_first"), firstNonEmptyAlias(r, "reviewer_last"))
		}

		if f, ok := getFloatFlexible(r, reviewAliases["rating"]...); ok {
			rv.Rating = int(math.Round(f))
		}

		// ID → prefer explicit (numbers included); else synthesize stable hash.
		if s := firstNonEmptyAlias(r, "id"); s != "" {
			rv.ID = s
		} else if f, ok := getFloatFlexible(r, reviewAliases["id"]...); ok {
			rv.ID = strconv.FormatInt(int64(f), 10)
		} else {
			rv.ID = syntheticID(rv)
		}

		out = append(out, rv)
	}
	return out
}

func syntheticID(rv domain.Review) string {
	sig := strings.Join([]string{
		string(rv.Platform), rv.Reviewer, rv.Date, strconv.Itoa(rv.Rating), rv.Comment, rv.Location, rv.Brand,
	}, "|")
	sum := sha1.Sum([]byte(sig))
	return string(rv.Platform) + "-" + hex.EncodeToString(sum[:])
}
