package domain

import "strings"

// Platform is the key of a review source.
type Platform string

const (
	Talabat Platform = "talabat"
	Noon    Platform = "noon"
	Careem  Platform = "careem"
	Google  Platform = "google"
)

// Platforms lists the closed set of known platform keys.
func Platforms() []Platform {
	return []Platform{Talabat, Noon, Careem, Google}
}

func (p Platform) Valid() bool {
	switch p {
	case Talabat, Noon, Careem, Google:
		return true
	}
	return false
}

// ParsePlatform normalizes a raw key ("Talabat ", "NOON").
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

// PlatformInfo is the display configuration for one platform.
type PlatformInfo struct {
	Key   Platform `json:"key"`
	Name  string   `json:"name"`
	Color string   `json:"color"`
}

// Registry is the ordered platform configuration handed to the aggregation
// functions. Only platforms listed here are reported by per-platform views.
type Registry []PlatformInfo

// DefaultRegistry returns a fresh copy of the dashboard's platform table.
func DefaultRegistry() Registry {
	return Registry{
		{Key: Talabat, Name: "Talabat", Color: "#F97316"},
		{Key: Noon, Name: "Noon", Color: "#FACC15"},
		{Key: Careem, Name: "Careem", Color: "#84CC16"},
		{Key: Google, Name: "Google", Color: "#3B82F6"},
	}
}

func (r Registry) Lookup(key Platform) (PlatformInfo, bool) {
	for _, p := range r {
		if p.Key == key {
			return p, true
		}
	}
	return PlatformInfo{}, false
}

func (r Registry) Contains(key Platform) bool {
	_, ok := r.Lookup(key)
	return ok
}

func (r Registry) Keys() []Platform {
	out := make([]Platform, len(r))
	for i, p := range r {
		out[i] = p.Key
	}
	return out
}
