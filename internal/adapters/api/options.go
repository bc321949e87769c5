package api

import (
	"strconv"
	"strings"
)

// QueryOptions selects the optional fields the catalog returns.
// It is a value type: a client copies it at construction and never changes it.
type QueryOptions struct {
	ShowID          bool
	ShowPermit      bool
	ShowCoordinates bool
	ShowInformation bool
	ShowPrimaryStar bool
	IncludeHidden   bool
}

// DefaultQueryOptions returns the option set used for jump target lookups
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		ShowID:          true,
		ShowPermit:      true,
		ShowCoordinates: true,
	}
}

// QueryString renders the options as "&key=value" pairs in a fixed order,
// ready to append after the first query parameter.
func (o QueryOptions) QueryString() string {
	pairs := []struct {
		key string
		on  bool
	}{
		{"showId", o.ShowID},
		{"showPermit", o.ShowPermit},
		{"showCoordinates", o.ShowCoordinates},
		{"showInformation", o.ShowInformation},
		{"showPrimaryStar", o.ShowPrimaryStar},
		{"includeHidden", o.IncludeHidden},
	}

	var b strings.Builder
	for _, p := range pairs {
		b.WriteString("&")
		b.WriteString(p.key)
		b.WriteString("=")
		b.WriteString(flag(p.on))
	}
	return b.String()
}

func flag(on bool) string {
	if on {
		return "1"
	}
	return "0"
}

// Range and volume query bounds
const (
	MinRadius     = 5
	MaxRadius     = 100
	DefaultRadius = 50

	MinCubeSize     = 10
	MaxCubeSize     = 200
	DefaultCubeSize = 100
)

// ClampRadius bounds a sphere query radius to [MinRadius, MaxRadius]
func ClampRadius(radius int) int {
	return clamp(radius, MinRadius, MaxRadius)
}

// ClampCubeSize bounds a cube query edge length to [MinCubeSize, MaxCubeSize]
func ClampCubeSize(size int) int {
	return clamp(size, MinCubeSize, MaxCubeSize)
}

// ParseRadius reads a radius from user text; anything that is not an integer
// yields DefaultRadius, integers are clamped.
func ParseRadius(text string) int {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return DefaultRadius
	}
	return ClampRadius(v)
}

// ParseCubeSize reads a cube size from user text; anything that is not an integer
// yields DefaultCubeSize, integers are clamped.
func ParseCubeSize(text string) int {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return DefaultCubeSize
	}
	return ClampCubeSize(v)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
