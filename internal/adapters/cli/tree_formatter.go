package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andrescamacho/edsm-checker-go/internal/domain/system"
)

// TreeFormatter renders sphere and cube query results as a tree rooted at the centre system
type TreeFormatter struct {
	useColors bool
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(useColors bool) *TreeFormatter {
	return &TreeFormatter{useColors: useColors}
}

// FormatTree renders centre and its neighbours, nearest first
func (f *TreeFormatter) FormatTree(centre *system.Target, neighbours []*system.Target) string {
	if centre == nil {
		return "(empty tree)"
	}

	var builder strings.Builder
	builder.WriteString(centre.DisplayName())
	builder.WriteString("\n")

	sorted := sortByDistance(withoutCentre(centre, neighbours))
	for i, t := range sorted {
		linePrefix := "├── "
		if i == len(sorted)-1 {
			linePrefix = "└── "
		}
		f.formatNode(&builder, t, linePrefix)
	}
	return builder.String()
}

// formatNode writes one neighbour line
func (f *TreeFormatter) formatNode(builder *strings.Builder, t *system.Target, linePrefix string) {
	distanceText := ""
	if d, ok := distance(t); ok {
		distanceText = fmt.Sprintf(" (%.2f ly)", d)
	}

	classText := ""
	if class := t.StarClass(); class != "" {
		classText = fmt.Sprintf(" [%s%s%s]", f.classColor(class), class, f.colorReset())
	}

	positionText := ""
	if t.Position != nil {
		positionText = fmt.Sprintf(" @ %.2f, %.2f, %.2f", t.Position.X, t.Position.Y, t.Position.Z)
	}

	builder.WriteString(fmt.Sprintf("%s%s%s%s%s\n", linePrefix, t.DisplayName(), distanceText, classText, positionText))
}

// classColor returns an ANSI color code for scoopable star classes
func (f *TreeFormatter) classColor(class string) string {
	if !f.useColors {
		return ""
	}
	switch strings.ToUpper(class[:1]) {
	case "K", "G", "B", "F", "O", "A", "M":
		return "\033[33m" // Yellow
	default:
		return ""
	}
}

// colorReset returns ANSI reset code
func (f *TreeFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}

// FormatSummary creates a one-line summary of a query result
func (f *TreeFormatter) FormatSummary(centre *system.Target, neighbours []*system.Target, shape string, size int) string {
	others := withoutCentre(centre, neighbours)
	var nearest *system.Target
	nearestDistance := 0.0
	for _, t := range others {
		if d, ok := distance(t); ok && (nearest == nil || d < nearestDistance) {
			nearest, nearestDistance = t, d
		}
	}

	summary := fmt.Sprintf("%d systems in %s of %d ly", len(others), shape, size)
	if nearest != nil {
		summary += fmt.Sprintf(", nearest: %s (%.2f ly)", nearest.DisplayName(), nearestDistance)
	}
	return summary
}

// withoutCentre drops the centre system, which the catalog returns at distance 0
func withoutCentre(centre *system.Target, targets []*system.Target) []*system.Target {
	out := make([]*system.Target, 0, len(targets))
	for _, t := range targets {
		if centre != nil && t.Name == centre.Name {
			continue
		}
		out = append(out, t)
	}
	return out
}

func sortByDistance(targets []*system.Target) []*system.Target {
	sorted := make([]*system.Target, len(targets))
	copy(sorted, targets)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, okI := distance(sorted[i])
		dj, okJ := distance(sorted[j])
		if okI != okJ {
			return okI
		}
		return di < dj
	})
	return sorted
}

func distance(t *system.Target) (float64, bool) {
	d, ok := t.Attributes[system.AttrDistance].(float64)
	return d, ok
}
