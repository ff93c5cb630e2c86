// Package geo holds the grid math used to relate spawns, players and the bunker.
package geo

import (
	"df-boss-monitor/internal/domain"
	"strconv"
	"strings"
)

const (
	// AtBunker is the label for a spawn sitting on the point of interest.
	AtBunker = "位於Bunker"
	// SameLocation is the label for two arbitrary points sharing a cell.
	SameLocation = "相同位置"
)

// Distance returns the Chebyshev (king-move) distance between a and b.
func Distance(a, b domain.Point) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

// Direction describes how to walk from a to b, e.g. "2右2上". Larger y is down.
func Direction(a, b domain.Point) string {
	if d := steps(a, b); d != "" {
		return d
	}
	return SameLocation
}

// BunkerDirection is Direction phrased relative to the point of interest.
func BunkerDirection(bunker, p domain.Point) string {
	if d := steps(bunker, p); d != "" {
		return d
	}
	return AtBunker
}

// Within reports whether p lies within radius cells of center.
func Within(center, p domain.Point, radius int) bool {
	return Distance(center, p) <= radius
}

func steps(a, b domain.Point) string {
	var sb strings.Builder
	switch dx := b.X - a.X; {
	case dx > 0:
		sb.WriteString(strconv.Itoa(dx) + "右")
	case dx < 0:
		sb.WriteString(strconv.Itoa(-dx) + "左")
	}
	switch dy := b.Y - a.Y; {
	case dy > 0:
		sb.WriteString(strconv.Itoa(dy) + "下")
	case dy < 0:
		sb.WriteString(strconv.Itoa(-dy) + "上")
	}
	return sb.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
