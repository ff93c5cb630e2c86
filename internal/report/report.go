// Package report renders classified spawns into chat messages.
//
// Ordering never depends on map iteration: every list is sorted by
// (attention bucket, name, distance) with location and id as final tie-breaks.
package report

import (
	"df-boss-monitor/internal/domain"
	"df-boss-monitor/internal/geo"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	alarm     = "🚨"
	clockTime = "15:04"
)

type Formatter struct {
	bunker          domain.Point
	attentionRadius int
	nearbyRadius    int
	loc             *time.Location
}

func NewFormatter(bunker domain.Point, attentionRadius, nearbyRadius int, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{bunker: bunker, attentionRadius: attentionRadius, nearbyRadius: nearbyRadius, loc: loc}
}

type ranked struct {
	spawn    domain.Spawn
	distance int
}

func (f *Formatter) rank(spawns []domain.Spawn, from domain.Point) []ranked {
	out := make([]ranked, len(spawns))
	for i, s := range spawns {
		out[i] = ranked{spawn: s, distance: geo.Distance(from, s.Location)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ai, bi := f.bucket(a.distance), f.bucket(b.distance); ai != bi {
			return ai < bi
		}
		if a.spawn.Name != b.spawn.Name {
			return a.spawn.Name < b.spawn.Name
		}
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.spawn.Location.X != b.spawn.Location.X {
			return a.spawn.Location.X < b.spawn.Location.X
		}
		if a.spawn.Location.Y != b.spawn.Location.Y {
			return a.spawn.Location.Y < b.spawn.Location.Y
		}
		return a.spawn.ID < b.spawn.ID
	})
	return out
}

func (f *Formatter) bucket(distance int) int {
	if f.urgent(distance) {
		return 0
	}
	return 1
}

func (f *Formatter) urgent(distance int) bool {
	return distance <= f.attentionRadius
}

func (f *Formatter) clock(t time.Time) string {
	return t.In(f.loc).Format(clockTime)
}

// FormatDetection renders newly detected spawns. It returns "" when both lists are empty.
func (f *Formatter) FormatDetection(majors, minors []domain.Spawn) string {
	var parts []string

	if len(majors) > 0 {
		parts = append(parts, "=== BIG BOSS ===")
		for _, r := range f.rank(majors, f.bunker) {
			parts = append(parts, f.flag(f.majorBlock(r.spawn), r.distance))
		}
	}

	if len(minors) > 0 {
		if len(majors) > 0 {
			parts = append(parts, "")
		}
		parts = append(parts, "=== SMALL BOSS ===")
		for _, r := range f.rank(minors, f.bunker) {
			parts = append(parts, f.flag(f.minorBlock(r.spawn), r.distance))
		}
	}

	return strings.Join(parts, "\n\n")
}

func (f *Formatter) majorBlock(s domain.Spawn) string {
	return fmt.Sprintf("Boss: %s\nLocation: %s\nStart time: %s\nEnd time: %s\nDuration: %d minutes",
		s.Name, s.Location, f.clock(s.Start), f.clock(s.End), s.DurationMinutes)
}

func (f *Formatter) minorBlock(s domain.Spawn) string {
	direction := s.BunkerDirection
	if direction == "" {
		direction = geo.BunkerDirection(f.bunker, s.Location)
	}
	return fmt.Sprintf("Small Boss: %s\nLocation: %s\nDistance from Secronom Bunker: %s\nStart time: %s\nEnd time: %s\nDuration: %d minutes",
		s.Name, s.Location, direction, f.clock(s.Start), f.clock(s.End), s.DurationMinutes)
}

// flag wraps only the first line of a block in alarm markers.
func (f *Formatter) flag(block string, distance int) string {
	if !f.urgent(distance) {
		return block
	}
	first, rest, found := strings.Cut(block, "\n")
	first = alarm + " " + first + " " + alarm
	if !found {
		return first
	}
	return first + "\n" + rest
}

// FormatTracking renders the player's surroundings: nearby spawns, major spawn
// distances and the way back to the bunker.
func (f *Formatter) FormatTracking(player domain.PlayerLocation, majors, nearby []domain.Spawn) string {
	lines := []string{
		fmt.Sprintf("📍 **角色位置追蹤** - %s", player.Username),
		fmt.Sprintf("當前位置: %s", player.Location),
		"",
	}

	if len(nearby) > 0 {
		lines = append(lines, fmt.Sprintf("🎯 **角色%d格範圍內的Boss**", f.nearbyRadius))
		for _, r := range f.rank(nearby, player.Location) {
			s := r.spawn
			where := fmt.Sprintf("• %s 在 %s - 距離: %d格 (%s)", s.Name, s.Location, r.distance, geo.Direction(player.Location, s.Location))
			when := fmt.Sprintf("  時間: %s - %s", f.clock(s.Start), f.clock(s.End))
			if f.urgent(r.distance) {
				where = alarm + " " + where + " " + alarm
				when = alarm + " " + when + " " + alarm
			}
			lines = append(lines, where, when)
		}
		lines = append(lines, "")
	}

	if len(majors) > 0 {
		lines = append(lines, "🔴 **BIG BOSS 距離**")
		for _, r := range f.rank(majors, player.Location) {
			s := r.spawn
			line := fmt.Sprintf("• %s 在 %s - 距離: %d格 (%s)", s.Name, s.Location, r.distance, geo.Direction(player.Location, s.Location))
			if f.urgent(r.distance) {
				line = alarm + " " + line + " " + alarm
			}
			lines = append(lines, line)
		}
		lines = append(lines, "")
	}

	lines = append(lines, fmt.Sprintf("🏠 **Secronom Bunker** - 距離: %d格 (%s)",
		geo.Distance(player.Location, f.bunker), geo.Direction(player.Location, f.bunker)))

	if len(nearby) == 0 && len(majors) == 0 {
		lines = append(lines, "\n⚠️ 目前沒有符合條件的Boss")
	}

	return strings.Join(lines, "\n")
}
