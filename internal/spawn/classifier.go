package spawn

import (
	"df-boss-monitor/internal/domain"
	"df-boss-monitor/internal/geo"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type Rules struct {
	MajorMinMinutes float64
	MajorMaxMinutes float64
	MinorRadius     int
	Bunker          domain.Point
}

type Classifier struct {
	rules  Rules
	logger zerolog.Logger
}

func NewClassifier(rules Rules, logger zerolog.Logger) *Classifier {
	return &Classifier{rules: rules, logger: logger}
}

// Classify splits a snapshot into major and minor spawns. Records that are not
// boss events, already over, or minor and too far from the bunker are dropped.
func (c *Classifier) Classify(records []domain.SpawnRecord, now time.Time) (majors, minors []domain.Spawn) {
	for _, rec := range records {
		if !isLive(rec, now) {
			continue
		}

		minutes := rec.End.Sub(rec.Start).Seconds() / 60
		if minutes >= c.rules.MajorMinMinutes && minutes <= c.rules.MajorMaxMinutes {
			majors = append(majors, newSpawn(rec.EventID, rec.EnemyType, rec, rec.Locations[0]))
			c.logger.Info().
				Str("event_id", rec.EventID).
				Str("boss", rec.EnemyType).
				Float64("duration_minutes", minutes).
				Msg("major spawn found")
			continue
		}

		found := expand(rec, c.rules.Bunker, c.rules.MinorRadius)
		if len(found) == 0 {
			c.logger.Debug().
				Str("event_id", rec.EventID).
				Str("boss", rec.EnemyType).
				Float64("duration_minutes", minutes).
				Msg("skipping spawn outside bunker range")
			continue
		}
		for i := range found {
			found[i].BunkerDirection = geo.BunkerDirection(c.rules.Bunker, found[i].Location)
			c.logger.Info().
				Str("event_id", rec.EventID).
				Str("boss", found[i].Name).
				Stringer("location", found[i].Location).
				Str("bunker_direction", found[i].BunkerDirection).
				Msg("minor spawn found")
		}
		minors = append(minors, found...)
	}
	return majors, minors
}

// FindNearby returns every live spawn location within radius of ref, whatever its duration.
func (c *Classifier) FindNearby(records []domain.SpawnRecord, ref domain.Point, radius int, now time.Time) []domain.Spawn {
	var nearby []domain.Spawn
	for _, rec := range records {
		if !isLive(rec, now) {
			continue
		}
		found := expand(rec, ref, radius)
		for _, s := range found {
			c.logger.Debug().Str("boss", s.Name).Stringer("location", s.Location).Msg("spawn near reference point")
		}
		nearby = append(nearby, found...)
	}
	return nearby
}

func isLive(rec domain.SpawnRecord, now time.Time) bool {
	if len(rec.Locations) == 0 || rec.EnemyType == "" || rec.EnemyType == "0" {
		return false
	}
	return rec.End.After(now)
}

// expand emits one spawn per record location within radius of center, numbering
// display names only when more than one qualifies.
func expand(rec domain.SpawnRecord, center domain.Point, radius int) []domain.Spawn {
	var hits []domain.Point
	for _, loc := range rec.Locations {
		if geo.Within(center, loc, radius) {
			hits = append(hits, loc)
		}
	}
	out := make([]domain.Spawn, 0, len(hits))
	for i, loc := range hits {
		name := rec.EnemyType
		if len(hits) > 1 {
			name = fmt.Sprintf("%s #%d", rec.EnemyType, i+1)
		}
		out = append(out, newSpawn(fmt.Sprintf("%s_%d", rec.EventID, i), name, rec, loc))
	}
	return out
}

func newSpawn(id, name string, rec domain.SpawnRecord, loc domain.Point) domain.Spawn {
	return domain.Spawn{
		ID:              id,
		EventID:         rec.EventID,
		Name:            name,
		Location:        loc,
		Start:           rec.Start,
		End:             rec.End,
		DurationMinutes: int(rec.End.Sub(rec.Start) / time.Minute),
	}
}
