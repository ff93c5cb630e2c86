package tracker

import (
	"df-boss-monitor/internal/domain"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Tracker remembers which spawns were already announced, per category.
// Cycles are serialized by the scheduler; the lock only guards status readers.
type Tracker struct {
	mu      sync.RWMutex
	entries map[domain.Category]*bucket
	logger  zerolog.Logger
}

// bucket keeps first-insertion order next to the lookup map.
type bucket struct {
	order []domain.TrackedKey
	seen  map[domain.TrackedKey]domain.Spawn
}

func New(logger zerolog.Logger) *Tracker {
	return &Tracker{
		entries: map[domain.Category]*bucket{
			domain.CategoryMajor: newBucket(),
			domain.CategoryMinor: newBucket(),
		},
		logger: logger,
	}
}

func newBucket() *bucket {
	return &bucket{seen: make(map[domain.TrackedKey]domain.Spawn)}
}

// MarkNew records every spawn not seen before and returns only those.
// Known spawns are skipped without touching the stored copy.
func (t *Tracker) MarkNew(category domain.Category, spawns []domain.Spawn) []domain.Spawn {
	t.mu.Lock()
	defer t.mu.Unlock()

	b := t.bucketFor(category)
	var fresh []domain.Spawn
	for _, s := range spawns {
		key := domain.KeyFor(category, s)
		if _, ok := b.seen[key]; ok {
			continue
		}
		b.seen[key] = s
		b.order = append(b.order, key)
		fresh = append(fresh, s)

		t.logger.Info().
			Str("category", string(category)).
			Str("event_id", s.EventID).
			Str("boss", s.Name).
			Stringer("location", s.Location).
			Msg("new spawn detected")
	}
	return fresh
}

// SweepExpired drops every entry whose end time is at or before now.
func (t *Tracker) SweepExpired(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for category, b := range t.entries {
		kept := b.order[:0]
		for _, key := range b.order {
			s := b.seen[key]
			if now.Before(s.End) {
				kept = append(kept, key)
				continue
			}
			delete(b.seen, key)
			removed++
			t.logger.Info().
				Str("category", string(category)).
				Str("event_id", s.EventID).
				Str("boss", s.Name).
				Msg("expired spawn removed")
		}
		b.order = kept
	}

	if removed == 0 {
		t.logger.Debug().Msg("no expired spawns to remove")
	}
	return removed
}

// Snapshot copies the tracked spawns in first-seen order.
func (t *Tracker) Snapshot() map[domain.Category][]domain.Spawn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[domain.Category][]domain.Spawn, len(t.entries))
	for category, b := range t.entries {
		list := make([]domain.Spawn, 0, len(b.order))
		for _, key := range b.order {
			list = append(list, b.seen[key])
		}
		out[category] = list
	}
	return out
}

func (t *Tracker) Len(category domain.Category) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if b, ok := t.entries[category]; ok {
		return len(b.order)
	}
	return 0
}

func (t *Tracker) bucketFor(category domain.Category) *bucket {
	b, ok := t.entries[category]
	if !ok {
		b = newBucket()
		t.entries[category] = b
	}
	return b
}
