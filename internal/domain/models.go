package domain

import (
	"fmt"
	"time"
)

type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// SpawnRecord is one entry of the boss map snapshot, already validated at the API boundary.
type SpawnRecord struct {
	EventID   string
	EnemyType string
	Start     time.Time
	End       time.Time
	Locations []Point
}

type Category string

const (
	CategoryMajor Category = "big"
	CategoryMinor Category = "small"
)

// Spawn is a classified spawn: one record reduced to a single location.
type Spawn struct {
	ID              string // event id, suffixed with the location index for minor entries
	EventID         string
	Name            string
	Location        Point
	Start           time.Time
	End             time.Time
	DurationMinutes int
	// only set for minor spawns
	BunkerDirection string
}

type TrackedKey struct {
	Category Category
	ID       string
	Start    int64
}

func KeyFor(category Category, s Spawn) TrackedKey {
	return TrackedKey{Category: category, ID: s.ID, Start: s.Start.Unix()}
}

func (k TrackedKey) String() string {
	return fmt.Sprintf("%s_%s_%d", k.Category, k.ID, k.Start)
}

type PlayerLocation struct {
	AccountID string
	Username  string
	Location  Point
}

type Account struct {
	ID        string // nanoid
	Name      string
	ProfileID string
	CreatedAt time.Time
	UpdatedAt time.Time
}
