// Package fixtures serves the imported tournament fixture listing. The data
// changes rarely, so reads go through a short TTL cache.
package fixtures

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Fixture is one scheduled match.
type Fixture struct {
	ID        uuid.UUID `json:"id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	Stage     string    `json:"stage"`
	Venue     *string   `json:"venue,omitempty"`
	KickoffAt time.Time `json:"kickoff_at"`
}

// Store is the persistence surface of the fixtures service.
type Store interface {
	// ListUpcoming returns fixtures kicking off after the given instant,
	// earliest first.
	ListUpcoming(ctx context.Context, after time.Time) ([]Fixture, error)
}
