package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements Store on Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a fixtures repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListUpcoming returns fixtures kicking off after the given instant.
func (r *Repository) ListUpcoming(ctx context.Context, after time.Time) ([]Fixture, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, home_team, away_team, stage, venue, kickoff_at
		 FROM fixtures
		 WHERE kickoff_at > $1
		 ORDER BY kickoff_at`,
		after,
	)
	if err != nil {
		return nil, fmt.Errorf("query fixtures: %w", err)
	}
	defer rows.Close()

	var results []Fixture
	for rows.Next() {
		var f Fixture
		if err := rows.Scan(&f.ID, &f.HomeTeam, &f.AwayTeam, &f.Stage, &f.Venue, &f.KickoffAt); err != nil {
			return nil, fmt.Errorf("scan fixture: %w", err)
		}
		results = append(results, f)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return results, nil
}

var _ Store = (*Repository)(nil)
