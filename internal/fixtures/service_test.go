package fixtures

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeStore struct {
	fixtures []Fixture
	queries  int
}

func (s *fakeStore) ListUpcoming(_ context.Context, after time.Time) ([]Fixture, error) {
	s.queries++
	var results []Fixture
	for _, f := range s.fixtures {
		if f.KickoffAt.After(after) {
			results = append(results, f)
		}
	}
	return results, nil
}

func TestListUpcomingCachesWithinTTL(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{fixtures: []Fixture{
		{ID: uuid.New(), HomeTeam: "Brasil", AwayTeam: "Argentina", Stage: "group", KickoffAt: now.Add(48 * time.Hour)},
	}}
	svc := NewService(store, 10*time.Minute, func() time.Time { return now })

	first, err := svc.ListUpcoming(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.ListUpcoming(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if store.queries != 1 {
		t.Fatalf("queries = %d, want 1 (second read served from cache)", store.queries)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("results = %d / %d", len(first), len(second))
	}
}

func TestListUpcomingRefreshesAfterExpiry(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{fixtures: []Fixture{
		{ID: uuid.New(), HomeTeam: "Brasil", AwayTeam: "Argentina", Stage: "group", KickoffAt: now.Add(48 * time.Hour)},
	}}
	svc := NewService(store, 10*time.Minute, func() time.Time { return now })

	if _, err := svc.ListUpcoming(context.Background()); err != nil {
		t.Fatal(err)
	}

	now = now.Add(11 * time.Minute)
	if _, err := svc.ListUpcoming(context.Background()); err != nil {
		t.Fatal(err)
	}

	if store.queries != 2 {
		t.Fatalf("queries = %d, want 2 after TTL expiry", store.queries)
	}
}

func TestInvalidateForcesRefresh(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	svc := NewService(store, time.Hour, func() time.Time { return now })

	if _, err := svc.ListUpcoming(context.Background()); err != nil {
		t.Fatal(err)
	}
	svc.Invalidate()
	if _, err := svc.ListUpcoming(context.Background()); err != nil {
		t.Fatal(err)
	}

	if store.queries != 2 {
		t.Fatalf("queries = %d, want 2 after invalidation", store.queries)
	}
}
