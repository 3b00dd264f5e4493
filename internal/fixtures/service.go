package fixtures

import (
	"context"
	"time"

	"agendai_backend/platform/apperr"
	"agendai_backend/platform/cache"
)

const (
	cacheKey = "fixtures:upcoming"

	// DefaultCacheTTL bounds how stale the listing can get after an import.
	DefaultCacheTTL = 10 * time.Minute
)

// Service serves the fixture listing through a TTL cache.
type Service struct {
	store Store
	cache *cache.Cache[[]Fixture]
	clock func() time.Time
}

// NewService creates the fixtures service. A nil clock defaults to time.Now;
// the same clock drives both the cache expiry and the upcoming filter.
func NewService(store Store, ttl time.Duration, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		store: store,
		cache: cache.New[[]Fixture](ttl, cache.Clock(clock)),
		clock: clock,
	}
}

// ListUpcoming returns the upcoming fixtures, from cache when fresh.
func (s *Service) ListUpcoming(ctx context.Context) ([]Fixture, error) {
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached, nil
	}

	fixtures, err := s.store.ListUpcoming(ctx, s.clock())
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list fixtures", err)
	}

	s.cache.Set(cacheKey, fixtures)
	return fixtures, nil
}

// Invalidate drops the cached listing, for use after an import.
func (s *Service) Invalidate() {
	s.cache.Invalidate(cacheKey)
}
