package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/logging"
)

// Invalidator is the cache hint interface CachedService implements.
type Invalidator = boat.Invalidator

var (
	_ boat.Service = (*Store)(nil)
	_ boat.Service = (*CachedService)(nil)
	_ Invalidator  = (*CachedService)(nil)
)

type entry[T any] struct {
	value   T
	expires time.Time
}

// CachedService is a read-through cache in front of a boat.Service.
// Boats, boat lists and reviews are cached for ttl; writes pass through and
// callers report them with NotifyCreated and NotifyUpdated.
type CachedService struct {
	boat.Service

	ttl    time.Duration
	now    func() time.Time
	logger *logging.Logger

	mu      sync.Mutex
	boats   map[string]entry[boat.Boat]
	lists   map[string]entry[[]boat.Boat]
	reviews map[string]entry[[]boat.Review]
}

// NewCachedService wraps backend. A non-positive ttl disables caching.
func NewCachedService(backend boat.Service, ttl time.Duration, logger *logging.Logger) *CachedService {
	return &CachedService{
		Service: backend,
		ttl:     ttl,
		now:     time.Now,
		logger:  logging.OrNop(logger).WithComponent("cache"),
		boats:   make(map[string]entry[boat.Boat]),
		lists:   make(map[string]entry[[]boat.Boat]),
		reviews: make(map[string]entry[[]boat.Review]),
	}
}

func lookup[T any](c *CachedService, m map[string]entry[T], key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := m[key]
	if !ok || c.now().After(e.expires) {
		var zero T
		return zero, false
	}
	return e.value, true
}

func remember[T any](c *CachedService, m map[string]entry[T], key string, v T) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	m[key] = entry[T]{value: v, expires: c.now().Add(c.ttl)}
}

// Boat returns a cached boat or fetches it.
func (c *CachedService) Boat(ctx context.Context, id string) (boat.Boat, error) {
	if b, ok := lookup(c, c.boats, id); ok {
		return b, nil
	}
	b, err := c.Service.Boat(ctx, id)
	if err != nil {
		return boat.Boat{}, err
	}
	remember(c, c.boats, id, b)
	return b, nil
}

// Boats returns a cached list or fetches it.
func (c *CachedService) Boats(ctx context.Context, f boat.Filter) ([]boat.Boat, error) {
	key := f.Key()
	if list, ok := lookup(c, c.lists, key); ok {
		return slices.Clone(list), nil
	}
	list, err := c.Service.Boats(ctx, f)
	if err != nil {
		return nil, err
	}
	remember(c, c.lists, key, slices.Clone(list))
	return list, nil
}

// Reviews returns cached reviews or fetches them.
func (c *CachedService) Reviews(ctx context.Context, boatID string) ([]boat.Review, error) {
	if rs, ok := lookup(c, c.reviews, boatID); ok {
		return slices.Clone(rs), nil
	}
	rs, err := c.Service.Reviews(ctx, boatID)
	if err != nil {
		return nil, err
	}
	remember(c, c.reviews, boatID, slices.Clone(rs))
	return rs, nil
}

// NotifyCreated drops the cached reviews of boatID.
func (c *CachedService) NotifyCreated(boatID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.reviews, boatID)
	c.logger.Debug("invalidated reviews", "boat_id", boatID)
}

// NotifyUpdated drops the cached boats and every cached list.
func (c *CachedService) NotifyUpdated(boatIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(boatIDs) == 0 {
		clear(c.boats)
		clear(c.reviews)
	}
	for _, id := range boatIDs {
		delete(c.boats, id)
	}
	clear(c.lists)
	c.logger.Debug("invalidated boats", "count", len(boatIDs))
}

// Invalidate drops everything, e.g. after the database file changed on disk.
func (c *CachedService) Invalidate() {
	c.NotifyUpdated()
}
