package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/yungbote/solbot-backend/internal/clients/redis"
)

// ScaffoldingCache holds the last derived level per (learner, phase).
type ScaffoldingCache interface {
	GetLevel(ctx context.Context, learnerID uuid.UUID, phaseID string) (int, bool, error)
	SetLevel(ctx context.Context, learnerID uuid.UUID, phaseID string, level int) error
}

var _ ScaffoldingCache = (*redisclient.ScaffoldingCache)(nil)

type cachedLevel struct {
	level   int
	expires time.Time
}

type memoryScaffoldingCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cachedLevel
}

// NewMemoryScaffoldingCache is used when no Redis is configured. ttl <= 0
// keeps entries forever.
func NewMemoryScaffoldingCache(ttl time.Duration) ScaffoldingCache {
	return &memoryScaffoldingCache{ttl: ttl, now: time.Now, entries: map[string]cachedLevel{}}
}

func scaffoldingCacheKey(learnerID uuid.UUID, phaseID string) string {
	return learnerID.String() + ":" + phaseID
}

func (c *memoryScaffoldingCache) GetLevel(ctx context.Context, learnerID uuid.UUID, phaseID string) (int, bool, error) {
	key := scaffoldingCacheKey(learnerID, phaseID)
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return 0, false, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		delete(c.entries, key)
		return 0, false, nil
	}
	return e.level, true, nil
}

func (c *memoryScaffoldingCache) SetLevel(ctx context.Context, learnerID uuid.UUID, phaseID string, level int) error {
	e := cachedLevel{level: level}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[scaffoldingCacheKey(learnerID, phaseID)] = e
	c.mu.Unlock()
	return nil
}
