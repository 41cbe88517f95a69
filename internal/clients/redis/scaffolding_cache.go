package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

const defaultKeyPrefix = "solbot:scaffolding:"

// ScaffoldingCache stores the last derived scaffolding level per
// (learner, phase) as a plain integer string with a TTL.
type ScaffoldingCache struct {
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
	log    *logger.Logger
}

func NewScaffoldingCache(rdb goredis.UniversalClient, ttl time.Duration, log *logger.Logger) *ScaffoldingCache {
	return &ScaffoldingCache{
		rdb:    rdb,
		prefix: defaultKeyPrefix,
		ttl:    ttl,
		log:    log.With("service", "RedisScaffoldingCache"),
	}
}

func (c *ScaffoldingCache) key(learnerID uuid.UUID, phaseID string) string {
	return c.prefix + learnerID.String() + ":" + phaseID
}

func (c *ScaffoldingCache) GetLevel(ctx context.Context, learnerID uuid.UUID, phaseID string) (int, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(learnerID, phaseID)).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get: %w", err)
	}
	level, err := strconv.Atoi(raw)
	if err != nil {
		c.log.Warn("discarding malformed cached level", "learner_id", learnerID.String(), "phase_id", phaseID, "value", raw)
		return 0, false, nil
	}
	return level, true, nil
}

func (c *ScaffoldingCache) SetLevel(ctx context.Context, learnerID uuid.UUID, phaseID string, level int) error {
	if err := c.rdb.Set(ctx, c.key(learnerID, phaseID), strconv.Itoa(level), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
