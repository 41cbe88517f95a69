package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

func TestScaffoldingCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	ctx := context.Background()
	rdb, err := NewClient(ctx, addr, "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer rdb.Close()

	c := NewScaffoldingCache(rdb, time.Minute, logger.Nop())
	c.prefix = "solbot:test:" + uuid.NewString() + ":"
	learnerID := uuid.New()

	if _, ok, err := c.GetLevel(ctx, learnerID, "p1"); err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}
	if err := c.SetLevel(ctx, learnerID, "p1", 3); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	level, ok, err := c.GetLevel(ctx, learnerID, "p1")
	if err != nil || !ok || level != 3 {
		t.Fatalf("GetLevel: level=%d ok=%v err=%v", level, ok, err)
	}
	ttl, err := rdb.TTL(ctx, c.key(learnerID, "p1")).Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected ttl %v err=%v", ttl, err)
	}
	if err := rdb.Set(ctx, c.key(learnerID, "p2"), "high", time.Minute).Err(); err != nil {
		t.Fatalf("seed malformed: %v", err)
	}
	if _, ok, err := c.GetLevel(ctx, learnerID, "p2"); err != nil || ok {
		t.Fatalf("malformed value should be a miss, ok=%v err=%v", ok, err)
	}
}

func TestNewClientUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := NewClient(ctx, "127.0.0.1:1", ""); err == nil {
		t.Fatalf("expected ping failure")
	}
}
