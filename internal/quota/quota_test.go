package quota

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/SainathReddyM/py-file-converter/internal/config"
	"github.com/SainathReddyM/py-file-converter/internal/redis"
)

func TestNilQuotaAlwaysAllows(t *testing.T) {
	var q *Quota
	if !q.Allow(context.Background(), "any-key") {
		t.Fatalf("nil quota must allow")
	}
	if New(nil, 10, time.Minute) != nil {
		t.Fatalf("expected nil quota without a cache client")
	}
	if New(nil, 0, time.Minute) != nil {
		t.Fatalf("expected nil quota with zero limit")
	}
}

func newRedisQuota(t *testing.T, limit int64, window time.Duration) *Quota {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis-backed quota tests")
	}
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("split host port: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("atoi port: %v", err)
	}
	cfg := &config.Config{
		Redis: config.RedisConfig{Host: host, Port: port},
	}
	client, err := redis.NewClient(cfg)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return New(client, limit, window)
}

func TestQuotaExhaustsAndResets(t *testing.T) {
	q := newRedisQuota(t, 2, 2*time.Second)
	key := fmt.Sprintf("quota-test-%d", time.Now().UnixNano())

	for i := 0; i < 2; i++ {
		if !q.Allow(context.Background(), key) {
			t.Fatalf("call %d should be allowed", i+1)
		}
	}
	if q.Allow(context.Background(), key) {
		t.Fatalf("third call should be rejected")
	}

	time.Sleep(2500 * time.Millisecond)
	if !q.Allow(context.Background(), key) {
		t.Fatalf("window expiry should reset the counter")
	}
}
