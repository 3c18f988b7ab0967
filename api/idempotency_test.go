package api

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestDeduper(t *testing.T) (*RedisDeduper, *miniredis.Miniredis) {
	t.Helper()
	m, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(m.Close)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		if cerr := client.Close(); cerr != nil {
			t.Logf("redis close: %v", cerr)
		}
	})
	return NewRedisDeduper(client, time.Minute, "inst"), m
}

func TestRedisDeduperAdd(t *testing.T) {
	deduper, _ := newTestDeduper(t)
	ctx := context.Background()

	first, err := deduper.Add(ctx, "Person", "k1")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !first {
		t.Fatalf("expected key to be added")
	}
	second, err := deduper.Add(ctx, "Person", "k1")
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if second {
		t.Fatalf("expected key to be duplicate on second call")
	}
	other, err := deduper.Add(ctx, "Task", "k1")
	if err != nil {
		t.Fatalf("add other scope: %v", err)
	}
	if !other {
		t.Fatalf("expected scopes to be independent")
	}
}

func TestRedisDeduperKeyNamespacing(t *testing.T) {
	deduper, m := newTestDeduper(t)

	if _, err := deduper.Add(context.Background(), "Project", "k1"); err != nil {
		t.Fatalf("add: %v", err)
	}

	expectedKey := "inst:idem:Project:k1"
	if !m.Exists(expectedKey) {
		t.Fatalf("expected redis key %q to exist", expectedKey)
	}
	if ttl := m.TTL(expectedKey); ttl != time.Minute {
		t.Fatalf("expected ttl of one minute, got %v", ttl)
	}

	m.FastForward(2 * time.Minute)
	added, err := deduper.Add(context.Background(), "Project", "k1")
	if err != nil {
		t.Fatalf("add after expiry: %v", err)
	}
	if !added {
		t.Fatalf("expected key to be accepted after expiry")
	}
}

func TestRedisDeduperRemove(t *testing.T) {
	deduper, _ := newTestDeduper(t)
	ctx := context.Background()

	if _, err := deduper.Add(ctx, "Task", "k1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := deduper.Remove(ctx, "Task", "k1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	added, err := deduper.Add(ctx, "Task", "k1")
	if err != nil {
		t.Fatalf("add after remove: %v", err)
	}
	if !added {
		t.Fatalf("expected key to be accepted after remove")
	}
}
