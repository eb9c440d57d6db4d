package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestInMemoryStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore(time.Hour)

	if _, err := s.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	st := State{Token: "t", Username: "alice", Roles: []string{"USER"}}
	if err := s.Save(ctx, "sid", st); err != nil {
		t.Fatal(err)
	}
	st.Roles[0] = "SELLER"

	got, err := s.Load(ctx, "sid")
	if err != nil {
		t.Fatal(err)
	}
	if got.Username != "alice" || got.Role() != "USER" {
		t.Fatalf("stored state should be isolated from caller: %+v", got)
	}

	if err := s.Delete(ctx, "sid"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx, "sid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestInMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewInMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	if err := s.Save(ctx, "sid", State{Token: "t"}); err != nil {
		t.Fatal(err)
	}
	now = now.Add(59 * time.Second)
	if _, err := s.Load(ctx, "sid"); err != nil {
		t.Fatalf("session should still be valid: %v", err)
	}
	now = now.Add(time.Second)
	if _, err := s.Load(ctx, "sid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expired entry should be removed")
	}
}

func TestInMemoryStore_PurgeAbandoned(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewInMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		if err := s.Save(ctx, fmt.Sprintf("old-%d", i), State{}); err != nil {
			t.Fatal(err)
		}
	}
	now = now.Add(time.Hour)
	if err := s.Save(ctx, "fresh", State{Token: "t"}); err != nil {
		t.Fatal(err)
	}

	n, err := s.Purge(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1000 || s.Len() != 1 {
		t.Fatalf("expected 1000 purged and 1 left, got %d purged and %d left", n, s.Len())
	}
	if _, err := s.Load(ctx, "fresh"); err != nil {
		t.Fatalf("live session should survive a purge: %v", err)
	}
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	s := NewRedisStore(rdb, time.Minute)
	if _, err := s.Load(ctx, "sid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	want := State{Token: "t", Username: "bob", Roles: []string{"SELLER"}, Language: "uk", LightTheme: true, Flash: &Flash{Kind: FlashSuccess, Key: "login.success"}}
	if err := s.Save(ctx, "sid", want); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL(redisKeyPrefix + "sid"); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}

	got, err := s.Load(ctx, "sid")
	if err != nil {
		t.Fatal(err)
	}
	if got.Username != "bob" || !got.IsSeller() || got.Language != "uk" || !got.LightTheme || got.Flash == nil || got.Flash.Key != "login.success" {
		t.Fatalf("unexpected state %+v", got)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := s.Load(ctx, "sid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}

	if err := s.Save(ctx, "sid", want); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "sid"); err != nil {
		t.Fatal(err)
	}
	if mr.Exists(redisKeyPrefix + "sid") {
		t.Fatalf("key should be deleted")
	}
}
