package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSetAndGetRoundTrip(t *testing.T) {
	c := New("test", 4, 0)
	c.Set("k", 42)
	v, ok := c.Get("k")
	if !ok {
		t.Fatalf("expected a cache hit")
	}
	if v.(int) != 42 {
		t.Fatalf("expected 42, got %v", v)
	}
}

func TestGetMissingKey(t *testing.T) {
	c := New("test", 4, 0)
	_, ok := c.Get("missing")
	if ok {
		t.Fatalf("expected a cache miss")
	}
}

func TestEntryExpiresAfterTTL(t *testing.T) {
	c := New("test", 4, 10*time.Millisecond)
	c.Set("k", "v")
	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("k")
	if ok {
		t.Fatalf("expected entry to have expired")
	}
}

func TestRemoveEvictsKey(t *testing.T) {
	c := New("test", 4, 0)
	c.Set("k", "v")
	c.Remove("k")
	_, ok := c.Get("k")
	if ok {
		t.Fatalf("expected key to be evicted")
	}
}

func TestGetOrLoadCachesResult(t *testing.T) {
	c := New("test", 4, 0)
	var calls int32
	load := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "loaded", nil
	}

	v, hit, err := c.GetOrLoad(context.Background(), "k", "k", load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hit {
		t.Fatalf("expected first call to be a miss")
	}
	if v.(string) != "loaded" {
		t.Fatalf("expected loaded value, got %v", v)
	}

	v2, hit2, err := c.GetOrLoad(context.Background(), "k", "k", load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hit2 {
		t.Fatalf("expected second call to be a hit")
	}
	if v2.(string) != "loaded" {
		t.Fatalf("expected loaded value, got %v", v2)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected load to run exactly once, ran %d times", calls)
	}
}

func TestGetOrLoadDoesNotCacheErrors(t *testing.T) {
	c := New("test", 4, 0)
	boom := errors.New("boom")
	var calls int32
	load := func(ctx context.Context) (any, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return nil, boom
		}
		return "ok", nil
	}

	_, _, err := c.GetOrLoad(context.Background(), "k", "k", load)
	if err != boom {
		t.Fatalf("expected boom error, got %v", err)
	}

	v, _, err := c.GetOrLoad(context.Background(), "k", "k", load)
	if err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if v.(string) != "ok" {
		t.Fatalf("expected ok on retry, got %v", v)
	}
}

func TestGetOrLoadCoalescesConcurrentCallers(t *testing.T) {
	c := New("test", 4, 0)
	var calls int32
	release := make(chan struct{})
	load := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "done", nil
	}

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _, _ = c.GetOrLoad(context.Background(), "shared", "shared", load)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected exactly one producer call, got %d", calls)
	}
}
