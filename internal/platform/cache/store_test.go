package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []string{"726:25"}, nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "matches:726:25", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.([]string); len(got) != 1 {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_EntriesExpireAfterTTL(t *testing.T) {
	t.Parallel()

	store := NewStore(30 * time.Second)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "matches:726:25", "cached")
	now = now.Add(29 * time.Second)
	if _, ok := store.Get(context.Background(), "matches:726:25"); !ok {
		t.Fatalf("expected entry before ttl elapses")
	}

	now = now.Add(time.Second)
	if _, ok := store.Get(context.Background(), "matches:726:25"); ok {
		t.Fatalf("expected entry to expire exactly at ttl")
	}
	if store.Len() != 0 {
		t.Fatalf("expected expired entry to be evicted, len=%d", store.Len())
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("upstream down")
		}
		return "ok", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err == nil {
		t.Fatalf("expected first load to fail")
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if v != "ok" {
		t.Fatalf("unexpected value: got=%v want=ok", v)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()
	store.Set(ctx, "matches:726:25", 1)
	store.Set(ctx, "matches:726:26", 2)
	store.Set(ctx, "players:all", 3)

	store.DeletePrefix(ctx, "matches:")
	if store.Len() != 1 {
		t.Fatalf("unexpected len after prefix delete: got=%d want=1", store.Len())
	}
	if _, ok := store.Get(ctx, "players:all"); !ok {
		t.Fatalf("expected unrelated key to survive")
	}
}

func TestStore_GetOrLoad_CancelledCallerDoesNotFailOthers(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	loader := func(ctx context.Context) (any, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		select {
		case <-release:
			return []string{"726:25"}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := store.GetOrLoad(ctxA, "matches:726:25", loader)
		errA <- err
	}()
	<-started

	type result struct {
		val any
		err error
	}
	resB := make(chan result, 1)
	go func() {
		v, err := store.GetOrLoad(context.Background(), "matches:726:25", loader)
		resB <- result{val: v, err: err}
	}()
	// Give the second caller time to join the in-flight load.
	time.Sleep(50 * time.Millisecond)

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller: got=%v want=%v", err, context.Canceled)
	}

	close(release)
	got := <-resB
	if got.err != nil {
		t.Fatalf("second caller failed after first cancelled: %v", got.err)
	}
	if v, _ := got.val.([]string); len(v) != 1 {
		t.Fatalf("unexpected loaded value: %v", got.val)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("loader called %d times, want 1", n)
	}
	if _, ok := store.Get(context.Background(), "matches:726:25"); !ok {
		t.Fatalf("expected shared load to be cached")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
