package resilience

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Flight deduplicates concurrent calls for the same key. The shared call runs
// on a context detached from any single caller and is cancelled only once
// every caller waiting on it has returned. A caller whose own context ends
// stops waiting without failing the others.
type Flight struct {
	group singleflight.Group

	mu    sync.Mutex
	seq   uint64
	calls map[string]*flightCall
}

type flightCall struct {
	flightKey string
	run       func() (any, error)
	cancel    context.CancelFunc
	waiters   int
}

func (f *Flight) Do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]*flightCall)
	}
	call, ok := f.calls[key]
	if !ok {
		// Each generation gets its own group key so a new caller never joins
		// a call that is already being torn down.
		f.seq++
		callCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		call = &flightCall{
			flightKey: key + "#" + strconv.FormatUint(f.seq, 10),
			run:       func() (any, error) { return fn(callCtx) },
			cancel:    cancel,
		}
		f.calls[key] = call
	}
	call.waiters++
	ch := f.group.DoChan(call.flightKey, call.run)
	f.mu.Unlock()

	defer f.leave(key, call)

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *Flight) leave(key string, call *flightCall) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call.waiters--
	if call.waiters > 0 {
		return
	}
	call.cancel()
	if f.calls[key] == call {
		delete(f.calls, key)
	}
}
