// Package async wraps a *hitcounter.Counter so callers can submit Add/Top/
// TopCount calls to a fixed worker pool and get back a completion handle,
// mirroring the teacher corpus's CompletableFuture-based client without
// introducing any ordering guarantee the façade itself does not already
// provide.
package async

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/domainrank/urlcounter/pkg/hitcounter"
)

// ErrClosed is returned by the *Async methods once Close has been called.
var ErrClosed = errors.New("async: adapter closed")

// Handle is a completion handle for one submitted operation. The zero value
// is not usable; handles are only produced by Adapter's methods.
type Handle[T any] struct {
	done chan result[T]
}

type result[T any] struct {
	value T
	err   error
}

// Wait blocks until the operation completes and returns its result. It is
// safe to call Wait at most once per Handle; the single buffered result is
// consumed by the first Wait, not broadcast.
func (h Handle[T]) Wait(ctx context.Context) (T, error) {
	var zero T
	select {
	case r := <-h.done:
		return r.value, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Adapter submits operations against a Counter to a pool of goroutines
// bounded to runtime.NumCPU(), sized to the number of hardware execution
// contexts per SPEC_FULL.md §4.4. Operations are never queued beyond that
// bound: each *Async method blocks the caller's goroutine (not a worker) until a slot is
// free, via a weighted semaphore rather than a fixed-size channel, so an
// abandoned Handle cannot leak a permanently-occupied worker slot.
type Adapter struct {
	counter  *hitcounter.Counter
	sem      *semaphore.Weighted
	capacity int64
	closed   atomic.Bool
}

// New returns an Adapter wrapping counter, with a worker pool sized to
// runtime.NumCPU().
func New(counter *hitcounter.Counter) *Adapter {
	capacity := int64(runtime.NumCPU())
	return &Adapter{
		counter:  counter,
		sem:      semaphore.NewWeighted(capacity),
		capacity: capacity,
	}
}

// Close stops the Adapter from accepting new work and blocks until every
// in-flight operation has released its worker slot, by acquiring the full
// pool capacity back from the semaphore. It is safe to call at most once;
// a second call blocks forever since Close itself never releases what it
// acquires.
func (a *Adapter) Close(ctx context.Context) error {
	a.closed.Store(true)
	return a.sem.Acquire(ctx, a.capacity)
}

// AddAsync submits an Add call once a worker slot is free and returns a
// handle whose result is always (struct{}{}, nil) — Add cannot fail.
func (a *Adapter) AddAsync(ctx context.Context, domain string) (Handle[struct{}], error) {
	if a.closed.Load() {
		return Handle[struct{}]{}, ErrClosed
	}
	h := Handle[struct{}]{done: make(chan result[struct{}], 1)}
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return Handle[struct{}]{}, err
	}
	go func() {
		defer a.sem.Release(1)
		a.counter.Add(domain)
		h.done <- result[struct{}]{value: struct{}{}}
	}()
	return h, nil
}

// TopAsync submits a Top call and returns a handle for its result.
func (a *Adapter) TopAsync(ctx context.Context, n int) (Handle[[]string], error) {
	if a.closed.Load() {
		return Handle[[]string]{}, ErrClosed
	}
	h := Handle[[]string]{done: make(chan result[[]string], 1)}
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return Handle[[]string]{}, err
	}
	go func() {
		defer a.sem.Release(1)
		top, err := a.counter.Top(n)
		h.done <- result[[]string]{value: top, err: err}
	}()
	return h, nil
}

// Len returns the number of distinct domains tracked by the wrapped
// Counter. It bypasses the worker pool: like Counter.Len itself, it is a
// cheap read-locked operation, not worth the semaphore round trip.
func (a *Adapter) Len() int {
	return a.counter.Len()
}

// TopCountAsync submits a TopCount call and returns a handle for its result.
func (a *Adapter) TopCountAsync(ctx context.Context, n int) (Handle[[]hitcounter.DomainCount], error) {
	if a.closed.Load() {
		return Handle[[]hitcounter.DomainCount]{}, ErrClosed
	}
	h := Handle[[]hitcounter.DomainCount]{done: make(chan result[[]hitcounter.DomainCount], 1)}
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return Handle[[]hitcounter.DomainCount]{}, err
	}
	go func() {
		defer a.sem.Release(1)
		counts, err := a.counter.TopCount(n)
		h.done <- result[[]hitcounter.DomainCount]{value: counts, err: err}
	}()
	return h, nil
}
