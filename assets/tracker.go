package assets

import (
	"context"
	"sync"
	"time"
)

// Result is the outcome of one requested load.
type Result struct {
	ID      string
	Model   *Model
	Err     error // Always a *LoadError when set
	Elapsed time.Duration
}

// Tracker runs loads in the background and hands results back to the main
// loop. Request, Poll, Next and Pending must be called from one goroutine;
// only the loads themselves run concurrently.
type Tracker struct {
	loader  Loader
	ctx     context.Context
	cancel  context.CancelFunc
	results chan Result
	wg      sync.WaitGroup

	pending   int
	requested map[string]bool
}

// NewTracker creates a tracker. capacity sizes the result buffer; loads that
// finish while it is full wait until the next Poll.
func NewTracker(loader Loader, capacity int) *Tracker {
	if capacity < 1 {
		capacity = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Tracker{
		loader:    loader,
		ctx:       ctx,
		cancel:    cancel,
		results:   make(chan Result, capacity),
		requested: make(map[string]bool),
	}
}

// Request starts loading id. Each id is loaded at most once; repeat requests
// are ignored. There are no retries.
func (t *Tracker) Request(id string) {
	if t.requested[id] || t.ctx.Err() != nil {
		return
	}
	t.requested[id] = true
	t.pending++
	t.wg.Add(1)

	go func() {
		defer t.wg.Done()
		start := time.Now()
		m, err := t.loader.Load(t.ctx, id)
		r := Result{ID: id, Model: m, Elapsed: time.Since(start)}
		if err != nil {
			r.Model = nil
			r.Err = &LoadError{ID: id, Err: err}
		}
		select {
		case t.results <- r:
		case <-t.ctx.Done():
		}
	}()
}

// Poll returns every result that has arrived, without blocking.
func (t *Tracker) Poll() []Result {
	var out []Result
	for {
		select {
		case r := <-t.results:
			t.pending--
			out = append(out, r)
		default:
			return out
		}
	}
}

// Next blocks until a result arrives or ctx is done.
func (t *Tracker) Next(ctx context.Context) (Result, bool) {
	if t.pending == 0 {
		return Result{}, false
	}
	select {
	case r := <-t.results:
		t.pending--
		return r, true
	case <-ctx.Done():
		return Result{}, false
	}
}

// Pending returns the number of requested loads not yet returned by Poll or Next.
func (t *Tracker) Pending() int { return t.pending }

// Close cancels outstanding loads and waits for their goroutines to exit.
// Only call it at shutdown.
func (t *Tracker) Close() {
	t.cancel()
	t.wg.Wait()
}
