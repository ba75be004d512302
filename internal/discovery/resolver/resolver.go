package resolver

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/lslkit/lslresolve/config"
	"github.com/lslkit/lslresolve/internal/lslog"
)

var logger = lslog.Logger("discovery/resolver")

// Forever marks "no expiry" / "no timeout" in the durations that carry
// that meaning (forgetAfter, timeout), matching spec.md's FOREVER
// sentinel. Expressed as a negative duration rather than reusing Go's
// zero value, since 0 is itself a meaningful "expire immediately" /
// "don't wait at all" duration (SPEC_FULL.md §4.6, Open Question).
const Forever time.Duration = -1

// Resolver is the stream-discovery resolver engine of spec.md §3-4: the
// wave scheduler, its endpoint catalog, and the shared result map. The
// zero value is not usable; construct with New.
type Resolver struct {
	store   *config.Store
	catalog *Catalog
	clock   clock.Clock
	results *resultMap
	qcache  *queryCache
	ttl     int

	// Published once, before run() starts; read-only afterwards by the
	// scheduler's timer callbacks (spec.md §5).
	query       string
	minimum     int
	waitUntil   time.Time
	forgetAfter time.Duration
	fastMode    bool

	cancelled atomic.Bool
	expired   atomic.Bool
	closed    atomic.Bool

	mu         sync.Mutex
	waveTimer  *clock.Timer
	ucastTimer *clock.Timer

	wg        sync.WaitGroup // tracks in-flight resolve attempts
	stopped   chan struct{}  // closed once cancelOngoing has drained wg
	stopOnce  sync.Once
	runCancel context.CancelFunc
	done      chan struct{} // closed when the scheduler goroutine returns
}

// New constructs a resolver bound to store and its derived catalog. The
// returned Resolver has no query yet; call ResolveOneshot or
// StartContinuous to drive it.
func New(store *config.Store, catalog *Catalog, clk clock.Clock) *Resolver {
	if clk == nil {
		clk = clock.New()
	}
	return &Resolver{
		store:   store,
		catalog: catalog,
		clock:   clk,
		results: newResultMap(clk),
		qcache:  newQueryCache(store.Tuning.MaxCachedQueries),
		ttl:     store.MulticastTTL(),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// CheckQuery validates query as an XPath predicate without starting a
// resolve, per spec.md §4.6 / §8 ("Query well-formedness").
func (r *Resolver) CheckQuery(query string) error {
	return r.qcache.CheckQuery(query)
}

// ResolveOneshot implements spec.md §4.6's synchronous entry point. It
// blocks the calling goroutine (the "façade thread drives the
// executor", spec.md §5) until the stop condition is satisfied, the
// global timeout fires, or the caller cancels ctx or calls Cancel.
//
// timeout and minimumTime use Forever to mean "no bound" / "don't
// require a minimum wait".
func (r *Resolver) ResolveOneshot(ctx context.Context, query string, minimum int, timeout, minimumTime time.Duration) ([]StreamInfo, error) {
	if err := r.CheckQuery(query); err != nil {
		return nil, err
	}

	r.query = query
	r.minimum = minimum
	r.waitUntil = r.clock.Now().Add(minimumTime)
	r.forgetAfter = Forever
	r.fastMode = true

	r.runLoop(ctx, timeout)

	if r.cancelled.Load() || ctx.Err() != nil {
		return nil, nil
	}
	return r.results.snapshot(0, 0), nil
}

// StartContinuous implements the background half of spec.md §4.6: it
// arms the first wave and spawns the executor goroutine, returning
// immediately. forgetAfter governs later Results snapshots.
func (r *Resolver) StartContinuous(ctx context.Context, query string, forgetAfter time.Duration) error {
	if err := r.CheckQuery(query); err != nil {
		return err
	}

	r.query = query
	r.minimum = 0
	r.waitUntil = r.clock.Now()
	r.forgetAfter = forgetAfter
	r.fastMode = false

	go r.runLoop(ctx, Forever)
	return nil
}

// Results returns a bounded snapshot of the result map, evicting
// entries older than forgetAfter as a side effect, per spec.md §4.5.
// maxResults <= 0 means unbounded. Returns ErrAlreadyClosed once Close
// has run.
func (r *Resolver) Results(maxResults int) ([]StreamInfo, error) {
	if r.closed.Load() {
		return nil, ErrAlreadyClosed
	}
	forget := r.forgetAfter
	switch {
	case forget < 0:
		forget = 0 // snapshot treats 0 as "never forget"
	case forget == 0:
		forget = time.Nanosecond // expire anything not seen at this instant
	}
	return r.results.snapshot(maxResults, forget), nil
}

// Cancel requests teardown without waiting for it to complete. Safe to
// call from any goroutine, any number of times (spec.md §5, §8
// "Idempotent cancel"). Returns ErrAlreadyClosed once Close has run.
func (r *Resolver) Cancel() error {
	if r.closed.Load() {
		return ErrAlreadyClosed
	}
	r.cancelled.Store(true)
	r.cancelOngoing()
	return nil
}

// Close cancels (if not already) and blocks until the scheduler
// goroutine and every in-flight attempt have fully drained. A second
// call returns ErrAlreadyClosed rather than blocking again.
func (r *Resolver) Close() error {
	if r.closed.Swap(true) {
		return ErrAlreadyClosed
	}
	r.cancelled.Store(true)
	r.cancelOngoing()
	<-r.done
	return nil
}

// runLoop is the per-resolver "cooperative I/O executor" of spec.md §5:
// one goroutine that arms the first wave, then blocks until cancelOngoing
// has drained every in-flight attempt.
func (r *Resolver) runLoop(parent context.Context, timeout time.Duration) {
	defer close(r.done)

	ctx, cancel := context.WithCancel(parent)
	r.mu.Lock()
	r.runCancel = cancel
	r.mu.Unlock()
	defer cancel()

	if timeout >= 0 {
		timeoutTimer := r.clock.AfterFunc(timeout, r.cancelOngoing)
		defer timeoutTimer.Stop()
	}

	r.nextWave(ctx)

	select {
	case <-r.stopped:
	case <-parent.Done():
		r.cancelOngoing()
		<-r.stopped
	}
}
