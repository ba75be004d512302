package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lslkit/lslresolve/config"
)

func testStore() *config.Store {
	return &config.Store{
		IPv6: config.IPv6Disable,
		Tuning: config.Tuning{
			MulticastMinRTT:           50 * time.Millisecond,
			MulticastMaxRTT:           200 * time.Millisecond,
			UnicastMinRTT:             50 * time.Millisecond,
			UnicastMaxRTT:             200 * time.Millisecond,
			ContinuousResolveInterval: time.Second,
			PeerLookupTimeout:         time.Second,
			MaxCachedQueries:          8,
		},
	}
}

func emptyCatalog() *Catalog {
	return &Catalog{Protocols: []Family{FamilyV4}}
}

func waitClosed(t *testing.T, ch chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel to close")
	}
}

func TestResolver_ResolveOneshot_InvalidQueryNeverTouchesNetwork(t *testing.T) {
	mock := clock.NewMock()
	r := New(testStore(), emptyCatalog(), mock)

	results, err := r.ResolveOneshot(context.Background(), "session_id=", 1, time.Second, 0)
	require.Nil(t, results)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidQuery))
}

func TestResolver_NextWave_StopsWhenMinimumMetAndWaitElapsed(t *testing.T) {
	mock := clock.NewMock()
	r := New(testStore(), emptyCatalog(), mock)
	r.query = "session_id='s'"
	r.minimum = 1
	r.waitUntil = mock.Now()
	r.results.upsert(StreamInfo{Identity: "a"})

	ctx, cancel := context.WithCancel(context.Background())
	r.runCancel = cancel
	defer cancel()

	r.nextWave(ctx)

	assert.True(t, r.expired.Load())
	waitClosed(t, r.stopped)
}

func TestResolver_NextWave_KeepsRunningBelowMinimum(t *testing.T) {
	mock := clock.NewMock()
	r := New(testStore(), emptyCatalog(), mock)
	r.query = "session_id='s'"
	r.minimum = 5
	r.waitUntil = mock.Now()
	r.fastMode = true

	ctx, cancel := context.WithCancel(context.Background())
	r.runCancel = cancel
	defer cancel()

	r.nextWave(ctx)

	assert.False(t, r.expired.Load())
	r.mu.Lock()
	wt := r.waveTimer
	r.mu.Unlock()
	require.NotNil(t, wt)

	// advancing past multicast_min_rtt fires the re-arm without deadlock,
	// and without an unbounded recursive cascade within one Add call.
	mock.Add(r.store.Tuning.MulticastMinRTT)
	assert.False(t, r.expired.Load())
}

func TestResolver_NextWave_ArmsUnicastTimerWhenPeersConfigured(t *testing.T) {
	mock := clock.NewMock()
	catalog := &Catalog{
		Protocols:      []Family{FamilyV4},
		UcastEndpoints: []Endpoint{{Port: 16572}},
	}
	r := New(testStore(), catalog, mock)
	r.query = "session_id='s'"
	r.minimum = 5
	r.waitUntil = mock.Now()

	ctx, cancel := context.WithCancel(context.Background())
	r.runCancel = cancel
	defer cancel()

	r.nextWave(ctx)

	r.mu.Lock()
	ut := r.ucastTimer
	r.mu.Unlock()
	assert.NotNil(t, ut)
}

func TestResolver_CancelIsIdempotent(t *testing.T) {
	mock := clock.NewMock()
	r := New(testStore(), emptyCatalog(), mock)
	r.query = "session_id='s'"
	r.waitUntil = mock.Now()

	_, cancel := context.WithCancel(context.Background())
	r.runCancel = cancel
	defer cancel()

	r.Cancel()
	r.Cancel()
	r.Cancel()

	assert.True(t, r.cancelled.Load())
	waitClosed(t, r.stopped)
}

func TestResolver_CloseDrainsAndIsSafeToCallTwice(t *testing.T) {
	mock := clock.NewMock()
	store := testStore()
	r := New(store, emptyCatalog(), mock)

	require.NoError(t, r.StartContinuous(context.Background(), "session_id='s'", Forever))
	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.Close(), ErrAlreadyClosed)
}

func TestResolver_ResultsAppliesForgetAfter(t *testing.T) {
	mock := clock.NewMock()
	r := New(testStore(), emptyCatalog(), mock)
	r.forgetAfter = 5 * time.Second

	r.results.upsert(StreamInfo{Identity: "a"})
	mock.Add(10 * time.Second)
	r.results.upsert(StreamInfo{Identity: "b"})

	got, err := r.Results(0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, StreamIdentity("b"), got[0].Identity)
}

func TestResolver_ResultsAndCancelReturnErrAlreadyClosedAfterClose(t *testing.T) {
	mock := clock.NewMock()
	store := testStore()
	r := New(store, emptyCatalog(), mock)

	require.NoError(t, r.StartContinuous(context.Background(), "session_id='s'", Forever))
	require.NoError(t, r.Close())

	_, err := r.Results(0)
	assert.ErrorIs(t, err, ErrAlreadyClosed)
	assert.ErrorIs(t, r.Cancel(), ErrAlreadyClosed)
}
