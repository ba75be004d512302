package lslresolve

import (
	"context"
	"time"

	"github.com/lslkit/lslresolve/config"
	"github.com/lslkit/lslresolve/internal/discovery/resolver"
)

// ContinuousResolver periodically re-queries the network in the
// background and accumulates results until Close is called, per
// spec.md §4.6's resolve_continuous / resolver_continuous. The zero
// value is not usable; obtain one from NewContinuousResolver or
// CreateResolver.
type ContinuousResolver struct {
	r *resolver.Resolver
}

// NewContinuousResolver starts a background resolve for predicate (a
// full XPath expression, conjoined with the configured session_id) and
// returns immediately. forgetAfter bounds how long a result survives a
// silent outlet before Results stops returning it; pass Forever to
// keep every result seen until Close.
func NewContinuousResolver(ctx context.Context, predicate string, forgetAfter time.Duration) (*ContinuousResolver, error) {
	store, err := config.Get()
	if err != nil {
		return nil, err
	}
	return newContinuousResolver(ctx, store, resolver.BuildQuery(store.SessionID, predicate, ""), forgetAfter)
}

// CreateResolver is the resolve_byprop-style convenience constructor:
// it restricts discovery to streams whose prop equals value, in
// addition to the configured session_id.
func CreateResolver(ctx context.Context, prop, value string, forgetAfter time.Duration) (*ContinuousResolver, error) {
	store, err := config.Get()
	if err != nil {
		return nil, err
	}
	return newContinuousResolver(ctx, store, resolver.BuildQuery(store.SessionID, prop, value), forgetAfter)
}

func newContinuousResolver(ctx context.Context, store *config.Store, query string, forgetAfter time.Duration) (*ContinuousResolver, error) {
	catalog, err := resolver.NewCatalog(ctx, store)
	if err != nil {
		return nil, err
	}

	r := resolver.New(store, catalog, nil)
	if err := r.StartContinuous(ctx, query, forgetAfter); err != nil {
		_ = r.Close()
		return nil, err
	}
	return &ContinuousResolver{r: r}, nil
}

// Results returns a snapshot of every stream seen so far, minus any
// that have gone silent for longer than forgetAfter. maxResults <= 0
// means unbounded. Returns ErrAlreadyClosed once Close has run.
func (c *ContinuousResolver) Results(maxResults int) ([]StreamInfo, error) {
	return c.r.Results(maxResults)
}

// Cancel requests teardown without waiting for it to finish. Returns
// ErrAlreadyClosed once Close has run.
func (c *ContinuousResolver) Cancel() error {
	return c.r.Cancel()
}

// Close cancels (if not already cancelled) and blocks until the
// background resolve has fully drained. A second call returns
// ErrAlreadyClosed rather than blocking again.
func (c *ContinuousResolver) Close() error {
	return c.r.Close()
}
