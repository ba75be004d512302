package lslresolve

import (
	"context"
	"time"

	"github.com/lslkit/lslresolve/config"
	"github.com/lslkit/lslresolve/internal/discovery/resolver"
)

// CheckQuery validates predicate as an XPath expression without
// resolving anything, so a caller can surface a malformed predicate to
// its user before opening any sockets.
func CheckQuery(predicate string) error {
	store, err := config.Get()
	if err != nil {
		return err
	}
	return resolver.New(store, &resolver.Catalog{}, nil).CheckQuery(predicate)
}

// ResolveOneshot discovers streams matching predicate (an XPath
// expression over stream metadata) and returns once at least minimum
// results have been seen and minimumTime has elapsed, or timeout
// expires, whichever comes first. A minimum <= 0 means "don't wait for
// a minimum, just resolve until timeout". Pass Forever for timeout to
// wait indefinitely for the minimum to be met.
//
// If ctx is cancelled before either condition is met, ResolveOneshot
// returns a nil slice and a nil error, mirroring the "cancel returns
// an empty result" contract rather than surfacing ctx.Err().
func ResolveOneshot(ctx context.Context, predicate string, minimum int, timeout, minimumTime time.Duration) ([]StreamInfo, error) {
	store, err := config.Get()
	if err != nil {
		return nil, err
	}

	catalog, err := resolver.NewCatalog(ctx, store)
	if err != nil {
		return nil, err
	}

	query := resolver.BuildQuery(store.SessionID, predicate, "")
	r := resolver.New(store, catalog, nil)
	return r.ResolveOneshot(ctx, query, minimum, timeout, minimumTime)
}
