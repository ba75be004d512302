package resolver

import (
	"fmt"
	"sync"

	"github.com/antchfx/xpath"
	lru "github.com/hashicorp/golang-lru/v2"
)

// queryCache memoises compiled XPath predicates so repeated CheckQuery
// calls against the same query skip recompilation, per SPEC_FULL.md §9
// (api_config.h's max_cached_queries, dropped from spec.md's
// distillation but restored here). Each Resolver owns its own cache;
// nothing is shared between Resolver instances.
type queryCache struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *xpath.Expr]
}

func newQueryCache(size int) *queryCache {
	if size <= 0 {
		size = 1
	}
	c, _ := lru.New[string, *xpath.Expr](size)
	return &queryCache{cache: c}
}

// CheckQuery validates that query compiles as an XPath expression,
// returning ErrInvalidQuery on failure. A successful compilation is
// cached so a later BuildQuery/CheckQuery pair for the same string
// doesn't recompile.
func (c *queryCache) CheckQuery(query string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.cache.Get(query); ok {
		return nil
	}
	expr, err := xpath.Compile(query)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidQuery, query, err)
	}
	c.cache.Add(query, expr)
	return nil
}

// BuildQuery constructs the predicate sent on the wire: it always
// begins with session_id='<sid>', conjoined via " and " with an
// optional predicate/value pair, per spec.md §3 and §4.6.
func BuildQuery(sessionID, predicate, value string) string {
	query := fmt.Sprintf("session_id='%s'", sessionID)
	if predicate == "" {
		return query
	}
	if value == "" {
		return fmt.Sprintf("%s and %s", query, predicate)
	}
	return fmt.Sprintf("%s and %s='%s'", query, predicate, value)
}
