package config

import "time"

// Tuning holds the RTT and timing scalars that drive the wave
// scheduler. All are seconds unless noted, per spec.md §4.4.
type Tuning struct {
	MulticastMinRTT           time.Duration
	MulticastMaxRTT           time.Duration
	UnicastMinRTT             time.Duration
	UnicastMaxRTT             time.Duration
	ContinuousResolveInterval time.Duration

	// PeerLookupTimeout bounds a single KnownPeers DNS lookup. Not named
	// in spec.md's tuning table; the original's blocking udp::resolver
	// has no timeout at all, which this deliberately does not reproduce
	// (see SPEC_FULL.md §4.2).
	PeerLookupTimeout time.Duration

	// MaxCachedQueries bounds the compiled-XPath cache in query.go,
	// carried over from api_config.h's max_cached_queries (dropped from
	// spec.md's distillation, restored per SPEC_FULL.md §9).
	MaxCachedQueries int
}

func defaultTuning() Tuning {
	return Tuning{
		MulticastMinRTT:           200 * time.Millisecond,
		MulticastMaxRTT:           3 * time.Second,
		UnicastMinRTT:             200 * time.Millisecond,
		UnicastMaxRTT:             3 * time.Second,
		ContinuousResolveInterval: 5 * time.Second,
		PeerLookupTimeout:         2 * time.Second,
		MaxCachedQueries:          32,
	}
}
