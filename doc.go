// Package lslresolve implements the stream-discovery resolver of a
// peer-to-peer biosignal/instrument streaming library: it lets a
// consumer (inlet) discover which outlets currently exist that match a
// structured XPath predicate over stream metadata, using UDP multicast
// with optional unicast fallback to a configured peer list.
//
// # Core concepts
//
//   - Endpoint catalog: the multicast and unicast address/port lists a
//     resolver queries, derived once from configuration.
//   - Wave scheduler: repeatedly bursts queries at the catalog and
//     aggregates replies into a result map until a stop condition is
//     met.
//   - Result map: a deduplicated, expiring StreamIdentity -> StreamInfo
//     mapping.
//
// # Quick start
//
//	streams, err := lslresolve.ResolveOneshot(ctx, "type='EEG'", 1, 2*time.Second, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r, err := lslresolve.NewContinuousResolver(ctx, "type='EEG'", 5*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//	streams, err = r.Results(0)
//
// The TCP data-transport layer, the stream_info XML schema, and the
// outlet-side XPath evaluator are out of scope for this package; see
// SPEC_FULL.md §1.
package lslresolve
