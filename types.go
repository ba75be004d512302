package lslresolve

import "github.com/lslkit/lslresolve/internal/discovery/resolver"

// Forever marks "no timeout" / "no expiry" for the durations that carry
// that meaning. It is a negative duration rather than Go's zero value,
// since 0 is itself meaningful ("return immediately" / "expire on
// first miss").
const Forever = resolver.Forever

// StreamIdentity stably identifies one outlet across the endpoints and
// address families it was seen on.
type StreamIdentity = resolver.StreamIdentity

// StreamInfo is one discovered stream: its identity plus the
// serialised metadata blob the outlet replied with. The metadata's XML
// schema is outside this package's scope; callers that need to read
// fields out of it bring their own parser.
type StreamInfo = resolver.StreamInfo
