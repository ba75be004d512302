// Package resolver implements the stream-discovery resolver engine: the
// endpoint catalog, the per-wave UDP resolve attempts, the wave
// scheduler, and the result map described in spec.md §§3-4.
package resolver

import (
	"fmt"
	"net/netip"
)

// Endpoint is a single (address, port) a query datagram can be sent to.
type Endpoint struct {
	Addr netip.Addr
	Port uint16
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.Addr, e.Port)
}

// UDPAddrPort returns the endpoint as a netip.AddrPort for use with
// net.UDPConn.WriteToUDPAddrPort.
func (e Endpoint) UDPAddrPort() netip.AddrPort {
	return netip.AddrPortFrom(e.Addr, e.Port)
}

// StreamIdentity stably keys an outlet across endpoints and address
// families, per spec.md §3 ("uid + host").
type StreamIdentity string

// StreamInfo is the opaque per-stream metadata blob carried from a
// reply to a caller. The XML schema it contains is out of scope here
// (spec.md §1); the resolver only needs to move the bytes and key them
// by Identity.
type StreamInfo struct {
	Identity   StreamIdentity
	Serialized string
}
