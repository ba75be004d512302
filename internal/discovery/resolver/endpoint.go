package resolver

import (
	"context"
	"net"
	"net/netip"

	"golang.org/x/sync/errgroup"

	"github.com/lslkit/lslresolve/config"
	"github.com/lslkit/lslresolve/internal/lslog"
)

var catalogLogger = lslog.Logger("discovery/resolver/catalog")

// Family is an IP protocol family a resolve attempt runs over.
type Family string

const (
	FamilyV4 Family = "udp4"
	FamilyV6 Family = "udp6"
)

// Catalog is the immutable set of endpoints and protocol families a
// resolver was constructed with, per spec.md §4.2.
type Catalog struct {
	McastEndpoints []Endpoint
	UcastEndpoints []Endpoint
	Protocols      []Family
}

// NewCatalog derives the endpoint catalog from the configuration
// store: one multicast endpoint per configured multicast address, and
// one unicast endpoint per (resolved known-peer address, port in
// [BasePort, BasePort+PortRange)) pair. DNS lookup failures are logged
// and skipped rather than failing catalog construction, per spec.md
// §4.2.
func NewCatalog(ctx context.Context, store *config.Store) (*Catalog, error) {
	cat := &Catalog{}

	for _, addr := range store.MulticastAddresses() {
		cat.McastEndpoints = append(cat.McastEndpoints, Endpoint{Addr: addr, Port: store.MulticastPort})
	}

	if len(store.KnownPeers) > 0 {
		endpoints, err := resolveKnownPeers(ctx, store)
		if err != nil {
			return nil, err
		}
		cat.UcastEndpoints = endpoints
	}

	if store.AllowIPv6() {
		cat.Protocols = append(cat.Protocols, FamilyV6)
	}
	if store.AllowIPv4() {
		cat.Protocols = append(cat.Protocols, FamilyV4)
	}
	if len(cat.Protocols) == 0 {
		return nil, ErrConfigInvalid
	}

	return cat, nil
}

func resolveKnownPeers(ctx context.Context, store *config.Store) ([]Endpoint, error) {
	type lookupResult struct {
		peer string
		ips  []net.IPAddr
	}

	results := make([]lookupResult, len(store.KnownPeers))
	g, gctx := errgroup.WithContext(ctx)
	for i, peer := range store.KnownPeers {
		i, peer := i, peer
		g.Go(func() error {
			lctx, cancel := context.WithTimeout(gctx, store.Tuning.PeerLookupTimeout)
			defer cancel()
			ips, err := net.DefaultResolver.LookupIPAddr(lctx, peer)
			if err != nil {
				catalogLogger.Warn("known peer lookup failed", "peer", peer, "error", err)
				return nil
			}
			results[i] = lookupResult{peer: peer, ips: ips}
			return nil
		})
	}
	// Every lookup func returns nil (failures, including ctx
	// cancellation, are logged and swallowed above), so g.Wait returns
	// nil here; a cancelled ctx yields an empty unicast list.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var endpoints []Endpoint
	for _, r := range results {
		for _, ip := range r.ips {
			addr, ok := netip.AddrFromSlice(ip.IP.To16())
			if !ok {
				continue
			}
			if ip4 := ip.IP.To4(); ip4 != nil {
				addr, ok = netip.AddrFromSlice(ip4)
				if !ok {
					continue
				}
			}
			for p := int(store.BasePort); p < int(store.BasePort)+int(store.PortRange); p++ {
				endpoints = append(endpoints, Endpoint{Addr: addr, Port: uint16(p)})
			}
		}
	}
	return endpoints, nil
}
