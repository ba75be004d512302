// Package config implements the resolver's process-wide configuration
// store: a singleton, lazily constructed from an INI document on first
// access, per spec.md §4.1.
package config

import (
	"net/netip"
	"sync"
	"sync/atomic"

	"github.com/lslkit/lslresolve/internal/lslog"
)

var logger = lslog.Logger("config")

// IPv6Mode selects which IP stacks a resolver binds.
type IPv6Mode int

const (
	IPv6Allow IPv6Mode = iota
	IPv6Disable
	IPv6Force
)

func parseIPv6Mode(s string) (IPv6Mode, error) {
	switch s {
	case "", "allow":
		return IPv6Allow, nil
	case "disable":
		return IPv6Disable, nil
	case "force":
		return IPv6Force, nil
	default:
		return 0, errConfigParsef("unrecognised ports.IPv6 value %q", s)
	}
}

// Store is the immutable, process-wide set of resolver settings. All
// resolvers in a process share one Store, obtained via Get.
type Store struct {
	BasePort         uint16
	PortRange        uint16
	AllowRandomPorts bool
	MulticastPort    uint16
	IPv6             IPv6Mode

	Scope         ResolveScope
	ListenAddress string
	TTLOverride   int // -1 means "derive from Scope"

	MachineAddresses      []string
	LinkAddresses         []string
	SiteAddresses         []string
	OrganizationAddresses []string
	GlobalAddresses       []string

	SessionID  string
	KnownPeers []string

	Tuning Tuning
}

// AllowIPv4 reports whether the v4 stack is usable under the configured
// ports.IPv6 mode.
func (s *Store) AllowIPv4() bool { return s.IPv6 != IPv6Force }

// AllowIPv6 reports whether the v6 stack is usable under the configured
// ports.IPv6 mode.
func (s *Store) AllowIPv6() bool { return s.IPv6 != IPv6Disable }

// MulticastTTL returns the effective multicast TTL: TTLOverride when set
// (>= 0), otherwise the scope-derived default.
func (s *Store) MulticastTTL() int {
	if s.TTLOverride >= 0 {
		return s.TTLOverride
	}
	return defaultTTL[s.Scope]
}

// MulticastAddresses returns the concatenation, in scope order up to and
// including s.Scope, of the configured address groups, restricted to
// the address families permitted by IPv6, as parsed netip.Addr values.
// Individually unparsable addresses are skipped with a warning rather
// than failing the whole call, per spec.md §4.1.
func (s *Store) MulticastAddresses() []netip.Addr {
	groups := map[ResolveScope][]string{
		ScopeMachine:      s.MachineAddresses,
		ScopeLink:         s.LinkAddresses,
		ScopeSite:         s.SiteAddresses,
		ScopeOrganization: s.OrganizationAddresses,
		ScopeGlobal:       s.GlobalAddresses,
	}

	var out []netip.Addr
	for _, scope := range scopeOrder {
		if scope > s.Scope {
			break
		}
		for _, raw := range groups[scope] {
			addr, err := netip.ParseAddr(raw)
			if err != nil {
				logger.Warn("skipping unparsable multicast address", "scope", scope.String(), "addr", raw, "error", err)
				continue
			}
			if addr.Is4() && !s.AllowIPv4() {
				continue
			}
			if addr.Is6() && !addr.Is4In6() && !s.AllowIPv6() {
				continue
			}
			out = append(out, addr)
		}
	}
	return out
}

var (
	once       sync.Once
	instance   *Store
	loadErr    error
	contentSet atomic.Bool
	filename   atomic.Value // string
	content    atomic.Value // string
	frozen     atomic.Bool
)

// SetContent supplies an in-memory INI document that takes precedence
// over any file-based source. It must be called before the first call
// to Get; afterwards it is a no-op latch and returns ErrConfigFrozen.
func SetContent(ini string) error {
	if frozen.Load() {
		return ErrConfigFrozen
	}
	content.Store(ini)
	contentSet.Store(true)
	return nil
}

// SetFilename supplies an additional config file path to try before the
// fixed search locations. Same one-way-latch semantics as SetContent.
func SetFilename(path string) error {
	if frozen.Load() {
		return ErrConfigFrozen
	}
	filename.Store(path)
	return nil
}

// Get returns the process-wide Store, constructing it from the first
// available source on first call. The result is cached; later
// SetContent/SetFilename calls have no effect once Get has run.
func Get() (*Store, error) {
	once.Do(func() {
		frozen.Store(true)
		var raw string
		if s, ok := content.Load().(string); ok && contentSet.Load() {
			raw = s
		} else {
			path := ""
			if p, ok := filename.Load().(string); ok {
				path = p
			}
			raw, loadErr = readFirstAvailable(path)
			if loadErr != nil {
				return
			}
		}
		instance, loadErr = parse(raw)
	})
	return instance, loadErr
}

// resetForTest clears the singleton state. Only used by config_test.go;
// production code never needs to un-freeze the store.
func resetForTest() {
	once = sync.Once{}
	instance = nil
	loadErr = nil
	contentSet.Store(false)
	filename.Store("")
	content.Store("")
	frozen.Store(false)
}
