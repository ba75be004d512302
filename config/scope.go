package config

import "fmt"

// ResolveScope selects which multicast address groups and default TTL a
// resolver uses, mirroring the administrative reach of a discovery burst.
type ResolveScope int

const (
	ScopeMachine ResolveScope = iota
	ScopeLink
	ScopeSite
	ScopeOrganization
	ScopeGlobal
)

// scopeOrder lists the scopes from narrowest to widest; a resolver
// configured for scope S uses the union of address groups for every
// scope up to and including S.
var scopeOrder = []ResolveScope{ScopeMachine, ScopeLink, ScopeSite, ScopeOrganization, ScopeGlobal}

// defaultTTL is the multicast TTL implied by a scope when TTLOverride is
// not set.
var defaultTTL = map[ResolveScope]int{
	ScopeMachine:      0,
	ScopeLink:         1,
	ScopeSite:         24,
	ScopeOrganization: 32,
	ScopeGlobal:       255,
}

func parseScope(s string) (ResolveScope, error) {
	switch s {
	case "machine":
		return ScopeMachine, nil
	case "link":
		return ScopeLink, nil
	case "site":
		return ScopeSite, nil
	case "organization":
		return ScopeOrganization, nil
	case "global":
		return ScopeGlobal, nil
	default:
		return 0, fmt.Errorf("%w: unrecognised ResolveScope %q", ErrConfigParse, s)
	}
}

func (s ResolveScope) String() string {
	switch s {
	case ScopeMachine:
		return "machine"
	case ScopeLink:
		return "link"
	case ScopeSite:
		return "site"
	case ScopeOrganization:
		return "organization"
	case ScopeGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// defaultAddresses are the stock multicast groups per scope group, used
// when the INI file doesn't override them. Link-local reception needs no
// router cooperation; Site/Organization/Global groups assume the network
// operator has configured the corresponding multicast routing scope.
var defaultAddresses = map[ResolveScope][]string{
	ScopeMachine:      {"224.0.0.183", "ff11::183"},
	ScopeLink:         {"224.0.0.183", "ff02::183"},
	ScopeSite:         {"239.255.172.215", "ff05::183"},
	ScopeOrganization: {"239.192.172.215", "ff08::183"},
	ScopeGlobal:       {"239.255.255.183", "ff0e::183"},
}
