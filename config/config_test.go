package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	s, err := parse("")
	require.NoError(t, err)
	assert.Equal(t, uint16(16572), s.BasePort)
	assert.Equal(t, uint16(32), s.PortRange)
	assert.True(t, s.AllowRandomPorts)
	assert.Equal(t, uint16(16571), s.MulticastPort)
	assert.Equal(t, ScopeSite, s.Scope)
	assert.Equal(t, "default", s.SessionID)
	assert.Equal(t, 24, s.MulticastTTL())
	assert.True(t, s.AllowIPv4())
	assert.True(t, s.AllowIPv6())
}

func TestParse_Overrides(t *testing.T) {
	doc := `
[ports]
BasePort = 17000
PortRange = 8
IPv6 = disable

[multicast]
ResolveScope = global
TTLOverride = 5
SiteAddresses = 239.1.2.3, 239.1.2.4

[lab]
SessionID = my-session
KnownPeers = hosta, hostb

[tuning]
MulticastMinRTT = 0.5
ContinuousResolveInterval = 2.5
`
	s, err := parse(doc)
	require.NoError(t, err)
	assert.Equal(t, uint16(17000), s.BasePort)
	assert.Equal(t, uint16(8), s.PortRange)
	assert.False(t, s.AllowIPv6())
	assert.True(t, s.AllowIPv4())
	assert.Equal(t, ScopeGlobal, s.Scope)
	assert.Equal(t, 5, s.MulticastTTL())
	assert.Equal(t, "my-session", s.SessionID)
	assert.Equal(t, []string{"hosta", "hostb"}, s.KnownPeers)
	assert.Equal(t, 500*time.Millisecond, s.Tuning.MulticastMinRTT)
	assert.Equal(t, 2500*time.Millisecond, s.Tuning.ContinuousResolveInterval)

	addrs := s.MulticastAddresses()
	var found bool
	for _, a := range addrs {
		if a.String() == "239.1.2.3" {
			found = true
		}
	}
	assert.True(t, found, "expected overridden site address to survive scope merge")
}

func TestParse_UnrecognisedScopeFails(t *testing.T) {
	_, err := parse("[multicast]\nResolveScope = universe\n")
	assert.ErrorIs(t, err, ErrConfigParse)
}

func TestStore_IPv6DisableKeepsIPv4(t *testing.T) {
	// IPv6=disable plus an explicit request to never use IPv4 isn't
	// expressible via ports.IPv6 alone, so both families can't be
	// disabled; this checks that IPv6Disable still leaves IPv4 usable.
	s := &Store{IPv6: IPv6Disable}
	assert.True(t, s.AllowIPv4())
	assert.False(t, s.AllowIPv6())
}

func TestMulticastAddresses_ScopeMerge(t *testing.T) {
	s := &Store{
		Scope:            ScopeSite,
		IPv6:             IPv6Allow,
		MachineAddresses: []string{"224.0.0.1"},
		LinkAddresses:    []string{"224.0.0.2"},
		SiteAddresses:    []string{"224.0.0.3"},
		GlobalAddresses:  []string{"224.0.0.4"}, // must NOT appear, scope is site
	}
	addrs := s.MulticastAddresses()
	var strs []string
	for _, a := range addrs {
		strs = append(strs, a.String())
	}
	assert.Contains(t, strs, "224.0.0.1")
	assert.Contains(t, strs, "224.0.0.2")
	assert.Contains(t, strs, "224.0.0.3")
	assert.NotContains(t, strs, "224.0.0.4")
}

func TestMulticastAddresses_SkipsUnparsable(t *testing.T) {
	s := &Store{Scope: ScopeMachine, IPv6: IPv6Allow, MachineAddresses: []string{"not-an-address", "224.0.0.9"}}
	addrs := s.MulticastAddresses()
	require.Len(t, addrs, 1)
	assert.Equal(t, "224.0.0.9", addrs[0].String())
}

func TestSetContentAndGet_Precedence(t *testing.T) {
	resetForTest()
	defer resetForTest()

	require.NoError(t, SetContent("[lab]\nSessionID = from-content\n"))
	require.NoError(t, SetFilename("/nonexistent/lsl_api.cfg"))

	s, err := Get()
	require.NoError(t, err)
	assert.Equal(t, "from-content", s.SessionID)

	// Once frozen, further Set* calls are rejected.
	err = SetContent("[lab]\nSessionID = too-late\n")
	assert.ErrorIs(t, err, ErrConfigFrozen)
}

func TestGet_IsSingleton(t *testing.T) {
	resetForTest()
	defer resetForTest()

	require.NoError(t, SetContent("[lab]\nSessionID = once\n"))
	a, err := Get()
	require.NoError(t, err)
	b, err := Get()
	require.NoError(t, err)
	assert.Same(t, a, b)
}
