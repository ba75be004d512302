package config

import "errors"

// Sentinel errors surfaced from configuration construction. Per the
// resolver's error-handling design these are fatal to resolver
// construction; they are never returned from a resolve call itself.
var (
	// ErrConfigParse is returned when the INI document is syntactically
	// malformed or an enumerated option (ResolveScope, ports.IPv6) has an
	// unrecognised value.
	ErrConfigParse = errors.New("config: failed to parse configuration")

	// ErrConfigInvalid is returned when the parsed configuration leaves no
	// usable IP family enabled, or no multicast address survives parsing.
	ErrConfigInvalid = errors.New("config: no usable network configuration")

	// ErrConfigFrozen is returned by SetContent/SetFilename once the
	// singleton has already been constructed by a prior Get call.
	ErrConfigFrozen = errors.New("config: store already initialised, Set* has no effect")
)
