package lslresolve

import (
	"github.com/lslkit/lslresolve/internal/discovery/resolver"
)

// Sentinel errors a caller can match against with errors.Is.
var (
	// ErrInvalidQuery is returned when a predicate fails to compile as an
	// XPath expression, before any network I/O is attempted.
	ErrInvalidQuery = resolver.ErrInvalidQuery

	// ErrConfigInvalid is returned when the resolved configuration leaves
	// no usable IP protocol family.
	ErrConfigInvalid = resolver.ErrConfigInvalid

	// ErrAlreadyClosed is returned by ContinuousResolver.Results/Cancel/
	// Close when called again after Close has already run.
	ErrAlreadyClosed = resolver.ErrAlreadyClosed
)
