package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCache_CheckQuery(t *testing.T) {
	c := newQueryCache(4)

	require.NoError(t, c.CheckQuery("session_id='abc'"))
	require.NoError(t, c.CheckQuery("session_id='abc'")) // cached path

	err := c.CheckQuery("session_id=")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidQuery))
}

func TestQueryCache_EvictsUnderPressure(t *testing.T) {
	c := newQueryCache(1)
	require.NoError(t, c.CheckQuery("a='1'"))
	require.NoError(t, c.CheckQuery("b='2'"))
	// size-1 cache: "a" may have been evicted, but re-validating it must
	// still succeed (just recompiles rather than hitting the cache).
	require.NoError(t, c.CheckQuery("a='1'"))
}

func TestBuildQuery(t *testing.T) {
	assert.Equal(t, "session_id='s1'", BuildQuery("s1", "", ""))
	assert.Equal(t, "session_id='s1' and type", BuildQuery("s1", "type", ""))
	assert.Equal(t, "session_id='s1' and type='EEG'", BuildQuery("s1", "type", "EEG"))
}
