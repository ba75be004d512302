package resolver

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultMap_UpsertDeduplicates(t *testing.T) {
	mock := clock.NewMock()
	m := newResultMap(mock)

	m.upsert(StreamInfo{Identity: "a", Serialized: "<info>1</info>"})
	m.upsert(StreamInfo{Identity: "a", Serialized: "<info>2</info>"})
	m.upsert(StreamInfo{Identity: "b", Serialized: "<info>3</info>"})

	require.Equal(t, 2, m.size())

	snap := m.snapshot(0, 0)
	byID := map[StreamIdentity]StreamInfo{}
	for _, s := range snap {
		byID[s.Identity] = s
	}
	assert.Equal(t, "<info>2</info>", byID["a"].Serialized)
}

func TestResultMap_SnapshotForgetsStaleEntries(t *testing.T) {
	mock := clock.NewMock()
	m := newResultMap(mock)

	m.upsert(StreamInfo{Identity: "old"})
	mock.Add(10 * time.Second)
	m.upsert(StreamInfo{Identity: "fresh"})

	snap := m.snapshot(0, 5*time.Second)
	require.Len(t, snap, 1)
	assert.Equal(t, StreamIdentity("fresh"), snap[0].Identity)
	assert.Equal(t, 1, m.size())
}

func TestResultMap_SnapshotForgetAfterZeroKeepsEverything(t *testing.T) {
	mock := clock.NewMock()
	m := newResultMap(mock)

	m.upsert(StreamInfo{Identity: "a"})
	mock.Add(time.Hour)
	m.upsert(StreamInfo{Identity: "b"})

	snap := m.snapshot(0, 0)
	assert.Len(t, snap, 2)
}

func TestResultMap_SnapshotRespectsMaxResults(t *testing.T) {
	mock := clock.NewMock()
	m := newResultMap(mock)

	for i := 0; i < 5; i++ {
		m.upsert(StreamInfo{Identity: StreamIdentity(rune('a' + i))})
	}

	snap := m.snapshot(2, 0)
	assert.Len(t, snap, 2)
	assert.Equal(t, 5, m.size())
}
