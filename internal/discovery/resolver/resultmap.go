package resolver

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// resultEntry is the value half of the result map, per spec.md §3.
type resultEntry struct {
	info     StreamInfo
	lastSeen time.Time
}

// resultMap is the concurrent StreamIdentity -> (StreamInfo, last_seen)
// mapping of spec.md §4.5. All operations hold mu; none blocks on I/O
// while holding it.
type resultMap struct {
	mu    sync.Mutex
	clock clock.Clock
	byID  map[StreamIdentity]resultEntry
}

func newResultMap(c clock.Clock) *resultMap {
	return &resultMap{clock: c, byID: make(map[StreamIdentity]resultEntry)}
}

// upsert inserts a fresh reply or refreshes lastSeen for one already
// present, per spec.md §4.3 step 4 / §4.5.
func (m *resultMap) upsert(info StreamInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[info.Identity] = resultEntry{info: info, lastSeen: m.clock.Now()}
}

// size returns the current entry count without evicting anything, per
// spec.md §4.5.
func (m *resultMap) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// snapshot evicts entries whose lastSeen predates now-forgetAfter, then
// returns up to maxResults of what remains. forgetAfter <= 0 is treated
// as "never forget" (oneshot's FOREVER, spec.md §3).
func (m *resultMap) snapshot(maxResults int, forgetAfter time.Duration) []StreamInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	var cutoff time.Time
	hasCutoff := forgetAfter > 0
	if hasCutoff {
		cutoff = m.clock.Now().Add(-forgetAfter)
	}

	out := make([]StreamInfo, 0, len(m.byID))
	for id, entry := range m.byID {
		if hasCutoff && entry.lastSeen.Before(cutoff) {
			delete(m.byID, id)
			continue
		}
		if maxResults > 0 && len(out) >= maxResults {
			continue
		}
		out = append(out, entry.info)
	}
	return out
}
