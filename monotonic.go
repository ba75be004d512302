package lslresolve

import "time"

// processStart anchors MonotonicNow's reference point. Using a package
// var initialised at load time, rather than a fixed epoch, keeps the
// returned values meaningful even across platforms whose wall clock
// can jump (NTP adjustment, manual clock changes).
var processStart = time.Now()

// MonotonicNow returns a monotonic timestamp in nanoseconds since an
// unspecified reference point, comparable only within this process.
// It mirrors the original's lsl_local_clock_ns: useful for measuring
// elapsed time between two readings (e.g. correlating a discovered
// stream's reply against when the resolve started), not as a
// wall-clock epoch.
func MonotonicNow() int64 {
	return time.Since(processStart).Nanoseconds()
}
