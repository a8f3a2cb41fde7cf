package horn

import "sync/atomic"

// DefaultResourceLimit is the process-wide per-query step budget used by
// engines constructed without an explicit limit.
const DefaultResourceLimit uint64 = 2_000_000

var globalResourceLimit atomic.Uint64

func init() {
	globalResourceLimit.Store(DefaultResourceLimit)
}

// SetResourceLimit replaces the process-wide step budget shared by every
// engine that did not get a per-instance limit. It is consulted at query
// time, so the new value applies to queries issued after the call.
func SetResourceLimit(limit uint64) {
	globalResourceLimit.Store(limit)
}

// ResourceLimit returns the current process-wide step budget.
func ResourceLimit() uint64 {
	return globalResourceLimit.Load()
}
