// Package contract implements the trap-on-violation policy for programming
// contracts: a failed assertion is a defect in the caller or in the engine
// integration, never a recoverable runtime condition, so it panics with a
// diagnostic naming the violated invariant.
package contract

import "fmt"

// Assert panics with the given diagnostic when cond is false.
func Assert(cond bool, invariant string) {
	if !cond {
		panic("contract violation: " + invariant)
	}
}

// Assertf is Assert with a formatted diagnostic.
func Assertf(cond bool, format string, args ...any) {
	if !cond {
		panic("contract violation: " + fmt.Sprintf(format, args...))
	}
}
