// This file must be kept in sync with checks_off.go.

//go:build !ddc_unchecked

package utils

import "fmt"

// ChecksEnabled reports whether precondition and bounds checks are compiled in.
const ChecksEnabled = true

// Assert panics with the formatted message when cond is false. Building with
// the ddc_unchecked tag turns it into a no-op.
func Assert(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
