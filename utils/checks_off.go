// This file must be kept in sync with checks_on.go.

//go:build ddc_unchecked

package utils

// ChecksEnabled reports whether precondition and bounds checks are compiled in.
const ChecksEnabled = false

// Assert is a no-op in unchecked builds.
func Assert(cond bool, format string, args ...interface{}) {}
