//go:build race

package opt

// Race_ reports whether the race detector is enabled.
// Tests use it to scale down repetition counts.
const Race_ = true
