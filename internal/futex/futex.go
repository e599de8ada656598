// Package futex provides the wait/wake primitive the channels and mutexes
// of chanx are built on.
//
// The contract mirrors the Linux futex(2) FUTEX_WAIT / FUTEX_WAKE pair:
//
//   - Wait(addr, val) blocks the calling goroutine while *addr == val.
//     The comparison and the registration as a waiter happen atomically with
//     respect to Wake on the same address, so a Wake issued after the word was
//     changed is never lost.
//   - Wake(addr, n) wakes up to n goroutines parked on addr.
//
// Wait may return spuriously. Callers must re-check the word (or whatever
// condition they are waiting for) after every return. No ordering among woken
// goroutines is promised.
//
// The default backend is a process-wide parking lot keyed by address that
// parks goroutines on runtime semaphores. Building with the chanx_sysfutex tag
// on Linux switches to the futex system call, which parks the OS thread.
package futex

import (
	"math"
)

// All may be passed to Wake to wake every parked goroutine.
const All = math.MaxInt32
