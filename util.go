package chanx

import (
	"runtime"
	_ "unsafe" // for linkname

	"github.com/llxisdsh/chanx/internal/opt"
)

// noCopy may be added to structs which must not be copied
// after the first use.
//
// See https://golang.org/issues/8005#issuecomment-190753527
// for details.
//
// Note that it must not be embedded, due to the Lock and Unlock methods.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// pad32 separates a 32-bit hot word from whatever follows it.
type pad32 [opt.CacheLineSize_ - 4]byte

// pad64 separates a 64-bit hot word from whatever follows it.
type pad64 [opt.CacheLineSize_ - 8]byte

// backoff spins while the runtime allows it, then yields the processor.
func backoff(spins *int) {
	if !trySpin(spins) {
		runtime.Gosched()
	}
}

// trySpin performs one round of active spinning if the runtime says it is
// worthwhile (multicore, idle Ps, short run queue). It reports false once the
// caller should stop spinning and park instead.
func trySpin(spins *int) bool {
	if runtime_canSpin(*spins) {
		*spins++
		runtime_doSpin()
		return true
	}
	return false
}

// nolint:all
//
//go:linkname runtime_canSpin sync.runtime_canSpin
//goland:noinspection ALL
func runtime_canSpin(i int) bool

// nolint:all
//
//go:linkname runtime_doSpin sync.runtime_doSpin
//goland:noinspection ALL
func runtime_doSpin()
