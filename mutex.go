package chanx

import (
	"sync/atomic"

	"github.com/llxisdsh/chanx/internal/futex"
)

// Mutex is a compact mutual-exclusion lock built directly on the futex
// wait/wake primitive.
//
// It is zero-value usable (starts unlocked) and 4 bytes in size.
//
// State:
//   - mutexUnlocked:   nobody holds the lock.
//   - mutexLocked:     held, nobody parked; Unlock needs no wake.
//   - mutexContended:  held, and at least one goroutine may be parked.
//
// Implementation:
// The classic three-state futex mutex (Drepper, "Futexes Are Tricky").
// An uncontended Lock/Unlock pair costs one CAS and one atomic decrement and
// never touches the parking lot. Once a goroutine has parked, every
// reacquisition keeps the contended state so the eventual Unlock knows it has
// to wake somebody.
//
// There is no fairness: a newcomer may barge past parked goroutines, and the
// order in which parked goroutines are woken is unspecified. Use TicketMutex
// when FIFO ordering matters.
type Mutex struct {
	_     noCopy
	state atomic.Uint32
}

const (
	mutexUnlocked  = 0
	mutexLocked    = 1
	mutexContended = 2
)

// Lock acquires the mutex, parking the calling goroutine until it is
// available.
func (m *Mutex) Lock() {
	s := m.cas(mutexUnlocked, mutexLocked)
	if s == mutexUnlocked {
		return
	}
	for {
		// Announce ourselves before parking. If the lock was released in the
		// meantime, skip the park and go straight to the reacquire.
		if s == mutexContended || m.cas(mutexLocked, mutexContended) != mutexUnlocked {
			futex.Wait(&m.state, mutexContended)
		}
		if s = m.cas(mutexUnlocked, mutexContended); s == mutexUnlocked {
			return
		}
	}
}

// TryLock acquires the mutex only if it is free.
// It reports whether the lock was acquired; it never parks.
func (m *Mutex) TryLock() bool {
	return m.state.CompareAndSwap(mutexUnlocked, mutexLocked)
}

// Unlock releases the mutex. It is a run-time error to unlock a mutex that
// is not locked.
func (m *Mutex) Unlock() {
	switch m.state.Add(^uint32(0)) {
	case mutexUnlocked:
		// Was mutexLocked: nobody can be parked.
		return
	case ^uint32(0):
		panic("chanx: unlock of unlocked Mutex")
	}
	m.state.Store(mutexUnlocked)
	futex.Wake(&m.state, 1)
}

// cas is a compare-and-swap that returns the value observed before the
// operation, like the C11 form. The swap happened iff the result equals old.
func (m *Mutex) cas(old, new uint32) uint32 {
	for {
		if m.state.CompareAndSwap(old, new) {
			return old
		}
		if cur := m.state.Load(); cur != old {
			return cur
		}
	}
}
