package chanx

import (
	"sync/atomic"

	"github.com/llxisdsh/chanx/internal/futex"
)

// credit is a counting semaphore on a futex word, used by Chan to let a
// blocked side retry its ring operation once the other side made progress.
//
// State of word:
//   - [0, limit]:   available credits. Release saturates at limit.
//   - creditClosed: absorbing. Acquire fails, Release is a no-op.
//
// Every successful ring operation releases a credit whether or not anybody
// is parked, so credits pile up while the other side keeps pace. Each banked
// credit costs a blocked caller one extra ring attempt before it parks. Chan
// sets limit to the ring capacity: there are never more values (or free
// slots) than that for the credits to stand for, so the surplus is dropped.
//
// Size: 12 bytes (4 byte word + 4 byte waiter count + 4 byte limit).
type credit struct {
	word atomic.Uint32
	// waiters counts goroutines parked (or about to park) on word, so that
	// release can skip the wake call on the common path.
	waiters atomic.Int32
	// limit caps word; zero means creditMax.
	limit uint32
}

const (
	creditMax    = 1 << 30
	creditClosed = 1 << 31
)

// acquire takes one credit, parking while none are available.
// It fails with ErrClosed once close has run.
func (c *credit) acquire() error {
	for {
		v := c.word.Load()
		switch {
		case v == creditClosed:
			return ErrClosed
		case v > 0:
			if c.word.CompareAndSwap(v, v-1) {
				return nil
			}
		default:
			c.waiters.Add(1)
			futex.Wait(&c.word, 0)
			c.waiters.Add(-1)
		}
	}
}

// release adds one credit and wakes a parked goroutine if there is one.
func (c *credit) release() {
	limit := c.limit
	if limit == 0 {
		limit = creditMax
	}
	for {
		v := c.word.Load()
		if v >= limit {
			// Saturated or closed. Either way nobody is parked at zero.
			return
		}
		if c.word.CompareAndSwap(v, v+1) {
			break
		}
	}
	// The waiter registers before it loads word inside futex.Wait, and we
	// load waiters after bumping word, so one of the two sees the other.
	if c.waiters.Load() > 0 {
		futex.Wake(&c.word, 1)
	}
}

// close makes every current and future acquire fail.
func (c *credit) close() {
	c.word.Store(creditClosed)
	futex.Wake(&c.word, futex.All)
}
