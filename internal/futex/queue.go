//go:build !(linux && chanx_sysfutex)

package futex

import (
	"github.com/llxisdsh/chanx/internal/opt"
)

// waiter is one parked goroutine.
type waiter struct {
	next *waiter
	sema opt.Sema
}

// queue is the list of goroutines parked on one address.
// It is only touched under the lock that guards its lot entry.
type queue struct {
	head *waiter
	tail *waiter
}

func (q *queue) push(w *waiter) {
	if q.tail == nil {
		q.head = w
	} else {
		q.tail.next = w
	}
	q.tail = w
}

func (q *queue) pop() *waiter {
	w := q.head
	if w == nil {
		return nil
	}
	q.head = w.next
	if q.head == nil {
		q.tail = nil
	}
	w.next = nil
	return w
}
