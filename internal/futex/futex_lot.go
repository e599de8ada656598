//go:build !race && !(linux && chanx_sysfutex)

package futex

import (
	"sync/atomic"
	"unsafe"

	"github.com/llxisdsh/pb"
)

// lot maps a futex word address to the goroutines parked on it.
// Entries exist only while at least one goroutine is parked.
var lot pb.MapOf[uintptr, *queue]

// Wait parks the calling goroutine while *addr == val.
func Wait(addr *atomic.Uint32, val uint32) {
	key := uintptr(unsafe.Pointer(addr))
	w := &waiter{}
	_, parked := lot.ProcessEntry(
		key,
		func(l *pb.EntryOf[uintptr, *queue]) (*pb.EntryOf[uintptr, *queue], *queue, bool) {
			// The value check runs under the same lock Wake takes, which is
			// what makes check-and-park atomic.
			if addr.Load() != val {
				return l, nil, false
			}
			if l == nil {
				q := &queue{}
				q.push(w)
				return &pb.EntryOf[uintptr, *queue]{Value: q}, q, true
			}
			l.Value.push(w)
			return l, l.Value, true
		},
	)
	if parked {
		w.sema.Acquire()
	}
}

// Wake wakes up to n goroutines parked on addr and reports how many it woke.
func Wake(addr *atomic.Uint32, n int) int {
	if n <= 0 {
		return 0
	}
	key := uintptr(unsafe.Pointer(addr))
	var woken *waiter
	var count int
	lot.ProcessEntry(
		key,
		func(l *pb.EntryOf[uintptr, *queue]) (*pb.EntryOf[uintptr, *queue], *queue, bool) {
			if l == nil {
				return nil, nil, false
			}
			q := l.Value
			for count < n {
				w := q.pop()
				if w == nil {
					break
				}
				w.next = woken
				woken = w
				count++
			}
			if q.head == nil {
				// Drop the entry so the table only holds live addresses.
				return nil, nil, false
			}
			return l, q, true
		},
	)
	for w := woken; w != nil; {
		next := w.next
		w.sema.Release()
		w = next
	}
	return count
}
