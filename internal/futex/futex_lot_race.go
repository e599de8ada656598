//go:build race && !(linux && chanx_sysfutex)

package futex

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/llxisdsh/chanx/internal/opt"
)

// Under the race detector the lot is a fixed array of mutex-guarded maps.
// pb.MapOf takes its bucket locks with plain loads, which the detector
// reports as races in every caller.

const lotShards = 64

type lotShard struct {
	mu     sync.Mutex
	queues map[uintptr]*queue
	_      [opt.CacheLineSize_]byte
}

var lot [lotShards]lotShard

func shardOf(key uintptr) *lotShard {
	// Futex words are at least 4-byte aligned.
	return &lot[(key>>2)%lotShards]
}

// Wait parks the calling goroutine while *addr == val.
func Wait(addr *atomic.Uint32, val uint32) {
	key := uintptr(unsafe.Pointer(addr))
	sh := shardOf(key)
	sh.mu.Lock()
	if addr.Load() != val {
		sh.mu.Unlock()
		return
	}
	q := sh.queues[key]
	if q == nil {
		if sh.queues == nil {
			sh.queues = make(map[uintptr]*queue)
		}
		q = &queue{}
		sh.queues[key] = q
	}
	w := &waiter{}
	q.push(w)
	sh.mu.Unlock()
	w.sema.Acquire()
}

// Wake wakes up to n goroutines parked on addr and reports how many it woke.
func Wake(addr *atomic.Uint32, n int) int {
	if n <= 0 {
		return 0
	}
	key := uintptr(unsafe.Pointer(addr))
	sh := shardOf(key)
	var woken *waiter
	var count int
	sh.mu.Lock()
	if q := sh.queues[key]; q != nil {
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
			delete(sh.queues, key)
		}
	}
	sh.mu.Unlock()
	for w := woken; w != nil; {
		next := w.next
		w.sema.Release()
		w = next
	}
	return count
}
