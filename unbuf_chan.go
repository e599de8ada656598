package chanx

import (
	"sync/atomic"

	"github.com/llxisdsh/chanx/internal/futex"
)

// UnbufChan is a zero-capacity rendezvous channel: a Send completes only
// together with a Recv, and values are handed across directly, never queued.
//
// It is zero-value usable; NewUnbufChan exists for symmetry with NewChan.
//
// Implementation:
//   - sendMu and recvMu admit at most one active sender and one active
//     receiver. Everybody else queues on those mutexes.
//   - slot is the exchange pointer. The first of the two active parties to
//     arrive publishes a pointer there (the sender: its value; the receiver:
//     its destination) and parks on its own futex. The second finds the slot
//     occupied, copies the value across, clears the slot and releases the
//     first.
//   - The second party claims the pointer with a swap, so a first party that
//     wakes up to Close can retract its pointer with a CAS and know for sure
//     whether the value has been moved.
//   - sendFtx and recvFtx cycle NOT_READY -> WAITING (party parked) ->
//     NOT_READY (released by the counterpart). A counterpart that completes
//     before the first party parked drives it to READY instead, and the
//     party's own increment brings it back to NOT_READY without parking.
//     CLOSED is absorbing.
//
// The futex words are stored biased by one so that the zero value reads as
// NOT_READY.
//
// No ordering is promised among several goroutines waiting to send (or to
// receive); they are admitted in whatever order the side mutex wakes them.
type UnbufChan[T any] struct {
	_      noCopy
	sendMu Mutex
	_      pad32
	recvMu Mutex
	_      pad32

	sendFtx atomic.Uint32
	recvFtx atomic.Uint32
	closed  atomic.Bool
	slot    atomic.Pointer[T]
	// moving is non-zero while a counterpart copies through a claimed
	// pointer.
	moving atomic.Int32
}

const (
	unbufReady    = 0
	unbufNotReady = 1
	unbufWaiting  = 2
	unbufClosed   = 3

	// bias makes the zero value of a futex word read as unbufNotReady.
	unbufBias = unbufNotReady
)

// NewUnbufChan creates a rendezvous channel.
func NewUnbufChan[T any]() *UnbufChan[T] {
	return &UnbufChan[T]{}
}

// Cap always returns 0.
func (c *UnbufChan[T]) Cap() int {
	return 0
}

// Closed reports whether Close has been called.
func (c *UnbufChan[T]) Closed() bool {
	return c.closed.Load()
}

// Send blocks until a receiver takes v.
// It returns ErrClosed if the channel is, or becomes, closed before a
// receiver took the value.
func (c *UnbufChan[T]) Send(v T) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return c.exchange(&v, &c.sendFtx, &c.recvFtx, func(peer *T) { *peer = v })
}

// TrySend hands v to a receiver that is already parked in Recv.
// It returns ErrWouldBlock if no receiver is parked or another sender is
// active, and never registers itself as a party.
func (c *UnbufChan[T]) TrySend(v T) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if !c.sendMu.TryLock() {
		return ErrWouldBlock
	}
	defer c.sendMu.Unlock()
	return c.tryExchange(&c.recvFtx, func(peer *T) { *peer = v })
}

// Recv blocks until a sender hands over a value.
func (c *UnbufChan[T]) Recv() (T, error) {
	var v T
	err := c.RecvTo(&v)
	return v, err
}

// RecvTo is like Recv but stores the value in *dst.
// It returns ErrInvalid if dst is nil.
func (c *UnbufChan[T]) RecvTo(dst *T) error {
	if dst == nil {
		return ErrInvalid
	}
	if c.closed.Load() {
		return ErrClosed
	}
	c.recvMu.Lock()
	defer c.recvMu.Unlock()
	return c.exchange(dst, &c.recvFtx, &c.sendFtx, func(peer *T) { *dst = *peer })
}

// TryRecv takes a value from a sender that is already parked in Send.
// It returns ErrWouldBlock if no sender is parked or another receiver is
// active.
func (c *UnbufChan[T]) TryRecv() (T, error) {
	var v T
	err := c.TryRecvTo(&v)
	return v, err
}

// TryRecvTo is like TryRecv but stores the value in *dst.
// It returns ErrInvalid if dst is nil.
func (c *UnbufChan[T]) TryRecvTo(dst *T) error {
	if dst == nil {
		return ErrInvalid
	}
	if c.closed.Load() {
		return ErrClosed
	}
	if !c.recvMu.TryLock() {
		return ErrWouldBlock
	}
	defer c.recvMu.Unlock()
	return c.tryExchange(&c.sendFtx, func(peer *T) { *dst = *peer })
}

// exchange runs one side of a rendezvous. The caller holds its side mutex.
// mine is the pointer to publish, own the caller's futex, peer the
// counterpart's futex, and move copies between the caller and the
// counterpart's published pointer.
func (c *UnbufChan[T]) exchange(mine *T, own, peer *atomic.Uint32, move func(*T)) error {
	if !c.slot.CompareAndSwap(nil, mine) {
		// The counterpart got here first and is parked, or about to park.
		return c.complete(peer, move)
	}

	// We are first. Register and park until the counterpart releases us.
	old, ok := c.register(own)
	if ok && old == unbufNotReady {
		for c.load(own) == unbufWaiting {
			futex.Wait(own, unbufWaiting-unbufBias)
		}
	}
	// ok && old == unbufReady: the counterpart finished before we registered.
	if !c.closed.Load() {
		return nil
	}
	return c.retract(mine)
}

// tryExchange completes a rendezvous only against a counterpart that is
// already parked.
func (c *UnbufChan[T]) tryExchange(peer *atomic.Uint32, move func(*T)) error {
	if c.load(peer) != unbufWaiting {
		return ErrWouldBlock
	}
	// A parked counterpart published its pointer before registering.
	return c.complete(peer, move)
}

// complete claims the counterpart's published pointer, moves the value and
// releases the counterpart.
func (c *UnbufChan[T]) complete(peer *atomic.Uint32, move func(*T)) error {
	c.moving.Add(1)
	p := c.slot.Swap(nil)
	if p == nil {
		// Retracted by a counterpart that saw Close.
		c.moving.Add(-1)
		return ErrClosed
	}
	move(p)
	c.moving.Add(-1)
	if c.release(peer) {
		futex.Wake(peer, 1)
	}
	return nil
}

// retract withdraws a published pointer after Close. If a counterpart has
// already claimed it, the value is in flight: wait for the copy to finish and
// report the exchange as done, so that nobody writes to the pointer after we
// return.
func (c *UnbufChan[T]) retract(mine *T) error {
	if c.slot.CompareAndSwap(mine, nil) {
		return ErrClosed
	}
	var spins int
	for c.moving.Load() != 0 {
		backoff(&spins)
	}
	return nil
}

// load returns the unbiased state of a futex word.
func (c *UnbufChan[T]) load(ftx *atomic.Uint32) uint32 {
	return ftx.Load() + unbufBias
}

// register moves ftx one step towards unbufWaiting and returns the state it
// observed before. It fails once the word is closed.
func (c *UnbufChan[T]) register(ftx *atomic.Uint32) (uint32, bool) {
	for {
		raw := ftx.Load()
		s := raw + unbufBias
		if s >= unbufClosed {
			return s, false
		}
		if ftx.CompareAndSwap(raw, raw+1) {
			return s, true
		}
	}
}

// release moves ftx one step back and reports whether the owner was parked
// (state was unbufWaiting). It fails, and leaves the word alone, once the
// word is closed.
func (c *UnbufChan[T]) release(ftx *atomic.Uint32) bool {
	for {
		raw := ftx.Load()
		s := raw + unbufBias
		if s >= unbufClosed {
			return false
		}
		if ftx.CompareAndSwap(raw, raw-1) {
			return s == unbufWaiting
		}
	}
}

// Close closes the channel and wakes every goroutine parked in Send or Recv;
// they return ErrClosed. Close is idempotent.
func (c *UnbufChan[T]) Close() {
	c.closed.Store(true)
	c.recvFtx.Store(unbufClosed - unbufBias)
	c.sendFtx.Store(unbufClosed - unbufBias)
	futex.Wake(&c.recvFtx, futex.All)
	futex.Wake(&c.sendFtx, futex.All)
}
