package chanx

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Chan is a fixed-capacity, multi-producer multi-consumer FIFO channel.
//
// The ring is lock-free: a slot is claimed with a single CAS on head or tail,
// and its readiness is encoded in a per-slot lap counter, so there is no
// shared "count" word for producers and consumers to fight over. Goroutines
// only touch the futex-based credits when the ring is full (senders) or
// empty (receivers).
//
// Lap encoding:
//   - head and tail pack (lap << 32) | position.
//   - tail starts at lap 0 and head at lap 1; both advance their lap by 2 on
//     every wrap around the ring.
//   - A slot is writable when its lap equals the tail lap at that position,
//     and readable when it equals the head lap. Writing and reading each bump
//     the slot lap by one, so after a full write/read cycle the slot matches
//     the next tail lap.
//
// Ordering:
// Values are delivered in strict position order, so a single sender and a
// single receiver observe FIFO order. Between racing senders the order is
// whichever wins the tail CAS.
//
// Close:
// Close is "stop the world": once it has run, every operation fails with
// ErrClosed, and values still sitting in the ring are not delivered.
//
// Usage:
//
//	ch, err := chanx.NewChan[int](16)
//	if err != nil {
//		return err
//	}
//	go func() {
//		for i := range 100 {
//			if ch.Send(i) != nil {
//				return
//			}
//		}
//	}()
//	v, err := ch.Recv()
type Chan[T any] struct {
	_    noCopy
	head atomic.Uint64
	_    pad64
	tail atomic.Uint64
	_    pad64

	// sendc is taken by senders that found the ring full and released by
	// every successful receive; recvc is the mirror image.
	sendc  credit
	recvc  credit
	closed atomic.Bool

	cap  uint32
	ring []Slot[T]
}

// Slot is one cell of a Chan ring. Its fields are private; it is exported
// only so that an Allocator can provide the storage.
type Slot[T any] struct {
	lap  atomic.Uint32
	data T
}

// NewChan creates a buffered channel holding up to capacity values.
// The capacity must be at least 1; use NewUnbufChan (or Make with capacity 0)
// for a rendezvous channel.
func NewChan[T any](capacity int, options ...func(*ChanConfig[T])) (*Chan[T], error) {
	if capacity <= 0 || uint64(capacity) > math.MaxUint32 {
		return nil, fmt.Errorf("capacity %d: %w", capacity, ErrInvalid)
	}
	var cfg ChanConfig[T]
	for _, o := range options {
		o(&cfg)
	}
	alloc := cfg.alloc
	if alloc == nil {
		alloc = defaultAllocator[T]
	}

	ring := alloc(capacity)
	if len(ring) < capacity {
		return nil, fmt.Errorf("ring of %d slots: %w", capacity, ErrAlloc)
	}
	ring = ring[:capacity:capacity]
	var zero T
	for i := range ring {
		ring[i].lap.Store(0)
		ring[i].data = zero
	}

	limit := min(uint32(capacity), creditMax)
	c := &Chan[T]{
		sendc: credit{limit: limit},
		recvc: credit{limit: limit},
		cap:   uint32(capacity),
		ring:  ring,
	}
	c.head.Store(1 << 32)
	return c, nil
}

// Cap returns the fixed capacity of the ring.
func (c *Chan[T]) Cap() int {
	return int(c.cap)
}

// Closed reports whether Close has been called.
func (c *Chan[T]) Closed() bool {
	return c.closed.Load()
}

// Send appends v to the ring, blocking while the ring is full.
// It returns ErrClosed if the channel is, or becomes, closed.
func (c *Chan[T]) Send(v T) error {
	for {
		err := c.trySend(v)
		if err == nil {
			break
		}
		if err != ErrWouldBlock {
			return err
		}
		if err = c.sendc.acquire(); err != nil {
			return err
		}
	}
	c.recvc.release()
	return nil
}

// TrySend appends v to the ring if there is a free slot.
// It returns ErrWouldBlock if the ring is full and ErrClosed if the channel
// is closed.
func (c *Chan[T]) TrySend(v T) error {
	if err := c.trySend(v); err != nil {
		return err
	}
	c.recvc.release()
	return nil
}

func (c *Chan[T]) trySend(v T) error {
	if c.closed.Load() {
		return ErrClosed
	}
	var spins int
	for {
		tail := c.tail.Load()
		pos, lap := uint32(tail), uint32(tail>>32)
		s := &c.ring[pos]

		if sl := s.lap.Load(); sl != lap {
			if c.tail.Load() != tail {
				// tail moved under us; the slot belongs to somebody else.
				continue
			}
			// The slot still holds last lap's value. If head has moved past
			// it, a receiver has claimed the value but not released the slot
			// yet. The ring is not full, and the credit that woke us may
			// stand for this very slot, so wait for that receiver instead of
			// parking again.
			if sl == lap-1 && c.head.Load() != uint64(lap-1)<<32|uint64(pos) {
				backoff(&spins)
				continue
			}
			return ErrWouldBlock
		}

		next := tail + 1
		if pos+1 == c.cap {
			next = uint64(lap+2) << 32
		}
		if c.tail.CompareAndSwap(tail, next) {
			s.data = v
			// Publish: the slot becomes readable at the head lap.
			s.lap.Add(1)
			return nil
		}
	}
}

// Recv removes and returns the oldest value, blocking while the ring is
// empty. It returns ErrClosed if the channel is, or becomes, closed.
func (c *Chan[T]) Recv() (T, error) {
	var v T
	err := c.RecvTo(&v)
	return v, err
}

// RecvTo is like Recv but stores the value in *dst.
// It returns ErrInvalid if dst is nil.
func (c *Chan[T]) RecvTo(dst *T) error {
	if dst == nil {
		return ErrInvalid
	}
	for {
		err := c.tryRecv(dst)
		if err == nil {
			break
		}
		if err != ErrWouldBlock {
			return err
		}
		if err = c.recvc.acquire(); err != nil {
			return err
		}
	}
	c.sendc.release()
	return nil
}

// TryRecv removes and returns the oldest value if there is one.
// It returns ErrWouldBlock if the ring is empty and ErrClosed if the channel
// is closed.
func (c *Chan[T]) TryRecv() (T, error) {
	var v T
	err := c.TryRecvTo(&v)
	return v, err
}

// TryRecvTo is like TryRecv but stores the value in *dst.
// It returns ErrInvalid if dst is nil.
func (c *Chan[T]) TryRecvTo(dst *T) error {
	if dst == nil {
		return ErrInvalid
	}
	if err := c.tryRecv(dst); err != nil {
		return err
	}
	c.sendc.release()
	return nil
}

func (c *Chan[T]) tryRecv(dst *T) error {
	if c.closed.Load() {
		return ErrClosed
	}
	var spins int
	for {
		head := c.head.Load()
		pos, lap := uint32(head), uint32(head>>32)
		s := &c.ring[pos]

		if sl := s.lap.Load(); sl != lap {
			if c.head.Load() != head {
				continue
			}
			// The slot is at the writer lap of this round. If tail has moved
			// past it, a sender has claimed it and is about to publish: a
			// later slot may already be readable and its credit spent by us,
			// so wait for the publish instead of parking.
			if sl == lap-1 && c.tail.Load() != uint64(lap-1)<<32|uint64(pos) {
				backoff(&spins)
				continue
			}
			return ErrWouldBlock
		}

		next := head + 1
		if pos+1 == c.cap {
			next = uint64(lap+2) << 32
		}
		if c.head.CompareAndSwap(head, next) {
			var zero T
			*dst = s.data
			s.data = zero
			// Release the slot to the writer of the next lap.
			s.lap.Add(1)
			return nil
		}
	}
}

// Close closes the channel and wakes every goroutine parked in Send or Recv;
// they return ErrClosed. Values still in the ring are dropped.
// Close is idempotent.
func (c *Chan[T]) Close() {
	c.closed.Store(true)
	c.sendc.close()
	c.recvc.close()
}
