package chanx

// ============================================================================
// Configuration
// ============================================================================

// Allocator supplies the ring storage of a buffered channel.
//
// It is called once, at construction, with the requested capacity and must
// return a slice of at least n slots, or nil (or a shorter slice) to signal
// that the storage cannot be provided, in which case NewChan fails with
// ErrAlloc. The channel takes ownership of the returned slots and never
// resizes them; the caller must not touch them while the channel is in use.
// Slots handed back from a previous channel may be reused, they are reset
// before use.
type Allocator[T any] func(n int) []Slot[T]

// ChanConfig defines configurable options for Chan initialization.
type ChanConfig[T any] struct {
	// alloc provides the ring storage.
	// If nil, the ring is allocated with make.
	alloc Allocator[T]
}

// WithAllocator configures the allocator used for the ring storage.
// This allows pooling ring buffers, or enforcing a memory budget by
// returning nil once the budget is spent.
func WithAllocator[T any](alloc Allocator[T]) func(*ChanConfig[T]) {
	return func(c *ChanConfig[T]) {
		c.alloc = alloc
	}
}

func defaultAllocator[T any](n int) []Slot[T] {
	return make([]Slot[T], n)
}
