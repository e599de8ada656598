package chanx

import (
	"errors"
)

type chanError string

var _ error = chanError("")

func (err chanError) Error() string {
	return string(err)
}

const (
	// ErrWouldBlock is returned by the Try* operations when they cannot
	// complete immediately: the ring is full or empty, no counterpart is
	// parked on an unbuffered channel, or the side lock is contended.
	// Blocking operations never return it.
	ErrWouldBlock = chanError("chanx: operation would block")

	// ErrClosed is returned by every operation once Close has been observed,
	// including blocking operations that were parked when Close ran.
	ErrClosed = chanError("chanx: channel closed")

	// ErrInvalid is returned when a required argument is missing or out of
	// range, e.g. a nil destination or a negative capacity.
	ErrInvalid = chanError("chanx: invalid argument")

	// ErrAlloc is returned by NewChan when the allocator cannot supply the
	// ring storage.
	ErrAlloc = chanError("chanx: allocation failed")
)

// IsWouldBlock reports whether err is ErrWouldBlock.
func IsWouldBlock(err error) bool {
	return errors.Is(err, ErrWouldBlock)
}

// IsClosed reports whether err is ErrClosed.
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}
