package opt

import (
	_ "unsafe" // for linkname
)

// Sema is a zero-allocation semaphore used to park a single goroutine.
// It is a direct wrapper around runtime.semacquire/semrelease, so a parked
// goroutine does not pin an OS thread.
type Sema uint32

func (s *Sema) Acquire() {
	runtime_semacquire((*uint32)(s))
}

func (s *Sema) Release() {
	runtime_semrelease((*uint32)(s), false, 0)
}

// nolint:all
//
//go:linkname runtime_semacquire sync.runtime_Semacquire
func runtime_semacquire(s *uint32)

// nolint:all
//
//go:linkname runtime_semrelease sync.runtime_Semrelease
func runtime_semrelease(s *uint32, handoff bool, skipframes int)
