package opt

import (
	"sync"
	"testing"
	"time"
	"unsafe"
)

func TestSema_ParkUntilRelease(t *testing.T) {
	var s Sema

	done := make(chan struct{})
	go func() {
		s.Acquire()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Acquire returned before Release")
	case <-time.After(50 * time.Millisecond):
	}

	s.Release()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after Release")
	}
}

func TestSema_ReleaseFirst(t *testing.T) {
	var s Sema

	// A release with nobody parked is banked and consumed by the next Acquire.
	s.Release()

	done := make(chan struct{})
	go func() {
		s.Acquire()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("banked Release was lost")
	}
}

func TestSema_ManyParked(t *testing.T) {
	var s Sema
	var wg sync.WaitGroup
	n := 10
	wg.Add(n)
	for range n {
		go func() {
			defer wg.Done()
			s.Acquire()
		}()
	}

	time.Sleep(50 * time.Millisecond)
	for range n {
		s.Release()
	}

	ch := make(chan struct{})
	go func() {
		wg.Wait()
		close(ch)
	}()

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("not all parked goroutines woke up")
	}
}

func TestCacheLineSize(t *testing.T) {
	if CacheLineSize_ < unsafe.Sizeof(uint64(0)) {
		t.Fatalf("CacheLineSize_=%d is smaller than a word", CacheLineSize_)
	}
	if CacheLineSize_&(CacheLineSize_-1) != 0 {
		t.Fatalf("CacheLineSize_=%d is not a power of two", CacheLineSize_)
	}
}
