package futex

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestWait_ValueMismatch(t *testing.T) {
	var w atomic.Uint32
	w.Store(1)

	done := make(chan struct{})
	go func() {
		Wait(&w, 0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked although the word did not hold the expected value")
	}
}

func TestWake_NobodyParked(t *testing.T) {
	var w atomic.Uint32
	if n := Wake(&w, All); n != 0 {
		t.Fatalf("Wake woke %d, want 0", n)
	}
	if n := Wake(&w, 0); n != 0 {
		t.Fatalf("Wake(0) woke %d, want 0", n)
	}
}

func TestWake_One(t *testing.T) {
	var w atomic.Uint32

	done := make(chan struct{})
	go func() {
		for w.Load() == 0 {
			Wait(&w, 0)
		}
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before the word changed")
	case <-time.After(50 * time.Millisecond):
	}

	w.Store(1)
	Wake(&w, 1)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("parked goroutine was not woken")
	}
}
