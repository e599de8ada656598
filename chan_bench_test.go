package chanx

import (
	"sync"
	"testing"
)

func BenchmarkChanSPSC(b *testing.B) {
	b.ReportAllocs()
	ch, _ := NewChan[int](64)
	done := make(chan struct{})
	go func() {
		for range b.N {
			if _, err := ch.Recv(); err != nil {
				break
			}
		}
		close(done)
	}()
	b.ResetTimer()
	for i := range b.N {
		_ = ch.Send(i)
	}
	<-done
}

func BenchmarkNativeChanSPSC(b *testing.B) {
	b.ReportAllocs()
	ch := make(chan int, 64)
	done := make(chan struct{})
	go func() {
		for range b.N {
			<-ch
		}
		close(done)
	}()
	b.ResetTimer()
	for i := range b.N {
		ch <- i
	}
	<-done
}

func BenchmarkChanParallel(b *testing.B) {
	b.ReportAllocs()
	ch, _ := NewChan[int](1024)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = ch.Send(1)
			_, _ = ch.Recv()
		}
	})
}

func BenchmarkNativeChanParallel(b *testing.B) {
	b.ReportAllocs()
	ch := make(chan int, 1024)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			ch <- 1
			<-ch
		}
	})
}

func BenchmarkUnbufChanPingPong(b *testing.B) {
	b.ReportAllocs()
	c := NewUnbufChan[int]()
	done := make(chan struct{})
	go func() {
		for range b.N {
			if _, err := c.Recv(); err != nil {
				break
			}
		}
		close(done)
	}()
	b.ResetTimer()
	for i := range b.N {
		_ = c.Send(i)
	}
	<-done
}

func BenchmarkNativeUnbufPingPong(b *testing.B) {
	b.ReportAllocs()
	ch := make(chan int)
	done := make(chan struct{})
	go func() {
		for range b.N {
			<-ch
		}
		close(done)
	}()
	b.ResetTimer()
	for i := range b.N {
		ch <- i
	}
	<-done
}

func BenchmarkMutex(b *testing.B) {
	var m Mutex
	counter := 0
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m.Lock()
			counter++
			m.Unlock()
		}
	})
	_ = counter
}

func BenchmarkSyncMutex(b *testing.B) {
	var m sync.Mutex
	counter := 0
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m.Lock()
			counter++
			m.Unlock()
		}
	})
	_ = counter
}

func BenchmarkTicketMutex(b *testing.B) {
	var m TicketMutex
	counter := 0
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m.Lock()
			counter++
			m.Unlock()
		}
	})
	_ = counter
}
