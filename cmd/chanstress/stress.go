package main

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/valyala/fastrand"
	"golang.org/x/sync/errgroup"

	"github.com/llxisdsh/chanx"
)

type config struct {
	capacity  int
	senders   int
	receivers int
	msgs      int
	repeat    int
	tryPct    uint32
}

func (c config) validate() error {
	switch {
	case c.capacity < 0:
		return fmt.Errorf("capacity %d: %w", c.capacity, chanx.ErrInvalid)
	case c.senders < 1 || c.receivers < 1:
		return fmt.Errorf("need at least one sender and one receiver: %w", chanx.ErrInvalid)
	case c.msgs < 1:
		return fmt.Errorf("msgs %d: %w", c.msgs, chanx.ErrInvalid)
	case c.tryPct > 100:
		return fmt.Errorf("try percentage %d: %w", c.tryPct, chanx.ErrInvalid)
	}
	return nil
}

// stats is updated by the workers and read by the progress display.
type stats struct {
	rep      atomic.Int64
	sent     atomic.Int64
	received atomic.Int64
	retries  atomic.Int64
}

// partition splits [0, total) contiguously into n batches and returns the
// i-th one. The first total%n batches get one extra value.
func partition(total, n, i int) (lo, hi int) {
	each, left := total/n, total%n
	lo = i*each + min(i, left)
	hi = lo + each
	if i < left {
		hi++
	}
	return lo, hi
}

// runOnce performs one repetition on a fresh channel and verifies that every
// message was received exactly once.
func runOnce(ctx context.Context, cfg config, st *stats) error {
	ch, err := chanx.Make[int](cfg.capacity)
	if err != nil {
		return err
	}
	defer ch.Close()

	counts := make([]atomic.Uint32, cfg.msgs)
	g, ctx := errgroup.WithContext(ctx)

	// A failed worker closes the channel so that its peers do not wait for
	// messages that will never come.
	stop := context.AfterFunc(ctx, ch.Close)
	defer stop()

	for i := range cfg.receivers {
		lo, hi := partition(cfg.msgs, cfg.receivers, i)
		g.Go(func() error {
			for range hi - lo {
				v, err := recvMixed(ch, cfg.tryPct, st)
				if err != nil {
					return fmt.Errorf("receiver %d: %w", i, err)
				}
				if v < 0 || v >= cfg.msgs {
					return fmt.Errorf("receiver %d: value %d out of range", i, v)
				}
				counts[v].Add(1)
				st.received.Add(1)
			}
			return nil
		})
	}
	for i := range cfg.senders {
		lo, hi := partition(cfg.msgs, cfg.senders, i)
		g.Go(func() error {
			for v := lo; v < hi; v++ {
				if err := sendMixed(ch, v, cfg.tryPct, st); err != nil {
					return fmt.Errorf("sender %d: %w", i, err)
				}
				st.sent.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for v := range counts {
		if n := counts[v].Load(); n != 1 {
			return fmt.Errorf("message %d received %d times", v, n)
		}
	}
	return nil
}

// maxTries bounds a non-blocking retry loop before it falls back to the
// blocking call. On an unbuffered channel two non-blocking parties never pair
// up, so an unbounded loop could livelock the last sender and receiver.
const maxTries = 64

// sendMixed issues the send through TrySend in a retry loop tryPct percent of
// the time, and through the blocking Send otherwise.
func sendMixed(ch chanx.Channel[int], v int, tryPct uint32, st *stats) error {
	if tryPct > 0 && fastrand.Uint32n(100) < tryPct {
		for range maxTries {
			err := ch.TrySend(v)
			if !chanx.IsWouldBlock(err) {
				return err
			}
			st.retries.Add(1)
			runtime.Gosched()
		}
	}
	return ch.Send(v)
}

// recvMixed is the receiving counterpart of sendMixed.
func recvMixed(ch chanx.Channel[int], tryPct uint32, st *stats) (int, error) {
	if tryPct > 0 && fastrand.Uint32n(100) < tryPct {
		for range maxTries {
			v, err := ch.TryRecv()
			if !chanx.IsWouldBlock(err) {
				return v, err
			}
			st.retries.Add(1)
			runtime.Gosched()
		}
	}
	return ch.Recv()
}
