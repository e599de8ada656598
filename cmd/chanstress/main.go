// Command chanstress hammers a chanx channel with concurrent senders and
// receivers and verifies that every message is delivered exactly once.
//
// Usage:
//
//	chanstress -cap 7 -senders 80 -receivers 80 -msgs 10000 -repeat 1000
//	chanstress -cap 0 -senders 20 -receivers 20 -try 30
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gosuri/uilive"
)

func main() {
	var cfg config
	var tryPct uint
	flag.IntVar(&cfg.capacity, "cap", 7, "channel capacity (0 = unbuffered)")
	flag.IntVar(&cfg.senders, "senders", 80, "number of sending goroutines")
	flag.IntVar(&cfg.receivers, "receivers", 80, "number of receiving goroutines")
	flag.IntVar(&cfg.msgs, "msgs", 10000, "messages per repetition")
	flag.IntVar(&cfg.repeat, "repeat", 1000, "number of repetitions, each on a fresh channel")
	flag.UintVar(&tryPct, "try", 0, "percentage of operations issued through TrySend/TryRecv")
	quiet := flag.Bool("quiet", false, "disable the live progress display")
	flag.Parse()
	cfg.tryPct = uint32(min(tryPct, 101))

	if err := cfg.validate(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *quiet); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Println("interrupted")
			os.Exit(130)
		}
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config, quiet bool) error {
	var st stats
	start := time.Now()

	if !quiet {
		writer := uilive.New()
		progress := writer.Newline()
		traffic := writer.Newline()
		writer.Start()
		defer writer.Stop()

		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		done := make(chan struct{})
		defer close(done)
		go func() {
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					fmt.Fprintf(progress, "Repetition: %d/%d (cap=%d senders=%d receivers=%d msgs=%d)\n",
						st.rep.Load(), cfg.repeat, cfg.capacity, cfg.senders, cfg.receivers, cfg.msgs)
					fmt.Fprintf(traffic, "Sent: %d  Received: %d  Would-block retries: %d\n",
						st.sent.Load(), st.received.Load(), st.retries.Load())
				}
			}
		}()
	}

	for rep := 1; rep <= cfg.repeat; rep++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		st.rep.Store(int64(rep))
		if err := runOnce(ctx, cfg, &st); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("repetition %d: %w", rep, err)
		}
	}

	log.Printf("ok: %d repetitions, %d messages in %s",
		cfg.repeat, st.received.Load(), time.Since(start).Round(time.Millisecond))
	return nil
}
