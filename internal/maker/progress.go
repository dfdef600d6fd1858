package maker

import (
	"context"
	"time"
)

const (
	progressCap   = 85.0
	progressStep  = 8.0
	progressFinal = 100.0
)

// nextProgress advances simulated progress without ever passing the cap.
// Values already at or above the cap are left alone.
func nextProgress(prev, r float64) float64 {
	if prev >= progressCap {
		return prev
	}
	next := prev + r*progressStep
	if next > progressCap {
		return progressCap
	}
	return next
}

// pacer drives cosmetic progress while a request is in flight. It stops
// when its context is cancelled.
type pacer struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func startPacer(interval time.Duration, tick func()) *pacer {
	ctx, cancel := context.WithCancel(context.Background())
	p := &pacer{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				tick()
			}
		}
	}()

	return p
}

// Stop cancels the pacer without waiting for the goroutine, so it is safe to
// call while holding the session lock.
func (p *pacer) Stop() {
	if p != nil {
		p.cancel()
	}
}
