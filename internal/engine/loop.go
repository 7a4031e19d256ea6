package engine

import (
	"context"
	"time"

	"github.com/go-kit/log/level"
)

func (e *Engine) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(e.opts.Cadence)
	timer.Stop()

	frames := 0
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		start := time.Now()

		e.mu.Lock()
		if ctx.Err() != nil {
			e.mu.Unlock()
			return
		}
		if err := e.sim.Step(); err != nil {
			e.faultLocked(err, done)
			observers := e.observers
			e.mu.Unlock()

			level.Error(e.logger).Log("msg", "step failed", "err", err)
			for _, o := range observers {
				o.OnFault(err)
			}
			return
		}

		frames++
		var update *Update
		if frames%e.opts.UpdateEvery == 0 {
			now := time.Now()
			fps := float64(e.opts.UpdateEvery) / now.Sub(last).Seconds()
			last = now
			if u, err := e.captureLocked(fps); err == nil {
				update = &u
			}
		}
		observers := e.observers
		e.mu.Unlock()

		if update != nil {
			for _, o := range observers {
				o.OnUpdate(*update)
			}
		}

		wait := e.opts.Cadence - time.Since(start)
		if wait <= 0 {
			continue
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (e *Engine) faultLocked(err error, done chan struct{}) {
	e.err = err
	if e.done != done {
		return
	}
	if e.cancel != nil {
		e.cancel()
	}
	e.running = false
	e.cancel = nil
}
