// Package timectrl drives the animation time the renderer itself never
// owns: connection draw-in progress and frame ticks. The geometric pass
// receives plain scalar progress values; everything time-related lives
// here, on the host side.
package timectrl

import (
	"sync"
	"time"
)

// Clock is an interface for reading animation time, so hosts and tests
// can substitute a controllable source.
type Clock interface {
	// Now returns the current animation time.
	Now() time.Time
}

// Mode describes how the AnimationClock advances.
type Mode int

const (
	// RealTime advances with wall-clock time.
	RealTime Mode = iota
	// Accelerated advances as quickly as the loop can run while still
	// stepping by Tick, for deterministic capture runs.
	Accelerated
)

// AnimationClock ticks at a fixed interval and notifies listeners with
// the current animation time. It implements Clock.
type AnimationClock struct {
	mu        sync.RWMutex
	StartTime time.Time
	Tick      time.Duration
	Mode      Mode

	currentTime time.Time

	listeners []func(time.Time)
}

// NewAnimationClock constructs a clock.
func NewAnimationClock(start time.Time, tick time.Duration, mode Mode) *AnimationClock {
	return &AnimationClock{
		StartTime:   start,
		Tick:        tick,
		Mode:        mode,
		currentTime: start,
	}
}

// Now returns the current animation time. Implements Clock.
func (c *AnimationClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentTime
}

// SetTime jumps the clock, e.g. when a host scrubs an animation.
func (c *AnimationClock) SetTime(t time.Time) {
	c.mu.Lock()
	c.currentTime = t
	c.mu.Unlock()
}

// AddListener registers a callback invoked on every tick.
func (c *AnimationClock) AddListener(fn func(time.Time)) {
	c.listeners = append(c.listeners, fn)
}

// Start runs the clock for the specified duration in a separate
// goroutine (0 runs until the process exits). It returns a channel that
// is closed when the clock finishes.
func (c *AnimationClock) Start(duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		c.mu.Lock()
		now := c.StartTime
		c.currentTime = now
		c.mu.Unlock()

		elapsed := time.Duration(0)

		// A real ticker in both modes keeps accelerated runs from
		// spinning a core; acceleration comes from a short Tick.
		interval := c.Tick
		if c.Mode == Accelerated {
			interval = time.Millisecond
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if duration > 0 && elapsed >= duration {
				return
			}

			<-ticker.C
			now = now.Add(c.Tick)
			elapsed += c.Tick

			c.mu.Lock()
			c.currentTime = now
			c.mu.Unlock()

			for _, fn := range c.listeners {
				fn(now)
			}
		}
	}()
	return done
}

// ProgressRamp maps elapsed animation time onto a draw-in progress in
// [0, 1] for a connection arc.
type ProgressRamp struct {
	Start    time.Time
	Duration time.Duration
	// Loop restarts the ramp from zero each time it completes.
	Loop bool
}

// At returns the progress at the given animation time. A non-positive
// duration is already complete.
func (r ProgressRamp) At(now time.Time) float64 {
	if r.Duration <= 0 {
		return 1
	}
	elapsed := now.Sub(r.Start)
	if elapsed <= 0 {
		return 0
	}
	if r.Loop {
		elapsed %= r.Duration
		return float64(elapsed) / float64(r.Duration)
	}
	if elapsed >= r.Duration {
		return 1
	}
	return float64(elapsed) / float64(r.Duration)
}
