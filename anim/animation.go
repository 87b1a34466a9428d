package anim

import "time"

// DefaultFrameInterval is the step between two animation frames.
const DefaultFrameInterval = 16 * time.Millisecond

// Animation tweens a float64 value over time on a Loop.
//
// An Animation runs at most one transition at a time. Starting a new
// transition while one is in flight completes the previous one first: its
// final value is written and its done callback runs before the new
// transition begins.
type Animation struct {
	loop          *Loop
	duration      time.Duration
	easing        Easing
	frameInterval time.Duration

	from, to float64
	start    time.Time
	step     func(float64)
	done     func()
	timer    *Timer
	running  bool
	gen      uint64
}

// New returns an animation with the given duration and easing curve.
func New(loop *Loop, duration time.Duration, easing Easing) *Animation {
	if easing == nil {
		easing = Linear
	}
	return &Animation{
		loop:          loop,
		duration:      duration,
		easing:        easing,
		frameInterval: DefaultFrameInterval,
	}
}

// SetFrameInterval sets the time between two frames.
func (a *Animation) SetFrameInterval(interval time.Duration) *Animation {
	if interval > 0 {
		a.frameInterval = interval
	}
	return a
}

// Duration returns the transition length.
func (a *Animation) Duration() time.Duration {
	return a.duration
}

// Running returns whether a transition is in flight.
func (a *Animation) Running() bool {
	return a.running
}

// To returns the target of the current (or last) transition.
func (a *Animation) To() float64 {
	return a.to
}

// Run starts a transition from "from" to "to". The step function receives
// every intermediate value including the final one; done is called once the
// final value has been written. Both may be nil.
func (a *Animation) Run(from, to float64, step func(float64), done func()) {
	a.Complete()

	a.gen++
	a.from, a.to = from, to
	a.step, a.done = step, done
	a.start = a.loop.Now()
	a.running = true

	if a.duration <= 0 || from == to {
		a.finish()
		return
	}
	a.timer = a.loop.AfterFunc(a.frameInterval, a.frame)
}

// Complete jumps a running transition to its end.
func (a *Animation) Complete() {
	if !a.running {
		return
	}
	a.finish()
}

// Stop halts a running transition where it is, without calling done.
func (a *Animation) Stop() {
	if !a.running {
		return
	}
	a.timer.Stop()
	a.timer = nil
	a.running = false
	a.step, a.done = nil, nil
}

func (a *Animation) frame() {
	a.timer = nil
	elapsed := a.loop.Now().Sub(a.start)
	if elapsed >= a.duration {
		a.finish()
		return
	}
	progress := a.easing(float64(elapsed) / float64(a.duration))
	gen := a.gen
	if a.step != nil {
		a.step(a.from + (a.to-a.from)*progress)
	}
	// The step callback may have restarted or stopped us.
	if a.running && a.gen == gen {
		a.timer = a.loop.AfterFunc(a.frameInterval, a.frame)
	}
}

func (a *Animation) finish() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	step, done := a.step, a.done
	a.step, a.done = nil, nil
	a.running = false
	if step != nil {
		step(a.to)
	}
	if done != nil {
		done()
	}
}
