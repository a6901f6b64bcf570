// Package debounce rate-limits a callback with a "fire the first call of a
// burst, coalesce the rest" policy.
//
// The debouncer never starts goroutines or timers. The owner polls it with
// Flush from its own loop, so the callback always runs on the caller's
// goroutine.
package debounce

import "time"

// State is the debouncer's position in its cycle.
type State int

const (
	// Armed: no call inside the current window. The next call fires
	// immediately when the debouncer is immediate.
	Armed State = iota
	// Pending: a call is stored and fires when the window elapses.
	Pending
	// Cooldown: a call just fired; calls inside the window are stored.
	Cooldown
)

func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Pending:
		return "pending"
	case Cooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// Debouncer wraps a callback taking one argument.
type Debouncer[T any] struct {
	delay     time.Duration
	fn        func(T)
	now       func() time.Time
	immediate bool

	state    State
	deadline time.Time
	pending  T
	stopped  bool
}

// Option configures a Debouncer.
type Option func(*config)

type config struct {
	now       func() time.Time
	immediate bool
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithImmediate controls whether the first call of a burst fires
// synchronously. It defaults to true.
func WithImmediate(immediate bool) Option {
	return func(c *config) {
		c.immediate = immediate
	}
}

// New returns a debouncer for fn. A delay <= 0 disables debouncing: every
// call fires immediately.
func New[T any](delay time.Duration, fn func(T), opts ...Option) *Debouncer[T] {
	cfg := config{now: time.Now, immediate: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Debouncer[T]{
		delay:     delay,
		fn:        fn,
		now:       cfg.now,
		immediate: cfg.immediate,
	}
}

// State returns the current state after applying any elapsed window.
func (d *Debouncer[T]) State() State {
	if d == nil {
		return Armed
	}
	if d.state == Cooldown && !d.now().Before(d.deadline) {
		d.state = Armed
	}
	return d.state
}

// Call records a call. It either fires fn now or stores v as the trailing
// call of the current burst, replacing any earlier stored value.
func (d *Debouncer[T]) Call(v T) {
	if d == nil || d.stopped || d.fn == nil {
		return
	}
	if d.delay <= 0 {
		d.fn(v)
		return
	}
	now := d.now()
	switch d.State() {
	case Armed:
		if d.immediate {
			d.state = Cooldown
			d.deadline = now.Add(d.delay)
			d.fn(v)
			return
		}
		d.store(v, now)
	case Pending, Cooldown:
		d.store(v, now)
	}
}

func (d *Debouncer[T]) store(v T, now time.Time) {
	d.pending = v
	d.state = Pending
	d.deadline = now.Add(d.delay)
}

// Flush fires the stored call if its window has elapsed. It reports whether
// fn ran.
func (d *Debouncer[T]) Flush() bool {
	if d == nil || d.stopped || d.state != Pending {
		return false
	}
	now := d.now()
	if now.Before(d.deadline) {
		return false
	}
	v := d.pending
	var zero T
	d.pending = zero
	d.state = Cooldown
	d.deadline = now.Add(d.delay)
	d.fn(v)
	return true
}

// Stop drops any stored call and ignores later calls.
func (d *Debouncer[T]) Stop() {
	if d == nil {
		return
	}
	var zero T
	d.pending = zero
	d.state = Armed
	d.stopped = true
}
