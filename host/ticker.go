package host

import "time"

const (
	targetFPMS = 60.0 / 1000.0
	// maxElapsedMS caps a frame's delta at 10 FPS so a stalled loop does not
	// produce a huge jump.
	maxElapsedMS = 100.0
)

// TickerID identifies a registered tick callback.
type TickerID int

type tickerEntry struct {
	id TickerID
	fn func(*Ticker)
}

// Ticker calls its listeners once per frame and exposes the frame timing.
type Ticker struct {
	listeners []tickerEntry
	nextID    TickerID

	last      time.Time
	elapsedMS float64
	deltaMS   float64
	deltaTime float64
	frames    int
}

var shared = NewTicker()

// Shared returns the process-wide ticker driven by the window.
func Shared() *Ticker { return shared }

// NewTicker returns a ticker whose first frame reports one nominal 60 FPS
// frame.
func NewTicker() *Ticker {
	return &Ticker{
		elapsedMS: 1 / targetFPMS,
		deltaMS:   1 / targetFPMS,
		deltaTime: 1,
	}
}

// Add registers fn and returns an id for Remove.
func (t *Ticker) Add(fn func(*Ticker)) TickerID {
	t.nextID++
	t.listeners = append(t.listeners, tickerEntry{id: t.nextID, fn: fn})
	return t.nextID
}

// Remove unregisters a callback. Unknown ids are ignored.
func (t *Ticker) Remove(id TickerID) bool {
	for i, l := range t.listeners {
		if l.id == id {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered callbacks.
func (t *Ticker) Len() int { return len(t.listeners) }

// Tick advances the timing to now and calls every listener.
func (t *Ticker) Tick(now time.Time) {
	if !t.last.IsZero() {
		elapsed := float64(now.Sub(t.last)) / float64(time.Millisecond)
		if elapsed < 0 {
			elapsed = 0
		}
		t.elapsedMS = elapsed
		t.deltaMS = min(elapsed, maxElapsedMS)
		t.deltaTime = t.deltaMS * targetFPMS
	}
	t.last = now
	t.frames++

	listeners := append([]tickerEntry(nil), t.listeners...)
	for _, l := range listeners {
		l.fn(t)
	}
}

// ElapsedMS is the uncapped time since the previous tick in milliseconds.
func (t *Ticker) ElapsedMS() float64 { return t.elapsedMS }

// DeltaMS is the capped time since the previous tick in milliseconds.
func (t *Ticker) DeltaMS() float64 { return t.deltaMS }

// DeltaTime is DeltaMS in units of nominal 60 FPS frames.
func (t *Ticker) DeltaTime() float64 { return t.deltaTime }

// FPS is the frame rate implied by the last delta.
func (t *Ticker) FPS() float64 {
	if t.deltaMS <= 0 {
		return 0
	}
	return 1000 / t.deltaMS
}

// Frames is the number of ticks so far.
func (t *Ticker) Frames() int { return t.frames }
