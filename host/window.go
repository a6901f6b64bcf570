package host

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Flusher is polled once per frame. Debouncers use it to fire trailing
// calls on the loop goroutine.
type Flusher interface {
	Flush() bool
}

// Window drives a root element and a ticker from the Ebitengine loop. It
// implements the Update/Draw/LayoutF half of ebiten.Game; the owning game
// forwards to it.
type Window struct {
	root   *Element
	ticker *Ticker
	now    func() time.Time
	scale  func() float64

	mounted    []*Element
	flushers   []Flusher
	resolution float64
	outsideW   float64
	outsideH   float64
}

// Option configures a Window.
type Option func(*Window)

// WithTicker replaces the shared ticker.
func WithTicker(t *Ticker) Option {
	return func(w *Window) {
		if t != nil {
			w.ticker = t
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Window) {
		if now != nil {
			w.now = now
		}
	}
}

// WithDeviceScaleFactor replaces the monitor's device scale factor.
func WithDeviceScaleFactor(f func() float64) Option {
	return func(w *Window) {
		if f != nil {
			w.scale = f
		}
	}
}

// NewWindow returns a window with a root element named "root".
func NewWindow(opts ...Option) *Window {
	w := &Window{
		ticker:     Shared(),
		now:        time.Now,
		scale:      monitorScale,
		resolution: 1,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.root = &Element{name: "root", window: w}
	return w
}

func monitorScale() float64 {
	if m := ebiten.Monitor(); m != nil {
		return m.DeviceScaleFactor()
	}
	return 1
}

// Root returns the element sized to the window.
func (w *Window) Root() *Element { return w.root }

// Ticker returns the window's frame ticker.
func (w *Window) Ticker() *Ticker { return w.ticker }

// Now returns the window clock's current time.
func (w *Window) Now() time.Time { return w.now() }

// DeviceScaleFactor returns the physical pixels per logical pixel.
func (w *Window) DeviceScaleFactor() float64 {
	s := w.scale()
	if s <= 0 {
		return 1
	}
	return s
}

// SetResolution sets how many screen pixels back one logical pixel.
func (w *Window) SetResolution(r float64) {
	if r <= 0 {
		r = 1
	}
	w.resolution = r
}

// Resolution returns the current resolution.
func (w *Window) Resolution() float64 { return w.resolution }

// Mount attaches el to the window next to the root. Its resize
// notifications are dispatched and its views drawn with the root's, in
// mount order. Mounting moves el from any other window.
func (w *Window) Mount(el *Element) {
	if el == nil || el == w.root || el.window == w {
		return
	}
	if el.window != nil {
		el.window.Unmount(el)
	}
	el.window = w
	w.mounted = append(w.mounted, el)
}

// Unmount detaches el and reports whether it was mounted here.
func (w *Window) Unmount(el *Element) bool {
	for i, cur := range w.mounted {
		if cur == el {
			w.mounted = append(w.mounted[:i], w.mounted[i+1:]...)
			el.window = nil
			return true
		}
	}
	return false
}

// AddFlusher registers f to be polled every frame.
func (w *Window) AddFlusher(f Flusher) {
	if f == nil {
		return
	}
	w.flushers = append(w.flushers, f)
}

// RemoveFlusher unregisters f.
func (w *Window) RemoveFlusher(f Flusher) {
	for i, cur := range w.flushers {
		if cur == f {
			w.flushers = append(w.flushers[:i], w.flushers[i+1:]...)
			return
		}
	}
}

// Update resizes the root element to the last layout size, delivers resize
// notifications for the root and mounted elements, polls flushers and
// ticks.
func (w *Window) Update() error {
	w.root.SetSize(w.outsideW, w.outsideH)
	w.root.DispatchResize()
	for _, el := range append([]*Element(nil), w.mounted...) {
		el.DispatchResize()
	}
	for _, f := range append([]Flusher(nil), w.flushers...) {
		f.Flush()
	}
	w.ticker.Tick(w.now())
	return nil
}

// Draw draws the root element's views, then each mounted element's.
func (w *Window) Draw(screen *ebiten.Image) {
	w.root.Draw(screen)
	for _, el := range w.mounted {
		el.Draw(screen)
	}
}

// LayoutF records the outside size in logical pixels and returns the
// screen size in resolution-scaled pixels.
func (w *Window) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	w.outsideW = outsideWidth
	w.outsideH = outsideHeight
	return outsideWidth * w.resolution, outsideHeight * w.resolution
}
