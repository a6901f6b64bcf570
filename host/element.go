// Package host provides the page the animation lives in: attachment
// elements with a size, resize observers, a shared frame ticker and the
// Ebitengine window that drives them.
package host

import "github.com/hajimehoshi/ebiten/v2"

// View is something drawn inside an element, such as a rendering surface.
type View interface {
	DrawView(dst *ebiten.Image)
}

// Rect is a content rectangle in logical pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// Element is an attachment point with a size. Views appended to it are
// drawn in insertion order.
type Element struct {
	name   string
	window *Window
	width  float64
	height float64
	views  []View

	observers []*ResizeObserver
}

// NewElement creates a detached element. It has no window until
// Window.Mount, which makes it unusable as an animation parent before then.
// Unlike the root, a mounted element is sized by its owner with SetSize.
func NewElement(name string) *Element {
	return &Element{name: name}
}

// Name returns the element's name.
func (e *Element) Name() string { return e.name }

// Window returns the window the element is mounted in, or nil.
func (e *Element) Window() *Window {
	if e == nil {
		return nil
	}
	return e.window
}

// Size returns the element's content size.
func (e *Element) Size() (float64, float64) {
	return e.width, e.height
}

// SetSize changes the content size. Observers are told on the next
// DispatchResize.
func (e *Element) SetSize(width, height float64) {
	if e == nil || (e.width == width && e.height == height) {
		return
	}
	e.width = width
	e.height = height
	for _, o := range e.observers {
		o.queue(e)
	}
}

// AppendView attaches v. Attaching the same view twice is a no-op.
func (e *Element) AppendView(v View) {
	if e == nil || v == nil {
		return
	}
	for _, cur := range e.views {
		if cur == v {
			return
		}
	}
	e.views = append(e.views, v)
}

// RemoveView detaches v and reports whether it was attached.
func (e *Element) RemoveView(v View) bool {
	if e == nil {
		return false
	}
	for i, cur := range e.views {
		if cur == v {
			e.views = append(e.views[:i], e.views[i+1:]...)
			return true
		}
	}
	return false
}

// Views returns the attached views in draw order.
func (e *Element) Views() []View {
	if e == nil {
		return nil
	}
	return e.views
}

// DispatchResize delivers queued size notifications to every observer of
// the element.
func (e *Element) DispatchResize() {
	if e == nil {
		return
	}
	observers := append([]*ResizeObserver(nil), e.observers...)
	for _, o := range observers {
		o.deliver()
	}
}

// Draw draws every attached view.
func (e *Element) Draw(dst *ebiten.Image) {
	for _, v := range e.views {
		v.DrawView(dst)
	}
}

func (e *Element) addObserver(o *ResizeObserver) {
	for _, cur := range e.observers {
		if cur == o {
			return
		}
	}
	e.observers = append(e.observers, o)
}

func (e *Element) removeObserver(o *ResizeObserver) {
	for i, cur := range e.observers {
		if cur == o {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}
