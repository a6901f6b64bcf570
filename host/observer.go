package host

// ResizeEntry describes one observed element's new content size.
type ResizeEntry struct {
	Target      *Element
	ContentRect Rect
}

// ResizeObserver reports content size changes of the elements it observes.
// Notifications are delivered from DispatchResize, never from SetSize, so
// callbacks run on the loop that owns the element.
type ResizeObserver struct {
	callback func([]ResizeEntry)
	targets  []*Element
	queued   []*Element
}

// NewResizeObserver returns an observer calling cb with batched entries.
func NewResizeObserver(cb func([]ResizeEntry)) *ResizeObserver {
	return &ResizeObserver{callback: cb}
}

// Observe starts watching el. An initial notification with the current
// size is queued.
func (o *ResizeObserver) Observe(el *Element) {
	if o == nil || el == nil {
		return
	}
	for _, t := range o.targets {
		if t == el {
			return
		}
	}
	o.targets = append(o.targets, el)
	el.addObserver(o)
	o.queue(el)
}

// Unobserve stops watching el.
func (o *ResizeObserver) Unobserve(el *Element) {
	if o == nil || el == nil {
		return
	}
	for i, t := range o.targets {
		if t == el {
			o.targets = append(o.targets[:i], o.targets[i+1:]...)
			break
		}
	}
	for i, q := range o.queued {
		if q == el {
			o.queued = append(o.queued[:i], o.queued[i+1:]...)
			break
		}
	}
	el.removeObserver(o)
}

// Disconnect stops watching every element and drops queued entries.
func (o *ResizeObserver) Disconnect() {
	if o == nil {
		return
	}
	for _, t := range o.targets {
		t.removeObserver(o)
	}
	o.targets = nil
	o.queued = nil
}

// Observing reports how many elements are watched.
func (o *ResizeObserver) Observing() int {
	if o == nil {
		return 0
	}
	return len(o.targets)
}

func (o *ResizeObserver) queue(el *Element) {
	for _, q := range o.queued {
		if q == el {
			return
		}
	}
	o.queued = append(o.queued, el)
}

func (o *ResizeObserver) deliver() {
	if len(o.queued) == 0 || o.callback == nil {
		return
	}
	entries := make([]ResizeEntry, 0, len(o.queued))
	for _, el := range o.queued {
		w, h := el.Size()
		entries = append(entries, ResizeEntry{Target: el, ContentRect: Rect{Width: w, Height: h}})
	}
	o.queued = nil
	o.callback(entries)
}
