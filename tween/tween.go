// Package tween schedules time-driven property interpolations against
// arbitrary targets and cancels them by target.
package tween

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween interpolates one value and hands it to Apply every update.
type Tween struct {
	target any
	tw     *gween.Tween
	apply  func(v float32)
	done   func()
	killed bool
}

// Killed reports whether the tween was cancelled before finishing.
func (t *Tween) Killed() bool { return t != nil && t.killed }

// Manager owns a set of running tweens. The zero value is ready to use and a
// nil *Manager ignores every call.
type Manager struct {
	tweens []*Tween
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// To starts a tween from begin to end over duration seconds. target is the
// object the tween is registered against; KillTweensOf matches it by
// equality, so pointers are the usual choice.
func (m *Manager) To(target any, begin, end, duration float32, easing ease.TweenFunc, apply func(v float32)) *Tween {
	if m == nil || target == nil || apply == nil {
		return nil
	}
	if easing == nil {
		easing = ease.Linear
	}
	t := &Tween{target: target, tw: gween.New(begin, end, duration, easing), apply: apply}
	m.tweens = append(m.tweens, t)
	return t
}

// OnComplete registers fn to run once the tween finishes.
func (t *Tween) OnComplete(fn func()) *Tween {
	if t != nil {
		t.done = fn
	}
	return t
}

// Update advances every tween by dt seconds and drops finished ones.
func (m *Manager) Update(dt float32) {
	if m == nil || len(m.tweens) == 0 {
		return
	}
	running := append([]*Tween(nil), m.tweens...)
	for _, t := range running {
		if t.killed {
			continue
		}
		v, finished := t.tw.Update(dt)
		t.apply(v)
		if finished {
			m.remove(t)
			if t.done != nil {
				t.done()
			}
		}
	}
}

// KillTweensOf cancels every tween registered against target and returns
// how many were cancelled. Cancelling a target with no tweens is a no-op.
func (m *Manager) KillTweensOf(target any) int {
	if m == nil || target == nil {
		return 0
	}
	killed := 0
	kept := m.tweens[:0]
	for _, t := range m.tweens {
		if t.target == target {
			t.killed = true
			killed++
			continue
		}
		kept = append(kept, t)
	}
	for i := len(kept); i < len(m.tweens); i++ {
		m.tweens[i] = nil
	}
	m.tweens = kept
	return killed
}

// IsTweening reports whether target has a running tween.
func (m *Manager) IsTweening(target any) bool {
	if m == nil || target == nil {
		return false
	}
	for _, t := range m.tweens {
		if t.target == target {
			return true
		}
	}
	return false
}

// Len returns the number of running tweens.
func (m *Manager) Len() int {
	if m == nil {
		return 0
	}
	return len(m.tweens)
}

func (m *Manager) remove(t *Tween) {
	for i, cur := range m.tweens {
		if cur == t {
			m.tweens = append(m.tweens[:i], m.tweens[i+1:]...)
			return
		}
	}
}
