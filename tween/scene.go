package tween

import (
	"github.com/milk9111/scrollanim/scene"
	"github.com/tanema/gween/ease"
)

// Alpha fades n to alpha. The tween targets the node itself.
func Alpha(m *Manager, n scene.Node, alpha, duration float32, easing ease.TweenFunc) *Tween {
	if n == nil {
		return nil
	}
	obj := n.Obj()
	return m.To(n, float32(obj.Alpha), alpha, duration, easing, func(v float32) {
		obj.Alpha = float64(v)
	})
}

// Position moves n to (x, y). The tweens target the node's Position.
func Position(m *Manager, n scene.Node, x, y, duration float32, easing ease.TweenFunc) []*Tween {
	if n == nil {
		return nil
	}
	return point(m, &n.Obj().Position, x, y, duration, easing)
}

// Scale scales n to (x, y). The tweens target the node's Scale.
func Scale(m *Manager, n scene.Node, x, y, duration float32, easing ease.TweenFunc) []*Tween {
	if n == nil {
		return nil
	}
	return point(m, &n.Obj().Scale, x, y, duration, easing)
}

// Skew skews n to (x, y). The tweens target the node's Skew.
func Skew(m *Manager, n scene.Node, x, y, duration float32, easing ease.TweenFunc) []*Tween {
	if n == nil {
		return nil
	}
	return point(m, &n.Obj().Skew, x, y, duration, easing)
}

func point(m *Manager, p *scene.Point, x, y, duration float32, easing ease.TweenFunc) []*Tween {
	tx := m.To(p, float32(p.X), x, duration, easing, func(v float32) { p.X = float64(v) })
	ty := m.To(p, float32(p.Y), y, duration, easing, func(v float32) { p.Y = float64(v) })
	if tx == nil || ty == nil {
		return nil
	}
	return []*Tween{tx, ty}
}
