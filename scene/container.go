package scene

import "github.com/hajimehoshi/ebiten/v2"

// Container groups child nodes. It draws nothing itself.
type Container struct {
	Object
	children []Node
}

// NewContainer creates an empty container.
func NewContainer(name string) *Container {
	return &Container{Object: NewObject(name)}
}

// Children returns the child list in draw order. The slice must not be
// modified by the caller.
func (c *Container) Children() []Node {
	if c == nil {
		return nil
	}
	return c.children
}

// AddChild appends n to the child list, detaching it from any previous
// parent first.
func (c *Container) AddChild(n Node) {
	if c == nil || n == nil {
		return
	}
	obj := n.Obj()
	if obj.parent != nil {
		obj.parent.removeObject(obj)
	}
	obj.parent = c
	c.children = append(c.children, n)
}

// RemoveChild detaches n. It reports whether n was a child of c.
func (c *Container) RemoveChild(n Node) bool {
	if c == nil || n == nil {
		return false
	}
	return c.removeObject(n.Obj())
}

func (c *Container) removeObject(obj *Object) bool {
	idx := c.indexOf(obj)
	if idx < 0 {
		return false
	}
	c.children = append(c.children[:idx], c.children[idx+1:]...)
	obj.parent = nil
	return true
}

func (c *Container) indexOf(obj *Object) int {
	for i, child := range c.children {
		if child.Obj() == obj {
			return i
		}
	}
	return -1
}

// ChildIndex returns the position of n in the child list, or -1.
func (c *Container) ChildIndex(n Node) int {
	if c == nil || n == nil {
		return -1
	}
	return c.indexOf(n.Obj())
}

// SetChildIndex moves n to idx, clamped to the child list bounds.
func (c *Container) SetChildIndex(n Node, idx int) {
	if c == nil || n == nil {
		return
	}
	cur := c.indexOf(n.Obj())
	if cur < 0 {
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(c.children) {
		idx = len(c.children) - 1
	}
	if cur == idx {
		return
	}
	child := c.children[cur]
	c.children = append(c.children[:cur], c.children[cur+1:]...)
	c.children = append(c.children[:idx], append([]Node{child}, c.children[idx:]...)...)
}

// Destroy detaches the container. Children are destroyed only when
// opts.Children is set; otherwise they are left attached to the released
// container.
func (c *Container) Destroy(opts DestroyOptions) {
	if c == nil || c.destroyed {
		return
	}
	c.Release()
	if !opts.Children {
		return
	}
	children := append([]Node(nil), c.children...)
	for _, child := range children {
		child.Destroy(opts)
	}
	c.children = nil
}

// DrawSelf implements Node. Containers have no content of their own.
func (c *Container) DrawSelf(*ebiten.Image, DrawContext) {}
