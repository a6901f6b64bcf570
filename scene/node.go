package scene

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Point is a 2D vector used for positions, scales, skews and pivots.
type Point struct {
	X, Y float64
}

// Set assigns both components.
func (p *Point) Set(x, y float64) {
	p.X = x
	p.Y = y
}

// DestroyOptions controls how far a Destroy call cascades. Textures and
// graphics contexts are shared resources and are only released when the
// corresponding flag is set.
type DestroyOptions struct {
	Children      bool
	Texture       bool
	TextureSource bool
	Context       bool
}

// Node is anything that can live in the scene tree.
type Node interface {
	// Obj returns the node's shared state. The pointer identifies the
	// node inside its parent.
	Obj() *Object
	// Destroy releases the node and removes it from its parent.
	Destroy(opts DestroyOptions)
	// DrawSelf draws the node's own content, not its children.
	DrawSelf(dst *ebiten.Image, ctx DrawContext)
}

// Parent is implemented by nodes that hold children.
type Parent interface {
	Node
	Children() []Node
}

// Object holds the transform and render state common to every node.
type Object struct {
	Name string

	Position Point
	Scale    Point
	Skew     Point
	Pivot    Point
	Rotation float64

	Alpha   float64
	Tint    color.Color
	Visible bool
	// Interactive is carried for parity with pointer-aware hosts; the demo
	// never routes input to scene nodes.
	Interactive bool

	Filters []Filter

	parent    *Container
	destroyed bool
	isMask    bool
}

// NewObject returns the default state for a node: unit scale, opaque,
// untinted and visible. Node types outside this package embed it.
func NewObject(name string) Object {
	return Object{
		Name:    name,
		Scale:   Point{X: 1, Y: 1},
		Alpha:   1,
		Tint:    color.White,
		Visible: true,
	}
}

// Obj implements Node.
func (o *Object) Obj() *Object { return o }

// Parent returns the container holding this node, or nil.
func (o *Object) Parent() *Container {
	if o == nil {
		return nil
	}
	return o.parent
}

// Destroyed reports whether Destroy has been called.
func (o *Object) Destroyed() bool {
	return o != nil && o.destroyed
}

// IsMask reports whether the node is used as another node's mask. Masks are
// not drawn as regular children.
func (o *Object) IsMask() bool {
	return o != nil && o.isMask
}

// LocalGeoM returns the node's transform relative to its parent.
func (o *Object) LocalGeoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(-o.Pivot.X, -o.Pivot.Y)
	g.Scale(o.Scale.X, o.Scale.Y)
	if o.Skew.X != 0 || o.Skew.Y != 0 {
		g.Skew(o.Skew.X, o.Skew.Y)
	}
	if o.Rotation != 0 {
		g.Rotate(o.Rotation)
	}
	g.Translate(o.Position.X, o.Position.Y)
	return g
}

// Release detaches the object from its parent, drops its filters and marks
// it destroyed. Destroy implementations call it first.
func (o *Object) Release() {
	if o.destroyed {
		return
	}
	if o.parent != nil {
		o.parent.removeObject(o)
	}
	o.Filters = nil
	o.destroyed = true
}

// WorldGeoM returns the node's transform relative to the tree root.
func WorldGeoM(n Node) ebiten.GeoM {
	if n == nil {
		return ebiten.GeoM{}
	}
	obj := n.Obj()
	g := obj.LocalGeoM()
	for p := obj.parent; p != nil; p = p.parent {
		g.Concat(p.LocalGeoM())
	}
	return g
}

// BringToFront moves n to the end of its parent's child order so it draws
// above every sibling. It does nothing for detached nodes.
func BringToFront(n Node) {
	if n == nil {
		return
	}
	p := n.Obj().parent
	if p == nil {
		return
	}
	p.SetChildIndex(n, len(p.children)-1)
}
