package scene

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"
)

// DrawContext carries the accumulated parent state down the tree.
type DrawContext struct {
	// GeoM maps the node's local space to the destination image.
	GeoM ebiten.GeoM
	// Root is the transform applied to the whole tree, such as the
	// surface resolution.
	Root   ebiten.GeoM
	ColorM colorm.ColorM
	Alpha  float64
	Filter ebiten.Filter
}

// ColorMFor returns the colour matrix for a node drawn with tint under the
// context's alpha and filters.
func (ctx DrawContext) ColorMFor(tint color.Color) colorm.ColorM {
	var cm colorm.ColorM
	if tint != nil {
		r, g, b, _ := tint.RGBA()
		cm.Scale(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff, 1)
	}
	cm.Scale(1, 1, 1, ctx.Alpha)
	cm.Concat(ctx.ColorM)
	return cm
}

// Draw renders root and its visible descendants onto dst. The root
// transform is applied on top of every node's world transform.
func Draw(dst *ebiten.Image, root Node, rootGeoM ebiten.GeoM, filter ebiten.Filter) {
	if dst == nil || root == nil {
		return
	}
	drawNode(dst, root, DrawContext{
		GeoM:   rootGeoM,
		Root:   rootGeoM,
		Alpha:  1,
		Filter: filter,
	})
}

func drawNode(dst *ebiten.Image, n Node, parent DrawContext) {
	obj := n.Obj()
	if obj.destroyed || !obj.Visible || obj.isMask || obj.Alpha <= 0 {
		return
	}
	ctx := parent
	ctx.GeoM = obj.LocalGeoM()
	ctx.GeoM.Concat(parent.GeoM)
	ctx.Alpha = parent.Alpha * obj.Alpha
	if len(obj.Filters) > 0 {
		var cm colorm.ColorM
		for _, f := range obj.Filters {
			if f == nil {
				continue
			}
			cm.Concat(f.ColorM())
		}
		cm.Concat(parent.ColorM)
		ctx.ColorM = cm
	}

	n.DrawSelf(dst, ctx)

	p, ok := n.(Parent)
	if !ok {
		return
	}
	for _, child := range p.Children() {
		drawNode(dst, child, ctx)
	}
}
