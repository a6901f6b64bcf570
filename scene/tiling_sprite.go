package scene

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"
)

// TilingSprite repeats a texture across a Width x Height area. TilePosition
// offsets the pattern and TileScale scales it.
type TilingSprite struct {
	Object

	Texture      *Texture
	Width        float64
	Height       float64
	TilePosition Point
	TileScale    Point

	vertices [4]ebiten.Vertex
	indices  [6]uint16
}

// NewTilingSprite creates a tiling sprite the size of one tile.
func NewTilingSprite(name string, tex *Texture) *TilingSprite {
	t := &TilingSprite{
		Object:    NewObject(name),
		Texture:   tex,
		TileScale: Point{X: 1, Y: 1},
		indices:   [6]uint16{0, 1, 2, 1, 3, 2},
	}
	if tex != nil {
		t.Width = float64(tex.Width)
		t.Height = float64(tex.Height)
	}
	return t
}

// Destroy releases the tiling sprite. The texture survives unless opts asks
// for it.
func (t *TilingSprite) Destroy(opts DestroyOptions) {
	if t == nil || t.destroyed {
		return
	}
	t.Release()
	releaseTexture(t.Texture, opts)
	t.Texture = nil
}

// DrawSelf implements Node.
func (t *TilingSprite) DrawSelf(dst *ebiten.Image, ctx DrawContext) {
	img := t.Texture.image()
	if img == nil || t.Width <= 0 || t.Height <= 0 {
		return
	}
	sx, sy := t.TileScale.X, t.TileScale.Y
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	b := img.Bounds()
	corners := [4][2]float64{{0, 0}, {t.Width, 0}, {0, t.Height}, {t.Width, t.Height}}
	for i, c := range corners {
		dx, dy := ctx.GeoM.Apply(c[0], c[1])
		t.vertices[i] = ebiten.Vertex{
			DstX:   float32(dx),
			DstY:   float32(dy),
			SrcX:   float32(float64(b.Min.X) + (c[0]-t.TilePosition.X)/sx),
			SrcY:   float32(float64(b.Min.Y) + (c[1]-t.TilePosition.Y)/sy),
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		}
	}
	var op colorm.DrawTrianglesOptions
	op.Address = ebiten.AddressRepeat
	op.Filter = ctx.Filter
	colorm.DrawTriangles(dst, t.vertices[:], t.indices[:], img, ctx.ColorMFor(t.Tint), &op)
}
