package scene

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"
)

// Sprite draws a texture stretched to Width x Height.
type Sprite struct {
	Object

	Texture *Texture
	// Anchor is the texture origin as a fraction of the sprite size.
	Anchor Point
	Width  float64
	Height float64

	mask        *Sprite
	maskInverse bool
	buffer      *ebiten.Image
}

// NewSprite creates a sprite sized to its texture.
func NewSprite(name string, tex *Texture) *Sprite {
	s := &Sprite{Object: NewObject(name), Texture: tex}
	if tex != nil {
		s.Width = float64(tex.Width)
		s.Height = float64(tex.Height)
	}
	return s
}

// SetMask clips the sprite to mask's shape, or to everything outside it
// when inverse is set. A nil mask removes masking. The mask sprite stops
// being drawn as a regular node.
func (s *Sprite) SetMask(mask *Sprite, inverse bool) {
	if s.mask != nil {
		s.mask.isMask = false
	}
	s.mask = mask
	s.maskInverse = inverse
	if mask != nil {
		mask.isMask = true
	}
}

// Mask returns the current mask and whether it is inverted.
func (s *Sprite) Mask() (*Sprite, bool) {
	return s.mask, s.maskInverse
}

// Destroy releases the sprite. The texture survives unless opts asks for it.
func (s *Sprite) Destroy(opts DestroyOptions) {
	if s == nil || s.destroyed {
		return
	}
	s.Release()
	s.SetMask(nil, false)
	if s.buffer != nil {
		s.buffer.Deallocate()
		s.buffer = nil
	}
	releaseTexture(s.Texture, opts)
	s.Texture = nil
}

// DrawSelf implements Node.
func (s *Sprite) DrawSelf(dst *ebiten.Image, ctx DrawContext) {
	img := s.Texture.image()
	if img == nil || s.Width == 0 || s.Height == 0 {
		return
	}
	if s.mask == nil {
		s.drawTo(dst, img, ctx)
		return
	}

	b := dst.Bounds()
	if s.buffer == nil || s.buffer.Bounds().Dx() != b.Dx() || s.buffer.Bounds().Dy() != b.Dy() {
		if s.buffer != nil {
			s.buffer.Deallocate()
		}
		s.buffer = ebiten.NewImage(b.Dx(), b.Dy())
	}
	s.buffer.Clear()
	// The buffer's origin is the destination's top-left corner.
	origin := ebiten.GeoM{}
	origin.Translate(-float64(b.Min.X), -float64(b.Min.Y))
	local := ctx
	local.GeoM.Concat(origin)
	s.drawTo(s.buffer, img, local)

	maskImg := s.mask.Texture.image()
	if maskImg != nil {
		var op colorm.DrawImageOptions
		op.GeoM = s.mask.textureGeoM()
		op.GeoM.Concat(maskGeoM(s.mask, ctx.Root))
		op.GeoM.Concat(origin)
		op.Blend = ebiten.BlendDestinationIn
		if s.maskInverse {
			op.Blend = ebiten.BlendDestinationOut
		}
		colorm.DrawImage(s.buffer, maskImg, colorm.ColorM{}, &op)
	}

	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(b.Min.X), float64(b.Min.Y))
	dst.DrawImage(s.buffer, &op)
}

func (s *Sprite) drawTo(dst *ebiten.Image, img *ebiten.Image, ctx DrawContext) {
	var op colorm.DrawImageOptions
	op.GeoM = s.textureGeoM()
	op.GeoM.Concat(ctx.GeoM)
	op.Filter = ctx.Filter
	colorm.DrawImage(dst, img, ctx.ColorMFor(s.Tint), &op)
}

// textureGeoM maps texture pixels into the sprite's local space.
func (s *Sprite) textureGeoM() ebiten.GeoM {
	var g ebiten.GeoM
	if s.Texture != nil && s.Texture.Width > 0 && s.Texture.Height > 0 {
		g.Scale(s.Width/float64(s.Texture.Width), s.Height/float64(s.Texture.Height))
	}
	g.Translate(-s.Anchor.X*s.Width, -s.Anchor.Y*s.Height)
	return g
}

func maskGeoM(mask *Sprite, root ebiten.GeoM) ebiten.GeoM {
	g := WorldGeoM(mask)
	g.Concat(root)
	return g
}
