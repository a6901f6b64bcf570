package scene

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Texture is a rectangular region of an image. Textures are shared between
// nodes and outlive them unless a destroy call explicitly asks for them.
type Texture struct {
	Image  *ebiten.Image
	Width  int
	Height int

	source   *Texture
	released bool
}

// White is a 1x1 opaque white texture used for solid rectangles. Its image
// is created on first draw.
var White = &Texture{Width: 1, Height: 1}

// NewTexture wraps an Ebitengine image.
func NewTexture(img *ebiten.Image) *Texture {
	if img == nil {
		return &Texture{}
	}
	b := img.Bounds()
	return &Texture{Image: img, Width: b.Dx(), Height: b.Dy()}
}

// NewTextureFromImage uploads a decoded image.
func NewTextureFromImage(img image.Image) *Texture {
	if img == nil {
		return &Texture{}
	}
	return NewTexture(ebiten.NewImageFromImage(img))
}

// Sub returns a texture for the given region of t. The region shares t's
// image, so t is its texture source.
func (t *Texture) Sub(x, y, w, h int) *Texture {
	if t == nil {
		return nil
	}
	sub := &Texture{Width: w, Height: h, source: t}
	if t.Image != nil {
		r := image.Rect(x, y, x+w, y+h).Add(t.Image.Bounds().Min)
		if img, ok := t.Image.SubImage(r).(*ebiten.Image); ok {
			sub.Image = img
		}
	}
	return sub
}

// Source returns the texture this one was cut from, or t itself.
func (t *Texture) Source() *Texture {
	if t == nil || t.source == nil {
		return t
	}
	return t.source
}

// Released reports whether the texture's image has been deallocated.
func (t *Texture) Released() bool {
	return t != nil && t.released
}

// Release deallocates the texture's image. Sub textures only drop their
// reference; the source keeps its pixels.
func (t *Texture) Release() {
	if t == nil || t.released || t == White {
		return
	}
	t.released = true
	if t.source == nil && t.Image != nil {
		t.Image.Deallocate()
	}
	t.Image = nil
}

func (t *Texture) image() *ebiten.Image {
	if t == nil || t.released {
		return nil
	}
	if t == White && t.Image == nil {
		img := ebiten.NewImage(1, 1)
		img.Fill(color.White)
		t.Image = img
	}
	return t.Image
}

// releaseTexture applies the texture flags of a destroy call.
func releaseTexture(t *Texture, opts DestroyOptions) {
	if t == nil {
		return
	}
	if opts.TextureSource {
		t.Source().Release()
	}
	if opts.Texture {
		t.Release()
	}
}
