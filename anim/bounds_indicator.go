package anim

import (
	"image/color"

	"github.com/milk9111/scrollanim/scene"
)

// BorderSize is the visible outline thickness of a BoundsIndicator.
const BorderSize = 3.0

var boundsTint = color.NRGBA{R: 0x00, G: 0xff, B: 0xc0, A: 0xff}

// Align places an indicator inside its container along one axis. Values
// other than the constants below place it at the start.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

// Dims are container dimensions in logical pixels.
type Dims struct {
	Width  float64
	Height float64
}

// BoundsOptions configures a BoundsIndicator. Width or Height <= 0 tracks
// the container's size on that axis, so the zero value outlines the whole
// container.
type BoundsOptions struct {
	Width  float64
	Height float64
	AlignX Align
	AlignY Align
}

// DefaultBoundsOptions outlines the whole container.
func DefaultBoundsOptions() BoundsOptions {
	return BoundsOptions{Width: -1, Height: -1, AlignX: AlignStart, AlignY: AlignStart}
}

// BoundsIndicator outlines a rectangle: a translucent fill with an inverse
// mask inset by BorderSize, so only the border shows. Its owner calls
// OnResize whenever the container size changes.
type BoundsIndicator struct {
	scene.Container

	fill *scene.Sprite
	mask *scene.Sprite
	opts BoundsOptions
}

// NewBoundsIndicator builds an indicator. It is sized on the first
// OnResize.
func NewBoundsIndicator(opts BoundsOptions) *BoundsIndicator {
	b := &BoundsIndicator{
		Container: *scene.NewContainer("boundsIndicator"),
		fill:      scene.NewSprite("boundsFill", scene.White),
		mask:      scene.NewSprite("boundsMask", scene.White),
		opts:      opts,
	}
	b.fill.Tint = boundsTint
	b.fill.Alpha = 0.5
	b.fill.SetMask(b.mask, true)
	b.AddChild(b.fill)
	b.AddChild(b.mask)
	b.Interactive = false
	return b
}

// Fill returns the outline's fill sprite.
func (b *BoundsIndicator) Fill() *scene.Sprite { return b.fill }

// Mask returns the inverse mask sprite.
func (b *BoundsIndicator) Mask() *scene.Sprite { return b.mask }

// Options returns the construction options.
func (b *BoundsIndicator) Options() BoundsOptions { return b.opts }

// OnResize lays the outline out inside a container of size d and moves the
// indicator above its siblings.
func (b *BoundsIndicator) OnResize(d Dims) {
	w := d.Width
	if b.opts.Width > 0 {
		w = b.opts.Width
	}
	h := d.Height
	if b.opts.Height > 0 {
		h = b.opts.Height
	}

	b.fill.Width = w
	b.fill.Height = h
	b.fill.Position.Set(align(b.opts.AlignX, d.Width, w), align(b.opts.AlignY, d.Height, h))

	b.mask.Position.Set(b.fill.Position.X+BorderSize, b.fill.Position.Y+BorderSize)
	b.mask.Width = w - 2*BorderSize
	b.mask.Height = h - 2*BorderSize

	scene.BringToFront(b)
}

func align(a Align, container, size float64) float64 {
	switch a {
	case AlignCenter:
		return container*0.5 - size*0.5
	case AlignEnd:
		return container - size
	default:
		return 0
	}
}
