package skeleton

import (
	"errors"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"
	"github.com/milk9111/scrollanim/scene"
)

// CharacterOptions describes how to build a Character.
type CharacterOptions struct {
	Data  *Data
	Atlas *Atlas
	// Scale is applied to the skeleton; zero means 1.
	Scale float64
}

// Character is a skeleton placed in the scene tree.
type Character struct {
	scene.Object

	skeleton *Skeleton
	state    *AnimationState
	atlas    *Atlas
}

// NewCharacter builds a character from skeleton data and an atlas.
func NewCharacter(name string, opts CharacterOptions) (*Character, error) {
	if opts.Data == nil {
		return nil, errors.New("skeleton: character needs skeleton data")
	}
	sk := NewSkeleton(opts.Data)
	if opts.Scale != 0 {
		sk.Scale = opts.Scale
		sk.UpdateWorldTransform()
	}
	return &Character{
		Object:   scene.NewObject(name),
		skeleton: sk,
		state:    NewAnimationState(NewStateData(opts.Data)),
		atlas:    opts.Atlas,
	}, nil
}

// Skeleton returns the posed skeleton.
func (c *Character) Skeleton() *Skeleton { return c.skeleton }

// State returns the animation state.
func (c *Character) State() *AnimationState { return c.state }

// Update advances the animation by dt seconds and reposes the skeleton.
func (c *Character) Update(dt float64) {
	if c == nil || c.Destroyed() {
		return
	}
	c.state.Update(dt)
	c.state.Apply(c.skeleton)
	c.skeleton.UpdateWorldTransform()
}

// Destroy releases the character. Atlas textures are shared and survive
// unless opts asks for them.
func (c *Character) Destroy(opts scene.DestroyOptions) {
	if c == nil || c.Destroyed() {
		return
	}
	c.Release()
	c.state.ClearTracks()
	if c.atlas != nil && (opts.Texture || opts.TextureSource) {
		for _, p := range c.atlas.Pages {
			p.Texture.Release()
		}
	}
}

// DrawSelf implements scene.Node.
func (c *Character) DrawSelf(dst *ebiten.Image, ctx scene.DrawContext) {
	if c.atlas == nil {
		return
	}
	cm := ctx.ColorMFor(c.Tint)
	for _, slot := range c.skeleton.Data.Slots {
		region := c.atlas.Region(slot.Attachment)
		if region == nil || region.Texture == nil || region.Texture.Image == nil || region.Texture.Released() {
			continue
		}
		var op colorm.DrawImageOptions
		op.GeoM.Translate(float64(region.OffsetX)-float64(region.OrigW)/2, float64(region.OffsetY)-float64(region.OrigH)/2)
		op.GeoM.Scale(slot.ScaleX, slot.ScaleY)
		op.GeoM.Rotate(slot.Rotation * math.Pi / 180)
		op.GeoM.Translate(slot.X, slot.Y)
		op.GeoM.Concat(c.skeleton.Bones[slot.bone].world)
		op.GeoM.Concat(ctx.GeoM)
		op.Filter = ctx.Filter
		colorm.DrawImage(dst, region.Texture.Image, cm, &op)
	}
}
