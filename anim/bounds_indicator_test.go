package anim

import (
	"fmt"
	"testing"

	"github.com/milk9111/scrollanim/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsIndicatorLayout(t *testing.T) {
	cases := []struct {
		name  string
		opts  BoundsOptions
		dims  Dims
		wantX float64
		wantY float64
		wantW float64
		wantH float64
	}{
		{"auto", DefaultBoundsOptions(), Dims{800, 600}, 0, 0, 800, 600},
		{"zero_options", BoundsOptions{}, Dims{800, 600}, 0, 0, 800, 600},
		{"zero_align_fixed", BoundsOptions{Width: 100, Height: 50}, Dims{800, 600}, 0, 0, 100, 50},
		{"stage", BoundsOptions{Width: 375, Height: 667, AlignX: AlignCenter, AlignY: AlignStart}, Dims{800, 600}, 212.5, 0, 375, 667},
		{"end_end", BoundsOptions{Width: 100, Height: 50, AlignX: AlignEnd, AlignY: AlignEnd}, Dims{800, 600}, 700, 550, 100, 50},
		{"center_center", BoundsOptions{Width: 100, Height: 50, AlignX: AlignCenter, AlignY: AlignCenter}, Dims{800, 600}, 350, 275, 100, 50},
		{"unknown_align_is_start", BoundsOptions{Width: 100, Height: 50, AlignX: 7, AlignY: -9}, Dims{800, 600}, 0, 0, 100, 50},
		{"auto_width_only", BoundsOptions{Width: -1, Height: 50, AlignX: AlignEnd, AlignY: AlignEnd}, Dims{800, 600}, 0, 550, 800, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBoundsIndicator(tc.opts)
			b.OnResize(tc.dims)

			assert.Equal(t, scene.Point{X: tc.wantX, Y: tc.wantY}, b.Fill().Position)
			assert.Equal(t, tc.wantW, b.Fill().Width)
			assert.Equal(t, tc.wantH, b.Fill().Height)
			assert.Equal(t, scene.Point{X: tc.wantX + BorderSize, Y: tc.wantY + BorderSize}, b.Mask().Position)
			assert.Equal(t, tc.wantW-2*BorderSize, b.Mask().Width)
			assert.Equal(t, tc.wantH-2*BorderSize, b.Mask().Height)
		})
	}
}

func TestBoundsIndicatorStaysInsideContainer(t *testing.T) {
	aligns := []Align{AlignStart, AlignCenter, AlignEnd}
	sizes := []Dims{{1, 1}, {10, 20}, {375, 667}, {800, 600}}
	containers := []Dims{{800, 600}, {375, 667}, {1920, 1080}}
	for _, c := range containers {
		for _, s := range sizes {
			if s.Width > c.Width || s.Height > c.Height {
				continue
			}
			for _, ax := range aligns {
				for _, ay := range aligns {
					name := fmt.Sprintf("%vx%v_in_%vx%v_%d_%d", s.Width, s.Height, c.Width, c.Height, ax, ay)
					t.Run(name, func(t *testing.T) {
						b := NewBoundsIndicator(BoundsOptions{Width: s.Width, Height: s.Height, AlignX: ax, AlignY: ay})
						b.OnResize(c)
						fill := b.Fill()
						assert.GreaterOrEqual(t, fill.Position.X, 0.0)
						assert.GreaterOrEqual(t, fill.Position.Y, 0.0)
						assert.LessOrEqual(t, fill.Position.X+fill.Width, c.Width)
						assert.LessOrEqual(t, fill.Position.Y+fill.Height, c.Height)
						assert.Equal(t, fill.Width-b.Mask().Width, 2*BorderSize)
						assert.Equal(t, fill.Height-b.Mask().Height, 2*BorderSize)
					})
				}
			}
		}
	}
}

func TestBoundsIndicatorShape(t *testing.T) {
	b := NewBoundsIndicator(DefaultBoundsOptions())

	mask, inverse := b.Fill().Mask()
	require.Same(t, b.Mask(), mask)
	assert.True(t, inverse)
	assert.True(t, b.Mask().IsMask())
	assert.Equal(t, 0.5, b.Fill().Alpha)
	assert.Equal(t, boundsTint, b.Fill().Tint)
	assert.False(t, b.Interactive)
	assert.Len(t, b.Children(), 2)
}

func TestBoundsIndicatorBringsItselfToFront(t *testing.T) {
	stage := scene.NewContainer("stage")
	b := NewBoundsIndicator(DefaultBoundsOptions())
	stage.AddChild(b)
	later := scene.NewSprite("later", nil)
	stage.AddChild(later)

	b.OnResize(Dims{Width: 100, Height: 100})

	children := stage.Children()
	require.Len(t, children, 2)
	assert.Same(t, b.Obj(), children[1].Obj())
}
