package surface

import (
	"context"
	"image/color"
	"testing"

	"github.com/milk9111/scrollanim/host"
	"github.com/milk9111/scrollanim/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDefaults(t *testing.T) {
	cases := []struct {
		name    string
		opts    Options
		wantRes float64
		wantBg  color.Color
		wantAA  bool
	}{
		{"zero", Options{}, 1, color.Black, false},
		{"retina", Options{Resolution: 2, Background: color.White}, 2, color.White, false},
		{"antialias", Options{Resolution: 1, Antialias: true}, 1, color.Black, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := New()
			require.NoError(t, s.Init(context.Background(), tc.opts))
			assert.Equal(t, tc.wantRes, s.Resolution())
			assert.Equal(t, tc.wantBg, s.Background())
			assert.Equal(t, tc.wantAA, s.Antialias())
		})
	}
}

func TestInitOnce(t *testing.T) {
	s := New()
	require.NoError(t, s.Init(context.Background(), Options{Resolution: 2}))
	require.NoError(t, s.Init(context.Background(), Options{Resolution: 3}))
	assert.Equal(t, 2.0, s.Resolution())
}

func TestInitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New()
	assert.ErrorIs(t, s.Init(ctx, Options{}), context.Canceled)
	assert.False(t, s.Initialized())
}

func TestDestroyKeepsTextures(t *testing.T) {
	w := host.NewWindow(host.WithTicker(host.NewTicker()), host.WithDeviceScaleFactor(func() float64 { return 1 }))
	s := New()
	require.NoError(t, s.Init(context.Background(), Options{}))
	s.AttachTo(w.Root())
	require.Len(t, w.Root().Views(), 1)

	tex := &scene.Texture{Width: 4, Height: 4}
	group := scene.NewContainer("group")
	sprite := scene.NewSprite("sprite", tex)
	group.AddChild(sprite)
	s.Stage().AddChild(group)

	s.Destroy(true)

	assert.True(t, s.Destroyed())
	assert.True(t, group.Destroyed())
	assert.True(t, sprite.Destroyed())
	assert.False(t, tex.Released())
	assert.Empty(t, w.Root().Views())
	assert.ErrorIs(t, s.Init(context.Background(), Options{}), ErrDestroyed)
	assert.NotPanics(t, func() { s.Destroy(true) })
}

func TestDestroyKeepsView(t *testing.T) {
	el := host.NewElement("panel")
	s := New()
	s.AttachTo(el)
	s.Destroy(false)
	assert.Len(t, el.Views(), 1)
}
