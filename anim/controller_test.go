package anim

import (
	"context"
	"image"
	"image/color"
	"testing"
	"testing/fstest"
	"time"

	"github.com/milk9111/scrollanim/assets"
	"github.com/milk9111/scrollanim/host"
	"github.com/milk9111/scrollanim/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func fakeTexture(img image.Image) *scene.Texture {
	b := img.Bounds()
	return &scene.Texture{Width: b.Dx(), Height: b.Dy()}
}

type fixture struct {
	t      *testing.T
	clock  *fakeClock
	win    *host.Window
	ctl    *Controller
	logs   *observer.ObservedLogs
	loaded int
}

func newFixture(t *testing.T, dev bool, opts ...assets.Option) *fixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	clock := &fakeClock{t: time.Unix(1000, 0)}
	win := host.NewWindow(
		host.WithTicker(host.NewTicker()),
		host.WithClock(clock.now),
		host.WithDeviceScaleFactor(func() float64 { return 3 }),
	)
	opts = append([]assets.Option{assets.WithTextureFactory(fakeTexture)}, opts...)
	ctl := New(Options{
		Dev:    dev,
		Logger: zap.New(core),
		Loader: assets.NewLoader(opts...),
	})
	return &fixture{t: t, clock: clock, win: win, ctl: ctl, logs: logs}
}

func (f *fixture) init() {
	f.t.Helper()
	require.NoError(f.t, f.ctl.Init(context.Background(), f.win.Root(), func() { f.loaded++ }))
}

// frame lays the window out at w x h and runs one update 16ms later.
func (f *fixture) frame(w, h float64) {
	f.t.Helper()
	f.clock.advance(16 * time.Millisecond)
	f.win.LayoutF(w, h)
	require.NoError(f.t, f.win.Update())
}

func TestInitWithoutWindowIsNoop(t *testing.T) {
	f := newFixture(t, true)
	detached := host.NewElement("detached")

	err := f.ctl.Init(context.Background(), detached, func() { f.loaded++ })

	require.NoError(t, err)
	assert.Zero(t, f.loaded)
	assert.Empty(t, detached.Views())
	assert.Equal(t, 1, f.logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestInitOnMountedElement(t *testing.T) {
	f := newFixture(t, false)
	el := host.NewElement("sidebar")
	f.win.Mount(el)
	el.SetSize(320.4, 239.6)

	require.NoError(t, f.ctl.Init(context.Background(), el, nil))
	f.frame(800, 600)

	require.True(t, f.ctl.Started())
	assert.Equal(t, Dims{Width: 320, Height: 240}, f.ctl.Dims())
	assert.Equal(t, []host.View{f.ctl.Surface()}, el.Views())
	assert.Empty(t, f.win.Root().Views())
}

func TestInitLoadsAndAttaches(t *testing.T) {
	f := newFixture(t, false)
	f.init()
	f.init()

	assert.Equal(t, 1, f.loaded, "onLoaded runs once")
	assert.False(t, f.ctl.Started(), "scene waits for the first resize")
	assert.Equal(t, 2.0, f.ctl.PixelRatio(), "device ratio capped by maxPixelRatio")
	assert.Equal(t, 2.0, f.win.Resolution())
	require.Len(t, f.win.Root().Views(), 1)
	assert.Same(t, f.ctl.Surface(), f.win.Root().Views()[0])
	assert.Equal(t, color.NRGBA{R: 0x00, G: 0x30, B: 0x30, A: 0xff}, f.ctl.Surface().Background())
	assert.Zero(t, f.ctl.Registries().Total())
}

func TestInitPropagatesLoadErrors(t *testing.T) {
	f := newFixture(t, false, assets.WithFS(fstest.MapFS{}))

	err := f.ctl.Init(context.Background(), f.win.Root(), func() { f.loaded++ })

	require.ErrorIs(t, err, assets.ErrNotFound)
	assert.Zero(t, f.loaded)
	assert.Empty(t, f.win.Root().Views())
}

func TestFirstResizeStartsOnce(t *testing.T) {
	cases := []struct {
		name string
		w, h float64
	}{
		{"desktop", 800, 600},
		{"phone", 375, 667},
		{"tiny", 1, 1},
		{"wide", 1920, 1080},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, false)
			f.init()
			f.frame(tc.w, tc.h)

			require.True(t, f.ctl.Started())
			bg := f.ctl.Background()
			ch := f.ctl.Character()
			artboard := f.ctl.Artboard()
			require.NotNil(t, bg)
			require.NotNil(t, ch)
			require.NotNil(t, artboard)

			assert.Equal(t, Dims{Width: tc.w, Height: tc.h}, f.ctl.Dims())
			assert.Equal(t, tc.w, bg.Width)
			assert.Equal(t, tc.h, bg.Height)
			assert.Equal(t, scene.Point{X: tc.w * 0.5, Y: tc.h * 0.66}, ch.Position)
			assert.Equal(t, scene.Point{X: tc.w * 0.5, Y: tc.h * 0.5}, artboard.Obj().Position)
			assert.Equal(t, 1, f.win.Ticker().Len())

			f.frame(tc.w+10, tc.h+20)
			assert.Same(t, bg, f.ctl.Background(), "scene is built once")
			assert.Same(t, ch, f.ctl.Character())
			assert.Equal(t, 1, f.win.Ticker().Len())
			assert.Equal(t, tc.w+10, bg.Width)
			assert.Equal(t, scene.Point{X: (tc.w + 10) * 0.5, Y: (tc.h + 20) * 0.66}, ch.Position)
		})
	}
}

func TestResizeRoundsDims(t *testing.T) {
	f := newFixture(t, false)
	f.init()
	f.frame(800.4, 599.6)
	assert.Equal(t, Dims{Width: 800, Height: 600}, f.ctl.Dims())
}

func TestStartPlaysRunLoop(t *testing.T) {
	f := newFixture(t, false)
	f.init()
	f.frame(800, 600)

	ch := f.ctl.Character()
	entry := ch.State().Current(0)
	require.NotNil(t, entry)
	assert.Equal(t, "run", entry.Animation.Name)
	assert.True(t, entry.Loop)
	assert.Equal(t, 0.2, ch.State().Data().DefaultMix)
	assert.Equal(t, 0.5, ch.Skeleton().Scale)
	assert.True(t, f.ctl.Tweens().IsTweening(ch), "character fades in")
}

func TestTickScrollsBackground(t *testing.T) {
	f := newFixture(t, false)
	f.init()
	f.frame(800, 600)
	bg := f.ctl.Background()
	before := bg.TilePosition.X
	elapsed := f.ctl.Elapsed()
	assert.Less(t, before, 0.0)

	f.clock.advance(time.Second / 30)
	require.NoError(t, f.win.Update())

	assert.InDelta(t, before-10.5*2, bg.TilePosition.X, 1e-6, "two nominal frames")
	assert.InDelta(t, elapsed+1.0/30, f.ctl.Elapsed(), 1e-6)
}

func TestSetMode(t *testing.T) {
	f := newFixture(t, true)
	f.init()

	assert.False(t, f.ctl.SetMode(WalkMode{Bar: "x"}))
	assert.Nil(t, f.ctl.Mode())
	assert.Equal(t, 1, f.logs.FilterMessage("unable to set mode until started").Len())

	f.frame(800, 600)
	assert.True(t, f.ctl.SetMode(WalkMode{Bar: "x"}))
	assert.Equal(t, WalkMode{Bar: "x"}, f.ctl.Mode())
	assert.True(t, f.ctl.SetMode(PauseMode{}))
	assert.Equal(t, PauseMode{}, f.ctl.Mode())
	assert.NotZero(t, f.logs.FilterMessage("[mode]").Len())
}

func TestInitialMode(t *testing.T) {
	cases := []struct {
		name string
		dev  bool
		want Mode
	}{
		{"dev", true, DefaultMode{Foo: 5}},
		{"release", false, DefaultMode{Foo: 66}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.dev)
			f.init()
			f.frame(800, 600)
			assert.Equal(t, tc.want, f.ctl.Mode())
		})
	}
}

func TestCanvasBoundsAutoSize(t *testing.T) {
	f := newFixture(t, false)
	f.init()
	f.frame(800, 600)

	f.ctl.UpdateConfig(ConfigFragment{DebugCanvasBounds: Bool(true)}, false)

	b := f.ctl.CanvasBounds()
	require.NotNil(t, b)
	assert.Equal(t, scene.Point{}, b.Fill().Position)
	assert.Equal(t, 800.0, b.Fill().Width)
	assert.Equal(t, 600.0, b.Fill().Height)
	assert.Equal(t, scene.Point{X: 3, Y: 3}, b.Mask().Position)
	assert.Equal(t, 794.0, b.Mask().Width)
	assert.Equal(t, 594.0, b.Mask().Height)

	stage := f.ctl.Surface().Stage()
	children := stage.Children()
	assert.Same(t, b.Obj(), children[len(children)-1].Obj(), "overlay drawn on top")
}

func TestStageBoundsCentredTop(t *testing.T) {
	f := newFixture(t, false)
	f.init()
	f.frame(800, 600)

	f.ctl.UpdateConfig(ConfigFragment{DebugStageBounds: Bool(true)}, false)

	b := f.ctl.StageBounds()
	require.NotNil(t, b)
	assert.InDelta(t, 212.5, b.Fill().Position.X, 1e-9)
	assert.InDelta(t, 0.0, b.Fill().Position.Y, 1e-9)
	assert.Equal(t, 375.0, b.Fill().Width)
	assert.Equal(t, 667.0, b.Fill().Height)
}

func TestBoundsEnabledBeforeStartFollowsResize(t *testing.T) {
	f := newFixture(t, false)
	f.ctl.UpdateConfig(ConfigFragment{DebugCanvasBounds: Bool(true)}, true)
	f.init()
	f.frame(640, 480)

	b := f.ctl.CanvasBounds()
	require.NotNil(t, b)
	assert.Equal(t, 640.0, b.Fill().Width)
	assert.Equal(t, 474.0, b.Mask().Height)
	assert.True(t, b.Visible)

	f.frame(320, 240)
	assert.Equal(t, 320.0, b.Fill().Width)
	assert.Equal(t, 234.0, b.Mask().Height)
}

func TestStageBoundsToggleReusesOverlay(t *testing.T) {
	f := newFixture(t, false)
	f.init()
	f.frame(800, 600)

	f.ctl.UpdateConfig(ConfigFragment{DebugStageBounds: Bool(false)}, false)
	assert.Nil(t, f.ctl.StageBounds(), "disabling never builds the overlay")

	f.ctl.UpdateConfig(ConfigFragment{DebugStageBounds: Bool(true)}, false)
	first := f.ctl.StageBounds()
	require.NotNil(t, first)
	f.ctl.UpdateConfig(ConfigFragment{DebugStageBounds: Bool(false)}, false)
	assert.False(t, first.Visible)
	assert.False(t, first.Destroyed())
	f.ctl.UpdateConfig(ConfigFragment{DebugStageBounds: Bool(true)}, false)

	assert.Same(t, first, f.ctl.StageBounds())
	assert.True(t, first.Visible)
	count := 0
	for _, n := range f.ctl.Surface().Stage().Children() {
		if n.Obj().Name == "stageBoundsIndicator" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestUpdateConfigFixedKeys(t *testing.T) {
	cases := []struct {
		name      string
		dev       bool
		isInit    bool
		wantWarns int
	}{
		{"dev_runtime", true, false, 3},
		{"dev_init", true, true, 0},
		{"release_runtime", false, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.dev)
			f.ctl.UpdateConfig(ConfigFragment{
				MaxPixelRatio:  Float(3),
				DefaultMode:    PauseMode{},
				DebounceResize: Bool(true),
			}, tc.isInit)

			warns := f.logs.FilterMessage("[config] key cannot be updated at runtime")
			assert.Equal(t, tc.wantWarns, warns.Len())
			assert.Equal(t, 3.0, f.ctl.Config().MaxPixelRatio, "the change is still applied")
			assert.Equal(t, PauseMode{}, f.ctl.Config().DefaultMode)
		})
	}
}

func TestUpdateConfigBackground(t *testing.T) {
	f := newFixture(t, false)
	f.init()

	f.ctl.UpdateConfig(ConfigFragment{BackgroundColor: String("#ff0000")}, true)
	assert.Equal(t, color.NRGBA{R: 0x00, G: 0x30, B: 0x30, A: 0xff}, f.ctl.Surface().Background(), "init pass leaves the renderer alone")

	f.ctl.UpdateConfig(ConfigFragment{BackgroundColor: String("#ff0000")}, false)
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, f.ctl.Surface().Background())

	f.ctl.UpdateConfig(ConfigFragment{BackgroundColor: String("not-a-colour")}, false)
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, f.ctl.Surface().Background())
	assert.Equal(t, "not-a-colour", f.ctl.Config().BackgroundColor)
}

func TestDebouncedResize(t *testing.T) {
	f := newFixture(t, false)
	f.ctl.UpdateConfig(ConfigFragment{DebounceResize: Bool(true)}, true)
	f.init()

	f.frame(800, 600)
	require.True(t, f.ctl.Started(), "first call of a burst fires at once")

	f.frame(640, 480)
	f.frame(500, 400)
	assert.Equal(t, Dims{Width: 800, Height: 600}, f.ctl.Dims())

	f.clock.advance(150 * time.Millisecond)
	require.NoError(t, f.win.Update())
	assert.Equal(t, Dims{Width: 500, Height: 400}, f.ctl.Dims(), "last call of the burst wins")
}

func TestDestroy(t *testing.T) {
	f := newFixture(t, false)
	f.init()
	f.frame(800, 600)
	f.ctl.UpdateConfig(ConfigFragment{DebugCanvasBounds: Bool(true), DebugStageBounds: Bool(true)}, false)
	require.Equal(t, Registries{Containers: 3, Tiles: 1, Characters: 1}, f.ctl.Registries())
	bg := f.ctl.Background()
	ch := f.ctl.Character()
	tex := bg.Texture

	f.ctl.Destroy()

	assert.Zero(t, f.ctl.Registries().Total())
	assert.Zero(t, f.win.Ticker().Len())
	assert.Empty(t, f.win.Root().Views())
	assert.Nil(t, f.ctl.Surface())
	assert.True(t, bg.Destroyed())
	assert.True(t, ch.Destroyed())
	assert.False(t, tex.Released(), "textures stay with the loader")
	assert.Zero(t, f.ctl.Tweens().Len())

	assert.NotPanics(t, f.ctl.Destroy)

	require.NoError(t, f.ctl.Init(context.Background(), f.win.Root(), nil))
	f.frame(320, 240)
	assert.Equal(t, Dims{Width: 800, Height: 600}, f.ctl.Dims(), "no notifications after destroy")
	assert.Empty(t, f.win.Root().Views())
}

func TestUpdateConfigAfterDestroy(t *testing.T) {
	f := newFixture(t, true)
	f.init()
	f.frame(800, 600)
	f.ctl.Destroy()

	assert.NotPanics(t, func() {
		f.ctl.UpdateConfig(ConfigFragment{
			DebugStageBounds:  Bool(true),
			DebugCanvasBounds: Bool(true),
			BackgroundColor:   String("#ffffff"),
		}, false)
	})
	assert.Zero(t, f.ctl.Registries().Total())
	assert.Nil(t, f.ctl.StageBounds())
	assert.Nil(t, f.ctl.CanvasBounds())
	assert.False(t, f.ctl.Config().DebugStageBounds)
}

func TestDestroyBeforeInit(t *testing.T) {
	f := newFixture(t, false)
	assert.NotPanics(t, f.ctl.Destroy)
	assert.NotPanics(t, f.ctl.Destroy)
	assert.Zero(t, f.ctl.Registries().Total())
}

func TestOutputConfig(t *testing.T) {
	f := newFixture(t, false)
	f.ctl.OutputConfig()

	entries := f.logs.FilterMessage("config").All()
	require.Len(t, entries, 1)
	cfg, ok := entries[0].ContextMap()["config"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "#003030", cfg["backgroundColor"])
	assert.Equal(t, 2.0, cfg["maxPixelRatio"])
}
