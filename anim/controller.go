// Package anim drives the scrolling background and skeletal character
// shown inside a host element: it sets up the rendering surface, loads the
// demo's assets, builds the scene on the first resize and tears it all down
// again.
package anim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/milk9111/scrollanim/assets"
	"github.com/milk9111/scrollanim/debounce"
	"github.com/milk9111/scrollanim/host"
	"github.com/milk9111/scrollanim/scene"
	"github.com/milk9111/scrollanim/skeleton"
	"github.com/milk9111/scrollanim/surface"
	"github.com/milk9111/scrollanim/tween"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// Asset keys and aliases loaded by Init.
const (
	SampleMapKey  = "anim/img/sample-map.png"
	SkeletonAlias = "spineboyData"
	AtlasAlias    = "spineboyAtlas"
	SkeletonSrc   = "anim/spine/spineboy-pro.skel"
	AtlasSrc      = "anim/spine/spineboy-pma.atlas"
)

// Registry names of the objects the controller builds.
const (
	bgName           = "bg"
	characterName    = "spineboy"
	artboardName     = "artboard"
	canvasBoundsName = "canvasBoundsIndicator"
	stageBoundsName  = "stageBoundsIndicator"
)

const (
	scrollSpeed    = 10.5
	characterScale = 0.5
	defaultMix     = 0.2
	fadeInSeconds  = 0.4
	resizeDebounce = 100 * time.Millisecond
)

// devMode is the mode a dev build starts in instead of the configured
// default.
var devMode Mode = DefaultMode{Foo: 5}

// Loader is the asset source the controller needs.
type Loader interface {
	Init(basePath string)
	Initialized() bool
	Add(alias, src string)
	Load(ctx context.Context, keys ...string) error
	Texture(key string) (*scene.Texture, error)
	SkeletonData(key string) (*skeleton.Data, error)
	Atlas(key string) (*skeleton.Atlas, error)
}

// Options configures New.
type Options struct {
	Dev bool
	// BasePath is where assets not embedded in the binary are read from.
	// Empty means "/".
	BasePath string
	Logger   *zap.Logger
	// Loader defaults to an assets.Loader.
	Loader Loader
	// Ticker defaults to the parent window's ticker.
	Ticker *host.Ticker
	// Surface defaults to a new surface.
	Surface *surface.Surface
}

// Registries counts the display objects the controller owns.
type Registries struct {
	Containers int
	Sprites    int
	Tiles      int
	Characters int
	Filters    int
}

// Total returns the number of registered objects.
func (r Registries) Total() int {
	return r.Containers + r.Sprites + r.Tiles + r.Characters + r.Filters
}

// Controller owns the rendering surface, its scene and the callbacks that
// keep it moving. It runs on the game loop and is not safe for concurrent
// use. A destroyed controller cannot be reused.
type Controller struct {
	dev      bool
	basePath string
	logger   *zap.Logger
	loader   Loader
	ticker   *host.Ticker
	surface  *surface.Surface
	tweens   *tween.Manager

	config  Config
	pxRatio float64
	dims    Dims
	mode    Mode
	elapsed float64

	initialized bool
	started     bool
	window      *host.Window
	observer    *host.ResizeObserver
	resize      *debounce.Debouncer[[]host.ResizeEntry]
	tickID      host.TickerID

	containers map[string]scene.Node
	sprites    map[string]*scene.Sprite
	tiles      map[string]*scene.TilingSprite
	characters map[string]*skeleton.Character
	filters    map[string]scene.Filter
}

// New returns a controller with the default configuration. Nothing is
// loaded or drawn until Init.
func New(opts Options) *Controller {
	c := &Controller{
		dev:        opts.Dev,
		basePath:   opts.BasePath,
		logger:     opts.Logger,
		loader:     opts.Loader,
		ticker:     opts.Ticker,
		surface:    opts.Surface,
		tweens:     tween.NewManager(),
		config:     DefaultConfig(),
		containers: make(map[string]scene.Node),
		sprites:    make(map[string]*scene.Sprite),
		tiles:      make(map[string]*scene.TilingSprite),
		characters: make(map[string]*skeleton.Character),
		filters:    make(map[string]scene.Filter),
	}
	if c.basePath == "" {
		c.basePath = "/"
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.Named("anim")
	if c.loader == nil {
		c.loader = assets.NewLoader(assets.WithLogger(c.logger))
	}
	if c.surface == nil {
		c.surface = surface.New()
	}
	return c
}

// Init prepares the surface, loads the assets and starts observing parent.
// onLoaded, if set, runs once when setup is done; the scene itself is built
// on the first resize. Init returns nil without doing anything after
// Destroy, when parent is not mounted in a window, or when called again.
// Asset failures are returned.
func (c *Controller) Init(ctx context.Context, parent *host.Element, onLoaded func()) error {
	if c.surface == nil || c.initialized {
		return nil
	}
	win := parent.Window()
	if win == nil {
		if c.dev {
			c.logger.Warn("cannot init: parent is not mounted in a window")
		}
		return nil
	}
	c.initialized = true
	c.window = win
	if c.ticker == nil {
		c.ticker = win.Ticker()
	}

	// 1) Surface. The pixel ratio is locked from here on.
	c.pxRatio = math.Min(win.DeviceScaleFactor(), c.config.MaxPixelRatio)
	bg, err := ParseColor(c.config.BackgroundColor)
	if err != nil {
		return fmt.Errorf("anim: background: %w", err)
	}
	win.SetResolution(c.pxRatio)
	if err := c.surface.Init(ctx, surface.Options{
		Resolution: c.pxRatio,
		Background: bg,
		Antialias:  c.pxRatio == 1,
	}); err != nil {
		return fmt.Errorf("anim: init surface: %w", err)
	}

	// 2) Assets, one at a time.
	if !c.loader.Initialized() {
		c.loader.Init(c.basePath)
	}
	if err := c.loader.Load(ctx, SampleMapKey); err != nil {
		return fmt.Errorf("anim: load %s: %w", SampleMapKey, err)
	}
	c.loader.Add(SkeletonAlias, SkeletonSrc)
	c.loader.Add(AtlasAlias, AtlasSrc)
	for _, key := range []string{SkeletonAlias, AtlasAlias} {
		if err := c.loader.Load(ctx, key); err != nil {
			return fmt.Errorf("anim: load %s: %w", key, err)
		}
	}

	// 3) Attach once everything is loaded.
	c.surface.AttachTo(parent)

	// 4) Observe the parent's size.
	delay := time.Duration(-1)
	if c.config.DebounceResize {
		delay = resizeDebounce
	}
	c.resize = debounce.New(delay, c.onResizeEntries, debounce.WithClock(win.Now))
	win.AddFlusher(c.resize)
	c.observer = host.NewResizeObserver(c.resize.Call)
	c.observer.Observe(parent)

	if onLoaded != nil {
		onLoaded()
	}
	return nil
}

func (c *Controller) onResizeEntries(entries []host.ResizeEntry) {
	if len(entries) == 0 {
		return
	}
	r := entries[0].ContentRect
	c.onResize(math.Round(r.Width), math.Round(r.Height))
}

// onResize builds the scene on the first call and lays it out on every
// call.
func (c *Controller) onResize(width, height float64) {
	c.dims = Dims{Width: width, Height: height}

	if !c.started {
		c.started = true
		c.start()
	}

	if c.dev {
		c.logger.Debug("[stage dims]", zap.Float64("width", width), zap.Float64("height", height))
	}

	if artboard, ok := c.containers[artboardName]; ok {
		artboard.Obj().Position.Set(width*0.5, height*0.5)
	}
	for _, name := range []string{canvasBoundsName, stageBoundsName} {
		if b, ok := c.containers[name].(*BoundsIndicator); ok {
			b.OnResize(c.dims)
		}
	}
	if ch, ok := c.characters[characterName]; ok {
		ch.Position.Set(width*0.5, height*0.66)
	}
	if bg, ok := c.tiles[bgName]; ok {
		bg.Width = width
		bg.Height = height
	}
}

// start builds the scene. dims are valid when it runs.
func (c *Controller) start() {
	stage := c.surface.Stage()

	// 1) Scene from the loaded assets.
	if tex, err := c.loader.Texture(SampleMapKey); err != nil {
		c.logger.Error("background texture", zap.Error(err))
	} else {
		bg := scene.NewTilingSprite(bgName, tex)
		stage.AddChild(bg)
		c.tiles[bgName] = bg
	}

	if ch, err := c.newCharacter(); err != nil {
		c.logger.Error("character", zap.Error(err))
	} else {
		stage.AddChild(ch)
		c.characters[characterName] = ch
		ch.Alpha = 0
		tween.Alpha(c.tweens, ch, 1, fadeInSeconds, ease.OutQuad)
	}

	artboard := scene.NewContainer(artboardName)
	stage.AddChild(artboard)
	c.containers[artboardName] = artboard

	// 2) Every config key, as at init.
	c.UpdateConfig(c.config.Fragment(), true)

	// 3) Initial mode.
	if c.dev && devMode != nil {
		c.SetMode(devMode)
	} else {
		c.SetMode(c.config.DefaultMode)
	}

	// 4) Frame loop.
	c.tickID = c.ticker.Add(c.onTick)
	c.onTick(c.ticker)
}

func (c *Controller) newCharacter() (*skeleton.Character, error) {
	data, err := c.loader.SkeletonData(SkeletonAlias)
	if err != nil {
		return nil, err
	}
	atlas, err := c.loader.Atlas(AtlasAlias)
	if err != nil {
		return nil, err
	}
	ch, err := skeleton.NewCharacter(characterName, skeleton.CharacterOptions{
		Data:  data,
		Atlas: atlas,
		Scale: characterScale,
	})
	if err != nil {
		return nil, err
	}
	ch.State().Data().DefaultMix = defaultMix
	if _, err := ch.State().SetAnimation(0, "run", true); err != nil {
		return nil, err
	}
	return ch, nil
}

// onTick scrolls the background by the ticker's frame-relative delta and
// advances tweens and characters by the frame's seconds.
func (c *Controller) onTick(t *host.Ticker) {
	c.elapsed += t.ElapsedMS() * 0.001
	dt := t.DeltaMS() * 0.001

	if bg, ok := c.tiles[bgName]; ok {
		bg.TilePosition.X -= scrollSpeed * t.DeltaTime()
	}
	c.tweens.Update(float32(dt))
	for _, ch := range c.characters {
		ch.Update(dt)
	}
}

// SetMode replaces the current mode. Before the scene has started it
// returns false and records nothing.
func (c *Controller) SetMode(m Mode) bool {
	if !c.started {
		if c.dev {
			c.logger.Warn("unable to set mode until started")
		}
		return false
	}
	if m == nil {
		return false
	}
	c.mode = m
	if c.dev {
		c.logger.Info("[mode]", zap.Object("mode", m))
	}
	return true
}

// UpdateConfig merges fragment into the live configuration. The debug
// overlays are built the first time they are enabled and only shown or
// hidden after that. With isInit false, the background colour is pushed to
// the surface and, in dev builds, changes to fixed keys are warned about;
// the change is still applied. A destroyed controller ignores updates.
func (c *Controller) UpdateConfig(fragment ConfigFragment, isInit bool) {
	if c.surface == nil {
		return
	}
	c.config = c.config.Merge(fragment)

	// 1) Init and runtime.
	if v := fragment.DebugCanvasBounds; v != nil {
		c.toggleBounds(canvasBoundsName, *v, DefaultBoundsOptions())
	}
	if v := fragment.DebugStageBounds; v != nil {
		c.toggleBounds(stageBoundsName, *v, BoundsOptions{
			Width:  375,
			Height: 667,
			AlignX: AlignCenter,
			AlignY: AlignStart,
		})
	}

	if isInit {
		return
	}

	// 2) Runtime only.
	if c.dev {
		for _, key := range fragment.FixedKeys() {
			c.logger.Warn("[config] key cannot be updated at runtime", zap.String("key", key))
		}
	}
	if fragment.BackgroundColor != nil {
		bg, err := ParseColor(c.config.BackgroundColor)
		if err != nil {
			c.logger.Warn("[config] background colour", zap.Error(err))
			return
		}
		c.surface.SetBackground(bg)
	}
}

func (c *Controller) toggleBounds(name string, visible bool, opts BoundsOptions) {
	if existing, ok := c.containers[name]; ok {
		existing.Obj().Visible = visible
		return
	}
	if !visible {
		return
	}
	b := NewBoundsIndicator(opts)
	b.Name = name
	b.OnResize(c.dims)
	c.surface.Stage().AddChild(b)
	c.containers[name] = b
}

// Destroy stops the frame callback and resize observer, releases every
// registered object and destroys the surface. It is safe before Init and
// when repeated.
func (c *Controller) Destroy() {
	if c.ticker != nil && c.tickID != 0 {
		c.ticker.Remove(c.tickID)
		c.tickID = 0
	}
	if c.observer != nil {
		c.observer.Disconnect()
		c.observer = nil
	}
	if c.resize != nil {
		c.resize.Stop()
		if c.window != nil {
			c.window.RemoveFlusher(c.resize)
		}
		c.resize = nil
	}

	c.purgeAll()

	if c.surface != nil {
		c.surface.Destroy(true)
		c.surface = nil
	}
}

func (c *Controller) purgeAll() {
	for name, ch := range c.characters {
		Purge(c.tweens, ch, true)
		delete(c.characters, name)
	}
	for name, s := range c.sprites {
		Purge(c.tweens, s, true)
		delete(c.sprites, name)
	}
	for name, t := range c.tiles {
		Purge(c.tweens, t, true)
		delete(c.tiles, name)
	}
	for name, n := range c.containers {
		Purge(c.tweens, n, true)
		delete(c.containers, name)
	}
	for name, f := range c.filters {
		f.Destroy(false)
		delete(c.filters, name)
	}
}

// OutputConfig logs the live configuration.
func (c *Controller) OutputConfig() {
	c.logger.Info("config", zap.Object("config", c.config))
}

// OutputRenderInfo logs the dimensions, pixel ratio and renderer.
func (c *Controller) OutputRenderInfo() {
	fields := []zap.Field{
		zap.Float64("dims.width", c.dims.Width),
		zap.Float64("dims.height", c.dims.Height),
	}
	if c.surface != nil {
		fields = append(fields,
			zap.Float64("px.ratio", c.surface.Resolution()),
			zap.String("renderer.name", c.surface.Name()),
		)
	}
	c.logger.Info("render info", fields...)
}

// Started reports whether the first resize has built the scene.
func (c *Controller) Started() bool { return c.started }

// Mode returns the current mode, or nil before the scene has started.
func (c *Controller) Mode() Mode { return c.mode }

// Dims returns the last container size.
func (c *Controller) Dims() Dims { return c.dims }

// Config returns the live configuration.
func (c *Controller) Config() Config { return c.config }

// PixelRatio returns the ratio locked at Init.
func (c *Controller) PixelRatio() float64 { return c.pxRatio }

// Elapsed returns the seconds accumulated by the frame callback.
func (c *Controller) Elapsed() float64 { return c.elapsed }

// Surface returns the rendering surface, or nil once destroyed.
func (c *Controller) Surface() *surface.Surface { return c.surface }

// Tweens returns the controller's tween manager.
func (c *Controller) Tweens() *tween.Manager { return c.tweens }

// Registries returns how many objects each registry holds.
func (c *Controller) Registries() Registries {
	return Registries{
		Containers: len(c.containers),
		Sprites:    len(c.sprites),
		Tiles:      len(c.tiles),
		Characters: len(c.characters),
		Filters:    len(c.filters),
	}
}

// Background returns the scrolling background, or nil before start.
func (c *Controller) Background() *scene.TilingSprite { return c.tiles[bgName] }

// Character returns the skeletal character, or nil before start.
func (c *Controller) Character() *skeleton.Character { return c.characters[characterName] }

// Artboard returns the centred artboard container, or nil before start.
func (c *Controller) Artboard() scene.Node { return c.containers[artboardName] }

// CanvasBounds returns the canvas bounds overlay, or nil if never enabled.
func (c *Controller) CanvasBounds() *BoundsIndicator {
	b, _ := c.containers[canvasBoundsName].(*BoundsIndicator)
	return b
}

// StageBounds returns the stage bounds overlay, or nil if never enabled.
func (c *Controller) StageBounds() *BoundsIndicator {
	b, _ := c.containers[stageBoundsName].(*BoundsIndicator)
	return b
}
