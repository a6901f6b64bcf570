// Package surface is the rendering surface the animation draws into: a
// stage container, a background colour and a resolution, drawn as a view of
// a host element.
package surface

import (
	"context"
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/scrollanim/host"
	"github.com/milk9111/scrollanim/scene"
)

// ErrDestroyed is returned when a destroyed surface is initialised.
var ErrDestroyed = errors.New("surface: destroyed")

// Options configures Init.
type Options struct {
	// Resolution is screen pixels per logical pixel; <= 0 means 1.
	Resolution float64
	Background color.Color
	// Antialias selects linear filtering instead of nearest.
	Antialias bool
}

// Surface owns the stage and draws it into its element.
type Surface struct {
	stage      *scene.Container
	background color.Color
	resolution float64
	antialias  bool

	element     *host.Element
	initialized bool
	destroyed   bool
}

// New returns an uninitialised surface with an empty stage.
func New() *Surface {
	return &Surface{
		stage:      scene.NewContainer("stage"),
		background: color.Black,
		resolution: 1,
	}
}

// Init applies opts. It may be called once; later calls are ignored.
func (s *Surface) Init(ctx context.Context, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.destroyed {
		return ErrDestroyed
	}
	if s.initialized {
		return nil
	}
	s.initialized = true
	s.resolution = opts.Resolution
	if s.resolution <= 0 {
		s.resolution = 1
	}
	if opts.Background != nil {
		s.background = opts.Background
	}
	s.antialias = opts.Antialias
	return nil
}

// Initialized reports whether Init has run.
func (s *Surface) Initialized() bool { return s.initialized }

// Stage returns the root display object.
func (s *Surface) Stage() *scene.Container { return s.stage }

// SetBackground changes the clear colour of the next frame.
func (s *Surface) SetBackground(c color.Color) {
	if c != nil {
		s.background = c
	}
}

// Background returns the clear colour.
func (s *Surface) Background() color.Color { return s.background }

// Resolution returns the pixel ratio given to Init.
func (s *Surface) Resolution() float64 { return s.resolution }

// Antialias reports whether linear filtering is used.
func (s *Surface) Antialias() bool { return s.antialias }

// Name describes the renderer, for example "ebiten/OpenGL". The graphics
// library is only known once the game loop runs.
func (s *Surface) Name() string {
	var info ebiten.DebugInfo
	ebiten.ReadDebugInfo(&info)
	return "ebiten/" + info.GraphicsLibrary.String()
}

// AttachTo appends the surface as a view of el, detaching it from any
// previous element.
func (s *Surface) AttachTo(el *host.Element) {
	if s.element != nil && s.element != el {
		s.element.RemoveView(s)
	}
	s.element = el
	el.AppendView(s)
}

// Element returns the element the surface is attached to.
func (s *Surface) Element() *host.Element { return s.element }

// DrawView implements host.View.
func (s *Surface) DrawView(dst *ebiten.Image) {
	if s.destroyed || !s.initialized {
		return
	}
	dst.Fill(s.background)
	var geoM ebiten.GeoM
	geoM.Scale(s.resolution, s.resolution)
	filter := ebiten.FilterNearest
	if s.antialias {
		filter = ebiten.FilterLinear
	}
	scene.Draw(dst, s.stage, geoM, filter)
}

// Destroy destroys the stage and its children. Textures are never
// released here; they belong to the asset loader. With removeView the
// surface is detached from its element.
func (s *Surface) Destroy(removeView bool) {
	if s.destroyed {
		return
	}
	s.destroyed = true
	for _, child := range append([]scene.Node(nil), s.stage.Children()...) {
		child.Destroy(scene.DestroyOptions{Children: true})
	}
	s.stage.Destroy(scene.DestroyOptions{})
	if removeView && s.element != nil {
		s.element.RemoveView(s)
		s.element = nil
	}
}

// Destroyed reports whether Destroy has run.
func (s *Surface) Destroyed() bool { return s.destroyed }
