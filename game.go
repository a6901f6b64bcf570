package main

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/scrollanim/anim"
	"github.com/milk9111/scrollanim/config"
	"github.com/milk9111/scrollanim/host"
	"github.com/milk9111/scrollanim/panel"
	"go.uber.org/zap"
)

type gameOptions struct {
	dev        bool
	basePath   string
	configPath string
	showPanel  bool
}

// Game hosts one animation controller in the window and forwards the
// Ebitengine loop to it.
type Game struct {
	logger  *zap.Logger
	win     *host.Window
	anim    *anim.Controller
	panel   *panel.Panel
	watcher *config.Watcher

	initDone bool
	showFPS  bool
}

func NewGame(opts gameOptions) (*Game, error) {
	logger, err := newLogger(opts.dev)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	g := &Game{
		logger: logger,
		win:    host.NewWindow(),
	}
	g.anim = anim.New(anim.Options{
		Dev:      opts.dev,
		BasePath: opts.basePath,
		Logger:   logger,
		Ticker:   g.win.Ticker(),
	})

	if opts.configPath != "" {
		frag, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		// Fixed keys may still be set before Init.
		g.anim.UpdateConfig(frag, true)
		if g.watcher, err = config.NewWatcher(opts.configPath); err != nil {
			return nil, fmt.Errorf("watch %s: %w", opts.configPath, err)
		}
	}

	cfg := g.anim.Config()
	controls := panel.NewControls(panel.Handlers{
		SetDebugStageBounds: func(on bool) {
			if g.anim != nil {
				g.anim.UpdateConfig(anim.ConfigFragment{DebugStageBounds: anim.Bool(on)}, false)
			}
		},
		SetDebugCanvasBounds: func(on bool) {
			if g.anim != nil {
				g.anim.UpdateConfig(anim.ConfigFragment{DebugCanvasBounds: anim.Bool(on)}, false)
			}
		},
		OutputRenderInfo: func() {
			if g.anim != nil {
				g.anim.OutputRenderInfo()
			}
		},
		OutputConfig: func() {
			if g.anim != nil {
				g.anim.OutputConfig()
			}
		},
		MonitorFPS: func() { g.showFPS = true },
		Destroy:    g.destroyAnim,
	}, cfg.DebugStageBounds, cfg.DebugCanvasBounds)
	if !opts.showPanel {
		controls.Hide()
	}
	if g.panel, err = panel.New(controls); err != nil {
		return nil, err
	}
	return g, nil
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// destroyAnim tears the controller down and drops it.
func (g *Game) destroyAnim() {
	if g.anim == nil {
		return
	}
	g.anim.Destroy()
	g.anim = nil
}

func (g *Game) Update() error {
	if !g.initDone && g.anim != nil {
		g.initDone = true
		err := g.anim.Init(context.Background(), g.win.Root(), func() {
			g.logger.Debug("load complete")
		})
		if err != nil {
			return err
		}
	}

	if g.watcher != nil && g.anim != nil {
		for _, u := range g.watcher.Drain() {
			g.logger.Info("config reloaded", zap.String("path", u.Path))
			g.anim.UpdateConfig(u.Fragment, false)
		}
		select {
		case err := <-g.watcher.Errors:
			if err != nil {
				g.logger.Warn("config watch", zap.Error(err))
			}
		default:
		}
	}

	g.panel.Update()
	return g.win.Update()
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.win.Draw(screen)
	g.panel.Draw(screen)
	if g.showFPS {
		t := g.win.Ticker()
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f  TPS: %.1f  frame: %.2fms", ebiten.ActualFPS(), ebiten.ActualTPS(), t.DeltaMS()))
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return g.win.LayoutF(outsideWidth, outsideHeight)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// Close destroys the controller and stops the config watcher.
func (g *Game) Close() {
	g.destroyAnim()
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	_ = g.logger.Sync()
}
