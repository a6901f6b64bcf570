// Package panel is the on-screen control panel: debug overlay toggles,
// diagnostic output buttons, an FPS monitor switch and a destroy button.
package panel

// Handlers are called when a control is used. Nil handlers are skipped.
type Handlers struct {
	SetDebugStageBounds  func(on bool)
	SetDebugCanvasBounds func(on bool)
	OutputRenderInfo     func()
	OutputConfig         func()
	// MonitorFPS runs once, the first time the monitor is switched on.
	MonitorFPS func()
	// Destroy runs once; the panel's other controls keep working and the
	// handlers are expected to ignore a missing controller.
	Destroy func()
}

// Controls is the panel state, kept apart from the widgets so it can be
// driven without a UI.
type Controls struct {
	h Handlers

	stageBounds   bool
	canvasBounds  bool
	monitoringFPS bool
	hidden        bool
	destroyed     bool
}

// NewControls returns controls with the given initial toggle values.
func NewControls(h Handlers, stageBounds, canvasBounds bool) *Controls {
	return &Controls{h: h, stageBounds: stageBounds, canvasBounds: canvasBounds}
}

// ToggleStageBounds flips the stage overlay and returns the new value.
func (c *Controls) ToggleStageBounds() bool {
	c.stageBounds = !c.stageBounds
	if c.h.SetDebugStageBounds != nil {
		c.h.SetDebugStageBounds(c.stageBounds)
	}
	return c.stageBounds
}

// ToggleCanvasBounds flips the canvas overlay and returns the new value.
func (c *Controls) ToggleCanvasBounds() bool {
	c.canvasBounds = !c.canvasBounds
	if c.h.SetDebugCanvasBounds != nil {
		c.h.SetDebugCanvasBounds(c.canvasBounds)
	}
	return c.canvasBounds
}

// OutputRenderInfo asks for the render info to be logged.
func (c *Controls) OutputRenderInfo() {
	if c.h.OutputRenderInfo != nil {
		c.h.OutputRenderInfo()
	}
}

// OutputConfig asks for the configuration to be logged.
func (c *Controls) OutputConfig() {
	if c.h.OutputConfig != nil {
		c.h.OutputConfig()
	}
}

// MonitorFPS switches the FPS monitor on. It stays on.
func (c *Controls) MonitorFPS() {
	if c.monitoringFPS {
		return
	}
	c.monitoringFPS = true
	if c.h.MonitorFPS != nil {
		c.h.MonitorFPS()
	}
}

// Hide hides the panel.
func (c *Controls) Hide() { c.hidden = true }

// Show shows the panel.
func (c *Controls) Show() { c.hidden = false }

// Destroy runs the destroy handler the first time it is called.
func (c *Controls) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	if c.h.Destroy != nil {
		c.h.Destroy()
	}
}

func (c *Controls) StageBounds() bool   { return c.stageBounds }
func (c *Controls) CanvasBounds() bool  { return c.canvasBounds }
func (c *Controls) MonitoringFPS() bool { return c.monitoringFPS }
func (c *Controls) Hidden() bool        { return c.hidden }
func (c *Controls) Destroyed() bool     { return c.destroyed }
