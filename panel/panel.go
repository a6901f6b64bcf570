package panel

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	panelColor   = color.NRGBA{R: 0x18, G: 0x1c, B: 0x20, A: 230}
	buttonIdle   = color.NRGBA{R: 0x2c, G: 0x33, B: 0x3a, A: 255}
	buttonHover  = color.NRGBA{R: 0x3a, G: 0x44, B: 0x4e, A: 255}
	buttonActive = color.NRGBA{R: 0x00, G: 0x8f, B: 0x6c, A: 255}
	labelColor   = color.NRGBA{R: 0x8c, G: 0x92, B: 0x9a, A: 255}
	textColor    = color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 255}
)

// Panel draws Controls as a column of buttons in the top-right corner.
type Panel struct {
	*Controls
	ui *ebitenui.UI

	stageBtn  *widget.Button
	canvasBtn *widget.Button
	fpsBtn    *widget.Button
}

// New builds the widgets for c.
func New(c *Controls) (*Panel, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("panel: load font: %w", err)
	}
	var face text.Face = &text.GoTextFace{Source: src, Size: 13}

	p := &Panel{Controls: c}
	btnImg := &widget.ButtonImage{
		Idle:    imageui.NewNineSliceColor(buttonIdle),
		Hover:   imageui.NewNineSliceColor(buttonHover),
		Pressed: imageui.NewNineSliceColor(buttonActive),
	}
	btnText := &widget.ButtonTextColor{Idle: textColor}

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(btnImg),
			widget.ButtonOpts.Text(label, &face, btnText),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(180, 24),
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true}),
			),
			widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}
	heading := func(label string) *widget.Text {
		return widget.NewText(widget.TextOpts.Text(label, &face, labelColor))
	}

	p.stageBtn = button(toggleLabel("debugStageBounds", c.StageBounds()), func() {
		setLabel(p.stageBtn, toggleLabel("debugStageBounds", c.ToggleStageBounds()))
	})
	p.canvasBtn = button(toggleLabel("debugCanvasBounds", c.CanvasBounds()), func() {
		setLabel(p.canvasBtn, toggleLabel("debugCanvasBounds", c.ToggleCanvasBounds()))
	})
	p.fpsBtn = button("monitor fps", func() {
		c.MonitorFPS()
		setLabel(p.fpsBtn, "monitor fps: on")
	})

	box := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(panelColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(4),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Bottom: 8, Left: 8, Right: 8}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
			}),
		),
	)
	box.AddChild(heading("Scene"))
	box.AddChild(p.stageBtn)
	box.AddChild(p.canvasBtn)
	box.AddChild(button("outputRenderInfo", c.OutputRenderInfo))
	box.AddChild(heading("Utils"))
	box.AddChild(p.fpsBtn)
	box.AddChild(button("hide panel", c.Hide))
	box.AddChild(button("outputConfig", c.OutputConfig))
	box.AddChild(button("destroy", c.Destroy))

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(box)
	p.ui = &ebitenui.UI{Container: root}
	return p, nil
}

// Update handles input. A hidden panel takes none.
func (p *Panel) Update() {
	if p.Hidden() {
		return
	}
	p.ui.Update()
}

// Draw draws the panel unless it is hidden.
func (p *Panel) Draw(screen *ebiten.Image) {
	if p.Hidden() {
		return
	}
	p.ui.Draw(screen)
}

func toggleLabel(name string, on bool) string {
	if on {
		return name + ": on"
	}
	return name + ": off"
}

func setLabel(b *widget.Button, label string) {
	if b == nil {
		return
	}
	if t := b.Text(); t != nil {
		t.Label = label
	}
}
