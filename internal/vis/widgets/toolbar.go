package widgets

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/logibots/internal/service"
	"github.com/elektrokombinacija/logibots/internal/vis/state"
)

// Toolbar provides simulation control buttons and a status readout.
type Toolbar struct {
	state *state.State

	startBtn widget.Clickable
	pauseBtn widget.Clickable
	stepBtn  widget.Clickable
	resetBtn widget.Clickable

	// OnReset lets the app refit the camera after a scenario reload.
	OnReset func()
}

// NewToolbar creates the control bar.
func NewToolbar(st *state.State) *Toolbar {
	return &Toolbar{state: st}
}

// Layout renders the toolbar.
func (t *Toolbar) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	height := 48
	rect := image.Rect(0, 0, gtx.Constraints.Max.X, height)
	paint.FillShape(gtx.Ops, color.NRGBA{R: 40, G: 43, B: 48, A: 255}, clip.Rect(rect).Op())

	t.handleClicks(gtx)

	return layout.Inset{Left: unit.Dp(10), Right: unit.Dp(10), Top: unit.Dp(8), Bottom: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle, Spacing: layout.SpaceStart}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if t.state.Running() {
					return t.button(gtx, th, &t.pauseBtn, "||")
				}
				return t.button(gtx, th, &t.startBtn, ">")
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.button(gtx, th, &t.stepBtn, ">|")
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.button(gtx, th, &t.resetBtn, "[]")
			}),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return layout.Dimensions{}
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				snap := t.state.Snapshot()
				text := fmt.Sprintf("%s  cycle %d", t.state.Service.Status(), snap.Cycle)
				if snap.Stable {
					text += "  (stable)"
				}
				label := material.Label(th, 13, text)
				label.Color = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
				return label.Layout(gtx)
			}),
		)
	})
}

func (t *Toolbar) handleClicks(gtx layout.Context) {
	for t.startBtn.Clicked(gtx) {
		t.state.Service.Start()
	}
	for t.pauseBtn.Clicked(gtx) {
		t.state.Service.Pause()
	}
	for t.stepBtn.Clicked(gtx) {
		if _, err := t.state.Service.StepOnce(); err == service.ErrNotPaused {
			t.state.Service.Pause()
		}
	}
	for t.resetBtn.Clicked(gtx) {
		if err := t.state.Service.Reset(); err == nil {
			t.state.Refresh()
			if t.OnReset != nil {
				t.OnReset()
			}
		}
	}
}

func (t *Toolbar) button(gtx layout.Context, th *material.Theme, btn *widget.Clickable, text string) layout.Dimensions {
	bg := color.NRGBA{R: 55, G: 58, B: 65, A: 255}
	if btn.Hovered() {
		bg.R += 15
		bg.G += 15
		bg.B += 15
	}
	return btn.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Background{}.Layout(gtx,
			func(gtx layout.Context) layout.Dimensions {
				gtx.Constraints.Min = image.Point{X: 32, Y: 28}
				rect := image.Rect(0, 0, gtx.Constraints.Min.X, gtx.Constraints.Min.Y)
				paint.FillShape(gtx.Ops, bg, clip.Rect(rect).Op())
				return layout.Dimensions{Size: gtx.Constraints.Min}
			},
			func(gtx layout.Context) layout.Dimensions {
				return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					label := material.Label(th, 12, text)
					label.Color = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
					return label.Layout(gtx)
				})
			},
		)
	})
}
