// Package vis implements a Gio-based viewer for the fleet simulation.
package vis

import (
	"image/color"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/logibots/internal/service"
	"github.com/elektrokombinacija/logibots/internal/vis/interact"
	"github.com/elektrokombinacija/logibots/internal/vis/state"
	"github.com/elektrokombinacija/logibots/internal/vis/widgets"
)

// App is the visualizer application.
type App struct {
	state   *state.State
	theme   *material.Theme
	board   *widgets.Board
	toolbar *widgets.Toolbar
	camera  *interact.Camera
}

// NewApp wires the viewer to a simulation service.
func NewApp(svc *service.Service) *App {
	th := material.NewTheme()
	st := state.NewState(svc)
	camera := interact.NewCamera()
	board := widgets.NewBoard(st, camera)
	toolbar := widgets.NewToolbar(st)
	toolbar.OnReset = board.Refit

	return &App{
		state:   st,
		theme:   th,
		board:   board,
		toolbar: toolbar,
		camera:  camera,
	}
}

// Run starts the application event loop.
func (a *App) Run(w *app.Window) error {
	var ops op.Ops

	tag := new(int)

	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			a.state.Service.Pause()
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			for {
				ev, ok := gtx.Event(key.Filter{Focus: tag, Optional: key.ModCtrl | key.ModShift})
				if !ok {
					break
				}
				if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
					a.handleKeyEvent(ke)
				}
			}
			event.Op(gtx.Ops, tag)

			a.layout(gtx)
			e.Frame(gtx.Ops)

			// Redraw continuously while the timer drives ticks.
			if a.state.Running() {
				w.Invalidate()
			}
		}
	}
}

func (a *App) handleKeyEvent(e key.Event) {
	switch e.Name {
	case key.NameSpace:
		if a.state.Running() {
			a.state.Service.Pause()
		} else {
			a.state.Service.Start()
		}
	case key.NameRightArrow:
		_, _ = a.state.Service.StepOnce()
	case "R":
		a.camera.Reset()
		a.board.Refit()
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	paint.Fill(gtx.Ops, color.NRGBA{R: 30, G: 30, B: 35, A: 255})

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.toolbar.Layout(gtx, a.theme)
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return a.board.Layout(gtx, a.theme)
		}),
	)
}
