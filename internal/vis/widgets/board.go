// Package widgets contains the visualizer's interactive components.
package widgets

import (
	"image"
	"image/color"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/logibots/internal/vis/draw"
	"github.com/elektrokombinacija/logibots/internal/vis/interact"
	"github.com/elektrokombinacija/logibots/internal/vis/state"
)

// Board renders the simulation world and routes pointer input to the
// camera.
type Board struct {
	state  *state.State
	camera *interact.Camera
	fitted bool
}

// NewBoard creates the world view.
func NewBoard(st *state.State, cam *interact.Camera) *Board {
	return &Board{state: st, camera: cam}
}

// Layout renders the board into the remaining space.
func (b *Board) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	size := gtx.Constraints.Max

	rect := image.Rect(0, 0, size.X, size.Y)
	paint.FillShape(gtx.Ops, color.NRGBA{R: 24, G: 26, B: 30, A: 255}, clip.Rect(rect).Op())

	defer clip.Rect(rect).Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, b)

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  b,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -10, Max: 10},
		})
		if !ok {
			break
		}
		if pe, ok := ev.(pointer.Event); ok {
			b.camera.HandleEvent(gtx, pe)
		}
	}

	snap := b.state.Snapshot()
	if !b.fitted && snap.Grid.Width > 0 {
		b.camera.FitGrid(
			float64(snap.Grid.Width)*state.CellSize,
			float64(snap.Grid.Height)*state.CellSize,
			float32(size.X), float32(size.Y), 40,
		)
		b.fitted = true
	}

	draw.DrawWorld(gtx, snap, b.camera, state.CellSize)
	return layout.Dimensions{Size: size}
}

// Refit re-centers the camera on the grid next frame.
func (b *Board) Refit() {
	b.fitted = false
}
