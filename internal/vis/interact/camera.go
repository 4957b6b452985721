// Package interact handles user interactions like pan and zoom.
package interact

import (
	"gioui.org/io/pointer"
	"gioui.org/layout"
)

// Camera manages the view transform (pan and zoom).
type Camera struct {
	OffsetX float32 // Pan offset in screen pixels
	OffsetY float32
	Zoom    float32 // 1.0 = 100%

	dragging bool
	lastX    float32
	lastY    float32
}

// NewCamera creates a camera with default settings.
func NewCamera() *Camera {
	return &Camera{OffsetX: 60, OffsetY: 60, Zoom: 1.0}
}

// Reset restores the default view.
func (c *Camera) Reset() {
	c.OffsetX = 60
	c.OffsetY = 60
	c.Zoom = 1.0
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(worldX, worldY float64) (screenX, screenY float32) {
	screenX = float32(worldX)*c.Zoom + c.OffsetX
	screenY = float32(worldY)*c.Zoom + c.OffsetY
	return
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(screenX, screenY float32) (worldX, worldY float64) {
	worldX = float64((screenX - c.OffsetX) / c.Zoom)
	worldY = float64((screenY - c.OffsetY) / c.Zoom)
	return
}

// HandleEvent processes pointer events for pan and zoom.
func (c *Camera) HandleEvent(gtx layout.Context, ev pointer.Event) {
	switch ev.Kind {
	case pointer.Press:
		if ev.Buttons.Contain(pointer.ButtonSecondary) || ev.Buttons.Contain(pointer.ButtonTertiary) {
			c.dragging = true
		}
		c.lastX = ev.Position.X
		c.lastY = ev.Position.Y

	case pointer.Drag:
		if c.dragging {
			c.OffsetX += ev.Position.X - c.lastX
			c.OffsetY += ev.Position.Y - c.lastY
		}
		c.lastX = ev.Position.X
		c.lastY = ev.Position.Y

	case pointer.Release:
		c.dragging = false

	case pointer.Scroll:
		if ev.Scroll.Y == 0 {
			return
		}
		// Zoom centered on the mouse position.
		worldX, worldY := c.ScreenToWorld(ev.Position.X, ev.Position.Y)
		if ev.Scroll.Y > 0 {
			c.Zoom /= 1.1
		} else {
			c.Zoom *= 1.1
		}
		c.clampZoom()
		newScreenX, newScreenY := c.WorldToScreen(worldX, worldY)
		c.OffsetX += ev.Position.X - newScreenX
		c.OffsetY += ev.Position.Y - newScreenY
	}
}

// FitGrid adjusts the camera so a world rectangle fills the screen area.
func (c *Camera) FitGrid(worldW, worldH float64, screenW, screenH, margin float32) {
	if worldW <= 0 || worldH <= 0 {
		return
	}
	zoomX := (screenW - 2*margin) / float32(worldW)
	zoomY := (screenH - 2*margin) / float32(worldH)
	c.Zoom = zoomX
	if zoomY < zoomX {
		c.Zoom = zoomY
	}
	c.clampZoom()
	c.OffsetX = screenW/2 - float32(worldW/2)*c.Zoom
	c.OffsetY = screenH/2 - float32(worldH/2)*c.Zoom
}

func (c *Camera) clampZoom() {
	if c.Zoom < 0.1 {
		c.Zoom = 0.1
	}
	if c.Zoom > 10 {
		c.Zoom = 10
	}
}
