package draw

import (
	"image/color"

	"gioui.org/layout"

	"github.com/elektrokombinacija/logibots/internal/sim"
	"github.com/elektrokombinacija/logibots/internal/vis/interact"
)

// Cell colors.
var (
	colorGridLine  = color.NRGBA{R: 55, G: 58, B: 65, A: 255}
	colorChest     = color.NRGBA{R: 170, G: 130, B: 70, A: 255}
	colorChestFill = color.NRGBA{R: 230, G: 190, B: 90, A: 255}
	colorPort      = color.NRGBA{R: 90, G: 170, B: 250, A: 255}
	colorCoverage  = color.NRGBA{R: 90, G: 170, B: 250, A: 45}
	colorRoute     = color.NRGBA{R: 120, G: 220, B: 160, A: 160}
	colorBattery   = color.NRGBA{R: 110, G: 220, B: 110, A: 255}
	colorBatteryBg = color.NRGBA{R: 60, G: 60, B: 60, A: 255}
)

// Robot colors by state.
var robotColors = map[string]color.NRGBA{
	"ACTIVE":     {R: 100, G: 200, B: 255, A: 255},
	"PASSIVE":    {R: 160, G: 160, B: 170, A: 255},
	"EN_MISSION": {R: 120, G: 230, B: 140, A: 255},
	"CHARGING":   {R: 250, G: 210, B: 90, A: 255},
	"INACTIVE":   {R: 90, G: 90, B: 95, A: 255},
}

// RobotColor returns the state color of a robot snapshot.
func RobotColor(state string) color.NRGBA {
	if c, ok := robotColors[state]; ok {
		return c
	}
	return robotColors["PASSIVE"]
}

func cellCenter(cam *interact.Camera, cell float64, x, y int, originX, originY int) (float32, float32) {
	wx := (float64(x-originX) + 0.5) * cell
	wy := (float64(y-originY) + 0.5) * cell
	return cam.WorldToScreen(wx, wy)
}

// DrawWorld renders one snapshot: grid, port coverage, chests, routes and
// robots, back to front.
func DrawWorld(gtx layout.Context, snap sim.Snapshot, cam *interact.Camera, cell float64) {
	drawGridLines(gtx, snap, cam, cell)
	for _, p := range snap.Ports {
		drawPort(gtx, snap, p, cam, cell)
	}
	for _, c := range snap.Chests {
		drawChest(gtx, snap, c, cam, cell)
	}
	for _, r := range snap.Robots {
		drawRoute(gtx, snap, r, cam, cell)
	}
	for _, r := range snap.Robots {
		drawRobot(gtx, snap, r, cam, cell)
	}
}

func drawGridLines(gtx layout.Context, snap sim.Snapshot, cam *interact.Camera, cell float64) {
	g := snap.Grid
	w := float64(g.Width) * cell
	h := float64(g.Height) * cell
	lineW := float32(1)
	for x := 0; x <= g.Width; x++ {
		x1, y1 := cam.WorldToScreen(float64(x)*cell, 0)
		x2, y2 := cam.WorldToScreen(float64(x)*cell, h)
		strokeLine(gtx, x1, y1, x2, y2, lineW, colorGridLine)
	}
	for y := 0; y <= g.Height; y++ {
		x1, y1 := cam.WorldToScreen(0, float64(y)*cell)
		x2, y2 := cam.WorldToScreen(w, float64(y)*cell)
		strokeLine(gtx, x1, y1, x2, y2, lineW, colorGridLine)
	}
}

func drawPort(gtx layout.Context, snap sim.Snapshot, p sim.PortSnapshot, cam *interact.Camera, cell float64) {
	cx, cy := cellCenter(cam, cell, p.X, p.Y, snap.Grid.OriginX, snap.Grid.OriginY)
	coverage := float32(p.Range*cell) * cam.Zoom
	fillCircle(gtx, cx, cy, coverage, colorCoverage)
	strokeCircle(gtx, cx, cy, coverage, 1, colorPort)
	fillCircle(gtx, cx, cy, float32(cell*0.35)*cam.Zoom, colorPort)
}

func drawChest(gtx layout.Context, snap sim.Snapshot, c sim.ChestSnapshot, cam *interact.Camera, cell float64) {
	cx, cy := cellCenter(cam, cell, c.X, c.Y, snap.Grid.OriginX, snap.Grid.OriginY)
	size := float32(cell*0.8) * cam.Zoom
	fillSquare(gtx, cx, cy, size, colorChest)

	// Fill level rises from the bottom of the square.
	total := 0
	for _, qty := range c.Inventory {
		total += qty
	}
	if c.Capacity > 0 && total > 0 {
		frac := float32(total) / float32(c.Capacity)
		if frac > 1 {
			frac = 1
		}
		fillRect(gtx, cx-size/2, cy+size/2-size*frac, size, size*frac, colorChestFill)
	}
}

func drawRoute(gtx layout.Context, snap sim.Snapshot, r sim.RobotSnapshot, cam *interact.Camera, cell float64) {
	if len(r.Route) < 2 {
		return
	}
	for i := 1; i < len(r.Route); i++ {
		a := r.Route[i-1]
		b := r.Route[i]
		x1, y1 := cellCenter(cam, cell, a.X, a.Y, snap.Grid.OriginX, snap.Grid.OriginY)
		x2, y2 := cellCenter(cam, cell, b.X, b.Y, snap.Grid.OriginX, snap.Grid.OriginY)
		strokeLine(gtx, x1, y1, x2, y2, 2*cam.Zoom, colorRoute)
	}
}

func drawRobot(gtx layout.Context, snap sim.Snapshot, r sim.RobotSnapshot, cam *interact.Camera, cell float64) {
	cx, cy := cellCenter(cam, cell, r.X, r.Y, snap.Grid.OriginX, snap.Grid.OriginY)
	radius := float32(cell*0.3) * cam.Zoom
	fillCircle(gtx, cx, cy, radius, RobotColor(r.State))

	// Battery bar above the body.
	if r.MaxBattery > 0 {
		barW := radius * 2
		barH := float32(3) * cam.Zoom
		frac := float32(r.Battery) / float32(r.MaxBattery)
		fillRect(gtx, cx-barW/2, cy-radius-2*barH, barW, barH, colorBatteryBg)
		fillRect(gtx, cx-barW/2, cy-radius-2*barH, barW*frac, barH, colorBattery)
	}
}
