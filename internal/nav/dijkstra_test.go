package nav

import (
	"errors"
	"testing"

	"github.com/elektrokombinacija/logibots/internal/core"
)

func openGrid(w, h int) core.Grid {
	return core.NewGrid(core.Point{}, w, h)
}

func emptyGraph(grid core.Grid) *Graph {
	return Build(grid, nil, nil, nil, "", 1.0)
}

func TestRoute_StraightLine(t *testing.T) {
	g := emptyGraph(openGrid(5, 5))

	route, dist, err := Route(g, core.Point{X: 0, Y: 0}, core.Point{X: 4, Y: 0})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(route) != 5 {
		t.Errorf("route length = %d, want 5", len(route))
	}
	if dist != 4 {
		t.Errorf("dist = %v, want 4", dist)
	}
}

func TestRoute_OrthogonalSteps(t *testing.T) {
	g := emptyGraph(openGrid(6, 6))

	route, _, err := Route(g, core.Point{X: 0, Y: 0}, core.Point{X: 5, Y: 5})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if route[0] != (core.Point{X: 0, Y: 0}) || route[len(route)-1] != (core.Point{X: 5, Y: 5}) {
		t.Fatalf("route endpoints %v .. %v", route[0], route[len(route)-1])
	}
	for i := 1; i < len(route); i++ {
		if route[i-1].ManhattanTo(route[i]) != 1 {
			t.Errorf("step %d: %v -> %v is not orthogonal unit", i, route[i-1], route[i])
		}
	}
	// Manhattan optimality on an open grid.
	if len(route) != 11 {
		t.Errorf("route length = %d, want 11", len(route))
	}
}

func TestRoute_AroundChestWall(t *testing.T) {
	grid := openGrid(5, 5)
	chests := map[core.ChestID]*core.Chest{}
	// Wall of chests at x=2, with a gap at y=4.
	for y := 0; y < 4; y++ {
		id := core.ChestID(string(rune('a' + y)))
		chests[id] = core.NewChest(id, core.Point{X: 2, Y: y}, 10, core.StorageBehavior())
	}
	g := Build(grid, chests, nil, nil, "", 1.0)

	route, dist, err := Route(g, core.Point{X: 0, Y: 0}, core.Point{X: 4, Y: 0})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	for _, p := range route {
		if p.X == 2 && p.Y < 4 {
			t.Errorf("route passes through chest cell %v", p)
		}
	}
	if dist != 12 {
		t.Errorf("dist = %v, want 12 (detour through the gap)", dist)
	}
}

func TestRoute_Unreachable(t *testing.T) {
	grid := openGrid(3, 3)
	chests := map[core.ChestID]*core.Chest{}
	// Box in the corner cell.
	chests["a"] = core.NewChest("a", core.Point{X: 1, Y: 0}, 10, core.StorageBehavior())
	chests["b"] = core.NewChest("b", core.Point{X: 0, Y: 1}, 10, core.StorageBehavior())
	chests["c"] = core.NewChest("c", core.Point{X: 1, Y: 1}, 10, core.StorageBehavior())
	g := Build(grid, chests, nil, nil, "", 1.0)

	_, _, err := Route(g, core.Point{X: 2, Y: 2}, core.Point{X: 0, Y: 0})
	if !errors.Is(err, ErrNoRoute) {
		t.Errorf("err = %v, want ErrNoRoute", err)
	}
}

func TestRoute_SourceEqualsTarget(t *testing.T) {
	g := emptyGraph(openGrid(3, 3))
	route, dist, err := Route(g, core.Point{X: 1, Y: 1}, core.Point{X: 1, Y: 1})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(route) != 1 || dist != 0 {
		t.Errorf("route = %v dist = %v, want single cell at zero cost", route, dist)
	}
}

func TestBuild_OtherRobotsBlock(t *testing.T) {
	grid := openGrid(3, 1)
	robots := map[core.RobotID]*core.Robot{
		"r1": core.NewRobot("r1", core.Point{X: 0, Y: 0}, 100, 10),
		"r2": core.NewRobot("r2", core.Point{X: 1, Y: 0}, 100, 10),
	}
	g := Build(grid, nil, robots, nil, "r1", 1.0)

	if !g.Traversable(core.Point{X: 0, Y: 0}) {
		t.Error("planning robot's own cell must stay traversable")
	}
	if g.Traversable(core.Point{X: 1, Y: 0}) {
		t.Error("other robot's cell must be blocked")
	}
	if _, _, err := Route(g, core.Point{X: 0, Y: 0}, core.Point{X: 2, Y: 0}); !errors.Is(err, ErrNoRoute) {
		t.Errorf("err = %v, want ErrNoRoute past a blocking robot", err)
	}
}

func TestBuild_WeightsScaleWithFactor(t *testing.T) {
	g := Build(openGrid(4, 1), nil, nil, nil, "", 1.5)
	_, dist, err := Route(g, core.Point{X: 0, Y: 0}, core.Point{X: 3, Y: 0})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if dist != 4.5 {
		t.Errorf("dist = %v, want 4.5", dist)
	}
}

func TestNearestReachable(t *testing.T) {
	g := emptyGraph(openGrid(5, 5))
	candidates := []core.Point{
		{X: 4, Y: 4},
		{X: 1, Y: 0},
		{X: 0, Y: 3},
	}
	best, dist, err := NearestReachable(g, core.Point{X: 0, Y: 0}, candidates)
	if err != nil {
		t.Fatalf("NearestReachable: %v", err)
	}
	if best != (core.Point{X: 1, Y: 0}) || dist != 1 {
		t.Errorf("best = %v dist = %v, want {1 0} at 1", best, dist)
	}

	_, _, err = NearestReachable(g, core.Point{X: 0, Y: 0}, nil)
	if !errors.Is(err, ErrNoRoute) {
		t.Errorf("no candidates: err = %v, want ErrNoRoute", err)
	}
}
