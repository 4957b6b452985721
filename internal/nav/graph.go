// Package nav builds per-planning-call traversability graphs over the grid
// and finds shortest routes on them.
package nav

import "github.com/elektrokombinacija/logibots/internal/core"

// Edge is a weighted link to an orthogonally adjacent cell.
type Edge struct {
	To     core.Point
	Weight float64
}

// Graph is the traversable-cell graph for one planning query. Obstacle
// occupancy changes every tick, so graphs are rebuilt fresh per query and
// never updated incrementally.
type Graph struct {
	adj map[core.Point][]Edge
}

// Traversable reports whether p is a node in the graph.
func (g *Graph) Traversable(p core.Point) bool {
	_, ok := g.adj[p]
	return ok
}

// Neighbors returns the outgoing edges of p.
func (g *Graph) Neighbors(p core.Point) []Edge {
	return g.adj[p]
}

// NodeCount returns the number of traversable cells.
func (g *Graph) NodeCount() int {
	return len(g.adj)
}

// Build constructs the traversability graph for one planning robot.
// A cell is an obstacle when it holds a chest, a robot other than the
// planning robot, or a port occupied by an ACTIVE robot other than the
// planning robot. Edges join 4-orthogonally adjacent traversable cells in
// both directions, weighted by step distance times the consumption factor.
func Build(
	grid core.Grid,
	chests map[core.ChestID]*core.Chest,
	robots map[core.RobotID]*core.Robot,
	ports map[core.PortID]*core.RoboPort,
	planning core.RobotID,
	consumptionFactor float64,
) *Graph {
	blocked := make(map[core.Point]bool)
	for _, c := range chests {
		blocked[c.Pos] = true
	}
	for _, r := range robots {
		if r.ID == planning {
			continue
		}
		blocked[r.Pos] = true
	}
	for _, rp := range ports {
		for _, r := range robots {
			if r.ID != planning && r.Pos == rp.Pos && r.State == core.StateActive {
				blocked[rp.Pos] = true
			}
		}
	}

	g := &Graph{adj: make(map[core.Point][]Edge)}
	return buildEdges(g, grid, blocked, consumptionFactor)
}

func buildEdges(g *Graph, grid core.Grid, blocked map[core.Point]bool, factor float64) *Graph {
	for y := grid.Origin.Y; y < grid.Origin.Y+grid.Height; y++ {
		for x := grid.Origin.X; x < grid.Origin.X+grid.Width; x++ {
			p := core.Point{X: x, Y: y}
			if blocked[p] {
				continue
			}
			g.adj[p] = nil
		}
	}
	for p := range g.adj {
		for _, q := range p.OrthogonalNeighbors() {
			if !grid.Contains(q) || blocked[q] {
				continue
			}
			g.adj[p] = append(g.adj[p], Edge{To: q, Weight: p.DistanceTo(q) * factor})
		}
	}
	return g
}
