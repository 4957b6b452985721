package nav

import (
	"container/heap"
	"errors"

	"github.com/elektrokombinacija/logibots/internal/core"
)

// ErrNoRoute reports that the target cannot be reached from the source.
// Unreachability is a normal planning outcome, never a panic.
var ErrNoRoute = errors.New("no route")

// distNode for priority queue.
type distNode struct {
	p     core.Point
	dist  float64
	index int // heap index
}

// distHeap implements heap.Interface.
type distHeap []*distNode

func (h distHeap) Len() int           { return len(h) }
func (h distHeap) Less(i, j int) bool { return h[i].dist < h[j].dist }
func (h distHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *distHeap) Push(x any) {
	n := x.(*distNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *distHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// ShortestPaths runs Dijkstra from source over the graph and returns the
// distance and predecessor maps. Weights are non-negative by construction.
func ShortestPaths(g *Graph, source core.Point) (map[core.Point]float64, map[core.Point]core.Point) {
	dist := make(map[core.Point]float64, g.NodeCount())
	prev := make(map[core.Point]core.Point)
	if !g.Traversable(source) {
		return dist, prev
	}

	open := &distHeap{}
	heap.Init(open)
	heap.Push(open, &distNode{p: source, dist: 0})
	dist[source] = 0
	settled := make(map[core.Point]bool)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*distNode)
		if settled[cur.p] {
			continue
		}
		settled[cur.p] = true

		for _, e := range g.Neighbors(cur.p) {
			next := cur.dist + e.Weight
			if d, seen := dist[e.To]; !seen || next < d {
				dist[e.To] = next
				prev[e.To] = cur.p
				heap.Push(open, &distNode{p: e.To, dist: next})
			}
		}
	}
	return dist, prev
}

// ReconstructRoute walks predecessors back from target to source and returns
// the route including both endpoints. Returns ErrNoRoute when target was
// never reached.
func ReconstructRoute(source, target core.Point, prev map[core.Point]core.Point) ([]core.Point, error) {
	if source == target {
		return []core.Point{source}, nil
	}
	if _, ok := prev[target]; !ok {
		return nil, ErrNoRoute
	}
	var route []core.Point
	for p := target; p != source; p = prev[p] {
		route = append(route, p)
		if _, ok := prev[p]; !ok && p != source {
			return nil, ErrNoRoute
		}
	}
	route = append(route, source)
	for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
		route[i], route[j] = route[j], route[i]
	}
	return route, nil
}

// Route is a convenience wrapper running ShortestPaths plus reconstruction
// for a single target. Returns the route and its total weighted length.
func Route(g *Graph, source, target core.Point) ([]core.Point, float64, error) {
	dist, prev := ShortestPaths(g, source)
	route, err := ReconstructRoute(source, target, prev)
	if err != nil {
		return nil, 0, err
	}
	return route, dist[target], nil
}

// NearestReachable returns the candidate with the smallest path distance
// from source, or ErrNoRoute when none is reachable.
func NearestReachable(g *Graph, source core.Point, candidates []core.Point) (core.Point, float64, error) {
	dist, _ := ShortestPaths(g, source)
	best := core.Point{}
	bestDist := 0.0
	found := false
	for _, c := range candidates {
		d, ok := dist[c]
		if !ok {
			continue
		}
		if !found || d < bestDist {
			best, bestDist, found = c, d, true
		}
	}
	if !found {
		return core.Point{}, 0, ErrNoRoute
	}
	return best, bestDist, nil
}
