package mcpserver

import (
	"container/heap"
	"math"
	"slices"

	"sheet/internal/scene"
)

// ═══════════════════════════════════════════════════════════════
// Orthogonal connector routing with obstacle avoidance
// ═══════════════════════════════════════════════════════════════
//
// A connector leaves the source block from the side facing the target,
// steps out by routeMargin, then follows the cheapest axis-aligned path
// over a sparse grid built from the obstacle edges. Bends are penalised so
// the route prefers few long segments.

const routeMargin = 30.0

type side int

const (
	sideLeft side = iota
	sideRight
	sideTop
	sideBottom
)

func center(r scene.Rect) scene.Vec {
	return scene.Vec{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// facingSides picks the sides of src and dst that look at each other.
func facingSides(src, dst scene.Rect) (side, side) {
	a, b := center(src), center(dst)
	dx, dy := b.X-a.X, b.Y-a.Y
	if math.Abs(dx) >= math.Abs(dy) {
		if dx >= 0 {
			return sideRight, sideLeft
		}
		return sideLeft, sideRight
	}
	if dy >= 0 {
		return sideBottom, sideTop
	}
	return sideTop, sideBottom
}

// port returns the middle of side s and the point routeMargin outside it.
func port(r scene.Rect, s side) (on, out scene.Vec) {
	c := center(r)
	switch s {
	case sideLeft:
		on = scene.Vec{X: r.X, Y: c.Y}
		out = scene.Vec{X: r.X - routeMargin, Y: c.Y}
	case sideRight:
		on = scene.Vec{X: r.Right(), Y: c.Y}
		out = scene.Vec{X: r.Right() + routeMargin, Y: c.Y}
	case sideTop:
		on = scene.Vec{X: c.X, Y: r.Y}
		out = scene.Vec{X: c.X, Y: r.Y - routeMargin}
	default:
		on = scene.Vec{X: c.X, Y: r.Bottom()}
		out = scene.Vec{X: c.X, Y: r.Bottom() + routeMargin}
	}
	return on, out
}

// routeOrtho returns the polyline from src to dst in sheet coordinates.
// obstacles are the other blocks on the page; src and dst must not be
// among them.
func routeOrtho(src, dst scene.Rect, obstacles []scene.Rect) []scene.Vec {
	ss, ds := facingSides(src, dst)
	srcOn, srcOut := port(src, ss)
	dstOn, dstOut := port(dst, ds)

	blockers := append([]scene.Rect{src, dst}, obstacles...)
	mid := findRoute(srcOut, dstOut, blockers)

	path := make([]scene.Vec, 0, len(mid)+2)
	path = append(path, srcOn)
	path = append(path, mid...)
	path = append(path, dstOn)
	return simplifyOrtho(path)
}

// ── Sparse grid ────────────────────────────────────────────

func candidateSpots(origin, dest scene.Vec, blockers []scene.Rect) []scene.Vec {
	xs := []float64{origin.X, dest.X, (origin.X + dest.X) / 2}
	ys := []float64{origin.Y, dest.Y, (origin.Y + dest.Y) / 2}
	for _, r := range blockers {
		xs = append(xs, r.X-routeMargin, r.Right()+routeMargin)
		ys = append(ys, r.Y-routeMargin, r.Bottom()+routeMargin)
	}
	xs, ys = uniqSorted(xs), uniqSorted(ys)

	spots := make([]scene.Vec, 0, len(xs)*len(ys))
	for _, x := range xs {
		for _, y := range ys {
			p := scene.Vec{X: x, Y: y}
			if p != origin && p != dest && insideAny(p, blockers) {
				continue
			}
			spots = append(spots, p)
		}
	}
	return spots
}

func uniqSorted(v []float64) []float64 {
	for i := range v {
		v[i] = math.Round(v[i]*100) / 100
	}
	slices.Sort(v)
	return slices.Compact(v)
}

func insideAny(p scene.Vec, rects []scene.Rect) bool {
	for _, r := range rects {
		if p.X > r.X && p.X < r.Right() && p.Y > r.Y && p.Y < r.Bottom() {
			return true
		}
	}
	return false
}

// crosses reports whether the axis-aligned segment a-b passes through the
// interior of r.
func crosses(a, b scene.Vec, r scene.Rect) bool {
	if a.Y == b.Y {
		if a.Y <= r.Y || a.Y >= r.Bottom() {
			return false
		}
		return math.Min(a.X, b.X) < r.Right() && math.Max(a.X, b.X) > r.X
	}
	if a.X <= r.X || a.X >= r.Right() {
		return false
	}
	return math.Min(a.Y, b.Y) < r.Bottom() && math.Max(a.Y, b.Y) > r.Y
}

// ── Dijkstra ───────────────────────────────────────────────

type axis byte

const (
	axisNone axis = iota
	axisH
	axisV
)

type routeEdge struct {
	to   int
	cost float64
	axis axis
}

type routeNode struct {
	dist  float64
	prev  int
	axis  axis
	index int
}

type nodeQueue struct {
	nodes []*routeNode
	order []int
}

func (q *nodeQueue) Len() int { return len(q.order) }
func (q *nodeQueue) Less(i, j int) bool {
	return q.nodes[q.order[i]].dist < q.nodes[q.order[j]].dist
}
func (q *nodeQueue) Swap(i, j int) { q.order[i], q.order[j] = q.order[j], q.order[i] }
func (q *nodeQueue) Push(x any)    { q.order = append(q.order, x.(int)) }
func (q *nodeQueue) Pop() any {
	n := len(q.order)
	v := q.order[n-1]
	q.order = q.order[:n-1]
	return v
}

// findRoute returns the path from origin to dest. Without a route it falls
// back to an L shape.
func findRoute(origin, dest scene.Vec, blockers []scene.Rect) []scene.Vec {
	spots := candidateSpots(origin, dest, blockers)
	from, to := slices.Index(spots, origin), slices.Index(spots, dest)
	if from < 0 || to < 0 {
		return lShape(origin, dest)
	}
	adj := buildEdges(spots, blockers)

	nodes := make([]*routeNode, len(spots))
	for i := range nodes {
		nodes[i] = &routeNode{dist: math.Inf(1), prev: -1, index: i}
	}
	nodes[from].dist = 0
	visited := make([]bool, len(spots))
	q := &nodeQueue{nodes: nodes}
	heap.Push(q, from)

	for q.Len() > 0 {
		cur := heap.Pop(q).(int)
		if visited[cur] {
			continue
		}
		visited[cur] = true
		if cur == to {
			break
		}
		n := nodes[cur]
		for _, e := range adj[cur] {
			if visited[e.to] {
				continue
			}
			bend := 0.0
			if n.axis != axisNone && n.axis != e.axis {
				bend = (e.cost + 1) * (e.cost + 1)
			}
			if d := n.dist + e.cost + bend; d < nodes[e.to].dist {
				nodes[e.to].dist = d
				nodes[e.to].prev = cur
				nodes[e.to].axis = e.axis
				heap.Push(q, e.to)
			}
		}
	}

	if !visited[to] {
		return lShape(origin, dest)
	}
	var path []scene.Vec
	for i := to; i >= 0; i = nodes[i].prev {
		path = append(path, spots[i])
	}
	slices.Reverse(path)
	return path
}

// buildEdges links every spot to its nearest neighbour on the same row
// and column unless the segment crosses a blocker.
func buildEdges(spots []scene.Vec, blockers []scene.Rect) [][]routeEdge {
	adj := make([][]routeEdge, len(spots))
	link := func(idx []int, a axis) {
		for k := 0; k+1 < len(idx); k++ {
			i, j := idx[k], idx[k+1]
			blocked := false
			for _, r := range blockers {
				if crosses(spots[i], spots[j], r) {
					blocked = true
					break
				}
			}
			if blocked {
				continue
			}
			cost := math.Abs(spots[i].X-spots[j].X) + math.Abs(spots[i].Y-spots[j].Y)
			adj[i] = append(adj[i], routeEdge{to: j, cost: cost, axis: a})
			adj[j] = append(adj[j], routeEdge{to: i, cost: cost, axis: a})
		}
	}

	cols := map[float64][]int{}
	rows := map[float64][]int{}
	for i, p := range spots {
		cols[p.X] = append(cols[p.X], i)
		rows[p.Y] = append(rows[p.Y], i)
	}
	for _, idx := range cols {
		slices.SortFunc(idx, func(a, b int) int { return cmpFloat(spots[a].Y, spots[b].Y) })
		link(idx, axisV)
	}
	for _, idx := range rows {
		slices.SortFunc(idx, func(a, b int) int { return cmpFloat(spots[a].X, spots[b].X) })
		link(idx, axisH)
	}
	return adj
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func lShape(a, b scene.Vec) []scene.Vec {
	return []scene.Vec{a, {X: b.X, Y: a.Y}, b}
}

// simplifyOrtho drops repeated and collinear waypoints.
func simplifyOrtho(pts []scene.Vec) []scene.Vec {
	out := make([]scene.Vec, 0, len(pts))
	for _, p := range pts {
		if n := len(out); n > 0 && out[n-1] == p {
			continue
		}
		if n := len(out); n >= 2 {
			a, b := out[n-2], out[n-1]
			if (a.X == b.X && b.X == p.X) || (a.Y == b.Y && b.Y == p.Y) {
				out[n-1] = p
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
