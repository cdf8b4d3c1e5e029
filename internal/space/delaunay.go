package space

import (
	"math"
	"sort"

	"github.com/vovakirdan/tui-starwars/internal/core"
)

// Triangle holds indices into the point set passed to Triangulate.
type Triangle [3]int

type edge struct{ a, b int }

// mesh is a triangulation under construction. Triangles are counter-clockwise
// and every directed edge maps to the triangle that owns it.
type mesh struct {
	pts   []core.Vec2
	tris  []Triangle
	owner map[edge]int
	epsO  float64 // orientation tolerance
	epsC  float64 // in-circle tolerance
}

// Triangulate returns a Delaunay triangulation of pts. The triangles cover
// the convex hull of pts exactly: the hull is fanned, the remaining points
// are inserted one by one, and edges are flipped until every edge is
// locally Delaunay. Points lying on an edge split it; repeated points are
// skipped. Output order is deterministic for a given input order. Fewer
// than three non-collinear points yield no triangles.
func Triangulate(pts []core.Vec2) []Triangle {
	if len(pts) < 3 {
		return nil
	}
	hull := convexHull(pts)
	if len(hull) < 3 {
		return nil
	}

	minP, maxP := pts[0], pts[0]
	for _, p := range pts[1:] {
		minP.X, minP.Y = math.Min(minP.X, p.X), math.Min(minP.Y, p.Y)
		maxP.X, maxP.Y = math.Max(maxP.X, p.X), math.Max(maxP.Y, p.Y)
	}
	span := math.Max(maxP.X-minP.X, maxP.Y-minP.Y)

	m := &mesh{
		pts:   pts,
		owner: make(map[edge]int, 6*len(pts)),
		epsO:  1e-12 * span * span,
		epsC:  1e-12 * span * span * span * span,
	}

	onHull := make(map[int]bool, len(hull))
	var stack []edge
	for i := 1; i+1 < len(hull); i++ {
		m.add(Triangle{hull[0], hull[i], hull[i+1]})
		stack = append(stack, edge{hull[i], hull[i+1]}, edge{hull[i+1], hull[0]})
	}
	for _, h := range hull {
		onHull[h] = true
	}
	m.legalize(stack)

	for i := range pts {
		if !onHull[i] {
			m.insert(i)
		}
	}

	if len(m.tris) == 0 {
		return nil
	}
	return m.tris
}

// convexHull returns the indices of the strict convex hull of pts in
// counter-clockwise order (monotone chain). Collinear and repeated points
// are left out.
func convexHull(pts []core.Vec2) []int {
	idx := make([]int, len(pts))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := pts[idx[i]], pts[idx[j]]
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})

	hull := make([]int, 0, 2*len(idx))
	for _, i := range idx {
		for len(hull) >= 2 && orient(pts[hull[len(hull)-2]], pts[hull[len(hull)-1]], pts[i]) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, i)
	}
	lower := len(hull) + 1
	for k := len(idx) - 2; k >= 0; k-- {
		i := idx[k]
		for len(hull) >= lower && orient(pts[hull[len(hull)-2]], pts[hull[len(hull)-1]], pts[i]) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, i)
	}
	return hull[:len(hull)-1]
}

// orient is twice the signed area of abc, positive when counter-clockwise.
func orient(a, b, c core.Vec2) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// inCircle is positive when d lies inside the circumcircle of the
// counter-clockwise triangle abc.
func inCircle(a, b, c, d core.Vec2) float64 {
	adx, ady := a.X-d.X, a.Y-d.Y
	bdx, bdy := b.X-d.X, b.Y-d.Y
	cdx, cdy := c.X-d.X, c.Y-d.Y
	return (adx*adx+ady*ady)*(bdx*cdy-cdx*bdy) -
		(bdx*bdx+bdy*bdy)*(adx*cdy-cdx*ady) +
		(cdx*cdx+cdy*cdy)*(adx*bdy-bdx*ady)
}

func triangleEdges(t Triangle) [3]edge {
	return [3]edge{{t[0], t[1]}, {t[1], t[2]}, {t[2], t[0]}}
}

// third returns the vertex of t that is not on e.
func third(t Triangle, e edge) int {
	for _, v := range t {
		if v != e.a && v != e.b {
			return v
		}
	}
	return t[0]
}

func (m *mesh) link(i int) {
	for _, e := range triangleEdges(m.tris[i]) {
		m.owner[e] = i
	}
}

func (m *mesh) unlink(i int) {
	for _, e := range triangleEdges(m.tris[i]) {
		if m.owner[e] == i {
			delete(m.owner, e)
		}
	}
}

func (m *mesh) add(t Triangle) {
	m.tris = append(m.tris, t)
	m.link(len(m.tris) - 1)
}

func (m *mesh) set(i int, t Triangle) {
	m.unlink(i)
	m.tris[i] = t
	m.link(i)
}

// insert adds point p inside the current triangulation and restores the
// Delaunay property around it.
func (m *mesh) insert(p int) {
	pt := m.pts[p]
	for i, t := range m.tris {
		var o [3]float64
		inside := true
		for k := range 3 {
			o[k] = orient(m.pts[t[k]], m.pts[t[(k+1)%3]], pt)
			if o[k] < -m.epsO {
				inside = false
				break
			}
		}
		if !inside {
			continue
		}

		zero := -1
		for k := range 3 {
			if math.Abs(o[k]) <= m.epsO {
				if zero >= 0 {
					return // p repeats a vertex
				}
				zero = k
			}
		}

		if zero < 0 {
			a, b, c := t[0], t[1], t[2]
			m.set(i, Triangle{a, b, p})
			m.add(Triangle{b, c, p})
			m.add(Triangle{c, a, p})
			m.legalize([]edge{{a, b}, {b, c}, {c, a}})
			return
		}

		// p lies on edge a->b: split this triangle and its neighbour.
		a, b := t[zero], t[(zero+1)%3]
		c := t[(zero+2)%3]
		stack := []edge{{c, a}, {b, c}}
		n, shared := m.owner[edge{b, a}]
		m.set(i, Triangle{a, p, c})
		m.add(Triangle{p, b, c})
		if shared {
			d := third(m.tris[n], edge{b, a})
			m.set(n, Triangle{b, p, d})
			m.add(Triangle{p, a, d})
			stack = append(stack, edge{d, b}, edge{a, d})
		}
		m.legalize(stack)
		return
	}
}

// legalize flips every edge on the stack, and the edges uncovered by each
// flip, until all of them are locally Delaunay.
func (m *mesh) legalize(stack []edge) {
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		t1, ok1 := m.owner[e]
		t2, ok2 := m.owner[edge{e.b, e.a}]
		if !ok1 || !ok2 {
			continue
		}
		a, b := e.a, e.b
		c := third(m.tris[t1], e)
		d := third(m.tris[t2], edge{b, a})
		if inCircle(m.pts[a], m.pts[b], m.pts[c], m.pts[d]) <= m.epsC {
			continue
		}

		m.unlink(t1)
		m.unlink(t2)
		m.tris[t1] = Triangle{a, d, c}
		m.tris[t2] = Triangle{d, b, c}
		m.link(t1)
		m.link(t2)
		stack = append(stack, edge{a, d}, edge{c, a}, edge{d, b}, edge{b, c})
	}
}

// TriangleArea returns the unsigned area of t.
func TriangleArea(pts []core.Vec2, t Triangle) float64 {
	a, b, c := pts[t[0]], pts[t[1]], pts[t[2]]
	return math.Abs((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y)) / 2
}

// Centroid returns the arithmetic mean of t's vertices.
func Centroid(pts []core.Vec2, t Triangle) core.Vec2 {
	return pts[t[0]].Add(pts[t[1]]).Add(pts[t[2]]).Scale(1.0 / 3)
}

// LargestTriangleCentroid triangulates pts and returns the centroid of the
// largest triangle. The first triangle wins ties. ok is false when pts
// cannot be triangulated.
func LargestTriangleCentroid(pts []core.Vec2) (p core.Vec2, ok bool) {
	tris := Triangulate(pts)
	if len(tris) == 0 {
		return core.Vec2{}, false
	}
	best, bestArea := tris[0], TriangleArea(pts, tris[0])
	for _, t := range tris[1:] {
		if a := TriangleArea(pts, t); a > bestArea {
			best, bestArea = t, a
		}
	}
	return Centroid(pts, best), true
}

// SpawnPoints returns the point set used for spawn placement: the four
// arena corners followed by every live ship and shot position. Exact
// duplicates are dropped.
func (r *Registry) SpawnPoints() []core.Vec2 {
	corners := r.arena.Corners()
	pts := make([]core.Vec2, 0, 4+len(r.liveShips)+len(r.liveShots))
	seen := make(map[core.Vec2]struct{}, cap(pts))
	add := func(p core.Vec2) {
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		pts = append(pts, p)
	}
	for _, c := range corners {
		add(c)
	}
	for _, s := range r.liveShips {
		if s.IsAlive() {
			add(s.Position())
		}
	}
	for _, s := range r.liveShots {
		if s.IsAlive() {
			add(s.View().Position())
		}
	}
	return pts
}

// GetSpawnPoint returns the centroid of the largest empty triangle between
// the arena corners and every live ship and shot.
func (r *Registry) GetSpawnPoint() core.Vec2 {
	p, ok := LargestTriangleCentroid(r.SpawnPoints())
	if !ok {
		return core.Vec2{}
	}
	return r.arena.Wrap(p)
}
