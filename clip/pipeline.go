package clip

import (
	"fmt"
	"math"
	"sort"

	vec3d "github.com/flywave/go3d/float64/vec3"

	"github.com/notargets/DGRemap/element"
	"github.com/notargets/DGRemap/grid"
	"github.com/notargets/DGRemap/mesh"
)

// Stage is one step of the clip pipeline. Stage n clips against the n-th
// half-space returned by ClipPlaneSet.Bounding.
type Stage uint8

const (
	Left Stage = iota
	Right
	Top
	Bottom
	Front
	Back
)

func (s Stage) String() string {
	switch s {
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Top:
		return "Top"
	case Bottom:
		return "Bottom"
	case Front:
		return "Front"
	case Back:
		return "Back"
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// Stages returns the pipeline stages for a 2D or 3D grid, in order
func Stages(is3D bool) []Stage {
	if is3D {
		return []Stage{Left, Right, Top, Bottom, Front, Back}
	}
	return []Stage{Left, Right, Top, Bottom}
}

// Piece is the overlap of one source cell with a target cell. Measure is an
// area for 2D source cells and a volume for 3D source cells.
type Piece struct {
	Cell    int
	Measure float64
}

// Fragment is everything of a leaf mesh lying inside one target cell
type Fragment struct {
	Target int
	Pieces []Piece
}

// Measure returns the total measure of the fragment
func (f *Fragment) Measure() float64 {
	var m float64
	for _, p := range f.Pieces {
		m += p.Measure
	}
	return m
}

// Leaf is a source mesh decomposed into convex pieces and binned against
// the target grid
type Leaf struct {
	Mesh *mesh.SourceMesh

	polygons  [][]Polygon
	polyhedra [][]*Polyhedron
	measures  []float64 // summed measure of the convex pieces of each cell
	boxes     []vec3d.Box

	// candidates[target] are the cells whose boxes touch the target cell
	candidates [][]int
}

// Targets returns the target cells with at least one candidate, in order
func (l *Leaf) Targets() []int {
	var out []int
	for t, c := range l.candidates {
		if len(c) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// Pipeline clips leaf meshes against the cells of a target grid
type Pipeline struct {
	Grid   *grid.TargetGrid
	Planes *ClipPlaneSet
}

func NewPipeline(g *grid.TargetGrid, planes *ClipPlaneSet) *Pipeline {
	return &Pipeline{Grid: g, Planes: planes}
}

// Prepare decomposes the cells of m and bins them. Cells of kinds without
// an area or volume are left out.
func (p *Pipeline) Prepare(m *mesh.SourceMesh) *Leaf {
	nc := m.NumCells()
	leaf := &Leaf{
		Mesh:       m,
		polygons:   make([][]Polygon, nc),
		polyhedra:  make([][]*Polyhedron, nc),
		measures:   make([]float64, nc),
		boxes:      make([]vec3d.Box, nc),
		candidates: make([][]int, p.Grid.NumCells()),
	}
	for c, cell := range m.Cells {
		pts := m.CellPoints(c)
		simplices := element.Simplices(cell.Kind)
		if len(simplices) == 0 || len(pts) < cell.Kind.NumPoints() {
			continue
		}
		switch cell.Kind.Dimensions() {
		case element.D2:
			for _, s := range simplices {
				tri := Polygon{pts[s[0]], pts[s[1]], pts[s[2]]}
				leaf.polygons[c] = append(leaf.polygons[c], tri)
				leaf.measures[c] += tri.Area()
			}
		case element.D3:
			for _, s := range simplices {
				tet := NewTetrahedron(pts[s[0]], pts[s[1]], pts[s[2]], pts[s[3]])
				leaf.polyhedra[c] = append(leaf.polyhedra[c], tet)
				leaf.measures[c] += element.TetVolume(&pts[s[0]], &pts[s[1]], &pts[s[2]], &pts[s[3]])
			}
		}
		box := mesh.EmptyBox()
		for i := range pts {
			box.Extend(&pts[i])
		}
		leaf.boxes[c] = box
		p.bin(leaf, c)
	}
	return leaf
}

func (p *Pipeline) bin(leaf *Leaf, c int) {
	g, tol := p.Grid, p.Planes.Tol
	box := leaf.boxes[c]
	i0, i1 := cellRange(g.X, box.Min[0], box.Max[0], tol)
	j0, j1 := cellRange(g.Y, box.Min[1], box.Max[1], tol)
	k0, k1 := 0, 0
	if g.Is3D {
		k0, k1 = cellRange(g.Z, box.Min[2], box.Max[2], tol)
	}
	for k := k0; k <= k1; k++ {
		for j := j0; j <= j1; j++ {
			for i := i0; i <= i1; i++ {
				t := g.Index(i, j, k)
				leaf.candidates[t] = append(leaf.candidates[t], c)
			}
		}
	}
}

// cellRange returns the first and last cells along coords overlapped by
// [lo,hi]; last < first when there are none
func cellRange(coords []float64, lo, hi, tol float64) (first, last int) {
	n := len(coords) - 1
	first = sort.Search(n, func(i int) bool { return coords[i+1] >= lo-tol })
	last = sort.Search(n, func(i int) bool { return coords[i] > hi+tol }) - 1
	return
}

// targetBox returns the box of target cell t. A 2D grid does not bound z.
func (p *Pipeline) targetBox(t int) vec3d.Box {
	g := p.Grid
	i, j, k := g.Unindex(t)
	box := vec3d.Box{
		Min: vec3d.T{g.X[i], g.Y[j], math.Inf(-1)},
		Max: vec3d.T{g.X[i+1], g.Y[j+1], math.Inf(1)},
	}
	if g.Is3D {
		box.Min[2], box.Max[2] = g.Z[k], g.Z[k+1]
	}
	return box
}

func contains(outer, inner vec3d.Box, tol float64) bool {
	for d := 0; d < 3; d++ {
		if inner.Min[d] < outer.Min[d]-tol || inner.Max[d] > outer.Max[d]+tol {
			return false
		}
	}
	return true
}

type work struct {
	cell      int
	polygons  []Polygon
	polyhedra []*Polyhedron
}

// Clip runs the candidate cells of leaf through the stages of target cell
// t. Cells lying inside the target cell pass through whole; an empty
// fragment means no overlap.
func (p *Pipeline) Clip(leaf *Leaf, t int) *Fragment {
	frag := &Fragment{Target: t}
	if t < 0 || t >= len(leaf.candidates) {
		return frag
	}
	var (
		tb      = p.targetBox(t)
		pending []work
	)
	for _, c := range leaf.candidates[t] {
		if contains(tb, leaf.boxes[c], p.Planes.Tol) {
			if leaf.measures[c] > 0 {
				frag.Pieces = append(frag.Pieces, Piece{Cell: c, Measure: leaf.measures[c]})
			}
			continue
		}
		pending = append(pending, work{cell: c, polygons: leaf.polygons[c], polyhedra: leaf.polyhedra[c]})
	}

	i, j, k := p.Grid.Unindex(t)
	bounding := p.Planes.Bounding(i, j, k, p.Grid.Is3D)
	for _, stage := range Stages(p.Grid.Is3D) {
		pending = clipStage(pending, bounding[stage])
		if len(pending) == 0 {
			break
		}
	}

	for _, w := range pending {
		var m float64
		for _, poly := range w.polygons {
			m += poly.Area()
		}
		for _, ph := range w.polyhedra {
			m += ph.Volume()
		}
		if m > 0 {
			frag.Pieces = append(frag.Pieces, Piece{Cell: w.cell, Measure: m})
		}
	}
	sort.Slice(frag.Pieces, func(a, b int) bool { return frag.Pieces[a].Cell < frag.Pieces[b].Cell })
	return frag
}

// clipStage clips every pending cell against h, dropping the cells with
// nothing left on the retained side
func clipStage(pending []work, h HalfSpace) []work {
	out := pending[:0]
	for _, w := range pending {
		var next work
		next.cell = w.cell
		for _, poly := range w.polygons {
			if cp := ClipPolygon(poly, h); cp != nil {
				next.polygons = append(next.polygons, cp)
			}
		}
		for _, ph := range w.polyhedra {
			if cp := ClipPolyhedron(ph, h); cp != nil {
				next.polyhedra = append(next.polyhedra, cp)
			}
		}
		if len(next.polygons)+len(next.polyhedra) > 0 {
			out = append(out, next)
		}
	}
	return out
}
