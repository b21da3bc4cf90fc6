package clip

import (
	"math"

	vec3d "github.com/flywave/go3d/float64/vec3"

	"github.com/notargets/DGRemap/grid"
)

// Plane is an oriented plane through Origin with unit Normal
type Plane struct {
	Origin, Normal vec3d.T
}

// Distance returns the signed distance of p from the plane
func (pl Plane) Distance(p *vec3d.T) float64 {
	d := vec3d.Sub(p, &pl.Origin)
	return vec3d.Dot(&d, &pl.Normal)
}

// HalfSpace is one side of a plane. The retained side is Distance >= 0, or
// Distance <= 0 when InsideOut is set.
type HalfSpace struct {
	Plane
	InsideOut bool
	Tol       float64 // distances within Tol of the plane snap to zero
}

// Keep returns the distance of p into the retained side, snapped to zero
// within the tolerance. Points with Keep >= 0 are retained.
func (h HalfSpace) Keep(p *vec3d.T) float64 {
	s := h.Distance(p)
	if h.InsideOut {
		s = -s
	}
	if math.Abs(s) <= h.Tol {
		return 0
	}
	return s
}

// ClipPlaneSet holds one plane per grid line along each axis. Entry n of an
// axis is the plane at coordinate n with normal along +axis.
type ClipPlaneSet struct {
	X, Y, Z []Plane
	Tol     float64
}

var axes = [3]vec3d.T{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// BuildClipPlanes creates the planes of every line of the grid
func BuildClipPlanes(g *grid.TargetGrid) *ClipPlaneSet {
	b := g.Bounds()
	scale := 1.0
	for d := 0; d < 3; d++ {
		scale = math.Max(scale, math.Max(math.Abs(b[2*d]), math.Abs(b[2*d+1])))
	}
	return &ClipPlaneSet{
		X:   axisPlanes(g.X, 0),
		Y:   axisPlanes(g.Y, 1),
		Z:   axisPlanes(g.Z, 2),
		Tol: 1.e-12 * scale,
	}
}

func axisPlanes(coords []float64, axis int) []Plane {
	planes := make([]Plane, len(coords))
	for n, c := range coords {
		var origin vec3d.T
		origin[axis] = c
		planes[n] = Plane{Origin: origin, Normal: axes[axis]}
	}
	return planes
}

// Bounding returns the half-spaces enclosing target cell (i,j,k), ordered
// X[i], X[i+1], Y[j], Y[j+1] and, when is3D, Z[k], Z[k+1]. Even entries
// are low sides and odd entries are high sides (InsideOut).
func (s *ClipPlaneSet) Bounding(i, j, k int, is3D bool) []HalfSpace {
	n := 4
	if is3D {
		n = 6
	}
	hs := make([]HalfSpace, 0, n)
	add := func(planes []Plane, lo int) {
		hs = append(hs,
			HalfSpace{Plane: planes[lo], Tol: s.Tol},
			HalfSpace{Plane: planes[lo+1], InsideOut: true, Tol: s.Tol},
		)
	}
	add(s.X, i)
	add(s.Y, j)
	if is3D {
		add(s.Z, k)
	}
	return hs
}
