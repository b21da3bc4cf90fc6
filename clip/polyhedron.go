package clip

import (
	"math"
	"sort"

	vec3d "github.com/flywave/go3d/float64/vec3"

	"github.com/notargets/DGRemap/element"
)

// Polyhedron is a convex polyhedron given by its boundary polygons
type Polyhedron struct {
	Faces []Polygon
}

// tetFaces are the faces of a tetrahedron in local point numbering
var tetFaces = [4][3]int{{0, 1, 2}, {0, 1, 3}, {1, 2, 3}, {0, 2, 3}}

// NewTetrahedron returns the polyhedron of tetrahedron abcd
func NewTetrahedron(a, b, c, d vec3d.T) *Polyhedron {
	pts := [4]vec3d.T{a, b, c, d}
	ph := &Polyhedron{Faces: make([]Polygon, 4)}
	for f, lf := range tetFaces {
		ph.Faces[f] = Polygon{pts[lf[0]], pts[lf[1]], pts[lf[2]]}
	}
	return ph
}

// ClipPolyhedron keeps the part of ph on the retained side of h, closing
// the cut with a cap polygon on the plane. The result is nil when nothing
// of positive thickness remains.
func ClipPolyhedron(ph *Polyhedron, h HalfSpace) *Polyhedron {
	if ph == nil || len(ph.Faces) < 4 {
		return nil
	}
	in, out := 0, 0
	for _, f := range ph.Faces {
		for i := range f {
			switch k := h.Keep(&f[i]); {
			case k > 0:
				in++
			case k < 0:
				out++
			}
		}
	}
	if out == 0 {
		return ph
	}
	if in == 0 {
		return nil
	}

	clipped := &Polyhedron{Faces: make([]Polygon, 0, len(ph.Faces)+1)}
	var onPlane []vec3d.T
	for _, f := range ph.Faces {
		cf := ClipPolygon(f, h)
		if cf == nil {
			continue
		}
		clipped.Faces = append(clipped.Faces, cf)
		for i := range cf {
			if h.Keep(&cf[i]) == 0 {
				onPlane = appendUnique(onPlane, cf[i], h.Tol)
			}
		}
	}
	if cp := capPolygon(onPlane, h.Normal); cp != nil {
		clipped.Faces = append(clipped.Faces, cp)
	}
	if len(clipped.Faces) < 4 {
		return nil
	}
	return clipped
}

func appendUnique(pts []vec3d.T, p vec3d.T, tol float64) []vec3d.T {
	for i := range pts {
		if math.Abs(pts[i][0]-p[0]) <= tol &&
			math.Abs(pts[i][1]-p[1]) <= tol &&
			math.Abs(pts[i][2]-p[2]) <= tol {
			return pts
		}
	}
	return append(pts, p)
}

// capPolygon orders coplanar points of a convex section by angle around
// their centroid
func capPolygon(pts []vec3d.T, normal vec3d.T) Polygon {
	if len(pts) < 3 {
		return nil
	}
	c := average(pts)

	// in-plane basis u, v
	ref := vec3d.T{1, 0, 0}
	if math.Abs(normal[0]) > 0.9 {
		ref = vec3d.T{0, 1, 0}
	}
	u := vec3d.Cross(&normal, &ref)
	u = scale(u, 1/u.Length())
	v := vec3d.Cross(&normal, &u)

	angle := make([]float64, len(pts))
	for i := range pts {
		d := vec3d.Sub(&pts[i], &c)
		angle[i] = math.Atan2(vec3d.Dot(&d, &v), vec3d.Dot(&d, &u))
	}
	order := make([]int, len(pts))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return angle[order[a]] < angle[order[b]] })

	poly := make(Polygon, len(pts))
	for i, o := range order {
		poly[i] = pts[o]
	}
	return poly
}

// Volume returns the volume from a fan of tetrahedra joining the centroid
// to a triangle fan of every face
func (ph *Polyhedron) Volume() float64 {
	if ph == nil {
		return 0
	}
	var all []vec3d.T
	for _, f := range ph.Faces {
		all = append(all, f...)
	}
	if len(all) == 0 {
		return 0
	}
	c := average(all)
	var vol float64
	for _, f := range ph.Faces {
		for i := 1; i+1 < len(f); i++ {
			vol += element.TetVolume(&c, &f[0], &f[i], &f[i+1])
		}
	}
	return vol
}

func average(pts []vec3d.T) vec3d.T {
	var c vec3d.T
	for _, p := range pts {
		c[0] += p[0]
		c[1] += p[1]
		c[2] += p[2]
	}
	return scale(c, 1/float64(len(pts)))
}

func scale(p vec3d.T, f float64) vec3d.T {
	return vec3d.T{p[0] * f, p[1] * f, p[2] * f}
}
