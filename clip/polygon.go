package clip

import (
	vec3d "github.com/flywave/go3d/float64/vec3"

	"github.com/notargets/DGRemap/element"
)

// Polygon is a planar convex polygon, vertices in boundary order
type Polygon []vec3d.T

// ClipPolygon keeps the part of poly on the retained side of h. The result
// is nil when fewer than three vertices survive.
func ClipPolygon(poly Polygon, h HalfSpace) Polygon {
	if len(poly) < 3 {
		return nil
	}
	keep := make([]float64, len(poly))
	in, out := 0, 0
	for i := range poly {
		keep[i] = h.Keep(&poly[i])
		switch {
		case keep[i] > 0:
			in++
		case keep[i] < 0:
			out++
		}
	}
	if out == 0 {
		return poly
	}
	if in == 0 {
		return nil
	}

	clipped := make(Polygon, 0, len(poly)+1)
	for i := range poly {
		j := (i + 1) % len(poly)
		a, b := keep[i], keep[j]
		if a >= 0 {
			clipped = append(clipped, poly[i])
		}
		if (a > 0 && b < 0) || (a < 0 && b > 0) {
			clipped = append(clipped, intersect(&poly[i], &poly[j], a, b))
		}
	}
	if len(clipped) < 3 {
		return nil
	}
	return clipped
}

// intersect returns the point between a and b where the keep distance,
// linear along the edge, is zero
func intersect(a, b *vec3d.T, ka, kb float64) vec3d.T {
	t := ka / (ka - kb)
	return vec3d.T{
		a[0] + t*(b[0]-a[0]),
		a[1] + t*(b[1]-a[1]),
		a[2] + t*(b[2]-a[2]),
	}
}

// Area returns the area of the polygon from a triangle fan
func (poly Polygon) Area() float64 {
	var area float64
	for i := 1; i+1 < len(poly); i++ {
		area += element.TriangleArea(&poly[0], &poly[i], &poly[i+1])
	}
	return area
}
