package element

import (
	"errors"
	"fmt"
	"math"

	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/sirupsen/logrus"
)

// ErrUnsupportedCell is returned for cell kinds without an area or volume
var ErrUnsupportedCell = errors.New("cannot compute volume")

// Logger receives the "cannot compute volume" warnings of CellVolume
var Logger logrus.FieldLogger = logrus.StandardLogger()

// Tetrahedral decompositions, in the point numbering of the cell kind
var (
	hexTets = [][]int{
		{0, 1, 2, 6}, {0, 2, 3, 6}, {0, 3, 7, 6},
		{0, 7, 4, 6}, {0, 4, 5, 6}, {0, 5, 1, 6},
	}
	wedgeTets   = [][]int{{0, 5, 4, 3}, {0, 2, 1, 4}, {0, 4, 5, 2}}
	pyramidTets = [][]int{{0, 1, 2, 4}, {0, 2, 3, 4}}
	quadTris    = [][]int{{0, 1, 2}, {0, 2, 3}}

	// Pixel and voxel points listed in quad and hex order
	pixelOrder = []int{0, 1, 3, 2}
	voxelOrder = []int{0, 1, 3, 2, 4, 5, 7, 6}

	voxelTets = remapTable(hexTets, voxelOrder)
	pixelTris = remapTable(quadTris, pixelOrder)
)

func remapTable(table [][]int, order []int) [][]int {
	out := make([][]int, len(table))
	for i, simplex := range table {
		out[i] = make([]int, len(simplex))
		for j, p := range simplex {
			out[i][j] = order[p]
		}
	}
	return out
}

// Simplices returns the triangles (2D kinds) or tetrahedra (3D kinds) whose
// union is the cell, as local point indices. Volume uses the same tables, so
// the measures of the simplices always sum to the cell volume.
func Simplices(kind CellKind) [][]int {
	switch kind {
	case Tet:
		return [][]int{{0, 1, 2, 3}}
	case Hex:
		return hexTets
	case Voxel:
		return voxelTets
	case Wedge:
		return wedgeTets
	case Pyramid:
		return pyramidTets
	case Triangle:
		return [][]int{{0, 1, 2}}
	case Quad:
		return quadTris
	case Pixel:
		return pixelTris
	default:
		return nil
	}
}

// Volume returns the volume of a 3D cell or the area of a 2D cell given its
// points in the VTK ordering of kind.
func Volume(kind CellKind, pts []vec3d.T) (float64, error) {
	if kind.Dimensions() < D2 {
		return 0, fmt.Errorf("%w for %s cell", ErrUnsupportedCell, kind)
	}
	if n := kind.NumPoints(); len(pts) < n {
		return 0, fmt.Errorf("%s needs %d points, got %d", kind, n, len(pts))
	}
	switch kind {
	case Triangle:
		return TriangleArea(&pts[0], &pts[1], &pts[2]), nil
	case Quad:
		return quadArea(pts), nil
	case Pixel:
		quad := []vec3d.T{pts[0], pts[1], pts[3], pts[2]}
		return quadArea(quad), nil
	case Tet:
		return TetVolume(&pts[0], &pts[1], &pts[2], &pts[3]), nil
	case Hex:
		return tableVolume(hexTets, pts), nil
	case Voxel:
		hex := make([]vec3d.T, 8)
		copy(hex, pts[:8])
		hex[2], hex[3] = hex[3], hex[2]
		hex[6], hex[7] = hex[7], hex[6]
		return tableVolume(hexTets, hex), nil
	case Wedge:
		return tableVolume(wedgeTets, pts), nil
	case Pyramid:
		return tableVolume(pyramidTets, pts), nil
	default:
		return 0, fmt.Errorf("%w for %s cell", ErrUnsupportedCell, kind)
	}
}

// CellVolume is Volume with failures logged and reported as zero
func CellVolume(kind CellKind, pts []vec3d.T) float64 {
	v, err := Volume(kind, pts)
	if err != nil {
		Logger.WithField("kind", kind.String()).Warn(err.Error())
		return 0
	}
	return v
}

// TriangleArea returns the unsigned area of triangle abc
func TriangleArea(a, b, c *vec3d.T) float64 {
	ab := vec3d.Sub(b, a)
	ac := vec3d.Sub(c, a)
	n := vec3d.Cross(&ab, &ac)
	return nonNegative(0.5 * n.Length())
}

// TetVolume returns the unsigned volume of tetrahedron abcd
func TetVolume(a, b, c, d *vec3d.T) float64 {
	ab := vec3d.Sub(b, a)
	ac := vec3d.Sub(c, a)
	ad := vec3d.Sub(d, a)
	n := vec3d.Cross(&ac, &ad)
	return nonNegative(math.Abs(vec3d.Dot(&ab, &n)) / 6.0)
}

func quadArea(pts []vec3d.T) float64 {
	var area float64
	for _, tri := range quadTris {
		area += TriangleArea(&pts[tri[0]], &pts[tri[1]], &pts[tri[2]])
	}
	return area
}

func tableVolume(table [][]int, pts []vec3d.T) float64 {
	var vol float64
	for _, t := range table {
		vol += TetVolume(&pts[t[0]], &pts[t[1]], &pts[t[2]], &pts[t[3]])
	}
	return vol
}

// nonNegative maps NaN and negative zero to an exact zero
func nonNegative(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}
