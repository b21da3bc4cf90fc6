package element

import "fmt"

type Dimensionality uint8

const (
	D0 Dimensionality = iota
	D1
	D2
	D3
)

// CellKind identifies the shape of a source mesh cell. Point numbering of
// each kind follows the VTK linear cell conventions.
type CellKind uint8

const (
	// 3D cell kinds
	Tet     CellKind = iota // Tetrahedron
	Hex                     // Hexahedron
	Voxel                   // Axis aligned hexahedron, VTK voxel ordering
	Wedge                   // Triangular prism
	Pyramid                 // Square-based pyramid

	// 2D cell kinds
	Triangle
	Quad
	Pixel // Axis aligned quadrilateral, VTK pixel ordering

	// Lower dimensional kinds carry no area or volume
	Line
	Vertex

	Unknown
)

var kindNames = [...]string{
	Tet:      "Tet",
	Hex:      "Hex",
	Voxel:    "Voxel",
	Wedge:    "Wedge",
	Pyramid:  "Pyramid",
	Triangle: "Triangle",
	Quad:     "Quad",
	Pixel:    "Pixel",
	Line:     "Line",
	Vertex:   "Vertex",
	Unknown:  "Unknown",
}

func (k CellKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("CellKind(%d)", uint8(k))
}

// Dimensions returns the topological dimension of the cell kind
func (k CellKind) Dimensions() Dimensionality {
	switch k {
	case Tet, Hex, Voxel, Wedge, Pyramid:
		return D3
	case Triangle, Quad, Pixel:
		return D2
	case Line:
		return D1
	default:
		return D0
	}
}

// NumPoints returns the number of defining points of a linear cell, or 0 for
// an unknown kind
func (k CellKind) NumPoints() int {
	switch k {
	case Tet:
		return 4
	case Hex, Voxel:
		return 8
	case Wedge:
		return 6
	case Pyramid:
		return 5
	case Triangle:
		return 3
	case Quad, Pixel:
		return 4
	case Line:
		return 2
	case Vertex:
		return 1
	default:
		return 0
	}
}

// Faces returns the local point indices of each face of a 3D kind, or of
// each edge of a 2D kind. Faces are the shared entities that make two cells
// of the same dimension neighbours.
func (k CellKind) Faces() [][]int {
	switch k {
	case Tet:
		return [][]int{{0, 1, 2}, {0, 1, 3}, {1, 2, 3}, {0, 2, 3}}
	case Hex:
		return [][]int{{0, 3, 2, 1}, {4, 5, 6, 7}, {0, 1, 5, 4}, {1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7}}
	case Voxel:
		return [][]int{{0, 2, 3, 1}, {4, 5, 7, 6}, {0, 1, 5, 4}, {1, 3, 7, 5}, {3, 2, 6, 7}, {2, 0, 4, 6}}
	case Wedge:
		return [][]int{{0, 1, 2}, {3, 5, 4}, {0, 3, 4, 1}, {1, 4, 5, 2}, {2, 5, 3, 0}}
	case Pyramid:
		return [][]int{{0, 3, 2, 1}, {0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4}}
	case Triangle:
		return [][]int{{0, 1}, {1, 2}, {2, 0}}
	case Quad:
		return [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
	case Pixel:
		return [][]int{{0, 1}, {1, 3}, {3, 2}, {2, 0}}
	default:
		return nil
	}
}
