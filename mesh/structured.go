package mesh

import (
	"fmt"

	vec3d "github.com/flywave/go3d/float64/vec3"

	"github.com/notargets/DGRemap/element"
)

// NewStructured builds a block of cells of the given kind covering box.
// 2D kinds use nx*ny blocks on the z = box.Min[2] plane and ignore nz. Each
// block is one cell, except for Triangle (two per block), Tet (six) and
// Wedge (two).
func NewStructured(kind element.CellKind, nx, ny, nz int, box vec3d.Box) (*SourceMesh, error) {
	if nx < 1 || ny < 1 || (kind.Dimensions() == element.D3 && nz < 1) {
		return nil, fmt.Errorf("invalid block counts: nx=%d, ny=%d, nz=%d", nx, ny, nz)
	}
	is3D := kind.Dimensions() == element.D3
	if !is3D {
		nz = 0
	}
	switch kind {
	case element.Triangle, element.Quad, element.Pixel,
		element.Hex, element.Voxel, element.Tet, element.Wedge:
	default:
		return nil, fmt.Errorf("structured blocks of %s cells are not supported", kind)
	}

	m := NewSourceMesh()
	step := func(d, n int) float64 {
		if n == 0 {
			return 0
		}
		return (box.Max[d] - box.Min[d]) / float64(n)
	}
	dx, dy, dz := step(0, nx), step(1, ny), step(2, nz)
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				m.AddPoint(vec3d.T{
					box.Min[0] + float64(i)*dx,
					box.Min[1] + float64(j)*dy,
					box.Min[2] + float64(k)*dz,
				})
			}
		}
	}
	pid := func(i, j, k int) int {
		return i + (nx+1)*(j+(ny+1)*k)
	}

	if !is3D {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				p0, p1, p2, p3 := pid(i, j, 0), pid(i+1, j, 0), pid(i+1, j+1, 0), pid(i, j+1, 0)
				switch kind {
				case element.Quad:
					m.AddCell(kind, p0, p1, p2, p3)
				case element.Pixel:
					m.AddCell(kind, p0, p1, p3, p2)
				case element.Triangle:
					m.AddCell(kind, p0, p1, p2)
					m.AddCell(kind, p0, p2, p3)
				}
			}
		}
		return m, nil
	}

	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				hex := []int{
					pid(i, j, k), pid(i+1, j, k), pid(i+1, j+1, k), pid(i, j+1, k),
					pid(i, j, k+1), pid(i+1, j, k+1), pid(i+1, j+1, k+1), pid(i, j+1, k+1),
				}
				switch kind {
				case element.Hex:
					m.AddCell(kind, hex...)
				case element.Voxel:
					m.AddCell(kind, hex[0], hex[1], hex[3], hex[2], hex[4], hex[5], hex[7], hex[6])
				case element.Tet:
					for _, t := range element.Simplices(element.Hex) {
						m.AddCell(kind, hex[t[0]], hex[t[1]], hex[t[2]], hex[t[3]])
					}
				case element.Wedge:
					m.AddCell(kind, hex[0], hex[1], hex[2], hex[4], hex[5], hex[6])
					m.AddCell(kind, hex[0], hex[2], hex[3], hex[4], hex[6], hex[7])
				}
			}
		}
	}
	return m, nil
}
