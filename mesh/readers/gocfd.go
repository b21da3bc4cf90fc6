package readers

import (
	"fmt"

	vec3d "github.com/flywave/go3d/float64/vec3"
	gocfdmesh "github.com/notargets/gocfd/DG3D/mesh"
	gocfdreaders "github.com/notargets/gocfd/DG3D/mesh/readers"

	"github.com/notargets/DGRemap/element"
	"github.com/notargets/DGRemap/mesh"
)

// ReadMeshFile reads a Gambit (.neu), Gmsh (.msh) or SU2 (.su2) mesh file.
// See FromMesh for the returned partition.
func ReadMeshFile(path string) (*mesh.SourceMesh, []int, error) {
	gm, err := gocfdreaders.ReadMeshFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m, eToP, err := FromMesh(gm)
	if err != nil {
		return nil, nil, fmt.Errorf("converting %s: %w", path, err)
	}
	return m, eToP, nil
}

// FromMesh converts a gocfd mesh to a SourceMesh. Only the elements of the
// highest dimension present are kept, so boundary faces stored alongside
// volume elements are dropped. The element partition of the kept cells is
// returned when the mesh carries one, otherwise nil.
func FromMesh(gm *gocfdmesh.Mesh) (*mesh.SourceMesh, []int, error) {
	if gm == nil {
		return nil, nil, fmt.Errorf("nil mesh")
	}
	if len(gm.ElementTypes) != len(gm.EtoV) {
		return nil, nil, fmt.Errorf("%d element types for %d elements", len(gm.ElementTypes), len(gm.EtoV))
	}

	m := mesh.NewSourceMesh()
	for i, v := range gm.Vertices {
		var p vec3d.T
		if len(v) < 2 || len(v) > 3 {
			return nil, nil, fmt.Errorf("vertex %d has %d coordinates", i, len(v))
		}
		copy(p[:], v)
		m.AddPoint(p)
	}

	dim := 0
	for _, et := range gm.ElementTypes {
		if d := et.GetDimension(); d > dim {
			dim = d
		}
	}

	hasPartition := len(gm.EToP) == len(gm.EtoV) && len(gm.EtoV) > 0
	var eToP []int
	for e, verts := range gm.EtoV {
		et := gm.ElementTypes[e]
		if et.GetDimension() != dim {
			continue
		}
		conn := make([]int, 0, len(verts))
		for _, v := range verts {
			// zero node ids are stored as -1 padding
			if v >= 0 {
				conn = append(conn, v)
			}
		}
		kind, err := cellKind(dim, len(conn))
		if err != nil {
			return nil, nil, fmt.Errorf("element %d (%v): %w", e, et, err)
		}
		m.AddCell(kind, conn...)
		if hasPartition {
			eToP = append(eToP, gm.EToP[e])
		}
	}

	if err := m.Validate(); err != nil {
		return nil, nil, err
	}
	return m, eToP, nil
}

// cellKind identifies a linear element from its dimension and point count.
// The point ordering gocfd reads is passed through unchanged.
func cellKind(dim, npts int) (element.CellKind, error) {
	switch {
	case dim == 3 && npts == 4:
		return element.Tet, nil
	case dim == 3 && npts == 8:
		return element.Hex, nil
	case dim == 3 && npts == 6:
		return element.Wedge, nil
	case dim == 3 && npts == 5:
		return element.Pyramid, nil
	case dim == 2 && npts == 3:
		return element.Triangle, nil
	case dim == 2 && npts == 4:
		return element.Quad, nil
	}
	return element.Unknown, fmt.Errorf("unsupported %dD element with %d points", dim, npts)
}
