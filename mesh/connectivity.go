package mesh

import (
	"sort"
	"strconv"
	"strings"
)

// Connectivity holds face adjacency of a mesh. For 2D cells the faces are
// edges.
//
// EToE[c][f] = neighbour cell across local face f of cell c (or -1 for boundary)
// EToF[c][f] = the neighbour's local face index (or -1 for boundary)
type Connectivity struct {
	EToE [][]int
	EToF [][]int
}

type faceOwner struct {
	cell, face int
}

// BuildConnectivity matches cell faces through their sorted point indices
func BuildConnectivity(m *SourceMesh) *Connectivity {
	conn := &Connectivity{
		EToE: make([][]int, len(m.Cells)),
		EToF: make([][]int, len(m.Cells)),
	}
	faces := make(map[string]faceOwner)

	for c, cell := range m.Cells {
		local := cell.Kind.Faces()
		conn.EToE[c] = make([]int, len(local))
		conn.EToF[c] = make([]int, len(local))
		for f := range local {
			conn.EToE[c][f] = -1
			conn.EToF[c][f] = -1
		}

		for f, lf := range local {
			key := faceKey(int(cell.Kind.Dimensions()), cell.Conn, lf)
			if other, found := faces[key]; found {
				conn.EToE[c][f] = other.cell
				conn.EToF[c][f] = other.face
				conn.EToE[other.cell][other.face] = c
				conn.EToF[other.cell][other.face] = f
				delete(faces, key)
			} else {
				faces[key] = faceOwner{cell: c, face: f}
			}
		}
	}
	return conn
}

// Neighbors returns the distinct neighbouring cells of cell c
func (cn *Connectivity) Neighbors(c int) []int {
	var out []int
	for _, n := range cn.EToE[c] {
		if n < 0 {
			continue
		}
		dup := false
		for _, o := range out {
			if o == n {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, n)
		}
	}
	return out
}

func faceKey(dim int, cellConn, localFace []int) string {
	verts := make([]int, len(localFace))
	for i, lp := range localFace {
		verts[i] = cellConn[lp]
	}
	sort.Ints(verts)
	parts := make([]string, 0, len(verts)+1)
	parts = append(parts, strconv.Itoa(dim))
	for _, v := range verts {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ",")
}
