package partitions

import (
	"fmt"

	"github.com/notargets/DGRemap/mesh"
)

// FaceLink is a face shared with a cell owned by another partition
type FaceLink struct {
	LocalCell       int // Cell index within partition
	LocalFace       int // Face index within cell
	RemotePartition int // Owning partition of the neighbour
	RemoteCell      int // Global cell index of the neighbour
	RemoteFace      int // Face index in the neighbour
}

// analyzePartitionLinks finds, per partition, the faces whose neighbour is
// owned by a different partition
func analyzePartitionLinks(layout *PartitionLayout, conn *mesh.Connectivity) map[int][]FaceLink {
	links := make(map[int][]FaceLink)
	for partID, partition := range layout.Partitions {
		var fl []FaceLink
		for local, global := range partition.Cells {
			for face, neighbor := range conn.EToE[global] {
				// Skip boundary faces
				if neighbor < 0 {
					continue
				}
				neighborPart := layout.GetPartition(neighbor)
				if neighborPart != partID && neighborPart >= 0 {
					fl = append(fl, FaceLink{
						LocalCell:       local,
						LocalFace:       face,
						RemotePartition: neighborPart,
						RemoteCell:      neighbor,
						RemoteFace:      conn.EToF[global][face],
					})
				}
			}
		}
		links[partID] = fl
	}
	return links
}

// Decompose splits m into one leaf mesh per partition of layout. Points are
// renumbered per leaf and every field is carried along. With ghosts, the
// face neighbours of a partition owned elsewhere are appended to its leaf
// flagged mesh.GhostDuplicate.
func Decompose(m *mesh.SourceMesh, layout *PartitionLayout, withGhosts bool) ([]*mesh.SourceMesh, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("decomposing mesh: %w", err)
	}
	if layout.TotalCells != m.NumCells() {
		return nil, fmt.Errorf("layout covers %d cells, mesh has %d", layout.TotalCells, m.NumCells())
	}

	var links map[int][]FaceLink
	if withGhosts {
		links = analyzePartitionLinks(layout, mesh.BuildConnectivity(m))
	}

	names := m.FieldNames()
	leaves := make([]*mesh.SourceMesh, layout.NumPartitions)
	for partID, partition := range layout.Partitions {
		leaf := mesh.NewSourceMesh()
		pointMap := make(map[int]int)
		var source []int // global cell of each leaf cell

		addCell := func(global int) int {
			cell := m.Cells[global]
			conn := make([]int, len(cell.Conn))
			for i, p := range cell.Conn {
				lp, ok := pointMap[p]
				if !ok {
					lp = leaf.AddPoint(m.Points[p])
					pointMap[p] = lp
				}
				conn[i] = lp
			}
			source = append(source, global)
			return leaf.AddCell(cell.Kind, conn...)
		}

		for _, global := range partition.Cells {
			c := addCell(global)
			if m.Ghost != nil && m.Ghost[global] != 0 {
				leaf.SetGhost(c, m.Ghost[global])
			}
		}
		if withGhosts {
			seen := make(map[int]bool)
			for _, fl := range links[partID] {
				if seen[fl.RemoteCell] {
					continue
				}
				seen[fl.RemoteCell] = true
				leaf.SetGhost(addCell(fl.RemoteCell), mesh.GhostDuplicate)
			}
		}

		for _, name := range names {
			src, _ := m.Field(name)
			vals := make([]float64, len(source))
			for i, global := range source {
				vals[i] = src[global]
			}
			if err := leaf.SetField(name, vals); err != nil {
				return nil, fmt.Errorf("partition %d: %w", partID, err)
			}
		}
		leaves[partID] = leaf
	}
	return leaves, nil
}
