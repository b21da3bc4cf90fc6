package partitions

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/notargets/DGRemap/mesh"
)

// PartitionBuilder assigns the cells of a mesh to partitions
type PartitionBuilder struct {
	Mesh *mesh.SourceMesh

	// Partitioning parameters
	NumPartitions int
	Strategy      PartitionStrategy

	// EToP is the assignment used by the Precomputed strategy
	EToP []int
}

// PartitionStrategy defines how cells are grouped
type PartitionStrategy int

const (
	// Simple strategies
	BlockPartition PartitionStrategy = iota // Consecutive cells
	RoundRobin                              // Distribute cyclically

	// Geometric strategies
	SpaceFillingCurve // Blocks along the Morton order of cell centroids

	// Precomputed uses PartitionBuilder.EToP, e.g. from a partitioned mesh file
	Precomputed
)

var strategyNames = map[PartitionStrategy]string{
	BlockPartition:    "block",
	RoundRobin:        "roundrobin",
	SpaceFillingCurve: "sfc",
	Precomputed:       "file",
}

func (s PartitionStrategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("PartitionStrategy(%d)", int(s))
}

// ParseStrategy returns the strategy named by its String form
func ParseStrategy(name string) (PartitionStrategy, error) {
	for s, n := range strategyNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown partition strategy %q", name)
}

// BuildPartitions creates a partition layout of the mesh
func (pb *PartitionBuilder) BuildPartitions() (*PartitionLayout, error) {
	if pb.Mesh == nil {
		return nil, fmt.Errorf("partition builder has no mesh")
	}
	numPartitions := pb.NumPartitions
	if numPartitions < 1 {
		numPartitions = 1
	}

	eToP, err := pb.partitionCells(numPartitions)
	if err != nil {
		return nil, err
	}
	if pb.Strategy == Precomputed {
		numPartitions = maxInt(eToP) + 1
	}

	partitions := pb.createPartitions(eToP, numPartitions)
	layout := &PartitionLayout{
		Partitions:    partitions,
		MaxCells:      calculateMaxCells(partitions),
		TotalCells:    pb.Mesh.NumCells(),
		NumPartitions: numPartitions,
		EToP:          eToP,
	}
	if err := layout.ValidateLayout(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}
	return layout, nil
}

// partitionCells assigns cells to partitions
func (pb *PartitionBuilder) partitionCells(numPartitions int) ([]int, error) {
	nc := pb.Mesh.NumCells()
	eToP := make([]int, nc)

	switch pb.Strategy {
	case BlockPartition:
		blockAssign(eToP, identity(nc), numPartitions)

	case RoundRobin:
		for i := range eToP {
			eToP[i] = i % numPartitions
		}

	case SpaceFillingCurve:
		blockAssign(eToP, mortonOrder(pb.Mesh), numPartitions)

	case Precomputed:
		if len(pb.EToP) != nc {
			return nil, fmt.Errorf("precomputed EToP has %d entries for %d cells", len(pb.EToP), nc)
		}
		for i, p := range pb.EToP {
			if p < 0 {
				return nil, fmt.Errorf("cell %d assigned to negative partition %d", i, p)
			}
		}
		copy(eToP, pb.EToP)

	default:
		return nil, fmt.Errorf("unknown partition strategy %s", pb.Strategy)
	}
	return eToP, nil
}

// blockAssign gives consecutive runs of order to consecutive partitions
func blockAssign(eToP, order []int, numPartitions int) {
	if len(order) == 0 {
		return
	}
	perPartition := int(math.Ceil(float64(len(order)) / float64(numPartitions)))
	for n, c := range order {
		eToP[c] = n / perPartition
		if eToP[c] >= numPartitions {
			eToP[c] = numPartitions - 1
		}
	}
}

func identity(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = i
	}
	return r
}

// mortonOrder sorts cells by the Morton code of their centroids, quantized
// over the mesh bounds
func mortonOrder(m *mesh.SourceMesh) []int {
	const bits = 21
	box := m.Bounds()
	codes := make([]uint64, m.NumCells())
	for c := range codes {
		ctr := m.Centroid(c)
		var q [3]uint64
		for d := 0; d < 3; d++ {
			span := box.Max[d] - box.Min[d]
			if span <= 0 {
				continue
			}
			f := (ctr[d] - box.Min[d]) / span
			q[d] = uint64(math.Min(math.Max(f, 0), 1) * float64(1<<bits-1))
		}
		codes[c] = interleave(q[0]) | interleave(q[1])<<1 | interleave(q[2])<<2
	}
	order := identity(len(codes))
	sort.SliceStable(order, func(a, b int) bool { return codes[order[a]] < codes[order[b]] })
	return order
}

// interleave spreads the low 21 bits of v to every third bit
func interleave(v uint64) uint64 {
	v &= 0x1fffff
	v = (v | v<<32) & 0x1f00000000ffff
	v = (v | v<<16) & 0x1f0000ff0000ff
	v = (v | v<<8) & 0x100f00f00f00f00f
	v = (v | v<<4) & 0x10c30c30c30c30c3
	v = (v | v<<2) & 0x1249249249249249
	return v
}

// createPartitions builds partition structures from cell assignments
func (pb *PartitionBuilder) createPartitions(eToP []int, numPartitions int) []Partition {
	partitions := make([]Partition, numPartitions)
	for i := range partitions {
		partitions[i] = Partition{ID: i}
	}
	for c, part := range eToP {
		partitions[part].Cells = append(partitions[part].Cells, c)
		partitions[part].Kinds = append(partitions[part].Kinds, pb.Mesh.Cells[c].Kind)
		partitions[part].NumCells++
	}
	for i := range partitions {
		partitions[i].KindGroups = createKindGroups(&partitions[i])
	}
	return partitions
}

// createKindGroups organizes cells by kind within a partition
func createKindGroups(p *Partition) []KindGroup {
	if len(p.Kinds) == 0 {
		return nil
	}
	var groups []KindGroup
	index := make(map[int]int) // kind -> position in groups
	for i, kind := range p.Kinds {
		g, ok := index[int(kind)]
		if !ok {
			g = len(groups)
			index[int(kind)] = g
			groups = append(groups, KindGroup{Kind: kind})
		}
		groups[g].Count++
		groups[g].LocalIDs = append(groups[g].LocalIDs, i)
	}
	return groups
}

func calculateMaxCells(partitions []Partition) int {
	maxCells := 0
	for _, p := range partitions {
		if p.NumCells > maxCells {
			maxCells = p.NumCells
		}
	}
	return maxCells
}

func maxInt(v []int) int {
	m := 0
	for _, x := range v {
		if x > m {
			m = x
		}
	}
	return m
}
