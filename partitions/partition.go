package partitions

import (
	"fmt"
	"math"

	"github.com/notargets/DGRemap/element"
)

// Partition is the set of cells one rank remaps as its own leaf mesh
type Partition struct {
	// Unique identifier for this partition
	ID int

	// Cell membership
	Cells    []int // Global cell indices in this partition
	NumCells int   // Number of owned cells

	// Mixed mesh support
	Kinds      []element.CellKind // Kind of each cell
	KindGroups []KindGroup        // Grouped by kind, in order of first appearance
}

// KindGroup represents cells of the same kind within a partition
type KindGroup struct {
	Kind     element.CellKind
	Count    int   // Number of cells of this kind
	LocalIDs []int // Indices within the partition
}

// PartitionLayout manages the complete mesh decomposition
type PartitionLayout struct {
	// All partitions in the mesh
	Partitions []Partition

	// Global sizing information
	MaxCells      int // max(NumCells) across all partitions
	TotalCells    int // Sum of all cells across partitions
	NumPartitions int

	// Cell to partition mapping
	EToP []int // Length TotalCells: cell k belongs to partition EToP[k]
}

// GetPartition returns the partition containing cell k, or -1
func (pl *PartitionLayout) GetPartition(cell int) int {
	if cell < 0 || cell >= len(pl.EToP) {
		return -1
	}
	return pl.EToP[cell]
}

// ValidateLayout checks partition consistency
func (pl *PartitionLayout) ValidateLayout() error {
	if len(pl.Partitions) != pl.NumPartitions {
		return fmt.Errorf("%d partitions stored, NumPartitions is %d", len(pl.Partitions), pl.NumPartitions)
	}
	if len(pl.EToP) != pl.TotalCells {
		return fmt.Errorf("EToP has %d entries for %d cells", len(pl.EToP), pl.TotalCells)
	}

	actualMax, total := 0, 0
	for i, p := range pl.Partitions {
		if p.ID != i {
			return fmt.Errorf("partition %d has ID %d", i, p.ID)
		}
		if p.NumCells != len(p.Cells) {
			return fmt.Errorf("partition %d: NumCells %d != %d listed cells", p.ID, p.NumCells, len(p.Cells))
		}
		for _, c := range p.Cells {
			if pl.GetPartition(c) != p.ID {
				return fmt.Errorf("partition %d lists cell %d owned by partition %d", p.ID, c, pl.GetPartition(c))
			}
		}
		if p.NumCells > actualMax {
			actualMax = p.NumCells
		}
		total += p.NumCells
	}
	if actualMax != pl.MaxCells {
		return fmt.Errorf("computed MaxCells %d != stored MaxCells %d", actualMax, pl.MaxCells)
	}
	if total != pl.TotalCells {
		return fmt.Errorf("partitions hold %d cells, TotalCells is %d", total, pl.TotalCells)
	}
	return nil
}

// PartitionStats summarises the load balance of a layout
type PartitionStats struct {
	NumPartitions int
	MinCells      int
	MaxCells      int
	AvgCells      float64
	Imbalance     float64 // MaxCells / AvgCells
}

// PartitionStatistics computes load balance metrics
func (pl *PartitionLayout) PartitionStatistics() PartitionStats {
	stats := PartitionStats{
		NumPartitions: pl.NumPartitions,
		MinCells:      math.MaxInt32,
	}
	if pl.NumPartitions == 0 {
		stats.MinCells = 0
		return stats
	}
	stats.AvgCells = float64(pl.TotalCells) / float64(pl.NumPartitions)
	for _, p := range pl.Partitions {
		if p.NumCells < stats.MinCells {
			stats.MinCells = p.NumCells
		}
		if p.NumCells > stats.MaxCells {
			stats.MaxCells = p.NumCells
		}
	}
	if stats.AvgCells > 0 {
		stats.Imbalance = float64(stats.MaxCells) / stats.AvgCells
	}
	return stats
}

func (s PartitionStats) String() string {
	return fmt.Sprintf("%d partitions, cells min %d max %d avg %.1f, imbalance %.3f",
		s.NumPartitions, s.MinCells, s.MaxCells, s.AvgCells, s.Imbalance)
}
