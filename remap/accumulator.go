package remap

import (
	"github.com/notargets/DGRemap/clip"
	"github.com/notargets/DGRemap/config"
	"github.com/notargets/DGRemap/mesh"
)

// CellContribution is everything one leaf mesh adds to one target cell
type CellContribution struct {
	Fragment *clip.Fragment

	// Per source cell of the leaf
	Values          []float64
	OriginalVolumes []float64
	Ghost           []uint8 // nil when the leaf has no ghost cells

	Type             config.VariableType
	TargetCellVolume float64
}

// AccumulateCell adds the contribution of a fragment to
// targetField[in.Fragment.Target]. Extrinsic values are apportioned by the
// fraction of the source cell inside the target cell; intrinsic values are
// averaged over the target cell volume. Ghost cells never contribute.
func AccumulateCell(in CellContribution, targetField []float64) {
	frag := in.Fragment
	if frag == nil || len(frag.Pieces) == 0 {
		return
	}
	var sum float64
	for _, p := range frag.Pieces {
		if in.Ghost != nil && in.Ghost[p.Cell]&mesh.GhostDuplicate != 0 {
			continue
		}
		v := in.Values[p.Cell]
		switch in.Type {
		case config.Extrinsic:
			orig := in.OriginalVolumes[p.Cell]
			if orig == 0 {
				continue
			}
			sum += v / orig * p.Measure
		default:
			sum += v * p.Measure
		}
	}
	if in.Type != config.Extrinsic {
		if in.TargetCellVolume == 0 {
			return
		}
		sum /= in.TargetCellVolume
	}
	targetField[frag.Target] += sum
}
