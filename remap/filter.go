package remap

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/notargets/DGRemap/clip"
	"github.com/notargets/DGRemap/config"
	"github.com/notargets/DGRemap/grid"
	"github.com/notargets/DGRemap/mesh"
	"github.com/notargets/DGRemap/parallel"
)

// State is a step of Filter.Execute
type State uint8

const (
	ResolvingBounds State = iota
	BuildingGrid
	NoVariables
	CreatingClipPlanes
	ClippingDomains
	Reducing
	Done
)

var stateNames = [...]string{
	ResolvingBounds:    "ResolvingBounds",
	BuildingGrid:       "BuildingGrid",
	NoVariables:        "NoVariables",
	CreatingClipPlanes: "CreatingClipPlanes",
	ClippingDomains:    "ClippingDomains",
	Reducing:           "Reducing",
	Done:               "Done",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// z extents within this of zero are treated as a flat dataset
const flatTolerance = 1.e-12

// Output is the result of one Execute call on one rank
type Output struct {
	// Grid carries the remapped field, or no field for a mesh-only remap
	Grid *grid.TargetGrid

	// Empty is set on the ranks that hand their part to rank 0
	Empty bool
}

// Filter remaps the cell fields of a dataset onto a uniform rectilinear
// grid, conserving extrinsic quantities
type Filter struct {
	Attributes config.Attributes
	Comm       parallel.Communicator
	Logger     logrus.FieldLogger
}

// NewFilter creates a filter; a nil comm runs as a single rank
func NewFilter(atts config.Attributes, comm parallel.Communicator) *Filter {
	if comm == nil {
		comm = parallel.Single{}
	}
	return &Filter{
		Attributes: atts,
		Comm:       comm,
		Logger:     logrus.StandardLogger(),
	}
}

func (f *Filter) comm() parallel.Communicator {
	if f.Comm == nil {
		return parallel.Single{}
	}
	return f.Comm
}

func (f *Filter) log() logrus.FieldLogger {
	l := f.Logger
	if l == nil {
		l = logrus.StandardLogger()
	}
	return l.WithField("rank", f.comm().Rank())
}

// Execute runs the remap on this rank's part of the dataset. Every rank of
// the communicator must call Execute with the same attributes. Without an
// explicit variable the ranks agree on one from their active variables.
func (f *Filter) Execute(ctx context.Context, ds *mesh.Dataset) (*Output, error) {
	var (
		atts  = f.Attributes
		log   = f.log()
		comm  = f.comm()
		enter = func(s State) { log.WithField("state", s.String()).Debug("remap") }
	)
	if ds == nil {
		ds = mesh.NewDataset()
	}
	ds = validLeaves(ds, log)

	enter(ResolvingBounds)
	bounds, flat, err := f.resolveBounds(ctx, ds)
	if err != nil {
		return nil, err
	}
	is3D := atts.Is3D
	if is3D && flat {
		log.WithField("bounds", bounds).Info("z extent is degenerate, building a 2D grid")
		is3D = false
	}

	enter(BuildingGrid)
	nx, ny, nz := atts.Cells()
	g := grid.BuildGrid(bounds, nx, ny, nz, is3D)
	log.WithField("cells", g.NumCells()).Debug(g.String())

	name := atts.Variable
	if name == "" {
		if name, err = agreeVariable(ctx, comm, ds.ActiveVariable); err != nil {
			return nil, err
		}
	}
	if name == "" {
		enter(NoVariables)
		enter(Done)
		if comm.Rank() != 0 {
			return &Output{Empty: true}, nil
		}
		return &Output{Grid: g}, nil
	}

	enter(CreatingClipPlanes)
	pipe := clip.NewPipeline(g, clip.BuildClipPlanes(g))
	field := g.NewField(name)

	enter(ClippingDomains)
	for l, leaf := range ds.Leaves() {
		llog := log.WithField("leaf", l)
		values, ok := leaf.Field(name)
		if !ok {
			llog.WithField("variable", name).Debug("leaf does not carry the variable, skipped")
			continue
		}
		f.clipLeaf(pipe, leaf, values, field.Values)
		llog.WithField("cells", leaf.NumCells()).Debug("leaf remapped")
	}

	enter(Reducing)
	keep, err := Reduce(ctx, comm, field.Values)
	if err != nil {
		return nil, err
	}
	enter(Done)
	if !keep {
		return &Output{Empty: true}, nil
	}
	return &Output{Grid: g}, nil
}

func (f *Filter) clipLeaf(pipe *clip.Pipeline, leaf *mesh.SourceMesh, values, field []float64) {
	prepared := pipe.Prepare(leaf)
	in := CellContribution{
		Values:           values,
		OriginalVolumes:  leaf.CellVolumes(),
		Ghost:            leaf.Ghost,
		Type:             f.Attributes.VariableType,
		TargetCellVolume: pipe.Grid.CellVolume,
	}
	for _, t := range prepared.Targets() {
		in.Fragment = pipe.Clip(prepared, t)
		AccumulateCell(in, field)
	}
}

// validLeaves returns a copy of ds holding only the leaves that pass
// Validate, so that neither the extents nor the clipper see broken
// connectivity
func validLeaves(ds *mesh.Dataset, log logrus.FieldLogger) *mesh.Dataset {
	out := &mesh.Dataset{
		DesiredExtents: ds.DesiredExtents,
		ActiveVariable: ds.ActiveVariable,
	}
	for l, leaf := range ds.Leaves() {
		if err := leaf.Validate(); err != nil {
			log.WithField("leaf", l).WithError(err).Warn("invalid leaf mesh, skipped")
			continue
		}
		out.Domains = append(out.Domains, leaf)
	}
	return out
}

// resolveBounds returns the grid bounds and whether their z extent is flat.
// Dataset extents are unioned across all ranks.
func (f *Filter) resolveBounds(ctx context.Context, ds *mesh.Dataset) (bounds [6]float64, flat bool, err error) {
	if !f.Attributes.UseExtents {
		bounds = f.Attributes.Bounds()
		return bounds, flatZ(bounds), nil
	}
	box := ds.ActualExtents()
	if ds.DesiredExtents != nil {
		box = *ds.DesiredExtents
	}
	if box, err = unionExtents(ctx, f.comm(), box); err != nil {
		return bounds, false, err
	}
	if mesh.IsEmptyBox(box) {
		return [6]float64{}, true, nil
	}
	bounds = mesh.BoxToBounds(box)
	return bounds, flatZ(bounds), nil
}

func flatZ(bounds [6]float64) bool {
	return scalar.EqualWithinAbs(bounds[4], 0, flatTolerance) &&
		scalar.EqualWithinAbs(bounds[5], 0, flatTolerance)
}
