package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/Knetic/govaluate"
	"github.com/sirupsen/logrus"

	"github.com/notargets/DGRemap/config"
	"github.com/notargets/DGRemap/grid"
	"github.com/notargets/DGRemap/mesh"
	"github.com/notargets/DGRemap/parallel"
	"github.com/notargets/DGRemap/partitions"
	"github.com/notargets/DGRemap/remap"
)

type options struct {
	Attributes config.Attributes

	// Variable is filled from Expression on every cell
	Variable   string
	Expression string

	Ranks    int
	Strategy partitions.PartitionStrategy
	EToP     []int // partition read with the mesh, for partitions.Precomputed
	Ghosts   bool

	Logger logrus.FieldLogger
}

// cellField evaluates expr at every cell of m
func cellField(m *mesh.SourceMesh, expr string) ([]float64, error) {
	ee, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing expression %q: %w", expr, err)
	}
	vols := m.CellVolumes()
	vals := make([]float64, m.NumCells())
	params := make(map[string]interface{}, 4)
	for c := range vals {
		ctr := m.Centroid(c)
		params["x"], params["y"], params["z"] = ctr[0], ctr[1], ctr[2]
		params["volume"] = vols[c]
		res, err := ee.Evaluate(params)
		if err != nil {
			return nil, fmt.Errorf("evaluating %q on cell %d: %w", expr, c, err)
		}
		switch v := res.(type) {
		case float64:
			vals[c] = v
		case bool:
			if v {
				vals[c] = 1
			}
		default:
			return nil, fmt.Errorf("expression %q gives %T on cell %d, want a number", expr, res, c)
		}
	}
	return vals, nil
}

// run fills the field, partitions m over the ranks and remaps, returning
// the grid of rank 0
func run(ctx context.Context, m *mesh.SourceMesh, opts options) (*grid.TargetGrid, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.Ranks < 1 {
		return nil, fmt.Errorf("ranks must be positive, got %d", opts.Ranks)
	}
	if opts.Variable == "" {
		return nil, fmt.Errorf("no field name")
	}

	vals, err := cellField(m, opts.Expression)
	if err != nil {
		return nil, err
	}
	if err := m.SetField(opts.Variable, vals); err != nil {
		return nil, err
	}
	atts := opts.Attributes
	atts.Variable = opts.Variable

	if opts.Strategy == partitions.Precomputed && opts.EToP == nil {
		return nil, fmt.Errorf("the mesh carries no partition")
	}
	pb := &partitions.PartitionBuilder{
		Mesh:          m,
		NumPartitions: opts.Ranks,
		Strategy:      opts.Strategy,
		EToP:          opts.EToP,
	}
	layout, err := pb.BuildPartitions()
	if err != nil {
		return nil, err
	}
	log.Info(layout.PartitionStatistics().String())
	leaves, err := partitions.Decompose(m, layout, opts.Ghosts)
	if err != nil {
		return nil, err
	}

	// partition p goes to rank p % ranks
	datasets := make([]*mesh.Dataset, opts.Ranks)
	for r := range datasets {
		datasets[r] = mesh.NewDataset()
	}
	for p, leaf := range leaves {
		ds := datasets[p%opts.Ranks]
		ds.Domains = append(ds.Domains, leaf)
	}

	ranks, err := parallel.LocalGroup(opts.Ranks)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outs := make([]*remap.Output, opts.Ranks)
	errs := make([]error, opts.Ranks)
	var wg sync.WaitGroup
	for r := range ranks {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			f := remap.NewFilter(atts, ranks[r])
			f.Logger = log
			outs[r], errs[r] = f.Execute(ctx, datasets[r])
			if errs[r] != nil {
				// release the ranks waiting on this one
				cancel()
			}
		}(r)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if outs[0] == nil || outs[0].Empty {
		return nil, fmt.Errorf("rank 0 produced no output")
	}
	return outs[0].Grid, nil
}
