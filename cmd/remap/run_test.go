package main

import (
	"context"
	"io"
	"testing"

	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/DGRemap/config"
	"github.com/notargets/DGRemap/element"
	"github.com/notargets/DGRemap/mesh"
	"github.com/notargets/DGRemap/partitions"
)

func testOptions() options {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	atts := config.DefaultAttributes()
	atts.CellsX, atts.CellsY, atts.CellsZ = 4, 4, 2
	atts.VariableType = config.Extrinsic
	return options{
		Attributes: atts,
		Variable:   "mass",
		Expression: "volume * (1 + x)",
		Ranks:      1,
		Logger:     logger,
	}
}

func hexMesh(t *testing.T) *mesh.SourceMesh {
	m, err := mesh.NewStructured(element.Hex, 3, 3, 2, vec3d.Box{Min: vec3d.T{0, 0, 0}, Max: vec3d.T{1, 1, 1}})
	require.NoError(t, err)
	return m
}

func TestCellField(t *testing.T) {
	m := hexMesh(t)
	vals, err := cellField(m, "x + 2*y - z")
	require.NoError(t, err)
	for c, v := range vals {
		ctr := m.Centroid(c)
		assert.InDelta(t, ctr[0]+2*ctr[1]-ctr[2], v, 1.e-14)
	}
	vals, err = cellField(m, "x > 0.5")
	require.NoError(t, err)
	assert.Equal(t, 1.0, vals[2])
	assert.Equal(t, 0.0, vals[0])

	_, err = cellField(m, "x +")
	assert.Error(t, err)
	_, err = cellField(m, "w * 2")
	assert.Error(t, err)
	_, err = cellField(m, "'text'")
	assert.Error(t, err)
}

func TestRun_RanksAndStrategies(t *testing.T) {
	serial, err := run(context.Background(), hexMesh(t), testOptions())
	require.NoError(t, err)
	// total mass is the integral of 1 + x over the unit cube
	assert.InDelta(t, 1.5, serial.Total(), 1.e-12)

	for _, strategy := range []partitions.PartitionStrategy{
		partitions.BlockPartition, partitions.RoundRobin, partitions.SpaceFillingCurve,
	} {
		for _, ghosts := range []bool{false, true} {
			opts := testOptions()
			opts.Ranks = 3
			opts.Strategy = strategy
			opts.Ghosts = ghosts
			g, err := run(context.Background(), hexMesh(t), opts)
			require.NoError(t, err)
			assert.InDeltaSlicef(t, serial.Field.Values, g.Field.Values, 1.e-12, "%s ghosts=%v", strategy, ghosts)
		}
	}

	m := hexMesh(t)
	eToP := make([]int, m.NumCells())
	for c := range eToP {
		eToP[c] = c % 4
	}
	opts := testOptions()
	opts.Ranks = 2
	opts.Strategy = partitions.Precomputed
	opts.EToP = eToP
	g, err := run(context.Background(), m, opts)
	require.NoError(t, err)
	assert.InDeltaSlice(t, serial.Field.Values, g.Field.Values, 1.e-12)
}

func TestRun_Errors(t *testing.T) {
	opts := testOptions()
	opts.Ranks = 0
	_, err := run(context.Background(), hexMesh(t), opts)
	assert.Error(t, err)

	opts = testOptions()
	opts.Strategy = partitions.Precomputed
	_, err = run(context.Background(), hexMesh(t), opts)
	assert.Error(t, err)

	opts = testOptions()
	opts.Variable = ""
	_, err = run(context.Background(), hexMesh(t), opts)
	assert.Error(t, err)
}

func TestParseCells(t *testing.T) {
	nx, ny, nz, err := parseCells("4, 5,6")
	require.NoError(t, err)
	assert.Equal(t, [3]int{4, 5, 6}, [3]int{nx, ny, nz})
	nx, ny, nz, err = parseCells("8,2")
	require.NoError(t, err)
	assert.Equal(t, [3]int{8, 2, 1}, [3]int{nx, ny, nz})
	_, _, _, err = parseCells("8")
	assert.Error(t, err)
	_, _, _, err = parseCells("a,b")
	assert.Error(t, err)
}

func TestRootCmd_RequiresMesh(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	assert.Error(t, cmd.Execute())

	cmd = newRootCmd()
	cmd.SetArgs([]string{"--mesh", "missing.neu", "--strategy", "metis"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	assert.Error(t, cmd.Execute())
}
