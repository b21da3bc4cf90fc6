package vtk

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/DGRemap/grid"
)

func TestWriteRectilinearGrid(t *testing.T) {
	g := grid.BuildGrid([6]float64{0, 2, 0, 1, 0, 0}, 2, 1, 1, false)
	f := g.NewField("mass density")
	f.Values[0], f.Values[1] = 1.5, 2

	var buf bytes.Buffer
	require.NoError(t, WriteRectilinearGrid(&buf, g))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"# vtk DataFile Version 3.0",
		g.String(),
		"ASCII",
		"DATASET RECTILINEAR_GRID",
		"DIMENSIONS 3 2 1",
		"X_COORDINATES 3 double",
		"0 1 2",
		"Y_COORDINATES 2 double",
		"0 1",
		"Z_COORDINATES 1 double",
		"0",
		"CELL_DATA 2",
		"SCALARS mass_density double 1",
		"LOOKUP_TABLE default",
		"1.5 2",
	}, lines)
}

func TestWriteRectilinearGrid_MeshOnly(t *testing.T) {
	g := grid.BuildGrid([6]float64{0, 1, 0, 1, 0, 1}, 7, 1, 1, true)
	var buf bytes.Buffer
	require.NoError(t, WriteRectilinearGrid(&buf, g))
	out := buf.String()
	assert.NotContains(t, out, "CELL_DATA")
	// eight X coordinates wrap after six
	assert.Contains(t, out, "X_COORDINATES 8 double\n")
	xs := out[strings.Index(out, "X_COORDINATES"):strings.Index(out, "Y_COORDINATES")]
	assert.Len(t, strings.Split(strings.TrimSpace(xs), "\n"), 3)

	g.NewField("q").Values = []float64{1}
	assert.Error(t, WriteRectilinearGrid(&buf, g))
}

func TestWriteFile(t *testing.T) {
	g := grid.BuildGrid([6]float64{0, 1, 0, 1, 0, 0}, 1, 1, 1, false)
	g.NewField("")
	path := filepath.Join(t.TempDir(), "out.vtk")
	require.NoError(t, WriteFile(path, g))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SCALARS field double 1")

	assert.Error(t, WriteFile(filepath.Join(t.TempDir(), "missing", "out.vtk"), g))
}
