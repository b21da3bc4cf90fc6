package vtk

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/DGRemap/grid"
)

// WriteRectilinearGrid writes g as a legacy ASCII VTK RECTILINEAR_GRID,
// with the grid field, if any, as cell data
func WriteRectilinearGrid(w io.Writer, g *grid.TargetGrid) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# vtk DataFile Version 3.0\n")
	fmt.Fprintf(bw, "%s\n", g)
	fmt.Fprintf(bw, "ASCII\n")
	fmt.Fprintf(bw, "DATASET RECTILINEAR_GRID\n")
	fmt.Fprintf(bw, "DIMENSIONS %d %d %d\n", len(g.X), len(g.Y), len(g.Z))
	for _, axis := range []struct {
		name   string
		coords []float64
	}{{"X", g.X}, {"Y", g.Y}, {"Z", g.Z}} {
		fmt.Fprintf(bw, "%s_COORDINATES %d double\n", axis.name, len(axis.coords))
		writeValues(bw, axis.coords)
	}

	if g.Field != nil {
		if len(g.Field.Values) != g.NumCells() {
			return fmt.Errorf("field %q has %d values for %d cells", g.Field.Name, len(g.Field.Values), g.NumCells())
		}
		fmt.Fprintf(bw, "CELL_DATA %d\n", g.NumCells())
		fmt.Fprintf(bw, "SCALARS %s double 1\n", fieldName(g.Field.Name))
		fmt.Fprintf(bw, "LOOKUP_TABLE default\n")
		writeValues(bw, g.Field.Values)
	}
	return bw.Flush()
}

// WriteFile writes g to path, see WriteRectilinearGrid
func WriteFile(path string, g *grid.TargetGrid) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteRectilinearGrid(f, g)
}

// writeValues writes up to 6 values per line
func writeValues(w *bufio.Writer, vals []float64) {
	for i, v := range vals {
		if i > 0 {
			if i%6 == 0 {
				w.WriteByte('\n')
			} else {
				w.WriteByte(' ')
			}
		}
		w.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	w.WriteByte('\n')
}

func fieldName(name string) string {
	if name == "" {
		return "field"
	}
	return strings.Join(strings.Fields(name), "_")
}
