package grid

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Field is a cell-centered scalar on a TargetGrid
type Field struct {
	Name   string
	Values []float64
}

// TargetGrid is a uniform rectilinear grid. X, Y and Z hold the coordinates
// of the grid lines along each axis; a collapsed axis has one coordinate.
type TargetGrid struct {
	X, Y, Z []float64

	Width, Height, Depth int // cells per axis (len(axis)-1)
	Is3D                 bool

	// CellVolume is constant over a uniform grid
	CellVolume float64

	// Field is nil for a mesh-only grid
	Field *Field
}

// BuildGrid creates a uniform grid over bounds = [xmin,xmax,ymin,ymax,zmin,zmax].
// An axis whose length is not positive, or that has no cells, collapses to
// the single coordinate at its minimum. Z is always collapsed for a 2D grid.
func BuildGrid(bounds [6]float64, cellsX, cellsY, cellsZ int, is3D bool) *TargetGrid {
	g := &TargetGrid{Is3D: is3D}
	g.X = coordinates(bounds[0], bounds[1], cellsX)
	g.Y = coordinates(bounds[2], bounds[3], cellsY)
	if is3D {
		g.Z = coordinates(bounds[4], bounds[5], cellsZ)
	} else {
		g.Z = []float64{bounds[4]}
	}
	g.Width, g.Height, g.Depth = len(g.X)-1, len(g.Y)-1, len(g.Z)-1

	g.CellVolume = spacing(g.X) * spacing(g.Y)
	if is3D {
		g.CellVolume *= spacing(g.Z)
	}
	return g
}

func coordinates(min, max float64, cells int) []float64 {
	length := max - min
	if length <= 0 || cells+1 <= 1 {
		return []float64{min}
	}
	offset := length / float64(cells)
	coords := make([]float64, cells+1)
	for n := range coords {
		coords[n] = min + float64(n)*offset
	}
	// pin the last line to the requested maximum
	coords[cells] = max
	return coords
}

func spacing(coords []float64) float64 {
	if len(coords) < 2 {
		return 0
	}
	return (coords[len(coords)-1] - coords[0]) / float64(len(coords)-1)
}

// NumCells returns width*height*(depth or 1)
func (g *TargetGrid) NumCells() int {
	return g.Width * g.Height * g.layers()
}

func (g *TargetGrid) layers() int {
	if g.Is3D {
		return g.Depth
	}
	return 1
}

// Index flattens a cell address to i + width*j + width*height*k
func (g *TargetGrid) Index(i, j, k int) int {
	return i + g.Width*j + g.Width*g.Height*k
}

// Unindex is the inverse of Index
func (g *TargetGrid) Unindex(idx int) (i, j, k int) {
	plane := g.Width * g.Height
	k = idx / plane
	rem := idx - k*plane
	j = rem / g.Width
	i = rem - j*g.Width
	return
}

// Bounds returns the extents spanned by the grid lines
func (g *TargetGrid) Bounds() [6]float64 {
	return [6]float64{
		g.X[0], g.X[len(g.X)-1],
		g.Y[0], g.Y[len(g.Y)-1],
		g.Z[0], g.Z[len(g.Z)-1],
	}
}

// NewField attaches a zero-initialized field to the grid and returns it
func (g *TargetGrid) NewField(name string) *Field {
	g.Field = &Field{Name: name, Values: make([]float64, g.NumCells())}
	return g.Field
}

// Total returns the sum of the field values, or 0 for a mesh-only grid
func (g *TargetGrid) Total() float64 {
	if g.Field == nil {
		return 0
	}
	return floats.Sum(g.Field.Values)
}

func (g *TargetGrid) String() string {
	dim := "2D"
	if g.Is3D {
		dim = "3D"
	}
	return fmt.Sprintf("%s grid %dx%dx%d over %v", dim, g.Width, g.Height, g.layers(), g.Bounds())
}
