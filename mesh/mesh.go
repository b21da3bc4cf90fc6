package mesh

import (
	"fmt"
	"sort"

	vec3d "github.com/flywave/go3d/float64/vec3"

	"github.com/notargets/DGRemap/element"
)

// Ghost flag bits
const (
	// GhostDuplicate marks a cell duplicated from a neighbouring domain. Its
	// field values are owned, and counted, by that other domain.
	GhostDuplicate uint8 = 1 << iota
)

// Cell is one source cell: its kind and the indices of its points
type Cell struct {
	Kind element.CellKind
	Conn []int
}

// SourceMesh is an unstructured mesh carrying cell-centered scalar fields
type SourceMesh struct {
	Points []vec3d.T
	Cells  []Cell

	// Cell-centered fields, each of length len(Cells)
	Fields map[string][]float64

	// Ghost flags per cell, nil when the mesh has no ghost cells
	Ghost []uint8
}

// NewSourceMesh creates an empty mesh
func NewSourceMesh() *SourceMesh {
	return &SourceMesh{Fields: make(map[string][]float64)}
}

// NumCells returns the number of cells in the mesh
func (m *SourceMesh) NumCells() int {
	return len(m.Cells)
}

// AddPoint appends a point and returns its index
func (m *SourceMesh) AddPoint(p vec3d.T) int {
	m.Points = append(m.Points, p)
	return len(m.Points) - 1
}

// AddCell appends a cell and returns its index
func (m *SourceMesh) AddCell(kind element.CellKind, conn ...int) int {
	c := make([]int, len(conn))
	copy(c, conn)
	m.Cells = append(m.Cells, Cell{Kind: kind, Conn: c})
	if m.Ghost != nil {
		m.Ghost = append(m.Ghost, 0)
	}
	return len(m.Cells) - 1
}

// SetField attaches a cell-centered field
func (m *SourceMesh) SetField(name string, values []float64) error {
	if len(values) != len(m.Cells) {
		return fmt.Errorf("field %q has %d values for %d cells", name, len(values), len(m.Cells))
	}
	if m.Fields == nil {
		m.Fields = make(map[string][]float64)
	}
	m.Fields[name] = values
	return nil
}

// Field returns the named cell-centered field
func (m *SourceMesh) Field(name string) ([]float64, bool) {
	f, ok := m.Fields[name]
	return f, ok
}

// FieldNames returns the sorted names of the mesh fields
func (m *SourceMesh) FieldNames() []string {
	names := make([]string, 0, len(m.Fields))
	for name := range m.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetGhost sets the ghost flags of cell i
func (m *SourceMesh) SetGhost(i int, flags uint8) {
	if m.Ghost == nil {
		m.Ghost = make([]uint8, len(m.Cells))
	}
	m.Ghost[i] = flags
}

// IsGhost reports whether cell i is a ghost duplicate
func (m *SourceMesh) IsGhost(i int) bool {
	return m.Ghost != nil && m.Ghost[i]&GhostDuplicate != 0
}

// CellPoints returns the coordinates of the points of cell i
func (m *SourceMesh) CellPoints(i int) []vec3d.T {
	conn := m.Cells[i].Conn
	pts := make([]vec3d.T, len(conn))
	for j, p := range conn {
		pts[j] = m.Points[p]
	}
	return pts
}

// CellVolumes returns the area or volume of every cell
func (m *SourceMesh) CellVolumes() []float64 {
	vols := make([]float64, len(m.Cells))
	for i, c := range m.Cells {
		vols[i] = element.CellVolume(c.Kind, m.CellPoints(i))
	}
	return vols
}

// Centroid returns the average of the points of cell i
func (m *SourceMesh) Centroid(i int) vec3d.T {
	var c vec3d.T
	conn := m.Cells[i].Conn
	for _, p := range conn {
		for d := 0; d < 3; d++ {
			c[d] += m.Points[p][d]
		}
	}
	if n := float64(len(conn)); n > 0 {
		for d := 0; d < 3; d++ {
			c[d] /= n
		}
	}
	return c
}

// Validate checks connectivity, point counts and field lengths
func (m *SourceMesh) Validate() error {
	for i, c := range m.Cells {
		if n := c.Kind.NumPoints(); n > 0 && len(c.Conn) != n {
			return fmt.Errorf("cell %d: %s has %d points, want %d", i, c.Kind, len(c.Conn), n)
		}
		for _, p := range c.Conn {
			if p < 0 || p >= len(m.Points) {
				return fmt.Errorf("cell %d: point index %d out of range [0,%d)", i, p, len(m.Points))
			}
		}
	}
	for name, f := range m.Fields {
		if len(f) != len(m.Cells) {
			return fmt.Errorf("field %q has %d values for %d cells", name, len(f), len(m.Cells))
		}
	}
	if m.Ghost != nil && len(m.Ghost) != len(m.Cells) {
		return fmt.Errorf("ghost array has %d entries for %d cells", len(m.Ghost), len(m.Cells))
	}
	return nil
}
