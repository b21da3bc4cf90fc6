package mesh

import (
	vec3d "github.com/flywave/go3d/float64/vec3"
)

// Dataset is the collection of leaf meshes (domains) handed to one process,
// along with the dataset-wide metadata a remap needs
type Dataset struct {
	Domains []*SourceMesh

	// DesiredExtents, when set, are the spatial extents of the whole logical
	// dataset as advertised by its producer
	DesiredExtents *vec3d.Box

	// ActiveVariable is the field selected upstream
	ActiveVariable string
}

// NewDataset creates a dataset over the given domains
func NewDataset(domains ...*SourceMesh) *Dataset {
	return &Dataset{Domains: domains}
}

// Leaves returns the non-empty domains in order
func (ds *Dataset) Leaves() []*SourceMesh {
	if ds == nil {
		return nil
	}
	leaves := make([]*SourceMesh, 0, len(ds.Domains))
	for _, d := range ds.Domains {
		if d != nil && d.NumCells() > 0 {
			leaves = append(leaves, d)
		}
	}
	return leaves
}

// EmptyBox returns the inverted box that any Extend call overrides
func EmptyBox() vec3d.Box {
	return vec3d.Box{Min: vec3d.MaxVal, Max: vec3d.MinVal}
}

// IsEmptyBox reports whether no point was ever added to b
func IsEmptyBox(b vec3d.Box) bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Bounds returns the bounding box of the points referenced by cells of m
func (m *SourceMesh) Bounds() vec3d.Box {
	box := EmptyBox()
	for _, c := range m.Cells {
		for _, p := range c.Conn {
			box.Extend(&m.Points[p])
		}
	}
	return box
}

// ActualExtents returns the union of the bounds of all leaves, which is the
// empty box for a dataset without cells
func (ds *Dataset) ActualExtents() vec3d.Box {
	box := EmptyBox()
	for _, leaf := range ds.Leaves() {
		b := leaf.Bounds()
		if IsEmptyBox(b) {
			continue
		}
		box.Extend(&b.Min)
		box.Extend(&b.Max)
	}
	return box
}

// BoxToBounds flattens a box into [xmin,xmax,ymin,ymax,zmin,zmax]
func BoxToBounds(b vec3d.Box) [6]float64 {
	return [6]float64{b.Min[0], b.Max[0], b.Min[1], b.Max[1], b.Min[2], b.Max[2]}
}

// BoundsToBox is the inverse of BoxToBounds
func BoundsToBox(bounds [6]float64) vec3d.Box {
	return vec3d.Box{
		Min: vec3d.T{bounds[0], bounds[2], bounds[4]},
		Max: vec3d.T{bounds[1], bounds[3], bounds[5]},
	}
}
