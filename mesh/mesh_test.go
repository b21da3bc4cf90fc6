package mesh

import (
	"testing"

	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/DGRemap/element"
)

func unitBox() vec3d.Box {
	return vec3d.Box{Min: vec3d.T{0, 0, 0}, Max: vec3d.T{1, 1, 1}}
}

func TestNewStructured_TotalVolume(t *testing.T) {
	for _, kind := range []element.CellKind{
		element.Hex, element.Voxel, element.Tet, element.Wedge,
		element.Quad, element.Pixel, element.Triangle,
	} {
		m, err := NewStructured(kind, 3, 2, 2, unitBox())
		require.NoError(t, err)
		require.NoError(t, m.Validate())
		assert.InDeltaf(t, 1.0, floats.Sum(m.CellVolumes()), 1.e-12, "%s", kind)
	}
}

func TestNewStructured_TetsFollowHexSplit(t *testing.T) {
	hexes, err := NewStructured(element.Hex, 2, 1, 1, unitBox())
	require.NoError(t, err)
	tets, err := NewStructured(element.Tet, 2, 1, 1, unitBox())
	require.NoError(t, err)
	split := element.Simplices(element.Hex)
	require.Equal(t, len(split)*hexes.NumCells(), tets.NumCells())
	for h, hex := range hexes.Cells {
		for s, simplex := range split {
			tet := tets.Cells[h*len(split)+s]
			for i, p := range simplex {
				if tet.Conn[i] != hex.Conn[p] {
					t.Fatalf("hex %d tet %d: point %d is %d, want %d", h, s, i, tet.Conn[i], hex.Conn[p])
				}
			}
		}
	}
}

func TestNewStructured_Invalid(t *testing.T) {
	_, err := NewStructured(element.Hex, 0, 1, 1, unitBox())
	assert.Error(t, err)
	_, err = NewStructured(element.Pyramid, 1, 1, 1, unitBox())
	assert.Error(t, err)
	// 2D kinds ignore nz
	_, err = NewStructured(element.Quad, 1, 1, 0, unitBox())
	assert.NoError(t, err)
}

func TestSourceMesh_FieldsAndGhosts(t *testing.T) {
	m, err := NewStructured(element.Quad, 2, 1, 0, unitBox())
	require.NoError(t, err)

	assert.Error(t, m.SetField("rho", []float64{1}))
	require.NoError(t, m.SetField("rho", []float64{1, 2}))
	f, ok := m.Field("rho")
	assert.True(t, ok)
	assert.Equal(t, []float64{1, 2}, f)
	_, ok = m.Field("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"rho"}, m.FieldNames())

	assert.False(t, m.IsGhost(1))
	m.SetGhost(1, GhostDuplicate)
	assert.True(t, m.IsGhost(1))
	assert.False(t, m.IsGhost(0))

	// Ghost array grows with new cells
	m.AddCell(element.Triangle, 0, 1, 2)
	assert.Len(t, m.Ghost, 3)
}

func TestSourceMesh_Validate(t *testing.T) {
	m := NewSourceMesh()
	m.AddPoint(vec3d.T{0, 0, 0})
	m.AddPoint(vec3d.T{1, 0, 0})
	m.AddCell(element.Triangle, 0, 1, 5)
	assert.Error(t, m.Validate())

	m.Cells[0].Conn = []int{0, 1}
	assert.Error(t, m.Validate())
}

func TestDataset_Extents(t *testing.T) {
	a, err := NewStructured(element.Hex, 1, 1, 1, unitBox())
	require.NoError(t, err)
	b, err := NewStructured(element.Hex, 1, 1, 1, vec3d.Box{Min: vec3d.T{2, -1, 0}, Max: vec3d.T{3, 0, 4}})
	require.NoError(t, err)

	ds := NewDataset(a, nil, NewSourceMesh(), b)
	assert.Len(t, ds.Leaves(), 2)
	assert.Equal(t, [6]float64{0, 3, -1, 1, 0, 4}, BoxToBounds(ds.ActualExtents()))

	assert.True(t, IsEmptyBox(NewDataset().ActualExtents()))
	assert.Equal(t, BoundsToBox([6]float64{0, 3, -1, 1, 0, 4}), ds.ActualExtents())
}

func TestBuildConnectivity(t *testing.T) {
	m, err := NewStructured(element.Quad, 2, 2, 0, unitBox())
	require.NoError(t, err)
	cn := BuildConnectivity(m)

	// Cell 0 is the lower-left quad: neighbours are cell 1 (right) and 2 (above)
	assert.ElementsMatch(t, []int{1, 2}, cn.Neighbors(0))
	assert.ElementsMatch(t, []int{1, 2}, cn.Neighbors(3))

	// Reciprocity of the face maps
	for c := range m.Cells {
		for f, n := range cn.EToE[c] {
			if n < 0 {
				continue
			}
			assert.Equal(t, c, cn.EToE[n][cn.EToF[c][f]])
		}
	}

	tets, err := NewStructured(element.Tet, 1, 1, 1, unitBox())
	require.NoError(t, err)
	tc := BuildConnectivity(tets)
	interior := 0
	for c := range tets.Cells {
		for _, n := range tc.EToE[c] {
			if n >= 0 {
				interior++
			}
		}
	}
	// Six tets around one diagonal share six interior faces, each seen twice
	assert.Equal(t, 12, interior)
}
