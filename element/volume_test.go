package element

import (
	"errors"
	"testing"

	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var unitCubeHex = []vec3d.T{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// Same cube in VTK voxel ordering (x fastest, then y, then z)
var unitCubeVoxel = []vec3d.T{
	{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
}

func TestVolume_UnitCube(t *testing.T) {
	v, err := Volume(Hex, unitCubeHex)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1.e-12)

	v, err = Volume(Voxel, unitCubeVoxel)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1.e-12)
}

func TestVolume_UnitTet(t *testing.T) {
	pts := []vec3d.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	v, err := Volume(Tet, pts)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/6.0, v, 1.e-12)

	// Reversed winding must not produce a negative volume
	pts[1], pts[2] = pts[2], pts[1]
	v, err = Volume(Tet, pts)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/6.0, v, 1.e-12)
}

func TestVolume_WedgeAndPyramid(t *testing.T) {
	wedge := []vec3d.T{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
		{0, 0, 2}, {1, 0, 2}, {0, 1, 2},
	}
	v, err := Volume(Wedge, wedge)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1.e-12) // 0.5 base * 2 height

	pyramid := []vec3d.T{
		{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}, {1, 1, 3},
	}
	v, err = Volume(Pyramid, pyramid)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, v, 1.e-12) // 4 base * 3 height / 3
}

func TestVolume_2DCells(t *testing.T) {
	v, err := Volume(Triangle, []vec3d.T{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v, 1.e-12)

	v, err = Volume(Quad, []vec3d.T{{0, 0, 0}, {2, 0, 0}, {2, 3, 0}, {0, 3, 0}})
	require.NoError(t, err)
	assert.InDelta(t, 6.0, v, 1.e-12)

	v, err = Volume(Pixel, []vec3d.T{{0, 0, 0}, {2, 0, 0}, {0, 3, 0}, {2, 3, 0}})
	require.NoError(t, err)
	assert.InDelta(t, 6.0, v, 1.e-12)
}

func TestVolume_Degenerate(t *testing.T) {
	flat := []vec3d.T{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}
	v, err := Volume(Tet, flat)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	v, err = Volume(Triangle, flat[:3])
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	collapsed := make([]vec3d.T, 8)
	v, err = Volume(Hex, collapsed)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestVolume_Unsupported(t *testing.T) {
	v, err := Volume(Line, []vec3d.T{{0, 0, 0}, {1, 0, 0}})
	assert.True(t, errors.Is(err, ErrUnsupportedCell))
	assert.Equal(t, 0.0, v)

	_, err = Volume(CellKind(200), nil)
	assert.True(t, errors.Is(err, ErrUnsupportedCell))

	assert.Equal(t, 0.0, CellVolume(Vertex, []vec3d.T{{1, 2, 3}}))

	_, err = Volume(Hex, unitCubeHex[:4])
	assert.Error(t, err)
}

// The simplex tables must tile each cell exactly
func TestSimplices_SumToVolume(t *testing.T) {
	cells := map[CellKind][]vec3d.T{
		Hex:   {{0, 0, 0}, {2, 0, 0}, {2.5, 1, 0}, {0, 1.2, 0}, {0, 0, 1}, {2, 0, 1.1}, {2, 1, 1}, {0, 1, 1.3}},
		Voxel: unitCubeVoxel,
		Wedge: {{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 0, 1}, {0, 1, 1}},
		Pyramid: {
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {0.5, 0.5, 1},
		},
		Quad:  {{0, 0, 0}, {3, 0, 0}, {2, 2, 0}, {0, 1, 0}},
		Pixel: {{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}},
	}
	for kind, pts := range cells {
		want, err := Volume(kind, pts)
		require.NoError(t, err)
		var got float64
		for _, s := range Simplices(kind) {
			if len(s) == 3 {
				got += TriangleArea(&pts[s[0]], &pts[s[1]], &pts[s[2]])
			} else {
				got += TetVolume(&pts[s[0]], &pts[s[1]], &pts[s[2]], &pts[s[3]])
			}
		}
		assert.InDeltaf(t, want, got, 1.e-12, "%s", kind)
	}
}

func TestCellKind_Properties(t *testing.T) {
	assert.Equal(t, D3, Voxel.Dimensions())
	assert.Equal(t, D2, Pixel.Dimensions())
	assert.Equal(t, D1, Line.Dimensions())
	assert.Equal(t, 6, Wedge.NumPoints())
	assert.Len(t, Hex.Faces(), 6)
	assert.Len(t, Quad.Faces(), 4)
	assert.Equal(t, "Pyramid", Pyramid.String())
	assert.Equal(t, "CellKind(99)", CellKind(99).String())
}
