package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remap.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefaultAttributes(t *testing.T) {
	a := DefaultAttributes()
	assert.True(t, a.UseExtents)
	assert.True(t, a.Is3D)
	assert.Equal(t, Intrinsic, a.VariableType)
	assert.Equal(t, [6]float64{0, 1, 0, 1, 0, 1}, a.Bounds())
	nx, ny, nz := a.Cells()
	assert.Equal(t, [3]int{10, 10, 10}, [3]int{nx, ny, nz})
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
use_extents = false
start_x = -1.0
end_x = 2.0
cells_x = 3
cells_y = 4
is_3d = false
variable_type = "extrinsic"
variable = "mass"
`)
	a, err := Load(path)
	require.NoError(t, err)
	assert.False(t, a.UseExtents)
	assert.False(t, a.Is3D)
	assert.Equal(t, Extrinsic, a.VariableType)
	assert.Equal(t, "mass", a.Variable)
	assert.Equal(t, [6]float64{-1, 2, 0, 1, 0, 1}, a.Bounds())
	nx, ny, nz := a.Cells()
	assert.Equal(t, [3]int{3, 4, 10}, [3]int{nx, ny, nz})
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, `variable_type = "sideways"`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, `cells_w = 3`))
	assert.ErrorContains(t, err, "cells_w")

	_, err = Load(writeFile(t, `cells_x = `))
	assert.Error(t, err)
}

func TestVariableType_Text(t *testing.T) {
	for _, vt := range []VariableType{Intrinsic, Extrinsic} {
		text, err := vt.MarshalText()
		require.NoError(t, err)
		var back VariableType
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, vt, back)
	}
	var vt VariableType
	require.NoError(t, vt.UnmarshalText([]byte(" Extrinsic ")))
	assert.Equal(t, Extrinsic, vt)
	_, err := VariableType(7).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "VariableType(7)", VariableType(7).String())
}
