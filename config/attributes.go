package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// VariableType classifies how a field aggregates when remapped
type VariableType int

const (
	// Intrinsic fields (density, temperature) are volume averaged
	Intrinsic VariableType = iota
	// Extrinsic fields (mass, energy) are apportioned by volume and summed
	Extrinsic
)

func (vt VariableType) String() string {
	switch vt {
	case Intrinsic:
		return "intrinsic"
	case Extrinsic:
		return "extrinsic"
	}
	return fmt.Sprintf("VariableType(%d)", int(vt))
}

func (vt VariableType) MarshalText() ([]byte, error) {
	switch vt {
	case Intrinsic, Extrinsic:
		return []byte(vt.String()), nil
	}
	return nil, fmt.Errorf("unknown variable type %d", int(vt))
}

func (vt *VariableType) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "intrinsic", "":
		*vt = Intrinsic
	case "extrinsic":
		*vt = Extrinsic
	default:
		return fmt.Errorf("unknown variable type %q, want intrinsic or extrinsic", text)
	}
	return nil
}

// Attributes are the user settings of a remap
type Attributes struct {
	// UseExtents takes the bounds from the dataset instead of Start/End
	UseExtents bool `toml:"use_extents"`

	StartX float64 `toml:"start_x"`
	EndX   float64 `toml:"end_x"`
	StartY float64 `toml:"start_y"`
	EndY   float64 `toml:"end_y"`
	StartZ float64 `toml:"start_z"`
	EndZ   float64 `toml:"end_z"`

	CellsX int `toml:"cells_x"`
	CellsY int `toml:"cells_y"`
	CellsZ int `toml:"cells_z"`

	Is3D         bool         `toml:"is_3d"`
	VariableType VariableType `toml:"variable_type"`

	// Variable names the field to remap; empty selects the dataset's
	// active variable
	Variable string `toml:"variable"`
}

// DefaultAttributes returns the settings used when nothing is configured
func DefaultAttributes() Attributes {
	return Attributes{
		UseExtents: true,
		EndX:       1,
		EndY:       1,
		EndZ:       1,
		CellsX:     10,
		CellsY:     10,
		CellsZ:     10,
		Is3D:       true,
	}
}

// Load reads attributes from a TOML file. Keys missing from the file keep
// their default values; unknown keys are an error.
func Load(path string) (Attributes, error) {
	atts := DefaultAttributes()
	md, err := toml.DecodeFile(path, &atts)
	if err != nil {
		return Attributes{}, fmt.Errorf("reading remap attributes from %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Attributes{}, fmt.Errorf("unknown remap attributes in %s: %s", path, strings.Join(keys, ", "))
	}
	return atts, nil
}

// Bounds returns the explicit bounds as [xmin,xmax,ymin,ymax,zmin,zmax]
func (a Attributes) Bounds() [6]float64 {
	return [6]float64{a.StartX, a.EndX, a.StartY, a.EndY, a.StartZ, a.EndZ}
}

// Cells returns the requested number of target cells per axis
func (a Attributes) Cells() (nx, ny, nz int) {
	return a.CellsX, a.CellsY, a.CellsZ
}

func (a Attributes) String() string {
	src := "explicit bounds " + fmt.Sprint(a.Bounds())
	if a.UseExtents {
		src = "dataset extents"
	}
	dim := "2D"
	if a.Is3D {
		dim = "3D"
	}
	return fmt.Sprintf("%s %dx%dx%d over %s, %s %q", dim, a.CellsX, a.CellsY, a.CellsZ, src, a.VariableType, a.Variable)
}
