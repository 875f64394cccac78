package scene

import "github.com/Faultbox/bndtool/pkg/encoding"

// Material is a host-side material: a lower-case name and a display color.
type Material struct {
	Name  string
	Color [4]float32 // RGBA, 0..1
}

// materialColors maps well-known surface names to their display color.
var materialColors = map[string][4]float32{
	"grass":       {0, 0.507, 0.005, 1.0},
	"cobblestone": {0.040, 0.040, 0.040, 1.0},
	"default":     {1, 1, 1, 1.0},
	"wood":        {0.545, 0.27, 0.074, 1.0},
	"dirt":        {0.545, 0.35, 0.168, 1.0},
	"mud":         {0.345, 0.25, 0.068, 1.0},
	"sand":        {1, 0.78, 0.427, 1.0},
	"water":       {0.20, 0.458, 0.509, 1.0},
	"deepwater":   {0.15, 0.408, 0.459, 1.0},
}

// MaterialColor returns the display color for a material name.
// Unknown names are white.
func MaterialColor(name string) [4]float32 {
	if c, ok := materialColors[encoding.FoldName(name)]; ok {
		return c
	}
	return materialColors["default"]
}

// NewMaterial creates a material with a lower-cased name and its color.
func NewMaterial(name string) *Material {
	name = encoding.FoldName(name)
	return &Material{Name: name, Color: MaterialColor(name)}
}
