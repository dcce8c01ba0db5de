package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/gridscope/scene"
	"github.com/lixenwraith/gridscope/vmath"
)

// Palette, Tokyo Night background
var (
	RgbBackground = scene.RGB{R: 26, G: 27, B: 38}
	RgbStatusFg   = scene.RGB{R: 169, G: 177, B: 214}
	RgbStatusBg   = scene.RGB{R: 36, G: 40, B: 59}
	RgbConfigured = scene.RGB{R: 255, G: 158, B: 100}
	RgbEdge       = scene.RGB{R: 86, G: 95, B: 137}
)

// RGBToTcell converts a scene color to tcell
func RGBToTcell(c scene.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Blend mixes c over the background with alpha in [0,1]
func Blend(c, bg scene.RGB, alpha float64) scene.RGB {
	a := vmath.ClampF(alpha, 0, 1)
	mix := func(fg, bg uint8) uint8 {
		return uint8(float64(bg) + (float64(fg)-float64(bg))*a + 0.5)
	}
	return scene.RGB{R: mix(c.R, bg.R), G: mix(c.G, bg.G), B: mix(c.B, bg.B)}
}

// Fog returns the brightness factor for view depth; near objects render at full strength
func Fog(depth float64) float64 {
	return vmath.ClampF(1.25-depth/FogDistance, MinFog, 1)
}

const (
	FogDistance = 160.0
	MinFog      = 0.3
)
