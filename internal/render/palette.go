package render

import (
	"image/color"

	"github.com/SeamusWaldron/cubeview"
)

// Outline is the wireframe color.
var Outline = color.RGBA{0, 0, 0, 255}

// RGBA returns the display color of a facelet.
func RGBA(c cubeview.Color) color.RGBA {
	switch c {
	case cubeview.White:
		return color.RGBA{255, 255, 255, 255}
	case cubeview.Yellow:
		return color.RGBA{255, 255, 0, 255}
	case cubeview.Green:
		return color.RGBA{0, 255, 0, 255}
	case cubeview.Blue:
		return color.RGBA{77, 77, 255, 255}
	case cubeview.Orange:
		return color.RGBA{255, 128, 0, 255}
	case cubeview.Red:
		return color.RGBA{255, 77, 77, 255}
	default:
		return color.RGBA{20, 20, 20, 255}
	}
}
