package window

import (
	"github.com/SeamusWaldron/cubeview"
	"github.com/SeamusWaldron/cubeview/internal/render"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const strokeWidth = 1.5

// canvas draws render quads onto an ebiten image.
type canvas struct {
	dst   *ebiten.Image
	src   *ebiten.Image
	verts []ebiten.Vertex
}

var quadIndices = []uint16{0, 1, 2, 0, 2, 3}

func (c *canvas) FillQuad(pts [4]render.Point, col cubeview.Color) {
	rgba := render.RGBA(col)
	r := float32(rgba.R) / 255
	g := float32(rgba.G) / 255
	b := float32(rgba.B) / 255

	c.verts = c.verts[:0]
	for _, p := range pts {
		c.verts = append(c.verts, ebiten.Vertex{
			DstX:   float32(p.X),
			DstY:   float32(p.Y),
			SrcX:   1,
			SrcY:   1,
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: 1,
		})
	}
	c.dst.DrawTriangles(c.verts, quadIndices, c.src, &ebiten.DrawTrianglesOptions{})
}

func (c *canvas) StrokeQuad(pts [4]render.Point) {
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		vector.StrokeLine(c.dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), strokeWidth, render.Outline, true)
	}
}
