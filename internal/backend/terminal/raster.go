package terminal

import (
	"fmt"
	"math"
	"strings"

	"github.com/SeamusWaldron/cubeview"
	"github.com/SeamusWaldron/cubeview/internal/render"
	"github.com/charmbracelet/lipgloss"
)

// Pixel values besides cubeview colors.
const (
	empty   int8 = -1
	outline int8 = 7
)

// raster is a small framebuffer drawn with one terminal cell per two
// vertically stacked pixels.
type raster struct {
	w, h   int
	px     []int8
	styles map[[2]int8]lipgloss.Style
}

func newRaster(w, h int) *raster {
	if w < 1 {
		w = 1
	}
	if h < 2 {
		h = 2
	}
	h += h % 2
	r := &raster{w: w, h: h, px: make([]int8, w*h), styles: map[[2]int8]lipgloss.Style{}}
	for i := range r.px {
		r.px[i] = empty
	}
	return r
}

func (r *raster) at(x, y int) int8 {
	return r.px[y*r.w+x]
}

func (r *raster) set(x, y int, v int8) {
	if x < 0 || y < 0 || x >= r.w || y >= r.h {
		return
	}
	r.px[y*r.w+x] = v
}

// FillQuad sets every pixel whose centre lies inside the convex quad.
func (r *raster) FillQuad(pts [4]render.Point, c cubeview.Color) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	x0, x1 := clampInt(int(math.Floor(minX)), 0, r.w-1), clampInt(int(math.Ceil(maxX)), 0, r.w-1)
	y0, y1 := clampInt(int(math.Floor(minY)), 0, r.h-1), clampInt(int(math.Ceil(maxY)), 0, r.h-1)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if inside(pts, float64(x)+0.5, float64(y)+0.5) {
				r.set(x, y, int8(c))
			}
		}
	}
}

// StrokeQuad draws the quad outline.
func (r *raster) StrokeQuad(pts [4]render.Point) {
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		steps := int(math.Ceil(math.Max(math.Abs(b.X-a.X), math.Abs(b.Y-a.Y))))
		if steps < 1 {
			steps = 1
		}
		for s := 0; s <= steps; s++ {
			t := float64(s) / float64(steps)
			r.set(int(math.Floor(a.X+(b.X-a.X)*t)), int(math.Floor(a.Y+(b.Y-a.Y)*t)), outline)
		}
	}
}

// inside reports whether (x, y) lies in the convex polygon, for either
// winding.
func inside(pts [4]render.Point, x, y float64) bool {
	var pos, neg bool
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
		if cross > 0 {
			pos = true
		} else if cross < 0 {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

func (r *raster) String() string {
	var b strings.Builder
	for y := 0; y < r.h; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < r.w; x++ {
			b.WriteString(r.cell(r.at(x, y), r.at(x, y+1)))
		}
	}
	return b.String()
}

func (r *raster) cell(top, bottom int8) string {
	switch {
	case top == empty && bottom == empty:
		return " "
	case bottom == empty:
		return r.style(top, empty).Render("▀")
	case top == empty:
		return r.style(bottom, empty).Render("▄")
	default:
		return r.style(top, bottom).Render("▀")
	}
}

func (r *raster) style(fg, bg int8) lipgloss.Style {
	key := [2]int8{fg, bg}
	if s, ok := r.styles[key]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(pixelColor(fg))
	if bg != empty {
		s = s.Background(pixelColor(bg))
	}
	r.styles[key] = s
	return s
}

func pixelColor(v int8) lipgloss.Color {
	c := render.Outline
	if v != outline {
		c = render.RGBA(cubeview.Color(v))
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
