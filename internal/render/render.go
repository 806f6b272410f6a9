// Package render turns the cube, the animation frame and the camera into
// draw calls. It only reads its inputs.
package render

import (
	"sort"

	"github.com/SeamusWaldron/cubeview"
	"github.com/SeamusWaldron/cubeview/internal/anim"
	"github.com/SeamusWaldron/cubeview/internal/camera"
	"github.com/go-gl/mathgl/mgl64"
)

// Extent is the cube edge length in model units.
const Extent = 1.0

// Point is a position in target pixels.
type Point struct {
	X, Y float64
}

// Canvas receives draw calls in back-to-front order.
type Canvas interface {
	FillQuad(pts [4]Point, c cubeview.Color)
	StrokeQuad(pts [4]Point)
}

// Viewport describes the target surface. PixelAspect is the height of one
// pixel divided by its width (1 for square pixels).
type Viewport struct {
	Width, Height float64
	PixelAspect   float64
}

// Scene is everything the renderer reads for one frame.
type Scene struct {
	Cube  *cubeview.Cube
	Frame anim.Frame
	View  mgl64.Mat4
}

// Quad is one projected block face.
type Quad struct {
	Points  [4]Point
	Depth   float64 // distance from the eye, larger is farther
	Color   cubeview.Color
	Face    cubeview.Face
	I, J, K int
}

// faceCorners lists each face's corners on the unit block in perimeter
// order, as x, y, z offsets.
var faceCorners = [cubeview.NumFaces][4]mgl64.Vec3{
	cubeview.Top:    {{0, 1, 0}, {1, 1, 0}, {1, 1, 1}, {0, 1, 1}},
	cubeview.Bottom: {{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
	cubeview.Front:  {{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
	cubeview.Back:   {{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
	cubeview.Left:   {{0, 0, 0}, {0, 1, 0}, {0, 1, 1}, {0, 0, 1}},
	cubeview.Right:  {{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}},
}

// Quads projects every visible block face and returns them sorted
// back to front. Faces pointing away from the eye are culled. Interior
// faces are only produced while a layer is turning, when they can show.
func Quads(scene Scene, vp Viewport) []Quad {
	c := scene.Cube
	n := c.Size()
	s := Extent / float64(n)
	base := -Extent / 2

	aspect := 1.0
	if vp.Height > 0 && vp.PixelAspect > 0 {
		aspect = vp.Width / (vp.Height * vp.PixelAspect)
	}
	proj := camera.Projection(aspect)

	axis, _, active := scene.Frame.Mask.Active()
	slice := scene.View.Mul4(sliceRotation(axis, scene.Frame.Angle()))

	quads := make([]Quad, 0, n*n*6)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				mv := scene.View
				if active && scene.Frame.Mask.Contains(i, j, k) {
					mv = slice
				}
				origin := mgl64.Vec3{base + float64(k)*s, base + float64(i)*s, base + float64(j)*s}
				block := c.Block(i, j, k)

				for _, f := range cubeview.Faces {
					col := block[f]
					if col == cubeview.Interior && !active {
						continue
					}
					q, ok := project(mv, proj, vp, origin, s, f)
					if !ok {
						continue
					}
					q.Color = col
					q.Face = f
					q.I, q.J, q.K = i, j, k
					quads = append(quads, q)
				}
			}
		}
	}

	sort.SliceStable(quads, func(a, b int) bool {
		return quads[a].Depth > quads[b].Depth
	})
	return quads
}

// Draw issues a fill and an outline for every quad, back to front, and
// returns the number of faces drawn.
func Draw(cv Canvas, scene Scene, vp Viewport) int {
	quads := Quads(scene, vp)
	for _, q := range quads {
		cv.FillQuad(q.Points, q.Color)
		cv.StrokeQuad(q.Points)
	}
	return len(quads)
}

func sliceRotation(axis cubeview.Axis, degrees float64) mgl64.Mat4 {
	rad := mgl64.DegToRad(degrees)
	switch axis {
	case cubeview.AxisY:
		return mgl64.HomogRotate3DY(rad)
	case cubeview.AxisZ:
		return mgl64.HomogRotate3DZ(rad)
	default:
		return mgl64.HomogRotate3DX(rad)
	}
}

func project(mv, proj mgl64.Mat4, vp Viewport, origin mgl64.Vec3, s float64, f cubeview.Face) (Quad, bool) {
	var q Quad

	nrm := f.Normal()
	normal := mv.Mul4x1(mgl64.Vec4{float64(nrm[0]), float64(nrm[1]), float64(nrm[2]), 0}).Vec3()

	var centre mgl64.Vec3
	var eye [4]mgl64.Vec3
	for idx, off := range faceCorners[f] {
		p := origin.Add(off.Mul(s))
		eye[idx] = mv.Mul4x1(p.Vec4(1)).Vec3()
		centre = centre.Add(eye[idx])
	}
	centre = centre.Mul(0.25)

	// eye sits at the origin of view space
	if normal.Dot(centre.Mul(-1)) <= 0 {
		return q, false
	}

	for idx, e := range eye {
		clip := proj.Mul4x1(e.Vec4(1))
		if clip[3] < camera.Near {
			return q, false
		}
		q.Points[idx] = Point{
			X: (clip[0]/clip[3] + 1) / 2 * vp.Width,
			Y: (1 - clip[1]/clip[3]) / 2 * vp.Height,
		}
	}
	q.Depth = -centre[2]
	return q, true
}
