package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Trackball turns pointer drags into rotations by projecting window points
// onto a virtual sphere.
type Trackball struct {
	rest   mgl64.Quat // rotation kept from finished drags
	drag   mgl64.Quat // rotation of the drag in progress
	start  mgl64.Vec3
	active bool
}

// NewTrackball returns a trackball starting at rotation q.
func NewTrackball(q mgl64.Quat) *Trackball {
	return &Trackball{rest: q.Normalize(), drag: mgl64.QuatIdent()}
}

// Begin starts a drag at normalized coordinates (x, y).
func (t *Trackball) Begin(x, y float64) {
	t.start = spherePoint(x, y)
	t.drag = mgl64.QuatIdent()
	t.active = true
}

// Move updates the drag rotation. Ignored when no drag is active.
func (t *Trackball) Move(x, y float64) {
	if !t.active {
		return
	}
	t.drag = arc(t.start, spherePoint(x, y))
}

// End updates the drag to (x, y) and keeps it.
func (t *Trackball) End(x, y float64) {
	if !t.active {
		return
	}
	t.Move(x, y)
	t.Finish()
}

// Finish keeps the current drag rotation and ends the drag.
func (t *Trackball) Finish() {
	if !t.active {
		return
	}
	t.rest = t.drag.Mul(t.rest).Normalize()
	t.drag = mgl64.QuatIdent()
	t.active = false
}

// Active reports whether a drag is in progress.
func (t *Trackball) Active() bool {
	return t.active
}

// Rotation returns the kept rotation composed with the drag in progress.
func (t *Trackball) Rotation() mgl64.Quat {
	return t.drag.Mul(t.rest)
}

// spherePoint maps window coordinates in [-0.5, 0.5] (y down) to a point
// on the unit sphere, or on its rim when outside it.
func spherePoint(x, y float64) mgl64.Vec3 {
	p := mgl64.Vec3{2 * x, -2 * y, 0}
	d2 := p[0]*p[0] + p[1]*p[1]
	if d2 <= 1 {
		p[2] = math.Sqrt(1 - d2)
		return p
	}
	return p.Mul(1 / math.Sqrt(d2))
}

// arc returns the rotation carrying a onto b.
func arc(a, b mgl64.Vec3) mgl64.Quat {
	axis := a.Cross(b)
	if axis.Len() < 1e-9 {
		return mgl64.QuatIdent()
	}
	cos := a.Dot(b) / (a.Len() * b.Len())
	cos = math.Max(-1, math.Min(1, cos))
	return mgl64.QuatRotate(math.Acos(cos), axis.Normalize())
}
