package camera

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestZoomAlwaysClamped(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := New()
	for i := 0; i < 5000; i++ {
		f := math.Exp(rng.NormFloat64() * 3)
		c.Zoom(f)
		z := c.State().Zoom
		if z < MinZoom || z > MaxZoom {
			t.Fatalf("zoom %v out of range after factor %v", z, f)
		}
	}
}

func TestZoomClampIsIdempotent(t *testing.T) {
	c := New()
	for i := 0; i < 100; i++ {
		c.Zoom(1.1)
	}
	if c.State().Zoom != MaxZoom {
		t.Errorf("expected zoom pinned at %v, got %v", MaxZoom, c.State().Zoom)
	}
	for i := 0; i < 200; i++ {
		c.Zoom(0.9)
	}
	if c.State().Zoom != MinZoom {
		t.Errorf("expected zoom pinned at %v, got %v", MinZoom, c.State().Zoom)
	}
}

func TestZoomIgnoresInvalidFactors(t *testing.T) {
	c := New()
	for _, f := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		c.Zoom(f)
	}
	if c.State().Zoom != 1 {
		t.Errorf("invalid factors should be ignored, zoom=%v", c.State().Zoom)
	}
}

func TestAdjustOrbitIsAdditive(t *testing.T) {
	c := New()
	c.AdjustOrbit(5, 0)
	c.AdjustOrbit(0, -5)
	c.AdjustOrbit(-5, -5)
	s := c.State()
	if s.Pitch != 0 || s.Yaw != -10 {
		t.Errorf("expected pitch 0 yaw -10, got pitch %v yaw %v", s.Pitch, s.Yaw)
	}
}

func TestOrbitDoesNotTouchTrackball(t *testing.T) {
	c := New()
	before := c.State().Trackball
	c.AdjustOrbit(30, 45)
	if !c.State().Trackball.ApproxEqual(before) {
		t.Error("orbit input should not change the trackball")
	}
}

func TestDragWithoutMovementKeepsRotation(t *testing.T) {
	c := New()
	before := c.State().Trackball
	c.BeginDrag(0.1, 0.1)
	c.EndDrag(0.1, 0.1)
	if !c.State().Trackball.ApproxEqual(before) {
		t.Error("a click without movement should not rotate")
	}
}

func TestDragRotatesAndKeepsOrbit(t *testing.T) {
	c := New(WithOrbit(10, 20), WithTrackball(0, mgl64.Vec3{0, 1, 0}))
	c.BeginDrag(0, 0)
	c.Drag(0.2, 0)
	if !c.Dragging() {
		t.Fatal("drag should be active")
	}
	mid := c.State().Trackball
	c.EndDrag(0.2, 0)
	end := c.State()

	if end.Trackball.ApproxEqual(mgl64.QuatIdent()) {
		t.Error("horizontal drag should rotate the trackball")
	}
	if !end.Trackball.ApproxEqual(mid) {
		t.Error("ending at the last drag point should keep the drag rotation")
	}
	if end.Pitch != 10 || end.Yaw != 20 {
		t.Error("trackball drag should not change orbit angles")
	}

	// Dragging right turns the front of the cube toward +x: rotation about +y.
	v := end.Trackball.Rotate(mgl64.Vec3{0, 0, 1})
	if v[0] <= 0 {
		t.Errorf("expected +x component after dragging right, got %v", v)
	}
}

func TestMoveWithoutBeginIsIgnored(t *testing.T) {
	c := New()
	before := c.State().Trackball
	c.Drag(0.3, 0.3)
	c.EndDrag(0.3, 0.3)
	if !c.State().Trackball.ApproxEqual(before) {
		t.Error("pointer moves without a press should be ignored")
	}
}

func TestReplayIsDeterministic(t *testing.T) {
	run := func() State {
		c := New()
		c.AdjustOrbit(5, -5)
		c.Zoom(0.9)
		c.BeginDrag(-0.1, 0.2)
		c.Drag(0.05, 0.1)
		c.EndDrag(0.2, -0.1)
		c.Zoom(1.1)
		c.AdjustOrbit(-5, 0)
		return c.State()
	}
	a, b := run(), run()
	if a.Pitch != b.Pitch || a.Yaw != b.Yaw || a.Zoom != b.Zoom || !a.Trackball.ApproxEqual(b.Trackball) {
		t.Errorf("replaying the same input gave %+v and %+v", a, b)
	}
}

func TestViewPlacesCubeInFront(t *testing.T) {
	c := New(WithTrackball(0, mgl64.Vec3{0, 1, 0}))
	p := c.View().Mul4x1(mgl64.Vec4{0, 0, 0, 1})
	if math.Abs(p[2]+Distance) > 1e-9 {
		t.Errorf("cube centre should sit at z=-%v, got %v", Distance, p[2])
	}

	c.Zoom(2)
	q := c.View().Mul4x1(mgl64.Vec4{1, 0, 0, 1})
	if math.Abs(q[0]-0.5) > 1e-9 {
		t.Errorf("zoom 2 should halve model scale, got x=%v", q[0])
	}
}
