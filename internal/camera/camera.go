// Package camera implements the viewer camera: keyboard orbit, mouse
// trackball and clamped multiplicative zoom.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Zoom limits.
const (
	MinZoom = 0.1
	MaxZoom = 10.0
)

// Projection parameters.
const (
	Distance = 3.0  // eye distance from the cube centre
	FovY     = 45.0 // degrees
	Near     = 0.1
	Far      = 100.0
)

// State is a snapshot of the camera pose.
type State struct {
	Yaw       float64   // degrees about the vertical axis
	Pitch     float64   // degrees about the horizontal axis
	Zoom      float64   // in [MinZoom, MaxZoom]
	Trackball mgl64.Quat // rotation accumulated from drags
}

// Camera holds orbit, trackball and zoom state.
type Camera struct {
	yaw   float64
	pitch float64
	zoom  float64
	ball  *Trackball
}

// Option configures a Camera.
type Option func(*Camera)

// WithOrbit sets the initial pitch and yaw in degrees.
func WithOrbit(pitch, yaw float64) Option {
	return func(c *Camera) {
		c.pitch = pitch
		c.yaw = yaw
	}
}

// WithZoom sets the initial zoom, clamped to [MinZoom, MaxZoom].
func WithZoom(z float64) Option {
	return func(c *Camera) {
		c.zoom = clamp(z)
	}
}

// WithTrackball sets the initial trackball rotation.
func WithTrackball(degrees float64, axis mgl64.Vec3) Option {
	return func(c *Camera) {
		c.ball = NewTrackball(mgl64.QuatRotate(mgl64.DegToRad(degrees), axis.Normalize()))
	}
}

// New returns a camera looking at the front, top and right faces.
func New(opts ...Option) *Camera {
	c := &Camera{
		zoom: 1,
		ball: NewTrackball(mgl64.QuatRotate(mgl64.DegToRad(40), mgl64.Vec3{1, -1, 0}.Normalize())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AdjustOrbit adds to pitch and yaw. Angles are unbounded.
func (c *Camera) AdjustOrbit(dPitch, dYaw float64) {
	c.pitch += dPitch
	c.yaw += dYaw
}

// Zoom multiplies the zoom by factor and clamps the result. Factors that
// are not finite and positive are ignored.
func (c *Camera) Zoom(factor float64) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return
	}
	c.zoom = clamp(c.zoom * factor)
}

// BeginDrag starts a trackball drag at normalized window coordinates in
// [-0.5, 0.5], y pointing down.
func (c *Camera) BeginDrag(x, y float64) {
	c.ball.Begin(x, y)
}

// Drag updates the active drag.
func (c *Camera) Drag(x, y float64) {
	c.ball.Move(x, y)
}

// EndDrag finishes the active drag and keeps its rotation.
func (c *Camera) EndDrag(x, y float64) {
	c.ball.End(x, y)
}

// FinishDrag ends an active drag at its last position.
func (c *Camera) FinishDrag() {
	c.ball.Finish()
}

// Dragging reports whether a trackball drag is in progress.
func (c *Camera) Dragging() bool {
	return c.ball.Active()
}

// State returns a snapshot of the camera.
func (c *Camera) State() State {
	return State{
		Yaw:       c.yaw,
		Pitch:     c.pitch,
		Zoom:      c.zoom,
		Trackball: c.ball.Rotation(),
	}
}

// View returns the model-view matrix. Composition order is fixed:
// translate, pitch, yaw, trackball, zoom scale.
func (c *Camera) View() mgl64.Mat4 {
	s := 1 / c.zoom
	return mgl64.Translate3D(0, 0, -Distance).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(c.pitch))).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(c.yaw))).
		Mul4(c.ball.Rotation().Mat4()).
		Mul4(mgl64.Scale3D(s, s, s))
}

// Projection returns the perspective matrix for the given aspect ratio.
func Projection(aspect float64) mgl64.Mat4 {
	if !(aspect > 0) {
		aspect = 1
	}
	return mgl64.Perspective(mgl64.DegToRad(FovY), aspect, Near, Far)
}

func clamp(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
