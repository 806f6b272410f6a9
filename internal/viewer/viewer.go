// Package viewer holds the application context shared by every backend:
// the cube, the move animator, the camera and the input controller, and
// the per-frame step that advances them.
package viewer

import (
	"context"

	"github.com/SeamusWaldron/cubeview"
)

// Viewer is the capability a backend exposes to the launching program.
type Viewer interface {
	// Init prepares the backend. Run must not be called if it fails.
	Init() error
	// Run enters the frame loop and returns on quit or ctx cancellation.
	Run(ctx context.Context) error

	SetCube(c *cubeview.Cube) error
	AddRotate(face cubeview.Face, depth, turns int)
	SetRotateDuration(seconds float64)
	AdjustOrbit(dPitch, dYaw float64)
	Zoom(factor float64)
}
