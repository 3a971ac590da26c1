// Package camera derives the view from the vehicle's position.
package camera

import (
	"errors"
	"fmt"
	"math"
)

var ErrUnknownMode = errors.New("camera: unknown mode")

type Vec3 struct {
	X, Y, Z float64
}

// Pose is an eye position and the point it looks at.
type Pose struct {
	Eye    Vec3
	Target Vec3
}

type Mode int

const (
	// ModeOverhead keeps the eye straight above the vehicle.
	ModeOverhead Mode = iota + 1
	// ModeFixedAngle45 offsets the eye diagonally in world space so it views
	// the vehicle at 45 degrees. The offset does not rotate with heading.
	ModeFixedAngle45
)

func (m Mode) String() string {
	switch m {
	case ModeOverhead:
		return "overhead"
	case ModeFixedAngle45:
		return "fixed_angle_45"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "overhead":
		return ModeOverhead, nil
	case "fixed_angle_45", "fixed45":
		return ModeFixedAngle45, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

const (
	DefaultHeight     = 10.0
	DefaultRideHeight = 0.25
)

// Rig describes where the camera sits relative to the vehicle.
type Rig struct {
	Mode       Mode
	Height     float64
	RideHeight float64
}

func DefaultRig(mode Mode) Rig {
	return Rig{Mode: mode, Height: DefaultHeight, RideHeight: DefaultRideHeight}
}

// Derive returns the pose for a vehicle at (x, z) on the ground plane. Unknown
// modes fall back to overhead.
func (r Rig) Derive(x, z float64) Pose {
	target := Vec3{X: x, Y: r.RideHeight, Z: z}
	switch r.Mode {
	case ModeFixedAngle45:
		off := r.Height / math.Sqrt2
		return Pose{Eye: Vec3{X: x + off, Y: r.Height, Z: z + off}, Target: target}
	default:
		return Pose{Eye: Vec3{X: x, Y: r.Height, Z: z}, Target: target}
	}
}

// Lens holds the projection parameters used when drawing a pose.
type Lens struct {
	FOV  float64 // vertical, degrees
	Near float64
	Far  float64
}

func DefaultLens() Lens {
	return Lens{FOV: 75, Near: 0.1, Far: 1000}
}
