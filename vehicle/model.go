// Package vehicle integrates driver input into the kinematic state of a single
// vehicle moving over a flat ground plane.
//
// Two integration policies are available and are picked when the model is
// built. They are not variations of one another: they gate turning, clamp speed
// and damp velocity differently, so both are kept side by side.
package vehicle

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

// State is the kinematic state of the vehicle on the ground plane. Heading is
// in radians and accumulates without wrapping.
type State struct {
	X, Z        float64
	Heading     float64
	VX, VZ      float64
	LegacySpeed float64
}

// Speed returns the magnitude of the world-frame velocity.
func (s State) Speed() float64 {
	return math.Hypot(s.VX, s.VZ)
}

// Forward returns the unit vector the vehicle is facing, as (x, z).
func (s State) Forward() (float64, float64) {
	return math.Sin(s.Heading), math.Cos(s.Heading)
}

// Model owns a vehicle's state and advances it once per frame.
type Model interface {
	// Update advances the state by dt seconds. dt is used as given: zero or
	// negative values are integrated like any other.
	Update(in Intents, dt float64)
	State() State
	Policy() Policy
	Tuning() Tuning
	SetTuning(t Tuning) error
	Reset()
}

// New builds a model for the given policy.
func New(p Policy, t Tuning) (Model, error) {
	if err := t.Validate(p); err != nil {
		return nil, err
	}
	switch p {
	case PolicySpeedThenTurn:
		return &speedThenTurn{tuning: t}, nil
	case PolicyDirectAccel:
		return &directAccel{tuning: t}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownPolicy, p)
}

func turnSign(in Intents) float64 {
	sign := 0.0
	if in.TurnLeft {
		sign++
	}
	if in.TurnRight {
		sign--
	}
	return sign
}

func thrustSign(in Intents) float64 {
	sign := 0.0
	if in.Accelerate {
		sign++
	}
	if in.Brake {
		sign--
	}
	return sign
}

type speedThenTurn struct {
	state  State
	tuning Tuning
}

func (m *speedThenTurn) Update(in Intents, dt float64) {
	s := &m.state
	t := m.tuning

	if in.Accelerate {
		s.LegacySpeed += t.Accel * dt
	}
	if in.Brake {
		s.LegacySpeed -= t.Accel * dt
	}
	s.LegacySpeed = math.Max(-t.MaxSpeed, math.Min(t.MaxSpeed, s.LegacySpeed))

	// Gated on last frame's velocity, so the first frame after starting from
	// rest cannot turn yet.
	gate := 0.0
	if s.VX != 0 || s.VZ != 0 {
		gate = 1
	}
	if in.TurnLeft {
		s.Heading += t.TurnSpeed * dt * gate
	}
	if in.TurnRight {
		s.Heading -= t.TurnSpeed * dt * gate
	}

	forwardX := math.Sin(s.Heading)
	forwardZ := math.Cos(s.Heading)
	s.VX += forwardX * s.LegacySpeed * dt
	s.VZ += forwardZ * s.LegacySpeed * dt
	s.LegacySpeed = 0

	s.VX *= t.Friction
	s.VZ *= t.Friction

	// Bleed off only the sideways component.
	rightX := forwardZ
	rightZ := -forwardX
	side := s.VX*rightX + s.VZ*rightZ
	s.VX -= side * (1 - t.Drift) * rightX
	s.VZ -= side * (1 - t.Drift) * rightZ

	s.X += s.VX * dt
	s.Z += s.VZ * dt
}

func (m *speedThenTurn) State() State   { return m.state }
func (m *speedThenTurn) Policy() Policy { return PolicySpeedThenTurn }
func (m *speedThenTurn) Tuning() Tuning { return m.tuning }
func (m *speedThenTurn) Reset()         { m.state = State{} }

func (m *speedThenTurn) SetTuning(t Tuning) error {
	if err := t.Validate(PolicySpeedThenTurn); err != nil {
		return err
	}
	m.tuning = t
	return nil
}

type directAccel struct {
	state  State
	tuning Tuning
}

func (m *directAccel) Update(in Intents, dt float64) {
	s := &m.state
	t := m.tuning

	forward := cp.Vector{X: math.Sin(s.Heading), Y: math.Cos(s.Heading)}
	vel := cp.Vector{X: s.VX, Y: s.VZ}

	// Accelerate and brake are summed first so that holding both adds nothing.
	vel = vel.Add(forward.Mult(thrustSign(in) * t.Accel * dt))

	s.Heading += turnSign(in) * t.TurnSpeed * dt

	vel = vel.Clamp(t.MaxSpeed)
	vel = vel.Mult(t.Drift)

	s.VX, s.VZ = vel.X, vel.Y
	s.X += s.VX * dt
	s.Z += s.VZ * dt
}

func (m *directAccel) State() State   { return m.state }
func (m *directAccel) Policy() Policy { return PolicyDirectAccel }
func (m *directAccel) Tuning() Tuning { return m.tuning }
func (m *directAccel) Reset()         { m.state = State{} }

func (m *directAccel) SetTuning(t Tuning) error {
	if err := t.Validate(PolicyDirectAccel); err != nil {
		return err
	}
	m.tuning = t
	return nil
}
