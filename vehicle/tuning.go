package vehicle

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTuning = errors.New("vehicle: invalid tuning")
	ErrUnknownPolicy = errors.New("vehicle: unknown policy")
)

// Policy selects how input is integrated into motion.
type Policy int

const (
	// PolicySpeedThenTurn accumulates a scalar speed impulse, turns only while
	// moving and damps lateral slide separately from forward motion.
	PolicySpeedThenTurn Policy = iota + 1
	// PolicyDirectAccel applies thrust straight to the velocity vector, turns
	// unconditionally and clamps the velocity magnitude.
	PolicyDirectAccel
)

func (p Policy) String() string {
	switch p {
	case PolicySpeedThenTurn:
		return "speed_then_turn"
	case PolicyDirectAccel:
		return "direct_accel"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "speed_then_turn", "a", "A":
		return PolicySpeedThenTurn, nil
	case "direct_accel", "b", "B":
		return PolicyDirectAccel, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Tuning holds the per-policy constants. Friction is only read by
// PolicySpeedThenTurn and is left zero for PolicyDirectAccel.
type Tuning struct {
	Accel     float64
	MaxSpeed  float64
	Friction  float64
	Drift     float64
	TurnSpeed float64
}

// DefaultTuning returns the constants each policy ships with.
func DefaultTuning(p Policy) Tuning {
	switch p {
	case PolicyDirectAccel:
		return Tuning{
			Accel:     30,
			MaxSpeed:  20,
			Drift:     0.98,
			TurnSpeed: 2,
		}
	default:
		return Tuning{
			Accel:     10,
			MaxSpeed:  20,
			Friction:  0.98,
			Drift:     0.92,
			TurnSpeed: 2,
		}
	}
}

// Validate checks t for use with p. Damping factors must be strictly below one
// so that a vehicle left alone always slows down.
func (t Tuning) Validate(p Policy) error {
	switch {
	case t.Accel <= 0:
		return fmt.Errorf("%w: accel must be positive, got %v", ErrInvalidTuning, t.Accel)
	case t.MaxSpeed <= 0:
		return fmt.Errorf("%w: max speed must be positive, got %v", ErrInvalidTuning, t.MaxSpeed)
	case t.TurnSpeed <= 0:
		return fmt.Errorf("%w: turn speed must be positive, got %v", ErrInvalidTuning, t.TurnSpeed)
	case t.Drift <= 0 || t.Drift >= 1:
		return fmt.Errorf("%w: drift must be in (0, 1), got %v", ErrInvalidTuning, t.Drift)
	case p == PolicySpeedThenTurn && (t.Friction <= 0 || t.Friction >= 1):
		return fmt.Errorf("%w: friction must be in (0, 1), got %v", ErrInvalidTuning, t.Friction)
	}
	return nil
}
