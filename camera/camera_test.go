package camera

import (
	"errors"
	"math"
	"testing"
)

func near(a, b Vec3) bool {
	const eps = 1e-4
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestRigDerive(t *testing.T) {
	cases := []struct {
		name       string
		rig        Rig
		x, z       float64
		wantEye    Vec3
		wantTarget Vec3
	}{
		{
			name:       "overhead",
			rig:        Rig{Mode: ModeOverhead, Height: 10, RideHeight: 0.25},
			x:          3,
			z:          -2,
			wantEye:    Vec3{X: 3, Y: 10, Z: -2},
			wantTarget: Vec3{X: 3, Y: 0.25, Z: -2},
		},
		{
			name:       "fixed_angle_45",
			rig:        Rig{Mode: ModeFixedAngle45, Height: 10, RideHeight: 0.25},
			x:          3,
			z:          -2,
			wantEye:    Vec3{X: 10.0711, Y: 10, Z: 4.0711},
			wantTarget: Vec3{X: 3, Y: 0.25, Z: -2},
		},
		{
			name:       "unknown_mode_is_overhead",
			rig:        Rig{Height: 4, RideHeight: 1},
			x:          -1,
			z:          7,
			wantEye:    Vec3{X: -1, Y: 4, Z: 7},
			wantTarget: Vec3{X: -1, Y: 1, Z: 7},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pose := c.rig.Derive(c.x, c.z)
			if !near(pose.Eye, c.wantEye) {
				t.Fatalf("eye = %+v, want %+v", pose.Eye, c.wantEye)
			}
			if !near(pose.Target, c.wantTarget) {
				t.Fatalf("target = %+v, want %+v", pose.Target, c.wantTarget)
			}
		})
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	rig := DefaultRig(ModeFixedAngle45)
	a := rig.Derive(12.5, -40)
	b := rig.Derive(12.5, -40)
	if a != b {
		t.Fatalf("derive should be deterministic: %+v vs %+v", a, b)
	}
	if off := a.Eye.X - a.Target.X; math.Abs(off-DefaultHeight/math.Sqrt2) > 1e-12 {
		t.Fatalf("unexpected offset %v", off)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeOverhead, ModeFixedAngle45} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Fatalf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMode("orbit"); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}
