package script

import (
	"context"
	"testing"

	"github.com/milk9111/drivesim/prefabs"
	"github.com/milk9111/drivesim/vehicle"
	"github.com/rs/zerolog"
)

func TestDriverEmitsKeyEvents(t *testing.T) {
	src := []byte(`
accelerate = frame < 3
brake = frame >= 5
left = frame % 2 == 0
right = false
`)
	d, err := New("inline", src, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.Name() != "inline" {
		t.Fatalf("Name() = %q", d.Name())
	}
	in := vehicle.NewInput()

	cases := []struct {
		frame int
		want  vehicle.Intents
	}{
		{0, vehicle.Intents{Accelerate: true, TurnLeft: true}},
		{1, vehicle.Intents{Accelerate: true}},
		{3, vehicle.Intents{}},
		{6, vehicle.Intents{Brake: true, TurnLeft: true}},
	}

	for _, c := range cases {
		if err := d.Step(context.Background(), c.frame, float64(c.frame)/60, in); err != nil {
			t.Fatalf("frame %d: %v", c.frame, err)
		}
		if got := in.Read(); got != c.want {
			t.Fatalf("frame %d: intents %+v, want %+v", c.frame, got, c.want)
		}
	}
}

func TestDriverLeavesOtherKeysAlone(t *testing.T) {
	d, err := New("idle", []byte(`accelerate = false`), zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	in := vehicle.NewInput()
	in.OnKeyDown(vehicle.KeyLeft)

	if err := d.Step(context.Background(), 0, 0, in); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !in.Read().TurnLeft {
		t.Fatalf("a key the script never pressed must not be released")
	}
}

func TestDriverRuntimeErrorReleasesKeys(t *testing.T) {
	src := []byte(`
accelerate = true
if frame > 0 {
	ratio := 10 / (frame - 5)
}
`)
	d, err := New("broken", src, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	in := vehicle.NewInput()
	if err := d.Step(context.Background(), 0, 0, in); err != nil {
		t.Fatalf("frame 0: %v", err)
	}
	if !in.Read().Accelerate {
		t.Fatalf("expected accelerate held")
	}
	if err := d.Step(context.Background(), 5, 0, in); err == nil {
		t.Fatalf("expected runtime error")
	}
	if in.Read().Accelerate {
		t.Fatalf("held keys should be released after an error")
	}
}

func TestCompileError(t *testing.T) {
	if _, err := New("bad", []byte(`accelerate = `), zerolog.Nop()); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestBundledScripts(t *testing.T) {
	prev := prefabs.Dir()
	prefabs.SetDir("")
	t.Cleanup(func() { prefabs.SetDir(prev) })

	for _, name := range []string{"figure_eight", "stop_and_go"} {
		t.Run(name, func(t *testing.T) {
			d, err := Load(name, zerolog.Nop())
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			in := vehicle.NewInput()
			for frame := 0; frame < 600; frame++ {
				if err := d.Step(context.Background(), frame, float64(frame)/60, in); err != nil {
					t.Fatalf("frame %d: %v", frame, err)
				}
			}
		})
	}
}
