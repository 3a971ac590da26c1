// Package script turns tengo drive scripts into key events. A script runs once
// per frame with `frame` (int) and `time` (float, seconds) set, and leaves the
// booleans `accelerate`, `brake`, `left` and `right` describing which keys are
// held.
package script

import (
	"context"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/drivesim/prefabs"
	"github.com/milk9111/drivesim/vehicle"
	"github.com/rs/zerolog"
)

var outputs = []struct {
	name string
	key  vehicle.Key
}{
	{"accelerate", vehicle.KeyUp},
	{"brake", vehicle.KeyDown},
	{"left", vehicle.KeyLeft},
	{"right", vehicle.KeyRight},
}

// Driver feeds a script's decisions into an Input as key-down/key-up events.
type Driver struct {
	name     string
	compiled *tengo.Compiled
	held     map[vehicle.Key]bool
	log      zerolog.Logger
}

// Load compiles a script from the prefab scripts directory.
func Load(name string, log zerolog.Logger) (*Driver, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return New(name, src, log)
}

func New(name string, src []byte, log zerolog.Logger) (*Driver, error) {
	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	if err := s.Add("frame", 0); err != nil {
		return nil, fmt.Errorf("script: %s: declare frame: %w", name, err)
	}
	if err := s.Add("time", 0.0); err != nil {
		return nil, fmt.Errorf("script: %s: declare time: %w", name, err)
	}
	for _, o := range outputs {
		if err := s.Add(o.name, false); err != nil {
			return nil, fmt.Errorf("script: %s: declare %s: %w", name, o.name, err)
		}
	}

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}

	return &Driver{
		name:     name,
		compiled: compiled,
		held:     make(map[vehicle.Key]bool, len(outputs)),
		log:      log.With().Str("script", name).Logger(),
	}, nil
}

func (d *Driver) Name() string { return d.name }

// Step runs the script for one frame and emits key events for every output
// that changed. On error every held key is released.
func (d *Driver) Step(ctx context.Context, frame int, elapsed float64, in *vehicle.Input) error {
	if err := d.compiled.Set("frame", frame); err != nil {
		return fmt.Errorf("script: %s: set frame: %w", d.name, err)
	}
	if err := d.compiled.Set("time", elapsed); err != nil {
		return fmt.Errorf("script: %s: set time: %w", d.name, err)
	}
	if err := d.compiled.RunContext(ctx); err != nil {
		d.Release(in)
		return fmt.Errorf("script: run %s: %w", d.name, err)
	}

	for _, o := range outputs {
		pressed := d.compiled.Get(o.name).Bool()
		if pressed == d.held[o.key] {
			continue
		}
		d.held[o.key] = pressed
		if pressed {
			in.OnKeyDown(o.key)
		} else {
			in.OnKeyUp(o.key)
		}
		d.log.Trace().Int("frame", frame).Str("key", string(o.key)).Bool("pressed", pressed).Msg("key event")
	}
	return nil
}

// Release lifts every key the script is holding.
func (d *Driver) Release(in *vehicle.Input) {
	for key, held := range d.held {
		if held {
			in.OnKeyUp(key)
		}
		d.held[key] = false
	}
}
