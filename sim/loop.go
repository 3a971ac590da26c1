// Package sim runs the per-frame update: elapsed time, vehicle motion, camera
// derivation and hand-off to the renderer, always in that order.
package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/milk9111/drivesim/camera"
	"github.com/milk9111/drivesim/ecs"
	"github.com/milk9111/drivesim/vehicle"
	"github.com/rs/zerolog"
)

var ErrMissingDependency = errors.New("sim: missing dependency")

// Renderer draws a scene from a camera pose.
type Renderer interface {
	Render(scene *ecs.World, pose camera.Pose)
}

// Syncer copies motion state into presentation objects once per frame.
type Syncer interface {
	Sync(state vehicle.State)
}

type LoopConfig struct {
	Input    *vehicle.Input
	Model    vehicle.Model
	Rig      camera.Rig
	Clock    Clock
	Scene    *ecs.World
	Renderer Renderer
	Syncer   Syncer
	// MaxFrameTime clamps dt when positive. Zero leaves dt untouched so a
	// stalled frame shows up as a jump.
	MaxFrameTime time.Duration
	Logger       zerolog.Logger
}

// Frame records what a single tick produced.
type Frame struct {
	Index int
	DT    float64
	State vehicle.State
	Pose  camera.Pose
}

type Loop struct {
	input    *vehicle.Input
	model    vehicle.Model
	rig      camera.Rig
	clock    Clock
	scene    *ecs.World
	renderer Renderer
	syncer   Syncer
	maxDT    time.Duration
	log      zerolog.Logger

	prev   time.Duration
	frames int
	last   Frame
	paused bool
}

// NewLoop anchors the first dt at construction time.
func NewLoop(cfg LoopConfig) (*Loop, error) {
	switch {
	case cfg.Input == nil:
		return nil, fmt.Errorf("%w: input", ErrMissingDependency)
	case cfg.Model == nil:
		return nil, fmt.Errorf("%w: model", ErrMissingDependency)
	case cfg.Clock == nil:
		return nil, fmt.Errorf("%w: clock", ErrMissingDependency)
	}
	l := &Loop{
		input:    cfg.Input,
		model:    cfg.Model,
		rig:      cfg.Rig,
		clock:    cfg.Clock,
		scene:    cfg.Scene,
		renderer: cfg.Renderer,
		syncer:   cfg.Syncer,
		maxDT:    cfg.MaxFrameTime,
		log:      cfg.Logger,
		prev:     cfg.Clock.Now(),
	}
	return l, nil
}

// Tick runs one frame. It does nothing while the loop is paused.
func (l *Loop) Tick() Frame {
	if l.paused {
		return l.last
	}

	now := l.clock.Now()
	elapsed := now - l.prev
	l.prev = now
	if l.maxDT > 0 && elapsed > l.maxDT {
		l.log.Debug().Dur("elapsed", elapsed).Dur("max", l.maxDT).Msg("frame time clamped")
		elapsed = l.maxDT
	}
	dt := elapsed.Seconds()

	l.model.Update(l.input.Read(), dt)
	state := l.model.State()
	if l.syncer != nil {
		l.syncer.Sync(state)
	}
	pose := l.rig.Derive(state.X, state.Z)
	if l.renderer != nil {
		l.renderer.Render(l.scene, pose)
	}

	l.frames++
	l.last = Frame{Index: l.frames, DT: dt, State: state, Pose: pose}
	return l.last
}

// Run ticks once per value received on ticks until ctx is done or ticks is
// closed.
func (l *Loop) Run(ctx context.Context, ticks <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			l.Tick()
		}
	}
}

func (l *Loop) Pause() {
	if l.paused {
		return
	}
	l.paused = true
	l.log.Info().Int("frame", l.frames).Msg("simulation paused")
}

// Resume re-anchors the clock so the paused interval is not integrated.
func (l *Loop) Resume() {
	if !l.paused {
		return
	}
	l.paused = false
	l.prev = l.clock.Now()
	l.log.Info().Int("frame", l.frames).Msg("simulation resumed")
}

func (l *Loop) Paused() bool { return l.paused }

func (l *Loop) Frames() int { return l.frames }

// Last returns the most recent frame.
func (l *Loop) Last() Frame { return l.last }

func (l *Loop) Model() vehicle.Model { return l.model }

func (l *Loop) Rig() camera.Rig { return l.rig }

// SetRig swaps the camera rig from the next frame on.
func (l *Loop) SetRig(r camera.Rig) { l.rig = r }

// Reset puts the vehicle back at the origin at rest and releases all input.
func (l *Loop) Reset() {
	l.model.Reset()
	l.input.Reset()
	l.prev = l.clock.Now()
	l.log.Info().Msg("vehicle reset")
}
