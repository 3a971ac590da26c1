package system

import (
	"github.com/milk9111/drivesim/ecs"
	"github.com/milk9111/drivesim/prefabs"
	"github.com/milk9111/drivesim/sim"
	"github.com/rs/zerolog"
)

// HotReloadSystem applies prefab edits reported by the watcher between frames.
// Tuning and camera changes take effect immediately; a different policy needs a
// restart because the model's state layout is policy specific.
type HotReloadSystem struct {
	events   <-chan string
	errs     <-chan error
	loop     *sim.Loop
	renderer *RenderSystem
	// Overrides from config that win over the prefab files.
	policyOverride string
	modeOverride   string
	log            zerolog.Logger
}

func NewHotReloadSystem(w *prefabs.Watcher, loop *sim.Loop, renderer *RenderSystem, policyOverride, modeOverride string, log zerolog.Logger) *HotReloadSystem {
	s := &HotReloadSystem{
		loop:           loop,
		renderer:       renderer,
		policyOverride: policyOverride,
		modeOverride:   modeOverride,
		log:            log,
	}
	if w != nil {
		s.events = w.Events
		s.errs = w.Errors
	}
	return s
}

func (s *HotReloadSystem) Update(_ *ecs.World) {
	if s == nil || s.events == nil {
		return
	}
	for {
		select {
		case name, ok := <-s.events:
			if !ok {
				s.events = nil
				return
			}
			s.Apply(name)
		case err, ok := <-s.errs:
			if ok {
				s.log.Error().Err(err).Msg("prefab watcher error")
			}
		default:
			return
		}
	}
}

// Apply reloads a single prefab file by base name.
func (s *HotReloadSystem) Apply(name string) {
	switch name {
	case prefabs.VehicleFile:
		s.reloadVehicle()
	case prefabs.CameraFile:
		s.reloadCamera()
	default:
		s.log.Debug().Str("file", name).Msg("prefab change ignored")
	}
}

func (s *HotReloadSystem) reloadVehicle() {
	spec, err := prefabs.LoadVehicleSpec()
	if err != nil {
		s.log.Error().Err(err).Msg("reload vehicle")
		return
	}
	model := s.loop.Model()
	if p, err := spec.ResolvePolicy(s.policyOverride); err == nil && p != model.Policy() {
		s.log.Warn().Stringer("running", model.Policy()).Stringer("requested", p).Msg("policy change needs a restart")
	}
	tuning, err := spec.Tuning(model.Policy())
	if err != nil {
		s.log.Error().Err(err).Msg("reload vehicle")
		return
	}
	if err := model.SetTuning(tuning); err != nil {
		s.log.Error().Err(err).Msg("reload vehicle")
		return
	}
	s.log.Info().Stringer("policy", model.Policy()).Interface("tuning", tuning).Msg("vehicle tuning reloaded")
}

func (s *HotReloadSystem) reloadCamera() {
	spec, err := prefabs.LoadCameraSpec()
	if err != nil {
		s.log.Error().Err(err).Msg("reload camera")
		return
	}
	rig, err := spec.Rig(s.modeOverride, s.loop.Rig().RideHeight)
	if err != nil {
		s.log.Error().Err(err).Msg("reload camera")
		return
	}
	s.loop.SetRig(rig)
	if s.renderer != nil {
		s.renderer.SetLens(spec.CameraLens())
	}
	s.log.Info().Stringer("mode", rig.Mode).Float64("height", rig.Height).Msg("camera reloaded")
}
