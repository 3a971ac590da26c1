package system

import (
	"github.com/milk9111/drivesim/ecs"
	"github.com/milk9111/drivesim/sim"
)

// SimSystem advances the frame loop once per scheduler update.
type SimSystem struct {
	loop *sim.Loop
}

func NewSimSystem(loop *sim.Loop) *SimSystem {
	return &SimSystem{loop: loop}
}

func (s *SimSystem) Update(_ *ecs.World) {
	if s == nil || s.loop == nil {
		return
	}
	s.loop.Tick()
}
