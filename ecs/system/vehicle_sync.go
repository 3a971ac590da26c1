package system

import (
	"github.com/milk9111/drivesim/ecs"
	"github.com/milk9111/drivesim/ecs/component"
	"github.com/milk9111/drivesim/vehicle"
)

// VehicleSyncSystem copies the motion model's state onto the vehicle entity's
// transform. The model itself never touches the scene.
type VehicleSyncSystem struct {
	world      *ecs.World
	rideHeight float64
	entity     ecs.Entity
}

func NewVehicleSyncSystem(w *ecs.World, rideHeight float64) *VehicleSyncSystem {
	return &VehicleSyncSystem{world: w, rideHeight: rideHeight}
}

func (s *VehicleSyncSystem) Sync(state vehicle.State) {
	if s == nil || s.world == nil {
		return
	}
	if !ecs.IsAlive(s.world, s.entity) {
		e, ok := ecs.First(s.world, component.VehicleTagComponent.Kind())
		if !ok {
			return
		}
		s.entity = e
	}

	tr, ok := ecs.Get(s.world, s.entity, component.TransformComponent.Kind())
	if !ok {
		tr = &component.Transform{}
		if err := ecs.Add(s.world, s.entity, component.TransformComponent.Kind(), tr); err != nil {
			return
		}
	}
	tr.X = state.X
	tr.Y = s.rideHeight
	tr.Z = state.Z
	tr.RotationY = -state.Heading
}
