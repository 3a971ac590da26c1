package system

import (
	"testing"

	"github.com/milk9111/drivesim/ecs"
	"github.com/milk9111/drivesim/ecs/component"
	"github.com/milk9111/drivesim/vehicle"
)

func TestVehicleSyncSystem(t *testing.T) {
	w := ecs.NewWorld()
	ecs.CreateEntity(w)
	car := ecs.CreateEntity(w)
	if err := ecs.Add(w, car, component.VehicleTagComponent.Kind(), &component.VehicleTag{}); err != nil {
		t.Fatalf("add tag: %v", err)
	}

	s := NewVehicleSyncSystem(w, 0.25)
	s.Sync(vehicle.State{X: 3, Z: -2, Heading: 0.5})

	tr, ok := ecs.Get(w, car, component.TransformComponent.Kind())
	if !ok {
		t.Fatalf("expected transform to be created")
	}
	want := component.Transform{X: 3, Y: 0.25, Z: -2, RotationY: -0.5}
	if *tr != want {
		t.Fatalf("transform = %+v, want %+v", *tr, want)
	}

	s.Sync(vehicle.State{X: 4, Z: 1, Heading: -7})
	if tr.X != 4 || tr.Z != 1 || tr.RotationY != 7 {
		t.Fatalf("transform not updated in place: %+v", *tr)
	}
}

func TestVehicleSyncSystemWithoutVehicle(t *testing.T) {
	s := NewVehicleSyncSystem(ecs.NewWorld(), 0.25)
	s.Sync(vehicle.State{X: 1})

	var nilSync *VehicleSyncSystem
	nilSync.Sync(vehicle.State{})
}
