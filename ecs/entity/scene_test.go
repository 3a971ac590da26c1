package entity

import (
	"testing"

	"github.com/milk9111/drivesim/ecs"
	"github.com/milk9111/drivesim/ecs/component"
	"github.com/milk9111/drivesim/prefabs"
)

func loadSpecs(t *testing.T) (*prefabs.SceneSpec, *prefabs.VehicleSpec) {
	t.Helper()
	prev := prefabs.Dir()
	prefabs.SetDir("")
	t.Cleanup(func() { prefabs.SetDir(prev) })

	scene, err := prefabs.LoadSceneSpec()
	if err != nil {
		t.Fatalf("load scene: %v", err)
	}
	car, err := prefabs.LoadVehicleSpec()
	if err != nil {
		t.Fatalf("load vehicle: %v", err)
	}
	return scene, car
}

func TestBuildScene(t *testing.T) {
	scene, car := loadSpecs(t)
	w := ecs.NewWorld()

	vehicleEntity, err := BuildScene(w, scene, car)
	if err != nil {
		t.Fatalf("BuildScene: %v", err)
	}

	if n := ecs.Count(w, component.BuildingTagComponent.Kind()); n != scene.Buildings.Count {
		t.Fatalf("expected %d buildings, got %d", scene.Buildings.Count, n)
	}
	if n := ecs.Count(w, component.GroundComponent.Kind()); n != 1 {
		t.Fatalf("expected one ground, got %d", n)
	}

	first, ok := ecs.First(w, component.VehicleTagComponent.Kind())
	if !ok || first != vehicleEntity {
		t.Fatalf("vehicle entity not tagged")
	}
	tr, ok := ecs.Get(w, vehicleEntity, component.TransformComponent.Kind())
	if !ok || tr.Y != 0.25 {
		t.Fatalf("vehicle should sit at ride height, got %+v", tr)
	}
	box, ok := ecs.Get(w, vehicleEntity, component.BoxComponent.Kind())
	if !ok || box.Width != 1 || box.Height != 0.5 || box.Depth != 2 {
		t.Fatalf("unexpected vehicle box %+v", box)
	}

	half := scene.Buildings.Spread / 2
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.BuildingTagComponent.Kind(), func(_ ecs.Entity, tr *component.Transform, _ *component.BuildingTag) {
		if tr.X < -half || tr.X >= half || tr.Z < -half || tr.Z >= half {
			t.Fatalf("building outside spread: %+v", tr)
		}
		h := tr.Y * 2
		if h < scene.Buildings.MinHeight || h >= scene.Buildings.MaxHeight {
			t.Fatalf("building height %v outside range", h)
		}
	})
}

func TestBuildSceneIsReproducible(t *testing.T) {
	scene, car := loadSpecs(t)

	positions := func() []component.Transform {
		w := ecs.NewWorld()
		if _, err := BuildScene(w, scene, car); err != nil {
			t.Fatalf("BuildScene: %v", err)
		}
		var out []component.Transform
		ecs.ForEach2(w, component.TransformComponent.Kind(), component.BuildingTagComponent.Kind(), func(_ ecs.Entity, tr *component.Transform, _ *component.BuildingTag) {
			out = append(out, *tr)
		})
		return out
	}

	a, b := positions(), positions()
	if len(a) != len(b) {
		t.Fatalf("building counts differ")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("building %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestBuildSceneMissingSpec(t *testing.T) {
	if _, err := BuildScene(ecs.NewWorld(), nil, nil); err == nil {
		t.Fatalf("expected error")
	}
}
