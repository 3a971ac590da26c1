package entity

import (
	"fmt"
	"math/rand/v2"

	"github.com/milk9111/drivesim/ecs"
	"github.com/milk9111/drivesim/ecs/component"
	"github.com/milk9111/drivesim/prefabs"
	"golang.org/x/image/colornames"
)

// BuildScene populates w with the environment, ground, buildings and the
// vehicle, and returns the vehicle entity.
func BuildScene(w *ecs.World, scene *prefabs.SceneSpec, car *prefabs.VehicleSpec) (ecs.Entity, error) {
	if scene == nil || car == nil {
		return 0, fmt.Errorf("entity: build scene: missing spec")
	}

	env := ecs.CreateEntity(w)
	if err := ecs.Add(w, env, component.EnvironmentComponent.Kind(), &component.Environment{
		Sky: scene.Sky.Or(colornames.Skyblue),
	}); err != nil {
		return 0, fmt.Errorf("entity: add environment: %w", err)
	}

	ground := ecs.CreateEntity(w)
	if err := ecs.Add(w, ground, component.GroundComponent.Kind(), &component.Ground{
		Size:     scene.Ground.Size,
		GridStep: scene.Ground.GridStep,
		Color:    scene.Ground.Color.Or(colornames.Dimgray),
	}); err != nil {
		return 0, fmt.Errorf("entity: add ground: %w", err)
	}

	if err := buildBuildings(w, scene); err != nil {
		return 0, err
	}

	return BuildVehicle(w, car)
}

func buildBuildings(w *ecs.World, scene *prefabs.SceneSpec) error {
	spec := scene.Buildings
	rng := rand.New(rand.NewPCG(scene.Seed, scene.Seed^0x9e3779b97f4a7c15))
	clr := spec.Color.Or(colornames.Gray)

	for i := 0; i < spec.Count; i++ {
		height := rng.Float64()*(spec.MaxHeight-spec.MinHeight) + spec.MinHeight
		x := (rng.Float64() - 0.5) * spec.Spread
		z := (rng.Float64() - 0.5) * spec.Spread

		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: height / 2, Z: z}); err != nil {
			return fmt.Errorf("entity: add building transform: %w", err)
		}
		if err := ecs.Add(w, e, component.BoxComponent.Kind(), &component.Box{
			Width:  spec.Footprint,
			Height: height,
			Depth:  spec.Footprint,
			Color:  clr,
		}); err != nil {
			return fmt.Errorf("entity: add building box: %w", err)
		}
		if err := ecs.Add(w, e, component.BuildingTagComponent.Kind(), &component.BuildingTag{}); err != nil {
			return fmt.Errorf("entity: add building tag: %w", err)
		}
	}
	return nil
}

// BuildVehicle adds the car box at ride height on the origin.
func BuildVehicle(w *ecs.World, car *prefabs.VehicleSpec) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Y: car.RideHeightOrDefault()}); err != nil {
		return 0, fmt.Errorf("entity: add vehicle transform: %w", err)
	}
	if err := ecs.Add(w, e, component.BoxComponent.Kind(), &component.Box{
		Width:  car.Size.Width,
		Height: car.Size.Height,
		Depth:  car.Size.Depth,
		Color:  car.Color.Or(colornames.Red),
	}); err != nil {
		return 0, fmt.Errorf("entity: add vehicle box: %w", err)
	}
	if err := ecs.Add(w, e, component.VehicleTagComponent.Kind(), &component.VehicleTag{}); err != nil {
		return 0, fmt.Errorf("entity: add vehicle tag: %w", err)
	}
	return e, nil
}
