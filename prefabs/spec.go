package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/drivesim/camera"
	"github.com/milk9111/drivesim/vehicle"
	"gopkg.in/yaml.v3"
)

const (
	VehicleFile = "vehicle.yaml"
	CameraFile  = "camera.yaml"
	SceneFile   = "scene.yaml"
)

func LoadSpec[T any](filename string) (*T, error) {
	data, err := Load(filename)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return &spec, nil
}

type VehicleSpec struct {
	Name       string                `yaml:"name"`
	Policy     string                `yaml:"policy"`
	RideHeight float64               `yaml:"ride_height"`
	Size       SizeSpec              `yaml:"size"`
	Color      *YAMLColor            `yaml:"color"`
	Policies   map[string]TuningSpec `yaml:"policies"`
}

type TuningSpec struct {
	Accel     float64 `yaml:"accel"`
	MaxSpeed  float64 `yaml:"max_speed"`
	Friction  float64 `yaml:"friction"`
	Drift     float64 `yaml:"drift"`
	TurnSpeed float64 `yaml:"turn_speed"`
}

type SizeSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Depth  float64 `yaml:"depth"`
}

func LoadVehicleSpec() (*VehicleSpec, error) {
	return LoadSpec[VehicleSpec](VehicleFile)
}

// ResolvePolicy parses the prefab's policy, using override when it is set.
func (s *VehicleSpec) ResolvePolicy(override string) (vehicle.Policy, error) {
	name := s.Policy
	if override != "" {
		name = override
	}
	if name == "" {
		return vehicle.PolicySpeedThenTurn, nil
	}
	p, err := vehicle.ParsePolicy(name)
	if err != nil {
		return 0, fmt.Errorf("prefabs: %s: %w", VehicleFile, err)
	}
	return p, nil
}

// Tuning returns the constants for p. A policy without a block falls back to
// its defaults; zero fields in a block keep their default value.
func (s *VehicleSpec) Tuning(p vehicle.Policy) (vehicle.Tuning, error) {
	t := vehicle.DefaultTuning(p)
	if spec, ok := s.Policies[p.String()]; ok {
		if spec.Accel != 0 {
			t.Accel = spec.Accel
		}
		if spec.MaxSpeed != 0 {
			t.MaxSpeed = spec.MaxSpeed
		}
		if spec.Friction != 0 {
			t.Friction = spec.Friction
		}
		if spec.Drift != 0 {
			t.Drift = spec.Drift
		}
		if spec.TurnSpeed != 0 {
			t.TurnSpeed = spec.TurnSpeed
		}
	}
	if err := t.Validate(p); err != nil {
		return vehicle.Tuning{}, fmt.Errorf("prefabs: %s: %s: %w", VehicleFile, p, err)
	}
	return t, nil
}

// NewModel builds the motion model described by the prefab.
func (s *VehicleSpec) NewModel(policyOverride string) (vehicle.Model, error) {
	p, err := s.ResolvePolicy(policyOverride)
	if err != nil {
		return nil, err
	}
	t, err := s.Tuning(p)
	if err != nil {
		return nil, err
	}
	return vehicle.New(p, t)
}

func (s *VehicleSpec) RideHeightOrDefault() float64 {
	if s.RideHeight == 0 {
		return camera.DefaultRideHeight
	}
	return s.RideHeight
}

type CameraSpec struct {
	Name   string   `yaml:"name"`
	Mode   string   `yaml:"mode"`
	Height float64  `yaml:"height"`
	Lens   LensSpec `yaml:"lens"`
}

type LensSpec struct {
	FOV  float64 `yaml:"fov"`
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
}

func LoadCameraSpec() (*CameraSpec, error) {
	return LoadSpec[CameraSpec](CameraFile)
}

// Rig builds the follow rig. override replaces the prefab's mode when set.
func (s *CameraSpec) Rig(override string, rideHeight float64) (camera.Rig, error) {
	name := s.Mode
	if override != "" {
		name = override
	}
	mode := camera.ModeOverhead
	if name != "" {
		m, err := camera.ParseMode(name)
		if err != nil {
			return camera.Rig{}, fmt.Errorf("prefabs: %s: %w", CameraFile, err)
		}
		mode = m
	}
	rig := camera.DefaultRig(mode)
	if s.Height != 0 {
		rig.Height = s.Height
	}
	rig.RideHeight = rideHeight
	return rig, nil
}

func (s *CameraSpec) CameraLens() camera.Lens {
	lens := camera.DefaultLens()
	if s.Lens.FOV > 0 {
		lens.FOV = s.Lens.FOV
	}
	if s.Lens.Near > 0 {
		lens.Near = s.Lens.Near
	}
	if s.Lens.Far > lens.Near {
		lens.Far = s.Lens.Far
	}
	return lens
}

type SceneSpec struct {
	Name      string        `yaml:"name"`
	Seed      uint64        `yaml:"seed"`
	Sky       *YAMLColor    `yaml:"sky"`
	Ground    GroundSpec    `yaml:"ground"`
	Buildings BuildingsSpec `yaml:"buildings"`
}

type GroundSpec struct {
	Size     float64    `yaml:"size"`
	GridStep float64    `yaml:"grid_step"`
	Color    *YAMLColor `yaml:"color"`
}

type BuildingsSpec struct {
	Count     int        `yaml:"count"`
	Spread    float64    `yaml:"spread"`
	Footprint float64    `yaml:"footprint"`
	MinHeight float64    `yaml:"min_height"`
	MaxHeight float64    `yaml:"max_height"`
	Color     *YAMLColor `yaml:"color"`
}

func LoadSceneSpec() (*SceneSpec, error) {
	return LoadSpec[SceneSpec](SceneFile)
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or "0xrrggbb".
type YAMLColor struct {
	color.Color
}

// Or returns the parsed color, or fallback when c is unset.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")
	s = strings.TrimPrefix(s, "0x")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
