// Package config loads application settings from defaults, an optional
// drivesim.yaml, DRIVESIM_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "DRIVESIM"
	ConfigName = "drivesim"
)

type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

type PrefabsConfig struct {
	Dir   string `mapstructure:"dir"`
	Watch bool   `mapstructure:"watch"`
}

type SimConfig struct {
	TPS          int           `mapstructure:"tps"`
	MaxFrameTime time.Duration `mapstructure:"maxFrameTime"`
}

type VehicleConfig struct {
	Policy string `mapstructure:"policy"`
}

type CameraConfig struct {
	Mode string `mapstructure:"mode"`
}

// InputConfig remaps keyboard keys. Bindings is indexed by driving key
// ("ArrowUp", "up", ...) and lists ebiten key names ("W", "ArrowUp", ...).
type InputConfig struct {
	Bindings map[string][]string `mapstructure:"bindings"`
}

type HeadlessConfig struct {
	Frames int     `mapstructure:"frames"`
	DT     float64 `mapstructure:"dt"`
	Script string  `mapstructure:"script"`
	Out    string  `mapstructure:"out"`
}

type Config struct {
	Window   WindowConfig   `mapstructure:"window"`
	Log      LogConfig      `mapstructure:"log"`
	Prefabs  PrefabsConfig  `mapstructure:"prefabs"`
	Sim      SimConfig      `mapstructure:"sim"`
	Vehicle  VehicleConfig  `mapstructure:"vehicle"`
	Camera   CameraConfig   `mapstructure:"camera"`
	Input    InputConfig    `mapstructure:"input"`
	Headless HeadlessConfig `mapstructure:"headless"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"width":          "window.width",
	"height":         "window.height",
	"log-level":      "log.level",
	"prefabs":        "prefabs.dir",
	"watch":          "prefabs.watch",
	"tps":            "sim.tps",
	"max-frame-time": "sim.maxFrameTime",
	"policy":         "vehicle.policy",
	"camera":         "camera.mode",
	"frames":         "headless.frames",
	"dt":             "headless.dt",
	"script":         "headless.script",
	"out":            "headless.out",
}

func SetDefaults() {
	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 720)
	viper.SetDefault("window.title", "drivesim")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.console", true)

	viper.SetDefault("prefabs.dir", "prefabs")
	viper.SetDefault("prefabs.watch", false)

	viper.SetDefault("sim.tps", 60)
	viper.SetDefault("sim.maxFrameTime", "0s")

	viper.SetDefault("vehicle.policy", "")
	viper.SetDefault("camera.mode", "")

	viper.SetDefault("headless.frames", 600)
	viper.SetDefault("headless.dt", 1.0/60.0)
	viper.SetDefault("headless.script", "figure_eight")
	viper.SetDefault("headless.out", "-")
}

// RegisterFlags declares the flags understood by Load on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a config file (default ./drivesim.yaml if present)")
	fs.Int("width", 0, "window width")
	fs.Int("height", 0, "window height")
	fs.String("log-level", "", "log level (trace, debug, info, warn, error)")
	fs.String("prefabs", "", "directory checked for prefab overrides")
	fs.Bool("watch", false, "reload prefabs when they change on disk")
	fs.Int("tps", 0, "simulation ticks per second")
	fs.Duration("max-frame-time", 0, "clamp frame time (0 disables)")
	fs.String("policy", "", "motion policy: speed_then_turn or direct_accel")
	fs.String("camera", "", "camera mode: overhead or fixed_angle_45")
	fs.Int("frames", 0, "headless: number of frames to simulate")
	fs.Float64("dt", 0, "headless: seconds per frame")
	fs.String("script", "", "headless: drive script name")
	fs.String("out", "", "headless: trajectory output file (- for stdout)")
}

// Load resolves the configuration. Only flags that were set on the command
// line override lower layers.
func Load(fs *pflag.FlagSet) (*Config, error) {
	SetDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := viper.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("config: bind flag %s: %w", name, err)
				}
			}
		}
	}

	configFile := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
	}
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(ConfigName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}
