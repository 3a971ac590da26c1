// Command headless drives the vehicle from a script with a fixed time step and
// writes the resulting trajectory as CSV.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/milk9111/drivesim/config"
	"github.com/milk9111/drivesim/logging"
	"github.com/milk9111/drivesim/prefabs"
	"github.com/milk9111/drivesim/script"
	"github.com/milk9111/drivesim/sim"
	"github.com/milk9111/drivesim/vehicle"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

var errBadRun = errors.New("headless: invalid run settings")

func main() {
	fs := pflag.NewFlagSet("headless", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// stdout may carry the trajectory, so logs are JSON on stderr.
	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Writer: os.Stderr})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var out io.Writer = os.Stdout
	if cfg.Headless.Out != "" && cfg.Headless.Out != "-" {
		f, err := os.Create(cfg.Headless.Out)
		if err != nil {
			log.Fatal().Err(err).Str("out", cfg.Headless.Out).Msg("create output")
		}
		defer f.Close()
		out = f
	}

	if err := run(ctx, cfg, out, log); err != nil {
		log.Error().Err(err).Msg("headless run failed")
		stop()
		os.Exit(1)
	}
}

// stepDuration converts seconds to the nearest nanosecond.
func stepDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}

func run(ctx context.Context, cfg *config.Config, out io.Writer, log zerolog.Logger) error {
	if cfg.Headless.Frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d", errBadRun, cfg.Headless.Frames)
	}
	if cfg.Headless.DT <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %v", errBadRun, cfg.Headless.DT)
	}
	step := stepDuration(cfg.Headless.DT)

	prefabs.SetDir(cfg.Prefabs.Dir)
	carSpec, err := prefabs.LoadVehicleSpec()
	if err != nil {
		return err
	}
	camSpec, err := prefabs.LoadCameraSpec()
	if err != nil {
		return err
	}
	model, err := carSpec.NewModel(cfg.Vehicle.Policy)
	if err != nil {
		return err
	}
	rig, err := camSpec.Rig(cfg.Camera.Mode, carSpec.RideHeightOrDefault())
	if err != nil {
		return err
	}

	var driver *script.Driver
	if cfg.Headless.Script != "" {
		driver, err = script.Load(cfg.Headless.Script, log)
		if err != nil {
			return err
		}
		log.Debug().Str("script", driver.Name()).Msg("drive script loaded")
	}

	input := vehicle.NewInput()
	clock := &sim.ManualClock{}
	loop, err := sim.NewLoop(sim.LoopConfig{
		Input:        input,
		Model:        model,
		Rig:          rig,
		Clock:        clock,
		MaxFrameTime: cfg.Sim.MaxFrameTime,
		Logger:       log,
	})
	if err != nil {
		return err
	}

	tw, err := newTrajectoryWriter(out)
	if err != nil {
		return fmt.Errorf("headless: write header: %w", err)
	}

	log.Info().
		Stringer("policy", model.Policy()).
		Stringer("camera", rig.Mode).
		Str("script", cfg.Headless.Script).
		Int("frames", cfg.Headless.Frames).
		Float64("dt", cfg.Headless.DT).
		Msg("headless run started")

	for i := 0; i < cfg.Headless.Frames; i++ {
		if err := ctx.Err(); err != nil {
			_ = tw.Flush()
			return err
		}
		if driver != nil {
			if err := driver.Step(ctx, i, clock.Now().Seconds(), input); err != nil {
				_ = tw.Flush()
				return err
			}
		}
		clock.Advance(step)
		f := loop.Tick()
		if err := tw.Write(f, clock.Now().Seconds()); err != nil {
			return fmt.Errorf("headless: write frame %d: %w", f.Index, err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("headless: flush: %w", err)
	}

	last := loop.Last()
	log.Info().
		Int("frames", loop.Frames()).
		Float64("x", last.State.X).
		Float64("z", last.State.Z).
		Float64("heading", last.State.Heading).
		Float64("speed", last.State.Speed()).
		Msg("headless run finished")
	return nil
}
