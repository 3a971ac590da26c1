package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/drivesim/config"
	"github.com/milk9111/drivesim/logging"
	"github.com/spf13/pflag"
)

func main() {
	fs := pflag.NewFlagSet("drivesim", pflag.ExitOnError)
	config.RegisterFlags(fs)
	baseMonitor := fs.BoolP("monitor", "m", false, "use base monitor instead of primary (for multi-monitor setups)")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Console: cfg.Log.Console})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *baseMonitor {
		if monitors := ebiten.AppendMonitors(nil); len(monitors) > 0 {
			ebiten.SetMonitor(monitors[0])
		}
	}

	game, err := NewGame(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	if cfg.Sim.TPS > 0 {
		ebiten.SetTPS(cfg.Sim.TPS)
	}

	err = ebiten.RunGame(game)
	game.Close()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error().Err(err).Msg("game exited")
		os.Exit(1)
	}
}
