package main

import (
	"fmt"
	"math"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/drivesim/camera"
	"github.com/milk9111/drivesim/config"
	"github.com/milk9111/drivesim/ecs"
	"github.com/milk9111/drivesim/ecs/entity"
	"github.com/milk9111/drivesim/ecs/system"
	"github.com/milk9111/drivesim/prefabs"
	"github.com/milk9111/drivesim/sim"
	"github.com/milk9111/drivesim/vehicle"
	"github.com/rs/zerolog"
)

type Game struct {
	log zerolog.Logger

	world     *ecs.World
	scheduler *ecs.Scheduler
	loop      *sim.Loop
	input     *vehicle.Input

	inputSystem *system.InputSystem
	renderer    *system.RenderSystem
	watcher     *prefabs.Watcher

	pauseUI *ebitenui.UI
	quit    bool
}

func NewGame(cfg *config.Config, log zerolog.Logger) (*Game, error) {
	prefabs.SetDir(cfg.Prefabs.Dir)

	carSpec, err := prefabs.LoadVehicleSpec()
	if err != nil {
		return nil, err
	}
	camSpec, err := prefabs.LoadCameraSpec()
	if err != nil {
		return nil, err
	}
	sceneSpec, err := prefabs.LoadSceneSpec()
	if err != nil {
		return nil, err
	}

	model, err := carSpec.NewModel(cfg.Vehicle.Policy)
	if err != nil {
		return nil, err
	}
	rig, err := camSpec.Rig(cfg.Camera.Mode, carSpec.RideHeightOrDefault())
	if err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	if _, err := entity.BuildScene(world, sceneSpec, carSpec); err != nil {
		return nil, err
	}

	bindings, err := system.BindingsFromConfig(cfg.Input.Bindings)
	if err != nil {
		return nil, err
	}

	input := vehicle.NewInput()
	renderer := system.NewRenderSystem(camSpec.CameraLens(), cfg.Window.Width, cfg.Window.Height)
	loop, err := sim.NewLoop(sim.LoopConfig{
		Input:        input,
		Model:        model,
		Rig:          rig,
		Clock:        sim.NewSystemClock(),
		Scene:        world,
		Renderer:     renderer,
		Syncer:       system.NewVehicleSyncSystem(world, carSpec.RideHeightOrDefault()),
		MaxFrameTime: cfg.Sim.MaxFrameTime,
		Logger:       log,
	})
	if err != nil {
		return nil, err
	}

	g := &Game{
		log:         log,
		world:       world,
		loop:        loop,
		input:       input,
		inputSystem: system.NewInputSystem(input, bindings),
		renderer:    renderer,
	}

	var reload *system.HotReloadSystem
	if cfg.Prefabs.Watch && cfg.Prefabs.Dir != "" {
		w, err := prefabs.NewWatcher(cfg.Prefabs.Dir)
		if err != nil {
			log.Warn().Err(err).Str("dir", cfg.Prefabs.Dir).Msg("prefab watcher disabled")
		} else {
			g.watcher = w
			reload = system.NewHotReloadSystem(w, loop, renderer, cfg.Vehicle.Policy, cfg.Camera.Mode, log)
		}
	}

	g.scheduler = ecs.NewScheduler(g.inputSystem)
	if reload != nil {
		g.scheduler.Add(reload)
	}
	g.scheduler.Add(system.NewSimSystem(loop))
	g.pauseUI = NewPauseUI(g)

	log.Info().
		Stringer("policy", model.Policy()).
		Stringer("camera", rig.Mode).
		Int("entities", len(ecs.Entities(world))).
		Msg("scene ready")

	return g, nil
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.togglePause()
	}

	if g.loop.Paused() {
		g.pauseUI.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.cycleCamera()
	}

	g.scheduler.Update(g.world)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)

	f := g.loop.Last()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"%s / %s    speed: %.2f    heading: %.1f°    FPS: %.2f",
		g.loop.Model().Policy(), g.loop.Rig().Mode, f.State.Speed(), f.State.Heading*180/math.Pi, ebiten.ActualFPS(),
	))

	if g.loop.Paused() {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.renderer.SetViewportSize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Close releases the prefab watcher. It is safe to call more than once.
func (g *Game) Close() {
	if g == nil || g.watcher == nil {
		return
	}
	if err := g.watcher.Close(); err != nil {
		g.log.Warn().Err(err).Msg("close prefab watcher")
	}
	g.watcher = nil
}

func (g *Game) togglePause() {
	if g.loop.Paused() {
		g.resume()
		return
	}
	g.inputSystem.Release()
	g.loop.Pause()
}

func (g *Game) resume() {
	g.loop.Resume()
}

func (g *Game) reset() {
	g.inputSystem.Release()
	g.loop.Reset()
}

func (g *Game) cycleCamera() {
	rig := g.loop.Rig()
	if rig.Mode == camera.ModeOverhead {
		rig.Mode = camera.ModeFixedAngle45
	} else {
		rig.Mode = camera.ModeOverhead
	}
	g.loop.SetRig(rig)
	g.log.Info().Stringer("mode", rig.Mode).Msg("camera mode changed")
}
