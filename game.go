package main

import (
	"fmt"
	"math"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
	"golang.design/x/clipboard"

	"github.com/milk9111/townwalk/common"
	"github.com/milk9111/townwalk/controller"
	"github.com/milk9111/townwalk/ecs"
	"github.com/milk9111/townwalk/input"
	"github.com/milk9111/townwalk/prefabs"
	"github.com/milk9111/townwalk/render"
	"github.com/milk9111/townwalk/scene"
	"github.com/milk9111/townwalk/script"
)

const skyScript = "sky.tengo"

type Game struct {
	log *zap.Logger

	world    *ecs.World
	scene    *scene.Scene
	ctrl     *controller.Controller
	renderer *render.Renderer
	sky      *script.Sky
	poller   *input.Poller
	watcher  *prefabs.Watcher

	ui  *ebitenui.UI
	hud *hud

	ticks     int
	paused    bool
	quit      bool
	clipboard bool

	width, height int
}

func NewGame(log *zap.Logger, watch bool) (*Game, error) {
	if log == nil {
		log = zap.NewNop()
	}

	town, err := prefabs.LoadTownSpec()
	if err != nil {
		return nil, err
	}
	ctrlSpec, err := prefabs.LoadControllerSpec()
	if err != nil {
		return nil, err
	}
	cfg, keys, err := ctrlSpec.Build()
	if err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	sc, err := scene.Build(world, town, log.Named("scene"))
	if err != nil {
		return nil, err
	}

	ctrl := controller.New(sc, cfg,
		controller.WithLogger(log.Named("controller")),
		controller.WithKeyMap(keys),
		controller.WithPose(sc.StartPose()),
	)

	g := &Game{
		log:      log,
		world:    world,
		scene:    sc,
		ctrl:     ctrl,
		renderer: render.New(log.Named("render")),
		sky:      script.NewSky(skyScript, log.Named("sky")),
		poller:   input.NewPoller(nil, ctrl, sc, log.Named("input")),
		width:    common.BaseWidth,
		height:   common.BaseHeight,
	}
	g.ui, g.hud = newUI(g)

	if err := clipboard.Init(); err != nil {
		log.Warn("clipboard unavailable, pose copy disabled", zap.Error(err))
	} else {
		g.clipboard = true
	}

	if watch && prefabs.DiskDir != "" {
		w, err := prefabs.NewWatcher(log.Named("prefabs"), prefabs.DiskDir, prefabs.DiskDir+"/scripts")
		if err != nil {
			log.Warn("prefab watcher disabled", zap.String("dir", prefabs.DiskDir), zap.Error(err))
		} else {
			g.watcher = w
		}
	}

	log.Info("town loaded",
		zap.Int("entities", len(ecs.Entities(world))),
		zap.Int("solids", sc.Physics().SolidCount()),
		zap.Bool("sky_script", g.sky.Enabled()),
	)
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.reload()

	snap := g.poller.Update(g.width, g.height)
	if snap.JustPressed("escape") {
		g.setPaused(!g.paused)
	}
	if snap.JustPressed("p") {
		g.copyPose()
	}

	g.ui.Update()
	if g.paused {
		return nil
	}

	g.ticks++
	g.ctrl.OnFrameTick()
	g.world.Update()
	g.hud.update(g)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	sky := g.sky.Color(g.elapsed(), g.scene.ClearColor())
	g.renderer.Draw(screen, g.scene, sky)
	g.ui.Draw(screen)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	g.width = max(1, int(math.Ceil(outsideWidth)))
	g.height = max(1, int(math.Ceil(outsideHeight)))
	return outsideWidth, outsideHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) setPaused(p bool) {
	g.paused = p
	g.poller.SetPaused(p)
	g.hud.showPause(p)
	g.log.Debug("pause toggled", zap.Bool("paused", p))
}

// elapsed is simulated seconds; it stops while paused.
func (g *Game) elapsed() float64 {
	return float64(g.ticks) / float64(ebiten.TPS())
}

func (g *Game) copyPose() {
	pose := g.ctrl.Pose().String()
	if !g.clipboard {
		g.log.Info("avatar pose", zap.String("pose", pose))
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(pose))
	g.log.Info("avatar pose copied", zap.String("pose", pose))
}

// reload applies prefab edits picked up by the watcher. A bad edit is logged
// and the running state is kept.
func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	for _, c := range g.watcher.Poll() {
		var err error
		switch {
		case c.Kind == prefabs.ChangeScript:
			err = g.sky.Reload()
		case c.Name() == "town.yaml":
			err = g.reloadTown()
		case c.Name() == "controller.yaml":
			err = g.reloadController()
		default:
			continue
		}
		if err != nil {
			g.log.Warn("prefab reload failed", zap.String("path", c.Path), zap.Error(err))
			continue
		}
		g.log.Info("prefab reloaded", zap.String("path", c.Path))
	}
}

func (g *Game) reloadTown() error {
	spec, err := prefabs.LoadTownSpec()
	if err != nil {
		return err
	}
	if err := g.scene.Rebuild(spec); err != nil {
		return err
	}
	g.renderer.Invalidate()
	return nil
}

func (g *Game) reloadController() error {
	spec, err := prefabs.LoadControllerSpec()
	if err != nil {
		return err
	}
	cfg, keys, err := spec.Build()
	if err != nil {
		return err
	}
	g.ctrl.SetConfig(cfg)
	g.ctrl.SetKeyMap(keys)
	return nil
}

// status is the HUD line for the current frame.
func status(mode controller.ViewMode, pose controller.AvatarPose, pitch, fps float64) string {
	return fmt.Sprintf("%s  %s  pitch=%.2f  fps=%.0f", mode, pose, pitch, fps)
}
