package main

import (
	"fmt"
	"image/color"
	"path/filepath"
	"sort"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"golang.design/x/clipboard"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/stagecam/collision"
	"github.com/milk9111/stagecam/config"
	"github.com/milk9111/stagecam/operator"
	"github.com/milk9111/stagecam/scene"
)

const (
	screenW = 1280
	screenH = 720

	// pixels per world unit in the top-down view
	viewScale = 10
)

type App struct {
	log zerolog.Logger

	scenePath    string
	operatorPath string

	registry *scene.Registry
	ray      *collision.Planar
	world    *world
	op       *operator.Operator
	watcher  *config.Watcher
	ui       *ebitenui.UI

	frames       int
	status       string
	clipboardOK  bool
	debug        bool
	attachTarget scene.ObjectID
}

func NewApp(log zerolog.Logger) (*App, error) {
	a := &App{
		log:          log,
		scenePath:    viper.GetString("scene"),
		operatorPath: viper.GetString("operator"),
		ray:          collision.NewPlanar(),
	}

	a.world = loadWorld(viper.GetString("routes"), log)
	for id := range a.world.routes {
		a.attachTarget = id
		break
	}

	if err := a.loadScene(); err != nil {
		log.Warn().Err(err).Msg("starting with an empty scene")
		a.registry, _ = scene.NewRegistry(scene.Spec{})
	}

	cfg, err := config.Load(a.operatorPath)
	if err != nil {
		log.Warn().Err(err).Msg("using default operator tuning")
	}
	a.op = operator.New("viewer", cfg, operator.Environment{
		Objects:     a.world,
		Checkpoints: a,
		Collision:   a.ray,
	}, log)
	a.op.Activate()
	a.debug = viper.GetBool("debug")
	a.op.SetDebug(a.debug)

	watchDirs := dedup(filepath.Dir(a.scenePath), filepath.Dir(a.operatorPath))
	a.watcher, err = config.NewWatcher(watchDirs...)
	if err != nil {
		log.Warn().Err(err).Msg("live reload disabled")
	}

	if err := clipboard.Init(); err != nil {
		log.Warn().Err(err).Msg("clipboard unavailable, pose copy disabled")
	} else {
		a.clipboardOK = true
	}

	a.ui = newPanel(a)
	return a, nil
}

// Checkpoint implements scene.CheckpointResolver against the current
// registry, which live reload may swap out underneath the operator.
func (a *App) Checkpoint(name string) (scene.Checkpoint, bool) {
	return a.registry.Checkpoint(name)
}

func (a *App) loadScene() error {
	reg, err := scene.LoadFile(a.scenePath)
	if err != nil {
		return err
	}
	a.registry = reg
	a.ray.Load(reg.Obstacles())
	return nil
}

func (a *App) Update() error {
	a.frames++
	const dt = 1.0 / 60

	a.drainWatcher()
	a.handleInput()

	a.world.Update(dt)
	if route, ok := a.world.attachedRoute(a.op.Attached()); ok {
		a.op.GroundNormal(route.GroundNormal())
	}
	a.op.Update(dt)

	for _, evt := range a.op.Events().Drain() {
		a.log.Debug().
			Str("type", string(evt.Type)).
			Str("object", string(evt.Object)).
			Str("checkpoint", evt.Checkpoint).
			Msg("operator event")
	}

	a.ui.Update()
	return nil
}

func (a *App) drainWatcher() {
	if a.watcher == nil {
		return
	}
	for {
		select {
		case path := <-a.watcher.Events:
			base := filepath.Base(path)
			switch base {
			case filepath.Base(a.operatorPath):
				a.reloadOperator()
			case filepath.Base(a.scenePath):
				if err := a.loadScene(); err != nil {
					a.log.Warn().Err(err).Msg("scene reload failed")
				} else {
					a.setStatus("scene reloaded")
				}
			}
		case err := <-a.watcher.Errors:
			a.log.Warn().Err(err).Msg("watcher error")
		default:
			return
		}
	}
}

// reloadOperator rebuilds the operator with fresh tuning but keeps its pose.
func (a *App) reloadOperator() {
	cfg, err := config.Load(a.operatorPath)
	if err != nil {
		a.log.Warn().Err(err).Msg("operator reload failed")
		return
	}
	pos, look, zoom := a.op.Position(), a.op.Look(), a.op.Zoom()
	attached := a.op.Attached()

	a.op = operator.New("viewer", cfg, operator.Environment{
		Objects:     a.world,
		Checkpoints: a,
		Collision:   a.ray,
	}, a.log)
	a.op.Warp(pos, look, zoom)
	a.op.Activate()
	a.op.SetDebug(a.debug)
	if attached != "" {
		a.op.Attach(attached)
	}
	a.setStatus("operator reloaded")
}

func (a *App) handleInput() {
	var h, v float64
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		h -= 0.01
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		h += 0.01
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		v += 0.01
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		v -= 0.01
	}

	var zoom float64
	if _, wy := ebiten.Wheel(); wy != 0 {
		if wy > 0 {
			zoom = -1
		} else {
			zoom = 1
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		zoom = 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		zoom = -1
	}

	if h != 0 || v != 0 || zoom != 0 {
		a.op.ManualControl(h, v, zoom)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if a.op.Active() {
			a.op.Deactivate()
			a.setStatus("operator deactivated")
		} else {
			a.op.Activate()
			a.setStatus("operator activated")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		a.followTour()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyU) {
		a.op.Unfollow()
		a.setStatus("unfollowed")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) && a.attachTarget != "" {
		a.op.Attach(a.attachTarget)
		a.setStatus("attached to " + string(a.attachTarget))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		a.op.Detach()
		a.setStatus("detached")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		a.copyPose()
	}
}

// followTour sends the operator through every checkpoint in name order.
func (a *App) followTour() {
	names := a.registry.Names()
	if len(names) == 0 {
		a.setStatus("no checkpoints in scene")
		return
	}
	sort.Strings(names)

	points := make([]operator.MotionPoint, 0, len(names))
	for _, name := range names {
		points = append(points, operator.MotionPoint{Checkpoint: name})
	}
	a.op.FollowSequence(points, a)
	a.setStatus(fmt.Sprintf("touring %d checkpoints", len(points)))
}

func (a *App) copyPose() {
	if !a.clipboardOK {
		a.setStatus("clipboard unavailable")
		return
	}
	pos, look := a.op.Position(), a.op.Look()
	pose := scene.CheckpointSpec{
		Name:     "pose",
		Position: [3]float64{pos.X(), pos.Y(), pos.Z()},
		Look:     [3]float64{look.X(), look.Y(), look.Z()},
	}
	if z := a.op.Zoom(); z != 0 {
		pose.Zoom = &z
	}
	data, err := yaml.Marshal(pose)
	if err != nil {
		a.log.Warn().Err(err).Msg("pose marshal failed")
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	a.setStatus("pose copied")
}

func (a *App) setStatus(s string) {
	a.status = s
	a.log.Info().Msg(s)
}

// MotionPoint implements operator.Observer.
func (a *App) MotionPoint(object scene.ObjectID, checkpoint string) {
	a.setStatus("reached " + checkpoint)
}

// MotionFinished implements operator.Observer.
func (a *App) MotionFinished(object scene.ObjectID, checkpoint string) {
	a.setStatus("tour finished at " + checkpoint)
}

// MotionInterrupted implements operator.Observer.
func (a *App) MotionInterrupted() {
	a.setStatus("tour interrupted")
}

func worldToScreen(x, z float64) (float32, float32) {
	return float32(screenW/2 + x*viewScale), float32(screenH/2 + z*viewScale)
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 0x14, G: 0x16, B: 0x1a, A: 0xff})

	for _, o := range a.registry.Obstacles() {
		x, y := worldToScreen(o.Min[0], o.Min[1])
		w := float32(o.Max[0]-o.Min[0]) * viewScale
		h := float32(o.Max[1]-o.Min[1]) * viewScale
		vector.FillRect(screen, x, y, w, h, color.NRGBA{R: 0x80, G: 0x30, B: 0x30, A: 0x90}, false)
		vector.StrokeRect(screen, x, y, w, h, 1, color.NRGBA{R: 0xff, G: 0x60, B: 0x60, A: 0xff}, false)
	}

	for _, name := range a.registry.Names() {
		cp, _ := a.registry.Checkpoint(name)
		x, y := worldToScreen(cp.Position.X(), cp.Position.Z())
		vector.FillRect(screen, x-3, y-3, 6, 6, color.NRGBA{R: 0x50, G: 0xc0, B: 0x50, A: 0xff}, false)
		ebitenutil.DebugPrintAt(screen, name, int(x)+6, int(y)-6)
	}

	for id, route := range a.world.routes {
		p := route.Position()
		x, y := worldToScreen(p.X(), p.Z())
		vector.FillRect(screen, x-4, y-4, 8, 8, color.NRGBA{R: 0xc0, G: 0xa0, B: 0x30, A: 0xff}, false)
		ebitenutil.DebugPrintAt(screen, string(id), int(x)+6, int(y)-6)
	}

	for _, seg := range a.op.MotionPath() {
		for i := 1; i < len(seg); i++ {
			x0, y0 := worldToScreen(seg[i-1].X(), seg[i-1].Z())
			x1, y1 := worldToScreen(seg[i].X(), seg[i].Z())
			vector.StrokeLine(screen, x0, y0, x1, y1, 1, color.NRGBA{R: 0x50, G: 0xc0, B: 0x50, A: 0xa0}, true)
		}
	}

	// anchor, camera, and the zoom axis between them
	anchor := a.op.Position()
	cam := a.op.CameraPosition()
	ax, ay := worldToScreen(anchor.X(), anchor.Z())
	cx, cy := worldToScreen(cam.X(), cam.Z())
	vector.StrokeLine(screen, ax, ay, cx, cy, 2, color.NRGBA{R: 0x60, G: 0x90, B: 0xff, A: 0xff}, true)
	vector.FillRect(screen, ax-3, ay-3, 6, 6, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, false)
	vector.FillRect(screen, cx-4, cy-4, 8, 8, color.NRGBA{R: 0x60, G: 0x90, B: 0xff, A: 0xff}, false)

	a.ui.Draw(screen)

	look := a.op.ViewLook()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"fps %.0f  pos (%.1f %.1f %.1f)  look (%.0f %.0f %.0f)  zoom %.2f  tilt %.1f\n%s",
		ebiten.ActualFPS(),
		anchor.X(), anchor.Y(), anchor.Z(),
		look.X(), look.Y(), look.Z(),
		a.op.Zoom(), a.op.GroundTilt(), a.status,
	))
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func dedup(dirs ...string) []string {
	seen := map[string]bool{}
	out := dirs[:0]
	for _, d := range dirs {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
