package main

import (
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/gridcaster/session"
	"github.com/milk9111/gridcaster/sim"
)

type Game struct {
	frames int

	sess     *session.Session
	log      *zap.Logger
	input    *Input
	view     *View
	hud      *HUD
	pauseUI  *ebitenui.UI
	dt       float64
	quit     bool
	captured bool
}

func NewGame(sess *session.Session, log *zap.Logger) *Game {
	cfg := sess.Config
	tps := cfg.Window.TPS
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	g := &Game{
		sess:  sess,
		log:   log.Named("game"),
		input: NewInput(cfg.Window.GrabCursor),
		view:  NewView(sess),
		hud:   NewHUD(),
		dt:    1 / float64(tps),
	}
	g.pauseUI = NewPauseUI(g)
	g.setCursorCaptured(cfg.Window.GrabCursor)
	return g
}

func (g *Game) Update() error {
	g.frames++
	if g.quit {
		return ebiten.Termination
	}

	in := g.input.Update(g.sess.Sim.Paused())
	if g.input.Quit {
		return ebiten.Termination
	}

	for _, e := range g.sess.Tick(in, g.dt) {
		if e.Kind == sim.EventEnemyKilled {
			g.log.Info("enemy down", zap.Int("enemy", e.Enemy), zap.Stringer("cause", e.Cause))
		}
	}

	paused := g.sess.Sim.Paused()
	g.setCursorCaptured(!paused && g.sess.Config.Window.GrabCursor)
	if paused {
		g.pauseUI.Update()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	f := g.sess.Cast()
	g.view.Draw(screen, f)
	g.hud.Draw(screen, g.sess, f)

	if g.sess.Sim.Paused() {
		g.pauseUI.Draw(screen)
	}
}

// Layout renders at the configured cast resolution; ebiten scales it to the
// window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	r := g.sess.Config.Render
	return r.Width, r.Height
}

func (g *Game) resume() {
	g.sess.Sim.SetPaused(false)
}

func (g *Game) setCursorCaptured(on bool) {
	if on == g.captured {
		return
	}
	g.captured = on
	if on {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
}
