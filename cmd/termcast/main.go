// Command termcast plays a level in the terminal. Each cell shows two pixels
// with an upper half block, so the view is cols wide and (rows-1)*2 tall.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/milk9111/gridcaster/config"
	"github.com/milk9111/gridcaster/session"
	"github.com/milk9111/gridcaster/sim"
)

const defaultTPS = 30

type term struct {
	screen tcell.Screen
	sess   *session.Session
	log    *zap.Logger
	keys   keyState
	frame  raster
	tps    int
	status string
}

func newTerm(screen tcell.Screen, sess *session.Session, logger *zap.Logger, tps int) (*term, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()

	t := &term{screen: screen, sess: sess, log: logger, tps: tps}
	t.resize()
	return t, nil
}

// resize matches the cast viewport to the terminal, keeping the last row for
// the status line.
func (t *term) resize() {
	cols, rows := t.screen.Size()
	h := max(rows-1, 1) * 2
	t.frame.resize(cols, h)
	t.sess.Resize(cols, h)
	t.screen.Clear()
}

func (t *term) run() {
	dt := 1 / float64(t.tps)
	ticker := time.NewTicker(time.Second / time.Duration(t.tps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				t.keys.handle(ev, time.Now())
				if t.keys.quit {
					return
				}
			case *tcell.EventResize:
				t.resize()
				t.screen.Sync()
			}

		case now := <-ticker.C:
			for _, e := range t.sess.Tick(t.keys.input(now), dt) {
				t.report(e)
			}
			t.draw()
		}
	}
}

func (t *term) report(e sim.Event) {
	switch e.Kind {
	case sim.EventEnemyKilled:
		t.status = fmt.Sprintf("enemy %d down (%s)", e.Enemy, e.Cause)
		t.log.Info("enemy killed", zap.Int("enemy", e.Enemy), zap.Stringer("cause", e.Cause))
	case sim.EventEnemyRespawned:
		t.status = fmt.Sprintf("enemy %d is back", e.Enemy)
	}
}

func (t *term) draw() {
	f := t.sess.Cast()
	t.frame.draw(t.sess, f)
	t.frame.blit(t.screen)
	t.drawStatus()
	t.screen.Show()
}

func (t *term) drawStatus() {
	cols, rows := t.screen.Size()
	s := t.sess.Sim
	alive := 0
	for _, e := range s.Enemies {
		if e.Alive() {
			alive++
		}
	}
	room := "-"
	if id, ok := s.PlayerRoom(); ok {
		room = fmt.Sprint(id)
	}
	line := fmt.Sprintf(" enemies %d/%d  room %s  bullets %d  %s", alive, len(s.Enemies), room, s.BulletCount(), t.status)
	if s.Paused() {
		line = " PAUSED  p/esc resume  ctrl-c quit"
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	runes := []rune(line)
	for x := range cols {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		t.screen.SetContent(x, rows-1, r, nil, style)
	}
}

func (t *term) close() {
	t.screen.Fini()
}

// newLogger keeps log output off the terminal the game is drawing on.
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	if cfg.Output == "" {
		return zap.NewNop(), nil
	}
	return config.NewLogger(cfg)
}

type options struct {
	configPath string
	level      string
	logPath    string
	debug      bool
}

// run plays until the player quits. newScreen is tcell.NewScreen outside of
// tests.
func run(opts options, newScreen func() (tcell.Screen, error)) error {
	cfg, err := config.Load(config.Resolve(opts.configPath))
	if err != nil {
		return err
	}
	if opts.level != "" {
		cfg.Level.Name = opts.level
	}
	if opts.logPath != "" {
		cfg.Logging.Output = opts.logPath
	}
	if opts.debug {
		cfg.Logging.Level = "debug"
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	sess, err := session.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer sess.Close()

	tps := cfg.Window.TPS
	if tps <= 0 {
		tps = defaultTPS
	}
	screen, err := newScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	t, err := newTerm(screen, sess, logger, tps)
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer t.close()

	t.run()
	logger.Info("termcast exited", zap.Uint64("ticks", sess.Sim.Ticks()))
	return nil
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "TOML config path (defaults to $"+config.EnvPath+" or ./"+config.DefaultPath+")")
	flag.StringVar(&opts.level, "level", "", "level name in levels/ or a world file path")
	flag.StringVar(&opts.logPath, "log", "", "log file; logging is off when empty and unset in the config")
	flag.BoolVar(&opts.debug, "debug", false, "debug logging")
	flag.Parse()

	if err := run(opts, tcell.NewScreen); err != nil {
		log.Fatal(err)
	}
}
