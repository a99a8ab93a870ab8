package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/gridcaster/config"
	"github.com/milk9111/gridcaster/session"
)

func main() {
	configPath := flag.String("config", "", "TOML config path (defaults to $"+config.EnvPath+" or ./"+config.DefaultPath+")")
	debug := flag.Bool("debug", false, "debug logging and the door overlay")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional) or a world file path")
	workers := flag.Int("workers", 0, "column casting workers, overrides the config when > 0")
	flag.Parse()

	cfg, err := config.Load(config.Resolve(*configPath))
	if err != nil {
		log.Fatal(err)
	}
	if *levelName != "" {
		cfg.Level.Name = *levelName
	}
	if *workers > 0 {
		cfg.Render.Workers = *workers
	}
	if *debug {
		cfg.Logging.Level = "debug"
		cfg.Render.DoorDebug = true
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	sess, err := session.Open(cfg, logger)
	if err != nil {
		logger.Fatal("open session", zap.Error(err))
	}
	defer sess.Close()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetFullscreen(cfg.Window.Fullscreen)
	if cfg.Window.TPS > 0 {
		ebiten.SetTPS(cfg.Window.TPS)
	}

	game := NewGame(sess, logger)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game exited", zap.Error(err))
	}
}
