package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/townwalk/common"
)

func main() {
	debug := flag.Bool("debug", false, "log at debug level")
	devLog := flag.Bool("dev-log", false, "human readable console logs")
	watch := flag.Bool("watch", false, "reload prefabs/ when files change")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	logger, err := newLogger(logConfig{Development: *devLog, Level: level})
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("townwalk")

	game, err := NewGame(logger, *watch)
	if err != nil {
		logger.Fatal("start game", zap.Error(err))
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("game exited", zap.Error(err))
	}
}
