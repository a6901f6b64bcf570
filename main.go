package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	dev := flag.Bool("dev", false, "development mode: verbose logging and runtime warnings")
	basePath := flag.String("base", "/", "base path for assets that are not embedded")
	configPath := flag.String("config", "", "YAML config file, reloaded when it changes")
	showPanel := flag.Bool("panel", false, "show the control panel")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(960, 540)
	ebiten.SetWindowTitle("scrollanim")

	game, err := NewGame(gameOptions{
		dev:        *dev,
		basePath:   *basePath,
		configPath: *configPath,
		showPanel:  *showPanel,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
