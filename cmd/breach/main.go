package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"breach-tactics/server/config"
	"breach-tactics/server/scenario"
	"breach-tactics/server/view"
)

func main() {
	var (
		levelPath  = flag.String("level", "levels/level1.txt", "scenario file to play")
		configPath = flag.String("config", "", "path to a YAML config file (optional)")
		archive    = flag.String("archive", "breach.sav.zst", "save archive written with S and read with L")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	raw, err := os.ReadFile(*levelPath)
	if err != nil {
		log.Fatal(err)
	}
	e, err := scenario.Load(string(raw), cfg.Rules)
	if err != nil {
		log.Fatalf("%s: %v", *levelPath, err)
	}

	g := newGame(view.NewController(e), string(raw), *levelPath, *archive, cfg.Rules)
	w, h := g.Layout(0, 0)
	ebiten.SetWindowTitle("Breach")
	ebiten.SetWindowSize(w, h)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
