// Command spotlight-editor opens a window and draws the spot lights of a
// scene file with their cone gizmos. Right mouse drag orbits the camera,
// WASD pans, F frames the first light and Escape quits.
package main

import (
	"flag"
	"log"
	"runtime"

	gekko "github.com/gekko3d/spotlight"
	"github.com/gekko3d/spotlight/gfx/wgpugfx"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "spotlight.yaml", "YAML config file")
	scenePath := flag.String("scene", "", "scene file, overrides the config")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := gekko.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *scenePath != "" {
		cfg.Scene = *scenePath
	}
	cfg.Debug = cfg.Debug || *debug

	win, err := wgpugfx.OpenWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	if err != nil {
		log.Fatal(err)
	}
	defer win.Close()

	device, err := wgpugfx.NewDevice(win)
	if err != nil {
		log.Fatal(err)
	}
	defer device.Release()

	width, height := win.FramebufferSize()
	modules := append(cfg.Modules(device, width, height),
		gekko.WindowModule{Window: win, Title: cfg.Window.Title},
		gekko.InputModule{Source: win},
		gekko.OrbitCameraModule{},
	)
	app := gekko.NewAppBuilder().
		UseModule(modules...).
		Build()

	def := &gekko.SceneDef{}
	if cfg.Scene != "" {
		if def, err = gekko.LoadSceneFile(cfg.Scene); err != nil {
			log.Fatal(err)
		}
	}
	cmd := app.Commands()
	if def.Camera == nil {
		cmd.AddEntity(cfg.Camera.Component())
	}
	if _, err := gekko.LoadScene(cmd, def); err != nil {
		log.Fatal(err)
	}
	app.FlushCommands()

	app.Run()
}
