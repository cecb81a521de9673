// Command spotlight-preview renders the spot light gizmos of a scene file
// into a PNG without opening a window.
//
// Usage:
//
//	spotlight-preview [-config spotlight.yaml] [-scene scenes/demo.yaml] [-out cones.png]
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"

	gekko "github.com/gekko3d/spotlight"
	"github.com/gekko3d/spotlight/gfx"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	configFlag = flag.String("config", "", "YAML config file (defaults apply when empty)")
	sceneFlag  = flag.String("scene", "", "scene file, overrides the config")
	outFlag    = flag.String("out", "", "output PNG, overrides the config")
	widthFlag  = flag.Int("width", 0, "image width, overrides the config")
	heightFlag = flag.Int("height", 0, "image height, overrides the config")
	debugFlag  = flag.Bool("debug", false, "enable debug logging")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalf("spotlight-preview: %v", err)
	}
}

func run() error {
	cfg := gekko.DefaultConfig()
	if *configFlag != "" {
		loaded, err := gekko.LoadConfig(*configFlag)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	if *sceneFlag != "" {
		cfg.Scene = *sceneFlag
	}
	if *outFlag != "" {
		cfg.Preview.Output = *outFlag
	}
	if *widthFlag > 0 {
		cfg.Preview.Width = *widthFlag
	}
	if *heightFlag > 0 {
		cfg.Preview.Height = *heightFlag
	}
	cfg.Debug = cfg.Debug || *debugFlag
	cfg.Tools = true
	if cfg.Scene == "" {
		return fmt.Errorf("no scene given")
	}

	def, err := gekko.LoadSceneFile(cfg.Scene)
	if err != nil {
		return err
	}

	device := gfx.NewRecordingDevice()
	app := gekko.NewAppBuilder().
		UseModule(cfg.Modules(device, cfg.Preview.Width, cfg.Preview.Height)...).
		Build()

	cmd := app.Commands()
	if def.Camera == nil {
		cmd.AddEntity(cfg.Camera.Component())
	}
	if _, err := gekko.LoadScene(cmd, def); err != nil {
		return err
	}
	app.FlushCommands()
	app.Step()

	viewProj, ok := device.Scope().Resolve(gfx.ParamViewProjectionMatrix).Value().(mgl32.Mat4)
	if !ok {
		return fmt.Errorf("scene has no camera")
	}
	img := gfx.RasterizeLines(device.Draws, gfx.SnapshotOptions{
		Width:          cfg.Preview.Width,
		Height:         cfg.Preview.Height,
		ViewProjection: viewProj,
		LineWidth:      cfg.Preview.LineWidth,
	})

	f, err := os.Create(cfg.Preview.Output)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", cfg.Preview.Output, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	app.Logger().Infof("wrote %d cones to %s", len(device.Draws), cfg.Preview.Output)
	return nil
}
