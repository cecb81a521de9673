package gekko

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gekko3d/spotlight/gfx"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Config drives the editor and preview tools.
//
// File location: usually spotlight.yaml next to the scene it references.
// Relative scene paths are resolved against the config file directory.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Tools   bool          `yaml:"tools"`
	Debug   bool          `yaml:"debug"`
	Camera  CameraConfig  `yaml:"camera"`
	Scene   string        `yaml:"scene"`
	Preview PreviewConfig `yaml:"preview"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type CameraConfig struct {
	Eye    mgl32.Vec3 `yaml:"eye"`
	Target mgl32.Vec3 `yaml:"target"`
	FovY   float32    `yaml:"fovY"` // degrees
}

// PreviewConfig sizes the headless gizmo snapshot.
type PreviewConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	LineWidth float32 `yaml:"lineWidth"`
	Output    string  `yaml:"output"`
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{Title: "Spotlight Editor", Width: 1280, Height: 720},
		Tools:  true,
		Camera: CameraConfig{
			Eye:    mgl32.Vec3{12, 10, 12},
			Target: mgl32.Vec3{0, 0, 0},
			FovY:   60,
		},
		Preview: PreviewConfig{Width: 512, Height: 512, LineWidth: 1.5, Output: "spotlight.png"},
	}
}

// LoadConfig reads a YAML config. Keys missing from the file keep their
// DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}
	if cfg.Scene != "" && !filepath.IsAbs(cfg.Scene) {
		cfg.Scene = filepath.Join(filepath.Dir(path), cfg.Scene)
	}
	return cfg, nil
}

func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		return fmt.Errorf("preview size must be positive, got %dx%d", c.Preview.Width, c.Preview.Height)
	}
	if c.Preview.LineWidth <= 0 {
		return fmt.Errorf("preview line width must be positive, got %.2f", c.Preview.LineWidth)
	}
	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 {
		return fmt.Errorf("camera fovY must be in (0, 180), got %.1f", c.Camera.FovY)
	}
	if c.Camera.Eye == c.Camera.Target {
		return fmt.Errorf("camera eye and target coincide at %v", c.Camera.Eye)
	}
	return nil
}

func (c CameraConfig) Component() CameraComponent {
	cam := NewCameraComponent(c.Eye, c.Target)
	if c.FovY > 0 {
		cam.FovY = c.FovY
	}
	return cam
}

// Modules returns the module stack of a spot light session rendering to
// device at the given framebuffer size.
func (c *Config) Modules(device gfx.Device, width, height int) []Module {
	return []Module{
		LoggingModule{Prefix: "spotlight", Debug: c.Debug},
		TimeModule{},
		SceneModule{},
		RenderModule{Device: device, Width: width, Height: height},
		SpotLightModule{Tools: c.Tools},
	}
}
