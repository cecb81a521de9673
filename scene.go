package gekko

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// SceneDef defines the initial state of a scene.
type SceneDef struct {
	Camera     *CameraConfig  `yaml:"camera,omitempty"`
	SpotLights []SpotLightDef `yaml:"spotLights"`
}

// SpotLightDef defines a spot light instantiation. Attributes left out of
// the file keep the component defaults.
type SpotLightDef struct {
	Position mgl32.Vec3 `yaml:"position"`
	Rotation mgl32.Vec3 `yaml:"rotation"` // Euler XYZ, degrees

	Enable         *bool    `yaml:"enable,omitempty"`
	Color          any      `yaml:"color,omitempty"` // 0xRRGGBB as int or string
	Intensity      *float32 `yaml:"intensity,omitempty"`
	CastShadows    *bool    `yaml:"castShadows,omitempty"`
	AttenuationEnd *float32 `yaml:"attenuationEnd,omitempty"`
	InnerConeAngle *float32 `yaml:"innerConeAngle,omitempty"`
	OuterConeAngle *float32 `yaml:"outerConeAngle,omitempty"`
}

func LoadSceneFile(path string) (*SceneDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	def, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

func ParseScene(data []byte) (*SceneDef, error) {
	var def SceneDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	return &def, nil
}

func (s *SceneDef) Validate() error {
	for i, l := range s.SpotLights {
		if _, err := l.Component(); err != nil {
			return fmt.Errorf("spotLights[%d]: %w", i, err)
		}
	}
	return nil
}

// Transform places the light entity.
func (d SpotLightDef) Transform() TransformComponent {
	t := NewTransformComponent(d.Position)
	if d.Rotation != (mgl32.Vec3{}) {
		t.Rotation = mgl32.AnglesToQuat(
			mgl32.DegToRad(d.Rotation[0]),
			mgl32.DegToRad(d.Rotation[1]),
			mgl32.DegToRad(d.Rotation[2]),
			mgl32.XYZ,
		)
	}
	return t
}

// Component builds the SpotLightComponent using the same conversions as
// SpotLightSystem.Set.
func (d SpotLightDef) Component() (SpotLightComponent, error) {
	c := NewSpotLightComponent()
	overrides := []struct {
		name  string
		value any
	}{
		{AttributeEnable, derefOrNil(d.Enable)},
		{AttributeColor, d.Color},
		{AttributeIntensity, derefOrNil(d.Intensity)},
		{AttributeCastShadows, derefOrNil(d.CastShadows)},
		{AttributeAttenuationEnd, derefOrNil(d.AttenuationEnd)},
		{AttributeInnerConeAngle, derefOrNil(d.InnerConeAngle)},
		{AttributeOuterConeAngle, derefOrNil(d.OuterConeAngle)},
	}
	for _, o := range overrides {
		if o.value == nil {
			continue
		}
		if err := spotLightSetters[o.name](nil, 0, &c, o.value); err != nil {
			return c, fmt.Errorf("%s: %w", o.name, err)
		}
	}
	return c, nil
}

func derefOrNil[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// LoadScene iterates through the SceneDef and spawns entities. It returns
// the spot light entity ids in file order.
func LoadScene(cmd *Commands, def *SceneDef) ([]EntityId, error) {
	if def.Camera != nil {
		cmd.AddEntity(def.Camera.Component())
	}

	ids := make([]EntityId, 0, len(def.SpotLights))
	for i, l := range def.SpotLights {
		light, err := l.Component()
		if err != nil {
			return ids, fmt.Errorf("spotLights[%d]: %w", i, err)
		}
		ids = append(ids, cmd.AddEntity(l.Transform(), light))
	}
	cmd.App().Logger().Debugf("scene: queued %d spot lights", len(ids))
	return ids, nil
}
