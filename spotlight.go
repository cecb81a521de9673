package gekko

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gekko3d/spotlight/scene"
)

var (
	ErrUnknownAttribute = errors.New("unknown spot light attribute")
	ErrAttributeType    = errors.New("spot light attribute has wrong type")
	ErrNoSpotLight      = errors.New("entity has no spot light")
)

// SpotLightComponent is the editable record of a spot light. Changes must go
// through SpotLightSystem.Set so the attached light node follows along.
type SpotLightComponent struct {
	Enable         bool
	Color          uint32 // 0xRRGGBB
	Intensity      float32
	CastShadows    bool
	AttenuationEnd float32
	InnerConeAngle float32 // degrees
	OuterConeAngle float32 // degrees

	// Light is created and owned by the system when the component is added.
	Light *scene.LightNode
}

func NewSpotLightComponent() SpotLightComponent {
	return SpotLightComponent{
		Enable:         true,
		Color:          0xffffff,
		Intensity:      1,
		AttenuationEnd: 10,
		InnerConeAngle: 40,
		OuterConeAngle: 45,
	}
}

// SpotLightSystem manages the light nodes behind SpotLightComponents.
type SpotLightSystem struct {
	scene  *scene.Scene
	logger Logger
	schema Schema
	gizmo  *SpotGizmoResources
}

func NewSpotLightSystem(sc *scene.Scene, logger Logger) *SpotLightSystem {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &SpotLightSystem{
		scene:  sc,
		logger: logger,
		schema: SpotLightSchema(),
	}
}

func (s *SpotLightSystem) Schema() Schema { return s.schema }

// GizmosEnabled reports whether cone wireframes are drawn.
func (s *SpotLightSystem) GizmosEnabled() bool { return s.gizmo != nil }

type spotLightSetter func(s *SpotLightSystem, eid EntityId, c *SpotLightComponent, value any) error

var spotLightSetters = map[string]spotLightSetter{
	AttributeLight: setSpotLightNode,
	AttributeEnable: boolAttribute(func(c *SpotLightComponent, v bool) {
		c.Enable = v
		if c.Light != nil {
			c.Light.SetEnabled(v)
		}
	}),
	AttributeColor: setSpotLightColor,
	AttributeIntensity: numberAttribute(func(c *SpotLightComponent, v float32) {
		c.Intensity = v
		if c.Light != nil {
			c.Light.SetIntensity(v)
		}
	}),
	AttributeCastShadows: boolAttribute(func(c *SpotLightComponent, v bool) {
		c.CastShadows = v
		if c.Light != nil {
			c.Light.SetCastShadows(v)
		}
	}),
	AttributeAttenuationEnd: numberAttribute(func(c *SpotLightComponent, v float32) {
		c.AttenuationEnd = v
		if c.Light != nil {
			c.Light.SetAttenuationEnd(v)
		}
	}),
	AttributeInnerConeAngle: numberAttribute(func(c *SpotLightComponent, v float32) {
		c.InnerConeAngle = v
		if c.Light != nil {
			c.Light.SetInnerConeAngle(v)
		}
	}),
	AttributeOuterConeAngle: numberAttribute(func(c *SpotLightComponent, v float32) {
		c.OuterConeAngle = v
		if c.Light != nil {
			c.Light.SetOuterConeAngle(v)
		}
	}),
}

// initializeComponentData runs when a SpotLightComponent lands on an entity.
// It creates the light node and replays every attribute through its setter,
// the node first.
func (s *SpotLightSystem) initializeComponentData(_ *Commands, eid EntityId, c *SpotLightComponent) {
	data := *c
	c.Light = nil

	light := scene.NewLightNode(scene.LightTypeSpot)
	values := []struct {
		name  string
		value any
	}{
		{AttributeLight, light},
		{AttributeEnable, data.Enable},
		{AttributeColor, data.Color},
		{AttributeIntensity, data.Intensity},
		{AttributeCastShadows, data.CastShadows},
		{AttributeAttenuationEnd, data.AttenuationEnd},
		{AttributeInnerConeAngle, data.InnerConeAngle},
		{AttributeOuterConeAngle, data.OuterConeAngle},
	}
	for _, v := range values {
		if err := s.apply(eid, c, v.name, v.value); err != nil {
			s.logger.Errorf("spot light %d: init %s: %v", eid, v.name, err)
		}
	}
	s.logger.Debugf("spot light %d: attached %s", eid, light.Name())
}

// onRemove detaches and disables the light of a departing component.
func (s *SpotLightSystem) onRemove(cmd *Commands, eid EntityId, c SpotLightComponent) {
	light := c.Light
	if light == nil {
		return
	}
	s.detach(light)
	light.SetEnabled(false)

	// entities without a transform only had a node to hold the light
	if n, ok := s.scene.LookupEntityNode(uint64(eid)); ok && len(n.Children()) == 0 && !HasComponent[TransformComponent](cmd, eid) {
		s.scene.RemoveEntityNode(uint64(eid))
	}
	s.logger.Debugf("spot light %d: removed %s", eid, light.Name())
}

func (s *SpotLightSystem) detach(light *scene.LightNode) {
	if p := light.Parent(); p != nil {
		p.RemoveChild(light.AsNode())
	}
	s.scene.RemoveLight(light)
}

// Set writes one attribute of the entity's spot light and forwards it to the
// light node. A nil value leaves the attribute untouched.
func (s *SpotLightSystem) Set(cmd *Commands, eid EntityId, attribute string, value any) error {
	if _, ok := spotLightSetters[attribute]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, attribute)
	}
	c := GetComponent[SpotLightComponent](cmd, eid)
	if c == nil {
		return fmt.Errorf("%w: %d", ErrNoSpotLight, eid)
	}
	return s.apply(eid, c, attribute, value)
}

func (s *SpotLightSystem) apply(eid EntityId, c *SpotLightComponent, attribute string, value any) error {
	setter, ok := spotLightSetters[attribute]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, attribute)
	}
	if value == nil {
		return nil
	}
	return setter(s, eid, c, value)
}

func (s *SpotLightSystem) Component(cmd *Commands, eid EntityId) *SpotLightComponent {
	return GetComponent[SpotLightComponent](cmd, eid)
}

func (s *SpotLightSystem) Light(cmd *Commands, eid EntityId) *scene.LightNode {
	if c := GetComponent[SpotLightComponent](cmd, eid); c != nil {
		return c.Light
	}
	return nil
}

func setSpotLightNode(s *SpotLightSystem, eid EntityId, c *SpotLightComponent, value any) error {
	light, ok := value.(*scene.LightNode)
	if !ok {
		return fmt.Errorf("%w: light wants *scene.LightNode, got %T", ErrAttributeType, value)
	}
	if old := c.Light; old != nil && old != light {
		s.detach(old)
	}
	c.Light = light
	if light == nil {
		return nil
	}

	owner := s.scene.EntityNode(uint64(eid))
	owner.AddChild(light.AsNode())
	light.UpdateWorld(owner.WorldTransform())
	s.scene.AddLight(light)
	return nil
}

func setSpotLightColor(_ *SpotLightSystem, _ EntityId, c *SpotLightComponent, value any) error {
	rgb, err := packedColor(value)
	if err != nil {
		return err
	}
	c.Color = rgb
	if c.Light != nil {
		c.Light.SetColor(UnpackColor(rgb))
	}
	return nil
}

func boolAttribute(set func(c *SpotLightComponent, v bool)) spotLightSetter {
	return func(_ *SpotLightSystem, _ EntityId, c *SpotLightComponent, value any) error {
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: want bool, got %T", ErrAttributeType, value)
		}
		set(c, v)
		return nil
	}
}

func numberAttribute(set func(c *SpotLightComponent, v float32)) spotLightSetter {
	return func(_ *SpotLightSystem, _ EntityId, c *SpotLightComponent, value any) error {
		v, err := toFloat32(value)
		if err != nil {
			return err
		}
		set(c, v)
		return nil
	}
}

func toFloat32(value any) (float32, error) {
	switch v := value.(type) {
	case float32:
		return v, nil
	case float64:
		return float32(v), nil
	case int:
		return float32(v), nil
	case int8:
		return float32(v), nil
	case int16:
		return float32(v), nil
	case int32:
		return float32(v), nil
	case int64:
		return float32(v), nil
	case uint:
		return float32(v), nil
	case uint8:
		return float32(v), nil
	case uint16:
		return float32(v), nil
	case uint32:
		return float32(v), nil
	case uint64:
		return float32(v), nil
	}
	return 0, fmt.Errorf("%w: want number, got %T", ErrAttributeType, value)
}

// packedColor accepts an integer 0xRRGGBB or a string in any base prefix
// strconv understands ("0xff8800", "16746496").
func packedColor(value any) (uint32, error) {
	switch v := value.(type) {
	case int:
		return uint32(v) & 0xffffff, nil
	case int8:
		return uint32(v) & 0xffffff, nil
	case int16:
		return uint32(v) & 0xffffff, nil
	case int32:
		return uint32(v) & 0xffffff, nil
	case int64:
		return uint32(v) & 0xffffff, nil
	case uint:
		return uint32(v) & 0xffffff, nil
	case uint8:
		return uint32(v), nil
	case uint16:
		return uint32(v), nil
	case uint32:
		return v & 0xffffff, nil
	case uint64:
		return uint32(v) & 0xffffff, nil
	case string:
		n, err := strconv.ParseUint(v, 0, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: color %q: %v", ErrAttributeType, v, err)
		}
		return uint32(n) & 0xffffff, nil
	}
	return 0, fmt.Errorf("%w: want packed rgb, got %T", ErrAttributeType, value)
}

// UnpackColor splits 0xRRGGBB into channels in [0,1].
func UnpackColor(rgb uint32) [3]float32 {
	return [3]float32{
		float32((rgb>>16)&0xff) / 255,
		float32((rgb>>8)&0xff) / 255,
		float32(rgb&0xff) / 255,
	}
}
