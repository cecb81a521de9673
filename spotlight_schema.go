package gekko

import (
	"gopkg.in/yaml.v3"
)

const (
	AttributeEnable         = "enable"
	AttributeColor          = "color"
	AttributeIntensity      = "intensity"
	AttributeCastShadows    = "castShadows"
	AttributeAttenuationEnd = "attenuationEnd"
	AttributeInnerConeAngle = "innerConeAngle"
	AttributeOuterConeAngle = "outerConeAngle"
	AttributeLight          = "light"
)

type AttributeType string

const (
	AttributeTypeBoolean AttributeType = "boolean"
	AttributeTypeRGB     AttributeType = "rgb"
	AttributeTypeNumber  AttributeType = "number"
)

// AttributeOptions bound numeric inspector controls. They are hints for
// editors; setters do not enforce them.
type AttributeOptions struct {
	Min  *float64 `yaml:"min,omitempty"`
	Max  *float64 `yaml:"max,omitempty"`
	Step *float64 `yaml:"step,omitempty"`
}

// Attribute describes one property of a component for inspectors.
type Attribute struct {
	Name         string            `yaml:"name"`
	DisplayName  string            `yaml:"displayName,omitempty"`
	Description  string            `yaml:"description,omitempty"`
	Type         AttributeType     `yaml:"type,omitempty"`
	DefaultValue any               `yaml:"defaultValue,omitempty"`
	Options      *AttributeOptions `yaml:"options,omitempty"`
	Exposed      bool              `yaml:"exposed"`
}

type Schema []Attribute

func (s Schema) Lookup(name string) (Attribute, bool) {
	for _, a := range s {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, a := range s {
		names[i] = a.Name
	}
	return names
}

// Exposed filters out internal attributes.
func (s Schema) Exposed() Schema {
	var out Schema
	for _, a := range s {
		if a.Exposed {
			out = append(out, a)
		}
	}
	return out
}

func (s Schema) MarshalDocument() ([]byte, error) {
	return yaml.Marshal(s)
}

// ExposedAttributes lists the spot light attributes shown to inspectors.
func ExposedAttributes() Schema {
	return SpotLightSchema().Exposed()
}

func float64Ptr(v float64) *float64 { return &v }

func SpotLightSchema() Schema {
	return Schema{
		{
			Name:         AttributeEnable,
			DisplayName:  "Enable",
			Description:  "Enable or disable the light",
			Type:         AttributeTypeBoolean,
			DefaultValue: true,
			Exposed:      true,
		},
		{
			Name:         AttributeColor,
			DisplayName:  "Color",
			Description:  "Light color",
			Type:         AttributeTypeRGB,
			DefaultValue: "0xffffff",
			Exposed:      true,
		},
		{
			Name:         AttributeIntensity,
			DisplayName:  "Intensity",
			Description:  "Factors the light color",
			Type:         AttributeTypeNumber,
			DefaultValue: 1.0,
			Options:      &AttributeOptions{Min: float64Ptr(0), Max: float64Ptr(10), Step: float64Ptr(0.05)},
			Exposed:      true,
		},
		{
			Name:         AttributeCastShadows,
			DisplayName:  "Cast shadows",
			Description:  "Cast shadows from this light",
			Type:         AttributeTypeBoolean,
			DefaultValue: false,
			Exposed:      true,
		},
		{
			Name:         AttributeAttenuationEnd,
			DisplayName:  "Attenuation End",
			Description:  "The distance from the light where its contribution falls to zero",
			Type:         AttributeTypeNumber,
			DefaultValue: 10.0,
			Options:      &AttributeOptions{Min: float64Ptr(0)},
			Exposed:      true,
		},
		{
			Name:         AttributeInnerConeAngle,
			DisplayName:  "Inner Cone Angle",
			Description:  "Spotlight inner cone angle",
			Type:         AttributeTypeNumber,
			DefaultValue: 40.0,
			Options:      &AttributeOptions{Min: float64Ptr(0), Max: float64Ptr(90)},
			Exposed:      true,
		},
		{
			Name:         AttributeOuterConeAngle,
			DisplayName:  "Outer Cone Angle",
			Description:  "Spotlight outer cone angle",
			Type:         AttributeTypeNumber,
			DefaultValue: 45.0,
			Options:      &AttributeOptions{Min: float64Ptr(0), Max: float64Ptr(90)},
			Exposed:      true,
		},
		{
			Name:    AttributeLight,
			Exposed: false,
		},
	}
}
