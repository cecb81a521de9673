package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

type LightType int

const (
	LightTypeDirectional LightType = iota
	LightTypePoint
	LightTypeSpot
)

func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	case LightTypeSpot:
		return "spot"
	}
	return "unknown"
}

// LightNode is a light placed in the scene graph. Spot lights shine down the
// node's local -Y axis.
type LightNode struct {
	Node

	lightType        LightType
	enabled          bool
	color            [3]float32
	intensity        float32
	castShadows      bool
	attenuationStart float32
	attenuationEnd   float32
	innerConeAngle   float32 // degrees
	outerConeAngle   float32 // degrees
}

func NewLightNode(lightType LightType) *LightNode {
	l := &LightNode{
		lightType:      lightType,
		enabled:        true,
		color:          [3]float32{0.8, 0.8, 0.8},
		intensity:      1,
		attenuationEnd: 10,
		innerConeAngle: 40,
		outerConeAngle: 45,
	}
	l.init(lightType.String() + "-light")
	return l
}

// AsNode returns the graph node embedded in the light.
func (l *LightNode) AsNode() *Node { return &l.Node }

func (l *LightNode) Type() LightType         { return l.lightType }
func (l *LightNode) SetType(t LightType)     { l.lightType = t }
func (l *LightNode) Enabled() bool           { return l.enabled }
func (l *LightNode) SetEnabled(enabled bool) { l.enabled = enabled }
func (l *LightNode) Color() [3]float32       { return l.color }
func (l *LightNode) SetColor(c [3]float32)   { l.color = c }
func (l *LightNode) Intensity() float32      { return l.intensity }
func (l *LightNode) SetIntensity(v float32)  { l.intensity = v }
func (l *LightNode) CastShadows() bool       { return l.castShadows }
func (l *LightNode) SetCastShadows(v bool)   { l.castShadows = v }

func (l *LightNode) AttenuationStart() float32     { return l.attenuationStart }
func (l *LightNode) SetAttenuationStart(v float32) { l.attenuationStart = v }
func (l *LightNode) AttenuationEnd() float32       { return l.attenuationEnd }
func (l *LightNode) SetAttenuationEnd(v float32)   { l.attenuationEnd = v }
func (l *LightNode) InnerConeAngle() float32       { return l.innerConeAngle }
func (l *LightNode) SetInnerConeAngle(v float32)   { l.innerConeAngle = v }
func (l *LightNode) OuterConeAngle() float32       { return l.outerConeAngle }
func (l *LightNode) SetOuterConeAngle(v float32)   { l.outerConeAngle = v }

// Position is the world-space origin of the light.
func (l *LightNode) Position() mgl32.Vec3 {
	return l.world.Col(3).Vec3()
}

// Direction is the world-space cone axis.
func (l *LightNode) Direction() mgl32.Vec3 {
	dir := l.world.Mul4x1(mgl32.Vec4{0, -1, 0, 0}).Vec3()
	if dir.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return dir.Normalize()
}
