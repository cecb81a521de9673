package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gekko3d/spotlight/gfx"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	QueueOpaque      = "opaque"
	QueueTransparent = "transparent"
)

// DrawCommand is a render-queue record. Kind selects the registered Renderer;
// Params carries kind-specific scalars.
type DrawCommand struct {
	Kind      string
	Transform mgl32.Mat4
	Color     [4]float32
	Params    [4]float32
}

type Renderer interface {
	Render(device gfx.Device, cmd DrawCommand) error
}

type RendererFunc func(device gfx.Device, cmd DrawCommand) error

func (f RendererFunc) Render(device gfx.Device, cmd DrawCommand) error { return f(device, cmd) }

var ErrNoRenderer = errors.New("no renderer registered")

// Scene owns the graph root, the set of active lights and the per-frame
// render queues.
type Scene struct {
	root      *Node
	lights    []*LightNode
	entities  map[uint64]*Node
	queues    map[string][]DrawCommand
	renderers map[string]Renderer
}

func New() *Scene {
	return &Scene{
		root:      NewNode("root"),
		entities:  make(map[uint64]*Node),
		queues:    make(map[string][]DrawCommand),
		renderers: make(map[string]Renderer),
	}
}

func (s *Scene) Root() *Node { return s.root }

// AddLight registers l. Returns false if it was already registered.
func (s *Scene) AddLight(l *LightNode) bool {
	if l == nil || slices.Contains(s.lights, l) {
		return false
	}
	s.lights = append(s.lights, l)
	return true
}

func (s *Scene) RemoveLight(l *LightNode) bool {
	idx := slices.Index(s.lights, l)
	if idx < 0 {
		return false
	}
	s.lights = slices.Delete(s.lights, idx, idx+1)
	return true
}

func (s *Scene) HasLight(l *LightNode) bool {
	return slices.Contains(s.lights, l)
}

func (s *Scene) Lights() []*LightNode {
	return slices.Clone(s.lights)
}

func (s *Scene) EnabledLights() []*LightNode {
	var out []*LightNode
	for _, l := range s.lights {
		if l.Enabled() {
			out = append(out, l)
		}
	}
	return out
}

// EntityNode returns the graph node standing in for an ECS entity, creating
// it under the root on first use.
func (s *Scene) EntityNode(id uint64) *Node {
	if n, ok := s.entities[id]; ok {
		return n
	}
	n := NewNode(fmt.Sprintf("entity-%d", id))
	s.root.AddChild(n)
	s.entities[id] = n
	return n
}

func (s *Scene) LookupEntityNode(id uint64) (*Node, bool) {
	n, ok := s.entities[id]
	return n, ok
}

func (s *Scene) RemoveEntityNode(id uint64) {
	n, ok := s.entities[id]
	if !ok {
		return
	}
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
	delete(s.entities, id)
}

func (s *Scene) UpdateWorldTransforms() {
	s.root.UpdateWorld(mgl32.Ident4())
}

func (s *Scene) RegisterRenderer(kind string, r Renderer) {
	s.renderers[kind] = r
}

func (s *Scene) Enqueue(queue string, cmd DrawCommand) {
	s.queues[queue] = append(s.queues[queue], cmd)
}

func (s *Scene) Queue(queue string) []DrawCommand {
	return s.queues[queue]
}

// Dispatch renders and clears a queue. Every command is attempted; failures
// are joined into the returned error.
func (s *Scene) Dispatch(queue string, device gfx.Device) error {
	cmds := s.queues[queue]
	delete(s.queues, queue)

	var errs []error
	for _, cmd := range cmds {
		r, ok := s.renderers[cmd.Kind]
		if !ok {
			errs = append(errs, fmt.Errorf("%w for %q", ErrNoRenderer, cmd.Kind))
			continue
		}
		if err := r.Render(device, cmd); err != nil {
			errs = append(errs, fmt.Errorf("render %q: %w", cmd.Kind, err))
		}
	}
	return errors.Join(errs...)
}
