package scene

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Node is an element of the scene graph. A node has at most one parent; adding
// it to another parent detaches it from the previous one.
type Node struct {
	id       uuid.UUID
	name     string
	parent   *Node
	children []*Node

	Local Transform
	world mgl32.Mat4
}

func NewNode(name string) *Node {
	n := &Node{}
	n.init(name)
	return n
}

func (n *Node) init(name string) {
	n.id = uuid.New()
	n.name = name
	n.Local = IdentityTransform()
	n.world = mgl32.Ident4()
}

func (n *Node) ID() uuid.UUID     { return n.id }
func (n *Node) Name() string      { return n.name }
func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

func (n *Node) AddChild(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChild reports whether child was attached to n.
func (n *Node) RemoveChild(child *Node) bool {
	idx := slices.Index(n.children, child)
	if idx < 0 {
		return false
	}
	n.children = slices.Delete(n.children, idx, idx+1)
	child.parent = nil
	return true
}

func (n *Node) HasChild(child *Node) bool {
	return slices.Contains(n.children, child)
}

// WorldTransform is valid after the last UpdateWorld pass over this subtree.
func (n *Node) WorldTransform() mgl32.Mat4 {
	return n.world
}

// SetWorldTransform overrides the cached world matrix of a node whose pose is
// driven from outside the graph (ECS entity nodes).
func (n *Node) SetWorldTransform(m mgl32.Mat4) {
	n.world = m
}

// UpdateWorld recomputes world matrices for n and its descendants.
func (n *Node) UpdateWorld(parentWorld mgl32.Mat4) {
	n.world = parentWorld.Mul4(n.Local.Matrix())
	n.updateChildren()
}

func (n *Node) updateChildren() {
	for _, c := range n.children {
		c.UpdateWorld(n.world)
	}
}

// UpdateChildren propagates n's current world matrix without recomputing it.
func (n *Node) UpdateChildren() {
	n.updateChildren()
}
