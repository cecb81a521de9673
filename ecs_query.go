package gekko

import (
	"reflect"
)

// Queries hand out pointers into archetype columns. Do not keep them past the
// end of Map: a command flush may move the entity to another archetype.
type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }
type Query3[A, B, C any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A]             { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B]       { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] { return Query3[A, B, C]{ecs: cmd.app.ecs} }

func typeIdOf[T any](ecs *Ecs) componentId {
	return ecs.getComponentId(reflect.TypeOf((*T)(nil)).Elem())
}

func column[T any](arch *archetype, id componentId) ([]T, bool) {
	col, ok := arch.columns[id]
	if !ok {
		return nil, false
	}
	return col.Interface().([]T), true
}

func (q Query1[A]) Map(m func(EntityId, *A) bool) {
	id1 := typeIdOf[A](q.ecs)

	for _, arch := range q.ecs.archetypes {
		comps1, ok := column[A](arch, id1)
		if !ok {
			continue
		}
		for entityId, r := range arch.entities {
			if !m(entityId, &comps1[r]) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool) {
	id1, id2 := typeIdOf[A](q.ecs), typeIdOf[B](q.ecs)

	for _, arch := range q.ecs.archetypes {
		comps1, ok1 := column[A](arch, id1)
		comps2, ok2 := column[B](arch, id2)
		if !ok1 || !ok2 {
			continue
		}
		for entityId, r := range arch.entities {
			if !m(entityId, &comps1[r], &comps2[r]) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool) {
	id1, id2, id3 := typeIdOf[A](q.ecs), typeIdOf[B](q.ecs), typeIdOf[C](q.ecs)

	for _, arch := range q.ecs.archetypes {
		comps1, ok1 := column[A](arch, id1)
		comps2, ok2 := column[B](arch, id2)
		comps3, ok3 := column[C](arch, id3)
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		for entityId, r := range arch.entities {
			if !m(entityId, &comps1[r], &comps2[r], &comps3[r]) {
				return
			}
		}
	}
}

// GetComponent returns a pointer to the entity's T, or nil.
func GetComponent[T any](cmd *Commands, entityId EntityId) *T {
	ptr, ok := cmd.app.ecs.componentPtr(entityId, reflect.TypeOf((*T)(nil)).Elem())
	if !ok {
		return nil
	}
	return ptr.(*T)
}

func HasComponent[T any](cmd *Commands, entityId EntityId) bool {
	return GetComponent[T](cmd, entityId) != nil
}
