package gekko

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"reflect"
	"slices"
	"sync"
)

type EntityId uint64
type archetypeId uint64
type archetypeKey []componentId
type componentId uint32
type row int

// Ecs stores components in archetypes: one column (a typed slice) per
// component type, one row per entity.
type Ecs struct {
	archetypes  map[archetypeId]*archetype
	entityIndex map[EntityId]archetypeId

	idGeneratorLock sync.Mutex
	entityIdCounter EntityId

	componentIdLock sync.Mutex
	componentIds    map[reflect.Type]componentId
	componentTypes  []reflect.Type
}

type archetype struct {
	id       archetypeId
	key      archetypeKey
	entities map[EntityId]row
	columns  map[componentId]reflect.Value
	recycled []row
}

func MakeEcs() Ecs {
	return Ecs{
		archetypes:   make(map[archetypeId]*archetype),
		entityIndex:  make(map[EntityId]archetypeId),
		componentIds: make(map[reflect.Type]componentId),
	}
}

func (ecs *Ecs) nextEntityId() EntityId {
	ecs.idGeneratorLock.Lock()
	defer ecs.idGeneratorLock.Unlock()

	id := ecs.entityIdCounter
	ecs.entityIdCounter++
	return id
}

func (ecs *Ecs) addEntity(components ...any) EntityId {
	return ecs.insertEntity(ecs.nextEntityId(), components...)
}

func (ecs *Ecs) insertEntity(entityId EntityId, components ...any) EntityId {
	arch := ecs.getOrMakeArchetype(ecs.keyOf(components...))
	r := arch.reserveRow()
	arch.entities[entityId] = r
	for _, c := range components {
		arch.write(ecs, r, c)
	}
	ecs.entityIndex[entityId] = arch.id
	return entityId
}

func (ecs *Ecs) hasEntity(entityId EntityId) bool {
	_, ok := ecs.entityIndex[entityId]
	return ok
}

func (ecs *Ecs) removeEntity(entityId EntityId) {
	if !ecs.hasEntity(entityId) {
		return
	}
	ecs.recycleEntity(entityId)
}

func (ecs *Ecs) addComponents(entityId EntityId, components ...any) {
	src, srcRow, ok := ecs.locate(entityId)
	if !ok {
		return
	}
	dst := ecs.getOrMakeArchetype(dedupAndSortArchetypeKey(append(slices.Clone(src.key), ecs.keyOf(components...)...)))
	dstRow := dst.reserveRow()
	moveRow(src, srcRow, dst, dstRow)
	for _, c := range components {
		dst.write(ecs, dstRow, c)
	}
	ecs.recycleEntity(entityId)

	dst.entities[entityId] = dstRow
	ecs.entityIndex[entityId] = dst.id
}

func (ecs *Ecs) removeComponents(entityId EntityId, types ...reflect.Type) {
	src, srcRow, ok := ecs.locate(entityId)
	if !ok {
		return
	}
	drop := make(map[componentId]struct{})
	for _, t := range types {
		drop[ecs.getComponentId(t)] = struct{}{}
	}
	var key archetypeKey
	for _, id := range src.key {
		if _, gone := drop[id]; !gone {
			key = append(key, id)
		}
	}

	dst := ecs.getOrMakeArchetype(key)
	if dst == src {
		return
	}
	dstRow := dst.reserveRow()
	moveRow(src, srcRow, dst, dstRow)
	ecs.recycleEntity(entityId)

	dst.entities[entityId] = dstRow
	ecs.entityIndex[entityId] = dst.id
}

func (ecs *Ecs) locate(entityId EntityId) (*archetype, row, bool) {
	archId, ok := ecs.entityIndex[entityId]
	if !ok {
		return nil, 0, false
	}
	arch := ecs.archetypes[archId]
	return arch, arch.entities[entityId], true
}

// componentsOf returns copies of every component stored for the entity.
func (ecs *Ecs) componentsOf(entityId EntityId) []any {
	arch, r, ok := ecs.locate(entityId)
	if !ok {
		return nil
	}
	out := make([]any, 0, len(arch.key))
	for _, id := range arch.key {
		out = append(out, arch.columns[id].Index(int(r)).Interface())
	}
	return out
}

// componentPtr returns a pointer into archetype storage. It stays valid until
// the next structural change of the entity's archetype.
func (ecs *Ecs) componentPtr(entityId EntityId, t reflect.Type) (any, bool) {
	arch, r, ok := ecs.locate(entityId)
	if !ok {
		return nil, false
	}
	col, ok := arch.columns[ecs.getComponentId(t)]
	if !ok {
		return nil, false
	}
	return col.Index(int(r)).Addr().Interface(), true
}

func (ecs *Ecs) recycleEntity(entityId EntityId) {
	arch, r, ok := ecs.locate(entityId)
	if !ok {
		return
	}
	for _, id := range arch.key {
		col := arch.columns[id]
		col.Index(int(r)).Set(reflect.Zero(col.Type().Elem()))
	}
	arch.recycled = append(arch.recycled, r)
	delete(arch.entities, entityId)
	delete(ecs.entityIndex, entityId)
}

func (ecs *Ecs) getOrMakeArchetype(key archetypeKey) *archetype {
	id := getArchetypeId(key)
	if arch, ok := ecs.archetypes[id]; ok {
		return arch
	}

	arch := &archetype{
		id:       id,
		key:      key,
		entities: make(map[EntityId]row),
		columns:  make(map[componentId]reflect.Value),
	}
	for _, cid := range key {
		arch.columns[cid] = reflect.MakeSlice(reflect.SliceOf(ecs.getComponentType(cid)), 0, 1)
	}
	ecs.archetypes[id] = arch
	return arch
}

func (arch *archetype) reserveRow() row {
	if n := len(arch.recycled); n > 0 {
		r := arch.recycled[n-1]
		arch.recycled = arch.recycled[:n-1]
		return r
	}

	r := row(len(arch.entities))
	for _, cid := range arch.key {
		col := arch.columns[cid]
		arch.columns[cid] = reflect.Append(col, reflect.Zero(col.Type().Elem()))
	}
	return r
}

func (arch *archetype) write(ecs *Ecs, r row, component any) {
	t, v := componentValue(component)
	arch.columns[ecs.getComponentId(t)].Index(int(r)).Set(v)
}

// moveRow copies the columns both archetypes share.
func moveRow(src *archetype, srcRow row, dst *archetype, dstRow row) {
	for cid, srcCol := range src.columns {
		if dstCol, ok := dst.columns[cid]; ok {
			dstCol.Index(int(dstRow)).Set(srcCol.Index(int(srcRow)))
		}
	}
}

func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t == nil {
		panic("component must not be nil")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		panic(fmt.Errorf("expected Component to be a struct or a pointer to a struct, got %s", t.Kind()))
	}
	return t
}

func componentValue(component any) (reflect.Type, reflect.Value) {
	t := componentType(component)
	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return t, v
}

func (ecs *Ecs) keyOf(components ...any) archetypeKey {
	key := make(archetypeKey, 0, len(components))
	for _, c := range components {
		key = append(key, ecs.getComponentId(componentType(c)))
	}
	return dedupAndSortArchetypeKey(key)
}

func dedupAndSortArchetypeKey(key archetypeKey) archetypeKey {
	res := slices.Clone(key)
	slices.Sort(res)
	return slices.Compact(res)
}

// getArchetypeId hashes the canonical (sorted) key.
func getArchetypeId(key archetypeKey) archetypeId {
	hash := fnv.New64a()
	b := make([]byte, 8)
	for _, cid := range key {
		binary.LittleEndian.PutUint64(b, uint64(cid))
		hash.Write(b)
	}
	return archetypeId(hash.Sum64())
}

func (ecs *Ecs) getComponentId(t reflect.Type) componentId {
	ecs.componentIdLock.Lock()
	defer ecs.componentIdLock.Unlock()

	if id, ok := ecs.componentIds[t]; ok {
		return id
	}
	id := componentId(len(ecs.componentTypes))
	ecs.componentIds[t] = id
	ecs.componentTypes = append(ecs.componentTypes, t)
	return id
}

func (ecs *Ecs) getComponentType(id componentId) reflect.Type {
	ecs.componentIdLock.Lock()
	defer ecs.componentIdLock.Unlock()

	if int(id) < len(ecs.componentTypes) {
		return ecs.componentTypes[id]
	}
	panic("ComponentID not registered")
}
