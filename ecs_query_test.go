package gekko

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery_Map(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()
	a := cmd.AddEntity(posComponent{X: 1}, velComponent{DX: 1})
	b := cmd.AddEntity(posComponent{X: 2})
	cmd.AddEntity(velComponent{DX: 3}, tagComponent{Name: "c"})
	app.FlushCommands()

	seen := map[EntityId]float32{}
	MakeQuery1[posComponent](cmd).Map(func(eid EntityId, p *posComponent) bool {
		seen[eid] = p.X
		return true
	})
	assert.Equal(t, map[EntityId]float32{a: 1, b: 2}, seen)

	count := 0
	MakeQuery2[posComponent, velComponent](cmd).Map(func(eid EntityId, p *posComponent, v *velComponent) bool {
		assert.Equal(t, a, eid)
		p.X += v.DX
		count++
		return true
	})
	assert.Equal(t, 1, count)
	assert.Equal(t, float32(2), GetComponent[posComponent](cmd, a).X)
}

func TestQuery_MapStopsEarly(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()
	for i := 0; i < 5; i++ {
		cmd.AddEntity(posComponent{X: float32(i)})
	}
	app.FlushCommands()

	calls := 0
	MakeQuery1[posComponent](cmd).Map(func(EntityId, *posComponent) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}

func TestQuery3(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()
	eid := cmd.AddEntity(posComponent{}, velComponent{}, tagComponent{Name: "all"})
	cmd.AddEntity(posComponent{}, velComponent{})
	app.FlushCommands()

	var names []string
	MakeQuery3[posComponent, velComponent, tagComponent](cmd).Map(func(id EntityId, _ *posComponent, _ *velComponent, tag *tagComponent) bool {
		assert.Equal(t, eid, id)
		names = append(names, tag.Name)
		return true
	})
	assert.Equal(t, []string{"all"}, names)
}

func TestGetComponent(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()
	eid := cmd.AddEntity(tagComponent{Name: "x"})
	app.FlushCommands()

	assert.Equal(t, "x", GetComponent[tagComponent](cmd, eid).Name)
	assert.Nil(t, GetComponent[posComponent](cmd, eid))
	assert.True(t, HasComponent[tagComponent](cmd, eid))
	assert.False(t, HasComponent[tagComponent](cmd, eid+100))
}
