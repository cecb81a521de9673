package gekko

import "reflect"

// Commands buffers structural ECS changes until the end of the current stage.
type Commands struct {
	app *App
}

func (cmd *Commands) App() *App {
	return cmd.app
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

func (cmd *Commands) Exit() {
	cmd.app.Exit()
}

// AddEntity reserves an id immediately; the components land on flush.
func (cmd *Commands) AddEntity(components ...any) EntityId {
	eid := cmd.app.ecs.nextEntityId()
	cmd.app.pendingAdditions = append(cmd.app.pendingAdditions, pendingAdd{
		eid:        eid,
		components: components,
	})
	return eid
}

func (cmd *Commands) AddComponents(entityId EntityId, components ...any) {
	cmd.app.pendingCompAdds = append(cmd.app.pendingCompAdds, pendingAdd{
		eid:        entityId,
		components: components,
	})
}

// RemoveComponents takes prototypes (values or pointers) of the component types to drop.
func (cmd *Commands) RemoveComponents(entityId EntityId, components ...any) {
	types := make([]reflect.Type, 0, len(components))
	for _, c := range components {
		types = append(types, componentType(c))
	}
	cmd.app.pendingCompRemovals = append(cmd.app.pendingCompRemovals, pendingCompRemoval{
		eid:   entityId,
		types: types,
	})
}

func (cmd *Commands) RemoveEntity(entityId EntityId) {
	cmd.app.pendingRemovals = append(cmd.app.pendingRemovals, entityId)
}

// GetAllComponents returns copies of the entity's components.
func (cmd *Commands) GetAllComponents(entityId EntityId) []any {
	return cmd.app.ecs.componentsOf(entityId)
}

func (cmd *Commands) EntityExists(entityId EntityId) bool {
	return cmd.app.ecs.hasEntity(entityId)
}
