package gekko

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	ecs       *Ecs
	hooks     componentHooks
	exit      bool
	frame     uint64

	// Command Buffering
	pendingAdditions    []pendingAdd
	pendingRemovals     []EntityId
	pendingCompAdds     []pendingAdd
	pendingCompRemovals []pendingCompRemoval
}

type pendingAdd struct {
	eid        EntityId
	components []any
}

type pendingCompRemoval struct {
	eid   EntityId
	types []reflect.Type
}

// ComponentHook observes a component entering or leaving an entity. On add it
// receives a pointer into storage; on remove, a copy of the departing value.
type ComponentHook func(cmd *Commands, eid EntityId, component any)

type componentHooks struct {
	added     map[reflect.Type][]ComponentHook
	removed   map[reflect.Type][]ComponentHook
	despawned []func(cmd *Commands, eid EntityId)
}

func NewApp() *App {
	ecs := MakeEcs()
	app := &App{
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
		ecs:       &ecs,
		hooks: componentHooks{
			added:   make(map[reflect.Type][]ComponentHook),
			removed: make(map[reflect.Type][]ComponentHook),
		},
	}
	for _, stage := range defaultStages() {
		app.stages = append(app.stages, stage)
		app.systems[stage.Name] = make([]systemFn, 0)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, m := range modules {
		m.Install(app, cmd)
	}
	app.FlushCommands()
	return app
}

// OnComponentAdded registers a hook for components of prototype's type.
func (app *App) OnComponentAdded(prototype any, hook ComponentHook) {
	t := componentType(prototype)
	app.hooks.added[t] = append(app.hooks.added[t], hook)
}

func (app *App) OnComponentRemoved(prototype any, hook ComponentHook) {
	t := componentType(prototype)
	app.hooks.removed[t] = append(app.hooks.removed[t], hook)
}

// OnAdd is the typed form of OnComponentAdded.
func OnAdd[T any](app *App, hook func(cmd *Commands, eid EntityId, component *T)) {
	app.OnComponentAdded((*T)(nil), func(cmd *Commands, eid EntityId, c any) {
		hook(cmd, eid, c.(*T))
	})
}

// OnRemove is the typed form of OnComponentRemoved.
func OnRemove[T any](app *App, hook func(cmd *Commands, eid EntityId, component T)) {
	app.OnComponentRemoved((*T)(nil), func(cmd *Commands, eid EntityId, c any) {
		hook(cmd, eid, c.(T))
	})
}

// OnDespawn registers a hook run after an entity is removed as a whole, once
// the removal hooks of its components have run.
func (app *App) OnDespawn(hook func(cmd *Commands, eid EntityId)) {
	app.hooks.despawned = append(app.hooks.despawned, hook)
}

// Frame is the number of completed Steps.
func (app *App) Frame() uint64 { return app.frame }

func (app *App) Exit() { app.exit = true }

func (app *App) Exiting() bool { return app.exit }

// Step runs every stage once, flushing commands after each stage.
func (app *App) Step() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
		app.FlushCommands()
	}
	app.frame++
}

func (app *App) Run() {
	app.Logger().Infof("running with stages %v", app.stageNames())
	for !app.exit {
		app.Step()
	}
	app.Logger().Infof("exiting after %d frames", app.frame)
}

func (app *App) stageNames() []string {
	names := make([]string, len(app.stages))
	for i, s := range app.stages {
		names[i] = s.Name
	}
	return names
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %s must be a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}
		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource looks up a resource previously added by pointer.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

var typeOfCommands = reflect.TypeOf(Commands{})

// callSystem resolves each pointer argument of the system to either a fresh
// *Commands or a resource of the pointed-to type.
func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())
	for i := range args {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			app.unresolved(systemValue, systemType, argType)
		}

		underlyingType := argType.Elem()
		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(app.Commands())
		} else if resource, ok := app.resources[underlyingType]; ok {
			args[i] = reflect.ValueOf(resource)
		} else {
			app.unresolved(systemValue, systemType, argType)
		}
	}
	systemValue.Call(args)
}

func (app *App) unresolved(systemValue reflect.Value, systemType, argType reflect.Type) {
	msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		systemType,
		argType,
	)
	app.Logger().Errorf("%s", msg)
	panic(msg)
}

const maxFlushPasses = 8

func (app *App) hasPendingCommands() bool {
	return len(app.pendingAdditions) > 0 || len(app.pendingRemovals) > 0 ||
		len(app.pendingCompAdds) > 0 || len(app.pendingCompRemovals) > 0
}

// FlushCommands applies buffered structural changes. Hooks may queue further
// commands; those are applied in follow-up passes.
func (app *App) FlushCommands() {
	for pass := 0; pass < maxFlushPasses && app.hasPendingCommands(); pass++ {
		app.flushOnce()
	}
	if app.hasPendingCommands() {
		app.Logger().Warnf("commands still pending after %d flush passes", maxFlushPasses)
	}
}

func (app *App) flushOnce() {
	cmd := app.Commands()

	compRemovals := app.pendingCompRemovals
	app.pendingCompRemovals = nil
	for _, rm := range compRemovals {
		for _, t := range rm.types {
			if ptr, ok := app.ecs.componentPtr(rm.eid, t); ok {
				app.fireRemoved(cmd, rm.eid, t, reflect.ValueOf(ptr).Elem().Interface())
			}
		}
		app.ecs.removeComponents(rm.eid, rm.types...)
	}

	removals := app.pendingRemovals
	app.pendingRemovals = nil
	for _, eid := range removals {
		if !app.ecs.hasEntity(eid) {
			continue
		}
		for _, c := range app.ecs.componentsOf(eid) {
			app.fireRemoved(cmd, eid, reflect.TypeOf(c), c)
		}
		app.ecs.removeEntity(eid)
		for _, hook := range app.hooks.despawned {
			hook(cmd, eid)
		}
	}

	additions := app.pendingAdditions
	app.pendingAdditions = nil
	for _, add := range additions {
		app.ecs.insertEntity(add.eid, add.components...)
		app.fireAdded(cmd, add.eid, add.components)
	}

	compAdds := app.pendingCompAdds
	app.pendingCompAdds = nil
	for _, add := range compAdds {
		if !app.ecs.hasEntity(add.eid) {
			app.Logger().Warnf("dropping components for missing entity %d", add.eid)
			continue
		}
		// a replaced component leaves before its successor arrives
		for _, c := range add.components {
			t := componentType(c)
			if ptr, ok := app.ecs.componentPtr(add.eid, t); ok {
				app.fireRemoved(cmd, add.eid, t, reflect.ValueOf(ptr).Elem().Interface())
			}
		}
		app.ecs.addComponents(add.eid, add.components...)
		app.fireAdded(cmd, add.eid, add.components)
	}
}

func (app *App) fireAdded(cmd *Commands, eid EntityId, components []any) {
	for _, c := range components {
		t := componentType(c)
		hooks := app.hooks.added[t]
		if len(hooks) == 0 {
			continue
		}
		ptr, ok := app.ecs.componentPtr(eid, t)
		if !ok {
			continue
		}
		for _, hook := range hooks {
			hook(cmd, eid, ptr)
		}
	}
}

func (app *App) fireRemoved(cmd *Commands, eid EntityId, t reflect.Type, value any) {
	for _, hook := range app.hooks.removed[t] {
		hook(cmd, eid, value)
	}
}
