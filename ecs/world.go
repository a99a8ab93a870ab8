package ecs

// World owns entity handles. Component storage lives in typed SparseSets held
// by the caller.
type World struct {
	entities entityStore
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity retires an entity handle and reports whether it was alive.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Alive returns the number of live entities.
func (w *World) Alive() int {
	if w == nil {
		return 0
	}
	return w.entities.alive
}
