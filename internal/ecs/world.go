package ecs

import "slices"

// World is the entity registry and component store that tile maps keep
// their occupants in. It is not safe for concurrent use; callers serialize
// access the same way they serialize access to the maps built on it.
type World struct {
	gens       []uint32 // current generation per slot
	alive      []bool
	free       []uint32
	live       int
	components map[ComponentType]map[EntityID]Component
}

// NewWorld creates an empty World.
func NewWorld() *World {
	return &World{components: make(map[ComponentType]map[EntityID]Component)}
}

// CreateEntity returns a live handle, reusing a freed slot when one exists.
func (w *World) CreateEntity() EntityID {
	var index uint32
	if n := len(w.free); n > 0 {
		index = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		index = uint32(len(w.gens))
		w.gens = append(w.gens, 1)
		w.alive = append(w.alive, false)
	}
	w.alive[index] = true
	w.live++
	return makeID(index, w.gens[index])
}

// DestroyEntity forgets the entity and all its components and retires the
// handle. Destroying a dead or stale handle is a no-op.
func (w *World) DestroyEntity(id EntityID) {
	if !w.Alive(id) {
		return
	}
	for _, store := range w.components {
		delete(store, id)
	}
	index := id.Index()
	w.alive[index] = false
	w.gens[index]++
	if w.gens[index] == 0 {
		w.gens[index] = 1
	}
	w.free = append(w.free, index)
	w.live--
}

// Alive reports whether id names a live entity of the current generation.
func (w *World) Alive(id EntityID) bool {
	index := id.Index()
	return int(index) < len(w.gens) && w.alive[index] && w.gens[index] == id.Generation()
}

// Len returns the number of live entities.
func (w *World) Len() int { return w.live }

// Add attaches a component to an entity, replacing any component of the
// same type. Adding to a dead entity is a no-op.
func (w *World) Add(id EntityID, c Component) {
	if !w.Alive(id) {
		return
	}
	t := c.Type()
	if w.components[t] == nil {
		w.components[t] = make(map[EntityID]Component)
	}
	w.components[t][id] = c
}

// Get returns the component of the given type for entity id, or nil.
func (w *World) Get(id EntityID, t ComponentType) Component {
	return w.components[t][id]
}

// Remove detaches a component from an entity.
func (w *World) Remove(id EntityID, t ComponentType) {
	delete(w.components[t], id)
}

// Has reports whether entity id has a component of the given type.
func (w *World) Has(id EntityID, t ComponentType) bool {
	return w.Get(id, t) != nil
}

// Query returns the live entities carrying every listed component type,
// ordered by handle.
func (w *World) Query(types ...ComponentType) []EntityID {
	if len(types) == 0 {
		return nil
	}
	smallest := types[0]
	for _, t := range types[1:] {
		if len(w.components[t]) < len(w.components[smallest]) {
			smallest = t
		}
	}
	var result []EntityID
	for id := range w.components[smallest] {
		if !w.Alive(id) {
			continue
		}
		if !slices.ContainsFunc(types, func(t ComponentType) bool { return !w.Has(id, t) }) {
			result = append(result, id)
		}
	}
	slices.Sort(result)
	return result
}
