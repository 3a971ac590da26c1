// Package ecs holds the scene graph handed to the renderer: entities with
// typed components stored in sparse sets.
package ecs

import "github.com/milk9111/drivesim/ecs/component"

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// World owns entities and their components.
type World struct {
	gens   []generation
	alive  []bool
	free   []entityID
	count  int
	stores map[component.ComponentID]*sparseSet
}

func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*sparseSet)}
}

func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	var id entityID
	if n := len(w.free); n > 0 {
		id = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		w.gens = append(w.gens, 1)
		w.alive = append(w.alive, false)
		id = entityID(len(w.gens))
	}
	w.alive[id-1] = true
	w.count++
	return makeEntity(id, w.gens[id-1])
}

// DestroyEntity removes every component of e and recycles its slot. It reports
// false when e was already dead.
func DestroyEntity(w *World, e Entity) bool {
	if !IsAlive(w, e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e)
	}
	idx := e.id() - 1
	w.alive[idx] = false
	w.gens[idx]++
	w.free = append(w.free, e.id())
	w.count--
	return true
}

func IsAlive(w *World, e Entity) bool {
	if w == nil || !e.Valid() {
		return false
	}
	id := e.id()
	if id == 0 || int(id) > len(w.gens) {
		return false
	}
	return w.alive[id-1] && w.gens[id-1] == e.generation()
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, w.count)
	for i, ok := range w.alive {
		if ok {
			out = append(out, makeEntity(entityID(i+1), w.gens[i]))
		}
	}
	return out
}

func (w *World) store(id component.ComponentID, create bool) *sparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		if w.stores == nil {
			w.stores = make(map[component.ComponentID]*sparseSet)
		}
		s = &sparseSet{}
		w.stores[id] = s
	}
	return s
}
