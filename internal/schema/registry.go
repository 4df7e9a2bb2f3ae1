package schema

import (
	"fmt"
	"sync"
)

// CollisionRegistry tracks which types claimed which base names so that
// naming collisions resolve to deterministic numeric suffixes. A registry is
// scoped to one generation pass by default; passes that need identifier
// stability across rebuilds may share a single registry, which is why all
// access goes through a single-writer/multiple-reader lock.
type CollisionRegistry struct {
	mu sync.RWMutex

	// slots holds, per base name, the ordered suffix slots. Slot 0 is the
	// bare base name, slot n is "<base>_dupN". A removed entry leaves an
	// empty hole so the next claimant takes the lowest free slot instead of
	// growing the sequence forever.
	slots map[string][]string

	// bindings maps a type key to its frozen assignment
	bindings map[string]binding
}

type binding struct {
	id       SchemaID
	baseName string
	slot     int
}

// NewCollisionRegistry creates an empty registry
func NewCollisionRegistry() *CollisionRegistry {
	return &CollisionRegistry{
		slots:    make(map[string][]string),
		bindings: make(map[string]binding),
	}
}

// Bind assigns an identifier derived from baseName to the given type key.
// The first caller for a base name gets the bare name; later callers get
// "_dup1", "_dup2", ... in registration order. Binding the same key again
// returns the existing identifier unchanged: assignments are one-way-frozen
// for the life of the registry. The second return value reports whether a
// suffix had to be applied.
func (r *CollisionRegistry) Bind(typeKey, baseName string) (SchemaID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.bindings[typeKey]; ok {
		return existing.id, false
	}

	slot := -1
	list := r.slots[baseName]
	for i, holder := range list {
		if holder == "" {
			slot = i
			break
		}
	}
	if slot < 0 {
		slot = len(list)
		list = append(list, "")
	}
	list[slot] = typeKey
	r.slots[baseName] = list

	id := idForSlot(baseName, slot)
	r.bindings[typeKey] = binding{id: id, baseName: baseName, slot: slot}
	return id, slot > 0
}

// Lookup returns the identifier previously bound to a type key
func (r *CollisionRegistry) Lookup(typeKey string) (SchemaID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bindings[typeKey]
	return b.id, ok
}

// Remove deletes a type's binding and reclaims its suffix slot. Identifiers
// already handed out to other types are unaffected; only future Bind calls
// see the freed slot.
func (r *CollisionRegistry) Remove(typeKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bindings[typeKey]
	if !ok {
		return
	}
	delete(r.bindings, typeKey)

	list := r.slots[b.baseName]
	if b.slot < len(list) && list[b.slot] == typeKey {
		list[b.slot] = ""
	}
	// Drop trailing holes so an all-empty list does not pin the base name
	for len(list) > 0 && list[len(list)-1] == "" {
		list = list[:len(list)-1]
	}
	if len(list) == 0 {
		delete(r.slots, b.baseName)
	} else {
		r.slots[b.baseName] = list
	}
}

// Len returns the number of bound type keys
func (r *CollisionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.bindings)
}

func idForSlot(baseName string, slot int) SchemaID {
	if slot == 0 {
		return SchemaID(baseName)
	}
	return SchemaID(fmt.Sprintf("%s_dup%d", baseName, slot))
}
