package listkit

import "github.com/google/uuid"

// ItemRegistry maps item identities to live items. Panels and controllers
// keep identities instead of pointers; a destroyed item is forgotten and its
// identity resolves to nil from then on.
type ItemRegistry struct {
	items map[uuid.UUID]*ListItem
}

// NewItemRegistry returns an empty registry.
func NewItemRegistry() *ItemRegistry {
	return &ItemRegistry{items: make(map[uuid.UUID]*ListItem)}
}

func (r *ItemRegistry) register(item *ListItem) {
	r.items[item.id] = item
}

func (r *ItemRegistry) forget(id uuid.UUID) {
	delete(r.items, id)
}

// Lookup returns the live item with the given identity, or nil.
func (r *ItemRegistry) Lookup(id uuid.UUID) *ListItem {
	if id == uuid.Nil {
		return nil
	}
	return r.items[id]
}

// Len returns the number of live items.
func (r *ItemRegistry) Len() int {
	return len(r.items)
}
