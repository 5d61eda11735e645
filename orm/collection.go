// Package orm holds in-memory model collections keyed by ID.
package orm

type Identifiable[ID comparable] interface {
	GetID() ID
}

// Collection keeps models by ID in insertion order.
// It is not safe for concurrent use; callers hold their own lock.
type Collection[MP Identifiable[ID], ID comparable] struct {
	itemsMap   map[ID]MP
	orderedIDs []ID
}

func NewCollection[
	MP Identifiable[ID],
	ID comparable,
]() *Collection[MP, ID] {
	return &Collection[MP, ID]{
		itemsMap:   make(map[ID]MP),
		orderedIDs: make([]ID, 0),
	}
}

func NewOrderedCollection[
	MP Identifiable[ID],
	ID comparable,
](items []MP) *Collection[MP, ID] {
	coll := NewCollection[MP, ID]()
	for _, item := range items {
		coll.Add(item)
	}
	return coll
}

func (c *Collection[MP, ID]) Len() int {
	return len(c.itemsMap)
}

func (c *Collection[MP, ID]) Has(id ID) bool {
	_, ok := c.itemsMap[id]
	return ok
}

func (c *Collection[MP, ID]) Find(id ID) (MP, bool) {
	p, ok := c.itemsMap[id]
	return p, ok
}

// Add inserts or replaces; a replaced item keeps its position
func (c *Collection[MP, ID]) Add(item MP) {
	id := item.GetID()
	_, already := c.itemsMap[id]
	c.itemsMap[id] = item
	if !already {
		c.orderedIDs = append(c.orderedIDs, id)
	}
}

// Remove reports whether the id was present
func (c *Collection[MP, ID]) Remove(id ID) bool {
	if _, ok := c.itemsMap[id]; !ok {
		return false
	}
	delete(c.itemsMap, id)
	for i, oid := range c.orderedIDs {
		if oid == id {
			c.orderedIDs = append(c.orderedIDs[:i], c.orderedIDs[i+1:]...)
			break
		}
	}
	return true
}

func (c *Collection[MP, ID]) IDs() []ID {
	return append([]ID(nil), c.orderedIDs...)
}

func (c *Collection[MP, ID]) Items() []MP {
	items := make([]MP, 0, len(c.orderedIDs))
	for _, id := range c.orderedIDs {
		items = append(items, c.itemsMap[id])
	}
	return items
}

// ForEach calls fn for every model in insertion order
func (c *Collection[MP, ID]) ForEach(fn func(MP)) {
	for _, id := range c.orderedIDs {
		if mp, ok := c.itemsMap[id]; ok {
			fn(mp)
		}
	}
}

func (c *Collection[MP, ID]) Filter(fn func(MP) bool) *Collection[MP, ID] {
	filtered := &Collection[MP, ID]{
		itemsMap:   make(map[ID]MP, len(c.itemsMap)),
		orderedIDs: make([]ID, 0, len(c.orderedIDs)),
	}
	for _, id := range c.orderedIDs {
		item := c.itemsMap[id]
		if fn(item) {
			filtered.itemsMap[id] = item
			filtered.orderedIDs = append(filtered.orderedIDs, id)
		}
	}
	return filtered
}

// First returns the first model, in order, that fn accepts
func (c *Collection[MP, ID]) First(fn func(MP) bool) (MP, bool) {
	for _, id := range c.orderedIDs {
		if item := c.itemsMap[id]; fn(item) {
			return item, true
		}
	}
	var zero MP
	return zero, false
}

// CollectToSlice iterates over the collection and calls yield for each model.
// If yield returns nil, the element is skipped (conditional yield).
// Equivalent to a list comprehension: [yield(m) for m in c if yield(m) != nil].
func CollectToSlice[
	MP Identifiable[ID],
	ID comparable,
	V any,
](
	c *Collection[MP, ID],
	yield func(MP) *V,
) []V {
	sl := make([]V, 0, c.Len())
	c.ForEach(func(mp MP) {
		if vp := yield(mp); vp != nil {
			sl = append(sl, *vp)
		}
	})
	return sl
}
