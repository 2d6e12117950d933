package blocks

import (
	"fmt"
	"sort"

	"github.com/mattsolo1/grove-blockbook/pkg/ident"
)

// Collection is the immutable set of blocks belonging to one file. Every
// mutator returns a new *Collection and leaves the receiver untouched, so a
// pointer comparison tells whether content changed between two snapshots.
// A nil *Collection is an empty collection.
type Collection struct {
	byID map[int]Block
}

// New builds a collection from the given blocks. A later block replaces an
// earlier one with the same id.
func New(bs ...Block) *Collection {
	c := &Collection{byID: make(map[int]Block, len(bs))}
	for _, b := range bs {
		c.byID[b.ID] = b
	}
	return c
}

// Len returns the number of blocks.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byID)
}

// Get returns the block with the given id.
func (c *Collection) Get(id int) (Block, bool) {
	if c == nil {
		return Block{}, false
	}
	b, ok := c.byID[id]
	return b, ok
}

// Ordered returns the blocks sorted by ordering key, ties broken by id.
func (c *Collection) Ordered() []Block {
	if c == nil {
		return nil
	}
	list := make([]Block, 0, len(c.byID))
	for _, b := range c.byID {
		list = append(list, b)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].OrderingKey != list[j].OrderingKey {
			return list[i].OrderingKey < list[j].OrderingKey
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// IDs returns the block ids in document order.
func (c *Collection) IDs() []int {
	ordered := c.Ordered()
	ids := make([]int, len(ordered))
	for i, b := range ordered {
		ids[i] = b.ID
	}
	return ids
}

// Add appends a block after the current last one and returns the new
// collection along with the created block.
func (c *Collection) Add(kind Kind, content string) (*Collection, Block) {
	next := c.clone()
	b := Block{
		ID:          ident.NextKey(next.byID),
		Kind:        kind,
		Content:     content,
		OrderingKey: c.nextOrderingKey(),
	}
	next.byID[b.ID] = b
	return next, b
}

// Update replaces the content of a block. The receiver is returned unchanged
// together with ErrNotFound when the id is unknown.
func (c *Collection) Update(id int, content string) (*Collection, error) {
	b, ok := c.Get(id)
	if !ok {
		return c, fmt.Errorf("update block %d: %w", id, ErrNotFound)
	}
	next := c.clone()
	b.Content = content
	next.byID[id] = b
	return next, nil
}

// Remove deletes a block. Removing a missing id is a no-op.
func (c *Collection) Remove(id int) *Collection {
	if _, ok := c.Get(id); !ok {
		return c
	}
	next := c.clone()
	delete(next.byID, id)
	return next
}

// Move swaps the ordering key of a block with its neighbour in the given
// direction. Moving past either end, or moving a missing id, is a no-op.
func (c *Collection) Move(id int, dir Direction) *Collection {
	ordered := c.Ordered()
	i := -1
	for pos, b := range ordered {
		if b.ID == id {
			i = pos
			break
		}
	}
	if i < 0 {
		return c
	}

	var j int
	switch dir {
	case Up:
		j = i - 1
	case Down:
		j = i + 1
	default:
		return c
	}
	if j < 0 || j >= len(ordered) {
		return c
	}

	a, b := ordered[i], ordered[j]
	a.OrderingKey, b.OrderingKey = b.OrderingKey, a.OrderingKey
	next := c.clone()
	next.byID[a.ID] = a
	next.byID[b.ID] = b
	return next
}

// Validate reports a duplicated ordering key or a block of unknown kind.
func (c *Collection) Validate() error {
	if c == nil {
		return nil
	}
	seen := make(map[int]int, len(c.byID))
	for _, b := range c.Ordered() {
		if !b.Kind.Valid() {
			return fmt.Errorf("block %d: %w", b.ID, ErrUnknownBlockType)
		}
		if other, ok := seen[b.OrderingKey]; ok {
			return fmt.Errorf("blocks %d and %d share ordering key %d", other, b.ID, b.OrderingKey)
		}
		seen[b.OrderingKey] = b.ID
	}
	return nil
}

// Rekey returns a collection whose ordering keys are strictly increasing in
// document order. Keys that are already distinct and ascending are kept; a
// key that collides with its predecessor is bumped past it.
func (c *Collection) Rekey() *Collection {
	ordered := c.Ordered()
	changed := false
	for i := 1; i < len(ordered); i++ {
		if ordered[i].OrderingKey <= ordered[i-1].OrderingKey {
			ordered[i].OrderingKey = ordered[i-1].OrderingKey + 1
			changed = true
		}
	}
	if !changed {
		return c
	}
	return New(ordered...)
}

func (c *Collection) nextOrderingKey() int {
	ordered := c.Ordered()
	if len(ordered) == 0 {
		return 0
	}
	return ordered[len(ordered)-1].OrderingKey + 1
}

func (c *Collection) clone() *Collection {
	next := &Collection{byID: make(map[int]Block, c.Len()+1)}
	if c != nil {
		for id, b := range c.byID {
			next.byID[id] = b
		}
	}
	return next
}
