// Package store holds the in-memory entity collections shared by the data access operations.
package store

import (
	"sync"

	"github.com/jinzhu/copier"
)

// Record is an entity held in a Collection.
type Record interface {
	Key() string
}

// fallbackIdentifier is implemented by records that get a local id when appended without one.
type fallbackIdentifier interface {
	AssignFallbackID(n int)
}

// Listener is invoked with a snapshot of the collection after every mutation.
type Listener[T Record] func(items []T)

// Collection is an ordered list of records, in the order the server returned them.
type Collection[T Record] struct {
	mu *sync.RWMutex

	items     []T
	listeners map[uint64]Listener[T]
	nextID    uint64
}

func NewCollection[T Record]() *Collection[T] {
	return &Collection[T]{mu: &sync.RWMutex{}, listeners: map[uint64]Listener[T]{}}
}

// List returns a copy of the records.
func (c *Collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.snapshot()
}

// caller must hold the lock
func (c *Collection[T]) snapshot() []T {
	items := make([]T, 0, len(c.items))

	if err := copier.CopyWithOption(&items, &c.items, copier.Option{DeepCopy: true}); err != nil {
		// a shallow copy still keeps the collection order intact
		return append(items[:0], c.items...)
	}

	return items
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Get returns a copy of the record identified by key.
func (c *Collection[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var item T

	for i := range c.items {
		if c.items[i].Key() != key {
			continue
		}

		if err := copier.CopyWithOption(&item, &c.items[i], copier.Option{DeepCopy: true}); err != nil {
			return c.items[i], true
		}

		return item, true
	}

	return item, false
}

// Clear empties the collection.
func (c *Collection[T]) Clear() {
	c.mutate(func() bool {
		c.items = nil
		return true
	})
}

// ReplaceAll replaces the records with items, the order of items is kept.
func (c *Collection[T]) ReplaceAll(items []T) {
	c.mutate(func() bool {
		c.items = append(make([]T, 0, len(items)), items...)
		return true
	})
}

// Append adds item at the end of the collection and returns it.
//
// A record implementing AssignFallbackID without a server id is given
// the id len+1 before it is added, a server id is never overwritten.
func (c *Collection[T]) Append(item T) T {
	c.mutate(func() bool {
		if f, ok := any(&item).(fallbackIdentifier); ok {
			f.AssignFallbackID(len(c.items) + 1)
		}

		c.items = append(c.items, item)

		return true
	})

	return item
}

// Update replaces the record with the same key as item,
// returns false when no such record is held.
func (c *Collection[T]) Update(item T) bool {
	return c.mutate(func() bool {
		for i := range c.items {
			if c.items[i].Key() == item.Key() {
				c.items[i] = item
				return true
			}
		}

		return false
	})
}

// Remove drops the record identified by key, returns false when no such record is held.
func (c *Collection[T]) Remove(key string) bool {
	return c.mutate(func() bool {
		for i := range c.items {
			if c.items[i].Key() == key {
				c.items = append(c.items[:i], c.items[i+1:]...)
				return true
			}
		}

		return false
	})
}

// Subscribe registers a listener notified after each mutation.
// Returns an unsubscribe function.
func (c *Collection[T]) Subscribe(fn Listener[T]) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		delete(c.listeners, id)
	}
}

// mutate applies fn under the write lock, listeners are notified outside of it
// when fn reports a change.
func (c *Collection[T]) mutate(fn func() bool) bool {
	c.mu.Lock()

	changed := fn()
	if !changed || len(c.listeners) == 0 {
		c.mu.Unlock()
		return changed
	}

	items := c.snapshot()

	listeners := make([]Listener[T], 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}

	c.mu.Unlock()

	for _, l := range listeners {
		l(items)
	}

	return changed
}
