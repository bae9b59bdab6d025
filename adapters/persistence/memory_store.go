package persistence

import (
	"context"
	"reflect"
	"sync"

	"github.com/khoahotran/folio/internal/docstore"
)

// uniqueFields mirrors the unique indexes the database backends create.
var uniqueFields = map[string]string{
	docstore.CollectionUsers: "username",
}

type memoryStore struct {
	mu          sync.RWMutex
	clock       *docstore.Clock
	collections map[string]map[string]docstore.Document
}

// NewMemoryStore keeps every document in process memory. Used by tests and
// by store.driver=memory.
func NewMemoryStore() docstore.Store {
	return &memoryStore{
		clock:       docstore.NewClock(nil),
		collections: make(map[string]map[string]docstore.Document),
	}
}

func (s *memoryStore) Collection(name string) docstore.Collection {
	return &memoryCollection{store: s, name: name}
}

func (s *memoryStore) Ping(context.Context) error  { return nil }
func (s *memoryStore) Close(context.Context) error { return nil }

type memoryCollection struct {
	store *memoryStore
	name  string
}

// docs must be called with the store lock held.
func (c *memoryCollection) docs() map[string]docstore.Document {
	m, ok := c.store.collections[c.name]
	if !ok {
		m = make(map[string]docstore.Document)
		c.store.collections[c.name] = m
	}
	return m
}

func (c *memoryCollection) Get(ctx context.Context, id string) (docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	d, ok := c.store.collections[c.name][id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return withID(d, id), nil
}

func (c *memoryCollection) Find(ctx context.Context, filter docstore.Filter) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	out := make([]docstore.Document, 0)
	for id, d := range c.store.collections[c.name] {
		if matches(d, filter) {
			out = append(out, withID(d, id))
		}
	}
	docstore.Sort(out)
	return out, nil
}

func (c *memoryCollection) Insert(ctx context.Context, doc docstore.Document) (docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	id := docstore.NewID()
	stored := docstore.WritableFields(doc)
	stored[docstore.FieldCreatedAt] = c.store.clock.Stamp()
	if err := c.checkUnique(id, stored); err != nil {
		return nil, err
	}
	c.docs()[id] = stored
	return withID(stored, id), nil
}

func (c *memoryCollection) Merge(ctx context.Context, id string, fields docstore.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	stamp := c.store.clock.Stamp()
	current, ok := c.docs()[id]
	next := docstore.Document{docstore.FieldCreatedAt: stamp}
	if ok {
		next = current.Clone()
	}
	for k, v := range docstore.WritableFields(fields) {
		next[k] = v
	}
	next[docstore.FieldUpdatedAt] = stamp

	if err := c.checkUnique(id, next); err != nil {
		return err
	}
	c.docs()[id] = next
	return nil
}

func (c *memoryCollection) Update(ctx context.Context, id string, fields docstore.Document, guard docstore.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	current, ok := c.docs()[id]
	if !ok || !matches(current, guard) {
		return docstore.ErrNotFound
	}
	next := current.Clone()
	for k, v := range docstore.WritableFields(fields) {
		next[k] = v
	}
	next[docstore.FieldUpdatedAt] = c.store.clock.Stamp()

	if err := c.checkUnique(id, next); err != nil {
		return err
	}
	c.docs()[id] = next
	return nil
}

func (c *memoryCollection) Delete(ctx context.Context, id string, guard docstore.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	current, ok := c.docs()[id]
	if !ok || !matches(current, guard) {
		return docstore.ErrNotFound
	}
	delete(c.docs(), id)
	return nil
}

func (c *memoryCollection) checkUnique(id string, doc docstore.Document) error {
	field, ok := uniqueFields[c.name]
	if !ok {
		return nil
	}
	value := doc.String(field)
	if value == "" {
		return nil
	}
	for otherID, other := range c.docs() {
		if otherID != id && other.String(field) == value {
			return docstore.ErrConflict
		}
	}
	return nil
}

func matches(doc docstore.Document, filter docstore.Filter) bool {
	for k, want := range filter {
		if !reflect.DeepEqual(doc[k], want) {
			return false
		}
	}
	return true
}

func withID(d docstore.Document, id string) docstore.Document {
	out := d.Clone()
	out[docstore.FieldID] = id
	return out
}
