package docstore

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type memoryStore struct {
	database string

	mu          sync.Mutex
	collections map[string]*memoryCollection
}

// NewMemory returns a process-local store. Data is lost on exit.
func NewMemory(database string) Store {
	return &memoryStore{
		database:    database,
		collections: make(map[string]*memoryCollection),
	}
}

func (s *memoryStore) Driver() string   { return DriverMemory }
func (s *memoryStore) Database() string { return s.database }

func (s *memoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *memoryStore) Close(context.Context) error {
	return nil
}

func (s *memoryStore) EnsureUnique(_ context.Context, collection, field string) error {
	if err := validField(field); err != nil {
		return err
	}
	c := s.get(collection)
	c.mu.Lock()
	c.unique[field] = struct{}{}
	c.mu.Unlock()
	return nil
}

func (s *memoryStore) rawCollection(name string) rawCollection {
	return s.get(name)
}

func (s *memoryStore) get(name string) *memoryCollection {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{
			docs:   make(map[string]bson.Raw),
			unique: make(map[string]struct{}),
		}
		s.collections[name] = c
	}
	return c
}

type memoryCollection struct {
	mu     sync.RWMutex
	order  []string
	docs   map[string]bson.Raw
	unique map[string]struct{}
}

func (c *memoryCollection) findAll(ctx context.Context) ([]bson.Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]bson.Raw, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, clone(c.docs[id]))
	}
	return out, nil
}

func (c *memoryCollection) findOne(ctx context.Context, field string, value string) (bson.Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	if field == "_id" {
		doc, ok := c.docs[value]
		if !ok {
			return nil, ErrNotFound
		}
		return clone(doc), nil
	}

	for _, id := range c.order {
		if fieldEquals(c.docs[id], field, value) {
			return clone(c.docs[id]), nil
		}
	}
	return nil, ErrNotFound
}

func (c *memoryCollection) insert(ctx context.Context, id string, doc bson.Raw) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.docs[id]; exists {
		return ErrDuplicate
	}
	if c.violatesUnique("", doc) {
		return ErrDuplicate
	}
	c.docs[id] = clone(doc)
	c.order = append(c.order, id)
	return nil
}

func (c *memoryCollection) replace(ctx context.Context, id string, doc bson.Raw) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.docs[id]; !exists {
		return ErrNotFound
	}
	if c.violatesUnique(id, doc) {
		return ErrDuplicate
	}
	c.docs[id] = clone(doc)
	return nil
}

func (c *memoryCollection) delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.docs[id]; !exists {
		return ErrNotFound
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// violatesUnique must be called with c.mu held. skipID is the document being replaced.
func (c *memoryCollection) violatesUnique(skipID string, doc bson.Raw) bool {
	for field := range c.unique {
		value, ok := doc.Lookup(field).StringValueOK()
		if !ok {
			continue
		}
		for id, existing := range c.docs {
			if id != skipID && fieldEquals(existing, field, value) {
				return true
			}
		}
	}
	return false
}

func fieldEquals(doc bson.Raw, field, value string) bool {
	got, ok := doc.Lookup(field).StringValueOK()
	return ok && got == value
}

func clone(doc bson.Raw) bson.Raw {
	return append(bson.Raw(nil), doc...)
}
