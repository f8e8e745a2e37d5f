package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for tests and STORE_DRIVER=memory runs.
// It applies the same shallow-merge and version rules as PostgresStore.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
	now         func() time.Time
}

type memoryCollection struct {
	order []string
	docs  map[string]Document
}

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]*memoryCollection),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Put stores data under a caller-chosen id, replacing any existing document.
// Used to seed fixtures with known ids.
func (s *MemoryStore) Put(collection, id string, data json.RawMessage) Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collection(collection)
	now := s.now()
	doc, exists := col.docs[id]
	if !exists {
		col.order = append(col.order, id)
		doc = Document{ID: id, CreatedAt: now}
	}
	doc.Version++
	doc.Data = append(json.RawMessage(nil), data...)
	doc.UpdatedAt = now
	col.docs[id] = doc
	return doc
}

// Get retrieves a document by id.
func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[collection]
	if !ok {
		return Document{}, ErrNotFound
	}
	doc, ok := col.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return cloneDocument(doc), nil
}

// Create stores data under a new UUID.
func (s *MemoryStore) Create(_ context.Context, collection string, data json.RawMessage) (Document, error) {
	if !json.Valid(data) {
		return Document{}, fmt.Errorf("create %s document: invalid json", collection)
	}
	return cloneDocument(s.Put(collection, uuid.NewString(), data)), nil
}

// Merge overlays patch keys onto the stored object.
func (s *MemoryStore) Merge(_ context.Context, collection, id string, patch json.RawMessage, expectedVersion int64) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[collection]
	if !ok {
		return Document{}, ErrNotFound
	}
	doc, ok := col.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	if expectedVersion != AnyVersion && expectedVersion != doc.Version {
		return Document{}, ErrVersionConflict
	}

	merged, err := mergeObjects(doc.Data, patch)
	if err != nil {
		return Document{}, fmt.Errorf("merge %s document: %w", collection, err)
	}

	doc.Data = merged
	doc.Version++
	doc.UpdatedAt = s.now()
	col.docs[id] = doc
	return cloneDocument(doc), nil
}

// Delete removes a document.
func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[collection]
	if !ok {
		return ErrNotFound
	}
	if _, ok := col.docs[id]; !ok {
		return ErrNotFound
	}
	delete(col.docs, id)
	for i, existing := range col.order {
		if existing == id {
			col.order = append(col.order[:i], col.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns matching documents in insertion order.
func (s *MemoryStore) List(_ context.Context, collection string, filters ...Filter) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[collection]
	if !ok {
		return nil, nil
	}

	wanted := make(map[string]any, len(filters))
	for _, f := range filters {
		v, err := normalize(f.Value)
		if err != nil {
			return nil, fmt.Errorf("encode %s filter %q: %w", collection, f.Field, err)
		}
		wanted[f.Field] = v
	}

	var results []Document
	for _, id := range col.order {
		doc := col.docs[id]
		match, err := matches(doc.Data, wanted)
		if err != nil {
			return nil, fmt.Errorf("decode %s document %s: %w", collection, id, err)
		}
		if match {
			results = append(results, cloneDocument(doc))
		}
	}
	return results, nil
}

func (s *MemoryStore) collection(name string) *memoryCollection {
	col, ok := s.collections[name]
	if !ok {
		col = &memoryCollection{docs: make(map[string]Document)}
		s.collections[name] = col
	}
	return col
}

func mergeObjects(base, patch json.RawMessage) (json.RawMessage, error) {
	target := map[string]json.RawMessage{}
	if len(base) > 0 {
		if err := json.Unmarshal(base, &target); err != nil {
			return nil, err
		}
	}
	overlay := map[string]json.RawMessage{}
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return nil, err
	}
	for k, v := range overlay {
		target[k] = v
	}
	return json.Marshal(target)
}

func matches(data json.RawMessage, wanted map[string]any) (bool, error) {
	if len(wanted) == 0 {
		return true, nil
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return false, err
	}
	for field, want := range wanted {
		got, ok := obj[field]
		if !ok || !reflect.DeepEqual(got, want) {
			return false, nil
		}
	}
	return true, nil
}

// normalize round-trips v through JSON so typed values compare like decoded ones.
func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func cloneDocument(doc Document) Document {
	doc.Data = append(json.RawMessage(nil), doc.Data...)
	return doc
}
