package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryBackend keeps every collection in process memory. Documents are held
// in their BSON encoding so filters see the same field names and value types as
// the Mongo backend. Used for local development and tests.
type MemoryBackend struct {
	mu     sync.Mutex
	tables map[string]*memTable
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{tables: make(map[string]*memTable)}
}

// Driver implements Backend.
func (b *MemoryBackend) Driver() string { return "memory" }

func (b *MemoryBackend) table(name string) *memTable {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tables[name]
	if !ok {
		t = &memTable{name: name, docs: make(map[string]bson.Raw)}
		b.tables[name] = t
	}
	return t
}

type memTable struct {
	name  string
	mu    sync.RWMutex
	docs  map[string]bson.Raw
	order []string
}

type memoryCollection[T any] struct {
	t *memTable
}

func newMemoryCollection[T any](t *memTable) *memoryCollection[T] {
	return &memoryCollection[T]{t: t}
}

func (c *memoryCollection[T]) Name() string { return c.t.name }

func (c *memoryCollection[T]) Get(ctx context.Context, id string) (T, error) {
	var doc T
	if err := ctx.Err(); err != nil {
		return doc, err
	}

	c.t.mu.RLock()
	raw, ok := c.t.docs[id]
	c.t.mu.RUnlock()
	if !ok {
		return doc, ErrNotFound
	}
	err := bson.Unmarshal(raw, &doc)
	return doc, err
}

func (c *memoryCollection[T]) Find(ctx context.Context, q Query) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type entry struct {
		raw bson.Raw
		doc bson.M
	}

	c.t.mu.RLock()
	matched := make([]entry, 0, len(c.t.order))
	for _, id := range c.t.order {
		raw := c.t.docs[id]
		var m bson.M
		if err := bson.Unmarshal(raw, &m); err != nil {
			c.t.mu.RUnlock()
			return nil, fmt.Errorf("decode %s/%s: %w", c.t.name, id, err)
		}
		if matches(m, q.Filters) {
			matched = append(matched, entry{raw: raw, doc: m})
		}
	}
	c.t.mu.RUnlock()

	if q.SortBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			cmp := compareForSort(matched[i].doc[q.SortBy], matched[j].doc[q.SortBy])
			if q.SortDesc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if q.Offset > 0 {
		if q.Offset >= int64(len(matched)) {
			matched = matched[:0]
		} else {
			matched = matched[q.Offset:]
		}
	}
	if q.Max > 0 && int64(len(matched)) > q.Max {
		matched = matched[:q.Max]
	}

	docs := make([]T, 0, len(matched))
	for _, e := range matched {
		var doc T
		if err := bson.Unmarshal(e.raw, &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *memoryCollection[T]) Count(ctx context.Context, q Query) (int64, error) {
	q.Max, q.Offset, q.SortBy = 0, 0, ""
	docs, err := c.Find(ctx, q)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

func (c *memoryCollection[T]) Insert(ctx context.Context, doc T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, id, err := encodeWithID(doc)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", c.t.name, err)
	}

	c.t.mu.Lock()
	defer c.t.mu.Unlock()
	if _, exists := c.t.docs[id]; exists {
		return ErrDuplicate
	}
	c.t.docs[id] = raw
	c.t.order = append(c.t.order, id)
	return nil
}

func (c *memoryCollection[T]) Replace(ctx context.Context, id string, doc T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, docID, err := encodeWithID(doc)
	if err != nil {
		return fmt.Errorf("replace in %s: %w", c.t.name, err)
	}
	if docID != id {
		return fmt.Errorf("replace in %s: document id %q does not match %q", c.t.name, docID, id)
	}

	c.t.mu.Lock()
	defer c.t.mu.Unlock()
	if _, exists := c.t.docs[id]; !exists {
		return ErrNotFound
	}
	c.t.docs[id] = raw
	return nil
}

func (c *memoryCollection[T]) Update(ctx context.Context, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.t.mu.Lock()
	defer c.t.mu.Unlock()

	raw, ok := c.t.docs[id]
	if !ok {
		return ErrNotFound
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return err
	}
	for k, v := range fields {
		m[k] = normalize(v)
	}
	updated, err := bson.Marshal(m)
	if err != nil {
		return err
	}
	c.t.docs[id] = updated
	return nil
}

func (c *memoryCollection[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.t.mu.Lock()
	defer c.t.mu.Unlock()

	if _, ok := c.t.docs[id]; !ok {
		return ErrNotFound
	}
	delete(c.t.docs, id)
	for i, existing := range c.t.order {
		if existing == id {
			c.t.order = append(c.t.order[:i], c.t.order[i+1:]...)
			break
		}
	}
	return nil
}

func encodeWithID(doc any) (bson.Raw, string, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, "", err
	}
	id, ok := bson.Raw(raw).Lookup("_id").StringValueOK()
	if !ok || id == "" {
		return nil, "", fmt.Errorf("document has no string _id")
	}
	return raw, id, nil
}

// normalize round-trips v through BSON so it compares like a decoded field.
func normalize(v any) any {
	raw, err := bson.Marshal(bson.M{"v": v})
	if err != nil {
		return v
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out["v"]
}

func matches(doc bson.M, filters []Filter) bool {
	for _, f := range filters {
		got, present := doc[f.Field]
		want := normalize(f.Value)

		switch f.Op {
		case OpEq:
			if !matchEq(got, present, want) {
				return false
			}
		case OpIn:
			list, ok := want.(primitive.A)
			if !ok {
				return false
			}
			hit := false
			for _, candidate := range list {
				if matchEq(got, present, candidate) {
					hit = true
					break
				}
			}
			if !hit {
				return false
			}
		default:
			if !present {
				return false
			}
			cmp, ok := compare(got, want)
			if !ok {
				return false
			}
			switch f.Op {
			case OpGt:
				if cmp <= 0 {
					return false
				}
			case OpGte:
				if cmp < 0 {
					return false
				}
			case OpLt:
				if cmp >= 0 {
					return false
				}
			case OpLte:
				if cmp > 0 {
					return false
				}
			default:
				return false
			}
		}
	}
	return true
}

// matchEq follows document-store equality: a missing field equals null and an
// array field equals any of its elements.
func matchEq(got any, present bool, want any) bool {
	if !present {
		return want == nil
	}
	if arr, ok := got.(primitive.A); ok {
		if wantArr, ok := want.(primitive.A); ok {
			return reflect.DeepEqual(arr, wantArr)
		}
		for _, el := range arr {
			if equal(el, want) {
				return true
			}
		}
		return false
	}
	return equal(got, want)
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if cmp, ok := compare(a, b); ok {
		return cmp == 0
	}
	return reflect.DeepEqual(a, b)
}

func compare(a, b any) (int, bool) {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case primitive.DateTime:
		bv, ok := b.(primitive.DateTime)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		}
		return 0, true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

// compareForSort orders nulls and missing fields first, like an ascending Mongo sort.
func compareForSort(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	cmp, _ := compare(a, b)
	return cmp
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
