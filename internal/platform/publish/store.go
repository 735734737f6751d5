// Package publish writes rendered OpenAPI documents to object storage so
// they can be served from a CDN or consumed by client generators.
package publish

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrObjectNotFound is returned when a key does not exist in the store.
var ErrObjectNotFound = errors.New("object not found")

// Object is a stored blob and its metadata.
type Object struct {
	Key          string
	ContentType  string
	CacheControl string
	Data         []byte
	UpdatedAt    time.Time
}

// PutOptions carries optional object headers.
type PutOptions struct {
	ContentType  string
	CacheControl string
}

// Store is the object storage the publisher writes to.
type Store interface {
	Put(ctx context.Context, key string, data []byte, opts PutOptions) error
	Get(ctx context.Context, key string) (*Object, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// MemoryStore is an in-process Store for tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]*Object
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]*Object)}
}

func (m *MemoryStore) Put(_ context.Context, key string, data []byte, opts PutOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = &Object{
		Key:          key,
		ContentType:  opts.ContentType,
		CacheControl: opts.CacheControl,
		Data:         append([]byte(nil), data...),
		UpdatedAt:    time.Now().UTC(),
	}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string) (*Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	cp := *obj
	return &cp, nil
}

func (m *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
