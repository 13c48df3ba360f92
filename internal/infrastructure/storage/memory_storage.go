package storage

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// MemoryStorage keeps objects in memory. It backs report archiving in tests
// and local runs without S3.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	baseURL string
	expiry  time.Duration
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryStorage creates an empty store whose download URLs start with baseURL
func NewMemoryStorage(baseURL string) *MemoryStorage {
	return &MemoryStorage{
		objects: make(map[string]memoryObject),
		baseURL: baseURL,
		expiry:  15 * time.Minute,
	}
}

// Put stores a copy of data
func (m *MemoryStorage) Put(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

// PresignGet returns a fake download URL for a stored key
func (m *MemoryStorage) PresignGet(_ context.Context, key string) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	expires := time.Now().Add(m.expiry)
	return m.baseURL + "/" + url.PathEscape(key) + "?expires=" + expires.UTC().Format(time.RFC3339), expires, nil
}

// Delete removes key
func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Get returns the stored bytes and content type
func (m *MemoryStorage) Get(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, "", false
	}
	return obj.data, obj.contentType, true
}
