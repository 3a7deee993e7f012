package store

import (
	"context"
	"sync"

	"github.com/captiveportal/portal-cms/internal/content"
)

// MemoryStore keeps the document in process memory. Used for tests and for
// ephemeral deployments; a restart loses all content.
type MemoryStore struct {
	mu  sync.RWMutex
	doc *content.Document
	// FailSave makes Save return this error without touching the stored value.
	FailSave error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (*content.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.doc == nil {
		return content.Default(), nil
	}
	return content.Clone(m.doc), nil
}

func (m *MemoryStore) Save(ctx context.Context, doc *content.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	stamp(doc)
	m.doc = content.Clone(doc)
	return nil
}
