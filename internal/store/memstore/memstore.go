// Package memstore keeps lessons in memory.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hyperifyio/tinyteacher/internal/lesson"
	"github.com/hyperifyio/tinyteacher/internal/store"
)

type memStore struct {
	mu      sync.RWMutex
	lessons map[string]lesson.Lesson
}

// New returns an empty in-memory store.
func New() store.Store {
	return &memStore{lessons: make(map[string]lesson.Lesson)}
}

func (m *memStore) Add(_ context.Context, l lesson.Lesson) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lessons[l.ID]; ok {
		return fmt.Errorf("add lesson %s: duplicate id", l.ID)
	}
	m.lessons[l.ID] = l
	return nil
}

func (m *memStore) List(_ context.Context) ([]lesson.Lesson, error) {
	m.mu.RLock()
	out := make([]lesson.Lesson, 0, len(m.lessons))
	for _, l := range m.lessons {
		out = append(out, l)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (lesson.Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.lessons[id]
	if !ok {
		return lesson.Lesson{}, store.ErrNotFound
	}
	return l, nil
}

func (m *memStore) Update(_ context.Context, l lesson.Lesson) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lessons[l.ID]; !ok {
		return store.ErrNotFound
	}
	m.lessons[l.ID] = l
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lessons[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.lessons, id)
	return nil
}

func (m *memStore) Close() error { return nil }
