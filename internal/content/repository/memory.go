package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/halcyonmedia/site-services/internal/content"
)

// MemoryRepo holds imported feed items in memory.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]content.FeedItem
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]content.FeedItem)}
}

// Upsert stores items by ID and returns how many were new.
func (m *MemoryRepo) Upsert(_ context.Context, items []content.FeedItem) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	added := 0
	for _, it := range items {
		if _, ok := m.items[it.ID]; !ok {
			added++
		}
		m.items[it.ID] = it
	}
	return added, nil
}

// List returns items of type t, or all items when t is empty, newest first.
func (m *MemoryRepo) List(_ context.Context, t content.FeedType) ([]content.FeedItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]content.FeedItem, 0, len(m.items))
	for _, it := range m.items {
		if t != "" && it.Type != t {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}
