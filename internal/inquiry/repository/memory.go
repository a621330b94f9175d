package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/halcyonmedia/site-services/internal/inquiry"
)

var (
	ErrNotFound = errors.New("inquiry not found")
)

// Repository stores accepted inquiries.
type Repository interface {
	Create(ctx context.Context, in *inquiry.Inquiry) error
	MarkForwarded(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*inquiry.Inquiry, error)
	// List returns inquiries newest first.
	List(ctx context.Context) ([]*inquiry.Inquiry, error)
}

// MemoryRepo keeps inquiries in process memory. Used when MongoDB is not
// configured and in tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*inquiry.Inquiry
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*inquiry.Inquiry)}
}

func (m *MemoryRepo) Create(_ context.Context, in *inquiry.Inquiry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *in
	m.store[in.ID] = &cp
	return nil
}

func (m *MemoryRepo) MarkForwarded(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	in.Forwarded = true
	return nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*inquiry.Inquiry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if in, ok := m.store[id]; ok {
		cp := *in
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) List(_ context.Context) ([]*inquiry.Inquiry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*inquiry.Inquiry, 0, len(m.store))
	for _, in := range m.store {
		cp := *in
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
