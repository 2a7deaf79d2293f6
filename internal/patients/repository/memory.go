package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/careconnect/careconnect/server/internal/patients"
)

// MemoryRepo is a simple in-memory repository used when no MongoDB is
// configured and by unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*patients.Patient // keyed by userId
	seq   int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*patients.Patient)}
}

func (m *MemoryRepo) Create(ctx context.Context, p *patients.Patient) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		m.seq++
		p.ID = fmt.Sprintf("patient_%d", m.seq)
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	m.store[p.UserID] = p
	return p.ID, nil
}

func (m *MemoryRepo) GetByUserID(ctx context.Context, userID string) (*patients.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, okPat := m.store[userID]; okPat {
		return p, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) List(ctx context.Context) ([]*patients.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*patients.Patient, 0, len(m.store))
	for _, p := range m.store {
		out = append(out, p)
	}
	return out, nil
}
