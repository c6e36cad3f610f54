package storage

import (
	"context"
	"sync"
	"time"

	"github.com/provek/interview-sim/internal/entity"
)

// MemoryStore keeps snapshots in process memory. Used in tests and when no
// persistence is wanted.
type MemoryStore struct {
	mu      sync.RWMutex
	current map[string][]byte
	backup  map[string][]byte
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		current: make(map[string][]byte),
		backup:  make(map[string][]byte),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(ctx context.Context, session *entity.Session) error {
	data, err := encodeSnapshot(session, s.now())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.current[session.ID]; ok {
		s.backup[session.ID] = prev
	}
	s.current[session.ID] = data
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*entity.Session, error) {
	s.mu.RLock()
	data, ok := s.current[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return decodeSnapshot(data), nil
}

func (s *MemoryStore) LoadBackup(ctx context.Context, id string) (*entity.Session, error) {
	s.mu.RLock()
	data, ok := s.backup[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return decodeSnapshot(data), nil
}

func (s *MemoryStore) Clear(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.current, id)
	delete(s.backup, id)
	return nil
}

func (s *MemoryStore) Has(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.current[id]
	return ok, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
