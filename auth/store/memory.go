package store

import (
	"context"
	"sync"
)

// MemorySink keeps the last saved record in memory.
type MemorySink struct {
	mu     sync.RWMutex
	record *Record
	saves  int
}

func (m *MemorySink) Save(ctx context.Context, bearer, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.record == nil {
		m.record = &Record{}
	}
	m.record.merge(bearer, refresh)
	m.saves++
	return nil
}

func (m *MemorySink) Load(ctx context.Context) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.record == nil {
		return nil, nil
	}
	ret := *m.record
	return &ret, nil
}

// Saves returns how many times Save was called.
func (m *MemorySink) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// NewMemorySink creates a sink, optionally seeded with record.
func NewMemorySink(record *Record) *MemorySink {
	ret := &MemorySink{}
	if record != nil {
		seed := *record
		ret.record = &seed
	}
	return ret
}
