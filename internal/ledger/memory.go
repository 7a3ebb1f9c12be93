package ledger

import (
	"context"
	"sync"

	"github.com/sbenjam1n/rescuegen/internal/world"
)

// Memory is an in-process ledger that lives for one run.
type Memory struct {
	mu      sync.Mutex
	seen    map[world.Fingerprint]struct{}
	entries []Entry
}

// NewMemory creates an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{seen: make(map[world.Fingerprint]struct{})}
}

func (m *Memory) Seen(_ context.Context, fp world.Fingerprint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.seen[fp]
	return ok, nil
}

func (m *Memory) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seen[e.Fingerprint]; ok {
		return ErrDuplicate
	}
	m.seen[e.Fingerprint] = struct{}{}
	m.entries = append(m.entries, e)
	return nil
}

func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seen), nil
}

// Entries returns recorded entries in acceptance order.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *Memory) Close() error { return nil }
