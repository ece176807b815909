package catalog

import (
	"sort"
	"sync"
)

// MemoryStore is a process-local catalog, used when no SQLite path is
// configured and as the test double. Safe for concurrent use.
type MemoryStore struct {
	mu  sync.RWMutex
	ins map[string]Instrument
}

// NewMemoryStore creates an empty in-memory catalog.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ins: make(map[string]Instrument)}
}

func (m *MemoryStore) Lookup(code string) (Instrument, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ins, ok := m.ins[code]
	return ins, ok
}

func (m *MemoryStore) Codes(group string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	codes := make([]string, 0, len(m.ins))
	for code, ins := range m.ins {
		if ins.Kind != KindStock || !IsElectronics(ins.Group) {
			continue
		}
		if group != "" && ins.Group != group {
			continue
		}
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ReplaceAll swaps the catalog contents for a freshly fetched registry.
func (m *MemoryStore) ReplaceAll(instruments []Instrument) error {
	next := make(map[string]Instrument, len(instruments))
	for _, ins := range instruments {
		next[ins.Code] = ins
	}
	m.mu.Lock()
	m.ins = next
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }
