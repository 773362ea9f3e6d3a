package state

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps everything in process. It backs --ephemeral runs and
// tests.
type MemoryStore struct {
	mu       sync.Mutex
	settings map[string]string
	runs     []RunRecord
	writes   []string
}

func NewMemory() *MemoryStore {
	return &MemoryStore{settings: map[string]string{}}
}

func (m *MemoryStore) EnsureSchema(context.Context) error { return nil }

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.settings[strings.TrimSpace(key)]
	return v, ok, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	return m.SaveSettings(ctx, map[string]string{key: value})
}

func (m *MemoryStore) SaveSettings(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		m.settings[k] = v
		m.writes = append(m.writes, k+"="+v)
	}
	return nil
}

func (m *MemoryStore) LoadSettings(context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.settings))
	for k, v := range m.settings {
		out[k] = v
	}
	return out, nil
}

// Writes lists every key=value write in order.
func (m *MemoryStore) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.writes...)
}

func (m *MemoryStore) RecordRun(_ context.Context, rec RunRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.StartTS.IsZero() {
		rec.StartTS = time.Now().UTC()
	}
	rec.ID = int64(len(m.runs) + 1)
	m.runs = append(m.runs, rec)
	return rec.ID, nil
}

func (m *MemoryStore) GetSummary(context.Context) (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out Summary
	langs := map[string]bool{}
	for _, r := range m.runs {
		out.Runs++
		switch r.Outcome {
		case OutcomeSucceeded:
			out.Succeeded++
		case OutcomeFailed:
			out.Failed++
		}
		langs[r.LanguageID] = true
	}
	out.Languages = len(langs)
	return out, nil
}

func (m *MemoryStore) RecentRuns(_ context.Context, limit int) ([]RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 10
	}
	out := make([]RunRecord, 0, min(limit, len(m.runs)))
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
