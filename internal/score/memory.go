package score

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is an in-process Store for tests and storeless development runs.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Insert(_ context.Context, name string, score int) error {
	if score <= 0 {
		return nil
	}
	if name == "" {
		name = "Anonymous"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Name: name, Score: score, Date: time.Now()})
	return nil
}

func (m *Memory) Top(_ context.Context, n int64) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := append([]Entry(nil), m.entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if int64(len(out)) > n {
		out = out[:n]
	}
	return out, nil
}
