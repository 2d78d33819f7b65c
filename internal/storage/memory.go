package storage

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process backing store with the same transactional contract
// as Postgres: RunInTx serializes callers and restores the previous state when
// fn fails. Stores built on it must only touch Tables from inside RunInTx.
type Memory struct {
	mu     sync.Mutex
	tables Tables

	faultMu sync.Mutex
	faults  map[string]error
}

func NewMemory(seed Tables) *Memory {
	return &Memory{tables: seed.Clone(), faults: make(map[string]error)}
}

// RunInTx executes fn with exclusive access and commits only when fn returns nil.
func (m *Memory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.tables.Clone()
	if err := fn(ctx); err != nil {
		m.tables = snapshot
		return err
	}
	return nil
}

// Tables returns the live dataset. Only valid inside RunInTx.
func (m *Memory) Tables() *Tables {
	return &m.tables
}

// Snapshot returns a copy of the committed dataset for assertions.
func (m *Memory) Snapshot() Tables {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tables.Clone()
}

// FailNext arms a one-shot failure: the next Fault(op) returns err.
func (m *Memory) FailNext(op string, err error) {
	m.faultMu.Lock()
	defer m.faultMu.Unlock()
	m.faults[op] = err
}

// Fault consumes an armed failure for op, if any. Stores call it at the top
// of each write so tests can break a transaction half way through.
func (m *Memory) Fault(op string) error {
	m.faultMu.Lock()
	defer m.faultMu.Unlock()
	err, ok := m.faults[op]
	if !ok {
		return nil
	}
	delete(m.faults, op)
	return err
}
