// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package history implements bounded linear undo/redo over surface
// snapshots.
package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/gg-paint/surface"
)

// DefaultMax is the default number of retained entries.
const DefaultMax = 50

// Manager is a bounded list of snapshots with a cursor at the displayed
// entry.
//
// Invariants: 0 <= Step() < Len() whenever Len() > 0, and Len() <= Max().
// Saving while Step() is not the newest entry discards the redo branch.
// When the cap is exceeded the oldest entry is evicted and the cursor moves
// with it, so it keeps pointing at the same logical entry.
type Manager struct {
	mu      sync.Mutex
	entries []surface.Snapshot
	step    int
	max     int
}

// New returns an empty Manager retaining at most max entries.
// If max < 1, DefaultMax is used.
func New(max int) *Manager {
	if max < 1 {
		max = DefaultMax
	}
	return &Manager{step: -1, max: max}
}

// Save appends a snapshot of s.
func (m *Manager) Save(s surface.Surface) error {
	snap, err := s.Snapshot()
	if err != nil {
		return fmt.Errorf("history: save: %w", err)
	}
	m.Push(snap)
	return nil
}

// Push appends an already encoded snapshot.
func (m *Manager) Push(snap surface.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.entries[m.step+1:])
	m.entries = append(m.entries[:m.step+1], snap)
	m.step++
	if len(m.entries) > m.max {
		m.entries[0] = surface.Snapshot{}
		m.entries = m.entries[1:]
		m.step--
	}
}

// Undo moves the cursor back one entry and restores s from it.
// It reports false without touching s when there is nothing to undo.
// If the restore fails the cursor is left where it was.
func (m *Manager) Undo(ctx context.Context, s surface.Surface) (bool, error) {
	return m.move(ctx, s, -1)
}

// Redo moves the cursor forward one entry and restores s from it.
// It reports false without touching s when already at the newest entry.
func (m *Manager) Redo(ctx context.Context, s surface.Surface) (bool, error) {
	return m.move(ctx, s, 1)
}

func (m *Manager) move(ctx context.Context, s surface.Surface, delta int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.step + delta
	if next < 0 || next >= len(m.entries) {
		return false, nil
	}
	if err := s.Restore(ctx, m.entries[next]); err != nil {
		return false, fmt.Errorf("history: restore entry %d: %w", next, err)
	}
	m.step = next
	return true, nil
}

// Current returns the snapshot at the cursor.
func (m *Manager) Current() (surface.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.step < 0 {
		return surface.Snapshot{}, false
	}
	return m.entries[m.step], true
}

// Len returns the number of entries.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Step returns the cursor position, or -1 when empty.
func (m *Manager) Step() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// Max returns the entry cap.
func (m *Manager) Max() int {
	return m.max
}

// CanUndo reports whether Undo would restore an entry.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step > 0
}

// CanRedo reports whether Redo would restore an entry.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step >= 0 && m.step < len(m.entries)-1
}

// Clear removes every entry.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.step = -1
}
