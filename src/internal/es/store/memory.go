// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package esstore

import (
	"io"
	"sync"
)

// MemoryContainer is a map-backed container. It serves tests and the bundled
// demo store of the MCP server. Thread-safe using a read-write mutex.
type MemoryContainer struct {
	mu      sync.RWMutex
	entries map[string][]byte
	opens   int
}

// NewMemoryContainer creates an empty in-memory container.
func NewMemoryContainer() *MemoryContainer {
	return &MemoryContainer{entries: make(map[string][]byte)}
}

// Put stores a copy of data at path, overwriting any previous entry. Put works
// whether or not the container is open.
func (m *MemoryContainer) Put(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	m.entries[path] = buf
}

// Open marks the container open. Opens nest for accounting only; Lookup works
// after the first successful Open.
func (m *MemoryContainer) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.opens++
	return nil
}

// Close undoes one Open. Closing a closed container is a no-op.
func (m *MemoryContainer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.opens > 0 {
		m.opens--
	}
	return nil
}

// Lookup returns the entry stored at path.
func (m *MemoryContainer) Lookup(path string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.opens == 0 {
		return nil, ErrNotOpen
	}

	data, exists := m.entries[path]
	if !exists {
		return nil, ErrEntryNotFound
	}

	return &memoryEntry{data: data}, nil
}

// memoryEntry reads from an immutable byte slice. The container never mutates
// a stored slice in place (Put replaces it), so entries stay valid after
// container updates.
type memoryEntry struct {
	data []byte
}

func (e *memoryEntry) Size() int64 { return int64(len(e.data)) }

func (e *memoryEntry) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(e.data)) {
		return 0, io.EOF
	}

	n := copy(p, e.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
