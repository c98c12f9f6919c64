// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package esstore

import (
	"errors"
	"fmt"
)

// BasePath is the path prefix of certificate entries inside the system save
// container.
const BasePath = "/certificate/"

var (
	// ErrNotOpen indicates that an operation requiring an open container was
	// attempted on a closed one.
	ErrNotOpen = errors.New("esstore: container is not open")

	// ErrEntryNotFound indicates that no entry exists at the requested path.
	ErrEntryNotFound = errors.New("esstore: entry not found")

	// ErrShortEntry indicates that an entry yielded fewer bytes than its
	// declared size.
	ErrShortEntry = errors.New("esstore: entry read returned fewer bytes than declared")
)

// Entry is a single readable entry inside a container. Implementations must
// tolerate concurrent ReadAt calls on one entry.
type Entry interface {
	// Size returns the declared entry size in bytes.
	Size() int64

	// ReadAt reads len(p) bytes from the entry starting at off. It follows
	// [io.ReaderAt] semantics; a read that cannot fill p returns the count
	// together with an error.
	ReadAt(p []byte, off int64) (int, error)
}

// Container is a source of certificate entries. Open must be called before
// Lookup; Close releases whatever Open acquired. Implementations decide
// whether Open and Close are cheap (in-memory) or expensive (save images).
type Container interface {
	// Open prepares the container for lookups.
	Open() error

	// Close releases the container. Closing a container that is not open
	// must be a no-op.
	Close() error

	// Lookup returns the entry stored at path, or ErrEntryNotFound.
	Lookup(path string) (Entry, error)
}

// ReadFull reads exactly entry.Size() bytes from the start of entry. A short
// read wraps ErrShortEntry; the partial buffer is never returned.
func ReadFull(entry Entry) ([]byte, error) {
	size := entry.Size()
	buf := make([]byte, size)

	n, err := entry.ReadAt(buf, 0)
	if int64(n) < size {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrShortEntry, err)
		}
		return nil, ErrShortEntry
	}

	return buf, nil
}
