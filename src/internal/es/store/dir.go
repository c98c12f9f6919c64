// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package esstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DirContainer serves entries from an extracted save image on disk. An entry
// path such as "/certificate/CA00000003" maps to the file of the same relative
// path under the root directory.
type DirContainer struct {
	root string
}

// NewDirContainer creates a container rooted at dir. The directory is not
// touched until Open.
func NewDirContainer(dir string) *DirContainer {
	return &DirContainer{root: dir}
}

// Open verifies that the root exists and is a directory.
func (d *DirContainer) Open() error {
	info, err := os.Stat(d.root)
	if err != nil {
		return fmt.Errorf("esstore: failed to open save directory %q: %w", d.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("esstore: save path %q is not a directory", d.root)
	}
	return nil
}

// Close releases nothing; directory containers hold no descriptors between
// reads.
func (d *DirContainer) Close() error { return nil }

// Lookup stats the file backing path. The declared entry size is the file
// size at lookup time.
func (d *DirContainer) Lookup(path string) (Entry, error) {
	filePath, err := d.entryPath(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("esstore: failed to stat entry %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, ErrEntryNotFound
	}

	return &dirEntry{path: filePath, size: info.Size()}, nil
}

// entryPath maps an entry path onto the filesystem and rejects anything that
// escapes the root.
func (d *DirContainer) entryPath(path string) (string, error) {
	rel := filepath.FromSlash(strings.TrimPrefix(path, "/"))
	full := filepath.Clean(filepath.Join(d.root, rel))

	if full != d.root && !strings.HasPrefix(full, d.root+string(filepath.Separator)) {
		return "", fmt.Errorf("esstore: entry path %q escapes the save directory", path)
	}

	return full, nil
}

// dirEntry reads a file lazily; each ReadAt opens and closes the file so the
// container never pins descriptors. A file truncated after Lookup surfaces as
// a short read against the size declared at lookup time.
type dirEntry struct {
	path string
	size int64
}

func (e *dirEntry) Size() int64 { return e.size }

func (e *dirEntry) ReadAt(p []byte, off int64) (int, error) {
	f, err := os.Open(e.path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := f.ReadAt(p, off)
	if err == io.EOF && n == len(p) {
		err = nil
	}
	return n, err
}
