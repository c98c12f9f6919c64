// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gamecard

import (
	"fmt"

	escerts "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/certs"
	"github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/helper/gc"
)

// rawChainSuffix is appended to the rendered rights identifier to form the
// partition entry name of a pre-built raw chain.
const rawChainSuffix = ".cert"

// ChainSource serves pre-built raw certificate chains out of a secure
// partition. It is the shortcut path for titles whose chain was written to
// the gamecard at mastering time, bypassing per-certificate resolution.
type ChainSource struct {
	partition *Partition
}

// NewChainSource returns a ChainSource reading from the given partition.
func NewChainSource(partition *Partition) *ChainSource {
	return &ChainSource{partition: partition}
}

// RawChainByRightsID looks up the raw chain entry named after the rights
// identifier and returns its bytes. The entry holds an already concatenated
// chain, so only the single-certificate lower size bound applies; there is
// no upper bound on this path. The declared size is validated before any
// data is read, and a short read discards the partially filled buffer.
//
// Parameters:
//   - id: Rights identifier of the title the chain belongs to
//
// Returns:
//   - []byte: Raw chain bytes, exactly the declared entry size
//   - error: ErrEntryNotFound when the partition has no such entry, a
//     size error when the entry is smaller than one signed certificate,
//     ErrShortRead when the partition delivers fewer bytes than declared
//
// Thread Safety: Safe for concurrent use as long as the partition reader
// supports concurrent reads.
func (s *ChainSource) RawChainByRightsID(id RightsID) ([]byte, error) {
	name := id.String() + rawChainSuffix

	entry, err := s.partition.EntryByName(name)
	if err != nil {
		return nil, fmt.Errorf("raw chain %q: %w", name, err)
	}

	if entry.Size < escerts.SignedCertMinSize {
		return nil, fmt.Errorf("raw chain %q declares %#x bytes: %w", name, entry.Size, escerts.ErrSizeOutOfRange)
	}

	reader, err := s.partition.EntryReader(entry)
	if err != nil {
		return nil, fmt.Errorf("raw chain %q: %w", name, err)
	}

	// Get a buffer from the pool
	buf := gc.Default.Get()

	defer func() {
		buf.Reset()         // Reset the buffer to prevent data leaks
		gc.Default.Put(buf) // Return the buffer to the pool for reuse
	}()

	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, fmt.Errorf("raw chain %q: %w: %v", name, ErrShortRead, err)
	}
	if uint64(len(buf.Bytes())) < entry.Size {
		return nil, fmt.Errorf("raw chain %q: %w", name, ErrShortRead)
	}

	data := append([]byte(nil), buf.Bytes()...)
	return data, nil
}
