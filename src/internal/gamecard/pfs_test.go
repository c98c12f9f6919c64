// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gamecard_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/gamecard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// imageEntry describes one file to place into a synthetic partition image.
type imageEntry struct {
	name string
	data []byte
}

// buildPartitionImage assembles a minimal partition image: header, entry
// records, name table, then the entry data laid out contiguously.
func buildPartitionImage(entries []imageEntry) []byte {
	var nameTable []byte
	nameOffsets := make([]uint32, len(entries))
	for i, entry := range entries {
		nameOffsets[i] = uint32(len(nameTable))
		nameTable = append(nameTable, entry.name...)
		nameTable = append(nameTable, 0)
	}

	img := make([]byte, 0x10)
	copy(img, "PFS0")
	binary.LittleEndian.PutUint32(img[4:], uint32(len(entries)))
	binary.LittleEndian.PutUint32(img[8:], uint32(len(nameTable)))

	var offset uint64
	for i, entry := range entries {
		record := make([]byte, 0x18)
		binary.LittleEndian.PutUint64(record, offset)
		binary.LittleEndian.PutUint64(record[8:], uint64(len(entry.data)))
		binary.LittleEndian.PutUint32(record[16:], nameOffsets[i])
		img = append(img, record...)
		offset += uint64(len(entry.data))
	}

	img = append(img, nameTable...)
	for _, entry := range entries {
		img = append(img, entry.data...)
	}
	return img
}

func TestOpenPartition(t *testing.T) {
	img := buildPartitionImage([]imageEntry{
		{name: "first.bin", data: bytes.Repeat([]byte{0x11}, 0x40)},
		{name: "second.bin", data: bytes.Repeat([]byte{0x22}, 0x20)},
	})

	t.Run("Parses Entries", func(t *testing.T) {
		partition, err := gamecard.OpenPartition(bytes.NewReader(img), int64(len(img)))
		require.NoError(t, err)

		entries := partition.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "first.bin", entries[0].Name)
		assert.Equal(t, uint64(0), entries[0].Offset)
		assert.Equal(t, uint64(0x40), entries[0].Size)
		assert.Equal(t, "second.bin", entries[1].Name)
		assert.Equal(t, uint64(0x40), entries[1].Offset)
		assert.Equal(t, uint64(0x20), entries[1].Size)
	})

	t.Run("Entry Lookup", func(t *testing.T) {
		partition, err := gamecard.OpenPartition(bytes.NewReader(img), int64(len(img)))
		require.NoError(t, err)

		entry, err := partition.EntryByName("second.bin")
		require.NoError(t, err)
		assert.Equal(t, uint64(0x20), entry.Size)

		_, err = partition.EntryByName("missing.bin")
		assert.ErrorIs(t, err, gamecard.ErrEntryNotFound)
	})

	t.Run("Truncated Header", func(t *testing.T) {
		_, err := gamecard.OpenPartition(bytes.NewReader(img[:8]), 8)
		assert.ErrorIs(t, err, gamecard.ErrInvalidPartition)
	})

	t.Run("Bad Magic", func(t *testing.T) {
		bad := append([]byte(nil), img...)
		copy(bad, "HFS0")

		_, err := gamecard.OpenPartition(bytes.NewReader(bad), int64(len(bad)))
		assert.ErrorIs(t, err, gamecard.ErrInvalidPartition)
	})

	t.Run("Zero Entry Count", func(t *testing.T) {
		bad := append([]byte(nil), img...)
		binary.LittleEndian.PutUint32(bad[4:], 0)

		_, err := gamecard.OpenPartition(bytes.NewReader(bad), int64(len(bad)))
		assert.ErrorIs(t, err, gamecard.ErrInvalidPartition)
	})

	t.Run("Zero Name Table", func(t *testing.T) {
		bad := append([]byte(nil), img...)
		binary.LittleEndian.PutUint32(bad[8:], 0)

		_, err := gamecard.OpenPartition(bytes.NewReader(bad), int64(len(bad)))
		assert.ErrorIs(t, err, gamecard.ErrInvalidPartition)
	})

	t.Run("Header Exceeds Image", func(t *testing.T) {
		bad := append([]byte(nil), img...)
		binary.LittleEndian.PutUint32(bad[4:], 0xFFFFFF)

		_, err := gamecard.OpenPartition(bytes.NewReader(bad), int64(len(bad)))
		assert.ErrorIs(t, err, gamecard.ErrInvalidPartition)
	})

	t.Run("Name Offset Outside Table", func(t *testing.T) {
		bad := append([]byte(nil), img...)
		binary.LittleEndian.PutUint32(bad[0x10+16:], 0x4000)

		_, err := gamecard.OpenPartition(bytes.NewReader(bad), int64(len(bad)))
		assert.ErrorIs(t, err, gamecard.ErrInvalidPartition)
	})

	t.Run("Unterminated Name", func(t *testing.T) {
		// One entry whose 4-byte name table carries no NUL at all.
		bad := make([]byte, 0x10+0x18+4)
		copy(bad, "PFS0")
		binary.LittleEndian.PutUint32(bad[4:], 1)
		binary.LittleEndian.PutUint32(bad[8:], 4)
		copy(bad[0x10+0x18:], "cert")

		_, err := gamecard.OpenPartition(bytes.NewReader(bad), int64(len(bad)))
		assert.ErrorIs(t, err, gamecard.ErrInvalidPartition)
	})
}

func TestReadEntry(t *testing.T) {
	first := make([]byte, 0x40)
	for i := range first {
		first[i] = byte(i)
	}
	second := bytes.Repeat([]byte{0x22}, 0x20)
	img := buildPartitionImage([]imageEntry{
		{name: "first.bin", data: first},
		{name: "second.bin", data: second},
	})

	partition, err := gamecard.OpenPartition(bytes.NewReader(img), int64(len(img)))
	require.NoError(t, err)

	t.Run("Full Read", func(t *testing.T) {
		entry, err := partition.EntryByName("second.bin")
		require.NoError(t, err)

		got := make([]byte, entry.Size)
		require.NoError(t, partition.ReadEntry(entry, got, 0))
		assert.Equal(t, second, got)
	})

	t.Run("Offset Read", func(t *testing.T) {
		entry, err := partition.EntryByName("first.bin")
		require.NoError(t, err)

		got := make([]byte, 0x10)
		require.NoError(t, partition.ReadEntry(entry, got, 0x30))
		assert.Equal(t, first[0x30:], got)
	})

	t.Run("Range Outside Entry", func(t *testing.T) {
		entry, err := partition.EntryByName("second.bin")
		require.NoError(t, err)

		buf := make([]byte, 0x10)
		assert.ErrorIs(t, partition.ReadEntry(entry, buf, -1), gamecard.ErrReadOutOfBounds)
		assert.ErrorIs(t, partition.ReadEntry(entry, buf, 0x30), gamecard.ErrReadOutOfBounds)
		assert.ErrorIs(t, partition.ReadEntry(entry, buf, 0x18), gamecard.ErrReadOutOfBounds)
	})

	t.Run("Entry Outside Data Region", func(t *testing.T) {
		rogue := gamecard.Entry{Name: "rogue", Offset: 0x4000, Size: 0x10}
		err := partition.ReadEntry(rogue, make([]byte, 0x10), 0)
		assert.ErrorIs(t, err, gamecard.ErrReadOutOfBounds)
	})

	t.Run("Short Delivery", func(t *testing.T) {
		// Reader ends before the data the tables promise.
		truncated, err := gamecard.OpenPartition(bytes.NewReader(img[:len(img)-0x10]), int64(len(img)))
		require.NoError(t, err)

		entry, err := truncated.EntryByName("second.bin")
		require.NoError(t, err)

		err = truncated.ReadEntry(entry, make([]byte, entry.Size), 0)
		assert.ErrorIs(t, err, gamecard.ErrShortRead)
	})
}

func TestEntryReader(t *testing.T) {
	payload := bytes.Repeat([]byte{0x33}, 0x50)
	img := buildPartitionImage([]imageEntry{{name: "only.bin", data: payload}})

	partition, err := gamecard.OpenPartition(bytes.NewReader(img), int64(len(img)))
	require.NoError(t, err)

	entry, err := partition.EntryByName("only.bin")
	require.NoError(t, err)

	reader, err := partition.EntryReader(entry)
	require.NoError(t, err)

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	_, err = partition.EntryReader(gamecard.Entry{Name: "rogue", Offset: 0x4000, Size: 1})
	assert.ErrorIs(t, err, gamecard.ErrReadOutOfBounds)
}
