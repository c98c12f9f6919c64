// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gamecard

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidPartition is returned by OpenPartition when the image does
	// not carry a well-formed partition filesystem header.
	ErrInvalidPartition = errors.New("gamecard: invalid partition image")

	// ErrEntryNotFound is returned when no partition entry carries the
	// requested name.
	ErrEntryNotFound = errors.New("gamecard: partition entry not found")

	// ErrReadOutOfBounds is returned when an entry read falls outside the
	// entry or the entry falls outside the partition data region.
	ErrReadOutOfBounds = errors.New("gamecard: read outside entry bounds")

	// ErrShortRead is returned when the partition delivers fewer bytes than
	// an entry declares.
	ErrShortRead = errors.New("gamecard: short read from secure partition")
)

const (
	partitionMagic = "PFS0"

	partitionHeaderSize = 0x10 // magic, entry count, name table size, reserved
	entryRecordSize     = 0x18 // offset, size, name offset, reserved
)

// Entry describes one file inside a partition: its name from the name table
// and its placement inside the data region.
type Entry struct {
	// Name is the entry name, NUL-terminated in the image.
	Name string

	// Offset is the entry offset relative to the start of the data region.
	Offset uint64

	// Size is the declared entry size in bytes.
	Size uint64
}

// Partition is a read-only view over a PFS0 partition image. The header and
// entry table are parsed eagerly by OpenPartition; entry data is read on
// demand through the underlying reader.
type Partition struct {
	r          io.ReaderAt
	size       int64
	dataOffset int64
	entries    []Entry
}

// OpenPartition parses the partition filesystem header, entry table, and
// name table from r and returns a Partition serving reads against it.
//
// Parameters:
//   - r: Reader over the raw partition image
//   - size: Total partition image size in bytes; entry reads are bounds
//     checked against it
//
// Returns:
//   - *Partition: Parsed partition ready for entry lookups and reads
//   - error: ErrInvalidPartition when the magic word, entry count, name
//     table, or declared header size is malformed; read errors otherwise
//
// Thread Safety: The returned Partition is safe for concurrent use as long
// as r supports concurrent ReadAt calls.
func OpenPartition(r io.ReaderAt, size int64) (*Partition, error) {
	if size < partitionHeaderSize {
		return nil, fmt.Errorf("%w: partition size %#x", ErrInvalidPartition, size)
	}

	header := make([]byte, partitionHeaderSize)
	if _, err := r.ReadAt(header, 0); err != nil {
		return nil, fmt.Errorf("partition header: %w", err)
	}

	if string(header[:4]) != partitionMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrInvalidPartition, header[:4])
	}

	entryCount := binary.LittleEndian.Uint32(header[4:])
	nameTableSize := binary.LittleEndian.Uint32(header[8:])
	if entryCount == 0 {
		return nil, fmt.Errorf("%w: empty entry table", ErrInvalidPartition)
	}
	if nameTableSize == 0 {
		return nil, fmt.Errorf("%w: empty name table", ErrInvalidPartition)
	}

	dataOffset := partitionHeaderSize + int64(entryCount)*entryRecordSize + int64(nameTableSize)
	if dataOffset > size {
		return nil, fmt.Errorf("%w: header size %#x exceeds partition size %#x", ErrInvalidPartition, dataOffset, size)
	}

	tables := make([]byte, dataOffset-partitionHeaderSize)
	if _, err := r.ReadAt(tables, partitionHeaderSize); err != nil {
		return nil, fmt.Errorf("partition entry table: %w", err)
	}
	nameTable := tables[int64(entryCount)*entryRecordSize:]

	entries := make([]Entry, 0, entryCount)
	for i := range int(entryCount) {
		record := tables[i*entryRecordSize:]
		nameOffset := binary.LittleEndian.Uint32(record[16:])
		if nameOffset >= nameTableSize {
			return nil, fmt.Errorf("%w: entry %d name offset %#x outside name table", ErrInvalidPartition, i, nameOffset)
		}

		end := bytes.IndexByte(nameTable[nameOffset:], 0)
		if end < 0 {
			return nil, fmt.Errorf("%w: entry %d name unterminated", ErrInvalidPartition, i)
		}

		entries = append(entries, Entry{
			Name:   string(nameTable[nameOffset:][:end]),
			Offset: binary.LittleEndian.Uint64(record),
			Size:   binary.LittleEndian.Uint64(record[8:]),
		})
	}

	return &Partition{r: r, size: size, dataOffset: dataOffset, entries: entries}, nil
}

// Entries returns the parsed entry table in image order.
func (p *Partition) Entries() []Entry {
	return append([]Entry(nil), p.entries...)
}

// EntryByName returns the first entry carrying the given name, or
// ErrEntryNotFound when no entry matches.
func (p *Partition) EntryByName(name string) (Entry, error) {
	for _, entry := range p.entries {
		if entry.Name == name {
			return entry, nil
		}
	}
	return Entry{}, ErrEntryNotFound
}

// ReadEntry reads len(b) bytes from the entry data starting at off. Both the
// entry placement and the requested range are bounds checked before any read
// happens, and fewer delivered bytes than requested is a failure.
//
// Parameters:
//   - entry: Entry to read from, as returned by EntryByName or Entries
//   - b: Destination buffer; filled completely on success
//   - off: Read offset relative to the start of the entry data
//
// Returns:
//   - error: ErrReadOutOfBounds when the range is invalid, ErrShortRead when
//     the partition delivers fewer bytes than requested, nil otherwise
//
// Thread Safety: Safe for concurrent use.
func (p *Partition) ReadEntry(entry Entry, b []byte, off int64) error {
	if err := p.checkEntry(entry); err != nil {
		return err
	}
	if off < 0 || uint64(off) > entry.Size || uint64(len(b)) > entry.Size-uint64(off) {
		return fmt.Errorf("%w: %#x bytes at offset %#x in entry %q", ErrReadOutOfBounds, len(b), off, entry.Name)
	}

	n, err := p.r.ReadAt(b, p.dataOffset+int64(entry.Offset)+off)
	if err != nil && !(n == len(b) && errors.Is(err, io.EOF)) {
		return fmt.Errorf("%w: %v", ErrShortRead, err)
	}
	return nil
}

// EntryReader returns a reader over the entry data, bounded by the declared
// entry size. The entry placement is bounds checked first.
func (p *Partition) EntryReader(entry Entry) (*io.SectionReader, error) {
	if err := p.checkEntry(entry); err != nil {
		return nil, err
	}
	return io.NewSectionReader(p.r, p.dataOffset+int64(entry.Offset), int64(entry.Size)), nil
}

// checkEntry validates the entry placement against the data region.
func (p *Partition) checkEntry(entry Entry) error {
	dataSize := uint64(p.size - p.dataOffset)
	if entry.Offset > dataSize || entry.Size > dataSize-entry.Offset {
		return fmt.Errorf("%w: entry %q spans %#x bytes at offset %#x", ErrReadOutOfBounds, entry.Name, entry.Size, entry.Offset)
	}
	return nil
}
