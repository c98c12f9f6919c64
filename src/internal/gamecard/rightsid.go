// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gamecard

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrInvalidRightsID is returned by ParseRightsID when the input is not
// exactly 16 bytes of hex.
var ErrInvalidRightsID = errors.New("gamecard: invalid rights identifier")

// RightsID is the 16-byte rights identifier a title's raw certificate chain
// is keyed by inside the secure partition.
type RightsID [16]byte

// String renders the identifier as exactly 32 lowercase hex characters, the
// form used in partition entry names.
func (id RightsID) String() string {
	return hex.EncodeToString(id[:])
}

// ParseRightsID parses a 32-character hex string into a RightsID. Input case
// is not significant; the canonical rendering is always lowercase.
func ParseRightsID(s string) (RightsID, error) {
	var id RightsID

	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("%w: %q: %v", ErrInvalidRightsID, s, err)
	}
	if len(raw) != len(id) {
		return id, fmt.Errorf("%w: %q: got %d bytes, want %d", ErrInvalidRightsID, s, len(raw), len(id))
	}

	copy(id[:], raw)
	return id, nil
}
