// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package eschain

import (
	"strings"

	escerts "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/certs"
)

// Chain is a fully resolved certificate chain in issuer order: the member
// issued directly by the root authority first, the end entity last. A Chain is
// only ever returned complete; its members never change after resolution, so
// it needs no locking of its own.
type Chain struct {
	Certs []*escerts.Certificate
}

// Count returns the number of chain members.
func (ch *Chain) Count() int { return len(ch.Certs) }

// TotalSize returns the summed raw size of all members in bytes, which is
// exactly the length Serialize produces.
func (ch *Chain) TotalSize() int {
	total := 0
	for _, cert := range ch.Certs {
		total += cert.Size()
	}
	return total
}

// Names returns the member names in chain order.
func (ch *Chain) Names() []string {
	names := make([]string, len(ch.Certs))
	for i, cert := range ch.Certs {
		names[i] = cert.Name
	}
	return names
}

// Serialize concatenates the raw bytes of every member in chain order with no
// padding or separators. The result length equals TotalSize exactly. An empty
// chain serializes to an empty, non-nil slice.
func (ch *Chain) Serialize() []byte {
	out := make([]byte, 0, ch.TotalSize())
	for _, cert := range ch.Certs {
		out = append(out, cert.Data...)
	}
	return out
}

// MemberRole describes a member's function within the chain. The name prefix
// identifies the signer class; position in the chain is the fallback.
func MemberRole(index, total int, name string) string {
	switch {
	case strings.HasPrefix(name, "CA"):
		return "Certificate Authority"
	case strings.HasPrefix(name, "XS"):
		return "Ticket Signer"
	case strings.HasPrefix(name, "CP"):
		return "Title Metadata Signer"
	case index == 0:
		return "Root-Issued Certificate"
	case index == total-1:
		return "End-Entity Certificate"
	default:
		return "Intermediate Certificate"
	}
}
