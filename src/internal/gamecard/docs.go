// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package gamecard reads pre-built raw certificate chains out of a gamecard
// secure partition image.
//
// The secure partition uses the [PFS0] layout: a little-endian header, a
// fixed-size entry table, a NUL-terminated name table, and a data region.
// Raw chains are stored as regular partition entries named after the 16-byte
// rights identifier of the title they belong to, rendered as 32 lowercase
// hex characters with a ".cert" suffix.
//
// Unlike certificates resolved from a certificate store, these entries are
// already concatenated chains, so only the lower size bound of a single
// signed certificate applies to them. Callers that need individual chain
// members feed the returned blob to the certificate decoder.
//
// [PFS0]: https://switchbrew.org/wiki/NCA#PFS0
package gamecard
