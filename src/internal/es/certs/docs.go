// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package escerts provides specialized decoding and classification operations for
// [ES] signed certificates. A signed certificate is a flat big-endian binary
// structure made of a signature block, a common header block and a public key
// block; the package derives the composite certificate type from the signature
// and public key algorithm fields without performing any cryptographic
// computation. This package is used by the chain resolver to validate store
// entries and split raw chain blobs.
//
// [ES]: https://switchbrew.org/wiki/Ticket#Certificate_chain
package escerts
