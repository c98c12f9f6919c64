// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package eschain implements [ES] certificate chain resolution over the
// system save container. It provides capabilities to:
//   - Retrieve single certificates by name with strict size validation.
//   - Resolve full trust chains from issuer strings of the form
//     "Root-<name>-<name>-...".
//   - Serialize resolved chains into the contiguous raw wire format.
//   - Render chains as ASCII trees, markdown tables, or structured JSON.
//
// Resolution is all-or-nothing. A chain with any unresolvable member yields
// an error and no partial result. One resolver mutex serializes every
// operation touching the container session, held across the whole open, read,
// close sequence.
//
// [ES]: https://switchbrew.org/wiki/ES_services
package eschain
