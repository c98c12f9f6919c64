// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package esstore abstracts the system save container that holds the console
// [ES] certificate entries. It provides capabilities to:
//   - Look up entries by path inside an opened container and read their bytes.
//   - Manage a lazily opened, idempotently closed container session.
//   - Back the container with an in-memory map or an extracted save directory.
//
// Sessions carry no locking of their own. The resolver that owns a session
// serializes the whole open, read, close sequence; see the chain package.
//
// [ES]: https://switchbrew.org/wiki/ES_services
package esstore
