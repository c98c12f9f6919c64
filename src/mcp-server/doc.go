// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver provides the [MCP] server framework for [NX] certificate chain resolution.
// It implements the Model Context Protocol ([MCP]) server with tools for certificate store operations,
// including single certificate retrieval, trust chain resolution, classification, gamecard
// extraction, and AI-powered analysis.
// The package uses a builder pattern for server construction and supports bidirectional AI communication.
//
// [NX]: https://switchbrew.org/wiki/ES_services
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
//
//go:generate go run ../../tools/codegen
package mcpserver
