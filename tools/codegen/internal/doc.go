// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package codegen provides code generation utilities for MCP server components.
//
// It generates Go code for MCP resources, tools, and prompts based on JSON
// configuration files and templates. Each configuration file is validated
// against its JSON schema before generation. The generated code implements
// the MCP protocol handlers and data structures.
package codegen
