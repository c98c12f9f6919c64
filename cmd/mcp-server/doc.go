// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
// Use of this source code is governed by a BSD 3-Clause
// license that can be found in the LICENSE file.

// mcp-server is a Model Context Protocol (MCP) server that exposes NX
// certificate store operations to AI assistants and automation clients
// over stdio.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/nx-cert-chain-resolver/cmd/mcp-server@latest
//
// # Usage
//
//	mcp-server [FLAGS]
//
// # Flags
//
//	--config        Path to MCP server configuration file (JSON or YAML)
//	--instructions  Display certificate operation workflows and MCP server usage
//	--help          Show help information
//	--version       Show version information
//
// # Environment Variables
//
//	NX_AI_APIKEY             API key for AI-backed certificate analysis (optional)
//	NX_CERT_MCP_CONFIG_FILE  Path to configuration file (alternative to --config flag)
//
// # MCP Tools
//
// The server provides the following certificate operations:
//
//   - retrieve_certificate: Look up a single certificate entry in an ES certificate store
//   - resolve_cert_chain: Walk an issuer string and assemble the complete certificate chain
//   - export_raw_chain: Export a resolved chain as concatenated raw signed records
//   - classify_certificate: Classify raw signed certificate data by signature and public key type
//   - visualize_cert_chain: Visualize certificate chains in ASCII tree, table, or JSON formats
//   - gamecard_raw_chain: Extract the raw chain for a rights ID from a gamecard partition image
//   - analyze_certificate_with_ai: Delegate structured certificate analysis to a configured LLM
//   - get_resource_usage: Monitor server resource usage (memory, GC, cache info)
//
// # MCP Resources
//
//   - config://template: Server configuration template
//   - info://version: Version and capabilities info
//   - docs://certificate-format: Signed certificate layout documentation
//   - status://server-status: Current server health status
//
// # MCP Prompts
//
//   - certificate-analysis: Comprehensive certificate chain analysis workflow
//   - store-troubleshooting: Troubleshoot common certificate store issues
//   - resource-monitoring: Monitor server resource usage and certificate cache health
//   - gamecard-export: Export a raw certificate chain from a gamecard image
//
// # Examples
//
// Start MCP server with default configuration:
//
//	mcp-server
//
// Load custom configuration:
//
//	mcp-server --config /path/to/config.json
//
// Show certificate operation workflows:
//
//	mcp-server --instructions
//
// # AI-Assisted Analysis
//
// Set NX_AI_APIKEY or configure the ai section of the MCP config to allow
// the server to request completions from xAI Grok (default), OpenAI, or any
// OpenAI-compatible API.
package main
