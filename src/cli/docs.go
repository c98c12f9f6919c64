// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for the NX certificate chain resolver.
// It implements a Cobra-based CLI that resolves certificate chains from extracted save
// image stores, retrieves single certificates by name, and extracts pre-built raw chains
// from gamecard secure partition images. Output formats include raw binary, visualization
// JSON, ASCII tree, and markdown table. The package handles file I/O, context
// cancellation, and integrates with the logger package for output and error reporting.
package cli
