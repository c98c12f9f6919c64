// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
// Use of this source code is governed by a BSD 3-Clause
// license that can be found in the LICENSE file.

// nx-cert-chain-resolver is a command-line tool for resolving, inspecting,
// and exporting NX certificate chains from extracted save image stores and
// gamecard secure partition images.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/nx-cert-chain-resolver/cmd/nx-cert-chain-resolver@latest
//
// # Usage
//
//	nx-cert-chain-resolver [SIGNATURE_ISSUER] [FLAGS]
//
// # Flags
//
//	-s, --store      Path to an extracted certificate save image directory
//	-n, --name       Retrieve a single certificate by name instead of a chain
//	-o, --output     Write raw certificate bytes to OUTPUT_FILE
//	-j, --json       Print the chain as visualization JSON
//	    --tree       Print the chain as an ASCII tree
//	    --table      Print the chain as a markdown table
//	    --gamecard   Read a pre-built raw chain from a secure partition image
//	    --rights-id  Rights identifier for gamecard mode (32 hex characters)
//
// # Examples
//
// Resolve a ticket-signing chain into a raw binary bundle:
//
//	nx-cert-chain-resolver -s ./certsave Root-CA00000003-XS00000020 -o chain.bin
//
// Retrieve one certificate by name:
//
//	nx-cert-chain-resolver -s ./certsave -n CA00000003 -o CA00000003.cert
//
// Visualize a chain as an ASCII tree:
//
//	nx-cert-chain-resolver -s ./certsave Root-CA00000003-XS00000020 --tree
//
// Display a chain as a markdown table:
//
//	nx-cert-chain-resolver -s ./certsave Root-CA00000003-XS00000020 --table
//
// Extract a pre-built raw chain from a gamecard secure partition dump:
//
//	nx-cert-chain-resolver --gamecard secure.bin \
//	  --rights-id 01000000000000000000000000001337 -o chain.bin
package main
