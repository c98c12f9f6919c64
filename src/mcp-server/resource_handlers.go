// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/mcp-server/templates"
	"github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/version"
	"github.com/mark3labs/mcp-go/mcp"
)

// handleConfigResource handles requests for the configuration template resource.
// It provides a JSON template showing the expected configuration structure for the MCP server.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP resource read request for the config template
//
// Returns:
//   - A slice containing the configuration template as JSON content
//   - An error if JSON marshaling fails
//
// The resource provides default values for storePath, timeoutSeconds, cacheTTLSeconds, and cacheMaxSize.
func handleConfigResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	exampleConfig := map[string]any{
		"defaults": map[string]any{
			"storePath":       "/path/to/certificate/store",
			"timeoutSeconds":  30,
			"cacheTTLSeconds": 3600,
			"cacheMaxSize":    100,
		},
	}

	jsonData, err := json.MarshalIndent(exampleConfig, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config template: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "config://template",
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleVersionResource handles requests for version information resource.
// It provides server metadata including version, capabilities, and supported features.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP resource read request for version information
//
// Returns:
//   - A slice containing version and capability information as JSON content
//   - An error if JSON marshaling fails
//
// The resource includes server name, version, supported tools, resources, prompts with full metadata from config, and certificate output formats.
// All capabilities (tools, resources, prompts) are loaded dynamically from codegen config files with their meta information.
func handleVersionResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	// Load configurations dynamically
	prompts, err := loadPromptsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts config: %w", err)
	}

	tools, err := loadToolsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load tools config: %w", err)
	}

	resources, err := loadResourcesConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load resources config: %w", err)
	}

	versionInfo := map[string]any{
		"name":    "NX Certificate Chain Resolver",
		"version": version.Version,
		"type":    "MCP Server",
		"capabilities": map[string]any{
			"tools":     tools,     // Loaded from config with meta
			"resources": resources, // Loaded from config with meta
			"prompts":   prompts,   // Loaded from config with meta
		},
		"supportedFormats": []string{"raw", "base64", "json"},
	}

	jsonData, err := json.MarshalIndent(versionInfo, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal version info: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "info://version",
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleCertificateFormatResource returns a handler for the certificate format documentation resource.
// The returned handler serves embedded documentation about the signed certificate binary layout.
//
// Parameters:
//   - embed: Embedded filesystem holding the documentation template
//
// Returns:
//   - A ResourceHandler serving the certificate format documentation as markdown content
//
// The documentation is stored in templates/certificate-format.md and describes
// the signature and public key block layout, size bounds, and issuer conventions.
// The handler factory form lets the server bind the embedded filesystem during Build().
func handleCertificateFormatResource(embed templates.EmbedFS) ResourceHandler {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		content, err := embed.ReadFile("certificate-format.md")
		if err != nil {
			return nil, fmt.Errorf("failed to read certificate format template: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "docs://certificate-format",
				MIMEType: "text/markdown",
				Text:     string(content),
			},
		}, nil
	}
}

// handleStatusResource handles requests for server status information resource.
// It provides current server health, version, and operational status.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP resource read request for server status
//
// Returns:
//   - A slice containing server status information as JSON content
//   - An error if JSON marshaling fails
//
// The status includes server health, timestamp, version, and available capabilities
// (tools, resources, prompts with full metadata from config, supported formats).
// All capabilities are loaded dynamically from codegen config files with their meta information.
func handleStatusResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	// Load configurations dynamically
	prompts, err := loadPromptsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts config: %w", err)
	}

	tools, err := loadToolsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load tools config: %w", err)
	}

	resources, err := loadResourcesConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load resources config: %w", err)
	}

	statusInfo := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"server":    "NX Certificate Chain Resolver MCP Server",
		"version":   version.Version,
		"capabilities": map[string]any{
			"tools":     tools,     // Loaded from config with meta
			"resources": resources, // Loaded from config with meta
			"prompts":   prompts,   // Loaded from config with meta
		},
		"supportedFormats": []string{"raw", "base64", "json"},
	}

	jsonData, err := json.MarshalIndent(statusInfo, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status info: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "status://server-status",
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
