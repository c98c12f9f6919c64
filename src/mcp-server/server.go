// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"fmt"
	"os"

	escerts "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/certs"
	"github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/mcp-server/templates"
	"github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/version"
)

var appVersion = version.Version // default version

// GetVersion returns the current version of the MCP server.
//
// GetVersion provides access to the server's version string, which is set
// during server initialization via the Run function. This allows other
// components to access the version information for logging, user-agent
// strings, or API responses.
//
// Returns:
//   - string: The current server version (e.g., "0.1.0")
//
// The version is initially set to the default from the version package,
// but can be overridden when calling Run() with a specific version string.
func GetVersion() string {
	return appVersion
}

// Run starts the CLI application with integrated MCP server capabilities.
//
// Run assembles every server dependency, builds the root Cobra command through
// the CLI framework, and executes it. Running the binary without arguments
// starts the MCP server over stdio; the --instructions flag prints certificate
// operation workflows instead.
//
// Parameters:
//   - version: Version string to set for the server (e.g., "0.1.0")
//   - configFile: Path to the MCP server configuration file. Pass an empty
//     string to fall back to the NX_CERT_MCP_CONFIG_FILE environment variable
//     or the default configuration.
//
// Returns:
//   - error: Configuration, server build, or runtime error
//
// Configuration:
//   - Uses configFile when provided (typically from the --config flag)
//   - Falls back to NX_CERT_MCP_CONFIG_FILE environment variable
//   - Falls back to default config if neither names a file
//
// Features:
//   - Certificate retrieval and chain resolution from extracted store images
//   - Signed certificate classification without store access
//   - Raw chain export with exact concatenated serialization
//   - Gamecard secure partition raw chain extraction
//   - AI-powered certificate analysis through sampling
//   - Resource usage monitoring and reporting
//   - Static resources (config template, version, format docs, status)
//   - Guided prompts for certificate workflows
//
// Server Lifecycle:
//  1. Load configuration from flag or environment
//  2. Create tool definitions and render server instructions
//  3. Assemble server dependencies including the sampling handler
//  4. Build the root command via the CLI framework
//  5. Execute: start the stdio MCP server or handle CLI flags
//
// Error Handling:
//   - Configuration errors: Wrapped with "failed to load config" prefix
//   - Instruction errors: Wrapped with "failed to load instructions" prefix
//   - Execution errors: Returned from the Cobra command directly
func Run(version, configFile string) error {
	// Set the version for GetVersion
	appVersion = version

	// Fall back to the environment variable when no config flag was given
	if configFile == "" {
		configFile = os.Getenv("NX_CERT_MCP_CONFIG_FILE")
	}

	// Load configuration
	config, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Create tools (called once and reused)
	tools, toolsWithConfig := createTools()

	// Load server instructions with tool information
	//
	// This approach is better as it uses dynamic content generation based on tools,
	// instead of hardcoded values
	instructions, err := loadInstructions(tools, toolsWithConfig)
	if err != nil {
		return fmt.Errorf("failed to load instructions: %w", err)
	}

	// Assemble all server dependencies for the CLI framework
	deps := ServerDependencies{
		Config:             config,
		Embed:              templates.MagicEmbed,
		Version:            version,
		CertDecoder:        escerts.New(),
		StoreResolver:      DefaultStoreResolver{},
		Tools:              tools,
		ToolsWithConfig:    toolsWithConfig,
		Resources:          createResources(),
		ResourcesWithEmbed: createEmbeddedResources(),
		Prompts:            createPrompts(),
		PromptsWithEmbed:   createEmbeddedPrompts(),
		SamplingHandler:    NewDefaultSamplingHandler(config, version),
		Instructions:       instructions,
		PopulateCache:      true,
	}

	// Build and execute the root command; without arguments this starts
	// the MCP server over stdio
	return NewCLIFramework(configFile, deps).BuildRootCommand().Execute()
}
