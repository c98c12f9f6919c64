// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	escerts "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/certs"
	eschain "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/chain"
	esstore "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/store"
	"github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/helper/gc"
	"github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/mcp-server/templates"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CertificateDecoder defines the interface for signed certificate operations.
// It provides methods for classifying and decoding certificates in the binary
// signed certificate format used by console save images.
//
// Methods:
//   - Classify: Determines the composite certificate type from raw header bytes
//   - SignedSize: Computes the full signed certificate size from raw header bytes
//   - Decode: Parses a single signed certificate from raw data
//   - DecodeMultiple: Parses a contiguous raw chain into its member certificates
//
// Example usage:
//
//	cert, err := decoder.Decode(rawData)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cert.Name, cert.Type)
type CertificateDecoder interface {
	Classify(data []byte) escerts.Type
	SignedSize(data []byte) int
	Decode(data []byte) (*escerts.Certificate, error)
	DecodeMultiple(data []byte) ([]*escerts.Certificate, error)
}

// StoreResolver defines the interface for store-backed chain operations.
// It provides methods to create resolvers bound to a certificate store container.
//
// Methods:
//   - New: Creates a new chain resolver from a store container and version string
//
// Example usage:
//
//	resolver := DefaultStoreResolver{}.New(container, "1.0.0")
//	chain, err := resolver.RetrieveChain("Root-CA00000003-XS00000020")
type StoreResolver interface {
	New(container esstore.Container, version string) *eschain.Resolver
}

// DefaultStoreResolver implements StoreResolver using the eschain.New function.
// It provides a default implementation that creates chain resolvers using the internal chain package.
//
// This implementation is used when no custom store resolver is provided to the server builder.
type DefaultStoreResolver struct{}

// New creates a new chain resolver using the [eschain.New] function.
// It takes a store container and version string to initialize the resolver.
//
// Parameters:
//   - container: The certificate store container holding the save image entries
//   - version: Version string for the resolver (used for diagnostics)
//
// Returns:
//   - A pointer to the newly created chain resolver
//
// The returned resolver can be used for retrieving single certificates,
// resolving full trust chains, and producing serialized raw chains.
func (d DefaultStoreResolver) New(container esstore.Container, version string) *eschain.Resolver {
	return eschain.New(container, version)
}

// ToolHandler defines the signature for tool handlers that matches [MCP] server expectations.
// It processes tool calls and returns results.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: The MCP tool call request containing arguments and metadata
//
// Returns:
//   - The tool execution result or an error if the tool failed
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// ToolHandlerWithConfig defines tool handlers that require access to server configuration.
// It extends ToolHandler to include a Config parameter for tools that need configuration data.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: The MCP tool call request containing arguments and metadata
//   - config: Pointer to the server configuration containing AI settings and other options
//
// Returns:
//   - The tool execution result or an error if the tool failed
//
// This type is used for tools that need access to configuration like AI API keys or timeouts.
type ToolHandlerWithConfig func(ctx context.Context, request mcp.CallToolRequest, config *Config) (*mcp.CallToolResult, error)

// ResourceHandler defines the signature for resource handlers that provide static or dynamic resources.
// It processes resource read requests and returns the resource contents.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: The MCP resource read request containing the resource URI
//
// Returns:
//   - A slice of resource contents or an error if the resource cannot be read
//
// Resource handlers can return multiple content items for complex resources.
type ResourceHandler = func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error)

// PromptHandler defines the signature for prompt handlers that provide predefined prompts.
// It processes prompt requests and returns prompt content with optional arguments.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: The MCP prompt request containing the prompt name and arguments
//
// Returns:
//   - The prompt result containing messages and description, or an error if the prompt is not found
//
// Prompt handlers are used for guided workflows like certificate analysis or store troubleshooting.
type PromptHandler = func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error)

// ToolDefinition holds a tool definition and its handler.
// It pairs an MCP tool specification with its implementation function.
//
// Fields:
//   - Tool: The MCP tool definition containing name, description, and input schema
//   - Handler: The function that implements the tool's logic
//   - Role: Stable role identifier used by instruction templates to reference the tool by purpose
//
// This struct is used when registering tools that don't require configuration access.
type ToolDefinition struct {
	Tool    mcp.Tool
	Handler ToolHandler
	Role    string
}

// ToolDefinitionWithConfig holds a tool definition that requires configuration access.
// It pairs an MCP tool specification with a handler that receives server configuration.
//
// Fields:
//   - Tool: The MCP tool definition containing name, description, and input schema
//   - Handler: The function that implements the tool's logic with config access
//   - Role: Stable role identifier used by instruction templates to reference the tool by purpose
//
// This struct is used for tools that need configuration like AI API keys or timeouts.
// The handler receives a Config parameter in addition to the standard context and request.
type ToolDefinitionWithConfig struct {
	Tool    mcp.Tool
	Handler ToolHandlerWithConfig
	Role    string
}

// ServerResource pairs an MCP resource definition with its handler for bulk registration.
// It aliases the mcp-go server type so package callers can declare resource sets
// without importing the server package directly.
type ServerResource = server.ServerResource

// ServerPrompt pairs an MCP prompt definition with its handler for bulk registration.
// It aliases the mcp-go server type so package callers can declare prompt sets
// without importing the server package directly.
type ServerPrompt = server.ServerPrompt

// ServerResourceWithEmbed holds a resource whose handler needs the embedded filesystem.
// The Handler field is a factory that receives the embedded filesystem during Build()
// and returns the final resource handler bound to it.
type ServerResourceWithEmbed struct {
	Resource mcp.Resource
	Handler  func(embed templates.EmbedFS) ResourceHandler
}

// ServerPromptWithEmbed holds a prompt whose handler needs the embedded filesystem.
// The Handler field is a factory that receives the embedded filesystem during Build()
// and returns the final prompt handler bound to it.
type ServerPromptWithEmbed struct {
	Prompt  mcp.Prompt
	Handler func(embed templates.EmbedFS) PromptHandler
}

// ServerDependencies holds all dependencies needed to create the MCP server.
// It consolidates all required components for server initialization using the builder pattern.
//
// Fields:
//   - Config: Server configuration containing AI settings and other options
//   - Embed: Embedded filesystem for static resources and templates
//   - Version: Server version string for User-Agent headers and identification
//   - CertDecoder: Interface for signed certificate classification and decoding
//   - StoreResolver: Interface for creating store-backed chain resolvers
//   - Tools: List of tool definitions without configuration requirements
//   - ToolsWithConfig: List of tool definitions that need configuration access
//   - Resources: List of static and dynamic resources provided by the server
//   - ResourcesWithEmbed: List of resources whose handlers need the embedded filesystem
//   - Prompts: List of predefined prompts for guided workflows
//   - PromptsWithEmbed: List of prompts whose handlers need the embedded filesystem
//   - SamplingHandler: Handler for bidirectional AI communication and streaming responses
//   - Instructions: Server instructions sent to MCP clients during initialization
//   - PopulateCache: Whether to populate the metadata cache used by status resources
//
// This struct is used internally by ServerBuilder and should not be instantiated directly.
type ServerDependencies struct {
	Config             *Config
	Embed              templates.EmbedFS
	Version            string
	CertDecoder        CertificateDecoder
	StoreResolver      StoreResolver
	Tools              []ToolDefinition
	ToolsWithConfig    []ToolDefinitionWithConfig
	Resources          []ServerResource
	ResourcesWithEmbed []ServerResourceWithEmbed
	Prompts            []ServerPrompt
	PromptsWithEmbed   []ServerPromptWithEmbed
	SamplingHandler    client.SamplingHandler // Added for bidirectional AI communication
	Instructions       string
	PopulateCache      bool
}

// ServerBuilder helps construct the [MCP] server with proper dependencies using a fluent interface.
// It implements the builder pattern to configure and create MCP servers with all required components.
//
// The builder allows chaining configuration methods and provides default implementations
// for common dependencies. Use NewServerBuilder() to create an instance, chain configuration
// methods, and call Build() to create the server.
//
// Example:
//
//	builder := NewServerBuilder().
//	    WithConfig(config).
//	    WithVersion("1.0.0").
//	    WithDefaultTools().
//	    WithSampling(samplingHandler)
//	server, err := builder.Build()
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ServerBuilder struct{ deps ServerDependencies }

// NewServerBuilder creates a new server builder with default empty dependencies.
// It initializes a ServerBuilder instance that can be configured using the fluent interface methods.
//
// Returns:
//   - A pointer to a new ServerBuilder instance ready for configuration
//
// The returned builder has no dependencies configured and should be chained with
// configuration methods before calling Build().
func NewServerBuilder() *ServerBuilder { return &ServerBuilder{} }

// WithConfig sets the server configuration containing AI settings and other options.
// It configures the server with the provided Config struct.
//
// Parameters:
//   - config: Pointer to the server configuration (can be nil for basic functionality)
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// The configuration includes AI API settings, timeouts, and other server options.
// If config is nil, some features like AI analysis may not be available.
func (b *ServerBuilder) WithConfig(config *Config) *ServerBuilder {
	b.deps.Config = config
	return b
}

// WithEmbed sets the embedded filesystem for static resources and templates.
// It configures the server with an embedded filesystem containing templates and documentation.
//
// Parameters:
//   - embed: The embedded filesystem (typically from //go:embed directives)
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// The embedded filesystem is used to serve static resources like certificate format documentation
// and analysis templates. If not set, some resources may not be available.
func (b *ServerBuilder) WithEmbed(embed templates.EmbedFS) *ServerBuilder {
	b.deps.Embed = embed
	return b
}

// WithVersion sets the server version string used for identification and User-Agent headers.
// It configures the server with a version string that appears in logs and HTTP requests.
//
// Parameters:
//   - version: The server version string (e.g., "1.0.0" or "v1.2.3")
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// The version is used in User-Agent headers for HTTP requests and server identification.
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.deps.Version = version
	return b
}

// WithCertDecoder sets the certificate decoder for classification and decoding operations.
// It configures the server with a CertificateDecoder implementation for signed certificate operations.
//
// Parameters:
//   - cd: The certificate decoder implementation (must implement CertificateDecoder interface)
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// If not set, certificate classification and decoding operations may not be available.
// The default implementation uses the internal certs package.
func (b *ServerBuilder) WithCertDecoder(cd CertificateDecoder) *ServerBuilder {
	b.deps.CertDecoder = cd
	return b
}

// WithStoreResolver sets the store resolver for creating chain resolvers.
// It configures the server with a StoreResolver implementation for store-backed operations.
//
// Parameters:
//   - sr: The store resolver implementation (must implement StoreResolver interface)
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// If not set, certificate chain resolution operations may not be available.
// The default implementation uses the internal chain package.
func (b *ServerBuilder) WithStoreResolver(sr StoreResolver) *ServerBuilder {
	b.deps.StoreResolver = sr
	return b
}

// WithTools adds tool definitions to the server that don't require configuration access.
// It registers multiple tools that can be called by MCP clients.
//
// Parameters:
//   - tools: Variable number of ToolDefinition structs containing tool specs and handlers
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// Tools added with this method do not receive the server Config parameter.
// Use WithToolsWithConfig for tools that need configuration access.
func (b *ServerBuilder) WithTools(tools ...ToolDefinition) *ServerBuilder {
	b.deps.Tools = append(b.deps.Tools, tools...)
	return b
}

// WithToolsWithConfig adds tool definitions that require configuration access to the server.
// It registers multiple tools that receive the server Config parameter in their handlers.
//
// Parameters:
//   - tools: Variable number of ToolDefinitionWithConfig structs containing tool specs and handlers
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// Tools added with this method receive access to server configuration like AI API keys.
// Use WithTools for tools that don't need configuration access.
func (b *ServerBuilder) WithToolsWithConfig(tools ...ToolDefinitionWithConfig) *ServerBuilder {
	b.deps.ToolsWithConfig = append(b.deps.ToolsWithConfig, tools...)
	return b
}

// WithResources adds static and dynamic resources to the MCP server.
// It registers resources that can be read by MCP clients using resource URIs.
//
// Parameters:
//   - resources: Variable number of ServerResource structs containing resource specs and handlers
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// Resources can provide static content (like documentation) or dynamic content
// (like server status). Clients access resources using URIs like "info://version".
func (b *ServerBuilder) WithResources(resources ...ServerResource) *ServerBuilder {
	b.deps.Resources = append(b.deps.Resources, resources...)
	return b
}

// WithEmbeddedResources adds resources whose handlers need the embedded filesystem.
// The handlers are bound to the configured embedded filesystem during Build().
//
// Parameters:
//   - resources: Variable number of ServerResourceWithEmbed structs containing resource specs and handler factories
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// Use this for resources that serve embedded documentation or templates.
// WithEmbed must be called before Build() for these handlers to work.
func (b *ServerBuilder) WithEmbeddedResources(resources ...ServerResourceWithEmbed) *ServerBuilder {
	b.deps.ResourcesWithEmbed = append(b.deps.ResourcesWithEmbed, resources...)
	return b
}

// WithPrompts adds predefined prompts to the MCP server for guided workflows.
// It registers prompts that provide structured interactions for common tasks.
//
// Parameters:
//   - prompts: Variable number of ServerPrompt structs containing prompt specs and handlers
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// Prompts are used for workflows like certificate analysis or store troubleshooting,
// providing clients with predefined conversation starters and argument schemas.
func (b *ServerBuilder) WithPrompts(prompts ...ServerPrompt) *ServerBuilder {
	b.deps.Prompts = append(b.deps.Prompts, prompts...)
	return b
}

// WithEmbeddedPrompts adds prompts whose handlers need the embedded filesystem.
// The handlers are bound to the configured embedded filesystem during Build().
//
// Parameters:
//   - prompts: Variable number of ServerPromptWithEmbed structs containing prompt specs and handler factories
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// Use this for prompts that render embedded markdown templates.
// WithEmbed must be called before Build() for these handlers to work.
func (b *ServerBuilder) WithEmbeddedPrompts(prompts ...ServerPromptWithEmbed) *ServerBuilder {
	b.deps.PromptsWithEmbed = append(b.deps.PromptsWithEmbed, prompts...)
	return b
}

// WithSampling adds a sampling handler for bidirectional AI communication.
// It configures the server to support AI-powered features like certificate analysis.
//
// Parameters:
//   - handler: The sampling handler implementation for AI API integration
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// The sampling handler enables real-time AI analysis of certificates with streaming responses.
// If not set, AI-powered features will return static guidance messages.
func (b *ServerBuilder) WithSampling(handler client.SamplingHandler) *ServerBuilder {
	// Note: Sampling handler is stored but not in ServerDependencies
	// It's used during Build() to enable sampling on the server
	b.deps.SamplingHandler = handler
	return b
}

// WithInstructions sets the server instructions sent to MCP clients during initialization.
// Instructions describe the server's capabilities and recommended tool workflows,
// similar to the [gopls MCP instructions] feature.
//
// Parameters:
//   - instructions: The rendered instruction text (typically from loadInstructions)
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// [gopls MCP instructions]: https://tip.golang.org/gopls/features/mcp#instructions-to-the-model
func (b *ServerBuilder) WithInstructions(instructions string) *ServerBuilder {
	b.deps.Instructions = instructions
	return b
}

// WithPopulate enables metadata cache population during Build().
// When enabled, tool, prompt, and resource metadata is cached so status
// resources can report the server's capabilities without re-registration.
//
// Returns:
//   - The ServerBuilder instance for method chaining
func (b *ServerBuilder) WithPopulate() *ServerBuilder {
	b.deps.PopulateCache = true
	return b
}

// WithDefaultTools adds the default certificate store tools to the server.
// It automatically registers all standard certificate-related tools using createTools.
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// This includes tools for certificate retrieval, chain resolution, classification,
// raw chain export, gamecard extraction, and AI-powered analysis. The tools are added
// to both the regular tools list and tools-with-config list as appropriate.
func (b *ServerBuilder) WithDefaultTools() *ServerBuilder {
	tools, toolsWithConfig := createTools()
	b.deps.Tools = append(b.deps.Tools, tools...)
	b.deps.ToolsWithConfig = append(b.deps.ToolsWithConfig, toolsWithConfig...)
	return b
}

// Build creates the [MCP] server with all configured dependencies.
// It validates the configuration and constructs a fully configured MCP server instance.
//
// Returns:
//   - A pointer to the configured MCPServer instance
//   - An error if the configuration is invalid or server creation fails
//
// The method enables sampling if a sampling handler was provided, registers all tools,
// resources, and prompts, binds embedded handlers to the configured filesystem, and
// populates the metadata cache when WithPopulate() was used. The returned server handles
// MCP protocol communication and routes requests to the appropriate handlers.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
func (b *ServerBuilder) Build() (*server.MCPServer, error) {
	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
	}

	// Send instructions to clients during the initialization handshake
	if b.deps.Instructions != "" {
		opts = append(opts, server.WithInstructions(b.deps.Instructions))
	}

	s := server.NewMCPServer(
		"NX Certificate Chain Resolver",
		b.deps.Version,
		opts...,
	)

	// Enable sampling for bidirectional AI communication if handler provided
	if b.deps.SamplingHandler != nil {
		s.EnableSampling()
		// Note: The sampling handler is managed internally by the server
		// when clients connect and request sampling
	}

	// Add tools
	for _, tool := range b.deps.Tools {
		s.AddTool(tool.Tool, tool.Handler)
	}

	// Add tools that need config (wrap the handler)
	for _, tool := range b.deps.ToolsWithConfig {
		handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return tool.Handler(ctx, request, b.deps.Config)
		}
		s.AddTool(tool.Tool, handler)
	}

	// Bind embedded handlers to the configured filesystem, then merge with the
	// regular lists so registration and cache population see every entry
	resources := make([]ServerResource, 0, len(b.deps.Resources)+len(b.deps.ResourcesWithEmbed))
	resources = append(resources, b.deps.Resources...)
	for _, resource := range b.deps.ResourcesWithEmbed {
		resources = append(resources, ServerResource{
			Resource: resource.Resource,
			Handler:  resource.Handler(b.deps.Embed),
		})
	}

	prompts := make([]ServerPrompt, 0, len(b.deps.Prompts)+len(b.deps.PromptsWithEmbed))
	prompts = append(prompts, b.deps.Prompts...)
	for _, prompt := range b.deps.PromptsWithEmbed {
		prompts = append(prompts, ServerPrompt{
			Prompt:  prompt.Prompt,
			Handler: prompt.Handler(b.deps.Embed),
		})
	}

	// Add resources
	for _, resource := range resources {
		s.AddResource(resource.Resource, resource.Handler)
	}

	// Add prompts
	for _, prompt := range prompts {
		s.AddPrompt(prompt.Prompt, prompt.Handler)
	}

	// Populate metadata caches so status resources can report capabilities
	if b.deps.PopulateCache {
		cache := getServerCache()
		populateToolMetadataCache(cache, b.deps.Tools, b.deps.ToolsWithConfig)
		populatePromptMetadataCache(cache, prompts)
		populateResourceMetadataCache(cache, resources)
	}

	return s, nil
}

// DefaultSamplingHandler provides configurable AI API integration for bidirectional communication
type DefaultSamplingHandler struct {
	apiKey        string
	endpoint      string
	model         string
	timeout       time.Duration
	client        *http.Client
	version       string
	TokenCallback func(string) // Callback for streaming tokens
}

// NewDefaultSamplingHandler creates a new sampling handler with configurable AI settings
func NewDefaultSamplingHandler(config *Config, version string) *DefaultSamplingHandler {
	return &DefaultSamplingHandler{
		apiKey:   config.AI.APIKey,
		endpoint: config.AI.Endpoint,
		model:    config.AI.Model,
		version:  version,
		timeout:  time.Duration(config.AI.Timeout) * time.Second,
		client:   &http.Client{Timeout: time.Duration(config.AI.Timeout) * time.Second},
	}
}

// CreateMessage handles sampling requests by calling the configured AI API
func (h *DefaultSamplingHandler) CreateMessage(ctx context.Context, request mcp.CreateMessageRequest) (*mcp.CreateMessageResult, error) {
	// Get buffer from pool for efficient memory usage
	// Note: Buffer is primarily used for error response reading.
	// During successful streaming, it remains allocated but unused until the function returns.
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()         // Reset buffer to prevent data leaks
		gc.Default.Put(buf) // Return buffer to pool for reuse
	}()

	// If no API key, return guidance for enabling AI integration
	if h.apiKey == "" {
		return h.handleNoAPIKey()
	}

	// Convert MCP messages to OpenAI-compatible format
	messages := h.convertMessages(request.Messages)

	// Prepare API request
	model := h.selectModel(request.ModelPreferences)
	requestMessages := h.prepareMessages(messages, request.SystemPrompt)
	apiRequest := h.buildAPIRequest(model, requestMessages, request)

	// Create and send HTTP request
	resp, err := h.sendAPIRequest(ctx, apiRequest, buf)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Check response status
	if resp.StatusCode != http.StatusOK {
		return nil, h.handleAPIError(resp, buf)
	}

	// Handle streaming response
	content, modelName, stopReason, err := h.parseStreamingResponse(resp.Body, model)
	if err != nil {
		return nil, fmt.Errorf("error reading streaming response: %w", err)
	}

	return h.buildSamplingResult(content, modelName, stopReason), nil
}

// handleNoAPIKey returns a helpful message when no API key is configured
func (h *DefaultSamplingHandler) handleNoAPIKey() (*mcp.CreateMessageResult, error) {
	response := "AI API key not configured. Set NX_AI_APIKEY or configure the ai.apiKey field in the config file to enable certificate analysis. " +
		"Until then, the server will return static information only."

	return &mcp.CreateMessageResult{
		SamplingMessage: mcp.SamplingMessage{
			Role:    mcp.RoleAssistant,
			Content: mcp.NewTextContent(response),
		},
		Model:      "not-configured",
		StopReason: "end",
	}, nil
}

// convertMessages converts MCP messages to OpenAI-compatible format
func (h *DefaultSamplingHandler) convertMessages(mcpMessages []mcp.SamplingMessage) []map[string]any {
	var messages []map[string]any
	for _, msg := range mcpMessages {
		message := map[string]any{
			"role": string(msg.Role),
		}

		// Handle different content types
		if textContent, ok := msg.Content.(mcp.TextContent); ok {
			message["content"] = textContent.Text
		} else {
			// For other content types, convert to string representation
			message["content"] = fmt.Sprintf("%v", msg.Content)
		}

		messages = append(messages, message)
	}
	return messages
}

// selectModel chooses the appropriate model based on preferences
func (h *DefaultSamplingHandler) selectModel(preferences *mcp.ModelPreferences) string {
	model := h.model // Use configured default model
	if preferences != nil && len(preferences.Hints) > 0 {
		// Use the first model hint if available
		model = preferences.Hints[0].Name
	}
	return model
}

// prepareMessages adds system prompt if provided
func (h *DefaultSamplingHandler) prepareMessages(messages []map[string]any, systemPrompt string) []map[string]any {
	if systemPrompt == "" {
		return messages
	}

	systemMessage := map[string]any{
		"role":    "system",
		"content": systemPrompt,
	}
	return append([]map[string]any{systemMessage}, messages...)
}

// buildAPIRequest creates the API request payload
func (h *DefaultSamplingHandler) buildAPIRequest(model string, messages []map[string]any, request mcp.CreateMessageRequest) map[string]any {
	apiRequest := map[string]any{
		"model":       model,
		"messages":    messages,
		"max_tokens":  request.MaxTokens,
		"temperature": request.Temperature,
		"stream":      true, // Enable streaming for better performance and real-time responses
	}

	// Add stop sequences if provided
	if len(request.StopSequences) > 0 {
		apiRequest["stop"] = request.StopSequences
	}

	return apiRequest
}

// sendAPIRequest creates and sends the HTTP request
func (h *DefaultSamplingHandler) sendAPIRequest(ctx context.Context, apiRequest map[string]any, _ gc.Buffer) (*http.Response, error) {
	// Marshal request to JSON
	reqBody, err := json.Marshal(apiRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal API request: %w", err)
	}

	// Create HTTP request using bytes.Reader for request body
	req, err := http.NewRequestWithContext(ctx, "POST", h.endpoint+"/v1/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	// Set headers
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.apiKey)
	req.Header.Set("User-Agent", "NX-Certificate-Chain-Resolver-MCP/"+h.version+" (+https://github.com/H0llyW00dzZ/nx-cert-chain-resolver)")

	// Make the request
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call AI API: %w", err)
	}

	return resp, nil
}

// handleAPIError processes API error responses
func (h *DefaultSamplingHandler) handleAPIError(resp *http.Response, buf gc.Buffer) error {
	// Read error response body using buffer pool
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return fmt.Errorf("AI API error (status %d): failed to read error response: %w", resp.StatusCode, err)
	}
	return fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(buf.Bytes()))
}

// parseStreamingResponse handles the streaming response parsing
func (h *DefaultSamplingHandler) parseStreamingResponse(body io.Reader, defaultModel string) (string, string, string, error) {
	var fullContent strings.Builder
	modelName := defaultModel
	stopReason := "stop"

	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := scanner.Text()

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		// Parse Server-Sent Events format
		if data, found := strings.CutPrefix(line, "data: "); found {
			// Handle end of stream
			if data == "[DONE]" {
				break
			}

			// Parse JSON chunk
			var chunk map[string]any
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue // Skip malformed chunks
			}

			// Extract model name if available
			if modelFromChunk, ok := chunk["model"].(string); ok && modelName == defaultModel {
				modelName = modelFromChunk
			}

			// Process choices
			if choices, ok := chunk["choices"].([]any); ok && len(choices) > 0 {
				if choice, ok := choices[0].(map[string]any); ok {
					// Extract delta content
					if delta, ok := choice["delta"].(map[string]any); ok {
						if content, ok := delta["content"].(string); ok {
							fullContent.WriteString(content)
							// Stream token via callback if configured
							if h.TokenCallback != nil {
								h.TokenCallback(content)
							}
						}
					}

					// Check for finish reason
					if finishReason, ok := choice["finish_reason"].(string); ok && finishReason != "" {
						stopReason = finishReason
					}
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return "", "", "", err
	}

	return fullContent.String(), modelName, stopReason, nil
}

// buildSamplingResult creates the final sampling result
func (h *DefaultSamplingHandler) buildSamplingResult(content, modelName, stopReason string) *mcp.CreateMessageResult {
	return &mcp.CreateMessageResult{
		SamplingMessage: mcp.SamplingMessage{
			Role:    mcp.RoleAssistant,
			Content: mcp.NewTextContent(content),
		},
		Model:      modelName,
		StopReason: stopReason,
	}
}

// SamplingRequestMarker is a special result that indicates a sampling request should be made
type SamplingRequestMarker struct {
	Request SamplingRequest
}

// SamplingRequest represents a request for AI sampling from a handler
type SamplingRequest struct {
	Messages     []mcp.SamplingMessage
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
}
