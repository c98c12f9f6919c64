// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	escerts "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/certs"
	eschain "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/chain"
	esstore "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/store"
	"github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/gamecard"
	"github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/mcp-server/templates"
	"github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/version"
	"github.com/mark3labs/mcp-go/mcp"
)

// handleClassifyCertificate classifies raw signed certificate data from a file path or base64 input.
// It decodes the signature and public key type fields and reports the composite classification.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing certificate input
//
// Returns:
//   - The tool execution result containing the classification details
//   - An error if certificate decoding fails
//
// The function accepts either a single signed certificate or a whole raw chain blob;
// concatenated members are classified individually in chain order.
func handleClassifyCertificate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract arguments
	certInput, err := request.RequireString("certificate")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("certificate parameter required: %v", err)), nil
	}

	// Read certificate data
	var certData []byte

	// Try to read as file first
	if fileData, err := os.ReadFile(certInput); err == nil {
		certData = fileData
	} else {
		// Try to decode as base64
		if decoded, err := base64.StdEncoding.DecodeString(certInput); err == nil {
			certData = decoded
		} else {
			return mcp.NewToolResultError("failed to read certificate: not a valid file path or base64 data"), nil
		}
	}

	// Decode certificate(s) - the input may hold a whole raw chain
	decoder := escerts.New()
	certs, err := decoder.DecodeMultiple(certData)
	if err != nil {
		// Try single cert (tolerates trailing bytes within the size bounds)
		cert, err := decoder.Decode(certData)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to classify certificate: %v", err)), nil
		}
		certs = []*escerts.Certificate{cert}
	}

	// Build result with per-member classification
	result := "Certificate classification results:\n\n"
	for i, cert := range certs {
		result += fmt.Sprintf("Certificate %d: %s\n", i+1, cert.Name)
		result += fmt.Sprintf("  Issuer: %s\n", cert.Issuer)
		result += fmt.Sprintf("  Type: %s\n", cert.Type)
		result += fmt.Sprintf("  Signature: %s (block %#x bytes)\n", cert.SigType, len(cert.SignatureBlock()))
		result += fmt.Sprintf("  Public Key: %s (block %#x bytes)\n", cert.PubKeyType, len(cert.PublicKeyBlock()))
		result += fmt.Sprintf("  Date Field: %#08x\n", cert.Date)
		result += fmt.Sprintf("  Signed Size: %#x (%d bytes)\n\n", cert.Size(), cert.Size())
	}
	result += fmt.Sprintf("Total: %d certificate(s)", len(certs))

	return mcp.NewToolResultText(result), nil
}

// handleRetrieveCertificate retrieves a single certificate entry from an ES certificate store.
// It opens a store session, reads and classifies the named entry, and formats the output.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing the entry name and store options
//   - config: Server configuration providing the default store path
//
// Returns:
//   - The tool execution result containing certificate metadata or raw record data
//   - An error if the store lookup or decoding fails
//
// The store path resolves from the request first and the server configuration second.
// The 'json' format returns decoded metadata; 'base64' returns the raw record bytes.
func handleRetrieveCertificate(ctx context.Context, request mcp.CallToolRequest, config *Config) (*mcp.CallToolResult, error) {
	// Extract arguments
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("name parameter required: %v", err)), nil
	}

	format := request.GetString("format", "json")

	resolver, storePath, err := storeResolverFor(request, config)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cert, err := resolver.RetrieveCertificate(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to retrieve certificate: %v", err)), nil
	}

	switch format {
	case "base64":
		result := fmt.Sprintf("Certificate %q retrieved from %s (%d bytes):\n\n", cert.Name, storePath, cert.Size())
		result += base64.StdEncoding.EncodeToString(cert.Data)
		return mcp.NewToolResultText(result), nil
	default: // json
		info := map[string]any{
			"name":          cert.Name,
			"issuer":        cert.Issuer,
			"type":          cert.Type.String(),
			"signatureType": cert.SigType.String(),
			"publicKeyType": cert.PubKeyType.String(),
			"date":          cert.Date,
			"size":          cert.Size(),
			"storePath":     storePath,
		}
		jsonData, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to format certificate info: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// handleResolveCertChain resolves a complete certificate chain from an ES certificate store.
// It splits the issuer into member names, retrieves every member in order, and formats the output.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing the issuer and store options
//   - config: Server configuration providing the default store path
//
// Returns:
//   - The tool execution result containing the resolved certificate chain
//   - An error if issuer validation or any member retrieval fails
//
// Resolution is all-or-nothing: a single failing member fails the whole chain.
// The function supports 'json' output with per-member details and a one-line 'summary'.
func handleResolveCertChain(ctx context.Context, request mcp.CallToolRequest, config *Config) (*mcp.CallToolResult, error) {
	// Extract arguments
	issuer, err := request.RequireString("issuer")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("issuer parameter required: %v", err)), nil
	}

	format := request.GetString("format", "json")

	resolver, _, err := storeResolverFor(request, config)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	chain, err := resolver.RetrieveChain(issuer)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to resolve certificate chain: %v", err)), nil
	}

	// Format output
	var output string
	switch format {
	case "summary":
		output = chain.Summary()
	default: // json
		output = formatChainJSON(chain)
	}

	// Build result with chain information
	chainInfo := "Certificate chain resolved successfully:\n"
	for i, c := range chain.Certs {
		chainInfo += fmt.Sprintf("%d: %s\n", i+1, c.Name)
	}
	chainInfo += fmt.Sprintf("\nTotal: %d certificate(s)\n\n", chain.Count())
	chainInfo += output

	return mcp.NewToolResultText(chainInfo), nil
}

// handleExportRawChain exports a resolved certificate chain as concatenated raw records.
// It resolves the chain, serializes the members back to back, and writes or returns the bytes.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing the issuer, store, and output options
//   - config: Server configuration providing the default store path
//
// Returns:
//   - The tool execution result describing the exported chain
//   - An error if resolution or the file write fails
//
// With output_path set the raw chain is written to that file; otherwise the bytes
// are returned base64-encoded in the response. The serialized length always equals
// the summed raw size of the members.
func handleExportRawChain(ctx context.Context, request mcp.CallToolRequest, config *Config) (*mcp.CallToolResult, error) {
	// Extract arguments
	issuer, err := request.RequireString("issuer")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("issuer parameter required: %v", err)), nil
	}

	outputPath := request.GetString("output_path", "")

	resolver, _, err := storeResolverFor(request, config)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	chain, err := resolver.RetrieveChain(issuer)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to resolve certificate chain: %v", err)), nil
	}

	raw := chain.Serialize()

	// Build result with member breakdown
	result := "Raw certificate chain exported:\n"
	for i, c := range chain.Certs {
		result += fmt.Sprintf("%d: %s (%#x bytes)\n", i+1, c.Name, c.Size())
	}
	result += fmt.Sprintf("\nTotal: %s\n", chain.Summary())

	if outputPath != "" {
		if err := os.WriteFile(outputPath, raw, 0644); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to write raw chain: %v", err)), nil
		}
		result += fmt.Sprintf("Written to: %s", outputPath)
		return mcp.NewToolResultText(result), nil
	}

	result += "\n" + base64.StdEncoding.EncodeToString(raw)
	return mcp.NewToolResultText(result), nil
}

// handleVisualizeCertChain visualizes a resolved certificate chain in multiple formats.
// It resolves the chain from the store and renders it for analysis and documentation.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing the issuer, store, and format options
//   - config: Server configuration providing the default store path
//
// Returns:
//   - The tool execution result containing the certificate chain visualization
//   - An error if resolution or rendering fails
//
// The function supports multiple output formats:
//   - "tree": ASCII tree diagram showing the chain hierarchy
//   - "table": Markdown table with per-member details
//   - "json": Structured JSON export for external tools
func handleVisualizeCertChain(ctx context.Context, request mcp.CallToolRequest, config *Config) (*mcp.CallToolResult, error) {
	// Extract arguments
	issuer, err := request.RequireString("issuer")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("issuer parameter required: %v", err)), nil
	}

	format := request.GetString("format", "tree")

	resolver, _, err := storeResolverFor(request, config)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	chain, err := resolver.RetrieveChain(issuer)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to resolve certificate chain: %v", err)), nil
	}

	// Generate visualization based on format
	var result string
	switch format {
	case "tree":
		result = chain.RenderASCIITree()
	case "table":
		result = chain.RenderTable()
	case "json":
		jsonData, err := chain.ToVisualizationJSON()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to generate JSON visualization: %v", err)), nil
		}
		result = string(jsonData)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unsupported format '%s', supported formats: tree, table, json", format)), nil
	}

	return mcp.NewToolResultText(result), nil
}

// handleGamecardRawChain extracts a pre-built raw certificate chain from a gamecard partition image.
// It parses the rights identifier, opens the partition, and reads the matching chain entry.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing image path, rights ID, and output options
//
// Returns:
//   - The tool execution result describing the extracted raw chain
//   - An error if parsing, partition access, or the file write fails
//
// The chain entry is named after the 32-character lowercase hex form of the rights
// identifier. Because the entry holds an already concatenated chain, only the
// single-certificate lower size bound applies to it.
func handleGamecardRawChain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract arguments
	imagePath, err := request.RequireString("image_path")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("image_path parameter required: %v", err)), nil
	}

	rightsIDInput, err := request.RequireString("rights_id")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rights_id parameter required: %v", err)), nil
	}

	outputPath := request.GetString("output_path", "")

	rightsID, err := gamecard.ParseRightsID(rightsIDInput)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid rights ID: %v", err)), nil
	}

	image, err := os.Open(imagePath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open partition image: %v", err)), nil
	}
	defer image.Close()

	info, err := image.Stat()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to stat partition image: %v", err)), nil
	}

	partition, err := gamecard.OpenPartition(image, info.Size())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open partition: %v", err)), nil
	}

	raw, err := gamecard.NewChainSource(partition).RawChainByRightsID(rightsID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to extract raw chain: %v", err)), nil
	}

	// Build result, describing members when the raw chain decodes cleanly
	result := fmt.Sprintf("Raw certificate chain extracted for rights ID %s:\n", rightsID)
	if certs, err := escerts.New().DecodeMultiple(raw); err == nil {
		for i, c := range certs {
			result += fmt.Sprintf("%d: %s (%s)\n", i+1, c.Name, c.Type)
		}
	}
	result += fmt.Sprintf("\nTotal: %d bytes raw\n", len(raw))

	if outputPath != "" {
		if err := os.WriteFile(outputPath, raw, 0644); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to write raw chain: %v", err)), nil
		}
		result += fmt.Sprintf("Written to: %s", outputPath)
		return mcp.NewToolResultText(result), nil
	}

	result += "\n" + base64.StdEncoding.EncodeToString(raw)
	return mcp.NewToolResultText(result), nil
}

// handleAnalyzeCertificateWithAI analyzes certificate data using AI collaboration through sampling.
// It builds a structural analysis context from the decoded chain and requests an AI assessment
// using bidirectional communication.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing certificate input and analysis type
//   - config: Server configuration containing AI API settings and defaults
//
// Returns:
//   - The tool execution result containing AI-powered certificate analysis
//   - An error if certificate processing or AI analysis fails
//
// The function supports general, security, and structure analysis types. If no AI API key
// is configured, it returns a helpful message with the prepared analysis context.
// When AI is available, it uses embedded system prompts and streaming responses.
func handleAnalyzeCertificateWithAI(ctx context.Context, request mcp.CallToolRequest, config *Config) (*mcp.CallToolResult, error) {
	certInput, err := request.RequireString("certificate")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("certificate parameter required: %v", err)), nil
	}

	analysisType := request.GetString("analysis_type", "general")

	// Read certificate data
	var certData []byte
	if fileData, err := os.ReadFile(certInput); err == nil {
		certData = fileData
	} else {
		// Try to decode as base64
		if decoded, err := base64.StdEncoding.DecodeString(certInput); err == nil {
			certData = decoded
		} else {
			return mcp.NewToolResultError("failed to read certificate: not a valid file path or base64 data"), nil
		}
	}

	// Decode certificate(s) - could be a whole raw chain
	decoder := escerts.New()
	certs, err := decoder.DecodeMultiple(certData)
	if err != nil {
		// Try single cert
		cert, err := decoder.Decode(certData)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to decode certificate: %v", err)), nil
		}
		certs = []*escerts.Certificate{cert}
	}

	chain := &eschain.Chain{Certs: certs}

	// Build comprehensive certificate context for AI analysis
	certificateContext := buildCertificateContext(chain, analysisType)

	// Use context engineering as the primary prompt for AI analysis
	analysisPrompt := certificateContext + "\n\n" + getAnalysisInstruction(analysisType)

	// Try to get AI analysis if API key is configured
	if config.AI.APIKey != "" {
		// Read system prompt from embedded template
		systemPromptBytes, err := templates.MagicEmbed.ReadFile("certificate-analysis-system-prompt.md")
		systemPrompt := ""
		if err == nil {
			systemPrompt = string(systemPromptBytes)
		} else {
			// Fallback system prompt if file cannot be read
			systemPrompt = "You are a certificate structure analyzer. Follow these exact instructions for analyzing signed console certificates."
		}

		// Create sampling handler for this request
		samplingHandler := NewDefaultSamplingHandler(config, version.Version)

		// Prepare sampling request with system prompt
		samplingRequest := mcp.CreateMessageRequest{
			CreateMessageParams: mcp.CreateMessageParams{
				Messages: []mcp.SamplingMessage{
					{
						Role:    mcp.RoleUser,
						Content: mcp.TextContent{Text: analysisPrompt},
					},
				},
				SystemPrompt: systemPrompt,
				MaxTokens:    config.AI.MaxTokens,
				Temperature:  config.AI.Temperature,
			},
		}

		// Bound the whole sampling call by the operation timeout
		samplingCtx, cancel := context.WithTimeout(ctx, time.Duration(config.Defaults.Timeout)*time.Second)
		defer cancel()

		// Call the AI API
		samplingResult, err := samplingHandler.CreateMessage(samplingCtx, samplingRequest)
		if err != nil {
			// If sampling fails, return only the error
			result := fmt.Sprintf("AI Analysis Request Failed: %v", err)
			return mcp.NewToolResultText(result), nil
		}

		// Return the AI's analysis
		result := fmt.Sprintf("🤖 AI-Powered Certificate Analysis (%s)\n\n", analysisType)
		result += "Analysis provided by AI assistant:\n\n"
		if textContent, ok := samplingResult.SamplingMessage.Content.(mcp.TextContent); ok {
			result += textContent.Text
		} else {
			result += "AI provided analysis (content format not supported for display)"
		}
		result += fmt.Sprintf("\n\n---\n*AI Model: %s*", samplingResult.Model)

		return mcp.NewToolResultText(result), nil
	}

	// Fallback: Show what would be sent to AI (no API key configured)
	result := fmt.Sprintf("AI Collaborative Analysis (%s)\n\n", analysisType)
	result += "⚠️  No AI API key configured. To enable real AI analysis:\n"
	result += "   1. Set NX_AI_APIKEY environment variable, or\n"
	result += "   2. Configure 'ai.apiKey' in your config file\n\n"
	result += "📋 Certificate Context Prepared for AI Analysis:\n"
	result += certificateContext
	result += fmt.Sprintf("\n\n💭 Analysis Prompt Ready:\n%s", analysisPrompt)
	result += "\n\n🔄 With API key configured, this would send the context to AI for intelligent analysis."

	return mcp.NewToolResultText(result), nil
}

// handleGetResourceUsage handles requests for current resource usage statistics including memory, GC, and certificate cache metrics.
// It collects comprehensive system and application resource data and formats it according to the requested output format.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing format and detail level parameters
//
// Returns:
//   - The tool execution result containing formatted resource usage data
//   - An error if resource collection or formatting fails
//
// The function supports both JSON and Markdown output formats, with optional detailed metrics
// including certificate cache statistics, memory breakdown, and system information.
func handleGetResourceUsage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	detailed := request.GetBool("detailed", false)
	format := request.GetString("format", "json")

	// Collect resource usage data
	data := CollectResourceUsage(detailed)

	// Format output based on format parameter
	switch format {
	case "markdown":
		markdown := FormatResourceUsageAsMarkdown(data)
		return mcp.NewToolResultText(markdown), nil
	case "json":
		fallthrough
	default:
		jsonData, err := FormatResourceUsageAsJSON(data)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to format resource usage: %v", err)), nil
		}

		// Parse the JSON string back to a map for structured content
		var structuredData map[string]any
		if err := json.Unmarshal([]byte(jsonData), &structuredData); err != nil {
			// Fallback to text if parsing fails
			return mcp.NewToolResultText(jsonData), nil
		}

		// Return structured JSON content for programmatic access
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(jsonData),
			},
			StructuredContent: structuredData,
			IsError:           false,
		}, nil
	}
}

// storeResolverFor builds a cache-enabled chain resolver for the store named by the request.
// The store path resolves from the store_path argument first and the configured default second.
//
// Parameters:
//   - request: MCP tool call request that may carry a store_path argument
//   - config: Server configuration providing the default store path
//
// Returns:
//   - A chain resolver bound to the store directory
//   - The resolved store path
//   - An error when neither the request nor the configuration names a store
func storeResolverFor(request mcp.CallToolRequest, config *Config) (*eschain.Resolver, string, error) {
	storePath := request.GetString("store_path", config.Defaults.StorePath)
	if storePath == "" {
		return nil, "", fmt.Errorf("no store path provided: pass store_path or set defaults.storePath in the server config")
	}

	resolver := eschain.New(esstore.NewDirContainer(storePath), version.Version)
	resolver.EnableCache = true
	return resolver, storePath, nil
}

// formatChainJSON formats a resolved chain into a structured JSON representation.
// It creates a comprehensive JSON object containing member metadata and chain totals.
//
// Parameters:
//   - chain: Resolved certificate chain to format
//
// Returns:
//   - A JSON string containing structured chain information with title, totals, and member list
//
// The JSON output includes name, issuer, composite type, signature and public key types,
// raw size, and the date field for each member. This format is suitable for programmatic
// processing and analysis.
func formatChainJSON(chain *eschain.Chain) string {
	type CertInfo struct {
		Name          string `json:"name"`
		Issuer        string `json:"issuer"`
		Type          string `json:"type"`
		SignatureType string `json:"signatureType"`
		PublicKeyType string `json:"publicKeyType"`
		Size          int    `json:"size"`
		Date          uint32 `json:"date"`
	}

	certInfos := make([]CertInfo, len(chain.Certs))
	for i, cert := range chain.Certs {
		certInfos[i] = CertInfo{
			Name:          cert.Name,
			Issuer:        cert.Issuer,
			Type:          cert.Type.String(),
			SignatureType: cert.SigType.String(),
			PublicKeyType: cert.PubKeyType.String(),
			Size:          cert.Size(),
			Date:          cert.Date,
		}
	}

	output := map[string]any{
		"title":            "ES Certificate Chain",
		"totalChained":     chain.Count(),
		"totalRawSize":     chain.TotalSize(),
		"listCertificates": certInfos,
	}

	jsonData, _ := json.MarshalIndent(output, "", "  ")
	return string(jsonData)
}

// buildCertificateContext creates comprehensive context information about a certificate chain for AI analysis.
// It builds detailed structural context covering identity fields, cryptographic families, and binary layout.
//
// Parameters:
//   - chain: Certificate chain to analyze
//   - analysisType: Type of analysis (general, security, structure)
//
// Returns:
//   - A formatted string containing comprehensive certificate context
//
// This function provides complete chain analysis context including per-member identity,
// type classification, block layout, and linkage relationships for AI-powered assessment.
// It uses helper functions to organize information into logical sections.
func buildCertificateContext(chain *eschain.Chain, analysisType string) string {
	var context strings.Builder

	// Chain overview
	fmt.Fprintf(&context, "Chain Length: %d certificates\n", chain.Count())
	fmt.Fprintf(&context, "Total Raw Size: %d bytes\n", chain.TotalSize())
	fmt.Fprintf(&context, "Analysis Type: %s\n", analysisType)
	fmt.Fprintf(&context, "Current Time: %s UTC\n\n", time.Now().UTC().Format("2006-01-02 15:04:05"))

	// Detailed certificate information
	for i, cert := range chain.Certs {
		fmt.Fprintf(&context, "=== CERTIFICATE %d ===\n", i+1)
		fmt.Fprintf(&context, "Role: %s\n", eschain.MemberRole(i, chain.Count(), cert.Name))

		appendIdentityInfo(&context, cert)
		appendCryptoInfo(&context, cert)
		appendLayoutInfo(&context, cert)

		context.WriteString("\n")
	}

	appendChainLinkageContext(&context, chain.Certs)
	appendFormatContext(&context)

	return context.String()
}

// appendIdentityInfo adds identity fields to the context builder for AI analysis.
// It formats and appends the subject name, issuer string, and raw date field.
//
// Parameters:
//   - context: String builder to append identity information to
//   - cert: Decoded certificate to extract identity fields from
func appendIdentityInfo(context *strings.Builder, cert *escerts.Certificate) {
	context.WriteString("IDENTITY:\n")
	fmt.Fprintf(context, "  Name: %s\n", cert.Name)
	fmt.Fprintf(context, "  Issuer: %s\n", cert.Issuer)
	fmt.Fprintf(context, "  Date Field: %#08x\n", cert.Date)
}

// appendCryptoInfo adds cryptographic classification to the context builder for AI analysis.
// It formats and appends the composite type and its signature and public key components.
//
// Parameters:
//   - context: String builder to append cryptographic information to
//   - cert: Decoded certificate to extract classification from
func appendCryptoInfo(context *strings.Builder, cert *escerts.Certificate) {
	context.WriteString("CRYPTOGRAPHY:\n")
	fmt.Fprintf(context, "  Composite Type: %s\n", cert.Type)
	fmt.Fprintf(context, "  Signature Type: %s\n", cert.SigType)
	fmt.Fprintf(context, "  Public Key Type: %s\n", cert.PubKeyType)
}

// appendLayoutInfo adds binary layout details to the context builder for AI analysis.
// It formats and appends the per-block sizes and the total signed certificate size.
//
// Parameters:
//   - context: String builder to append layout information to
//   - cert: Decoded certificate to extract block sizes from
func appendLayoutInfo(context *strings.Builder, cert *escerts.Certificate) {
	context.WriteString("LAYOUT:\n")
	fmt.Fprintf(context, "  Signature Block: %#x bytes\n", len(cert.SignatureBlock()))
	fmt.Fprintf(context, "  Common Block: %#x bytes\n", len(cert.CommonBlock()))
	fmt.Fprintf(context, "  Public Key Block: %#x bytes\n", len(cert.PublicKeyBlock()))
	fmt.Fprintf(context, "  Signed Size: %#x (%d bytes)\n", cert.Size(), cert.Size())
}

// appendChainLinkageContext adds chain linkage information to the context builder.
// It checks the issuer derivation rule between successive members and reports the results.
//
// Parameters:
//   - context: String builder to append linkage information to
//   - certs: Chain members in issuer order
//
// A subordinate member's issuer must equal its parent's issuer joined with the
// parent's name; the first member must be issued directly by the root authority.
func appendChainLinkageContext(context *strings.Builder, certs []*escerts.Certificate) {
	context.WriteString("=== CHAIN LINKAGE CONTEXT ===\n")
	if len(certs) > 0 {
		first := certs[0]
		if first.Issuer == "Root" {
			fmt.Fprintf(context, "✓ Certificate 1 (%s) is issued directly by the root authority\n", first.Name)
		} else {
			fmt.Fprintf(context, "⚠ Certificate 1 (%s) issuer (%s) is not the root authority\n", first.Name, first.Issuer)
		}
	}

	for i := 0; i < len(certs)-1; i++ {
		expected := certs[i].Issuer + "-" + certs[i].Name
		next := certs[i+1]

		if next.Issuer == expected {
			fmt.Fprintf(context, "✓ Certificate %d (%s) is properly issued under Certificate %d (%s)\n",
				i+2, next.Name, i+1, certs[i].Name)
		} else {
			fmt.Fprintf(context, "⚠ Certificate %d (%s) issuer (%s) doesn't match the expected %s\n",
				i+2, next.Name, next.Issuer, expected)
		}
	}
}

// appendFormatContext adds signed certificate format notes to the context builder.
// It includes information about signature families, size bounds, and linkage conventions.
//
// Parameters:
//   - context: String builder to append format context information to
//
// The notes describe structural facts of the format so the AI can ground its
// assessment without guessing at unfamiliar field semantics.
func appendFormatContext(context *strings.Builder) {
	context.WriteString("\n=== FORMAT CONTEXT ===\n")
	context.WriteString("Signed certificate format notes:\n")
	context.WriteString("- SHA-1 signature variants remain in circulation for legacy certificates\n")
	context.WriteString("- HMAC-160 signed certificates declare a public key family without carrying a usable public key\n")
	context.WriteString("- RSA-4096 typically appears on authority certificates; leaf signers use RSA-2048 or ECC-480\n")
	context.WriteString("- The issuer of a subordinate certificate is the parent issuer joined with the parent name\n")
	context.WriteString("- The date field is a raw big-endian word whose interpretation depends on the issuing tool\n")
	context.WriteString("- Signature verification is out of scope; findings describe structure, not trust\n")
}

// getAnalysisInstruction returns tailored analysis instructions for AI certificate assessment based on the requested analysis type.
// It provides specific prompts for general, security, and structure analysis types.
//
// Parameters:
//   - analysisType: The type of analysis requested ("general", "security", or "structure")
//
// Returns:
//   - A formatted string containing detailed analysis instructions for the AI
//
// The function uses structured prompts that guide the AI to focus on relevant aspects
// of chain analysis, including cryptographic families, binary layout, and linkage
// integrity with specific risk levels and recommendations.
func getAnalysisInstruction(analysisType string) string {
	switch analysisType {
	case "security":
		return `
SECURITY ANALYSIS REQUEST:
Based on the certificate data above, provide a security assessment focusing on:
1. Signature and public key family strength across the chain
2. Presence of legacy SHA-1 signature variants
3. HMAC-160 members and what their presence implies
4. Chain linkage integrity from the root authority down
5. Recommendations for handling weak or unusual members
6. Risk assessment (Critical/High/Medium/Low) with specific findings

Be specific about any concerns found in the certificate types, sizes, or linkage.`

	case "structure":
		return `
STRUCTURE ANALYSIS REQUEST:
Based on the certificate data above, assess the binary structure of the chain:
1. Signature, common, and public key block layout per member
2. Derived signed sizes against the valid size bounds
3. Issuer and name field consistency across members
4. Chain ordering from the root-issued member to the end entity
5. Raw serialization layout and total size
6. Any structural anomalies worth flagging

Identify any deviations from the expected signed certificate layout.`

	default: // general
		return `
GENERAL CERTIFICATE ANALYSIS REQUEST:
Based on the certificate data above, provide a comprehensive analysis covering:
1. Chain composition and member roles
2. Signature and public key family distribution
3. Linkage from the root authority to the end entity
4. Notable characteristics or potential concerns
5. Operational recommendations for store maintenance

Provide actionable insights for certificate store management.`
	}
}
