// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/mcp-server/templates"
	"github.com/mark3labs/mcp-go/mcp"
)

// promptTemplateData holds the data used to populate prompt templates.
type promptTemplateData struct {
	Issuer          string
	StorePath       string
	CertificateName string
	IssueType       string
	ImagePath       string
	RightsID        string
	DetailLevel     string
}

// parsePromptTemplate parses a prompt template file and converts it to MCP messages.
//
// This function reads a template file from the provided embedded filesystem, executes
// it with the provided data, and converts the structured content into MCP prompt messages.
// The template-based approach enables dynamic content generation instead of hardcoded values,
// making prompts more maintainable and flexible.
//
// Parameters:
//   - embed: Embedded filesystem holding the template files
//   - templateName: Name of the template file (without .md extension)
//   - data: Template data to populate placeholders
//
// Returns:
//   - []mcp.PromptMessage: Parsed MCP messages
//   - error: Any error during template execution or parsing
func parsePromptTemplate(embed templates.EmbedFS, templateName string, data promptTemplateData) ([]mcp.PromptMessage, error) {
	// Read the template file
	templateContent, err := embed.ReadFile(templateName + ".md")
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", templateName, err)
	}

	// Parse the template
	tmpl, err := template.New(templateName).Parse(string(templateContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	// Execute the template
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	content := buf.String()

	// Parse the executed content into MCP messages
	var messages []mcp.PromptMessage
	lines := strings.Split(content, "\n")
	var currentRole mcp.Role
	var currentContent strings.Builder

	for _, line := range lines {
		line = strings.TrimSpace(line)

		// Check for role markers first (before skipping headers)
		if strings.HasPrefix(line, "### Assistant:") || strings.HasPrefix(line, "##### Assistant:") {
			// Save previous message if any
			if currentContent.Len() > 0 {
				messages = append(messages, mcp.NewPromptMessage(
					currentRole,
					mcp.NewTextContent(strings.TrimSpace(currentContent.String())),
				))
				currentContent.Reset()
			}
			currentRole = mcp.RoleAssistant
			continue
		}

		if strings.HasPrefix(line, "### User:") || strings.HasPrefix(line, "##### User:") {
			// Save previous message if any
			if currentContent.Len() > 0 {
				messages = append(messages, mcp.NewPromptMessage(
					currentRole,
					mcp.NewTextContent(strings.TrimSpace(currentContent.String())),
				))
				currentContent.Reset()
			}
			currentRole = mcp.RoleUser
			continue
		}

		// Skip empty lines and headers
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Add line to current content if we have a role
		if currentRole != "" {
			if currentContent.Len() > 0 {
				currentContent.WriteString("\n")
			}
			currentContent.WriteString(line)
		}
	}

	// Add final message if any
	if currentContent.Len() > 0 {
		messages = append(messages, mcp.NewPromptMessage(
			currentRole,
			mcp.NewTextContent(strings.TrimSpace(currentContent.String())),
		))
	}

	return messages, nil
}

// handleCertificateAnalysisPrompt handles the certificate analysis workflow prompt.
//
// This function implements the certificate-analysis prompt, which provides
// a comprehensive workflow for analyzing certificate chains stored in an
// ES certificate store. It guides users through systematic steps including
// chain resolution, classification review, and result analysis.
//
// Parameters:
//   - ctx: Context for the request, used for cancellation and timeouts
//   - request: The MCP get prompt request containing arguments
//
// Returns:
//   - *mcp.GetPromptResult: The prompt result with workflow messages
//   - error: Any error that occurred during prompt handling
//
// The workflow includes:
//  1. Certificate chain resolution using the resolve_cert_chain tool
//  2. Per-certificate classification using the classify_certificate tool
//  3. Raw chain export using the export_raw_chain tool
//  4. Result analysis and recommendations
//
// Expected arguments in request.Params.Arguments:
//   - issuer: Issuer string identifying the chain (e.g. 'Root-CA00000003-XS00000020')
//   - store_path: Path to the certificate store directory
func handleCertificateAnalysisPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	issuer := request.Params.Arguments["issuer"]
	storePath := request.Params.Arguments["store_path"]

	messages, err := parsePromptTemplate(templates.MagicEmbed, "certificate-analysis-prompt", promptTemplateData{
		Issuer:    issuer,
		StorePath: storePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate analysis template: %w", err)
	}

	return mcp.NewGetPromptResult(
		"Certificate Chain Analysis Workflow",
		messages,
	), nil
}

// handleStoreTroubleshootingPrompt handles the store troubleshooting prompt.
//
// This function implements the store-troubleshooting prompt, which provides
// targeted guidance for common certificate store issues based on the
// specified issue type. It offers context-specific troubleshooting steps
// and common solutions for different problem categories.
//
// Parameters:
//   - ctx: Context for the request, used for cancellation and timeouts
//   - request: The MCP get prompt request containing arguments
//
// Returns:
//   - *mcp.GetPromptResult: The prompt result with troubleshooting guidance
//   - error: Any error that occurred during prompt handling
//
// Supported issue types:
//   - missing: Certificate entries not found in the store
//   - truncated: Store files shorter than their declared records
//   - classification: Unsupported signature or public key type values
//   - session: Store open, reuse, and close lifecycle problems
//
// Expected arguments in request.Params.Arguments:
//   - issue_type: Type of issue ('missing', 'truncated', 'classification', 'session')
//   - certificate_name: Name of the certificate entry involved (for missing/truncated issues)
//   - store_path: Path to the certificate store directory
func handleStoreTroubleshootingPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	issueType := request.Params.Arguments["issue_type"]
	certName := request.Params.Arguments["certificate_name"]
	storePath := request.Params.Arguments["store_path"]

	messages, err := parsePromptTemplate(templates.MagicEmbed, "store-troubleshooting-prompt", promptTemplateData{
		IssueType:       issueType,
		CertificateName: certName,
		StorePath:       storePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse store troubleshooting template: %w", err)
	}

	return mcp.NewGetPromptResult(
		"Certificate Store Troubleshooting Guide",
		messages,
	), nil
}

// handleResourceMonitoringPrompt handles the resource monitoring prompt.
//
// This function implements the resource-monitoring prompt, which provides
// guidance for monitoring server resource usage and certificate cache health
// through the get_resource_usage tool.
//
// Parameters:
//   - ctx: Context for the request, used for cancellation and timeouts
//   - request: The MCP get prompt request containing arguments
//
// Returns:
//   - *mcp.GetPromptResult: The prompt result with monitoring guidance
//   - error: Any error that occurred during prompt handling
//
// The prompt helps users:
//   - Read memory and goroutine metrics correctly
//   - Interpret certificate cache hit rates and evictions
//   - Decide when cache limits or TTLs need tuning
//
// Expected arguments in request.Params.Arguments:
//   - detail_level: Level of detail ('summary' or 'detailed', default: summary)
func handleResourceMonitoringPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	detailLevel := request.Params.Arguments["detail_level"]
	if detailLevel == "" {
		detailLevel = "summary"
	}

	messages, err := parsePromptTemplate(templates.MagicEmbed, "resource-monitoring-prompt", promptTemplateData{
		DetailLevel: detailLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse resource monitoring template: %w", err)
	}

	return mcp.NewGetPromptResult(
		"Server Resource Monitoring",
		messages,
	), nil
}

// handleGamecardExportPrompt builds the gamecard export workflow prompt handler.
//
// Unlike the other prompt handlers, this one is bound to an embedded filesystem
// during server construction so the workflow template can be swapped out in tests.
//
// Parameters:
//   - embed: Embedded filesystem holding the template files
//
// Returns:
//   - PromptHandler: Handler producing the gamecard export workflow
//
// The workflow includes:
//  1. Raw chain extraction using the gamecard_raw_chain tool
//  2. Verifying the rights identifier and derived entry name
//  3. Handling short partition images and absent entries
//
// Expected arguments in request.Params.Arguments:
//   - image_path: Path to the gamecard certificate partition image
//   - rights_id: Rights identifier as 32 hexadecimal characters
func handleGamecardExportPrompt(embed templates.EmbedFS) PromptHandler {
	return func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		imagePath := request.Params.Arguments["image_path"]
		rightsID := request.Params.Arguments["rights_id"]

		messages, err := parsePromptTemplate(embed, "gamecard-export-prompt", promptTemplateData{
			ImagePath: imagePath,
			RightsID:  rightsID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to parse gamecard export template: %w", err)
		}

		return mcp.NewGetPromptResult(
			"Gamecard Certificate Export Workflow",
			messages,
		), nil
	}
}
