// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestHandleAnalyzeCertificateWithAI_Resilience(t *testing.T) {
	// A two-member raw chain so the linkage context has something to verify
	chainB64 := base64.StdEncoding.EncodeToString(append(
		testSignedCert("Root", "CA00000003"),
		testSignedCert("Root-CA00000003", "XS00000020")...,
	))

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "analyze_certificate_with_ai",
			Arguments: map[string]any{
				"certificate":   chainB64,
				"analysis_type": "security",
			},
		},
	}

	// No API key configured: the handler must still produce the full context
	config := &Config{}
	config.Defaults.Timeout = 1
	config.AI.APIKey = ""

	ctx := context.Background()

	// Execute
	result, err := handleAnalyzeCertificateWithAI(ctx, req, config)
	if err != nil {
		t.Fatalf("handleAnalyzeCertificateWithAI returned error: %v", err)
	}

	// Verify result
	content, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("expected text content result")
	}

	// Check the AI fallback message is present
	if !strings.Contains(content.Text, "No AI API key configured") {
		t.Error("expected no API key warning")
	}
	if !strings.Contains(content.Text, "Certificate Context Prepared") {
		t.Error("expected prepared context marker")
	}

	// Every chain member must appear in the prepared context
	if !strings.Contains(content.Text, "CA00000003") || !strings.Contains(content.Text, "XS00000020") {
		t.Error("result missing chain member names")
	}

	// The context sections must all survive the fallback path
	if !strings.Contains(content.Text, "=== CERTIFICATE 1 ===") {
		t.Error("expected per-member context section")
	}
	if !strings.Contains(content.Text, "=== CHAIN LINKAGE CONTEXT ===") {
		t.Error("expected chain linkage section in context")
	}
	if !strings.Contains(content.Text, "=== FORMAT CONTEXT ===") {
		t.Error("expected format notes section in context")
	}

	// Linkage checking must confirm the derivation rule holds for this chain
	if !strings.Contains(content.Text, "issued directly by the root authority") {
		t.Error("expected root issuance confirmation for the first member")
	}
	if !strings.Contains(content.Text, "properly issued under Certificate 1") {
		t.Error("expected linkage confirmation for the second member")
	}

	// The requested analysis type selects the instruction block
	if !strings.Contains(content.Text, "SECURITY ANALYSIS REQUEST") {
		t.Error("expected security analysis instructions")
	}
}

func TestHandleAnalyzeCertificateWithAI_Sampling(t *testing.T) {
	// Exercise the "sampling failed" path: a configured API key makes the
	// handler call the AI endpoint, and an unreachable endpoint with a short
	// timeout turns that call into a fast failure.
	certB64 := base64.StdEncoding.EncodeToString(testSignedCert("Root", "CA00000003"))

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "analyze_certificate_with_ai",
			Arguments: map[string]any{
				"certificate":   certB64,
				"analysis_type": "structure",
			},
		},
	}

	// Config with unreachable endpoint
	config := &Config{}
	config.Defaults.Timeout = 10
	config.AI.APIKey = "test-key"
	config.AI.Endpoint = "http://192.0.2.1:12345" // Test-Net-1 (reserved, unreachable)
	config.AI.Timeout = 1

	ctx := context.Background()
	result, err := handleAnalyzeCertificateWithAI(ctx, req, config)

	// It should NOT return error, but return a ToolResult with the error message
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("expected text content")
	}

	if !strings.Contains(content.Text, "AI Analysis Request Failed") {
		t.Errorf("expected failure message, got: %s", content.Text)
	}
}
