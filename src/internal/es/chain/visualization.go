// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package eschain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// chainPrinter formats counts and byte totals with digit grouping.
var chainPrinter = message.NewPrinter(language.English)

// RenderASCIITree renders the certificate chain as an ASCII tree diagram.
//
// It displays the chain hierarchy with visual connectors, starting from the
// member issued directly by the root authority down to the end entity.
//
// Returns:
//   - string: ASCII tree representation of the certificate chain
//
// Thread Safety: Safe for concurrent use (chains are immutable).
func (ch *Chain) RenderASCIITree() string {
	if len(ch.Certs) == 0 {
		return "No certificates in chain"
	}

	var result strings.Builder
	result.WriteString("Root (implicit authority)\n")

	for i, cert := range ch.Certs {
		isLast := i == len(ch.Certs)-1

		// Certificate connector
		connector := "├── "
		if isLast {
			connector = "└── "
		}

		role := MemberRole(i, len(ch.Certs), cert.Name)
		certInfo := fmt.Sprintf("[%s] %s (%s)", cert.Type, cert.Name, role)

		result.WriteString(strings.Repeat("    ", i) + connector + certInfo + "\n")
	}

	return result.String()
}

// RenderTable renders the certificate chain as a formatted markdown table.
//
// It displays member details including role, name, issuer, composite type,
// raw size, and the date field in a tabular format using tablewriter.
//
// Returns:
//   - string: Markdown table representation of the certificate chain
//
// Thread Safety: Safe for concurrent use (chains are immutable).
func (ch *Chain) RenderTable() string {
	if len(ch.Certs) == 0 {
		return "No certificates to display"
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)

	// Headers with emojis
	headers := []string{"🔢 #", "🏷️ Role", "📛 Name", "🏢 Issuer", "🔏 Type", "📦 Size", "📅 Date"}
	table.Header(headers)

	// Prepare rows
	var rows [][]string
	for i, cert := range ch.Certs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			MemberRole(i, len(ch.Certs), cert.Name),
			cert.Name,
			cert.Issuer,
			cert.Type.String(),
			fmt.Sprintf("%#x", cert.Size()),
			fmt.Sprintf("%#08x", cert.Date),
		})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}

// ToVisualizationJSON converts the certificate chain to structured JSON for
// external tools.
//
// It creates a data structure including member details, hierarchical
// relationships, and totals suitable for visualization tools or programmatic
// processing.
//
// Returns:
//   - []byte: JSON representation of the certificate chain
//   - error: Error if JSON marshaling fails
//
// Thread Safety: Safe for concurrent use (chains are immutable).
func (ch *Chain) ToVisualizationJSON() ([]byte, error) {
	type CertificateVizData struct {
		Index         int    `json:"index"`
		Role          string `json:"role"`
		Name          string `json:"name"`
		Issuer        string `json:"issuer"`
		Type          string `json:"type"`
		SignatureType string `json:"signatureType"`
		PublicKeyType string `json:"publicKeyType"`
		Size          int    `json:"size"`
		Date          uint32 `json:"date"`
	}

	type RelationshipData struct {
		FromIndex int    `json:"fromIndex"`
		ToIndex   int    `json:"toIndex"`
		Type      string `json:"type"`
	}

	type VisualizationData struct {
		Timestamp     string               `json:"timestamp"`
		ChainLength   int                  `json:"chainLength"`
		TotalRawSize  int                  `json:"totalRawSize"`
		Certificates  []CertificateVizData `json:"certificates"`
		Relationships []RelationshipData   `json:"relationships"`
	}

	data := VisualizationData{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		ChainLength:   len(ch.Certs),
		TotalRawSize:  ch.TotalSize(),
		Certificates:  make([]CertificateVizData, len(ch.Certs)),
		Relationships: make([]RelationshipData, 0, len(ch.Certs)),
	}

	// Convert certificates
	for i, cert := range ch.Certs {
		data.Certificates[i] = CertificateVizData{
			Index:         i,
			Role:          MemberRole(i, len(ch.Certs), cert.Name),
			Name:          cert.Name,
			Issuer:        cert.Issuer,
			Type:          cert.Type.String(),
			SignatureType: cert.SigType.String(),
			PublicKeyType: cert.PubKeyType.String(),
			Size:          cert.Size(),
			Date:          cert.Date,
		}
	}

	// Build relationships (each member is issued by the previous one; the
	// first member hangs off the implicit root)
	for i := 1; i < len(ch.Certs); i++ {
		data.Relationships = append(data.Relationships, RelationshipData{
			FromIndex: i,
			ToIndex:   i - 1,
			Type:      "issued_by",
		})
	}

	return json.MarshalIndent(data, "", "  ")
}

// Summary returns a one-line description of the chain with grouped digits,
// for example "2 certificate(s), 1,792 bytes raw".
func (ch *Chain) Summary() string {
	return chainPrinter.Sprintf("%d certificate(s), %d bytes raw", ch.Count(), ch.TotalSize())
}
