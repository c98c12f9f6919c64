// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	escerts "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/certs"
	eschain "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/chain"
	esstore "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/store"
	"github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/gamecard"
	"github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/logger"
	"github.com/spf13/cobra"
)

var (
	// ErrStoreRequired is returned when a store operation runs without a
	// certificate save image path.
	ErrStoreRequired = errors.New("cli: certificate store path required (use --store)")

	// ErrIssuerRequired is returned when neither a signature issuer argument
	// nor a certificate name flag is given.
	ErrIssuerRequired = errors.New("cli: signature issuer argument or certificate name required")

	// ErrRightsIDRequired is returned when gamecard mode runs without a
	// rights identifier.
	ErrRightsIDRequired = errors.New("cli: rights identifier required (use --rights-id)")
)

// OperationPerformed reports whether the CLI started a resolution operation.
// OperationPerformedSuccessfully reports whether that operation completed
// without error. Callers use these to decide on completion logging.
var (
	OperationPerformed             bool
	OperationPerformedSuccessfully bool
)

var (
	storePath     string
	certName      string
	outputFile    string
	jsonOutput    bool
	treeOutput    bool
	tableOutput   bool
	gamecardImage string
	rightsIDHex   string
)

// Execute runs the root command and returns any error from the selected
// operation. The context flows into cobra for cancellation handling.
func Execute(ctx context.Context, version string, log logger.Logger) error {
	rootCmd := &cobra.Command{
		Use:     posix.GetExecutableName() + " [SIGNATURE_ISSUER]",
		Short:   "NX certificate chain resolver",
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execCli(cmd, args, version, log)
		},
	}

	rootCmd.Flags().StringVarP(&storePath, "store", "s", "", "path to an extracted certificate save image directory")
	rootCmd.Flags().StringVarP(&certName, "name", "n", "", "retrieve a single certificate by name instead of a chain")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write raw certificate bytes to OUTPUT_FILE")
	rootCmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "print the chain as visualization JSON")
	rootCmd.Flags().BoolVarP(&treeOutput, "tree", "t", false, "print the chain as an ASCII tree")
	rootCmd.Flags().BoolVar(&tableOutput, "table", false, "print the chain as a markdown table")
	rootCmd.Flags().StringVar(&gamecardImage, "gamecard", "", "read a pre-built raw chain from a secure partition image")
	rootCmd.Flags().StringVar(&rightsIDHex, "rights-id", "", "rights identifier for gamecard mode (32 hex characters)")

	return rootCmd.ExecuteContext(ctx)
}

// execCli dispatches the selected operation: single-certificate retrieval or
// chain resolution against a save image store, or raw chain extraction from
// a gamecard secure partition image.
func execCli(cmd *cobra.Command, args []string, version string, log logger.Logger) error {
	if gamecardImage != "" {
		return execGamecard(log)
	}
	return execStore(args, version, log)
}

// execStore resolves against a directory-backed certificate store.
func execStore(args []string, version string, log logger.Logger) error {
	if storePath == "" {
		return ErrStoreRequired
	}
	if certName == "" && len(args) == 0 {
		return ErrIssuerRequired
	}

	resolver := eschain.New(esstore.NewDirContainer(storePath), version)

	OperationPerformed = true

	if certName != "" {
		cert, err := resolver.RetrieveCertificate(certName)
		if err != nil {
			return err
		}

		if outputFile != "" {
			if err := os.WriteFile(outputFile, cert.Data, 0644); err != nil {
				return fmt.Errorf("writing output file: %w", err)
			}
			log.Printf("Wrote certificate %s (%d bytes) to %s", cert.Name, cert.Size(), outputFile)
		} else {
			log.Printf("Certificate: %s", cert.Name)
			log.Printf("  Issuer: %s", cert.Issuer)
			log.Printf("  Type:   %s", cert.Type)
			log.Printf("  Size:   %d bytes", cert.Size())
		}

		OperationPerformedSuccessfully = true
		return nil
	}

	chain, err := resolver.RetrieveChain(args[0])
	if err != nil {
		return err
	}

	if err := renderChain(chain, log); err != nil {
		return err
	}

	OperationPerformedSuccessfully = true
	return nil
}

// execGamecard extracts a pre-built raw chain from a secure partition image
// and renders it with the same output options as store resolution.
func execGamecard(log logger.Logger) error {
	if rightsIDHex == "" {
		return ErrRightsIDRequired
	}

	id, err := gamecard.ParseRightsID(rightsIDHex)
	if err != nil {
		return err
	}

	image, err := os.Open(gamecardImage)
	if err != nil {
		return fmt.Errorf("opening gamecard image: %w", err)
	}
	defer image.Close()

	info, err := image.Stat()
	if err != nil {
		return fmt.Errorf("reading gamecard image size: %w", err)
	}

	partition, err := gamecard.OpenPartition(image, info.Size())
	if err != nil {
		return err
	}

	OperationPerformed = true

	raw, err := gamecard.NewChainSource(partition).RawChainByRightsID(id)
	if err != nil {
		return err
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, raw, 0644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		log.Printf("Wrote raw chain for rights id %s (%d bytes) to %s", id, len(raw), outputFile)

		OperationPerformedSuccessfully = true
		return nil
	}

	// Split the blob into members so the chain renders like a resolved one.
	certs, err := escerts.New().DecodeMultiple(raw)
	if err != nil {
		return err
	}

	if err := renderChain(&eschain.Chain{Certs: certs}, log); err != nil {
		return err
	}

	OperationPerformedSuccessfully = true
	return nil
}

// renderChain writes the chain in the selected representation: raw bytes to
// the output file, one of the visualization formats, or a summary listing.
func renderChain(chain *eschain.Chain, log logger.Logger) error {
	if outputFile != "" {
		if err := os.WriteFile(outputFile, chain.Serialize(), 0644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		log.Printf("Wrote %s to %s", chain.Summary(), outputFile)
		return nil
	}

	switch {
	case jsonOutput:
		data, err := chain.ToVisualizationJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case treeOutput:
		fmt.Print(chain.RenderASCIITree())
	case tableOutput:
		fmt.Print(chain.RenderTable())
	default:
		log.Printf("Resolved %s", chain.Summary())
		for i, name := range chain.Names() {
			log.Printf("  %d. %s", i+1, name)
		}
	}

	return nil
}
