// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/cli"
	escerts "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/certs"
	esstore "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/store"
	"github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/logger"
)

const version = "1.3.3.7-testing"

// testLogger returns a logger that swallows all output.
func testLogger() logger.Logger { return logger.NewMCPLogger(nil, true) }

// testCert builds a synthetic RSA-2048 signed certificate.
func testCert(issuer, name string) []byte {
	data := make([]byte, 0x300)
	binary.BigEndian.PutUint32(data, uint32(escerts.SigTypeRsa2048Sha256))
	copy(data[0x140:0x180], issuer)
	binary.BigEndian.PutUint32(data[0x180:], 1)
	copy(data[0x184:0x1C4], name)
	return data
}

// testStoreDir writes an extracted save image layout under a temp directory:
// one file per certificate below the certificate base path.
func testStoreDir(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, "certificate")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	files := map[string][]byte{
		"CA00000003": testCert("Root", "CA00000003"),
		"XS00000020": testCert("Root-CA00000003", "XS00000020"),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// buildPartitionImage assembles a one-entry partition image around the
// given entry name and payload.
func buildPartitionImage(name string, data []byte) []byte {
	nameTable := append([]byte(name), 0)

	img := make([]byte, 0x10)
	copy(img, "PFS0")
	binary.LittleEndian.PutUint32(img[4:], 1)
	binary.LittleEndian.PutUint32(img[8:], uint32(len(nameTable)))

	record := make([]byte, 0x18)
	binary.LittleEndian.PutUint64(record[8:], uint64(len(data)))
	img = append(img, record...)
	img = append(img, nameTable...)
	img = append(img, data...)
	return img
}

func TestExecute_NoStore(t *testing.T) {
	ctx := context.Background()

	os.Args = []string{"cmd", "Root-CA00000003"}
	err := cli.Execute(ctx, version, testLogger())
	if !errors.Is(err, cli.ErrStoreRequired) {
		t.Errorf("expected ErrStoreRequired, got %v", err)
	}
}

func TestExecute_NoIssuer(t *testing.T) {
	ctx := context.Background()

	os.Args = []string{"cmd", "-s", testStoreDir(t)}
	err := cli.Execute(ctx, version, testLogger())
	if !errors.Is(err, cli.ErrIssuerRequired) {
		t.Errorf("expected ErrIssuerRequired, got %v", err)
	}
}

func TestExecute_ResolvesChainToFile(t *testing.T) {
	ctx := context.Background()

	outFile := filepath.Join(t.TempDir(), "chain.bin")
	os.Args = []string{"cmd", "-s", testStoreDir(t), "-o", outFile, "Root-CA00000003-XS00000020"}
	if err := cli.Execute(ctx, version, testLogger()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	raw, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 0x600 {
		t.Errorf("expected 0x600 chain bytes, got %#x", len(raw))
	}
}

func TestExecute_RetrievesCertificateToFile(t *testing.T) {
	ctx := context.Background()

	outFile := filepath.Join(t.TempDir(), "cert.bin")
	os.Args = []string{"cmd", "-s", testStoreDir(t), "-n", "CA00000003", "-o", outFile}
	if err := cli.Execute(ctx, version, testLogger()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	raw, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(raw, testCert("Root", "CA00000003")) {
		t.Error("retrieved certificate does not match the store entry")
	}
}

func TestExecute_MissingChainMember(t *testing.T) {
	ctx := context.Background()

	os.Args = []string{"cmd", "-s", testStoreDir(t), "Root-CA00000003-XS00000024"}
	err := cli.Execute(ctx, version, testLogger())
	if !errors.Is(err, esstore.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestExecute_GamecardNoRightsID(t *testing.T) {
	ctx := context.Background()

	os.Args = []string{"cmd", "--gamecard", "image.bin"}
	err := cli.Execute(ctx, version, testLogger())
	if !errors.Is(err, cli.ErrRightsIDRequired) {
		t.Errorf("expected ErrRightsIDRequired, got %v", err)
	}
}

func TestExecute_GamecardExtractsRawChain(t *testing.T) {
	ctx := context.Background()

	const rightsID = "01000000000000000000000000001337"
	chain := bytes.Repeat([]byte{0xA5}, 0x700)

	imageFile := filepath.Join(t.TempDir(), "secure.bin")
	if err := os.WriteFile(imageFile, buildPartitionImage(rightsID+".cert", chain), 0644); err != nil {
		t.Fatal(err)
	}

	outFile := filepath.Join(t.TempDir(), "chain.bin")
	os.Args = []string{"cmd", "--gamecard", imageFile, "--rights-id", rightsID, "-o", outFile}
	if err := cli.Execute(ctx, version, testLogger()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	raw, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(raw, chain) {
		t.Error("extracted raw chain does not match the partition entry")
	}
}

func TestExecute_GamecardMissingImage(t *testing.T) {
	ctx := context.Background()

	os.Args = []string{"cmd", "--gamecard", "/tmp/nonexistent-image-12345.bin", "--rights-id", "01000000000000000000000000001337"}
	err := cli.Execute(ctx, version, testLogger())
	if err == nil {
		t.Error("expected error for non-existent gamecard image")
	}
}
