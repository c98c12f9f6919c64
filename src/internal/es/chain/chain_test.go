// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package eschain_test

import (
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	escerts "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/certs"
	eschain "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/chain"
	esstore "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/store"
)

var version = "1.3.3.7-testing"

// Wire format block sizes for building synthetic certificates.
var (
	sigBlockSizes = map[escerts.SignatureType]int{
		escerts.SigTypeRsa4096Sha256: 0x240,
		escerts.SigTypeRsa2048Sha256: 0x140,
		escerts.SigTypeEcc480Sha256:  0x80,
		escerts.SigTypeHmac160Sha1:   0x40,
	}

	pubKeyBlockSizes = map[escerts.PublicKeyType]int{
		escerts.PubKeyTypeRsa4096: 0x238,
		escerts.PubKeyTypeRsa2048: 0x138,
		escerts.PubKeyTypeEcc480:  0xB4,
	}
)

func buildTestCert(sigType escerts.SignatureType, pubKeyType escerts.PublicKeyType, issuer, name string) []byte {
	sigSize := sigBlockSizes[sigType]
	data := make([]byte, sigSize+0x88+pubKeyBlockSizes[pubKeyType])

	binary.BigEndian.PutUint32(data, uint32(sigType))
	common := data[sigSize:]
	copy(common[:0x40], issuer)
	binary.BigEndian.PutUint32(common[0x40:], uint32(pubKeyType))
	copy(common[0x44:0x84], name)

	return data
}

// newTestContainer builds a container with a CA certificate and two signer
// certificates, mirroring a real system save.
func newTestContainer() *esstore.MemoryContainer {
	container := esstore.NewMemoryContainer()
	container.Put(esstore.BasePath+"CA00000003",
		buildTestCert(escerts.SigTypeRsa4096Sha256, escerts.PubKeyTypeRsa2048, "Root", "CA00000003"))
	container.Put(esstore.BasePath+"XS00000020",
		buildTestCert(escerts.SigTypeRsa2048Sha256, escerts.PubKeyTypeRsa2048, "Root-CA00000003", "XS00000020"))
	container.Put(esstore.BasePath+"XS00000024",
		buildTestCert(escerts.SigTypeRsa2048Sha256, escerts.PubKeyTypeRsa2048, "Root-CA00000003", "XS00000024"))
	return container
}

func TestResolverOperations(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T, resolver *eschain.Resolver)
	}{
		{
			name: "Retrieve Single Certificate",
			testFunc: func(t *testing.T, resolver *eschain.Resolver) {
				cert, err := resolver.RetrieveCertificate("CA00000003")
				if err != nil {
					t.Fatalf("RetrieveCertificate() error = %v", err)
				}

				if cert.Name != "CA00000003" {
					t.Errorf("expected name CA00000003, got %q", cert.Name)
				}
				if cert.Issuer != "Root" {
					t.Errorf("expected issuer Root, got %q", cert.Issuer)
				}
				if cert.Type != escerts.TypeSigRsa4096PubKeyRsa2048 {
					t.Errorf("expected type RSA-4096/RSA-2048, got %v", cert.Type)
				}
				if cert.Size() != 0x400 {
					t.Errorf("expected size 0x400, got %#x", cert.Size())
				}
			},
		},
		{
			name: "Resolve Two Member Chain",
			testFunc: func(t *testing.T, resolver *eschain.Resolver) {
				chain, err := resolver.RetrieveChain("Root-CA00000003-XS00000020")
				if err != nil {
					t.Fatalf("RetrieveChain() error = %v", err)
				}

				if chain.Count() != 2 {
					t.Fatalf("expected chain length 2, got %d", chain.Count())
				}
				if chain.Certs[0].Name != "CA00000003" {
					t.Errorf("expected first member CA00000003, got %q", chain.Certs[0].Name)
				}
				if chain.Certs[1].Name != "XS00000020" {
					t.Errorf("expected second member XS00000020, got %q", chain.Certs[1].Name)
				}
			},
		},
		{
			name: "Resolve Three Member Chain",
			testFunc: func(t *testing.T, resolver *eschain.Resolver) {
				chain, err := resolver.RetrieveChain("Root-CA00000003-XS00000020-XS00000024")
				if err != nil {
					t.Fatalf("RetrieveChain() error = %v", err)
				}

				want := []string{"CA00000003", "XS00000020", "XS00000024"}
				if chain.Count() != len(want) {
					t.Fatalf("expected chain length %d, got %d", len(want), chain.Count())
				}
				for i, name := range want {
					if chain.Certs[i].Name != name {
						t.Errorf("expected member %d to be %q, got %q", i, name, chain.Certs[i].Name)
					}
				}

				raw := chain.Serialize()
				if len(raw) != chain.TotalSize() {
					t.Errorf("expected %#x serialized bytes, got %#x", chain.TotalSize(), len(raw))
				}
				if len(raw) != 0xA00 {
					t.Errorf("expected 0xA00 serialized bytes, got %#x", len(raw))
				}
			},
		},
		{
			name: "Raw Chain Round Trip",
			testFunc: func(t *testing.T, resolver *eschain.Resolver) {
				raw, err := resolver.RawChain("Root-CA00000003-XS00000020")
				if err != nil {
					t.Fatalf("RawChain() error = %v", err)
				}

				if len(raw) != 0x700 {
					t.Fatalf("expected 0x700 raw bytes, got %#x", len(raw))
				}

				certs, err := escerts.New().DecodeMultiple(raw)
				if err != nil {
					t.Fatalf("DecodeMultiple() error = %v", err)
				}
				if len(certs) != 2 {
					t.Fatalf("expected 2 decoded members, got %d", len(certs))
				}
				if certs[0].Name != "CA00000003" || certs[1].Name != "XS00000020" {
					t.Errorf("round trip lost member order: %q, %q", certs[0].Name, certs[1].Name)
				}
			},
		},
		{
			name: "Doubled Separators Are Skipped",
			testFunc: func(t *testing.T, resolver *eschain.Resolver) {
				chain, err := resolver.RetrieveChain("Root-CA00000003--XS00000020")
				if err != nil {
					t.Fatalf("RetrieveChain() error = %v", err)
				}
				if chain.Count() != 2 {
					t.Errorf("expected 2 members with doubled separator, got %d", chain.Count())
				}
			},
		},
		{
			name: "Chain Is All Or Nothing",
			testFunc: func(t *testing.T, resolver *eschain.Resolver) {
				chain, err := resolver.RetrieveChain("Root-CA00000003-XS00000099")
				if err == nil {
					t.Fatal("expected error for chain with missing member")
				}
				if !errors.Is(err, esstore.ErrEntryNotFound) {
					t.Errorf("expected ErrEntryNotFound, got %v", err)
				}
				if chain != nil {
					t.Error("no partial chain may escape a failed resolution")
				}
			},
		},
		{
			name: "Chain Summary Groups Digits",
			testFunc: func(t *testing.T, resolver *eschain.Resolver) {
				chain, err := resolver.RetrieveChain("Root-CA00000003-XS00000020")
				if err != nil {
					t.Fatalf("RetrieveChain() error = %v", err)
				}

				summary := chain.Summary()
				if !strings.Contains(summary, "1,792") {
					t.Errorf("expected grouped byte total in summary, got %q", summary)
				}
			},
		},
		{
			name: "ASCII Tree Lists Members",
			testFunc: func(t *testing.T, resolver *eschain.Resolver) {
				chain, err := resolver.RetrieveChain("Root-CA00000003-XS00000020")
				if err != nil {
					t.Fatalf("RetrieveChain() error = %v", err)
				}

				tree := chain.RenderASCIITree()
				for _, want := range []string{"Root", "CA00000003", "XS00000020", "└── "} {
					if !strings.Contains(tree, want) {
						t.Errorf("expected tree to contain %q:\n%s", want, tree)
					}
				}
			},
		},
		{
			name: "Table Shows Roles",
			testFunc: func(t *testing.T, resolver *eschain.Resolver) {
				chain, err := resolver.RetrieveChain("Root-CA00000003-XS00000020")
				if err != nil {
					t.Fatalf("RetrieveChain() error = %v", err)
				}

				table := chain.RenderTable()
				if !strings.Contains(table, "Certificate Authority") {
					t.Errorf("expected CA role in table:\n%s", table)
				}
				if !strings.Contains(table, "Ticket Signer") {
					t.Errorf("expected ticket signer role in table:\n%s", table)
				}
			},
		},
		{
			name: "Visualization JSON Carries Relationships",
			testFunc: func(t *testing.T, resolver *eschain.Resolver) {
				chain, err := resolver.RetrieveChain("Root-CA00000003-XS00000020")
				if err != nil {
					t.Fatalf("RetrieveChain() error = %v", err)
				}

				data, err := chain.ToVisualizationJSON()
				if err != nil {
					t.Fatalf("ToVisualizationJSON() error = %v", err)
				}

				for _, want := range []string{`"chainLength": 2`, `"issued_by"`, `"XS00000020"`, `"RSA-2048/RSA-2048"`} {
					if !strings.Contains(string(data), want) {
						t.Errorf("expected JSON to contain %s:\n%s", want, data)
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := eschain.New(newTestContainer(), version)
			tt.testFunc(t, resolver)
		})
	}
}

func TestSplitIssuer(t *testing.T) {
	tests := []struct {
		name    string
		issuer  string
		want    []string
		wantErr bool
	}{
		{
			name:   "Single Name",
			issuer: "Root-CA00000003",
			want:   []string{"CA00000003"},
		},
		{
			name:   "Two Names",
			issuer: "Root-CA00000003-XS00000020",
			want:   []string{"CA00000003", "XS00000020"},
		},
		{
			name:   "Doubled Separator Skipped",
			issuer: "Root-CA00000003--XS00000020",
			want:   []string{"CA00000003", "XS00000020"},
		},
		{
			name:   "Trailing Separator Tolerated",
			issuer: "Root-CA00000003-",
			want:   []string{"CA00000003"},
		},
		{
			name:    "Empty Issuer",
			issuer:  "",
			wantErr: true,
		},
		{
			name:    "Bare Prefix",
			issuer:  "Root-",
			wantErr: true,
		},
		{
			name:    "Missing Separator",
			issuer:  "RootCA00000003",
			wantErr: true,
		},
		{
			name:    "No Prefix",
			issuer:  "CA00000003-XS00000020",
			wantErr: true,
		},
		{
			name:    "Lowercase Prefix Rejected",
			issuer:  "root-CA00000003",
			wantErr: true,
		},
		{
			name:    "Only Separators After Prefix",
			issuer:  "Root---",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, err := eschain.SplitIssuer(tt.issuer)

			if tt.wantErr {
				if !errors.Is(err, eschain.ErrInvalidIssuer) {
					t.Fatalf("expected ErrInvalidIssuer, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("SplitIssuer() error = %v", err)
			}
			if len(names) != len(tt.want) {
				t.Fatalf("expected %d names, got %d", len(tt.want), len(names))
			}
			for i := range names {
				if names[i] != tt.want[i] {
					t.Errorf("name %d: expected %q, got %q", i, tt.want[i], names[i])
				}
			}
		})
	}
}

// fakeEntry declares a size independent of the bytes it actually delivers.
type fakeEntry struct {
	data     []byte
	declared int64
}

func (e *fakeEntry) Size() int64 { return e.declared }

func (e *fakeEntry) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(e.data)) {
		return 0, io.EOF
	}
	n := copy(p, e.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// fakeContainer serves pre-built entries without open bookkeeping.
type fakeContainer struct {
	entries map[string]esstore.Entry
}

func (c *fakeContainer) Open() error  { return nil }
func (c *fakeContainer) Close() error { return nil }

func (c *fakeContainer) Lookup(path string) (esstore.Entry, error) {
	entry, ok := c.entries[path]
	if !ok {
		return nil, esstore.ErrEntryNotFound
	}
	return entry, nil
}

// failOpenContainer fails every open attempt.
type failOpenContainer struct{}

func (failOpenContainer) Open() error { return errors.New("container must not be opened") }

func (failOpenContainer) Close() error { return nil }

func (failOpenContainer) Lookup(string) (esstore.Entry, error) {
	return nil, esstore.ErrEntryNotFound
}

func TestResolverErrors(t *testing.T) {
	t.Run("Empty Name", func(t *testing.T) {
		resolver := eschain.New(newTestContainer(), version)
		_, err := resolver.RetrieveCertificate("")
		if !errors.Is(err, eschain.ErrInvalidName) {
			t.Errorf("expected ErrInvalidName, got %v", err)
		}
	})

	t.Run("Certificate Not Found", func(t *testing.T) {
		resolver := eschain.New(newTestContainer(), version)
		_, err := resolver.RetrieveCertificate("CA00000099")
		if !errors.Is(err, esstore.ErrEntryNotFound) {
			t.Errorf("expected ErrEntryNotFound, got %v", err)
		}
	})

	t.Run("Declared Size Below Minimum", func(t *testing.T) {
		container := newTestContainer()
		container.Put(esstore.BasePath+"TINY", make([]byte, 0x40))

		resolver := eschain.New(container, version)
		_, err := resolver.RetrieveCertificate("TINY")
		if !errors.Is(err, escerts.ErrSizeOutOfRange) {
			t.Errorf("expected ErrSizeOutOfRange, got %v", err)
		}
	})

	t.Run("Declared Size Above Maximum", func(t *testing.T) {
		container := newTestContainer()
		container.Put(esstore.BasePath+"HUGE", make([]byte, 0x600))

		resolver := eschain.New(container, version)
		_, err := resolver.RetrieveCertificate("HUGE")
		if !errors.Is(err, escerts.ErrSizeOutOfRange) {
			t.Errorf("expected ErrSizeOutOfRange, got %v", err)
		}
	})

	t.Run("Size Rejected Before Reading", func(t *testing.T) {
		// A lying entry with an in-range declared size is read; one with an
		// out-of-range size must fail before any read happens.
		container := &fakeContainer{entries: map[string]esstore.Entry{
			esstore.BasePath + "LIAR": &fakeEntry{data: nil, declared: 0x40},
		}}

		resolver := eschain.New(container, version)
		_, err := resolver.RetrieveCertificate("LIAR")
		if !errors.Is(err, escerts.ErrSizeOutOfRange) {
			t.Errorf("expected ErrSizeOutOfRange, got %v", err)
		}
	})

	t.Run("Short Read", func(t *testing.T) {
		container := &fakeContainer{entries: map[string]esstore.Entry{
			esstore.BasePath + "SHORT": &fakeEntry{data: make([]byte, 0x100), declared: 0x300},
		}}

		resolver := eschain.New(container, version)
		_, err := resolver.RetrieveCertificate("SHORT")
		if !errors.Is(err, esstore.ErrShortEntry) {
			t.Errorf("expected ErrShortEntry, got %v", err)
		}
	})

	t.Run("Classification Failure", func(t *testing.T) {
		container := newTestContainer()
		container.Put(esstore.BasePath+"GARBAGE", make([]byte, 0x300))

		resolver := eschain.New(container, version)
		_, err := resolver.RetrieveCertificate("GARBAGE")
		if !errors.Is(err, eschain.ErrClassificationFailed) {
			t.Errorf("expected ErrClassificationFailed, got %v", err)
		}
		if !errors.Is(err, escerts.ErrInvalidSignatureType) {
			t.Errorf("expected underlying ErrInvalidSignatureType, got %v", err)
		}
	})

	t.Run("Issuer Validated Before Session Opens", func(t *testing.T) {
		resolver := eschain.New(failOpenContainer{}, version)
		_, err := resolver.RetrieveChain("not-an-issuer")
		if !errors.Is(err, eschain.ErrInvalidIssuer) {
			t.Errorf("expected ErrInvalidIssuer before any open, got %v", err)
		}
	})

	t.Run("Session Open Failure Surfaces", func(t *testing.T) {
		resolver := eschain.New(failOpenContainer{}, version)
		_, err := resolver.RetrieveCertificate("CA00000003")
		if err == nil {
			t.Fatal("expected open failure to surface")
		}
	})
}

func TestSerializeEmptyChain(t *testing.T) {
	chain := &eschain.Chain{}

	raw := chain.Serialize()
	if raw == nil {
		t.Error("empty chain must serialize to a non-nil slice")
	}
	if len(raw) != 0 {
		t.Errorf("expected empty result, got %d bytes", len(raw))
	}
	if chain.TotalSize() != 0 {
		t.Errorf("expected total size 0, got %d", chain.TotalSize())
	}
}

// exclusiveContainer asserts that only one resolve sequence holds the
// container open at any moment.
type exclusiveContainer struct {
	inner      *esstore.MemoryContainer
	holders    int32
	violations int32
}

func (c *exclusiveContainer) Open() error {
	if atomic.AddInt32(&c.holders, 1) != 1 {
		atomic.AddInt32(&c.violations, 1)
	}
	return c.inner.Open()
}

func (c *exclusiveContainer) Close() error {
	atomic.AddInt32(&c.holders, -1)
	return c.inner.Close()
}

func (c *exclusiveContainer) Lookup(path string) (esstore.Entry, error) {
	if atomic.LoadInt32(&c.holders) != 1 {
		atomic.AddInt32(&c.violations, 1)
	}
	return c.inner.Lookup(path)
}

func TestConcurrentOperationsSerialize(t *testing.T) {
	container := &exclusiveContainer{inner: newTestContainer()}
	resolver := eschain.New(container, version)

	const numGoroutines = 8
	const numOperations = 25

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := range numGoroutines {
		go func(id int) {
			defer wg.Done()

			for j := range numOperations {
				switch (id + j) % 3 {
				case 0:
					if _, err := resolver.RetrieveCertificate("CA00000003"); err != nil {
						t.Errorf("RetrieveCertificate() error = %v", err)
						return
					}
				case 1:
					if _, err := resolver.RetrieveChain("Root-CA00000003-XS00000020"); err != nil {
						t.Errorf("RetrieveChain() error = %v", err)
						return
					}
				default:
					if _, err := resolver.RawChain("Root-CA00000003-XS00000024"); err != nil {
						t.Errorf("RawChain() error = %v", err)
						return
					}
				}
			}
		}(i)
	}

	wg.Wait()

	if v := atomic.LoadInt32(&container.violations); v != 0 {
		t.Errorf("open/close sequences interleaved %d times", v)
	}
	if h := atomic.LoadInt32(&container.holders); h != 0 {
		t.Errorf("expected all sessions closed, %d still open", h)
	}
}
