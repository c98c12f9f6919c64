// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package eschain

import (
	"errors"
	"fmt"
	"sync"

	escerts "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/certs"
	esstore "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/store"
)

// ErrClassificationFailed indicates that an entry of plausible size could not
// be classified as any known certificate type.
var ErrClassificationFailed = errors.New("eschain: certificate classification failed")

// Resolver retrieves certificates and chains from a save container. It owns
// the container session and a single mutex that serializes every public
// operation, held across the whole open, read, close sequence. Chain
// resolution reuses the session within one locked sequence through the
// non-locking internal form.
type Resolver struct {
	mu      sync.Mutex
	session *esstore.Session
	decoder *escerts.Decoder

	// EnableCache routes single-certificate reads through the process-wide
	// certificate cache. Off by default; the MCP server turns it on.
	EnableCache bool

	// Version is the application version, surfaced in rendered output.
	Version string
}

// New creates a Resolver over container.
//
// Parameters:
//   - container: Save container holding the certificate entries
//   - version: Application version string
//
// Returns:
//   - *Resolver: New Resolver instance with a closed session
func New(container esstore.Container, version string) *Resolver {
	return &Resolver{
		session: esstore.NewSession(container),
		decoder: escerts.New(),
		Version: version,
	}
}

// RetrieveCertificate retrieves and decodes one certificate by name.
//
// The whole sequence runs under the resolver mutex: open the session, look up
// the entry at the certificate base path, validate the declared size, read
// exactly that many bytes, classify, close the session. Failures are
// distinguishable with [errors.Is]: [ErrInvalidName] for an empty name,
// [esstore.ErrEntryNotFound] for an absent entry, [escerts.ErrSizeOutOfRange]
// for an implausible declared size, [esstore.ErrShortEntry] for an incomplete
// read and [ErrClassificationFailed] when the bytes match no known type.
//
// Parameters:
//   - name: Certificate name, for example "CA00000003"
//
// Returns:
//   - *escerts.Certificate: Decoded certificate, never partial
//   - error: Error if any step fails
//
// Thread Safety: Safe for concurrent use.
func (r *Resolver) RetrieveCertificate(name string) (*escerts.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return nil, ErrInvalidName
	}

	if err := r.session.EnsureOpen(); err != nil {
		return nil, err
	}
	defer r.session.Close()

	return r.retrieveCertificate(name)
}

// RetrieveChain resolves the full certificate chain named by issuer.
//
// The issuer is validated and split before the session opens; the resulting
// names are resolved in order within one locked open, read, close sequence.
// Resolution is all-or-nothing: the first failing member discards everything
// already resolved and fails the whole chain.
//
// Parameters:
//   - issuer: Issuer string, for example "Root-CA00000003-XS00000020"
//
// Returns:
//   - *Chain: Complete chain in issuer order
//   - error: Error if validation or any member fails
//
// Thread Safety: Safe for concurrent use.
func (r *Resolver) RetrieveChain(issuer string) (*Chain, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := SplitIssuer(issuer)
	if err != nil {
		return nil, err
	}

	if err := r.session.EnsureOpen(); err != nil {
		return nil, err
	}
	defer r.session.Close()

	chain := &Chain{Certs: make([]*escerts.Certificate, 0, len(names))}
	for _, name := range names {
		cert, err := r.retrieveCertificate(name)
		if err != nil {
			return nil, fmt.Errorf("chain member %q: %w", name, err)
		}
		chain.Certs = append(chain.Certs, cert)
	}

	return chain, nil
}

// RawChain resolves the chain named by issuer and serializes it into the
// contiguous raw wire format.
//
// Parameters:
//   - issuer: Issuer string, for example "Root-CA00000003-XS00000020"
//
// Returns:
//   - []byte: Concatenated raw certificates, sized exactly
//   - error: Error if resolution fails
//
// Thread Safety: Safe for concurrent use.
func (r *Resolver) RawChain(issuer string) ([]byte, error) {
	chain, err := r.RetrieveChain(issuer)
	if err != nil {
		return nil, err
	}
	return chain.Serialize(), nil
}

// retrieveCertificate performs one lookup-validate-read-classify cycle against
// the already open session. Callers hold the resolver mutex.
func (r *Resolver) retrieveCertificate(name string) (*escerts.Certificate, error) {
	if name == "" {
		return nil, ErrInvalidName
	}

	path := esstore.BasePath + name

	if r.EnableCache {
		if data, ok := GetCachedCert(path); ok {
			if cert, err := r.decoder.Decode(data); err == nil {
				return cert, nil
			}
			// A cached blob that no longer decodes falls through to the
			// store read below.
		}
	}

	entry, err := r.session.Lookup(path)
	if err != nil {
		return nil, fmt.Errorf("certificate %q: %w", name, err)
	}

	size := entry.Size()
	if size < escerts.SignedCertMinSize || size > escerts.SignedCertMaxSize {
		return nil, fmt.Errorf("certificate %q declares %#x bytes: %w", name, size, escerts.ErrSizeOutOfRange)
	}

	data, err := esstore.ReadFull(entry)
	if err != nil {
		return nil, fmt.Errorf("certificate %q: %w", name, err)
	}

	cert, err := r.decoder.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("certificate %q: %w: %w", name, ErrClassificationFailed, err)
	}

	if r.EnableCache {
		SetCachedCert(path, data)
	}

	return cert, nil
}
