// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package escerts_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	escerts "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/certs"
)

// Block sizes of the wire format, used to build synthetic certificates.
var (
	sigBlockSizes = map[escerts.SignatureType]int{
		escerts.SigTypeRsa4096Sha1:   0x240,
		escerts.SigTypeRsa2048Sha1:   0x140,
		escerts.SigTypeEcc480Sha1:    0x80,
		escerts.SigTypeHmac160Sha1:   0x40,
		escerts.SigTypeRsa4096Sha256: 0x240,
		escerts.SigTypeRsa2048Sha256: 0x140,
		escerts.SigTypeEcc480Sha256:  0x80,
	}

	pubKeyBlockSizes = map[escerts.PublicKeyType]int{
		escerts.PubKeyTypeRsa4096: 0x238,
		escerts.PubKeyTypeRsa2048: 0x138,
		escerts.PubKeyTypeEcc480:  0xB4,
	}
)

const testCommonBlockSize = 0x88

// buildTestCert assembles a synthetic signed certificate with the given
// signature and public key types and the issuer/name/date fields filled in.
func buildTestCert(sigType escerts.SignatureType, pubKeyType escerts.PublicKeyType, issuer, name string, date uint32) []byte {
	sigSize := sigBlockSizes[sigType]
	pubKeySize := pubKeyBlockSizes[pubKeyType]

	data := make([]byte, sigSize+testCommonBlockSize+pubKeySize)
	binary.BigEndian.PutUint32(data, uint32(sigType))

	common := data[sigSize:]
	copy(common[:0x40], issuer)
	binary.BigEndian.PutUint32(common[0x40:], uint32(pubKeyType))
	copy(common[0x44:0x84], name)
	binary.BigEndian.PutUint32(common[0x84:], date)

	return data
}

func TestCertificateOperations(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T, decoder *escerts.Decoder)
	}{
		{
			name: "Classify CA Certificate",
			testFunc: func(t *testing.T, decoder *escerts.Decoder) {
				data := buildTestCert(escerts.SigTypeRsa4096Sha256, escerts.PubKeyTypeRsa2048, "Root", "CA00000003", 0)
				assert.Len(t, data, 0x400, "CA certificate should be 0x400 bytes")

				assert.Equal(t, escerts.TypeSigRsa4096PubKeyRsa2048, decoder.Classify(data), "Classify() returned wrong type")
			},
		},
		{
			name: "Classify XS Certificate",
			testFunc: func(t *testing.T, decoder *escerts.Decoder) {
				data := buildTestCert(escerts.SigTypeRsa2048Sha256, escerts.PubKeyTypeRsa2048, "Root-CA00000003", "XS00000020", 0)
				assert.Len(t, data, 0x300, "XS certificate should be 0x300 bytes")

				assert.Equal(t, escerts.TypeSigRsa2048PubKeyRsa2048, decoder.Classify(data), "Classify() returned wrong type")
			},
		},
		{
			name: "Decode Extracts Header Fields",
			testFunc: func(t *testing.T, decoder *escerts.Decoder) {
				data := buildTestCert(escerts.SigTypeRsa4096Sha256, escerts.PubKeyTypeRsa2048, "Root", "CA00000003", 0x6543210F)

				cert, err := decoder.Decode(data)
				require.NoError(t, err, "Decode() error")

				assert.Equal(t, "Root", cert.Issuer, "expected issuer Root")
				assert.Equal(t, "CA00000003", cert.Name, "expected name CA00000003")
				assert.Equal(t, uint32(0x6543210F), cert.Date, "expected date field to round-trip")
				assert.Equal(t, escerts.SigTypeRsa4096Sha256, cert.SigType, "expected RSA-4096 SHA-256 signature type")
				assert.Equal(t, escerts.PubKeyTypeRsa2048, cert.PubKeyType, "expected RSA-2048 public key type")
			},
		},
		{
			name: "SignedSize Matches Buffer",
			testFunc: func(t *testing.T, decoder *escerts.Decoder) {
				for sigType := range sigBlockSizes {
					for pubKeyType := range pubKeyBlockSizes {
						data := buildTestCert(sigType, pubKeyType, "Root", "CA00000003", 0)
						assert.Equal(t, len(data), decoder.SignedSize(data), "SignedSize() mismatch for %v/%v", sigType, pubKeyType)
					}
				}
			},
		},
		{
			name: "Block Accessors Partition Raw Data",
			testFunc: func(t *testing.T, decoder *escerts.Decoder) {
				data := buildTestCert(escerts.SigTypeEcc480Sha256, escerts.PubKeyTypeEcc480, "Root-CA00000003", "XS00000024", 0)

				cert, err := decoder.Decode(data)
				require.NoError(t, err, "Decode() error")

				total := len(cert.SignatureBlock()) + len(cert.CommonBlock()) + len(cert.PublicKeyBlock())
				assert.Equal(t, cert.Size(), total, "blocks should cover the full certificate")
				assert.Len(t, cert.CommonBlock(), testCommonBlockSize, "common block size mismatch")
			},
		},
		{
			name: "Decode Multiple Certificates",
			testFunc: func(t *testing.T, decoder *escerts.Decoder) {
				ca := buildTestCert(escerts.SigTypeRsa4096Sha256, escerts.PubKeyTypeRsa2048, "Root", "CA00000003", 0)
				xs := buildTestCert(escerts.SigTypeRsa2048Sha256, escerts.PubKeyTypeRsa2048, "Root-CA00000003", "XS00000020", 0)

				certs, err := decoder.DecodeMultiple(append(append([]byte{}, ca...), xs...))
				require.NoError(t, err, "DecodeMultiple() error")

				require.Len(t, certs, 2, "expected 2 certificates")
				assert.Equal(t, "CA00000003", certs[0].Name, "first member should be the CA certificate")
				assert.Equal(t, "XS00000020", certs[1].Name, "second member should be the XS certificate")
			},
		},
	}

	decoder := escerts.New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t, decoder)
		})
	}
}

func TestClassify_AllTypes(t *testing.T) {
	tests := []struct {
		name       string
		sigType    escerts.SignatureType
		pubKeyType escerts.PublicKeyType
		expected   escerts.Type
	}{
		{"RSA-4096/RSA-4096", escerts.SigTypeRsa4096Sha256, escerts.PubKeyTypeRsa4096, escerts.TypeSigRsa4096PubKeyRsa4096},
		{"RSA-4096/RSA-2048", escerts.SigTypeRsa4096Sha256, escerts.PubKeyTypeRsa2048, escerts.TypeSigRsa4096PubKeyRsa2048},
		{"RSA-4096/ECC-480", escerts.SigTypeRsa4096Sha256, escerts.PubKeyTypeEcc480, escerts.TypeSigRsa4096PubKeyEcc480},
		{"RSA-2048/RSA-4096", escerts.SigTypeRsa2048Sha256, escerts.PubKeyTypeRsa4096, escerts.TypeSigRsa2048PubKeyRsa4096},
		{"RSA-2048/RSA-2048", escerts.SigTypeRsa2048Sha256, escerts.PubKeyTypeRsa2048, escerts.TypeSigRsa2048PubKeyRsa2048},
		{"RSA-2048/ECC-480", escerts.SigTypeRsa2048Sha256, escerts.PubKeyTypeEcc480, escerts.TypeSigRsa2048PubKeyEcc480},
		{"ECC-480/RSA-4096", escerts.SigTypeEcc480Sha256, escerts.PubKeyTypeRsa4096, escerts.TypeSigEcc480PubKeyRsa4096},
		{"ECC-480/RSA-2048", escerts.SigTypeEcc480Sha256, escerts.PubKeyTypeRsa2048, escerts.TypeSigEcc480PubKeyRsa2048},
		{"ECC-480/ECC-480", escerts.SigTypeEcc480Sha256, escerts.PubKeyTypeEcc480, escerts.TypeSigEcc480PubKeyEcc480},
		{"HMAC-160/RSA-4096", escerts.SigTypeHmac160Sha1, escerts.PubKeyTypeRsa4096, escerts.TypeSigHmac160PubKeyRsa4096},
		{"HMAC-160/RSA-2048", escerts.SigTypeHmac160Sha1, escerts.PubKeyTypeRsa2048, escerts.TypeSigHmac160PubKeyRsa2048},
		{"HMAC-160/ECC-480", escerts.SigTypeHmac160Sha1, escerts.PubKeyTypeEcc480, escerts.TypeSigHmac160PubKeyEcc480},
	}

	decoder := escerts.New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildTestCert(tt.sigType, tt.pubKeyType, "Root", "CA00000003", 0)
			assert.Equal(t, tt.expected, decoder.Classify(data), "Classify() returned wrong type")
		})
	}
}

func TestClassify_HashVariantsEquivalent(t *testing.T) {
	variants := []struct {
		name   string
		sha1   escerts.SignatureType
		sha256 escerts.SignatureType
	}{
		{"RSA-4096", escerts.SigTypeRsa4096Sha1, escerts.SigTypeRsa4096Sha256},
		{"RSA-2048", escerts.SigTypeRsa2048Sha1, escerts.SigTypeRsa2048Sha256},
		{"ECC-480", escerts.SigTypeEcc480Sha1, escerts.SigTypeEcc480Sha256},
	}

	decoder := escerts.New()

	for _, tt := range variants {
		t.Run(tt.name, func(t *testing.T) {
			a := buildTestCert(tt.sha1, escerts.PubKeyTypeRsa2048, "Root", "CA00000003", 0)
			b := buildTestCert(tt.sha256, escerts.PubKeyTypeRsa2048, "Root", "CA00000003", 0)

			ta := decoder.Classify(a)
			tb := decoder.Classify(b)

			assert.NotEqual(t, escerts.TypeNone, ta, "SHA-1 variant should classify")
			assert.Equal(t, ta, tb, "hash variants of one family should produce the same type")
		})
	}
}

func TestClassify_Invalid(t *testing.T) {
	decoder := escerts.New()

	valid := buildTestCert(escerts.SigTypeRsa2048Sha256, escerts.PubKeyTypeRsa2048, "Root", "CA00000003", 0)

	tests := []struct {
		name  string
		input func() []byte
	}{
		{
			name:  "Below Minimum Size",
			input: func() []byte { return make([]byte, escerts.SignedCertMinSize-1) },
		},
		{
			name:  "Above Maximum Size",
			input: func() []byte { return make([]byte, escerts.SignedCertMaxSize+1) },
		},
		{
			name: "Unknown Signature Type",
			input: func() []byte {
				data := append([]byte{}, valid...)
				binary.BigEndian.PutUint32(data, 0xDEADBEEF)
				return data
			},
		},
		{
			name: "Unknown Public Key Type",
			input: func() []byte {
				data := append([]byte{}, valid...)
				binary.BigEndian.PutUint32(data[0x140+0x40:], 7)
				return data
			},
		},
		{
			name: "Signed Size Exceeds Buffer",
			input: func() []byte {
				// Declares an RSA-4096 public key but only carries enough
				// bytes for the RSA-2048 layout.
				data := append([]byte{}, valid...)
				binary.BigEndian.PutUint32(data[0x140+0x40:], uint32(escerts.PubKeyTypeRsa4096))
				return data
			},
		},
		{
			name:  "Empty Input",
			input: func() []byte { return nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, escerts.TypeNone, decoder.Classify(tt.input()), "expected TypeNone")
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	decoder := escerts.New()

	valid := buildTestCert(escerts.SigTypeRsa2048Sha256, escerts.PubKeyTypeRsa2048, "Root", "CA00000003", 0)

	tests := []struct {
		name     string
		input    func() []byte
		expected error
	}{
		{
			name:     "Too Small",
			input:    func() []byte { return make([]byte, 0x10) },
			expected: escerts.ErrSizeOutOfRange,
		},
		{
			name:     "Too Large",
			input:    func() []byte { return make([]byte, escerts.SignedCertMaxSize+1) },
			expected: escerts.ErrSizeOutOfRange,
		},
		{
			name: "Unknown Signature Type",
			input: func() []byte {
				data := append([]byte{}, valid...)
				binary.BigEndian.PutUint32(data, 0x20000)
				return data
			},
			expected: escerts.ErrInvalidSignatureType,
		},
		{
			name: "Unknown Public Key Type",
			input: func() []byte {
				data := append([]byte{}, valid...)
				binary.BigEndian.PutUint32(data[0x140+0x40:], 3)
				return data
			},
			expected: escerts.ErrInvalidPublicKeyType,
		},
		{
			name: "Truncated Certificate",
			input: func() []byte {
				data := append([]byte{}, valid...)
				binary.BigEndian.PutUint32(data[0x140+0x40:], uint32(escerts.PubKeyTypeRsa4096))
				return data
			},
			expected: escerts.ErrTruncatedCertificate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decoder.Decode(tt.input())
			assert.Equal(t, tt.expected, err, "expected specific error")
		})
	}
}

func TestDecodeMultiple_Invalid(t *testing.T) {
	decoder := escerts.New()

	valid := buildTestCert(escerts.SigTypeRsa2048Sha256, escerts.PubKeyTypeRsa2048, "Root", "CA00000003", 0)

	tests := []struct {
		name     string
		input    func() []byte
		expected error
	}{
		{
			name:     "Empty Input",
			input:    func() []byte { return nil },
			expected: escerts.ErrNoCertificates,
		},
		{
			name:     "Garbage Input",
			input:    func() []byte { return make([]byte, 0x20) },
			expected: escerts.ErrNoCertificates,
		},
		{
			name: "Trailing Garbage After Valid Certificate",
			input: func() []byte {
				return append(append([]byte{}, valid...), 0xFF, 0xFF, 0xFF, 0xFF)
			},
			expected: escerts.ErrTruncatedCertificate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decoder.DecodeMultiple(tt.input())
			assert.Equal(t, tt.expected, err, "expected specific error")
		})
	}
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "none", escerts.TypeNone.String(), "TypeNone should stringify as none")
	assert.Equal(t, "RSA-4096/RSA-2048", escerts.TypeSigRsa4096PubKeyRsa2048.String(), "composite name mismatch")
	assert.Equal(t, "HMAC-160/ECC-480", escerts.TypeSigHmac160PubKeyEcc480.String(), "composite name mismatch")
	assert.Equal(t, "RSA-4096 (SHA-256)", escerts.SigTypeRsa4096Sha256.String(), "signature type name mismatch")
	assert.Equal(t, "ECC-480", escerts.PubKeyTypeEcc480.String(), "public key type name mismatch")
}
