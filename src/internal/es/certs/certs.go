// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package escerts

import (
	"bytes"
	"errors"

	"golang.org/x/crypto/cryptobyte"
)

var (
	// ErrSizeOutOfRange indicates that the buffer length is outside the valid
	// signed certificate size bounds.
	ErrSizeOutOfRange = errors.New("escerts: certificate size out of range")

	// ErrInvalidSignatureType indicates that the leading signature type tag does
	// not match any known signature family.
	ErrInvalidSignatureType = errors.New("escerts: invalid signature type")

	// ErrInvalidPublicKeyType indicates that the public key type field in the
	// common block does not match any known public key family.
	ErrInvalidPublicKeyType = errors.New("escerts: invalid public key type")

	// ErrTruncatedCertificate indicates that the signed certificate size derived
	// from the header fields exceeds the available buffer.
	ErrTruncatedCertificate = errors.New("escerts: truncated signed certificate")

	// ErrNoCertificates indicates that no signed certificates were found in the
	// provided raw chain data.
	ErrNoCertificates = errors.New("escerts: no certificates found in raw chain data")
)

// SignatureType is the big-endian tag at the start of a signed certificate.
// The tag encodes both the signature algorithm family and the hash variant;
// classification ignores the hash variant.
type SignatureType uint32

// Known signature type tags.
const (
	SigTypeRsa4096Sha1   SignatureType = 0x10000
	SigTypeRsa2048Sha1   SignatureType = 0x10001
	SigTypeEcc480Sha1    SignatureType = 0x10002
	SigTypeHmac160Sha1   SignatureType = 0x10003
	SigTypeRsa4096Sha256 SignatureType = 0x10004
	SigTypeRsa2048Sha256 SignatureType = 0x10005
	SigTypeEcc480Sha256  SignatureType = 0x10006
)

// PublicKeyType is the big-endian public key algorithm field stored in the
// certificate common block.
type PublicKeyType uint32

// Known public key type values.
const (
	PubKeyTypeRsa4096 PublicKeyType = 0
	PubKeyTypeRsa2048 PublicKeyType = 1
	PubKeyTypeEcc480  PublicKeyType = 2
)

// Type is the composite certificate type: the cross product of the signature
// algorithm family and the public key algorithm family. The hash variant of
// the signature never affects the Type. HMAC-160 only exists as a SHA-1
// signature and still combines with all three public key families, matching
// the certificate format as shipped.
type Type uint8

// Composite certificate types. TypeNone is the failure sentinel returned by
// Classify and never describes a successfully decoded certificate.
const (
	TypeNone Type = iota
	TypeSigRsa4096PubKeyRsa4096
	TypeSigRsa4096PubKeyRsa2048
	TypeSigRsa4096PubKeyEcc480
	TypeSigRsa2048PubKeyRsa4096
	TypeSigRsa2048PubKeyRsa2048
	TypeSigRsa2048PubKeyEcc480
	TypeSigEcc480PubKeyRsa4096
	TypeSigEcc480PubKeyRsa2048
	TypeSigEcc480PubKeyEcc480
	TypeSigHmac160PubKeyRsa4096
	TypeSigHmac160PubKeyRsa2048
	TypeSigHmac160PubKeyEcc480
)

// Binary layout sizes in bytes. Signature blocks carry the 4-byte type tag,
// the signature itself and fixed padding; the common block carries the issuer,
// the public key type, the subject name and the date field.
const (
	sigBlockSizeRsa4096 = 0x240
	sigBlockSizeRsa2048 = 0x140
	sigBlockSizeEcc480  = 0x80
	sigBlockSizeHmac160 = 0x40

	commonBlockSize = 0x88

	pubKeyBlockSizeRsa4096 = 0x238
	pubKeyBlockSizeRsa2048 = 0x138
	pubKeyBlockSizeEcc480  = 0xB4

	issuerFieldSize = 0x40
	nameFieldSize   = 0x40

	// Field offsets within the common block.
	pubKeyTypeFieldOffset = issuerFieldSize
	nameFieldOffset       = issuerFieldSize + 4
	dateFieldOffset       = issuerFieldSize + 4 + nameFieldSize
)

// Signed certificate size bounds. The smallest valid certificate pairs an
// HMAC-160 signature with an ECC-480 key; the largest pairs RSA-4096 with
// RSA-4096.
const (
	SignedCertMinSize = sigBlockSizeHmac160 + commonBlockSize + pubKeyBlockSizeEcc480  // 0x17C
	SignedCertMaxSize = sigBlockSizeRsa4096 + commonBlockSize + pubKeyBlockSizeRsa4096 // 0x500
)

// String returns the conventional name of the signature type tag.
func (s SignatureType) String() string {
	switch s {
	case SigTypeRsa4096Sha1:
		return "RSA-4096 (SHA-1)"
	case SigTypeRsa2048Sha1:
		return "RSA-2048 (SHA-1)"
	case SigTypeEcc480Sha1:
		return "ECC-480 (SHA-1)"
	case SigTypeHmac160Sha1:
		return "HMAC-160 (SHA-1)"
	case SigTypeRsa4096Sha256:
		return "RSA-4096 (SHA-256)"
	case SigTypeRsa2048Sha256:
		return "RSA-2048 (SHA-256)"
	case SigTypeEcc480Sha256:
		return "ECC-480 (SHA-256)"
	default:
		return "unknown"
	}
}

// String returns the conventional name of the public key type.
func (p PublicKeyType) String() string {
	switch p {
	case PubKeyTypeRsa4096:
		return "RSA-4096"
	case PubKeyTypeRsa2048:
		return "RSA-2048"
	case PubKeyTypeEcc480:
		return "ECC-480"
	default:
		return "unknown"
	}
}

// String returns the composite type name in "signature/public key" form.
func (t Type) String() string {
	switch t {
	case TypeSigRsa4096PubKeyRsa4096:
		return "RSA-4096/RSA-4096"
	case TypeSigRsa4096PubKeyRsa2048:
		return "RSA-4096/RSA-2048"
	case TypeSigRsa4096PubKeyEcc480:
		return "RSA-4096/ECC-480"
	case TypeSigRsa2048PubKeyRsa4096:
		return "RSA-2048/RSA-4096"
	case TypeSigRsa2048PubKeyRsa2048:
		return "RSA-2048/RSA-2048"
	case TypeSigRsa2048PubKeyEcc480:
		return "RSA-2048/ECC-480"
	case TypeSigEcc480PubKeyRsa4096:
		return "ECC-480/RSA-4096"
	case TypeSigEcc480PubKeyRsa2048:
		return "ECC-480/RSA-2048"
	case TypeSigEcc480PubKeyEcc480:
		return "ECC-480/ECC-480"
	case TypeSigHmac160PubKeyRsa4096:
		return "HMAC-160/RSA-4096"
	case TypeSigHmac160PubKeyRsa2048:
		return "HMAC-160/RSA-2048"
	case TypeSigHmac160PubKeyEcc480:
		return "HMAC-160/ECC-480"
	default:
		return "none"
	}
}

// sigBlockSize returns the full signature block size for a signature type tag,
// or 0 when the tag is unknown.
func sigBlockSize(s SignatureType) int {
	switch s {
	case SigTypeRsa4096Sha1, SigTypeRsa4096Sha256:
		return sigBlockSizeRsa4096
	case SigTypeRsa2048Sha1, SigTypeRsa2048Sha256:
		return sigBlockSizeRsa2048
	case SigTypeEcc480Sha1, SigTypeEcc480Sha256:
		return sigBlockSizeEcc480
	case SigTypeHmac160Sha1:
		return sigBlockSizeHmac160
	default:
		return 0
	}
}

// pubKeyBlockSize returns the public key block size for a public key type,
// or 0 when the type is unknown.
func pubKeyBlockSize(p PublicKeyType) int {
	switch p {
	case PubKeyTypeRsa4096:
		return pubKeyBlockSizeRsa4096
	case PubKeyTypeRsa2048:
		return pubKeyBlockSizeRsa2048
	case PubKeyTypeEcc480:
		return pubKeyBlockSizeEcc480
	default:
		return 0
	}
}

// Certificate is a decoded signed certificate: the raw bytes exactly as read
// from the store plus the fields extracted from them. Data always spans the
// full signed certificate, SignedCertMinSize to SignedCertMaxSize bytes.
type Certificate struct {
	// Data holds the raw signed certificate bytes.
	Data []byte

	// Type is the composite signature/public key classification.
	Type Type

	// SigType is the signature type tag including the hash variant.
	SigType SignatureType

	// PubKeyType is the public key algorithm field from the common block.
	PubKeyType PublicKeyType

	// Issuer is the NUL-trimmed issuer field from the common block.
	Issuer string

	// Name is the NUL-trimmed subject name field from the common block.
	Name string

	// Date is the raw date field from the common block.
	Date uint32
}

// Size returns the signed certificate length in bytes.
func (c *Certificate) Size() int { return len(c.Data) }

// SignatureBlock returns the signature block view of the raw data.
func (c *Certificate) SignatureBlock() []byte {
	return c.Data[:sigBlockSize(c.SigType)]
}

// CommonBlock returns the common header block view of the raw data.
func (c *Certificate) CommonBlock() []byte {
	start := sigBlockSize(c.SigType)
	return c.Data[start : start+commonBlockSize]
}

// PublicKeyBlock returns the public key block view of the raw data.
func (c *Certificate) PublicKeyBlock() []byte {
	start := sigBlockSize(c.SigType) + commonBlockSize
	return c.Data[start : start+pubKeyBlockSize(c.PubKeyType)]
}

// Decoder provides methods to classify and decode signed certificates.
// All methods are pure functions over the caller's buffer; the Decoder holds
// no state and is safe for concurrent use.
type Decoder struct{}

// New creates a new Decoder.
func New() *Decoder { return &Decoder{} }

// Classify determines the composite certificate type from the signature type
// tag and the public key type field. It returns TypeNone when the buffer
// length is outside [SignedCertMinSize, SignedCertMaxSize], when either field
// is unknown, or when the derived signed certificate size exceeds the buffer.
func (d *Decoder) Classify(data []byte) Type {
	if len(data) < SignedCertMinSize || len(data) > SignedCertMaxSize {
		return TypeNone
	}

	sigType, pubKeyType, signedSize, err := d.parseHeader(data)
	if err != nil {
		return TypeNone
	}
	if signedSize > len(data) {
		return TypeNone
	}

	return combineType(sigType, pubKeyType)
}

// SignedSize derives the full signed certificate size from the signature and
// public key type fields. It returns 0 when the size cannot be computed, which
// happens when the buffer is too short to hold the header fields or when
// either field is unknown.
func (d *Decoder) SignedSize(data []byte) int {
	_, _, signedSize, err := d.parseHeader(data)
	if err != nil {
		return 0
	}
	return signedSize
}

// Decode decodes a single signed certificate from data. The buffer must hold
// exactly one certificate; trailing bytes beyond the derived signed size are
// tolerated as long as the total stays within SignedCertMaxSize, mirroring
// Classify.
func (d *Decoder) Decode(data []byte) (*Certificate, error) {
	if len(data) < SignedCertMinSize || len(data) > SignedCertMaxSize {
		return nil, ErrSizeOutOfRange
	}

	sigType, pubKeyType, signedSize, err := d.parseHeader(data)
	if err != nil {
		return nil, err
	}
	if signedSize > len(data) {
		return nil, ErrTruncatedCertificate
	}

	common := data[sigBlockSize(sigType) : sigBlockSize(sigType)+commonBlockSize]

	return &Certificate{
		Data:       data[:len(data):len(data)],
		Type:       combineType(sigType, pubKeyType),
		SigType:    sigType,
		PubKeyType: pubKeyType,
		Issuer:     trimNul(common[:issuerFieldSize]),
		Name:       trimNul(common[nameFieldOffset : nameFieldOffset+nameFieldSize]),
		Date:       beUint32(common[dateFieldOffset:]),
	}, nil
}

// DecodeMultiple decodes a raw chain blob into its member certificates by
// walking the concatenated signed certificates front to back. Each member is
// sliced at its derived signed size; leftover bytes that do not form a valid
// certificate fail the whole decode.
func (d *Decoder) DecodeMultiple(data []byte) ([]*Certificate, error) {
	var certs []*Certificate

	rest := data
	for len(rest) > 0 {
		signedSize := d.SignedSize(rest)
		if signedSize == 0 || signedSize > len(rest) {
			if len(certs) == 0 {
				return nil, ErrNoCertificates
			}
			return nil, ErrTruncatedCertificate
		}

		cert, err := d.Decode(rest[:signedSize])
		if err != nil {
			return nil, err
		}

		certs = append(certs, cert)
		rest = rest[signedSize:]
	}

	if len(certs) == 0 {
		return nil, ErrNoCertificates
	}

	return certs, nil
}

// parseHeader reads the signature type tag and the public key type field and
// derives the total signed certificate size from them.
func (d *Decoder) parseHeader(data []byte) (SignatureType, PublicKeyType, int, error) {
	s := cryptobyte.String(data)

	var sigTag uint32
	if !s.ReadUint32(&sigTag) {
		return 0, 0, 0, ErrInvalidSignatureType
	}

	sigType := SignatureType(sigTag)
	sigSize := sigBlockSize(sigType)
	if sigSize == 0 {
		return 0, 0, 0, ErrInvalidSignatureType
	}

	// Skip the rest of the signature block and the issuer field to reach the
	// public key type field.
	if !s.Skip(sigSize - 4 + pubKeyTypeFieldOffset) {
		return 0, 0, 0, ErrTruncatedCertificate
	}

	var pubKeyTag uint32
	if !s.ReadUint32(&pubKeyTag) {
		return 0, 0, 0, ErrTruncatedCertificate
	}

	pubKeyType := PublicKeyType(pubKeyTag)
	pubKeySize := pubKeyBlockSize(pubKeyType)
	if pubKeySize == 0 {
		return 0, 0, 0, ErrInvalidPublicKeyType
	}

	return sigType, pubKeyType, sigSize + commonBlockSize + pubKeySize, nil
}

// combineType maps a known signature family and public key family to the
// composite type. The hash variant collapses here: SHA-1 and SHA-256 tags of
// one family produce the identical Type.
func combineType(sigType SignatureType, pubKeyType PublicKeyType) Type {
	switch sigType {
	case SigTypeRsa4096Sha1, SigTypeRsa4096Sha256:
		return pickByPubKey(pubKeyType, TypeSigRsa4096PubKeyRsa4096, TypeSigRsa4096PubKeyRsa2048, TypeSigRsa4096PubKeyEcc480)
	case SigTypeRsa2048Sha1, SigTypeRsa2048Sha256:
		return pickByPubKey(pubKeyType, TypeSigRsa2048PubKeyRsa4096, TypeSigRsa2048PubKeyRsa2048, TypeSigRsa2048PubKeyEcc480)
	case SigTypeEcc480Sha1, SigTypeEcc480Sha256:
		return pickByPubKey(pubKeyType, TypeSigEcc480PubKeyRsa4096, TypeSigEcc480PubKeyRsa2048, TypeSigEcc480PubKeyEcc480)
	case SigTypeHmac160Sha1:
		// HMAC signatures still combine with the declared public key family
		// even though the format assigns them no meaningful public key.
		return pickByPubKey(pubKeyType, TypeSigHmac160PubKeyRsa4096, TypeSigHmac160PubKeyRsa2048, TypeSigHmac160PubKeyEcc480)
	default:
		return TypeNone
	}
}

// pickByPubKey selects the composite type matching the public key family.
func pickByPubKey(p PublicKeyType, rsa4096, rsa2048, ecc480 Type) Type {
	switch p {
	case PubKeyTypeRsa4096:
		return rsa4096
	case PubKeyTypeRsa2048:
		return rsa2048
	case PubKeyTypeEcc480:
		return ecc480
	default:
		return TypeNone
	}
}

// trimNul returns the string up to the first NUL byte of a fixed-size field.
func trimNul(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return string(field)
}

// beUint32 decodes a big-endian uint32 without shortening the caller's slice.
func beUint32(b []byte) uint32 {
	var v uint32
	s := cryptobyte.String(b)
	s.ReadUint32(&v)
	return v
}
