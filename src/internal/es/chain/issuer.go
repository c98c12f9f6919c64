// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package eschain

import (
	"errors"
	"strings"
)

// RootPrefix is the literal prefix of every well-formed issuer string. It
// names the implicit root authority and is not itself a certificate name.
const RootPrefix = "Root-"

var (
	// ErrInvalidIssuer indicates an issuer string that is empty, does not
	// start with RootPrefix, or carries no certificate names after it.
	ErrInvalidIssuer = errors.New("eschain: malformed issuer string")

	// ErrInvalidName indicates an empty certificate name.
	ErrInvalidName = errors.New("eschain: certificate name is empty")
)

// SplitIssuer validates issuer and returns the certificate names it carries,
// in chain order. The issuer must be strictly longer than RootPrefix and start
// with it. Empty segments from doubled separators are skipped; an issuer that
// yields no names at all is malformed. No store access happens here, so a bad
// issuer is rejected before any session is opened.
func SplitIssuer(issuer string) ([]string, error) {
	if len(issuer) <= len(RootPrefix) || !strings.HasPrefix(issuer, RootPrefix) {
		return nil, ErrInvalidIssuer
	}

	var names []string
	for _, segment := range strings.Split(issuer[len(RootPrefix):], "-") {
		if segment == "" {
			continue
		}
		names = append(names, segment)
	}

	if len(names) == 0 {
		return nil, ErrInvalidIssuer
	}

	return names, nil
}
