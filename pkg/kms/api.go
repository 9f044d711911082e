/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package kms defines the key management contract the issuance pipeline
// signs through. Concrete backends (HSM, cloud KMS) are external; the
// localkms subpackage provides the in-memory implementation used by tests
// and local composition.
package kms

import (
	"crypto"
	"errors"
)

// Signing failure kinds. Callers branch on these to decide between
// fallback providers, failing fast and re-keying.
var (
	// ErrKeyNotFound is returned when the key id is unknown to the backend.
	ErrKeyNotFound = errors.New("key not found")

	// ErrUnsupportedAlgorithm is returned when the key exists but cannot
	// produce the requested signature algorithm.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
)

// KeyType identifies the cryptographic key algorithm.
type KeyType string

// Supported key types.
const (
	ED25519 KeyType = "ED25519"
)

// KeyManager signs digests and exposes public key material by key id.
type KeyManager interface {
	// Sign signs data with the key identified by keyID.
	Sign(keyID string, data []byte) ([]byte, error)

	// PublicKey returns the public part of the key identified by keyID.
	PublicKey(keyID string) (crypto.PublicKey, error)
}
