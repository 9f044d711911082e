/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package localkms is an in-memory ed25519 key manager. It backs tests and
// local composition; production deployments inject an external backend
// satisfying the kms.KeyManager contract instead.
package localkms

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/trustfabric/vckit/pkg/kms"
)

// LocalKMS holds ed25519 private keys in memory, keyed by generated ids.
type LocalKMS struct {
	mu   sync.RWMutex
	keys map[string]ed25519.PrivateKey
}

// New returns an empty LocalKMS.
func New() *LocalKMS {
	return &LocalKMS{keys: make(map[string]ed25519.PrivateKey)}
}

// CreateKey generates a new key of the given type and returns its id and
// public key.
func (l *LocalKMS) CreateKey(keyType kms.KeyType) (string, crypto.PublicKey, error) {
	if keyType != kms.ED25519 {
		return "", nil, fmt.Errorf("create key of type %q: %w", keyType, kms.ErrUnsupportedAlgorithm)
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", nil, fmt.Errorf("generate ed25519 key: %w", err)
	}

	keyID := uuid.NewString()

	l.mu.Lock()
	l.keys[keyID] = priv
	l.mu.Unlock()

	return keyID, pub, nil
}

// Sign signs data with the key identified by keyID.
func (l *LocalKMS) Sign(keyID string, data []byte) ([]byte, error) {
	l.mu.RLock()
	priv, ok := l.keys[keyID]
	l.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("sign with key %q: %w", keyID, kms.ErrKeyNotFound)
	}

	return ed25519.Sign(priv, data), nil
}

// PublicKey returns the public key for keyID.
func (l *LocalKMS) PublicKey(keyID string) (crypto.PublicKey, error) {
	l.mu.RLock()
	priv, ok := l.keys[keyID]
	l.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("get public key %q: %w", keyID, kms.ErrKeyNotFound)
	}

	return priv.Public(), nil
}
