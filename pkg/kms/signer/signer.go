/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signer

import (
	"time"

	"github.com/trustfabric/vckit/pkg/kms"
	noopMetricsProvider "github.com/trustfabric/vckit/pkg/observability/metrics/noop"
)

type metricsProvider interface {
	SignTime(value time.Duration)
}

// KMSSigner signs digests with a fixed key management key. Proof suites
// receive it already bound to the key id, so key material never crosses
// the suite boundary.
// Note: do not create an instance of KMSSigner directly. Use NewKMSSigner() instead.
type KMSSigner struct {
	keyManager kms.KeyManager
	keyID      string
	algorithm  string
	metrics    metricsProvider
}

// NewKMSSigner returns a signer bound to keyID in keyManager.
func NewKMSSigner(keyManager kms.KeyManager, keyID, algorithm string, metrics metricsProvider) *KMSSigner {
	if metrics == nil {
		metrics = &noopMetricsProvider.NoMetrics{}
	}

	return &KMSSigner{
		keyManager: keyManager,
		keyID:      keyID,
		algorithm:  algorithm,
		metrics:    metrics,
	}
}

// Sign signs data with the bound key. Failures carry the kms error kinds
// (kms.ErrKeyNotFound, kms.ErrUnsupportedAlgorithm) unchanged.
func (s *KMSSigner) Sign(data []byte) ([]byte, error) {
	startTime := time.Now()

	defer func() {
		s.metrics.SignTime(time.Since(startTime))
	}()

	return s.keyManager.Sign(s.keyID, data)
}

// Alg returns the signature algorithm name.
func (s *KMSSigner) Alg() string {
	return s.algorithm
}

// KeyID returns the bound key id.
func (s *KMSSigner) KeyID() string {
	return s.keyID
}
