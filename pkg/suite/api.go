/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package suite defines the proof suite contract. A suite is a plugin
// registered under the proof-suite capability and tagged with its type
// name; the pipelines resolve it through the provider registry by the
// proof's declared type.
package suite

import (
	"context"
	"errors"
	"fmt"

	"github.com/trustfabric/vckit/pkg/did"
	"github.com/trustfabric/vckit/pkg/doc/vc"
	"github.com/trustfabric/vckit/pkg/registry"
)

// Verification failure kinds. Suites return these wrapped with detail;
// they are never panics, so the surrounding pipeline keeps aggregating
// other checks.
var (
	// ErrUnsupportedProofType is returned by Resolve when no registered
	// suite matches the requested proof type.
	ErrUnsupportedProofType = errors.New("unsupported proof type")

	// ErrMalformedProof is returned when the proof structure or its value
	// encoding cannot be decoded.
	ErrMalformedProof = errors.New("malformed proof")

	// ErrInvalidKeyMaterial is returned when the resolved verification
	// method cannot be used with the suite.
	ErrInvalidKeyMaterial = errors.New("invalid key material")

	// ErrSignatureMismatch is returned when the signature does not verify
	// over the canonical digest.
	ErrSignatureMismatch = errors.New("signature mismatch")
)

// Signer signs a canonical digest. Implementations are bound to an
// external key management key id (see kms/signer).
type Signer interface {
	Sign(data []byte) ([]byte, error)
	Alg() string
}

// Suite generates and verifies proofs over the canonical digest of a
// credential document without its proof member.
type Suite interface {
	registry.Plugin

	// Type is the proof type tag stamped into generated proofs.
	Type() string

	// Generate computes the canonical digest of doc, signs it through
	// signer and returns the proof.
	Generate(ctx context.Context, doc map[string]interface{}, signer Signer,
		verificationMethod, purpose string) (*vc.Proof, error)

	// Verify recomputes the canonical digest of doc and checks proof
	// against the resolved verification method.
	Verify(ctx context.Context, doc map[string]interface{}, proof *vc.Proof,
		verificationMethod *did.VerificationMethod) error
}

// Resolve looks the suite up by proof type among the proof-suite plugins.
// An unknown type is an ErrUnsupportedProofType failure, never a crash.
func Resolve(providerRegistry *registry.ProviderRegistry, proofType string) (Suite, error) {
	registrations, err := providerRegistry.FindByCapability(registry.ProofSuiteCapability)
	if err != nil {
		return nil, fmt.Errorf("find proof suites: %w", err)
	}

	for _, registration := range registrations {
		s, ok := registration.Instance.(Suite)
		if !ok {
			continue
		}

		if s.Type() == proofType {
			return s, nil
		}
	}

	return nil, fmt.Errorf("%q: %w", proofType, ErrUnsupportedProofType)
}
