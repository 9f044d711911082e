/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package ed25519signature2020 implements the Ed25519Signature2020 proof
// suite: an ed25519 signature over the canonical document digest, carried
// as a z-prefixed base58btc proof value.
package ed25519signature2020

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"strings"
	"time"

	"github.com/btcsuite/btcutil/base58"

	"github.com/trustfabric/vckit/pkg/did"
	"github.com/trustfabric/vckit/pkg/doc/canonical"
	"github.com/trustfabric/vckit/pkg/doc/vc"
	"github.com/trustfabric/vckit/pkg/registry"
	"github.com/trustfabric/vckit/pkg/suite"
)

// ProofType is the suite type tag.
const ProofType = "Ed25519Signature2020"

const proofValuePrefix = "z"

// Suite implements the Ed25519Signature2020 proof suite.
type Suite struct{}

// New returns the suite.
func New() *Suite {
	return &Suite{}
}

// Capabilities declares the proof-suite capability.
func (s *Suite) Capabilities() []string {
	return []string{registry.ProofSuiteCapability}
}

// Type returns the proof type tag.
func (s *Suite) Type() string {
	return ProofType
}

// Generate signs the canonical digest of doc through signer.
func (s *Suite) Generate(_ context.Context, doc map[string]interface{}, signer suite.Signer,
	verificationMethod, purpose string) (*vc.Proof, error) {
	digest, err := canonical.SHA256DigestMultibase(doc)
	if err != nil {
		return nil, fmt.Errorf("digest document: %w", err)
	}

	signature, err := signer.Sign([]byte(digest))
	if err != nil {
		return nil, fmt.Errorf("sign digest: %w", err)
	}

	return &vc.Proof{
		Type:               ProofType,
		Created:            time.Now().UTC(),
		VerificationMethod: verificationMethod,
		ProofPurpose:       purpose,
		ProofValue:         proofValuePrefix + base58.Encode(signature),
	}, nil
}

// Verify recomputes the canonical digest of doc and checks the proof
// signature against the resolved verification method.
func (s *Suite) Verify(_ context.Context, doc map[string]interface{}, proof *vc.Proof,
	verificationMethod *did.VerificationMethod) error {
	if proof == nil || !strings.HasPrefix(proof.ProofValue, proofValuePrefix) {
		return fmt.Errorf("proof value is not base58btc multibase: %w", suite.ErrMalformedProof)
	}

	signature := base58.Decode(proof.ProofValue[len(proofValuePrefix):])
	if len(signature) != ed25519.SignatureSize {
		return fmt.Errorf("proof value is not an ed25519 signature: %w", suite.ErrMalformedProof)
	}

	if verificationMethod == nil || len(verificationMethod.Value) != ed25519.PublicKeySize {
		return fmt.Errorf("verification method is not an ed25519 key: %w", suite.ErrInvalidKeyMaterial)
	}

	digest, err := canonical.SHA256DigestMultibase(doc)
	if err != nil {
		return fmt.Errorf("digest document: %w", err)
	}

	if !ed25519.Verify(ed25519.PublicKey(verificationMethod.Value), []byte(digest), signature) {
		return suite.ErrSignatureMismatch
	}

	return nil
}
