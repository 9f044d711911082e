/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package jsonwebsignature2020 implements the JsonWebSignature2020 proof
// suite: a detached compact JWS over the canonical document digest.
package jsonwebsignature2020

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v3"

	"github.com/trustfabric/vckit/pkg/did"
	"github.com/trustfabric/vckit/pkg/doc/canonical"
	"github.com/trustfabric/vckit/pkg/doc/vc"
	"github.com/trustfabric/vckit/pkg/registry"
	"github.com/trustfabric/vckit/pkg/suite"
)

// ProofType is the suite type tag.
const ProofType = "JsonWebSignature2020"

// Suite implements the JsonWebSignature2020 proof suite.
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

// Generate signs the canonical digest of doc as a detached compact JWS.
// The JWS is assembled by hand because signing is delegated to an opaque
// KMS-bound signer; verification goes through go-jose.
func (s *Suite) Generate(_ context.Context, doc map[string]interface{}, signer suite.Signer,
	verificationMethod, purpose string) (*vc.Proof, error) {
	digest, err := canonical.SHA256DigestMultibase(doc)
	if err != nil {
		return nil, fmt.Errorf("digest document: %w", err)
	}

	header := map[string]string{
		"alg": signer.Alg(),
		"kid": verificationMethod,
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("marshal JWS header: %w", err)
	}

	protected := base64.RawURLEncoding.EncodeToString(headerJSON)
	signingInput := protected + "." + base64.RawURLEncoding.EncodeToString([]byte(digest))

	signature, err := signer.Sign([]byte(signingInput))
	if err != nil {
		return nil, fmt.Errorf("sign digest: %w", err)
	}

	return &vc.Proof{
		Type:               ProofType,
		Created:            time.Now().UTC(),
		VerificationMethod: verificationMethod,
		ProofPurpose:       purpose,
		ProofValue:         protected + ".." + base64.RawURLEncoding.EncodeToString(signature),
	}, nil
}

// Verify recomputes the canonical digest and verifies the detached JWS
// against the resolved verification method.
func (s *Suite) Verify(_ context.Context, doc map[string]interface{}, proof *vc.Proof,
	verificationMethod *did.VerificationMethod) error {
	if proof == nil || proof.ProofValue == "" {
		return fmt.Errorf("missing proof value: %w", suite.ErrMalformedProof)
	}

	if verificationMethod == nil || len(verificationMethod.Value) != ed25519.PublicKeySize {
		return fmt.Errorf("verification method is not an ed25519 key: %w", suite.ErrInvalidKeyMaterial)
	}

	digest, err := canonical.SHA256DigestMultibase(doc)
	if err != nil {
		return fmt.Errorf("digest document: %w", err)
	}

	jws, err := jose.ParseDetached(proof.ProofValue, []byte(digest))
	if err != nil {
		return fmt.Errorf("parse detached JWS: %w", suite.ErrMalformedProof)
	}

	if _, err := jws.Verify(ed25519.PublicKey(verificationMethod.Value)); err != nil {
		return fmt.Errorf("%v: %w", err, suite.ErrSignatureMismatch)
	}

	return nil
}
