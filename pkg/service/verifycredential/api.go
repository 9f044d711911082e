/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifycredential

import (
	"context"

	"github.com/trustfabric/vckit/pkg/doc/vc"
)

// Sub-check names used to tag errors and warnings.
const (
	IssuerCheck     = "issuer"
	ProofCheck      = "proof"
	ExpirationCheck = "expiration"
	RevocationCheck = "revocation"
	SchemaCheck     = "schema"
	AnchorCheck     = "anchor"
)

// Options enables individual verification sub-checks. A disabled check
// contributes a passing sub-result by contract, never "unknown".
type Options struct {
	// ResolveIssuerDID enables issuer resolution and proof verification.
	ResolveIssuerDID bool

	// CheckExpiration enables the expiration check.
	CheckExpiration bool

	// CheckRevocation enables the revocation check against the
	// credential's status reference.
	CheckRevocation bool

	// ValidateSchema enables subject claims validation against the
	// credential's schema reference.
	ValidateSchema bool

	// VerifyBlockchainAnchor enables the optional anchor check.
	VerifyBlockchainAnchor bool

	// FailClosedRevocation turns an unresolvable revocation status into a
	// failure. The default keeps the lenient warning-only behavior.
	FailClosedRevocation bool

	// RevocationPreference is the provider preference order used to pick
	// a revocation checker among the registered ones.
	RevocationPreference []string

	// AnchorChainID selects the anchoring chain for the anchor check.
	AnchorChainID string
}

// CheckError localizes a sub-check failure or warning.
type CheckError struct {
	Check   string
	Field   string
	Message string
}

// VerificationResult aggregates the outcome of every sub-check. Valid is
// the conjunction of all enabled sub-results.
type VerificationResult struct {
	Valid       bool
	ProofValid  bool
	IssuerValid bool
	NotExpired  bool
	NotRevoked  bool
	SchemaValid bool
	AnchorValid bool
	Errors      []CheckError
	Warnings    []CheckError
}

// ServiceInterface is the verification pipeline contract.
type ServiceInterface interface {
	VerifyCredential(ctx context.Context, credential *vc.Credential, opts *Options) (*VerificationResult, error)
}
