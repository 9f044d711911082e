/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"context"
	"errors"
	"time"

	"github.com/trustfabric/vckit/pkg/doc/vc"
)

// ErrInvalidRequest is returned for requests missing claims, issuer, key
// id or proof type. Reported immediately, never retried.
var ErrInvalidRequest = errors.New("invalid issue credential request")

// CredentialRequest describes a credential to issue.
type CredentialRequest struct {
	// Claims are the subject claims. Required.
	Claims map[string]interface{}

	// IssuerDID identifies the issuer. Required.
	IssuerDID string

	// KeyID is the key management key the proof is signed with. Required.
	KeyID string

	// ProofType selects the proof suite by its type tag. Required.
	ProofType string

	// Types are additional credential types beside VerifiableCredential.
	Types []string

	// Expiry is the optional expiration time.
	Expiry *time.Time

	// Status is the optional credential status reference.
	Status *vc.TypedID

	// Schema is the optional credential schema reference.
	Schema *vc.TypedID

	// VerificationMethod overrides the default verification method id of
	// IssuerDID + "#" + KeyID.
	VerificationMethod string

	// Purpose overrides the default assertionMethod proof purpose.
	Purpose string
}

// ServiceInterface is the issuance pipeline contract.
type ServiceInterface interface {
	IssueCredential(ctx context.Context, request *CredentialRequest) (*vc.Credential, error)
}
