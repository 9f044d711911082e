/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package vc defines the verifiable credential data model. A credential is
// immutable once issued; revocation is tracked externally through its
// status reference, never by mutating the document.
package vc

import (
	"encoding/json"
	"fmt"
	"time"
)

// VCType is the base credential type present on every credential.
const VCType = "VerifiableCredential"

// Proof purposes.
const (
	AssertionMethod = "assertionMethod"
	Authentication  = "authentication"
)

// Proof is a cryptographic proof produced by a proof suite over the
// canonical digest of the credential without its proof member.
type Proof struct {
	Type               string    `json:"type"`
	Created            time.Time `json:"created"`
	VerificationMethod string    `json:"verificationMethod"`
	ProofPurpose       string    `json:"proofPurpose"`
	ProofValue         string    `json:"proofValue"`
}

// TypedID is a typed reference with optional extra fields, used for the
// credential status and schema members.
type TypedID struct {
	ID           string
	Type         string
	CustomFields map[string]interface{}
}

// MarshalJSON flattens custom fields next to id and type.
func (t *TypedID) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(t.CustomFields)+2)

	for k, v := range t.CustomFields {
		flat[k] = v
	}

	if t.ID != "" {
		flat["id"] = t.ID
	}

	if t.Type != "" {
		flat["type"] = t.Type
	}

	return json.Marshal(flat)
}

// UnmarshalJSON splits id and type out of the object and keeps the rest as
// custom fields.
func (t *TypedID) UnmarshalJSON(data []byte) error {
	var flat map[string]interface{}

	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("unmarshal typed id: %w", err)
	}

	if id, ok := flat["id"].(string); ok {
		t.ID = id
	}

	if typ, ok := flat["type"].(string); ok {
		t.Type = typ
	}

	delete(flat, "id")
	delete(flat, "type")

	if len(flat) > 0 {
		t.CustomFields = flat
	}

	return nil
}

// Timestamp keeps the raw JSON value next to the parsed time, so that a
// malformed date survives decoding and verification can report it instead
// of rejecting the whole document.
type Timestamp struct {
	Raw    string
	Time   time.Time
	Parsed bool
}

// NewTimestamp wraps a time value.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Raw: t.UTC().Format(time.RFC3339), Time: t.UTC(), Parsed: true}
}

func (t *Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Raw)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string

	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal timestamp: %w", err)
	}

	t.Raw = raw

	parsed, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		t.Time = parsed
		t.Parsed = true
	}

	return nil
}

// Credential is a signed set of claims about a subject.
type Credential struct {
	ID      string                 `json:"id,omitempty"`
	Types   []string               `json:"type"`
	Issuer  string                 `json:"issuer"`
	Subject map[string]interface{} `json:"credentialSubject"`
	Issued  *Timestamp             `json:"issuanceDate"`
	Expired *Timestamp             `json:"expirationDate,omitempty"`
	Status  *TypedID               `json:"credentialStatus,omitempty"`
	Schema  *TypedID               `json:"credentialSchema,omitempty"`
	Proof   *Proof                 `json:"proof,omitempty"`
}

// ParseCredential decodes a credential from its JSON form.
func ParseCredential(raw []byte) (*Credential, error) {
	var credential Credential

	if err := json.Unmarshal(raw, &credential); err != nil {
		return nil, fmt.Errorf("parse credential: %w", err)
	}

	return &credential, nil
}

// MarshalJSON serializes the credential. The output is not canonical; feed
// it through the canonical package before digesting.
func (c *Credential) MarshalJSON() ([]byte, error) {
	type alias Credential

	return json.Marshal((*alias)(c))
}

// WithoutProof returns the credential document as a generic value tree with
// the proof member removed. This is the exact document a proof suite signs
// and verifies over.
func (c *Credential) WithoutProof() (map[string]interface{}, error) {
	unsigned := *c
	unsigned.Proof = nil

	raw, err := json.Marshal(&unsigned)
	if err != nil {
		return nil, fmt.Errorf("marshal credential: %w", err)
	}

	var doc map[string]interface{}

	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal credential document: %w", err)
	}

	return doc, nil
}
