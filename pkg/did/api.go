/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package did defines the decentralized identifier resolution contract
// consumed by the verification pipeline. Concrete resolvers (web, ion,
// ledger backed) live outside this module and are injected at composition
// time.
package did

import (
	"context"
	"errors"
)

// ErrNotFound is returned by resolvers when the identifier does not
// resolve to a document. It is distinct from transport or parsing faults.
var ErrNotFound = errors.New("did not found")

// VerificationMethod is a public key entry in a resolved DID document.
type VerificationMethod struct {
	ID         string
	Type       string
	Controller string
	// Value is the raw public key material.
	Value []byte
}

// Document is the resolved form of a decentralized identifier.
type Document struct {
	ID                  string
	VerificationMethods []VerificationMethod
	// AssertionMethods lists verification method ids usable for the
	// assertionMethod proof purpose.
	AssertionMethods []string
}

// VerificationMethodByID returns the verification method with the given id.
func (d *Document) VerificationMethodByID(id string) (*VerificationMethod, bool) {
	for i := range d.VerificationMethods {
		if d.VerificationMethods[i].ID == id {
			return &d.VerificationMethods[i], true
		}
	}

	return nil, false
}

// Resolver resolves a decentralized identifier to its document.
type Resolver interface {
	Resolve(ctx context.Context, id string) (*Document, error)
}
