/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package logfields provides the zap field helpers shared by the package
// loggers in this module.
package logfields

import (
	"time"

	"go.uber.org/zap"
)

// Log Fields.
const (
	FieldCapability    = "capability"
	FieldCheck         = "check"
	FieldCredentialID  = "credentialID"
	FieldDuration      = "duration"
	FieldIssuerID      = "issuerID"
	FieldPluginID      = "pluginID"
	FieldProofType     = "proofType"
	FieldProvider      = "provider"
	FieldSchemaID      = "schemaID"
	FieldStatusListURL = "statusListURL"
)

// WithCapability sets the Capability field.
func WithCapability(capability string) zap.Field {
	return zap.String(FieldCapability, capability)
}

// WithCheck sets the Check field.
func WithCheck(check string) zap.Field {
	return zap.String(FieldCheck, check)
}

// WithCredentialID sets the CredentialID field.
func WithCredentialID(credentialID string) zap.Field {
	return zap.String(FieldCredentialID, credentialID)
}

// WithDuration sets the Duration field.
func WithDuration(value time.Duration) zap.Field {
	return zap.Duration(FieldDuration, value)
}

// WithIssuerID sets the IssuerID field.
func WithIssuerID(issuerID string) zap.Field {
	return zap.String(FieldIssuerID, issuerID)
}

// WithPluginID sets the PluginID field.
func WithPluginID(pluginID string) zap.Field {
	return zap.String(FieldPluginID, pluginID)
}

// WithProofType sets the ProofType field.
func WithProofType(proofType string) zap.Field {
	return zap.String(FieldProofType, proofType)
}

// WithProvider sets the Provider field.
func WithProvider(provider string) zap.Field {
	return zap.String(FieldProvider, provider)
}

// WithSchemaID sets the SchemaID field.
func WithSchemaID(schemaID string) zap.Field {
	return zap.String(FieldSchemaID, schemaID)
}

// WithStatusListURL sets the StatusListURL field.
func WithStatusListURL(url string) zap.Field {
	return zap.String(FieldStatusListURL, url)
}
