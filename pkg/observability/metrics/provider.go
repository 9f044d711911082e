/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"time"

	"github.com/trustbloc/logutil-go/pkg/log"
)

// Logger used by the metrics providers.
var Logger = log.New("metrics-provider")

// Constants used by the metrics providers.
const (
	// Namespace Organization namespace.
	Namespace = "vckit"

	// Crypto plain crypto operations.
	Crypto               = "crypto"
	CryptoSignTimeMetric = "crypto_sign_seconds"

	// Service operations.
	Service                     = "service"
	IssueCredentialTimeMetric   = "service_issueCredential_seconds"
	VerifyCredentialTimeMetric  = "service_verifyCredential_seconds"
	ResolveStatusListTimeMetric = "service_resolveStatusList_seconds"
)

// Provider is an interface for metrics provider.
type Provider interface {
	// Create creates a metrics provider instance
	Create() error
	// Destroy destroys the metrics provider instance
	Destroy() error
	// Metrics providers metrics
	Metrics() Metrics
}

// Metrics is an interface for the metrics to be supported by the provider.
type Metrics interface {
	SignTime(value time.Duration)
	IssueCredentialTime(value time.Duration)
	VerifyCredentialTime(value time.Duration)
	ResolveStatusListTime(value time.Duration)
}
