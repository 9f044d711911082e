/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package noop

import (
	"time"

	"github.com/trustfabric/vckit/pkg/observability/metrics"
)

// NoMetrics provides default no operation implementation for the Metrics interface.
type NoMetrics struct{}

// GetMetrics returns metrics implementation.
func GetMetrics() metrics.Metrics {
	return &NoMetrics{}
}

func (n *NoMetrics) SignTime(_ time.Duration)              {}
func (n *NoMetrics) IssueCredentialTime(_ time.Duration)   {}
func (n *NoMetrics) VerifyCredentialTime(_ time.Duration)  {}
func (n *NoMetrics) ResolveStatusListTime(_ time.Duration) {}
