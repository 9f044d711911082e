/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package prometheus

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/trustfabric/vckit/internal/logfields"
	"github.com/trustfabric/vckit/pkg/observability/metrics"
)

var logger = metrics.Logger

var (
	createOnce sync.Once       //nolint:gochecknoglobals
	instance   metrics.Metrics //nolint:gochecknoglobals
)

type promProvider struct{}

// NewPrometheusProvider creates new instance of Prometheus Metrics Provider.
func NewPrometheusProvider() metrics.Provider {
	return &promProvider{}
}

// Create creates/initializes the prometheus metrics provider.
func (pp *promProvider) Create() error {
	return nil
}

// Metrics returns supported metrics.
func (pp *promProvider) Metrics() metrics.Metrics {
	return GetMetrics()
}

// Destroy destroys the prometheus metrics provider.
func (pp *promProvider) Destroy() error {
	return nil
}

// GetMetrics returns metrics implementation.
func GetMetrics() metrics.Metrics {
	createOnce.Do(func() {
		instance = NewMetrics()
	})

	return instance
}

// PromMetrics manages the metrics for the credential services.
type PromMetrics struct {
	signTime              prometheus.Histogram
	issueCredentialTime   prometheus.Histogram
	verifyCredentialTime  prometheus.Histogram
	resolveStatusListTime prometheus.Histogram
}

// NewMetrics creates instance of prometheus metrics.
func NewMetrics() metrics.Metrics {
	pm := &PromMetrics{
		signTime:              newSignTime(),
		issueCredentialTime:   newIssueCredentialTime(),
		verifyCredentialTime:  newVerifyCredentialTime(),
		resolveStatusListTime: newResolveStatusListTime(),
	}

	prometheus.MustRegister(
		pm.signTime, pm.issueCredentialTime, pm.verifyCredentialTime, pm.resolveStatusListTime,
	)

	return pm
}

// SignTime records the time for sign.
func (pm *PromMetrics) SignTime(value time.Duration) {
	pm.signTime.Observe(value.Seconds())

	logger.Debug("crypto sign time", logfields.WithDuration(value))
}

// IssueCredentialTime records the time for the IssueCredential service call.
func (pm *PromMetrics) IssueCredentialTime(value time.Duration) {
	pm.issueCredentialTime.Observe(value.Seconds())

	logger.Debug("IssueCredential service call time", logfields.WithDuration(value))
}

// VerifyCredentialTime records the time for the VerifyCredential service call.
func (pm *PromMetrics) VerifyCredentialTime(value time.Duration) {
	pm.verifyCredentialTime.Observe(value.Seconds())

	logger.Debug("VerifyCredential service call time", logfields.WithDuration(value))
}

// ResolveStatusListTime records the time for a status list resolution.
func (pm *PromMetrics) ResolveStatusListTime(value time.Duration) {
	pm.resolveStatusListTime.Observe(value.Seconds())

	logger.Debug("status list resolution time", logfields.WithDuration(value))
}

func newHistogram(subsystem, name, help string) prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	})
}

func newSignTime() prometheus.Histogram {
	return newHistogram(
		metrics.Crypto, metrics.CryptoSignTimeMetric,
		"The time (in seconds) it takes to run crypto sign.",
	)
}

func newIssueCredentialTime() prometheus.Histogram {
	return newHistogram(
		metrics.Service, metrics.IssueCredentialTimeMetric,
		"The time (in seconds) it takes to execute the IssueCredential service call.",
	)
}

func newVerifyCredentialTime() prometheus.Histogram {
	return newHistogram(
		metrics.Service, metrics.VerifyCredentialTimeMetric,
		"The time (in seconds) it takes to execute the VerifyCredential service call.",
	)
}

func newResolveStatusListTime() prometheus.Histogram {
	return newHistogram(
		metrics.Service, metrics.ResolveStatusListTimeMetric,
		"The time (in seconds) it takes to resolve a status list credential.",
	)
}
