/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package credentialstatus implements the status-list revocation checker.
// A credential's status reference points at a status list credential and
// an index into its compressed bit string; a set bit means revoked.
package credentialstatus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustfabric/vckit/internal/logfields"
	"github.com/trustfabric/vckit/pkg/doc/vc"
	"github.com/trustfabric/vckit/pkg/doc/vc/bitstring"
	noopMetricsProvider "github.com/trustfabric/vckit/pkg/observability/metrics/noop"
	"github.com/trustfabric/vckit/pkg/registry"
)

var logger = log.New("credentialstatus")

// StatusList2021Entry is the status reference type this checker serves.
const StatusList2021Entry = "StatusList2021Entry"

const defaultMaxRetries = 3

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type metricsProvider interface {
	ResolveStatusListTime(value time.Duration)
}

// Config configures the status checker.
type Config struct {
	HTTPClient httpClient
	Metrics    metricsProvider
	// MaxRetries bounds the status list fetch retries.
	MaxRetries uint64
}

// Service checks revocation against status list credentials.
type Service struct {
	httpClient httpClient
	metrics    metricsProvider
	maxRetries uint64
}

// New returns a status checker.
func New(config *Config) *Service {
	s := &Service{
		httpClient: config.HTTPClient,
		metrics:    config.Metrics,
		maxRetries: config.MaxRetries,
	}

	if s.httpClient == nil {
		s.httpClient = http.DefaultClient
	}

	if s.metrics == nil {
		s.metrics = &noopMetricsProvider.NoMetrics{}
	}

	if s.maxRetries == 0 {
		s.maxRetries = defaultMaxRetries
	}

	return s
}

// Capabilities declares the revocation capability.
func (s *Service) Capabilities() []string {
	return []string{registry.RevocationCapability}
}

// CheckStatus reports whether the credential referenced by statusRef is
// revoked. An unresolvable status list is returned as an error; the
// verification pipeline decides whether that degrades to a warning or
// fails closed.
func (s *Service) CheckStatus(ctx context.Context, statusRef *vc.TypedID) (bool, error) {
	if statusRef == nil {
		return false, fmt.Errorf("nil status reference: %w", ErrInvalidStatusRef)
	}

	if statusRef.Type != StatusList2021Entry {
		return false, fmt.Errorf("%q: %w", statusRef.Type, ErrUnsupportedStatusType)
	}

	statusListURL, ok := statusRef.CustomFields["statusListCredential"].(string)
	if !ok || statusListURL == "" {
		return false, fmt.Errorf("missing statusListCredential: %w", ErrInvalidStatusRef)
	}

	rawIndex, ok := statusRef.CustomFields["statusListIndex"].(string)
	if !ok {
		return false, fmt.Errorf("missing statusListIndex: %w", ErrInvalidStatusRef)
	}

	statusListIndex, err := strconv.Atoi(rawIndex)
	if err != nil {
		return false, fmt.Errorf("statusListIndex %q: %w", rawIndex, ErrInvalidStatusRef)
	}

	statusListVC, err := s.resolveStatusListVC(ctx, statusListURL)
	if err != nil {
		return false, fmt.Errorf("resolve status list credential: %w", err)
	}

	encodedList := gjson.GetBytes(statusListVC, "credentialSubject.encodedList").String()
	if encodedList == "" {
		return false, fmt.Errorf("status list credential has no encodedList")
	}

	bitString, err := bitstring.DecodeBits(encodedList)
	if err != nil {
		return false, fmt.Errorf("failed to decode bits: %w", err)
	}

	bitSet, err := bitString.Get(statusListIndex)
	if err != nil {
		return false, fmt.Errorf("read status list index: %w", err)
	}

	logger.Debug("checked status list entry", logfields.WithStatusListURL(statusListURL))

	return bitSet, nil
}

func (s *Service) resolveStatusListVC(ctx context.Context, statusListURL string) ([]byte, error) {
	startTime := time.Now()

	defer func() {
		s.metrics.ResolveStatusListTime(time.Since(startTime))
	}()

	var body []byte

	fetch := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusListURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return err
		}

		defer resp.Body.Close() //nolint:errcheck

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status list endpoint returned %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)

		return err
	}

	err := backoff.Retry(fetch,
		backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.maxRetries), ctx))
	if err != nil {
		return nil, err
	}

	return body, nil
}
