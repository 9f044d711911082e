/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package issuecredential implements the credential issuance pipeline:
// assemble the unsigned document, resolve the requested proof suite
// through the provider registry, sign the canonical digest with a
// KMS-bound signer and attach the proof.
package issuecredential

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/trustbloc/logutil-go/pkg/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/trustfabric/vckit/internal/logfields"
	"github.com/trustfabric/vckit/pkg/doc/vc"
	"github.com/trustfabric/vckit/pkg/kms"
	kmssigner "github.com/trustfabric/vckit/pkg/kms/signer"
	noopMetricsProvider "github.com/trustfabric/vckit/pkg/observability/metrics/noop"
	"github.com/trustfabric/vckit/pkg/registry"
	"github.com/trustfabric/vckit/pkg/suite"
)

var logger = log.New("issuecredential")

const tracerName = "issuecredential"

type metricsProvider interface {
	IssueCredentialTime(value time.Duration)
	SignTime(value time.Duration)
}

// Config configures the issuance pipeline.
type Config struct {
	ProviderRegistry *registry.ProviderRegistry
	KeyManager       kms.KeyManager
	Metrics          metricsProvider
	TracerProvider   trace.TracerProvider
}

// Service issues signed credentials.
type Service struct {
	providerRegistry *registry.ProviderRegistry
	keyManager       kms.KeyManager
	metrics          metricsProvider
	tracer           trace.Tracer
}

// New returns an issuance service.
func New(config *Config) *Service {
	s := &Service{
		providerRegistry: config.ProviderRegistry,
		keyManager:       config.KeyManager,
		metrics:          config.Metrics,
	}

	if s.metrics == nil {
		s.metrics = &noopMetricsProvider.NoMetrics{}
	}

	tracerProvider := config.TracerProvider
	if tracerProvider == nil {
		tracerProvider = trace.NewNoopTracerProvider()
	}

	s.tracer = tracerProvider.Tracer(tracerName)

	return s
}

// IssueCredential assembles, signs and returns the credential. The
// returned credential is immutable; revocation happens through its status
// reference, never by mutation.
func (s *Service) IssueCredential(ctx context.Context, request *CredentialRequest) (*vc.Credential, error) {
	ctx, span := s.tracer.Start(ctx, "issuecredential.IssueCredential")
	defer span.End()

	startTime := time.Now()

	defer func() {
		s.metrics.IssueCredentialTime(time.Since(startTime))
	}()

	if err := validateRequest(request); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("issuer", request.IssuerDID),
		attribute.String("proof_type", request.ProofType))

	proofSuite, err := suite.Resolve(s.providerRegistry, request.ProofType)
	if err != nil {
		return nil, fmt.Errorf("resolve proof suite: %w", err)
	}

	credential := assembleCredential(request)

	document, err := credential.WithoutProof()
	if err != nil {
		return nil, fmt.Errorf("build credential document: %w", err)
	}

	verificationMethod := request.VerificationMethod
	if verificationMethod == "" {
		verificationMethod = request.IssuerDID + "#" + request.KeyID
	}

	purpose := request.Purpose
	if purpose == "" {
		purpose = vc.AssertionMethod
	}

	signer := kmssigner.NewKMSSigner(s.keyManager, request.KeyID, "EdDSA", s.metrics)

	proof, err := proofSuite.Generate(ctx, document, signer, verificationMethod, purpose)
	if err != nil {
		return nil, fmt.Errorf("generate proof: %w", err)
	}

	credential.Proof = proof

	logger.Debug("issued credential",
		logfields.WithCredentialID(credential.ID),
		logfields.WithIssuerID(credential.Issuer),
		logfields.WithProofType(proof.Type))

	return credential, nil
}

func validateRequest(request *CredentialRequest) error {
	switch {
	case request == nil:
		return fmt.Errorf("nil request: %w", ErrInvalidRequest)
	case len(request.Claims) == 0:
		return fmt.Errorf("missing claims: %w", ErrInvalidRequest)
	case strings.TrimSpace(request.IssuerDID) == "":
		return fmt.Errorf("missing issuer: %w", ErrInvalidRequest)
	case strings.TrimSpace(request.KeyID) == "":
		return fmt.Errorf("missing key id: %w", ErrInvalidRequest)
	case strings.TrimSpace(request.ProofType) == "":
		return fmt.Errorf("missing proof type: %w", ErrInvalidRequest)
	}

	return nil
}

func assembleCredential(request *CredentialRequest) *vc.Credential {
	credential := &vc.Credential{
		ID:      "urn:uuid:" + uuid.NewString(),
		Types:   lo.Uniq(append([]string{vc.VCType}, request.Types...)),
		Issuer:  request.IssuerDID,
		Subject: request.Claims,
		Issued:  vc.NewTimestamp(time.Now()),
		Status:  request.Status,
		Schema:  request.Schema,
	}

	if request.Expiry != nil {
		credential.Expired = vc.NewTimestamp(*request.Expiry)
	}

	return credential
}
