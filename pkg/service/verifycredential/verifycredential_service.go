/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination service_mocks_test.go -self_package mocks -package verifycredential -source=verifycredential_service.go -mock_names revocationChecker=MockRevocationChecker,schemaValidator=MockSchemaValidator,metricsProvider=MockMetricsProvider
//go:generate mockgen -destination resolver_mocks_test.go -package verifycredential -mock_names Resolver=MockDIDResolver github.com/trustfabric/vckit/pkg/did Resolver

// Package verifycredential implements the credential verification
// pipeline. Each enabled sub-check runs independently and records its
// outcome; failures are aggregated into the verification result and a
// failing check never prevents the remaining checks from running.
package verifycredential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/trustbloc/logutil-go/pkg/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/trustfabric/vckit/internal/logfields"
	"github.com/trustfabric/vckit/pkg/anchor"
	"github.com/trustfabric/vckit/pkg/did"
	"github.com/trustfabric/vckit/pkg/doc/canonical"
	"github.com/trustfabric/vckit/pkg/doc/vc"
	noopMetricsProvider "github.com/trustfabric/vckit/pkg/observability/metrics/noop"
	"github.com/trustfabric/vckit/pkg/registry"
	"github.com/trustfabric/vckit/pkg/suite"
)

var logger = log.New("verifycredential")

const (
	tracerName          = "verifycredential"
	defaultCheckTimeout = 10 * time.Second
)

type metricsProvider interface {
	VerifyCredentialTime(value time.Duration)
}

type revocationChecker interface {
	CheckStatus(ctx context.Context, statusRef *vc.TypedID) (revoked bool, err error)
}

type schemaValidator interface {
	SchemaType() string
	Validate(ctx context.Context, schemaID string, claims map[string]interface{}) error
}

// Config configures the verification pipeline.
type Config struct {
	ProviderRegistry *registry.ProviderRegistry
	DIDResolver      did.Resolver
	AnchorRegistry   anchor.Registry
	// CheckTimeout bounds each external call (DID resolution, status list
	// fetch, schema fetch, anchor lookup). Defaults to 10s.
	CheckTimeout   time.Duration
	Metrics        metricsProvider
	TracerProvider trace.TracerProvider
}

// Service verifies credentials.
type Service struct {
	providerRegistry *registry.ProviderRegistry
	didResolver      did.Resolver
	anchorRegistry   anchor.Registry
	checkTimeout     time.Duration
	metrics          metricsProvider
	tracer           trace.Tracer
}

// New returns a verification service.
func New(config *Config) *Service {
	s := &Service{
		providerRegistry: config.ProviderRegistry,
		didResolver:      config.DIDResolver,
		anchorRegistry:   config.AnchorRegistry,
		checkTimeout:     config.CheckTimeout,
		metrics:          config.Metrics,
	}

	if s.checkTimeout <= 0 {
		s.checkTimeout = defaultCheckTimeout
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

// proofCheckOutcome carries the dual booleans of the issuer/proof check:
// a failed issuer resolution fails both, a bad signature fails only the
// proof.
type proofCheckOutcome struct {
	issuerValid bool
	proofValid  bool
	errors      []CheckError
	warnings    []CheckError
}

type checkOutcome struct {
	passed   bool
	errors   []CheckError
	warnings []CheckError
}

// VerifyCredential runs the enabled sub-checks concurrently and returns
// the aggregated result. Collaborator faults are recorded as check
// failures; the returned error is reserved for a nil credential.
func (s *Service) VerifyCredential(ctx context.Context, credential *vc.Credential,
	opts *Options) (*VerificationResult, error) {
	ctx, span := s.tracer.Start(ctx, "verifycredential.VerifyCredential")
	defer span.End()

	startTime := time.Now()

	defer func() {
		s.metrics.VerifyCredentialTime(time.Since(startTime))
	}()

	if credential == nil {
		return nil, errors.New("nil credential")
	}

	if opts == nil {
		opts = &Options{}
	}

	span.SetAttributes(attribute.String("credential_id", credential.ID))

	// Disabled checks contribute a passing sub-result.
	proofOutcome := proofCheckOutcome{issuerValid: true, proofValid: true}
	expirationOutcome := checkOutcome{passed: true}
	revocationOutcome := checkOutcome{passed: true}
	schemaOutcome := checkOutcome{passed: true}
	anchorOutcome := checkOutcome{passed: true}

	var group errgroup.Group

	// Sub-checks are independent: one failing must not cancel or starve
	// the others, so the group collects no errors and every goroutine
	// owns its outcome slot exclusively.
	if opts.ResolveIssuerDID {
		group.Go(func() error {
			proofOutcome = s.checkIssuerAndProof(ctx, credential)

			return nil
		})
	}

	if opts.CheckExpiration {
		group.Go(func() error {
			expirationOutcome = checkExpiration(credential, time.Now())

			return nil
		})
	}

	if opts.CheckRevocation {
		group.Go(func() error {
			revocationOutcome = s.checkRevocation(ctx, credential, opts)

			return nil
		})
	}

	if opts.ValidateSchema {
		group.Go(func() error {
			schemaOutcome = s.checkSchema(ctx, credential)

			return nil
		})
	}

	if opts.VerifyBlockchainAnchor {
		group.Go(func() error {
			anchorOutcome = s.checkAnchor(ctx, credential, opts.AnchorChainID)

			return nil
		})
	}

	_ = group.Wait()

	result := &VerificationResult{
		ProofValid:  proofOutcome.proofValid,
		IssuerValid: proofOutcome.issuerValid,
		NotExpired:  expirationOutcome.passed,
		NotRevoked:  revocationOutcome.passed,
		SchemaValid: schemaOutcome.passed,
		AnchorValid: anchorOutcome.passed,
	}

	// Deterministic aggregation order regardless of goroutine scheduling.
	for _, outcome := range []struct {
		errors   []CheckError
		warnings []CheckError
	}{
		{proofOutcome.errors, proofOutcome.warnings},
		{expirationOutcome.errors, expirationOutcome.warnings},
		{revocationOutcome.errors, revocationOutcome.warnings},
		{schemaOutcome.errors, schemaOutcome.warnings},
		{anchorOutcome.errors, anchorOutcome.warnings},
	} {
		result.Errors = append(result.Errors, outcome.errors...)
		result.Warnings = append(result.Warnings, outcome.warnings...)
	}

	result.Valid = result.ProofValid && result.IssuerValid && result.NotExpired &&
		result.NotRevoked && result.SchemaValid && result.AnchorValid

	logger.Debug("verified credential",
		logfields.WithCredentialID(credential.ID),
		logfields.WithIssuerID(credential.Issuer))

	return result, nil
}

func (s *Service) checkIssuerAndProof(ctx context.Context, credential *vc.Credential) (outcome proofCheckOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = proofCheckOutcome{errors: []CheckError{{
				Check:   ProofCheck,
				Field:   "proof",
				Message: fmt.Sprintf("resolver fault: %v", r),
			}}}
		}
	}()

	outcome = proofCheckOutcome{issuerValid: true, proofValid: true}

	if s.didResolver == nil {
		outcome.issuerValid = false
		outcome.proofValid = false
		outcome.errors = append(outcome.errors, CheckError{
			Check: IssuerCheck, Field: "issuer", Message: "no DID resolver configured"})

		return outcome
	}

	resolveCtx, cancel := context.WithTimeout(ctx, s.checkTimeout)
	defer cancel()

	document, err := s.didResolver.Resolve(resolveCtx, credential.Issuer)
	if err != nil {
		// Without a resolved issuer there is no key material, so the
		// proof cannot be trusted either.
		outcome.issuerValid = false
		outcome.proofValid = false

		message := fmt.Sprintf("resolve issuer DID: %s", err)
		if errors.Is(err, did.ErrNotFound) {
			message = fmt.Sprintf("issuer DID %q not found", credential.Issuer)
		}

		outcome.errors = append(outcome.errors, CheckError{
			Check: IssuerCheck, Field: "issuer", Message: message})

		return outcome
	}

	if credential.Proof == nil {
		outcome.proofValid = false
		outcome.errors = append(outcome.errors, CheckError{
			Check: ProofCheck, Field: "proof", Message: "credential has no proof"})

		return outcome
	}

	proofSuite, err := suite.Resolve(s.providerRegistry, credential.Proof.Type)
	if err != nil {
		outcome.proofValid = false
		outcome.errors = append(outcome.errors, CheckError{
			Check: ProofCheck, Field: "proof.type", Message: err.Error()})

		return outcome
	}

	verificationMethod, ok := document.VerificationMethodByID(credential.Proof.VerificationMethod)
	if !ok {
		outcome.proofValid = false
		outcome.errors = append(outcome.errors, CheckError{
			Check: ProofCheck, Field: "proof.verificationMethod",
			Message: fmt.Sprintf("verification method %q not found in issuer DID document",
				credential.Proof.VerificationMethod)})

		return outcome
	}

	if document.ID != "" && document.ID != credential.Issuer {
		outcome.issuerValid = false
		outcome.errors = append(outcome.errors, CheckError{
			Check: IssuerCheck, Field: "issuer",
			Message: fmt.Sprintf("resolved document id %q does not match issuer %q",
				document.ID, credential.Issuer)})
	}

	if credential.Proof.ProofPurpose == vc.AssertionMethod &&
		len(document.AssertionMethods) > 0 &&
		!lo.Contains(document.AssertionMethods, verificationMethod.ID) {
		outcome.proofValid = false
		outcome.errors = append(outcome.errors, CheckError{
			Check: ProofCheck, Field: "proof.proofPurpose",
			Message: fmt.Sprintf("verification method %q is not authorized for assertionMethod",
				verificationMethod.ID)})

		return outcome
	}

	unsignedDocument, err := credential.WithoutProof()
	if err != nil {
		outcome.proofValid = false
		outcome.errors = append(outcome.errors, CheckError{
			Check: ProofCheck, Field: "proof",
			Message: fmt.Sprintf("build credential document: %s", err)})

		return outcome
	}

	if err := proofSuite.Verify(ctx, unsignedDocument, credential.Proof, verificationMethod); err != nil {
		outcome.proofValid = false
		outcome.errors = append(outcome.errors, CheckError{
			Check: ProofCheck, Field: "proof.proofValue", Message: err.Error()})
	}

	return outcome
}

func checkExpiration(credential *vc.Credential, now time.Time) checkOutcome {
	outcome := checkOutcome{passed: true}

	if credential.Expired == nil {
		return outcome
	}

	if !credential.Expired.Parsed {
		// A malformed date cannot prove expiry, so the check stays
		// lenient and surfaces a warning.
		outcome.warnings = append(outcome.warnings, CheckError{
			Check: ExpirationCheck, Field: "expirationDate",
			Message: fmt.Sprintf("malformed expiration date %q, treated as not expired",
				credential.Expired.Raw)})

		return outcome
	}

	if !credential.Expired.Time.After(now) {
		outcome.passed = false
		outcome.errors = append(outcome.errors, CheckError{
			Check: ExpirationCheck, Field: "expirationDate",
			Message: fmt.Sprintf("credential expired at %s",
				credential.Expired.Time.Format(time.RFC3339))})
	}

	return outcome
}

func (s *Service) checkRevocation(ctx context.Context, credential *vc.Credential,
	opts *Options) (outcome checkOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = revocationUnresolved(opts.FailClosedRevocation,
				fmt.Sprintf("revocation checker fault: %v", r))
		}
	}()

	outcome = checkOutcome{passed: true}

	if credential.Status == nil {
		return outcome
	}

	selected, ok, err := s.providerRegistry.SelectProvider(registry.RevocationCapability,
		opts.RevocationPreference)
	if err != nil || !ok {
		return revocationUnresolved(opts.FailClosedRevocation, "no revocation checker registered")
	}

	checker, ok := selected.Instance.(revocationChecker)
	if !ok {
		return revocationUnresolved(opts.FailClosedRevocation,
			fmt.Sprintf("registered revocation plugin %q does not implement status checking",
				selected.Metadata.ID))
	}

	checkCtx, cancel := context.WithTimeout(ctx, s.checkTimeout)
	defer cancel()

	revoked, err := checker.CheckStatus(checkCtx, credential.Status)
	if err != nil {
		return revocationUnresolved(opts.FailClosedRevocation,
			fmt.Sprintf("revocation status could not be determined: %s", err))
	}

	if revoked {
		outcome.passed = false
		outcome.errors = append(outcome.errors, CheckError{
			Check: RevocationCheck, Field: "credentialStatus", Message: "revoked"})
	}

	return outcome
}

// revocationUnresolved maps an undeterminable revocation status to either
// a warning (lenient default) or a failure (fail-closed).
func revocationUnresolved(failClosed bool, message string) checkOutcome {
	checkError := CheckError{Check: RevocationCheck, Field: "credentialStatus", Message: message}

	if failClosed {
		return checkOutcome{passed: false, errors: []CheckError{checkError}}
	}

	logger.Warn("revocation status unresolved", logfields.WithCheck(RevocationCheck))

	return checkOutcome{passed: true, warnings: []CheckError{checkError}}
}

func (s *Service) checkSchema(ctx context.Context, credential *vc.Credential) (outcome checkOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = checkOutcome{errors: []CheckError{{
				Check:   SchemaCheck,
				Field:   "credentialSchema",
				Message: fmt.Sprintf("schema validator fault: %v", r),
			}}}
		}
	}()

	outcome = checkOutcome{passed: true}

	if credential.Schema == nil {
		return outcome
	}

	registrations, err := s.providerRegistry.FindByCapability(registry.SchemaValidatorCapability)
	if err != nil {
		outcome.passed = false
		outcome.errors = append(outcome.errors, CheckError{
			Check: SchemaCheck, Field: "credentialSchema", Message: err.Error()})

		return outcome
	}

	var validator schemaValidator

	for _, registration := range registrations {
		v, ok := registration.Instance.(schemaValidator)
		if ok && v.SchemaType() == credential.Schema.Type {
			validator = v

			break
		}
	}

	if validator == nil {
		outcome.passed = false
		outcome.errors = append(outcome.errors, CheckError{
			Check: SchemaCheck, Field: "credentialSchema.type",
			Message: fmt.Sprintf("no schema validator registered for type %q",
				credential.Schema.Type)})

		return outcome
	}

	validateCtx, cancel := context.WithTimeout(ctx, s.checkTimeout)
	defer cancel()

	if err := validator.Validate(validateCtx, credential.Schema.ID, credential.Subject); err != nil {
		outcome.passed = false
		outcome.errors = append(outcome.errors, CheckError{
			Check: SchemaCheck, Field: "credentialSubject", Message: err.Error()})
	}

	return outcome
}

func (s *Service) checkAnchor(ctx context.Context, credential *vc.Credential,
	chainID string) (outcome checkOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = checkOutcome{errors: []CheckError{{
				Check:   AnchorCheck,
				Field:   "proof",
				Message: fmt.Sprintf("anchor client fault: %v", r),
			}}}
		}
	}()

	outcome = checkOutcome{passed: true}

	if s.anchorRegistry == nil {
		// Anchoring is optional infrastructure; without a registry the
		// check degrades to a warning rather than failing verification.
		outcome.warnings = append(outcome.warnings, CheckError{
			Check: AnchorCheck, Field: "proof", Message: "no anchor registry configured"})

		return outcome
	}

	client, err := s.anchorRegistry.Client(chainID)
	if err != nil {
		outcome.passed = false
		outcome.errors = append(outcome.errors, CheckError{
			Check: AnchorCheck, Field: "proof",
			Message: fmt.Sprintf("resolve anchor chain %q: %s", chainID, err)})

		return outcome
	}

	// The anchored digest covers the full signed credential, proof
	// included.
	digest, err := canonical.SHA256DigestMultibase(credential)
	if err != nil {
		outcome.passed = false
		outcome.errors = append(outcome.errors, CheckError{
			Check: AnchorCheck, Field: "proof",
			Message: fmt.Sprintf("digest credential: %s", err)})

		return outcome
	}

	anchorCtx, cancel := context.WithTimeout(ctx, s.checkTimeout)
	defer cancel()

	exists, err := client.AnchorExists(anchorCtx, digest)
	if err != nil {
		outcome.passed = false
		outcome.errors = append(outcome.errors, CheckError{
			Check: AnchorCheck, Field: "proof",
			Message: fmt.Sprintf("anchor lookup: %s", err)})

		return outcome
	}

	if !exists {
		outcome.passed = false
		outcome.errors = append(outcome.errors, CheckError{
			Check: AnchorCheck, Field: "proof",
			Message: fmt.Sprintf("credential digest %s is not anchored on chain %q",
				digest, chainID)})
	}

	return outcome
}
