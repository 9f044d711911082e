/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package registry implements a capability-indexed store of named plugin
// instances. Proof suites, key managers, revocation checkers and schema
// validators all register here, and the pipelines look implementations up
// by capability and provider preference.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Capability tags implementations expose through Plugin.Capabilities.
const (
	ProofSuiteCapability      = "proof-suite"
	RevocationCapability      = "revocation"
	SchemaValidatorCapability = "credential-schema-validator"
	CredentialStoreCapability = "credential-storage"
)

var (
	// ErrBlankID is returned by Register when the metadata id is empty or
	// whitespace only.
	ErrBlankID = fmt.Errorf("plugin id must not be blank")

	// ErrBlankCapability is returned when a lookup is attempted with a
	// blank capability. It is a precondition violation, distinct from a
	// lookup with no matches.
	ErrBlankCapability = fmt.Errorf("capability must not be blank")
)

// DuplicateIDError is returned by Register when the id is already taken.
// It names the provider that owns the existing registration.
type DuplicateIDError struct {
	ID       string
	Provider string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("plugin id %q already registered by provider %q", e.ID, e.Provider)
}

// Metadata describes a plugin registration.
type Metadata struct {
	// ID is the globally unique registration id.
	ID string
	// Name is the human readable display name.
	Name string
	// Provider names the implementation vendor, matched against provider
	// preferences in SelectProvider.
	Provider string
	// Capabilities are the features the plugin declares for discovery.
	Capabilities []string
}

// Plugin is the contract every registered instance satisfies. Capability
// negotiation happens through this explicit declaration rather than through
// reflection over the concrete type.
type Plugin interface {
	Capabilities() []string
}

// Registration is a snapshot of a registered plugin.
type Registration struct {
	Metadata Metadata
	Instance Plugin
}

// ProviderRegistry holds named plugin instances indexed three ways:
// id to metadata, id to instance and id to the capability set the instance
// implemented at registration time. The indices are only ever mutated
// together, under a single lock, so a concurrent reader can never observe
// one without the others.
type ProviderRegistry struct {
	mu          sync.RWMutex
	metadata    map[string]Metadata
	instances   map[string]Plugin
	implemented map[string]map[string]struct{}
	order       []string
}

// New returns an empty registry. Registries are owned by the composition
// root; there is no package-level instance.
func New() *ProviderRegistry {
	r := &ProviderRegistry{}
	r.reset()

	return r
}

// Register adds instance under metadata.ID. It fails with ErrBlankID for a
// blank id and with DuplicateIDError when the id is taken; otherwise all
// three indices are updated atomically.
func (r *ProviderRegistry) Register(metadata Metadata, instance Plugin) error {
	if strings.TrimSpace(metadata.ID) == "" {
		return ErrBlankID
	}

	implemented := make(map[string]struct{})

	if instance != nil {
		for _, c := range instance.Capabilities() {
			implemented[c] = struct{}{}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.metadata[metadata.ID]; ok {
		return &DuplicateIDError{ID: metadata.ID, Provider: existing.Provider}
	}

	r.metadata[metadata.ID] = metadata
	r.instances[metadata.ID] = instance
	r.implemented[metadata.ID] = implemented
	r.order = append(r.order, metadata.ID)

	return nil
}

// Unregister removes the registration with the given id from all indices.
// Unknown ids are ignored.
func (r *ProviderRegistry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.metadata[id]; !ok {
		return
	}

	delete(r.metadata, id)
	delete(r.instances, id)
	delete(r.implemented, id)

	r.order = lo.Without(r.order, id)
}

// Clear drops all registrations. Test isolation only.
func (r *ProviderRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reset()
}

func (r *ProviderRegistry) reset() {
	r.metadata = make(map[string]Metadata)
	r.instances = make(map[string]Plugin)
	r.implemented = make(map[string]map[string]struct{})
	r.order = nil
}

// GetMetadata returns the metadata registered under id.
func (r *ProviderRegistry) GetMetadata(id string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	md, ok := r.metadata[id]

	return md, ok
}

// IsRegistered reports whether id is registered.
func (r *ProviderRegistry) IsRegistered(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.metadata[id]

	return ok
}

// GetInstance returns the instance registered under id, but only when its
// implemented capability set satisfies expectedCapability. A missing id or
// a capability mismatch returns false: this is a query, not an assertion.
func (r *ProviderRegistry) GetInstance(id, expectedCapability string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instance, ok := r.instances[id]
	if !ok {
		return nil, false
	}

	if _, ok := r.implemented[id][expectedCapability]; !ok {
		return nil, false
	}

	return instance, true
}

// GetInstanceAs is the typed form of GetInstance: the instance is returned
// only when it satisfies both the capability and the type parameter.
func GetInstanceAs[T any](r *ProviderRegistry, id, expectedCapability string) (T, bool) {
	var zero T

	instance, ok := r.GetInstance(id, expectedCapability)
	if !ok {
		return zero, false
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, false
	}

	return typed, true
}

// FindByCapability returns every registration whose declared capability set
// contains capability, in registration order. A blank capability is a
// precondition violation (ErrBlankCapability), distinct from no matches.
func (r *ProviderRegistry) FindByCapability(capability string) ([]Registration, error) {
	if strings.TrimSpace(capability) == "" {
		return nil, ErrBlankCapability
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []Registration

	for _, id := range r.order {
		md := r.metadata[id]

		if lo.Contains(md.Capabilities, capability) {
			matches = append(matches, Registration{Metadata: md, Instance: r.instances[id]})
		}
	}

	return matches, nil
}

// SelectProvider picks one registration for capability: the preference list
// is scanned left to right and the first candidate whose provider name
// matches a non-blank preference wins; with no matching preference the
// first candidate in registration order is returned. ok is false when no
// candidate exists at all.
func (r *ProviderRegistry) SelectProvider(capability string, preferenceOrder []string) (Registration, bool, error) {
	candidates, err := r.FindByCapability(capability)
	if err != nil {
		return Registration{}, false, err
	}

	if len(candidates) == 0 {
		return Registration{}, false, nil
	}

	for _, preferred := range preferenceOrder {
		if strings.TrimSpace(preferred) == "" {
			continue
		}

		for _, candidate := range candidates {
			if candidate.Metadata.Provider == preferred {
				return candidate, true, nil
			}
		}
	}

	return candidates[0], true, nil
}
