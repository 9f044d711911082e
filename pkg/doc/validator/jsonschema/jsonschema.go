/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package jsonschema implements the JSON schema validator plugin used by
// the credential verification pipeline. A given schema is compiled once
// and reused for subsequent validations.
package jsonschema

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/trustbloc/logutil-go/pkg/log"
	"github.com/xeipuuv/gojsonschema"

	"github.com/trustfabric/vckit/internal/logfields"
	"github.com/trustfabric/vckit/pkg/registry"
)

var logger = log.New("jsonschema")

// SchemaType is the credential schema reference type this validator serves.
const SchemaType = "JsonSchemaValidator2018"

// SchemaGetter fetches a schema definition by its id. Schema hosting is
// external; tests and composition inject the implementation.
type SchemaGetter interface {
	GetSchema(ctx context.Context, schemaID string) ([]byte, error)
}

// CachingValidator validates subject claims against JSON schemas, caching
// each compiled schema by id.
type CachingValidator struct {
	getter SchemaGetter
	cache  map[string]*gojsonschema.Schema
	mutex  sync.RWMutex
}

// NewCachingValidator returns a new caching JSON schema validator.
func NewCachingValidator(getter SchemaGetter) *CachingValidator {
	return &CachingValidator{
		getter: getter,
		cache:  make(map[string]*gojsonschema.Schema),
	}
}

// Capabilities declares the schema-validator capability.
func (c *CachingValidator) Capabilities() []string {
	return []string{registry.SchemaValidatorCapability}
}

// SchemaType returns the credential schema reference type served.
func (c *CachingValidator) SchemaType() string {
	return SchemaType
}

// Validate validates claims against the schema identified by schemaID.
func (c *CachingValidator) Validate(ctx context.Context, schemaID string, claims map[string]interface{}) error {
	schema, err := c.get(ctx, schemaID)
	if err != nil {
		return fmt.Errorf("get schema validator from cache: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(claims))
	if err != nil {
		return fmt.Errorf("validate claims: %w", err)
	}

	if !result.Valid() {
		descriptions := make([]string, 0, len(result.Errors()))

		for _, resultErr := range result.Errors() {
			descriptions = append(descriptions, resultErr.String())
		}

		return fmt.Errorf("claims do not conform to schema [%s]: %s",
			schemaID, strings.Join(descriptions, "; "))
	}

	return nil
}

func (c *CachingValidator) get(ctx context.Context, schemaID string) (*gojsonschema.Schema, error) {
	c.mutex.RLock()
	schema, ok := c.cache[schemaID]
	c.mutex.RUnlock()

	if ok {
		return schema, nil
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if schema, ok := c.cache[schemaID]; ok {
		return schema, nil
	}

	rawSchema, err := c.getter.GetSchema(ctx, schemaID)
	if err != nil {
		return nil, fmt.Errorf("fetch schema [%s]: %w", schemaID, err)
	}

	schema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(rawSchema))
	if err != nil {
		return nil, fmt.Errorf("compile schema [%s]: %w", schemaID, err)
	}

	c.cache[schemaID] = schema

	logger.Debug("compiled and cached schema", logfields.WithSchemaID(schemaID))

	return schema, nil
}
