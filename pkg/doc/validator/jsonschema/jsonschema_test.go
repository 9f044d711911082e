/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jsonschema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const degreeSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"id": {"type": "string"},
		"degree": {"type": "string"}
	},
	"required": ["id", "degree"]
}`

type fakeGetter struct {
	schema []byte
	err    error
	calls  int
}

func (f *fakeGetter) GetSchema(_ context.Context, _ string) ([]byte, error) {
	f.calls++

	return f.schema, f.err
}

func TestCachingValidator(t *testing.T) {
	t.Run("valid claims", func(t *testing.T) {
		v := NewCachingValidator(&fakeGetter{schema: []byte(degreeSchema)})

		err := v.Validate(context.Background(), "https://example.com/schemas/degree.json",
			map[string]interface{}{"id": "did:example:subject", "degree": "PhD"})
		require.NoError(t, err)
	})

	t.Run("invalid claims name offending fields", func(t *testing.T) {
		v := NewCachingValidator(&fakeGetter{schema: []byte(degreeSchema)})

		err := v.Validate(context.Background(), "https://example.com/schemas/degree.json",
			map[string]interface{}{"id": "did:example:subject"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "degree")
	})

	t.Run("schema compiled once", func(t *testing.T) {
		getter := &fakeGetter{schema: []byte(degreeSchema)}
		v := NewCachingValidator(getter)

		claims := map[string]interface{}{"id": "did:example:subject", "degree": "PhD"}

		require.NoError(t, v.Validate(context.Background(), "schema-1", claims))
		require.NoError(t, v.Validate(context.Background(), "schema-1", claims))
		require.Equal(t, 1, getter.calls)
	})

	t.Run("getter failure", func(t *testing.T) {
		v := NewCachingValidator(&fakeGetter{err: errors.New("service unavailable")})

		err := v.Validate(context.Background(), "schema-1", map[string]interface{}{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "fetch schema")
	})

	t.Run("bad schema", func(t *testing.T) {
		v := NewCachingValidator(&fakeGetter{schema: []byte(`{"type": 42}`)})

		err := v.Validate(context.Background(), "schema-1", map[string]interface{}{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "compile schema")
	})

	t.Run("plugin contract", func(t *testing.T) {
		v := NewCachingValidator(&fakeGetter{schema: []byte(degreeSchema)})

		require.Contains(t, v.Capabilities(), "credential-schema-validator")
		require.Equal(t, SchemaType, v.SchemaType())
	})
}
