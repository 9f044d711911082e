/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package canonical

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalizeJSON(t *testing.T) {
	t.Run("key order does not change output", func(t *testing.T) {
		docs := []string{
			`{"b":2,"a":1,"c":3}`,
			`{"c":3,"a":1,"b":2}`,
			`{"a":1,"b":2,"c":3}`,
		}

		for _, doc := range docs {
			canonicalBytes, err := CanonicalizeJSON([]byte(doc))
			require.NoError(t, err)
			require.Equal(t, `{"a":1,"b":2,"c":3}`, string(canonicalBytes))
		}
	})

	t.Run("nested objects sorted recursively", func(t *testing.T) {
		canonicalBytes, err := CanonicalizeJSON([]byte(`{"z":{"b":[{"y":1,"x":2}],"a":null},"a":"v"}`))
		require.NoError(t, err)
		require.Equal(t, `{"a":"v","z":{"a":null,"b":[{"x":2,"y":1}]}}`, string(canonicalBytes))
	})

	t.Run("array order preserved", func(t *testing.T) {
		canonicalBytes, err := CanonicalizeJSON([]byte(`{"a":[3,1,2]}`))
		require.NoError(t, err)
		require.Equal(t, `{"a":[3,1,2]}`, string(canonicalBytes))
	})

	t.Run("number text preserved", func(t *testing.T) {
		canonicalBytes, err := CanonicalizeJSON([]byte(`{"n":100000000000000000001,"f":1.5}`))
		require.NoError(t, err)
		require.Equal(t, `{"f":1.5,"n":100000000000000000001}`, string(canonicalBytes))
	})

	t.Run("structured input", func(t *testing.T) {
		canonicalBytes, err := CanonicalizeJSON(map[string]interface{}{
			"b": true,
			"a": "quote\"here",
		})
		require.NoError(t, err)
		require.Equal(t, `{"a":"quote\"here","b":true}`, string(canonicalBytes))
	})

	t.Run("malformed input -> error", func(t *testing.T) {
		_, err := CanonicalizeJSON([]byte(`{"a":`))
		require.Error(t, err)
		require.Contains(t, err.Error(), "parse document")
	})

	t.Run("trailing data -> error", func(t *testing.T) {
		_, err := CanonicalizeJSON([]byte(`{"a":1} {"b":2}`))
		require.Error(t, err)
		require.Contains(t, err.Error(), "trailing data")
	})
}

func TestSHA256DigestMultibase(t *testing.T) {
	t.Run("deterministic across key order", func(t *testing.T) {
		d1, err := SHA256DigestMultibase(map[string]interface{}{"a": 1, "b": 2})
		require.NoError(t, err)

		d2, err := SHA256DigestMultibase(map[string]interface{}{"b": 2, "a": 1})
		require.NoError(t, err)

		require.Equal(t, d1, d2)
	})

	t.Run("sensitive to value change", func(t *testing.T) {
		d1, err := SHA256DigestMultibase(map[string]interface{}{"a": 1})
		require.NoError(t, err)

		d2, err := SHA256DigestMultibase(map[string]interface{}{"a": 2})
		require.NoError(t, err)

		require.NotEqual(t, d1, d2)
	})

	t.Run("format", func(t *testing.T) {
		digest, err := SHA256DigestMultibase([]byte("payload"))
		require.NoError(t, err)

		require.True(t, strings.HasPrefix(digest, "u"))
		// base58btc excludes 0, O, I and l
		require.NotContains(t, digest[1:], "0")
		require.NotContains(t, digest[1:], "O")
		require.NotContains(t, digest[1:], "I")
		require.NotContains(t, digest[1:], "l")
	})

	t.Run("byte input hashed verbatim", func(t *testing.T) {
		// no canonicalization is applied to raw bytes, so the two
		// orderings hash differently
		d1, err := SHA256DigestMultibase([]byte(`{"a":1,"b":2}`))
		require.NoError(t, err)

		d2, err := SHA256DigestMultibase([]byte(`{"b":2,"a":1}`))
		require.NoError(t, err)

		require.NotEqual(t, d1, d2)
	})

	t.Run("malformed structured input -> digest error", func(t *testing.T) {
		_, err := SHA256DigestMultibase(map[string]interface{}{"fn": func() {}})
		require.Error(t, err)

		var digestErr *DigestError

		require.ErrorAs(t, err, &digestErr)
		require.Equal(t, DigestAlg, digestErr.Alg)
		require.Equal(t, "canonicalize input", digestErr.Reason)
	})
}
