/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package credentialstatus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trustfabric/vckit/pkg/doc/vc"
	"github.com/trustfabric/vckit/pkg/doc/vc/bitstring"
)

func newStatusListServer(t *testing.T, revokedIndexes ...int) *httptest.Server {
	t.Helper()

	b := bitstring.NewBitString(1024)

	for _, i := range revokedIndexes {
		require.NoError(t, b.Set(i, true))
	}

	encodedList, err := b.EncodeBits()
	require.NoError(t, err)

	statusListVC := map[string]interface{}{
		"type":   []string{"VerifiableCredential", "StatusList2021Credential"},
		"issuer": "did:example:issuer",
		"credentialSubject": map[string]interface{}{
			"type":        "StatusList2021",
			"encodedList": encodedList,
		},
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(statusListVC))
	}))
}

func statusRef(url string, index string) *vc.TypedID {
	return &vc.TypedID{
		ID:   url + "#" + index,
		Type: StatusList2021Entry,
		CustomFields: map[string]interface{}{
			"statusListCredential": url,
			"statusListIndex":      index,
		},
	}
}

func TestCheckStatus(t *testing.T) {
	t.Run("revoked and not revoked", func(t *testing.T) {
		srv := newStatusListServer(t, 7)
		defer srv.Close()

		s := New(&Config{})

		revoked, err := s.CheckStatus(context.Background(), statusRef(srv.URL, "7"))
		require.NoError(t, err)
		require.True(t, revoked)

		revoked, err = s.CheckStatus(context.Background(), statusRef(srv.URL, "8"))
		require.NoError(t, err)
		require.False(t, revoked)
	})

	t.Run("invalid status references", func(t *testing.T) {
		s := New(&Config{})

		_, err := s.CheckStatus(context.Background(), nil)
		require.ErrorIs(t, err, ErrInvalidStatusRef)

		_, err = s.CheckStatus(context.Background(), &vc.TypedID{Type: "RevocationList2020Status"})
		require.ErrorIs(t, err, ErrUnsupportedStatusType)

		_, err = s.CheckStatus(context.Background(), &vc.TypedID{Type: StatusList2021Entry})
		require.ErrorIs(t, err, ErrInvalidStatusRef)

		_, err = s.CheckStatus(context.Background(), statusRef("https://example.com/status", "NaN"))
		require.ErrorIs(t, err, ErrInvalidStatusRef)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		var calls int32

		flaky := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)

				return
			}

			_, err := w.Write([]byte(`{"credentialSubject":{"encodedList":"` +
				mustEncodedList(t) + `"}}`))
			require.NoError(t, err)
		}))
		defer flaky.Close()

		s := New(&Config{MaxRetries: 2})

		revoked, err := s.CheckStatus(context.Background(), statusRef(flaky.URL, "1"))
		require.NoError(t, err)
		require.False(t, revoked)
		require.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(2))
	})

	t.Run("unresolvable status list", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		s := New(&Config{MaxRetries: 1})

		_, err := s.CheckStatus(context.Background(), statusRef(srv.URL, "1"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "resolve status list credential")
	})

	t.Run("status list without encodedList", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, err := w.Write([]byte(`{"credentialSubject":{}}`))
			require.NoError(t, err)
		}))
		defer srv.Close()

		s := New(&Config{})

		_, err := s.CheckStatus(context.Background(), statusRef(srv.URL, "1"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "encodedList")
	})

	t.Run("plugin contract", func(t *testing.T) {
		require.Contains(t, New(&Config{}).Capabilities(), "revocation")
	})
}

func mustEncodedList(t *testing.T) string {
	t.Helper()

	encoded, err := bitstring.NewBitString(64).EncodeBits()
	require.NoError(t, err)

	return encoded
}
