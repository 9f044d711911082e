/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trustfabric/vckit/pkg/kms"
	"github.com/trustfabric/vckit/pkg/kms/localkms"
)

type recordingMetrics struct {
	signCalls int
}

func (m *recordingMetrics) SignTime(_ time.Duration) {
	m.signCalls++
}

func TestKMSSigner(t *testing.T) {
	local := localkms.New()

	keyID, _, err := local.CreateKey(kms.ED25519)
	require.NoError(t, err)

	t.Run("sign with bound key", func(t *testing.T) {
		m := &recordingMetrics{}

		s := NewKMSSigner(local, keyID, "EdDSA", m)

		sig, err := s.Sign([]byte("digest"))
		require.NoError(t, err)
		require.NotEmpty(t, sig)
		require.Equal(t, "EdDSA", s.Alg())
		require.Equal(t, keyID, s.KeyID())
		require.Equal(t, 1, m.signCalls)
	})

	t.Run("key not found passes through", func(t *testing.T) {
		s := NewKMSSigner(local, "missing", "EdDSA", nil)

		_, err := s.Sign([]byte("digest"))
		require.ErrorIs(t, err, kms.ErrKeyNotFound)
	})
}
