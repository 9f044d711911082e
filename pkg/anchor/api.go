/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package anchor defines the blockchain anchor registry contract consumed
// by the optional anchor sub-check. Concrete chain clients are external.
package anchor

import (
	"context"
	"errors"
)

// ErrUnknownChain is returned when no client is registered for a chain id.
var ErrUnknownChain = errors.New("unknown anchor chain")

// Client checks whether a digest is anchored on one chain.
type Client interface {
	AnchorExists(ctx context.Context, digest string) (bool, error)
}

// Registry resolves anchoring clients by chain id.
type Registry interface {
	Client(chainID string) (Client, error)
}
