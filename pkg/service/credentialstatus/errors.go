/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package credentialstatus

import "errors"

var (
	// ErrUnsupportedStatusType is returned for status references whose
	// type this checker does not understand.
	ErrUnsupportedStatusType = errors.New("unsupported status type")

	// ErrInvalidStatusRef is returned when the status reference is
	// missing the status list URL or index.
	ErrInvalidStatusRef = errors.New("invalid status reference")
)
