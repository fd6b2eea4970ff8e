// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-keymaster.
//
// go-keymaster is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package transport

import (
	"errors"

	"golang.org/x/sys/unix"

	"github.com/jeremyhahn/go-keymaster/pkg/types"
)

// Translate maps a transport-level failure to the keymaster error
// enumeration. The mapping is total: nil maps to ErrorOK, every
// recognized errno has exactly one domain error, and anything else falls
// to ErrorUnknown. It never panics.
func Translate(err error) types.ErrorCode {
	if err == nil {
		return types.ErrorOK
	}

	switch {
	case errors.Is(err, ErrRequestTooLarge):
		return types.ErrorInvalidInputLength
	case errors.Is(err, ErrNotConnected):
		return types.ErrorSecureHWCommunicationFailed
	case errors.Is(err, ErrInvalidResponse):
		return types.ErrorSecureHWCommunicationFailed
	}

	var errno unix.Errno
	if !errors.As(err, &errno) {
		return types.ErrorUnknown
	}

	switch errno {
	case unix.EPERM, unix.EACCES:
		return types.ErrorSecureHWAccessDenied
	case unix.ECANCELED:
		return types.ErrorOperationCancelled
	case unix.ENODEV:
		return types.ErrorUnimplemented
	case unix.ENOMEM:
		return types.ErrorMemoryAllocationFailed
	case unix.EBUSY:
		return types.ErrorSecureHWBusy
	case unix.EIO:
		return types.ErrorSecureHWCommunicationFailed
	case unix.EOVERFLOW:
		return types.ErrorInvalidInputLength
	default:
		return types.ErrorUnknown
	}
}
