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

package types

import "fmt"

// ErrorCode is the signed status code used across the keymaster wire
// protocol. Zero means success; all failure codes are negative. The values
// are part of the wire format and must never be renumbered.
type ErrorCode int32

const (
	ErrorOK ErrorCode = 0

	ErrorUnsupportedPurpose          ErrorCode = -2
	ErrorUnsupportedAlgorithm        ErrorCode = -4
	ErrorUnsupportedKeySize          ErrorCode = -6
	ErrorUnsupportedKeyFormat        ErrorCode = -13
	ErrorInvalidInputLength          ErrorCode = -21
	ErrorInvalidOperationHandle      ErrorCode = -28
	ErrorVerificationFailed          ErrorCode = -30
	ErrorTooManyOperations           ErrorCode = -31
	ErrorUnexpectedNullPointer       ErrorCode = -32
	ErrorInvalidKeyBlob              ErrorCode = -33
	ErrorInvalidArgument             ErrorCode = -38
	ErrorUnsupportedTag              ErrorCode = -39
	ErrorInvalidTag                  ErrorCode = -40
	ErrorMemoryAllocationFailed      ErrorCode = -41
	ErrorSecureHWAccessDenied        ErrorCode = -45
	ErrorOperationCancelled          ErrorCode = -46
	ErrorConcurrentAccessConflict    ErrorCode = -47
	ErrorSecureHWBusy                ErrorCode = -48
	ErrorSecureHWCommunicationFailed ErrorCode = -49

	ErrorUnimplemented   ErrorCode = -100
	ErrorVersionMismatch ErrorCode = -101

	ErrorUnknown ErrorCode = -1000
)

var errorMessages = map[ErrorCode]string{
	ErrorOK:                          "ok",
	ErrorUnsupportedPurpose:          "unsupported purpose",
	ErrorUnsupportedAlgorithm:        "unsupported algorithm",
	ErrorUnsupportedKeySize:          "unsupported key size",
	ErrorUnsupportedKeyFormat:        "unsupported key format",
	ErrorInvalidInputLength:          "invalid input length",
	ErrorInvalidOperationHandle:      "invalid operation handle",
	ErrorVerificationFailed:          "verification failed",
	ErrorTooManyOperations:           "too many operations",
	ErrorUnexpectedNullPointer:       "unexpected null pointer",
	ErrorInvalidKeyBlob:              "invalid key blob",
	ErrorInvalidArgument:             "invalid argument",
	ErrorUnsupportedTag:              "unsupported tag",
	ErrorInvalidTag:                  "invalid tag",
	ErrorMemoryAllocationFailed:      "memory allocation failed",
	ErrorSecureHWAccessDenied:        "secure hardware access denied",
	ErrorOperationCancelled:          "operation cancelled",
	ErrorConcurrentAccessConflict:    "concurrent access conflict",
	ErrorSecureHWBusy:                "secure hardware busy",
	ErrorSecureHWCommunicationFailed: "secure hardware communication failed",
	ErrorUnimplemented:               "unimplemented",
	ErrorVersionMismatch:             "version mismatch",
	ErrorUnknown:                     "unknown error",
}

// Error implements the error interface so keymaster status codes can be
// returned and wrapped like any other Go error.
func (e ErrorCode) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return fmt.Sprintf("keymaster: %s (%d)", msg, int32(e))
	}
	return fmt.Sprintf("keymaster: error %d", int32(e))
}

// OrNil returns nil when the code is ErrorOK, otherwise the code itself.
// Callers returning `error` should use this rather than comparing against
// ErrorOK at every site.
func (e ErrorCode) OrNil() error {
	if e == ErrorOK {
		return nil
	}
	return e
}
