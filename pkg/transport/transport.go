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

// Package transport owns the IPC channel to the trusted application. One
// command and one response travel per call; there is no pipelining and no
// retry. Transport failures are reported as errors distinct from remote
// application status codes, which arrive inside the response payload.
package transport

import (
	"errors"

	"github.com/jeremyhahn/go-keymaster/pkg/wire"
)

const (
	pageSize          = 4096
	tipcHeaderSize    = 16
	messageHeaderSize = 4

	// RecvBufSize is the receive capacity: one page. A remote response
	// that does not fit is a transport failure, never a silent
	// truncation.
	RecvBufSize = pageSize

	// SendBufSize is the request payload capacity: one page minus the
	// command header and tipc framing overhead. Requests larger than
	// this are rejected locally before any transport call.
	SendBufSize = pageSize - messageHeaderSize - tipcHeaderSize
)

var (
	// ErrNotConnected is returned when Call or Disconnect is invoked on
	// a session that is not connected.
	ErrNotConnected = errors.New("transport: not connected")

	// ErrAlreadyConnected is returned when Connect is invoked twice.
	ErrAlreadyConnected = errors.New("transport: already connected")

	// ErrRequestTooLarge is returned when a request payload exceeds
	// SendBufSize. No bytes reach the channel.
	ErrRequestTooLarge = errors.New("transport: request exceeds send capacity")

	// ErrInvalidResponse is returned when the channel yields fewer bytes
	// than the message header requires.
	ErrInvalidResponse = errors.New("transport: short response")
)

// Transport is a synchronous command channel to the trusted application.
// Exactly one call may be outstanding at a time; Call blocks until the
// remote side responds or the channel fails. Implementations translate
// nothing: OS-level failures surface as-is and are mapped to domain
// errors by Translate.
type Transport interface {
	// Connect opens the channel. The connection is owned by the caller
	// and must be released exactly once via Disconnect.
	Connect() error

	// Call sends one command with its serialized request payload and
	// returns the response payload with framing stripped.
	Call(cmd wire.Command, req []byte) ([]byte, error)

	// Disconnect releases the channel.
	Disconnect() error
}
