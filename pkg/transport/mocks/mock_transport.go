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

// Package mocks provides a mock transport for testing the device facade
// without a Trusty channel.
package mocks

import (
	"sync"

	"github.com/jeremyhahn/go-keymaster/pkg/wire"
)

// MockTransport is a mock implementation of transport.Transport.
type MockTransport struct {
	mu sync.Mutex

	// Configurable behavior
	ConnectFunc    func() error
	CallFunc       func(cmd wire.Command, req []byte) ([]byte, error)
	DisconnectFunc func() error

	// Call tracking
	ConnectCalls    int
	DisconnectCalls int
	Calls           []CallRecord
}

// CallRecord captures one Call invocation. Req is the slice the caller
// passed in, retained by reference so tests can verify it was wiped.
type CallRecord struct {
	Cmd wire.Command
	Req []byte
}

// Connect records the call and delegates to ConnectFunc if set.
func (m *MockTransport) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectCalls++
	if m.ConnectFunc != nil {
		return m.ConnectFunc()
	}
	return nil
}

// Call records the command and delegates to CallFunc if set.
func (m *MockTransport) Call(cmd wire.Command, req []byte) ([]byte, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, CallRecord{Cmd: cmd, Req: req})
	m.mu.Unlock()
	if m.CallFunc != nil {
		return m.CallFunc(cmd, req)
	}
	return nil, nil
}

// Disconnect records the call and delegates to DisconnectFunc if set.
func (m *MockTransport) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DisconnectCalls++
	if m.DisconnectFunc != nil {
		return m.DisconnectFunc()
	}
	return nil
}

// CallCount returns the number of Call invocations.
func (m *MockTransport) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// CommandsSent returns the commands in invocation order.
func (m *MockTransport) CommandsSent() []wire.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmds := make([]wire.Command, len(m.Calls))
	for i, c := range m.Calls {
		cmds[i] = c.Cmd
	}
	return cmds
}
