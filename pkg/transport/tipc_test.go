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
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/jeremyhahn/go-keymaster/pkg/wire"
)

// newLoopbackTIPC binds a session to one end of a socketpair so Call can
// run against a real descriptor. The peer end plays the secure side:
// responses queued on it before Call are what the session reads back.
func newLoopbackTIPC(t *testing.T) (*TIPC, int) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_SEQPACKET, 0)
	require.NoError(t, err)

	tipc := NewTIPC("", "", nil)
	tipc.fd = fds[0]
	tipc.connected = true
	t.Cleanup(func() {
		_ = tipc.Disconnect()
		_ = unix.Close(fds[1])
	})
	return tipc, fds[1]
}

func TestNewTIPCDefaults(t *testing.T) {
	tipc := NewTIPC("", "", nil)
	assert.Equal(t, DefaultDevice, tipc.device)
	assert.Equal(t, DefaultPort, tipc.port)
	assert.NotNil(t, tipc.logger)
}

func TestCallNotConnected(t *testing.T) {
	tipc := NewTIPC("", "", nil)
	_, err := tipc.Call(wire.CmdGetVersion, nil)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestCallRequestTooLarge(t *testing.T) {
	tipc := NewTIPC("", "", nil)
	tipc.connected = true
	tipc.fd = -1

	// Rejected before any descriptor I/O is attempted; the bogus fd
	// would make that obvious.
	_, err := tipc.Call(wire.CmdAddRngEntropy, make([]byte, SendBufSize+1))
	assert.ErrorIs(t, err, ErrRequestTooLarge)
}

func TestDisconnectIdempotent(t *testing.T) {
	tipc := NewTIPC("", "", nil)
	require.NoError(t, tipc.Disconnect())
	require.NoError(t, tipc.Disconnect())
}

func TestConnectMissingDevice(t *testing.T) {
	tipc := NewTIPC("/nonexistent/trusty-ipc-dev0", "", nil)
	assert.Error(t, tipc.Connect())
}

func TestCallFramesRequestAndStripsEcho(t *testing.T) {
	tipc, peer := newLoopbackTIPC(t)

	rsp := binary.LittleEndian.AppendUint32(nil,
		uint32(wire.CmdGetVersion)|wire.ResponseBit)
	rsp = append(rsp, 1, 2, 3)
	_, err := unix.Write(peer, rsp)
	require.NoError(t, err)

	payload, err := tipc.Call(wire.CmdGetVersion, []byte{9})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, payload)

	// The request traveled as one frame: command header then payload.
	buf := make([]byte, 16)
	n, err := unix.Read(peer, buf)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	assert.Equal(t, uint32(wire.CmdGetVersion), binary.LittleEndian.Uint32(buf))
	assert.Equal(t, byte(9), buf[4])
}

func TestCallAcceptsFinalFragmentHeader(t *testing.T) {
	tipc, peer := newLoopbackTIPC(t)

	rsp := binary.LittleEndian.AppendUint32(nil,
		uint32(wire.CmdAbortOperation)|wire.ResponseBit|wire.StopBit)
	_, err := unix.Write(peer, rsp)
	require.NoError(t, err)

	payload, err := tipc.Call(wire.CmdAbortOperation, nil)
	require.NoError(t, err)
	assert.Empty(t, payload)
}

func TestCallRejectsMismatchedEcho(t *testing.T) {
	tipc, peer := newLoopbackTIPC(t)

	// The secure side answers for a different command.
	rsp := binary.LittleEndian.AppendUint32(nil,
		uint32(wire.CmdGenerateKey)|wire.ResponseBit)
	_, err := unix.Write(peer, rsp)
	require.NoError(t, err)

	_, err = tipc.Call(wire.CmdGetVersion, nil)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestCapacityConstants(t *testing.T) {
	// Send capacity is the page minus command header and tipc framing.
	assert.Equal(t, 4096, RecvBufSize)
	assert.Equal(t, 4096-4-16, SendBufSize)
}
