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
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/jeremyhahn/go-keymaster/pkg/logging"
	"github.com/jeremyhahn/go-keymaster/pkg/wire"
)

const (
	// DefaultDevice is the Trusty IPC device node.
	DefaultDevice = "/dev/trusty-ipc-dev0"

	// DefaultPort is the keymaster service port published by the
	// trusted application.
	DefaultPort = "com.android.trusty.keymaster"

	// tipcIoctlConnect is _IOW('r', 0x80, char*): connect the opened
	// channel to a named port.
	tipcIoctlConnect = 0x40087280
)

// TIPC is a Transport over the Trusty IPC device node. It serializes all
// channel access internally so a single session never has more than one
// call in flight.
type TIPC struct {
	device string
	port   string
	logger *logging.Logger

	mu        sync.Mutex
	fd        int
	connected bool
}

// compile-time interface check
var _ Transport = (*TIPC)(nil)

// NewTIPC creates a session for the given device node and port name.
// Empty strings select the defaults. The session is not connected until
// Connect is called.
func NewTIPC(device, port string, logger *logging.Logger) *TIPC {
	if device == "" {
		device = DefaultDevice
	}
	if port == "" {
		port = DefaultPort
	}
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &TIPC{
		device: device,
		port:   port,
		logger: logger,
		fd:     -1,
	}
}

// Connect opens the device node and binds the channel to the keymaster
// port.
func (t *TIPC) Connect() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.connected {
		return ErrAlreadyConnected
	}

	fd, err := unix.Open(t.device, unix.O_RDWR, 0)
	if err != nil {
		t.logger.Errorf("transport: open %s: %v", t.device, err)
		return err
	}

	// The port name must be NUL-terminated for the driver.
	port := append([]byte(t.port), 0)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd),
		tipcIoctlConnect, uintptr(unsafe.Pointer(&port[0])))
	runtime.KeepAlive(port)
	if errno != 0 {
		_ = unix.Close(fd)
		t.logger.Errorf("transport: connect to %s: %v", t.port, errno)
		return errno
	}

	t.fd = fd
	t.connected = true
	t.logger.Debugf("transport: connected to %s via %s", t.port, t.device)
	return nil
}

// Call writes one framed command and blocks for the response. The receive
// buffer is wiped before return; the returned payload is a fresh copy
// owned by the caller.
func (t *TIPC) Call(cmd wire.Command, req []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.connected {
		return nil, ErrNotConnected
	}
	if len(req) > SendBufSize {
		return nil, ErrRequestTooLarge
	}

	msg := make([]byte, messageHeaderSize+len(req))
	defer wire.Zeroize(msg)
	binary.LittleEndian.PutUint32(msg, uint32(cmd))
	copy(msg[messageHeaderSize:], req)

	if err := t.writeAll(msg); err != nil {
		return nil, err
	}

	buf := make([]byte, RecvBufSize)
	defer wire.Zeroize(buf)
	n, err := t.read(buf)
	if err != nil {
		return nil, err
	}
	if n < messageHeaderSize {
		return nil, ErrInvalidResponse
	}

	// The response header must echo the command with the response bit
	// set; the final fragment additionally carries the stop bit.
	echo := binary.LittleEndian.Uint32(buf)
	want := uint32(cmd) | wire.ResponseBit
	if echo != want && echo != want|wire.StopBit {
		t.logger.Errorf("transport: %s response carried header %#x, want %#x",
			cmd, echo, want)
		return nil, ErrInvalidResponse
	}

	payload := make([]byte, n-messageHeaderSize)
	copy(payload, buf[messageHeaderSize:n])
	return payload, nil
}

// Disconnect closes the channel. The underlying descriptor is released
// exactly once; calling Disconnect on an unconnected session is a no-op.
func (t *TIPC) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.connected {
		return nil
	}
	t.connected = false
	fd := t.fd
	t.fd = -1
	return unix.Close(fd)
}

func (t *TIPC) writeAll(buf []byte) error {
	for len(buf) > 0 {
		n, err := unix.Write(t.fd, buf)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		buf = buf[n:]
	}
	return nil
}

func (t *TIPC) read(buf []byte) (int, error) {
	for {
		n, err := unix.Read(t.fd, buf)
		if err == unix.EINTR {
			continue
		}
		return n, err
	}
}
