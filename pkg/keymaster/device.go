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

// Package keymaster implements the device facade: the keystore-style API
// that marshals every call over the Trusty transport and translates the
// response. No cryptography happens here; key material and parameters
// pass through opaque.
package keymaster

import (
	"time"

	"github.com/jeremyhahn/go-keymaster/pkg/logging"
	"github.com/jeremyhahn/go-keymaster/pkg/metrics"
	"github.com/jeremyhahn/go-keymaster/pkg/transport"
	"github.com/jeremyhahn/go-keymaster/pkg/types"
	"github.com/jeremyhahn/go-keymaster/pkg/wire"
)

// Config configures a Device.
type Config struct {
	// Transport is the channel to the trusted application. Required.
	Transport transport.Transport

	// Logger is the logger instance to use (optional).
	Logger *logging.Logger
}

// Device is the operation proxy for the Trusty keymaster trusted
// application. It connects and negotiates the protocol version exactly
// once, at construction. A construction-time failure is sticky: every
// subsequent operation returns the same error without touching the
// transport, until a new Device is constructed.
//
// A Device serializes nothing itself beyond the transport's single
// in-flight call; if multiple goroutines share one instance the caller
// must provide external synchronization.
type Device struct {
	transport transport.Transport
	logger    *logging.Logger

	err     types.ErrorCode
	version types.Version
	msgVer  int32
	closed  bool
}

// compile-time interface check
var _ types.Keymaster = (*Device)(nil)

// NewDevice constructs a Device, connects the transport and negotiates
// the protocol version. It always returns a usable handle; check Err
// before issuing operations. A version the proxy cannot represent, or a
// remote that rejects the version query itself, leaves the device fused
// with ErrorVersionMismatch.
func NewDevice(cfg *Config) *Device {
	d := &Device{err: types.ErrorOK}
	if cfg == nil || cfg.Transport == nil {
		d.err = types.ErrorUnexpectedNullPointer
		return d
	}
	d.transport = cfg.Transport
	d.logger = cfg.Logger
	if d.logger == nil {
		d.logger = logging.DefaultLogger()
	}

	if err := d.transport.Connect(); err != nil {
		d.err = transport.Translate(err)
		d.logger.Errorf("keymaster: failed to connect: %v", err)
		return d
	}

	rsp := &wire.GetVersionResponse{}
	d.err = d.send(wire.CmdGetVersion, &wire.GetVersionRequest{}, rsp)
	if d.err == types.ErrorInvalidArgument || d.err == types.ErrorUnimplemented {
		// A conforming trusted application always implements the
		// version query, so a rejection means a pre-versioning remote.
		d.logger.Errorf("keymaster: remote rejected version query; version 0 is not supported")
		d.err = types.ErrorVersionMismatch
		return d
	}
	if d.err != types.ErrorOK {
		return d
	}

	d.version = types.Version{
		Major:    rsp.Major,
		Minor:    rsp.Minor,
		Subminor: rsp.Subminor,
	}
	d.msgVer = wire.MessageVersion(rsp.Major, rsp.Minor, rsp.Subminor)
	if d.msgVer < 0 {
		d.logger.Errorf("keymaster: version %d.%d.%d not supported",
			rsp.Major, rsp.Minor, rsp.Subminor)
		d.err = types.ErrorVersionMismatch
		return d
	}

	d.logger.Debugf("keymaster: connected, remote version %d.%d.%d",
		rsp.Major, rsp.Minor, rsp.Subminor)
	return d
}

// Err returns the device's permanent error state. Once non-nil it never
// clears; callers should check it after construction and may check it at
// any time.
func (d *Device) Err() error {
	return d.err.OrNil()
}

// Version returns the remote protocol version negotiated at construction.
// It is only meaningful when Err returns nil.
func (d *Device) Version() types.Version {
	return d.version
}

// Close releases the transport channel. The channel is released exactly
// once; further Close calls are no-ops.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.transport == nil {
		return nil
	}
	return d.transport.Disconnect()
}

// send serializes the request into a wiped scratch buffer, performs one
// blocking transport call and decodes the response. It returns, in order
// of precedence: a local capacity error, a translated transport error, a
// decode error as ErrorUnknown, or the remote status embedded in the
// response.
func (d *Device) send(cmd wire.Command, req wire.Request, rsp wire.Response) types.ErrorCode {
	start := time.Now()
	code := d.roundTrip(cmd, req, rsp)
	metrics.RecordOperation(cmd.String(), code)
	metrics.ObserveDuration(cmd.String(), time.Since(start))
	return code
}

func (d *Device) roundTrip(cmd wire.Command, req wire.Request, rsp wire.Response) types.ErrorCode {
	size := req.SerializedSize()
	if size > transport.SendBufSize {
		return types.ErrorMemoryAllocationFailed
	}

	buf := make([]byte, transport.SendBufSize)
	defer wire.Zeroize(buf)
	req.Serialize(wire.NewWriter(buf[:size]))

	d.logger.Debugf("keymaster: sending %d byte %s request", size, cmd)
	rspBytes, err := d.transport.Call(cmd, buf[:size])
	if err != nil {
		code := transport.Translate(err)
		metrics.RecordTransportError(code)
		d.logger.Errorf("keymaster: transport error on %s: %v", cmd, err)
		return code
	}
	defer wire.Zeroize(rspBytes)

	if err := rsp.Deserialize(wire.NewReader(rspBytes)); err != nil {
		d.logger.Errorf("keymaster: error deserializing %d byte %s response: %v",
			len(rspBytes), cmd, err)
		return types.ErrorUnknown
	}
	if code := rsp.Err(); code != types.ErrorOK {
		d.logger.Debugf("keymaster: %s response carried error %d", cmd, int32(code))
		return code
	}
	return types.ErrorOK
}
