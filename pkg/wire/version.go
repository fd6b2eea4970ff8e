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

package wire

import "github.com/jeremyhahn/go-keymaster/pkg/types"

// MessageVersion maps the protocol version triple reported by the trusted
// application onto the message encoding this proxy speaks. A negative
// result means the remote side is newer than this encoding can represent
// and the session must be refused with a version mismatch.
func MessageVersion(major, minor, subminor uint32) int32 {
	switch major {
	case 0:
		return 0
	case 1:
		switch minor {
		case 0:
			return 1
		case 1:
			return 2
		}
	case 2:
		return 3
	}
	return -1
}

// GetVersionRequest queries the trusted application's protocol version.
// It carries no payload.
type GetVersionRequest struct{}

func (GetVersionRequest) SerializedSize() int { return 0 }
func (GetVersionRequest) Serialize(*Writer)   {}

// GetVersionResponse reports the remote protocol version triple.
type GetVersionResponse struct {
	ResponseHeader
	Major    uint32
	Minor    uint32
	Subminor uint32
}

func (rsp *GetVersionResponse) Deserialize(r *Reader) error {
	rsp.deserialize(r)
	if err := r.Err(); err != nil {
		return err
	}
	if rsp.Error != types.ErrorOK {
		return nil
	}
	rsp.Major = r.Uint32()
	rsp.Minor = r.Uint32()
	rsp.Subminor = r.Uint32()
	return r.Err()
}
