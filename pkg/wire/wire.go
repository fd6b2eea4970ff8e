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

// Package wire implements the keymaster command serialization format: a
// little-endian, length-prefixed layout with one request/response pair per
// command. Every message knows its own serialized size so callers can
// check it against transport capacity before any bytes are written.
//
// The format is append-only: fields may be added at the end of a message
// but never reordered or removed.
package wire

import (
	"encoding/binary"
	"errors"

	"github.com/jeremyhahn/go-keymaster/pkg/types"
)

// ErrShortBuffer is returned when a message cannot be decoded because the
// buffer ends before the declared content. It indicates a syntactically
// invalid response, distinct from a well-formed response that carries a
// remote error code.
var ErrShortBuffer = errors.New("wire: buffer too short")

// Request is a serializable command payload. Serialize writes exactly
// SerializedSize bytes; it performs no business validation.
type Request interface {
	SerializedSize() int
	Serialize(w *Writer)
}

// Response is a decodable command result. Deserialize either fully
// populates the response or reports a decode failure; a decoded response
// may still carry a non-OK remote status in its header.
type Response interface {
	Deserialize(r *Reader) error
	Err() types.ErrorCode
}

// ResponseHeader is the fixed prefix of every response. Its first field
// is the signed status code; command-specific payload follows only when
// the status is OK.
type ResponseHeader struct {
	Error types.ErrorCode
}

// Err returns the embedded remote status code.
func (h *ResponseHeader) Err() types.ErrorCode {
	return h.Error
}

func (h *ResponseHeader) deserialize(r *Reader) {
	h.Error = types.ErrorCode(r.Uint32())
}

// Zeroize overwrites the full capacity of buf with zeros. Buffers holding
// serialized requests or responses must be zeroized on every exit path so
// stale key-related bytes do not persist after use.
func Zeroize(buf []byte) {
	buf = buf[:cap(buf)]
	for i := range buf {
		buf[i] = 0
	}
}

// Writer serializes fields into a caller-provided buffer with explicit
// offset accounting. The buffer must be at least SerializedSize bytes;
// the message size methods are the single source of truth for capacity.
type Writer struct {
	buf []byte
	off int
}

// NewWriter returns a Writer over buf starting at offset zero.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.off
}

// PutUint32 writes a little-endian uint32.
func (w *Writer) PutUint32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[w.off:], v)
	w.off += 4
}

// PutUint64 writes a little-endian uint64.
func (w *Writer) PutUint64(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[w.off:], v)
	w.off += 8
}

// PutBlob writes a uint32 length followed by the blob content. A nil or
// empty blob serializes to a bare zero length, which is a well-formed
// frame on its own.
func (w *Writer) PutBlob(b []byte) {
	w.PutUint32(uint32(len(b)))
	copy(w.buf[w.off:], b)
	w.off += len(b)
}

// PutParams writes an authorization set: a uint32 element count followed
// by each parameter's tag and value.
func (w *Writer) PutParams(set types.AuthorizationSet) {
	w.PutUint32(uint32(len(set)))
	for _, p := range set {
		w.PutUint32(uint32(p.Tag))
		switch p.Tag.Type() {
		case types.TagTypeBytes, types.TagTypeBignum:
			w.PutBlob(p.Bytes)
		default:
			w.PutUint64(p.Uint)
		}
	}
}

// BlobSize returns the serialized size of a length-prefixed blob.
func BlobSize(b []byte) int {
	return 4 + len(b)
}

// ParamsSize returns the serialized size of an authorization set.
func ParamsSize(set types.AuthorizationSet) int {
	size := 4
	for _, p := range set {
		size += 4
		switch p.Tag.Type() {
		case types.TagTypeBytes, types.TagTypeBignum:
			size += BlobSize(p.Bytes)
		default:
			size += 8
		}
	}
	return size
}

// Reader decodes fields from a byte range with sticky error semantics:
// after the first short read every subsequent accessor returns the zero
// value and Err reports ErrShortBuffer.
type Reader struct {
	buf []byte
	off int
	err error
}

// NewReader returns a Reader over buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Err returns the first decode error encountered, if any.
func (r *Reader) Err() error {
	return r.err
}

// Remaining returns the number of undecoded bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Uint32 decodes a little-endian uint32.
func (r *Reader) Uint32() uint32 {
	if r.err != nil {
		return 0
	}
	if r.off+4 > len(r.buf) {
		r.err = ErrShortBuffer
		return 0
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

// Uint64 decodes a little-endian uint64.
func (r *Reader) Uint64() uint64 {
	if r.err != nil {
		return 0
	}
	if r.off+8 > len(r.buf) {
		r.err = ErrShortBuffer
		return 0
	}
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v
}

// Blob decodes a length-prefixed blob into a fresh copy. The copy matters:
// response buffers are zeroized after decoding, and decoded blobs must
// survive that.
func (r *Reader) Blob() []byte {
	n := r.Uint32()
	if r.err != nil {
		return nil
	}
	if r.off+int(n) > len(r.buf) {
		r.err = ErrShortBuffer
		return nil
	}
	b := make([]byte, n)
	copy(b, r.buf[r.off:r.off+int(n)])
	r.off += int(n)
	return b
}

// Params decodes an authorization set.
func (r *Reader) Params() types.AuthorizationSet {
	count := r.Uint32()
	if r.err != nil {
		return nil
	}
	// Every element carries at least a tag and a four-byte value or
	// length, so a count the remaining bytes cannot satisfy is a short
	// buffer. The count comes from the response and must never size an
	// allocation unchecked.
	if int64(count) > int64(r.Remaining())/8 {
		r.err = ErrShortBuffer
		return nil
	}
	set := make(types.AuthorizationSet, 0, count)
	for i := uint32(0); i < count; i++ {
		tag := types.Tag(r.Uint32())
		if r.err != nil {
			return nil
		}
		p := types.KeyParam{Tag: tag}
		switch tag.Type() {
		case types.TagTypeBytes, types.TagTypeBignum:
			p.Bytes = r.Blob()
		default:
			p.Uint = r.Uint64()
		}
		if r.err != nil {
			return nil
		}
		set = append(set, p)
	}
	return set
}
