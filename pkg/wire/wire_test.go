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

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-keymaster/pkg/types"
)

func TestWriterReaderScalars(t *testing.T) {
	buf := make([]byte, 12)
	w := NewWriter(buf)
	w.PutUint32(0xdeadbeef)
	w.PutUint64(0x0123456789abcdef)
	assert.Equal(t, 12, w.Len())

	r := NewReader(buf)
	assert.Equal(t, uint32(0xdeadbeef), r.Uint32())
	assert.Equal(t, uint64(0x0123456789abcdef), r.Uint64())
	assert.NoError(t, r.Err())
	assert.Equal(t, 0, r.Remaining())
}

func TestBlobRoundTrip(t *testing.T) {
	blob := []byte("opaque key material")
	buf := make([]byte, BlobSize(blob))
	w := NewWriter(buf)
	w.PutBlob(blob)
	assert.Equal(t, BlobSize(blob), w.Len())

	r := NewReader(buf)
	got := r.Blob()
	require.NoError(t, r.Err())
	assert.Equal(t, blob, got)
}

func TestBlobDecodeCopies(t *testing.T) {
	blob := []byte{1, 2, 3, 4}
	buf := make([]byte, BlobSize(blob))
	NewWriter(buf).PutBlob(blob)

	r := NewReader(buf)
	got := r.Blob()
	require.NoError(t, r.Err())

	// Decoded blobs must survive zeroization of the response buffer.
	Zeroize(buf)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)
}

func TestParamsRoundTrip(t *testing.T) {
	set := types.AuthorizationSet{}.
		AddUint(types.TagKeySize, 256).
		AddUint(types.TagAlgorithm, uint32(types.AlgorithmEC)).
		AddBytes(types.TagApplicationID, []byte("app"))

	buf := make([]byte, ParamsSize(set))
	w := NewWriter(buf)
	w.PutParams(set)
	assert.Equal(t, ParamsSize(set), w.Len())

	r := NewReader(buf)
	got := r.Params()
	require.NoError(t, r.Err())
	assert.Equal(t, set, got)
}

func TestReaderShortBuffer(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		read func(r *Reader)
	}{
		{
			name: "uint32 from empty",
			buf:  nil,
			read: func(r *Reader) { r.Uint32() },
		},
		{
			name: "uint64 from three bytes",
			buf:  []byte{1, 2, 3},
			read: func(r *Reader) { r.Uint64() },
		},
		{
			name: "blob content truncated",
			buf:  []byte{10, 0, 0, 0, 1, 2},
			read: func(r *Reader) { r.Blob() },
		},
		{
			name: "params element truncated",
			buf:  []byte{1, 0, 0, 0},
			read: func(r *Reader) { r.Params() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.buf)
			tt.read(r)
			assert.ErrorIs(t, r.Err(), ErrShortBuffer)
		})
	}
}

func TestParamsCountBeyondBuffer(t *testing.T) {
	// A corrupt count claiming billions of elements must fail as a
	// short buffer, not drive the pre-allocation.
	buf := binary.LittleEndian.AppendUint32(nil, 0xffffffff)

	r := NewReader(buf)
	assert.Nil(t, r.Params())
	assert.ErrorIs(t, r.Err(), ErrShortBuffer)
}

func TestReaderErrorSticky(t *testing.T) {
	r := NewReader([]byte{1, 2})
	r.Uint32()
	assert.ErrorIs(t, r.Err(), ErrShortBuffer)

	// Subsequent reads return zero values without panicking.
	assert.Equal(t, uint32(0), r.Uint32())
	assert.Nil(t, r.Blob())
	assert.Nil(t, r.Params())
}

func TestZeroizeFullCapacity(t *testing.T) {
	buf := make([]byte, 8, 32)
	for i := range buf[:cap(buf)] {
		buf[:cap(buf)][i] = 0xff
	}

	Zeroize(buf)

	// The whole capacity is wiped, not just the used prefix.
	for i, b := range buf[:cap(buf)] {
		assert.Zerof(t, b, "byte %d not wiped", i)
	}
}
