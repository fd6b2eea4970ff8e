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

// serialize writes a request into an exactly-sized buffer and checks the
// size accounting is exact.
func serialize(t *testing.T, req Request) []byte {
	t.Helper()
	buf := make([]byte, req.SerializedSize())
	w := NewWriter(buf)
	req.Serialize(w)
	require.Equal(t, len(buf), w.Len(), "SerializedSize must match bytes written")
	return buf
}

// statusHeader encodes a response status header. Negative codes must pass
// through a variable so the int32 bit pattern lands in the uint32 frame.
func statusHeader(code types.ErrorCode) []byte {
	return binary.LittleEndian.AppendUint32(nil, uint32(int32(code)))
}

func TestConfigureRequestLayout(t *testing.T) {
	req := &ConfigureRequest{OSVersion: 140000, OSPatchlevel: 202508}
	buf := serialize(t, req)

	require.Len(t, buf, 8)
	assert.Equal(t, uint32(140000), binary.LittleEndian.Uint32(buf[0:]))
	assert.Equal(t, uint32(202508), binary.LittleEndian.Uint32(buf[4:]))
}

func TestAddRngEntropyZeroLength(t *testing.T) {
	req := &AddRngEntropyRequest{}
	buf := serialize(t, req)

	// An empty contribution still produces a parseable frame: a bare
	// zero length.
	require.Len(t, buf, 4)
	r := NewReader(buf)
	assert.Empty(t, r.Blob())
	assert.NoError(t, r.Err())
}

func TestGetVersionRequestEmpty(t *testing.T) {
	req := &GetVersionRequest{}
	assert.Equal(t, 0, req.SerializedSize())
	assert.Empty(t, serialize(t, req))
}

func TestGetVersionResponseDecode(t *testing.T) {
	buf := binary.LittleEndian.AppendUint32(nil, 0)
	buf = binary.LittleEndian.AppendUint32(buf, 2)
	buf = binary.LittleEndian.AppendUint32(buf, 1)
	buf = binary.LittleEndian.AppendUint32(buf, 3)

	rsp := &GetVersionResponse{}
	require.NoError(t, rsp.Deserialize(NewReader(buf)))
	assert.Equal(t, types.ErrorOK, rsp.Err())
	assert.Equal(t, uint32(2), rsp.Major)
	assert.Equal(t, uint32(1), rsp.Minor)
	assert.Equal(t, uint32(3), rsp.Subminor)
}

func TestResponseCarryingRemoteError(t *testing.T) {
	// A well-formed response whose header carries an error decodes
	// successfully; the payload is absent.
	buf := statusHeader(types.ErrorInvalidKeyBlob)

	rsp := &GenerateKeyResponse{}
	require.NoError(t, rsp.Deserialize(NewReader(buf)))
	assert.Equal(t, types.ErrorInvalidKeyBlob, rsp.Err())
	assert.Nil(t, rsp.KeyBlob)
}

func TestResponseTruncatedPayload(t *testing.T) {
	// OK header but the key blob is cut off: a decode failure, distinct
	// from a response carrying a remote error.
	buf := binary.LittleEndian.AppendUint32(nil, 0)
	buf = binary.LittleEndian.AppendUint32(buf, 100) // blob length, no content

	rsp := &GenerateKeyResponse{}
	assert.ErrorIs(t, rsp.Deserialize(NewReader(buf)), ErrShortBuffer)
}

func TestResponseEmptyBuffer(t *testing.T) {
	rsp := &ConfigureResponse{}
	assert.ErrorIs(t, rsp.Deserialize(NewReader(nil)), ErrShortBuffer)
}

func TestBeginOperationRoundTrip(t *testing.T) {
	req := &BeginOperationRequest{
		Purpose: types.PurposeSign,
		KeyBlob: types.KeyBlob("blob-bytes"),
		Params:  types.AuthorizationSet{}.AddUint(types.TagKeySize, 256),
	}
	buf := serialize(t, req)

	r := NewReader(buf)
	assert.Equal(t, uint32(types.PurposeSign), r.Uint32())
	assert.Equal(t, []byte("blob-bytes"), r.Blob())
	assert.Equal(t, req.Params, r.Params())
	require.NoError(t, r.Err())
	assert.Equal(t, 0, r.Remaining())
}

func TestBeginOperationResponseDecode(t *testing.T) {
	buf := binary.LittleEndian.AppendUint32(nil, 0)
	buf = binary.LittleEndian.AppendUint32(buf, 0) // empty out params
	buf = binary.LittleEndian.AppendUint64(buf, 0xfeedface)

	rsp := &BeginOperationResponse{}
	require.NoError(t, rsp.Deserialize(NewReader(buf)))
	assert.Equal(t, types.OperationHandle(0xfeedface), rsp.Handle)
	assert.Empty(t, rsp.OutParams)
}

func TestUpdateOperationRoundTrip(t *testing.T) {
	req := &UpdateOperationRequest{
		Handle: 42,
		Input:  []byte("chunk"),
	}
	buf := serialize(t, req)

	r := NewReader(buf)
	assert.Equal(t, uint64(42), r.Uint64())
	assert.Empty(t, r.Params())
	assert.Equal(t, []byte("chunk"), r.Blob())
	require.NoError(t, r.Err())
}

func TestFinishOperationRoundTrip(t *testing.T) {
	req := &FinishOperationRequest{
		Handle:    7,
		Input:     []byte("tail"),
		Signature: []byte("sig"),
	}
	buf := serialize(t, req)

	r := NewReader(buf)
	assert.Equal(t, uint64(7), r.Uint64())
	assert.Empty(t, r.Params())
	assert.Equal(t, []byte("tail"), r.Blob())
	assert.Equal(t, []byte("sig"), r.Blob())
	require.NoError(t, r.Err())
}

func TestImportKeyRoundTrip(t *testing.T) {
	req := &ImportKeyRequest{
		Params:    types.AuthorizationSet{}.AddUint(types.TagAlgorithm, uint32(types.AlgorithmRSA)),
		KeyFormat: types.KeyFormatPKCS8,
		KeyData:   []byte("pkcs8-der"),
	}
	buf := serialize(t, req)

	r := NewReader(buf)
	assert.Equal(t, req.Params, r.Params())
	assert.Equal(t, uint32(types.KeyFormatPKCS8), r.Uint32())
	assert.Equal(t, []byte("pkcs8-der"), r.Blob())
	require.NoError(t, r.Err())
}

func TestAttestKeyResponseDecode(t *testing.T) {
	buf := binary.LittleEndian.AppendUint32(nil, 0)
	buf = binary.LittleEndian.AppendUint32(buf, 2) // chain length
	buf = binary.LittleEndian.AppendUint32(buf, 4)
	buf = append(buf, []byte("leaf")...)
	buf = binary.LittleEndian.AppendUint32(buf, 4)
	buf = append(buf, []byte("root")...)

	rsp := &AttestKeyResponse{}
	require.NoError(t, rsp.Deserialize(NewReader(buf)))
	require.Len(t, rsp.CertChain, 2)
	assert.Equal(t, []byte("leaf"), rsp.CertChain[0])
	assert.Equal(t, []byte("root"), rsp.CertChain[1])
}

func TestAttestKeyResponseCorruptChainCount(t *testing.T) {
	// An OK header followed by an absurd chain count decodes as a short
	// buffer; the count must not size the chain allocation.
	buf := statusHeader(types.ErrorOK)
	buf = binary.LittleEndian.AppendUint32(buf, 0xffffffff)

	rsp := &AttestKeyResponse{}
	assert.ErrorIs(t, rsp.Deserialize(NewReader(buf)), ErrShortBuffer)
}

func TestGetKeyCharacteristicsResponseCorruptParamCount(t *testing.T) {
	buf := statusHeader(types.ErrorOK)
	buf = binary.LittleEndian.AppendUint32(buf, 0xffffffff)

	rsp := &GetKeyCharacteristicsResponse{}
	assert.ErrorIs(t, rsp.Deserialize(NewReader(buf)), ErrShortBuffer)
}

func TestCommandNames(t *testing.T) {
	assert.Equal(t, "get_version", CmdGetVersion.String())
	assert.Equal(t, "begin", CmdBeginOperation.String())
	assert.Equal(t, "add_rng_entropy", CmdAddRngEntropy.String())
	assert.Equal(t, "unknown", Command(0xffff).String())
}
