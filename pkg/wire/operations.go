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

// BeginOperationRequest starts a sign/verify/encrypt/decrypt session.
type BeginOperationRequest struct {
	Purpose types.Purpose
	KeyBlob types.KeyBlob
	Params  types.AuthorizationSet
}

func (req *BeginOperationRequest) SerializedSize() int {
	return 4 + BlobSize(req.KeyBlob) + ParamsSize(req.Params)
}

func (req *BeginOperationRequest) Serialize(w *Writer) {
	w.PutUint32(uint32(req.Purpose))
	w.PutBlob(req.KeyBlob)
	w.PutParams(req.Params)
}

// BeginOperationResponse returns the output parameters and the opaque
// operation handle for the new session.
type BeginOperationResponse struct {
	ResponseHeader
	OutParams types.AuthorizationSet
	Handle    types.OperationHandle
}

func (rsp *BeginOperationResponse) Deserialize(r *Reader) error {
	rsp.deserialize(r)
	if err := r.Err(); err != nil {
		return err
	}
	if rsp.Error != types.ErrorOK {
		return nil
	}
	rsp.OutParams = r.Params()
	rsp.Handle = types.OperationHandle(r.Uint64())
	return r.Err()
}

// UpdateOperationRequest feeds input to an active session.
type UpdateOperationRequest struct {
	Handle types.OperationHandle
	Params types.AuthorizationSet
	Input  []byte
}

func (req *UpdateOperationRequest) SerializedSize() int {
	return 8 + ParamsSize(req.Params) + BlobSize(req.Input)
}

func (req *UpdateOperationRequest) Serialize(w *Writer) {
	w.PutUint64(uint64(req.Handle))
	w.PutParams(req.Params)
	w.PutBlob(req.Input)
}

// UpdateOperationResponse reports how much input was consumed and any
// partial output produced.
type UpdateOperationResponse struct {
	ResponseHeader
	InputConsumed uint32
	OutParams     types.AuthorizationSet
	Output        []byte
}

func (rsp *UpdateOperationResponse) Deserialize(r *Reader) error {
	rsp.deserialize(r)
	if err := r.Err(); err != nil {
		return err
	}
	if rsp.Error != types.ErrorOK {
		return nil
	}
	rsp.InputConsumed = r.Uint32()
	rsp.OutParams = r.Params()
	rsp.Output = r.Blob()
	return r.Err()
}

// FinishOperationRequest completes an active session. Signature is used
// only for verify-purpose operations and may be empty otherwise.
type FinishOperationRequest struct {
	Handle    types.OperationHandle
	Params    types.AuthorizationSet
	Input     []byte
	Signature []byte
}

func (req *FinishOperationRequest) SerializedSize() int {
	return 8 + ParamsSize(req.Params) + BlobSize(req.Input) + BlobSize(req.Signature)
}

func (req *FinishOperationRequest) Serialize(w *Writer) {
	w.PutUint64(uint64(req.Handle))
	w.PutParams(req.Params)
	w.PutBlob(req.Input)
	w.PutBlob(req.Signature)
}

// FinishOperationResponse returns the final output of the session.
type FinishOperationResponse struct {
	ResponseHeader
	OutParams types.AuthorizationSet
	Output    []byte
}

func (rsp *FinishOperationResponse) Deserialize(r *Reader) error {
	rsp.deserialize(r)
	if err := r.Err(); err != nil {
		return err
	}
	if rsp.Error != types.ErrorOK {
		return nil
	}
	rsp.OutParams = r.Params()
	rsp.Output = r.Blob()
	return r.Err()
}

// AbortOperationRequest discards an active session.
type AbortOperationRequest struct {
	Handle types.OperationHandle
}

func (req *AbortOperationRequest) SerializedSize() int { return 8 }

func (req *AbortOperationRequest) Serialize(w *Writer) {
	w.PutUint64(uint64(req.Handle))
}

// AbortOperationResponse carries only the status header.
type AbortOperationResponse struct {
	ResponseHeader
}

func (rsp *AbortOperationResponse) Deserialize(r *Reader) error {
	rsp.deserialize(r)
	return r.Err()
}
