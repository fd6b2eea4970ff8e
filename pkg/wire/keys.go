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

// ConfigureRequest carries the platform version and patch level required
// before any key operation is permitted.
type ConfigureRequest struct {
	OSVersion    uint32
	OSPatchlevel uint32
}

func (req *ConfigureRequest) SerializedSize() int { return 8 }

func (req *ConfigureRequest) Serialize(w *Writer) {
	w.PutUint32(req.OSVersion)
	w.PutUint32(req.OSPatchlevel)
}

// ConfigureResponse carries only the status header.
type ConfigureResponse struct {
	ResponseHeader
}

func (rsp *ConfigureResponse) Deserialize(r *Reader) error {
	rsp.deserialize(r)
	return r.Err()
}

// AddRngEntropyRequest mixes caller entropy into the secure RNG. An empty
// payload is valid and serializes to a bare zero-length frame.
type AddRngEntropyRequest struct {
	Data []byte
}

func (req *AddRngEntropyRequest) SerializedSize() int { return BlobSize(req.Data) }

func (req *AddRngEntropyRequest) Serialize(w *Writer) {
	w.PutBlob(req.Data)
}

// AddRngEntropyResponse carries only the status header.
type AddRngEntropyResponse struct {
	ResponseHeader
}

func (rsp *AddRngEntropyResponse) Deserialize(r *Reader) error {
	rsp.deserialize(r)
	return r.Err()
}

// GenerateKeyRequest asks the trusted application to create a key with
// the given authorizations.
type GenerateKeyRequest struct {
	Params types.AuthorizationSet
}

func (req *GenerateKeyRequest) SerializedSize() int { return ParamsSize(req.Params) }

func (req *GenerateKeyRequest) Serialize(w *Writer) {
	w.PutParams(req.Params)
}

// GenerateKeyResponse returns the opaque blob and the enforced
// authorization lists of the new key.
type GenerateKeyResponse struct {
	ResponseHeader
	KeyBlob    types.KeyBlob
	HWEnforced types.AuthorizationSet
	SWEnforced types.AuthorizationSet
}

func (rsp *GenerateKeyResponse) Deserialize(r *Reader) error {
	rsp.deserialize(r)
	if err := r.Err(); err != nil {
		return err
	}
	if rsp.Error != types.ErrorOK {
		return nil
	}
	rsp.KeyBlob = r.Blob()
	rsp.HWEnforced = r.Params()
	rsp.SWEnforced = r.Params()
	return r.Err()
}

// GetKeyCharacteristicsRequest queries the authorization lists bound to a
// key blob. ClientID and AppData must match the values the key was
// created with, when present.
type GetKeyCharacteristicsRequest struct {
	KeyBlob  types.KeyBlob
	ClientID []byte
	AppData  []byte
}

func (req *GetKeyCharacteristicsRequest) SerializedSize() int {
	return BlobSize(req.KeyBlob) + BlobSize(req.ClientID) + BlobSize(req.AppData)
}

func (req *GetKeyCharacteristicsRequest) Serialize(w *Writer) {
	w.PutBlob(req.KeyBlob)
	w.PutBlob(req.ClientID)
	w.PutBlob(req.AppData)
}

// GetKeyCharacteristicsResponse returns the key's authorization lists.
type GetKeyCharacteristicsResponse struct {
	ResponseHeader
	HWEnforced types.AuthorizationSet
	SWEnforced types.AuthorizationSet
}

func (rsp *GetKeyCharacteristicsResponse) Deserialize(r *Reader) error {
	rsp.deserialize(r)
	if err := r.Err(); err != nil {
		return err
	}
	if rsp.Error != types.ErrorOK {
		return nil
	}
	rsp.HWEnforced = r.Params()
	rsp.SWEnforced = r.Params()
	return r.Err()
}

// ImportKeyRequest wraps caller key material into an opaque blob.
type ImportKeyRequest struct {
	Params    types.AuthorizationSet
	KeyFormat types.KeyFormat
	KeyData   []byte
}

func (req *ImportKeyRequest) SerializedSize() int {
	return ParamsSize(req.Params) + 4 + BlobSize(req.KeyData)
}

func (req *ImportKeyRequest) Serialize(w *Writer) {
	w.PutParams(req.Params)
	w.PutUint32(uint32(req.KeyFormat))
	w.PutBlob(req.KeyData)
}

// ImportKeyResponse returns the wrapped blob and its characteristics.
type ImportKeyResponse struct {
	ResponseHeader
	KeyBlob    types.KeyBlob
	HWEnforced types.AuthorizationSet
	SWEnforced types.AuthorizationSet
}

func (rsp *ImportKeyResponse) Deserialize(r *Reader) error {
	rsp.deserialize(r)
	if err := r.Err(); err != nil {
		return err
	}
	if rsp.Error != types.ErrorOK {
		return nil
	}
	rsp.KeyBlob = r.Blob()
	rsp.HWEnforced = r.Params()
	rsp.SWEnforced = r.Params()
	return r.Err()
}

// ExportKeyRequest asks for key material in the given format.
type ExportKeyRequest struct {
	KeyFormat types.KeyFormat
	KeyBlob   types.KeyBlob
	ClientID  []byte
	AppData   []byte
}

func (req *ExportKeyRequest) SerializedSize() int {
	return 4 + BlobSize(req.KeyBlob) + BlobSize(req.ClientID) + BlobSize(req.AppData)
}

func (req *ExportKeyRequest) Serialize(w *Writer) {
	w.PutUint32(uint32(req.KeyFormat))
	w.PutBlob(req.KeyBlob)
	w.PutBlob(req.ClientID)
	w.PutBlob(req.AppData)
}

// ExportKeyResponse returns the exported key material.
type ExportKeyResponse struct {
	ResponseHeader
	KeyData []byte
}

func (rsp *ExportKeyResponse) Deserialize(r *Reader) error {
	rsp.deserialize(r)
	if err := r.Err(); err != nil {
		return err
	}
	if rsp.Error != types.ErrorOK {
		return nil
	}
	rsp.KeyData = r.Blob()
	return r.Err()
}

// AttestKeyRequest asks for a certificate chain attesting to the key.
type AttestKeyRequest struct {
	KeyBlob types.KeyBlob
	Params  types.AuthorizationSet
}

func (req *AttestKeyRequest) SerializedSize() int {
	return BlobSize(req.KeyBlob) + ParamsSize(req.Params)
}

func (req *AttestKeyRequest) Serialize(w *Writer) {
	w.PutBlob(req.KeyBlob)
	w.PutParams(req.Params)
}

// AttestKeyResponse returns the attestation chain, leaf first.
type AttestKeyResponse struct {
	ResponseHeader
	CertChain types.CertChain
}

func (rsp *AttestKeyResponse) Deserialize(r *Reader) error {
	rsp.deserialize(r)
	if err := r.Err(); err != nil {
		return err
	}
	if rsp.Error != types.ErrorOK {
		return nil
	}
	count := r.Uint32()
	if err := r.Err(); err != nil {
		return err
	}
	// Each certificate needs at least its length prefix; the declared
	// count must never size an allocation beyond the remaining bytes.
	if int64(count) > int64(r.Remaining())/4 {
		return ErrShortBuffer
	}
	chain := make(types.CertChain, 0, count)
	for i := uint32(0); i < count; i++ {
		chain = append(chain, r.Blob())
	}
	if err := r.Err(); err != nil {
		return err
	}
	rsp.CertChain = chain
	return nil
}

// UpgradeKeyRequest re-wraps a blob created by an older trusted
// application version.
type UpgradeKeyRequest struct {
	KeyBlob types.KeyBlob
	Params  types.AuthorizationSet
}

func (req *UpgradeKeyRequest) SerializedSize() int {
	return BlobSize(req.KeyBlob) + ParamsSize(req.Params)
}

func (req *UpgradeKeyRequest) Serialize(w *Writer) {
	w.PutBlob(req.KeyBlob)
	w.PutParams(req.Params)
}

// UpgradeKeyResponse returns the re-wrapped blob.
type UpgradeKeyResponse struct {
	ResponseHeader
	UpgradedKey types.KeyBlob
}

func (rsp *UpgradeKeyResponse) Deserialize(r *Reader) error {
	rsp.deserialize(r)
	if err := r.Err(); err != nil {
		return err
	}
	if rsp.Error != types.ErrorOK {
		return nil
	}
	rsp.UpgradedKey = r.Blob()
	return r.Err()
}

// DeleteKeyRequest destroys a single key blob. The Trusty trusted
// application does not implement deletion and the proxy rejects it
// locally; the message shape and command identifier stay in the protocol
// enumeration, which is additive-only.
type DeleteKeyRequest struct {
	KeyBlob types.KeyBlob
}

func (req *DeleteKeyRequest) SerializedSize() int { return BlobSize(req.KeyBlob) }

func (req *DeleteKeyRequest) Serialize(w *Writer) {
	w.PutBlob(req.KeyBlob)
}

// DeleteKeyResponse carries only the status header.
type DeleteKeyResponse struct {
	ResponseHeader
}

func (rsp *DeleteKeyResponse) Deserialize(r *Reader) error {
	rsp.deserialize(r)
	return r.Err()
}

// DeleteAllKeysRequest destroys all key material. It carries no payload.
// Like DeleteKeyRequest it is rejected locally and kept only for protocol
// completeness.
type DeleteAllKeysRequest struct{}

func (DeleteAllKeysRequest) SerializedSize() int { return 0 }
func (DeleteAllKeysRequest) Serialize(*Writer)   {}

// DeleteAllKeysResponse carries only the status header.
type DeleteAllKeysResponse struct {
	ResponseHeader
}

func (rsp *DeleteAllKeysResponse) Deserialize(r *Reader) error {
	rsp.deserialize(r)
	return r.Err()
}
