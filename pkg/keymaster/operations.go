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

package keymaster

import (
	"github.com/jeremyhahn/go-keymaster/pkg/types"
	"github.com/jeremyhahn/go-keymaster/pkg/wire"
)

// Configure provisions the trusted application with the platform version
// and patch level. The parameter set must contain TagOSVersion and
// TagOSPatchlevel; their absence is an invalid-argument error detected
// locally, with no transport call.
func (d *Device) Configure(params types.AuthorizationSet) error {
	if d.err != types.ErrorOK {
		return d.err
	}
	if params == nil {
		return types.ErrorUnexpectedNullPointer
	}

	req := &wire.ConfigureRequest{}
	osVersion, haveVersion := params.GetUint(types.TagOSVersion)
	osPatchlevel, havePatchlevel := params.GetUint(types.TagOSPatchlevel)
	if !haveVersion || !havePatchlevel {
		d.logger.Debugf("keymaster: configure requires OS version and patch level")
		return types.ErrorInvalidArgument
	}
	req.OSVersion = osVersion
	req.OSPatchlevel = osPatchlevel

	return d.send(wire.CmdConfigure, req, &wire.ConfigureResponse{}).OrNil()
}

// AddRngEntropy mixes caller entropy into the secure RNG. Zero-length
// data is valid.
func (d *Device) AddRngEntropy(data []byte) error {
	if d.err != types.ErrorOK {
		return d.err
	}

	req := &wire.AddRngEntropyRequest{Data: data}
	return d.send(wire.CmdAddRngEntropy, req, &wire.AddRngEntropyResponse{}).OrNil()
}

// GenerateKey creates a key inside the secure environment.
func (d *Device) GenerateKey(params types.AuthorizationSet) (types.KeyBlob, *types.KeyCharacteristics, error) {
	if d.err != types.ErrorOK {
		return nil, nil, d.err
	}
	if params == nil {
		return nil, nil, types.ErrorUnexpectedNullPointer
	}

	req := &wire.GenerateKeyRequest{Params: params}
	rsp := &wire.GenerateKeyResponse{}
	if code := d.send(wire.CmdGenerateKey, req, rsp); code != types.ErrorOK {
		return nil, nil, code
	}
	chars := &types.KeyCharacteristics{
		HWEnforced: rsp.HWEnforced,
		SWEnforced: rsp.SWEnforced,
	}
	return rsp.KeyBlob, chars, nil
}

// GetKeyCharacteristics returns the authorization lists bound to a blob.
func (d *Device) GetKeyCharacteristics(keyBlob types.KeyBlob, clientID, appData []byte) (*types.KeyCharacteristics, error) {
	if d.err != types.ErrorOK {
		return nil, d.err
	}
	if keyBlob == nil {
		return nil, types.ErrorUnexpectedNullPointer
	}

	req := &wire.GetKeyCharacteristicsRequest{
		KeyBlob:  keyBlob,
		ClientID: clientID,
		AppData:  appData,
	}
	rsp := &wire.GetKeyCharacteristicsResponse{}
	if code := d.send(wire.CmdGetKeyCharacteristics, req, rsp); code != types.ErrorOK {
		return nil, code
	}
	return &types.KeyCharacteristics{
		HWEnforced: rsp.HWEnforced,
		SWEnforced: rsp.SWEnforced,
	}, nil
}

// ImportKey wraps caller key material into an opaque blob.
func (d *Device) ImportKey(params types.AuthorizationSet, format types.KeyFormat, keyData []byte) (types.KeyBlob, *types.KeyCharacteristics, error) {
	if d.err != types.ErrorOK {
		return nil, nil, d.err
	}
	if params == nil || keyData == nil {
		return nil, nil, types.ErrorUnexpectedNullPointer
	}

	req := &wire.ImportKeyRequest{
		Params:    params,
		KeyFormat: format,
		KeyData:   keyData,
	}
	rsp := &wire.ImportKeyResponse{}
	if code := d.send(wire.CmdImportKey, req, rsp); code != types.ErrorOK {
		return nil, nil, code
	}
	chars := &types.KeyCharacteristics{
		HWEnforced: rsp.HWEnforced,
		SWEnforced: rsp.SWEnforced,
	}
	return rsp.KeyBlob, chars, nil
}

// ExportKey returns key material in the requested format.
func (d *Device) ExportKey(format types.KeyFormat, keyBlob types.KeyBlob, clientID, appData []byte) ([]byte, error) {
	if d.err != types.ErrorOK {
		return nil, d.err
	}
	if keyBlob == nil {
		return nil, types.ErrorUnexpectedNullPointer
	}

	req := &wire.ExportKeyRequest{
		KeyFormat: format,
		KeyBlob:   keyBlob,
		ClientID:  clientID,
		AppData:   appData,
	}
	rsp := &wire.ExportKeyResponse{}
	if code := d.send(wire.CmdExportKey, req, rsp); code != types.ErrorOK {
		return nil, code
	}
	return rsp.KeyData, nil
}

// AttestKey produces a certificate chain attesting to the key.
func (d *Device) AttestKey(keyBlob types.KeyBlob, params types.AuthorizationSet) (types.CertChain, error) {
	if d.err != types.ErrorOK {
		return nil, d.err
	}
	if keyBlob == nil {
		return nil, types.ErrorUnexpectedNullPointer
	}

	req := &wire.AttestKeyRequest{KeyBlob: keyBlob, Params: params}
	rsp := &wire.AttestKeyResponse{}
	if code := d.send(wire.CmdAttestKey, req, rsp); code != types.ErrorOK {
		return nil, code
	}
	return rsp.CertChain, nil
}

// UpgradeKey re-wraps a blob created by an older trusted application.
func (d *Device) UpgradeKey(keyBlob types.KeyBlob, params types.AuthorizationSet) (types.KeyBlob, error) {
	if d.err != types.ErrorOK {
		return nil, d.err
	}
	if keyBlob == nil {
		return nil, types.ErrorUnexpectedNullPointer
	}

	req := &wire.UpgradeKeyRequest{KeyBlob: keyBlob, Params: params}
	rsp := &wire.UpgradeKeyResponse{}
	if code := d.send(wire.CmdUpgradeKey, req, rsp); code != types.ErrorOK {
		return nil, code
	}
	return rsp.UpgradedKey, nil
}

// DeleteKey is not implemented by the Trusty keymaster trusted
// application.
func (d *Device) DeleteKey(keyBlob types.KeyBlob) error {
	if d.err != types.ErrorOK {
		return d.err
	}
	return types.ErrorUnimplemented
}

// DeleteAllKeys is not implemented by the Trusty keymaster trusted
// application.
func (d *Device) DeleteAllKeys() error {
	if d.err != types.ErrorOK {
		return d.err
	}
	return types.ErrorUnimplemented
}

// Begin starts a cryptographic session. Whether a second session may be
// begun while another handle is still active is decided by the trusted
// application, not locally.
func (d *Device) Begin(purpose types.Purpose, key types.KeyBlob, params types.AuthorizationSet) (types.AuthorizationSet, types.OperationHandle, error) {
	if d.err != types.ErrorOK {
		return nil, 0, d.err
	}
	if key == nil {
		return nil, 0, types.ErrorUnexpectedNullPointer
	}

	req := &wire.BeginOperationRequest{
		Purpose: purpose,
		KeyBlob: key,
		Params:  params,
	}
	rsp := &wire.BeginOperationResponse{}
	if code := d.send(wire.CmdBeginOperation, req, rsp); code != types.ErrorOK {
		return nil, 0, code
	}
	return rsp.OutParams, rsp.Handle, nil
}

// Update feeds input to an active session. On error the remote session is
// presumed torn down and the handle must not be reused.
func (d *Device) Update(op types.OperationHandle, params types.AuthorizationSet, input []byte) (uint32, types.AuthorizationSet, []byte, error) {
	if d.err != types.ErrorOK {
		return 0, nil, nil, d.err
	}

	req := &wire.UpdateOperationRequest{
		Handle: op,
		Params: params,
		Input:  input,
	}
	rsp := &wire.UpdateOperationResponse{}
	if code := d.send(wire.CmdUpdateOperation, req, rsp); code != types.ErrorOK {
		return 0, nil, nil, code
	}
	return rsp.InputConsumed, rsp.OutParams, rsp.Output, nil
}

// Finish completes an active session and returns the final output.
func (d *Device) Finish(op types.OperationHandle, params types.AuthorizationSet, input, signature []byte) (types.AuthorizationSet, []byte, error) {
	if d.err != types.ErrorOK {
		return nil, nil, d.err
	}

	req := &wire.FinishOperationRequest{
		Handle:    op,
		Params:    params,
		Input:     input,
		Signature: signature,
	}
	rsp := &wire.FinishOperationResponse{}
	if code := d.send(wire.CmdFinishOperation, req, rsp); code != types.ErrorOK {
		return nil, nil, code
	}
	return rsp.OutParams, rsp.Output, nil
}

// Abort discards an active session without producing output.
func (d *Device) Abort(op types.OperationHandle) error {
	if d.err != types.ErrorOK {
		return d.err
	}

	req := &wire.AbortOperationRequest{Handle: op}
	return d.send(wire.CmdAbortOperation, req, &wire.AbortOperationResponse{}).OrNil()
}
