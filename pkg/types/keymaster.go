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

package types

// Keymaster is the keystore-style operation surface exposed by the proxy.
// Every method performs exactly one synchronous round trip to the trusted
// application; none of them execute cryptography locally.
//
// The begin/update/finish/abort methods form a per-handle session:
// begin issues a handle, update feeds input incrementally, finish or abort
// retires the handle. The proxy does not police handle state locally; the
// trusted application is the authority that rejects a handle which is not
// currently active. Callers must not invoke update, finish or abort with a
// handle that was never issued or was already retired.
type Keymaster interface {
	// Configure provisions the trusted application with the platform
	// version and patch level. The parameter set must contain
	// TagOSVersion and TagOSPatchlevel; their absence is rejected
	// locally.
	Configure(params AuthorizationSet) error

	// AddRngEntropy mixes caller-provided entropy into the secure RNG.
	// Zero-length data is valid and produces an empty-payload request.
	AddRngEntropy(data []byte) error

	// GenerateKey creates a new key inside the secure environment and
	// returns its opaque blob and characteristics.
	GenerateKey(params AuthorizationSet) (KeyBlob, *KeyCharacteristics, error)

	// GetKeyCharacteristics returns the authorization lists bound to a
	// key blob.
	GetKeyCharacteristics(keyBlob KeyBlob, clientID, appData []byte) (*KeyCharacteristics, error)

	// ImportKey wraps caller-provided key material into an opaque blob.
	ImportKey(params AuthorizationSet, format KeyFormat, keyData []byte) (KeyBlob, *KeyCharacteristics, error)

	// ExportKey returns key material in the requested format, if the
	// key's authorizations permit export.
	ExportKey(format KeyFormat, keyBlob KeyBlob, clientID, appData []byte) ([]byte, error)

	// AttestKey produces a certificate chain attesting to the key's
	// characteristics.
	AttestKey(keyBlob KeyBlob, params AuthorizationSet) (CertChain, error)

	// UpgradeKey re-wraps a blob created by an older trusted application
	// version.
	UpgradeKey(keyBlob KeyBlob, params AuthorizationSet) (KeyBlob, error)

	// DeleteKey destroys a key blob. Not implemented by all trusted
	// applications.
	DeleteKey(keyBlob KeyBlob) error

	// DeleteAllKeys destroys all key material. Not implemented by all
	// trusted applications.
	DeleteAllKeys() error

	// Begin starts a cryptographic session and returns the output
	// parameters and the operation handle.
	Begin(purpose Purpose, key KeyBlob, params AuthorizationSet) (AuthorizationSet, OperationHandle, error)

	// Update feeds input to an active session. It returns the number of
	// input bytes consumed, output parameters, and any partial output.
	Update(op OperationHandle, params AuthorizationSet, input []byte) (uint32, AuthorizationSet, []byte, error)

	// Finish completes an active session and returns the final output.
	Finish(op OperationHandle, params AuthorizationSet, input, signature []byte) (AuthorizationSet, []byte, error)

	// Abort discards an active session without producing output. It is
	// the only cancellation primitive and is itself a blocking round
	// trip.
	Abort(op OperationHandle) error
}
