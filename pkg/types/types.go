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

// Package types defines the domain types shared by the keymaster proxy:
// status codes, key parameters, blobs and the Keymaster interface. The
// proxy never interprets cryptographic content; these types describe only
// the transport envelope exchanged with the trusted application.
package types

// Purpose identifies the cryptographic purpose of a key operation.
type Purpose uint32

const (
	PurposeEncrypt Purpose = iota
	PurposeDecrypt
	PurposeSign
	PurposeVerify
)

// KeyFormat identifies the encoding of imported or exported key material.
type KeyFormat uint32

const (
	KeyFormatX509  KeyFormat = 0 // public key export
	KeyFormatPKCS8 KeyFormat = 1 // asymmetric import
	KeyFormatRaw   KeyFormat = 3 // symmetric import
)

// Algorithm identifies a cryptographic algorithm family in TagAlgorithm
// parameters. The proxy forwards these values without interpreting them.
type Algorithm uint32

const (
	AlgorithmRSA  Algorithm = 1
	AlgorithmEC   Algorithm = 3
	AlgorithmAES  Algorithm = 32
	AlgorithmHMAC Algorithm = 128
)

// KeyBlob is an opaque, environment-specific key encoding. It is
// meaningful only to the trusted application and passes through the proxy
// unmodified.
type KeyBlob []byte

// OperationHandle identifies one in-flight begin/update/finish session
// inside the trusted application. The proxy never interprets its value.
type OperationHandle uint64

// CertChain is an ordered list of DER-encoded certificates produced by
// key attestation, leaf first.
type CertChain [][]byte

// KeyCharacteristics describes a key's authorization lists as reported by
// the trusted application, split by enforcement domain.
type KeyCharacteristics struct {
	// HWEnforced holds authorizations enforced inside the secure
	// environment.
	HWEnforced AuthorizationSet

	// SWEnforced holds authorizations enforced by the non-secure world.
	SWEnforced AuthorizationSet
}

// Version is the protocol version triple reported by the trusted
// application at connect time. It is immutable for the lifetime of a
// session.
type Version struct {
	Major    uint32
	Minor    uint32
	Subminor uint32
}
