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

// Command selects which remote operation a message invokes. Identifiers
// are shifted left to leave room for the response and stop bits used by
// the secure-side message loop. Values are stable across protocol
// versions and strictly additive.
type Command uint32

const (
	// ResponseBit marks a message flowing from the trusted application
	// back to the proxy.
	ResponseBit = 1

	// StopBit marks the final fragment of a multi-fragment response.
	StopBit = 2

	reqShift = 2
)

const (
	CmdGenerateKey           Command = 0 << reqShift
	CmdBeginOperation        Command = 1 << reqShift
	CmdUpdateOperation       Command = 2 << reqShift
	CmdFinishOperation       Command = 3 << reqShift
	CmdAbortOperation        Command = 4 << reqShift
	CmdImportKey             Command = 5 << reqShift
	CmdExportKey             Command = 6 << reqShift
	CmdGetVersion            Command = 7 << reqShift
	CmdAddRngEntropy         Command = 8 << reqShift
	CmdGetKeyCharacteristics Command = 9 << reqShift
	CmdAttestKey             Command = 10 << reqShift
	CmdUpgradeKey            Command = 11 << reqShift
	CmdConfigure             Command = 12 << reqShift
	CmdDeleteKey             Command = 13 << reqShift
	CmdDeleteAllKeys         Command = 14 << reqShift
)

var commandNames = map[Command]string{
	CmdGenerateKey:           "generate_key",
	CmdBeginOperation:        "begin",
	CmdUpdateOperation:       "update",
	CmdFinishOperation:       "finish",
	CmdAbortOperation:        "abort",
	CmdImportKey:             "import_key",
	CmdExportKey:             "export_key",
	CmdGetVersion:            "get_version",
	CmdAddRngEntropy:         "add_rng_entropy",
	CmdGetKeyCharacteristics: "get_key_characteristics",
	CmdAttestKey:             "attest_key",
	CmdUpgradeKey:            "upgrade_key",
	CmdConfigure:             "configure",
	CmdDeleteKey:             "delete_key",
	CmdDeleteAllKeys:         "delete_all_keys",
}

// String returns the operation name used in logs and metrics labels.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}
