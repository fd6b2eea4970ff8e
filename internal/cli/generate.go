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

package cli

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-keymaster/pkg/types"
)

var algorithms = map[string]types.Algorithm{
	"rsa":  types.AlgorithmRSA,
	"ec":   types.AlgorithmEC,
	"aes":  types.AlgorithmAES,
	"hmac": types.AlgorithmHMAC,
}

// generateCmd creates a key inside the secure environment and prints its
// opaque blob.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a key inside the trusted application",
	RunE: func(cmd *cobra.Command, args []string) error {
		algName, _ := cmd.Flags().GetString("algorithm")
		keySize, _ := cmd.Flags().GetUint32("key-size")

		alg, ok := algorithms[algName]
		if !ok {
			return fmt.Errorf("unknown algorithm %q (rsa, ec, aes, hmac)", algName)
		}

		d, err := newDevice()
		if err != nil {
			return err
		}
		defer d.Close()

		params := types.AuthorizationSet{}.
			AddUint(types.TagAlgorithm, uint32(alg)).
			AddUint(types.TagKeySize, keySize)
		blob, chars, err := d.GenerateKey(params)
		if err != nil {
			return err
		}

		fmt.Printf("key blob: %s\n", base64.StdEncoding.EncodeToString(blob))
		fmt.Printf("hw-enforced params: %d\n", len(chars.HWEnforced))
		fmt.Printf("sw-enforced params: %d\n", len(chars.SWEnforced))
		return nil
	},
}

func init() {
	generateCmd.Flags().String("algorithm", "ec", "key algorithm (rsa, ec, aes, hmac)")
	generateCmd.Flags().Uint32("key-size", 256, "key size in bits")
}
