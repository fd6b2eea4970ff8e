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
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

// entropyCmd mixes caller-provided entropy into the secure RNG.
var entropyCmd = &cobra.Command{
	Use:   "entropy [hex-data]",
	Short: "Mix entropy into the secure RNG",
	Long: `Mix hex-encoded entropy into the trusted application's random
number generator. With no argument an empty contribution is sent, which
is valid and exercises the channel.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		if len(args) == 1 {
			var err error
			data, err = hex.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("invalid hex data: %w", err)
			}
		}

		d, err := newDevice()
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.AddRngEntropy(data); err != nil {
			return err
		}
		fmt.Printf("added %d bytes of entropy\n", len(data))
		return nil
	},
}
