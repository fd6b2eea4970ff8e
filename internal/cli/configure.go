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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-keymaster/pkg/types"
)

// configureCmd provisions the trusted application with the platform
// version and patch level.
var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Send platform version and patch level to the trusted application",
	RunE: func(cmd *cobra.Command, args []string) error {
		osVersion, _ := cmd.Flags().GetUint32("os-version")
		patchlevel, _ := cmd.Flags().GetUint32("os-patchlevel")

		d, err := newDevice()
		if err != nil {
			return err
		}
		defer d.Close()

		params := types.AuthorizationSet{}.
			AddUint(types.TagOSVersion, osVersion).
			AddUint(types.TagOSPatchlevel, patchlevel)
		if err := d.Configure(params); err != nil {
			return err
		}
		fmt.Println("configured")
		return nil
	},
}

func init() {
	configureCmd.Flags().Uint32("os-version", 0, "platform version (e.g. 140000 for 14.0.0)")
	configureCmd.Flags().Uint32("os-patchlevel", 0, "platform patch level (e.g. 202508 for 2025-08)")
	_ = configureCmd.MarkFlagRequired("os-version")
	_ = configureCmd.MarkFlagRequired("os-patchlevel")
}
