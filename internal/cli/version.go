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
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information (injected at build time via -ldflags)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// versionCmd prints local build information and, on request, the remote
// protocol version negotiated with the trusted application.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the CLI build version and optionally the remote protocol version.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("keymaster version %s\n", Version)
		fmt.Printf("Git commit: %s\n", GitCommit)
		fmt.Printf("Build date: %s\n", BuildDate)
		fmt.Printf("Go version: %s\n", runtime.Version())
		fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)

		remote, _ := cmd.Flags().GetBool("remote")
		if !remote {
			return nil
		}
		d, err := newDevice()
		if err != nil {
			fmt.Fprintf(os.Stderr, "remote version unavailable: %v\n", err)
			return err
		}
		defer d.Close()
		v := d.Version()
		fmt.Printf("Remote protocol: %d.%d.%d\n", v.Major, v.Minor, v.Subminor)
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("remote", false, "also query the trusted application's protocol version")
}
