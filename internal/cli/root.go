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

// Package cli implements the keymaster command-line interface.
package cli

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeremyhahn/go-keymaster/internal/config"
	"github.com/jeremyhahn/go-keymaster/pkg/keymaster"
	"github.com/jeremyhahn/go-keymaster/pkg/logging"
	"github.com/jeremyhahn/go-keymaster/pkg/transport"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "keymaster",
	Short: "Trusty keymaster proxy CLI",
	Long: `keymaster talks to the Trusty keymaster trusted application over
the secure IPC channel. All cryptography happens inside the trusted
environment; this tool only builds requests, sends them and translates
the responses.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("metrics.enabled") {
			go serveMetrics(viper.GetString("metrics.listen"))
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.keymaster.yaml)")
	rootCmd.PersistentFlags().String("device", transport.DefaultDevice,
		"Trusty IPC device node")
	rootCmd.PersistentFlags().String("port", transport.DefaultPort,
		"keymaster service port name")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")

	_ = viper.BindPFlag("transport.device", rootCmd.PersistentFlags().Lookup("device"))
	_ = viper.BindPFlag("transport.port", rootCmd.PersistentFlags().Lookup("port"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(entropyCmd)
	rootCmd.AddCommand(generateCmd)
}

func initConfig() {
	viper.SetEnvPrefix("KEYMASTER")
	viper.AutomaticEnv()

	path := cfgFile
	if path == "" {
		// Missing default config file is fine; flags and built-in
		// defaults apply. An explicitly named file must load.
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		path = filepath.Join(home, ".keymaster.yaml")
		if _, err := os.Stat(path); err != nil {
			return
		}
	}
	cobra.CheckErr(applyConfigFile(path))
}

// applyConfigFile validates the file through the config package and feeds
// its effective values to viper below flags and environment variables, so
// an explicit --device or --port still wins.
func applyConfigFile(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	viper.SetDefault("transport.device", cfg.Transport.Device)
	viper.SetDefault("transport.port", cfg.Transport.Port)
	viper.SetDefault("logging.level", cfg.Logging.Level)
	viper.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	viper.SetDefault("metrics.listen", cfg.Metrics.Listen)
	if cfg.Logging.Level == "debug" {
		verbose = true
	}
	return nil
}

// serveMetrics exposes the Prometheus endpoint for the lifetime of the
// command so the operation counters can be scraped while it runs.
func serveMetrics(listen string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(listen, mux); err != nil {
		logging.DefaultLogger().Errorf("cli: metrics endpoint: %v", err)
	}
}

// newDevice constructs a connected device from the effective
// configuration. The caller owns the device and must Close it.
func newDevice() (*keymaster.Device, error) {
	logger := logging.NewLogger(verbose)
	t := transport.NewTIPC(
		viper.GetString("transport.device"),
		viper.GetString("transport.port"),
		logger,
	)
	d := keymaster.NewDevice(&keymaster.Config{
		Transport: t,
		Logger:    logger,
	})
	if err := d.Err(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}
