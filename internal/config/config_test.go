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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "/dev/trusty-ipc-dev0", cfg.Transport.Device)
	assert.Equal(t, "com.android.trusty.keymaster", cfg.Transport.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/dev/trusty-ipc-dev0", cfg.Transport.Device)
}

func TestLoadFullConfig(t *testing.T) {
	content := `
transport:
  device: /dev/trusty-ipc-dev1
  port: com.android.trusty.keymaster.test
metrics:
  enabled: true
  listen: ":9999"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/trusty-ipc-dev1", cfg.Transport.Device)
	assert.Equal(t, "com.android.trusty.keymaster.test", cfg.Transport.Port)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9999", cfg.Metrics.Listen)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport: [broken\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "loud"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsEmptyDevice(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Transport.Device = ""
	assert.Error(t, cfg.Validate())
}
