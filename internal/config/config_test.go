package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"LISTEN_ADDR", "SMALL_FILE_THRESHOLD", "IGNORED_PATHS", "SCAN_WORKERS", "TICK_INTERVAL", "AUTH_REQUIRED"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", cfg.ListenAddr)
	assert.Equal(t, DefaultSmallFileThreshold, cfg.SmallFileThreshold)
	assert.Equal(t, 60*time.Millisecond, cfg.TickInterval)
	assert.Empty(t, cfg.IgnoredPaths)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.True(t, cfg.AuthRequired)
}

func TestLoadFromEnvironment(t *testing.T) {
	sep := string(os.PathListSeparator)
	t.Setenv("SMALL_FILE_THRESHOLD", "4096")
	t.Setenv("IGNORED_PATHS", "/mnt/cloud/"+sep+" /var/cache ")
	t.Setenv("SCAN_WORKERS", "3")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("AUTH_REQUIRED", "false")
	t.Setenv("ALLOWED_IPS", "10.0.0.2, 10.0.0.3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(4096), cfg.SmallFileThreshold)
	assert.Equal(t, []string{"/mnt/cloud", "/var/cache"}, cfg.IgnoredPaths)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.False(t, cfg.AuthRequired)
	assert.Equal(t, []string{"10.0.0.2", "10.0.0.3"}, cfg.AllowedIPs)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"zero threshold", Config{SmallFileThreshold: 0, TickInterval: time.Second}, true},
		{"relative ignored path", Config{SmallFileThreshold: 1, TickInterval: time.Second, IgnoredPaths: []string{"tmp"}}, true},
		{"zero tick", Config{SmallFileThreshold: 1}, true},
		{"workers clamped", Config{SmallFileThreshold: 1, TickInterval: time.Second, Workers: -2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, tt.cfg.Workers)
		})
	}

	assert.ErrorIs(t, (&Config{TickInterval: time.Second}).Validate(), ErrInvalidThreshold)
}
