package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/keboola/ai-kit/internal/config"
	"github.com/keboola/ai-kit/internal/errors"
)

func isolateViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())
	config.Init()
}

func TestWriteConfigYAML_RoundTrips(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeConfigYAML(&out, config.Default()))

	assert.Contains(t, out.String(), "plugin_root_env: CLAUDE_PLUGIN_ROOT")

	var got config.Config
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, config.DefaultSchemaPort, got.Schema.Port)
	assert.Equal(t, config.DefaultSyncTimeout, got.Schema.SyncTimeout)
}

func TestRunConfigGet(t *testing.T) {
	isolateViper(t)
	viper.Set(config.KeyBumpExclude, []string{"dist/**", "vendor/**"})

	tests := []struct {
		key  string
		want string
	}{
		{config.KeyBumpStrategy, "auto\n"},
		{config.KeyBackupRetention, "5\n"},
		{config.KeyBumpExclude, "dist/**\nvendor/**\n"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, runConfigGet(&out, tt.key))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRunConfigGet_UnknownKey(t *testing.T) {
	isolateViper(t)

	err := runConfigGet(&bytes.Buffer{}, "bump.nope")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestRunConfigValidate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runConfigValidate(&out, config.Default()))
	assert.Contains(t, out.String(), "✓ Configuration is valid")

	bad := config.Default()
	bad.Bump.Strategy = "fast"
	bad.Backup.Retention = 0

	out.Reset()
	err := runConfigValidate(&out, bad)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("✗")))
}
