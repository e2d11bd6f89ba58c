package config

import (
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/paths"
)

// Keys of every supported setting.
const (
	KeyPluginRootEnv    = "settings.plugin_root_env"
	KeySettingsTemplate = "settings.template"
	KeyBumpStrategy     = "bump.strategy"
	KeyBumpExclude      = "bump.exclude"
	KeyBackupRetention  = "backup.retention"
	KeySchemaPort       = "schema.port"
	KeySchemaPython     = "schema.python"
	KeySchemaTimeout    = "schema.sync_timeout"
)

// Defaults.
const (
	DefaultPluginRootEnv    = "CLAUDE_PLUGIN_ROOT"
	DefaultSettingsTemplate = "templates/settings.json"
	DefaultBumpStrategy     = "auto"
	DefaultBackupRetention  = 5
	DefaultSchemaPort       = 8000
	DefaultSchemaPython     = "python3"
	DefaultSyncTimeout      = 30 * time.Second
)

// Config is the decoded configuration file.
type Config struct {
	Settings SettingsConfig `mapstructure:"settings" yaml:"settings"`
	Bump     BumpConfig     `mapstructure:"bump" yaml:"bump"`
	Backup   BackupConfig   `mapstructure:"backup" yaml:"backup"`
	Schema   SchemaConfig   `mapstructure:"schema" yaml:"schema"`
}

// SettingsConfig configures `aikit settings install`.
type SettingsConfig struct {
	// PluginRootEnv names the environment variable holding the plugin root.
	PluginRootEnv string `mapstructure:"plugin_root_env" yaml:"plugin_root_env"`
	// Template is the template path relative to the plugin root.
	Template string `mapstructure:"template" yaml:"template"`
}

// BumpConfig configures `aikit bump`.
type BumpConfig struct {
	Strategy string   `mapstructure:"strategy" yaml:"strategy"`
	Exclude  []string `mapstructure:"exclude" yaml:"exclude"`
}

// BackupConfig configures the backup manager.
type BackupConfig struct {
	Retention int `mapstructure:"retention" yaml:"retention"`
}

// SchemaConfig configures `aikit schema serve`.
type SchemaConfig struct {
	Port        int           `mapstructure:"port" yaml:"port"`
	Python      string        `mapstructure:"python" yaml:"python"`
	SyncTimeout time.Duration `mapstructure:"sync_timeout" yaml:"sync_timeout"`
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	return &Config{
		Settings: SettingsConfig{PluginRootEnv: DefaultPluginRootEnv, Template: DefaultSettingsTemplate},
		Bump:     BumpConfig{Strategy: DefaultBumpStrategy, Exclude: []string{}},
		Backup:   BackupConfig{Retention: DefaultBackupRetention},
		Schema: SchemaConfig{
			Port:        DefaultSchemaPort,
			Python:      DefaultSchemaPython,
			SyncTimeout: DefaultSyncTimeout,
		},
	}
}

// Init registers search paths, environment binding and defaults on the
// global Viper instance.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(paths.AppConfigDir())

	viper.SetEnvPrefix("AIKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults(viper.GetViper())
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPluginRootEnv, DefaultPluginRootEnv)
	v.SetDefault(KeySettingsTemplate, DefaultSettingsTemplate)
	v.SetDefault(KeyBumpStrategy, DefaultBumpStrategy)
	v.SetDefault(KeyBumpExclude, []string{})
	v.SetDefault(KeyBackupRetention, DefaultBackupRetention)
	v.SetDefault(KeySchemaPort, DefaultSchemaPort)
	v.SetDefault(KeySchemaPython, DefaultSchemaPython)
	v.SetDefault(KeySchemaTimeout, DefaultSyncTimeout)
}

// Load reads the configuration file. An explicit path must exist; without
// one a missing file is not an error and defaults apply. A ./.aikit.yaml in
// the working directory is merged over the user file when present.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
		case path != "":
			return nil, errors.Wrapf(err, "reading config file %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	if path == "" {
		if err := mergeLocal(); err != nil {
			return nil, err
		}
	}

	return Current()
}

func mergeLocal() error {
	local := viper.New()
	local.SetConfigFile(".aikit.yaml")
	if err := local.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Wrap(err, "reading .aikit.yaml")
	}
	return errors.Wrap(viper.MergeConfigMap(local.AllSettings()), "merging .aikit.yaml")
}

// Current decodes the global Viper state into a Config.
func Current() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	return &cfg, nil
}
