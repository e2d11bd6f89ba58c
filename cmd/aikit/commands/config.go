package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/keboola/ai-kit/cmd/aikit/commands/flags"
	"github.com/keboola/ai-kit/internal/config"
	"github.com/keboola/ai-kit/internal/errors"
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect aikit configuration",
	Long: `Inspect the effective aikit configuration.

Settings come from $XDG_CONFIG_HOME/aikit/config.yaml, a .aikit.yaml in the
working directory, and AIKIT_* environment variables (AIKIT_BUMP_STRATEGY
for bump.strategy). Without a subcommand, prints the effective values.`,
	Example: `  # Print effective configuration
  aikit config

  # Read one value
  aikit config get bump.strategy

  # Check a config file before committing it
  aikit config validate --config ./.aikit.yaml

See Also: aikit doctor`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a single configuration value",
	Long: `Print one configuration value by dotted key. List values are printed
one per line.`,
	Example: `  aikit config get backup.retention`,
	Args:    cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		return runConfigGet(c.OutOrStdout(), args[0])
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long:  `Report every invalid configuration value. Exits 1 when any is found.`,
	RunE: func(c *cobra.Command, _ []string) error {
		return runConfigValidate(c.OutOrStdout(), loadedConfig)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file in use",
	Run: func(c *cobra.Command, _ []string) {
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintln(c.OutOrStdout(), used)
			return
		}
		fmt.Fprintln(c.OutOrStdout(), "(none, using defaults)")
	},
}

func runConfigShow(c *cobra.Command, _ []string) error {
	return writeConfigYAML(c.OutOrStdout(), flags.Config())
}

func writeConfigYAML(w io.Writer, cfg *config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return errors.Wrap(err, "encoding config")
	}
	return errors.Wrap(enc.Close(), "encoding config")
}

func runConfigGet(w io.Writer, key string) error {
	if !viper.IsSet(key) {
		return errors.NewUserError(errors.Newf("unknown config key %q", key), "Run 'aikit config' to see available keys")
	}

	switch v := viper.Get(key).(type) {
	case []any:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	case []string:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	default:
		fmt.Fprintln(w, viper.GetString(key))
	}
	return nil
}

func runConfigValidate(w io.Writer, cfg *config.Config) error {
	if cfg == nil {
		cfg = config.Default()
	}
	errs := config.Validate(cfg)
	if len(errs) == 0 {
		fmt.Fprintln(w, color.GreenString("✓ Configuration is valid"))
		return nil
	}
	for _, err := range errs {
		fmt.Fprintf(w, "%s %v\n", color.RedString("✗"), err)
	}
	return errors.NewUserError(errors.Newf("%d invalid configuration value(s)", len(errs)), "")
}
