// Package commands implements the CLI commands for aikit.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/keboola/ai-kit/cmd"
	"github.com/keboola/ai-kit/cmd/aikit/commands/flags"
	"github.com/keboola/ai-kit/internal/backup"
	"github.com/keboola/ai-kit/internal/config"
	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// loadedConfig and configLoadErr hold the outcome of initConfig.
var (
	loadedConfig  *config.Config
	configLoadErr error
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: $XDG_CONFIG_HOME/aikit/config.yaml)")
	rootCmd.PersistentFlags().StringVar(flags.RootVar(), "root", "",
		"marketplace root (default: search upward from the working directory)")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("aikit version {{.Version}}\n")

	// Silence errors and usage so main controls error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	backup.ToolVersion = cmd.Version
}

func initConfig() {
	config.Init()
	loadedConfig, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "aikit",
	Short: "Tooling for AI assistant plugin marketplaces",
	Long: `aikit carries the mechanical plumbing of a plugin marketplace for AI
coding assistants: the repository of Markdown agents, slash commands and
skills that an assistant host installs from .claude-plugin/marketplace.json.

It installs the permission settings template into a project, bumps version
fields across every JSON manifest, renders the assistant status line, lists
and validates plugin components, and serves a local tester for component
configuration schemas.`,
	Example: `  # Install the plugin's permission template into this project
  aikit settings install

  # Bump every version field in the marketplace
  aikit bump 1.4.0

  # List all skills
  aikit plugin list --kind skill

  # Check marketplace health
  aikit doctor

  See Also: aikit plugin, aikit doctor, aikit config`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil && cmd != statuslineCmd {
			return err
		}
		return applyConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// applyConfig reports config errors and publishes the loaded config to
// subcommands.
func applyConfig(cmd *cobra.Command) error {
	switch cmd.Name() {
	case "statusline":
		// the status bar renders on every prompt; config problems surface elsewhere
		flags.SetConfig(config.Default())
		return nil
	case "help", "version":
		if configLoadErr != nil || loadedConfig == nil {
			flags.SetConfig(config.Default())
			return nil
		}
	}

	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	if loadedConfig == nil {
		loadedConfig = config.Default()
	}
	if cmd.Name() != "validate" || cmd.Parent() == nil || cmd.Parent().Name() != "config" {
		if errs := config.Validate(loadedConfig); len(errs) > 0 {
			return errors.NewConfigError(errors.Join(errs...))
		}
	}
	flags.SetConfig(loadedConfig)
	return nil
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("AIKIT_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2
				case "2":
					v = 3
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{Level: level}

	var primary slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primary = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	case logging.FormatText:
		primary = logging.NewHandler(cmd.ErrOrStderr(), opts)
	default:
		return errors.NewUserError(errors.Newf("unknown log format %q", logFormat), "Use --log-format text or json")
	}

	handlers := []slog.Handler{primary}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(errors.Wrap(err, "opening log file"), "")
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	}

	handler := primary
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))
	return nil
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
