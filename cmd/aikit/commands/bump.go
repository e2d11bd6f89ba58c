package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/keboola/ai-kit/cmd/aikit/commands/flags"
	"github.com/keboola/ai-kit/internal/backup"
	"github.com/keboola/ai-kit/internal/bump"
	"github.com/keboola/ai-kit/internal/cli/prompt"
	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/logging"
)

var (
	bumpDryRun   bool
	bumpBackup   bool
	bumpYes      bool
	bumpStrategy string
	bumpExclude  []string
)

// newBumpConfirmer is replaced in tests to answer the non-semver prompt.
var newBumpConfirmer = prompt.NewConfirmer

func init() {
	bumpCmd.Flags().BoolVar(&bumpDryRun, "dry-run", false,
		"show which files would change without writing them")
	bumpCmd.Flags().BoolVar(&bumpBackup, "backup", false,
		"back up every file before it is rewritten")
	bumpCmd.Flags().BoolVarP(&bumpYes, "yes", "y", false,
		"do not ask for confirmation when the version is not semver")
	bumpCmd.Flags().StringVar(&bumpStrategy, "strategy", "",
		"update strategy: auto, structured, text (default from bump.strategy)")
	bumpCmd.Flags().StringSliceVar(&bumpExclude, "exclude", nil,
		"additional glob patterns to skip, relative to the root (repeatable)")
	rootCmd.AddCommand(bumpCmd)
}

var bumpCmd = &cobra.Command{
	Use:   "bump <version>",
	Short: "Set the version field in every JSON file of the marketplace",
	Long: `Replace the value of every "version" field in every JSON file under the
marketplace root, skipping node_modules and .git.

Strategies:
  auto        structured update, text replacement for files that are not valid JSON (default)
  structured  rewrite every "version" member at any depth, keeping all other bytes
  text        replace the first "version": "..." occurrence in each file

Files are written one at a time; an interrupted run can leave some files
updated. Use --backup to keep a copy that 'aikit backup restore --scope bump'
can put back.`,
	Example: `  # Bump everything to 1.4.0
  aikit bump 1.4.0

  # Preview the change
  aikit bump 1.4.0 --dry-run

  # Keep a backup and skip fixtures
  aikit bump 2.0.0 --backup --exclude 'testdata/**'

  See Also: aikit doctor, aikit backup list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBump(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

func runBump(ctx context.Context, w io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.NewUserError(
			errors.Wrap(errors.ErrMissingArgument, "bump takes exactly one version"),
			"Usage: aikit bump <version>")
	}
	version := args[0]
	cfg := flags.Config()
	logger := logging.FromContext(ctx)

	strategyName := bumpStrategy
	if strategyName == "" {
		strategyName = cfg.Bump.Strategy
	}
	strategy, err := bump.ParseStrategy(strategyName)
	if err != nil {
		return errors.NewUserError(err, "Use --strategy auto, structured or text")
	}

	root, err := flags.MarketplaceRoot()
	if err != nil {
		return err
	}

	if !bump.ValidVersion(version) {
		logger.Warn("version does not follow MAJOR.MINOR.PATCH", "version", version)
		if !bumpYes {
			ok, err := newBumpConfirmer().Confirm(fmt.Sprintf("Use %q as the version anyway?", version))
			if err != nil {
				return errors.NewUserError(err, "")
			}
			if !ok {
				return errors.NewUserError(errors.ErrAborted, "")
			}
		}
	}

	b := bump.New(w, logger)
	if bumpBackup && !bumpDryRun {
		mgr := flags.BackupManager()
		b.BeforeWrite = func(paths []string) error {
			m, err := mgr.Backup(backup.ScopeBump, paths)
			if err != nil {
				return errors.NewSystemError(err, "Run without --backup or check the backup directory permissions")
			}
			fmt.Fprintf(w, "Backed up %d file(s) as %s\n", len(m.Files), m.ID)
			return nil
		}
	}

	excludes := append(append([]string{}, cfg.Bump.Exclude...), bumpExclude...)
	report, err := b.Run(ctx, root, version, bump.Options{
		Strategy: strategy,
		Exclude:  excludes,
		DryRun:   bumpDryRun,
	})
	if err != nil {
		return err
	}

	if bumpDryRun && len(report.Updated) > 0 {
		fmt.Fprintln(w, color.YellowString("Dry run: no files were written."))
	}
	return nil
}
