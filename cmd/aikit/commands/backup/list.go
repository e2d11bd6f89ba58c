package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/keboola/ai-kit/cmd/aikit/commands/flags"
	"github.com/keboola/ai-kit/internal/backup"
	"github.com/keboola/ai-kit/internal/errors"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups",
	Long:  `List backups grouped by scope, most recent first.`,
	Example: `  # List all backups
  aikit backup list

  # Only bump backups, as JSON
  aikit backup list --scope bump --json

  See Also:
    aikit backup restore - Restore from a backup`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runListWithWriter(cmd.OutOrStdout())
	},
}

// listOutput represents the JSON output for backup list.
type listOutput struct {
	Scope   string       `json:"scope"`
	Backups []infoOutput `json:"backups"`
}

// infoOutput represents a single backup in JSON output.
type infoOutput struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	FileCount    int       `json:"file_count"`
	AikitVersion string    `json:"aikit_version"`
	Files        []string  `json:"files"`
}

func runListWithWriter(w io.Writer) error {
	mgr := flags.BackupManager()
	names, err := scopes(mgr)
	if err != nil {
		return err
	}

	groups := make([]listOutput, 0, len(names))
	for _, scope := range names {
		manifests, err := mgr.List(scope)
		if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.Wrapf(err, "listing backups for %s", scope)
		}

		infos := make([]infoOutput, len(manifests))
		for i, m := range manifests {
			files := make([]string, len(m.Files))
			for j, f := range m.Files {
				files[j] = f.OriginalPath
			}
			infos[i] = infoOutput{
				ID:           m.ID,
				CreatedAt:    m.CreatedAt,
				FileCount:    len(m.Files),
				AikitVersion: m.ToolVersion,
				Files:        files,
			}
		}
		groups = append(groups, listOutput{Scope: scope, Backups: infos})
	}

	if listJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(groups), "encoding output")
	}
	return outputListTabular(w, groups)
}

func outputListTabular(w io.Writer, groups []listOutput) error {
	hasBackups := false

	for i, g := range groups {
		if len(g.Backups) > 0 {
			hasBackups = true
		}
		if i > 0 {
			fmt.Fprintln(w)
		}

		fmt.Fprintln(w, headerColor.Sprintf("Scope: %s", g.Scope))
		if len(g.Backups) == 0 {
			fmt.Fprintf(w, "  %s\n", grayColor.Sprint("(no backups available)"))
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  ID\tCREATED\tFILES\tVERSION")
		for _, b := range g.Backups {
			fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\n",
				idColor.Sprint(b.ID),
				b.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				b.FileCount,
				b.AikitVersion)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if !hasBackups {
		if len(groups) > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, "No backups available")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Backups are created by 'aikit settings install --force' and 'aikit bump --backup'.")
	}
	return nil
}
