package settings

import (
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/logging"
	"github.com/keboola/ai-kit/internal/paths"
	"github.com/keboola/ai-kit/pkg/fileutil"
)

// ErrTemplateNotFound is returned when the plugin root is unknown or the
// template file is missing.
var ErrTemplateNotFound = errors.New("settings template not found")

// Action is what Install did.
type Action string

const (
	Installed   Action = "installed"
	Skipped     Action = "skipped"
	Overwritten Action = "overwritten"
)

// Result reports an Install.
type Result struct {
	Action   Action
	Template string
	Target   string
	// BackupID is set when an existing file was backed up before Overwritten.
	BackupID string
	// ValidJSON is false when the template did not parse; it is copied anyway.
	ValidJSON bool
}

// Options configure Install.
type Options struct {
	// PluginRoot is the plugin directory; empty means the template is unknown.
	PluginRoot string
	// Template is relative to PluginRoot.
	Template string
	// ProjectDir receives .claude/settings.json.
	ProjectDir string
	// Force overwrites an existing settings file after Backup.
	Force bool
	// Backup saves the existing file before a forced overwrite and returns
	// the backup ID. Required with Force.
	Backup func(path string) (string, error)
}

// Installer copies settings templates and reports progress to out.
type Installer struct {
	out    io.Writer
	logger *slog.Logger
}

// NewInstaller returns an Installer.
func NewInstaller(out io.Writer, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Installer{out: out, logger: logger}
}

// PluginRootFromEnv returns the value of the environment variable envVar.
func PluginRootFromEnv(envVar string) string {
	if envVar == "" {
		return ""
	}
	return os.Getenv(envVar)
}

// Install copies the template to <ProjectDir>/.claude/settings.json.
func (i *Installer) Install(opts Options) (*Result, error) {
	target := paths.ProjectSettingsPath(opts.ProjectDir)
	if target == "" {
		return nil, errors.New("project directory is required")
	}
	res := &Result{Target: target}

	if err := paths.EnsureDir(paths.ProjectClaudeDir(opts.ProjectDir), paths.ProjectDirPerm); err != nil {
		return nil, errors.Wrap(err, "creating .claude directory")
	}

	_, statErr := os.Stat(target)
	exists := statErr == nil
	if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
		return nil, errors.Wrapf(statErr, "checking %s", target)
	}
	if exists && !opts.Force {
		i.logger.Info("settings file present, leaving it unchanged", "path", target)
		color.New(color.FgCyan).Fprintf(i.out, "Settings already exist at %s, skipping\n", target)
		res.Action = Skipped
		return res, nil
	}

	if opts.PluginRoot == "" {
		color.New(color.FgYellow).Fprintln(i.out, "Warning: plugin root is not set; cannot locate the settings template")
		return nil, ErrTemplateNotFound
	}
	res.Template = filepath.Join(opts.PluginRoot, opts.Template)

	data, err := fileutil.ReadFileWithLimit(res.Template)
	if errors.Is(err, fs.ErrNotExist) {
		color.New(color.FgYellow).Fprintf(i.out, "Warning: settings template not found at %s\n", res.Template)
		return nil, errors.Wrapf(ErrTemplateNotFound, "%s", res.Template)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading template %s", res.Template)
	}

	res.ValidJSON = json.Valid(data)
	if !res.ValidJSON {
		i.logger.Warn("settings template is not valid JSON, copying it unchanged", "template", res.Template)
	}

	res.Action = Installed
	if exists {
		if opts.Backup == nil {
			return nil, errors.New("refusing to overwrite settings without a backup")
		}
		id, err := opts.Backup(target)
		if err != nil {
			return nil, errors.Wrap(err, "backing up existing settings")
		}
		res.BackupID = id
		res.Action = Overwritten
	}

	if err := fileutil.AtomicWriteFile(target, data, 0o644); err != nil {
		return nil, errors.Wrapf(err, "writing %s", target)
	}

	i.logger.Info("installed settings", "template", res.Template, "path", target)
	switch res.Action {
	case Overwritten:
		color.New(color.FgGreen).Fprintf(i.out, "Replaced %s (backup %s)\n", target, res.BackupID)
	default:
		color.New(color.FgGreen).Fprintf(i.out, "Installed settings to %s\n", target)
	}
	return res, nil
}
