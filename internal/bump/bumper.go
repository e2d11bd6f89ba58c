package bump

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/logging"
	"github.com/keboola/ai-kit/pkg/fileutil"
)

// Options control a Run.
type Options struct {
	Strategy Strategy
	Exclude  []string
	// DryRun prints what would change without writing.
	DryRun bool
}

// Report summarizes a Run. Paths are relative to the root.
type Report struct {
	Version   string
	Updated   []Outcome
	Unchanged []string
	Skipped   []string
	Failed    []Outcome
}

// Bumper discovers, rewrites and reports JSON files.
type Bumper struct {
	out    io.Writer
	logger *slog.Logger

	// BeforeWrite receives the absolute paths about to be rewritten. An
	// error aborts the run before any file is touched.
	BeforeWrite func(paths []string) error
}

// New returns a Bumper printing progress to out.
func New(out io.Writer, logger *slog.Logger) *Bumper {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Bumper{out: out, logger: logger}
}

// Run sets version in every JSON file under root. Files are written one by
// one; an interrupted run leaves earlier files updated. The returned error
// is non-nil when any file failed, and the Report is always populated.
func (b *Bumper) Run(ctx context.Context, root, version string, opts Options) (*Report, error) {
	files, err := Discover(root, opts.Exclude)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("discovered json files", "root", root, "count", len(files))

	report := &Report{Version: version}

	docs := make([]Document, 0, len(files))
	for _, path := range files {
		content, err := fileutil.ReadFileWithLimit(path)
		if err != nil {
			report.Failed = append(report.Failed, Outcome{Path: b.rel(root, path), Status: Failed, Err: err})
			continue
		}
		docs = append(docs, Document{Path: path, Content: content})
	}

	outcomes := Apply(docs, version, opts.Strategy)

	var changed []string
	for _, o := range outcomes {
		if o.Status == Updated {
			changed = append(changed, o.Path)
		}
	}
	if len(changed) > 0 && !opts.DryRun && b.BeforeWrite != nil {
		if err := b.BeforeWrite(changed); err != nil {
			return nil, errors.Wrap(err, "preparing files for update")
		}
	}

	for _, o := range outcomes {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		abs := o.Path
		o.Path = b.rel(root, abs)

		switch o.Status {
		case NoVersion:
			b.logger.Log(ctx, logging.LevelTrace, "no version field", "file", o.Path, "strategy", o.Strategy)
			report.Skipped = append(report.Skipped, o.Path)
			continue
		case Unchanged:
			report.Unchanged = append(report.Unchanged, o.Path)
			continue
		case Failed:
			b.logger.Warn("cannot update file", "file", o.Path, "error", o.Err)
			report.Failed = append(report.Failed, o)
			continue
		}

		if o.Strategy == Text && opts.Strategy != Text {
			b.logger.Warn("file is not valid JSON, replaced first version field only", "file", o.Path)
		}
		fmt.Fprintf(b.out, "Updating %s (%s)\n", o.Path, o.Strategy)

		if !opts.DryRun {
			if err := fileutil.RewriteFile(abs, o.Content); err != nil {
				o.Status, o.Err = Failed, err
				report.Failed = append(report.Failed, o)
				continue
			}
		}
		report.Updated = append(report.Updated, o)
	}

	b.printSummary(report, opts.DryRun)

	if n := len(report.Failed); n > 0 {
		return report, errors.Newf("%d file(s) could not be updated", n)
	}
	return report, nil
}

func (b *Bumper) rel(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

func (b *Bumper) printSummary(r *Report, dryRun bool) {
	verb := "Updated"
	if dryRun {
		verb = "Would update"
	}

	fmt.Fprintln(b.out)
	if len(r.Updated) == 0 {
		fmt.Fprintf(b.out, "No files needed a change for version %s.\n", r.Version)
	} else {
		fmt.Fprintf(b.out, "%s %d file(s) to version %s:\n", verb, len(r.Updated), r.Version)
		for _, o := range r.Updated {
			fmt.Fprintf(b.out, "  %s\n", o.Path)
		}
	}
	if n := len(r.Unchanged); n > 0 {
		fmt.Fprintf(b.out, "%d file(s) already at %s\n", n, r.Version)
	}
	if n := len(r.Skipped); n > 0 {
		fmt.Fprintf(b.out, "%d file(s) without a version field skipped\n", n)
	}
	for _, o := range r.Failed {
		fmt.Fprintf(b.out, "Failed: %s: %v\n", o.Path, o.Err)
	}
}
