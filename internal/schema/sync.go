package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/pkg/fileutil"
)

// ErrNoJSONOutput is returned when a sync action prints nothing parseable.
var ErrNoJSONOutput = errors.New("sync action printed no JSON")

// maxStderr bounds the stderr tail included in errors.
const maxStderr = 2000

// SyncRunner executes component sync actions.
type SyncRunner struct {
	// Python is the interpreter used to run src/component.py.
	Python string
	// Timeout bounds a single action; zero means no limit.
	Timeout time.Duration
}

// runConfig is the data/config.json a component reads on startup.
type runConfig struct {
	Parameters json.RawMessage `json:"parameters"`
	Action     string          `json:"action,omitempty"`
}

// Run writes data/config.json with params and action, runs the component
// with KBC_DATADIR pointing at data/, and returns the JSON it printed.
func (r *SyncRunner) Run(ctx context.Context, root, action string, params json.RawMessage) (json.RawMessage, error) {
	src := filepath.Join(root, SrcDirName)
	if !isDir(src) {
		return nil, errors.Newf("src/ directory not found in %s", root)
	}
	script := filepath.Join(src, ComponentScript)
	if !exists(script) {
		return nil, errors.Newf("%s not found in %s", ComponentScript, src)
	}

	dataDir := filepath.Join(root, DataDirName)
	if err := writeRunConfig(dataDir, params, action); err != nil {
		return nil, err
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Python, script)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "KBC_DATADIR="+dataDir)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrapf(ctx.Err(), "sync action %s", action)
		}
		return nil, errors.Wrapf(err, "sync action %s failed: %s", action, tail(stderr.String(), maxStderr))
	}

	out, ok := extractJSON(stdout.Bytes())
	if !ok {
		return nil, errors.Wrapf(ErrNoJSONOutput, "action %s", action)
	}
	return out, nil
}

func writeRunConfig(dataDir string, params json.RawMessage, action string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dataDir)
	}
	if len(bytes.TrimSpace(params)) == 0 {
		params = json.RawMessage("{}")
	}
	path := filepath.Join(dataDir, ConfigFileName)
	return errors.Wrapf(fileutil.AtomicWriteJSON(path, runConfig{Parameters: params, Action: action}), "writing %s", path)
}

// extractJSON returns stdout when it is a JSON document, else the last
// line that is one. Components often log before printing their result.
func extractJSON(stdout []byte) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(stdout)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		return trimmed, true
	}
	lines := bytes.Split(trimmed, []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace(lines[i])
		if len(line) > 0 && json.Valid(line) {
			return line, true
		}
	}
	return nil, false
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
