package marketplace

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/logging"
	"github.com/keboola/ai-kit/pkg/frontmatter"
)

// Scanner finds the components of a plugin directory.
type Scanner struct {
	logger *slog.Logger
}

// NewScanner returns a Scanner logging to logger (nil discards).
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Scanner{logger: logger}
}

// ScanPlugin returns the agents, commands and skills under dir. Component
// paths are made relative to root. Missing component directories are not
// an error.
//
// Agents are agents/*.md, commands are commands/**/*.md (subdirectories
// become a "ns:" prefix), skills are skills/<name>/SKILL.md. Agents and
// commands without frontmatter are named after their file; skills without
// frontmatter are returned with ParseErr set.
func (s *Scanner) ScanPlugin(root, dir, plugin string) ([]Component, error) {
	var all []Component
	var errs []error

	for _, scan := range []func(string, string, string) ([]Component, error){
		s.scanAgents, s.scanCommands, s.scanSkills,
	} {
		cs, err := scan(root, dir, plugin)
		if err != nil {
			errs = append(errs, err)
		}
		all = append(all, cs...)
	}

	if len(errs) > 0 {
		return all, errors.Join(errs...)
	}
	return all, nil
}

func (s *Scanner) scanAgents(root, dir, plugin string) ([]Component, error) {
	agentsDir := filepath.Join(dir, AgentsDir)
	entries, err := readDir(agentsDir)
	if err != nil {
		return nil, err
	}

	var out []Component
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		c := s.component(root, filepath.Join(agentsDir, e.Name()), plugin, KindAgent, false)
		if c.Name == "" {
			c.Name = strings.TrimSuffix(e.Name(), ".md")
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Scanner) scanCommands(root, dir, plugin string) ([]Component, error) {
	commandsDir := filepath.Join(dir, CommandsDir)
	if _, err := os.Stat(commandsDir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var out []Component
	err := filepath.WalkDir(commandsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				s.logger.Warn("permission denied reading commands", "path", path)
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		c := s.component(root, path, plugin, KindCommand, false)
		rel, _ := filepath.Rel(commandsDir, path)
		// Commands are always named by path; frontmatter has no name field.
		c.Name = strings.ReplaceAll(filepath.ToSlash(strings.TrimSuffix(rel, ".md")), "/", ":")
		out = append(out, c)
		return nil
	})
	if err != nil {
		return out, errors.Wrapf(err, "scanning %s", commandsDir)
	}
	return out, nil
}

func (s *Scanner) scanSkills(root, dir, plugin string) ([]Component, error) {
	skillsDir := filepath.Join(dir, SkillsDir)
	entries, err := readDir(skillsDir)
	if err != nil {
		return nil, err
	}

	var out []Component
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(skillsDir, e.Name(), SkillFile)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		c := s.component(root, path, plugin, KindSkill, true)
		if c.Name == "" {
			c.Name = e.Name()
		}
		out = append(out, c)
	}
	return out, nil
}

// component reads the frontmatter of path. required marks kinds whose
// frontmatter must exist.
func (s *Scanner) component(root, path, plugin string, kind Kind, required bool) Component {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	c := Component{Plugin: plugin, Kind: kind, Path: filepath.ToSlash(rel)}

	meta, err := readMeta(path)
	switch {
	case err != nil:
		c.ParseErr = err
	case meta == nil && required:
		c.ParseErr = frontmatter.ErrMissing
	}
	if c.ParseErr != nil {
		s.logger.Warn("failed to read frontmatter", "path", c.Path, "error", c.ParseErr)
	}

	c.Meta = meta
	c.Name = stringField(meta, "name")
	c.Description = stringField(meta, "description")
	return c
}

func readMeta(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var meta map[string]any
	if err := frontmatter.ParseHeader(f, &meta); err != nil {
		return nil, err
	}
	return meta, nil
}

func stringField(meta map[string]any, key string) string {
	if v, ok := meta[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// readDir lists dir sorted by name; a missing directory yields nothing.
func readDir(dir string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", dir)
	}
	slices.SortFunc(entries, func(a, b fs.DirEntry) int { return strings.Compare(a.Name(), b.Name()) })
	return entries, nil
}
