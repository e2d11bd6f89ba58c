package doctor

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/keboola/ai-kit/internal/bump"
	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/jsonv"
	"github.com/keboola/ai-kit/internal/marketplace"
	"github.com/keboola/ai-kit/internal/settings"
	"github.com/keboola/ai-kit/internal/validator"
	"github.com/keboola/ai-kit/pkg/fileutil"
)

// skipped is returned by checks that need a loaded marketplace.
func skipped(c Check) *CheckResult {
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityInfo,
		Message:  "skipped: marketplace could not be loaded",
	}
}

// relPath returns path relative to root for display, or path itself.
func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

// ManifestCheck validates .claude-plugin/marketplace.json.
type ManifestCheck struct {
	root string
}

var _ Check = (*ManifestCheck)(nil)

// NewManifestCheck creates a check for the marketplace at root.
func NewManifestCheck(root string) *ManifestCheck {
	return &ManifestCheck{root: root}
}

func (c *ManifestCheck) Name() string     { return "marketplace-manifest" }
func (c *ManifestCheck) Category() string { return "marketplace" }

// Run parses the manifest and checks every plugin entry has a unique name
// and a source that resolves to a directory.
func (c *ManifestCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category(), Status: SeverityPass}

	m, err := marketplace.LoadManifest(c.root)
	if err != nil {
		result.Status = SeverityError
		result.Message = "cannot read marketplace manifest"
		result.Details = map[string]any{"error": err.Error()}
		result.FixHint = "check " + relPath(c.root, marketplace.ManifestPath(c.root)) + " is valid JSON"
		return result
	}

	var problems []string
	seen := make(map[string]bool, len(m.Plugins))
	for i, e := range m.Plugins {
		label := fmt.Sprintf("plugins[%d]", i)
		if e.Name == "" {
			problems = append(problems, label+": missing name")
		} else {
			label = e.Name
			if seen[e.Name] {
				problems = append(problems, label+": duplicate plugin name")
			}
			seen[e.Name] = true
		}

		switch {
		case e.Source.String() == "":
			problems = append(problems, label+": missing source")
		case e.Source.Local():
			dir := filepath.Join(c.root, filepath.FromSlash(e.Source.Path))
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				problems = append(problems, label+": source "+e.Source.Path+" is not a directory")
			}
		}
	}

	result.Details = map[string]any{"plugins": len(m.Plugins)}
	if len(problems) > 0 {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%d problem(s) in marketplace manifest", len(problems))
		result.Details["problems"] = problems
		result.FixHint = "every plugin entry needs a unique name and a source directory"
		return result
	}
	if len(m.Plugins) == 0 {
		result.Status = SeverityWarning
		result.Message = "marketplace lists no plugins"
		return result
	}
	result.Message = fmt.Sprintf("%d plugin(s) listed", len(m.Plugins))
	return result
}

// fromValidation folds validator issues into a check result.
func fromValidation(result *CheckResult, v *validator.Result, checked int, noun string) *CheckResult {
	errs, warns := v.Errors(), v.Warnings()
	result.Details = map[string]any{"checked": checked}

	if len(errs)+len(warns) > 0 {
		issues := make([]string, 0, len(errs)+len(warns))
		for _, i := range errs {
			issues = append(issues, i.Error())
		}
		for _, i := range warns {
			issues = append(issues, i.Error())
		}
		result.Details["issues"] = issues
	}

	switch {
	case len(errs) > 0:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%d error(s), %d warning(s) across %d %s", len(errs), len(warns), checked, noun)
		result.FixHint = "run 'aikit plugin validate' for details"
	case len(warns) > 0:
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%d warning(s) across %d %s", len(warns), checked, noun)
		result.FixHint = "run 'aikit plugin validate' for details"
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("%d %s valid", checked, noun)
	}
	return result
}

// PluginManifestCheck validates each plugin's plugin.json.
type PluginManifestCheck struct {
	mp *marketplace.Marketplace
}

var _ Check = (*PluginManifestCheck)(nil)

// NewPluginManifestCheck creates the check; mp may be nil.
func NewPluginManifestCheck(mp *marketplace.Marketplace) *PluginManifestCheck {
	return &PluginManifestCheck{mp: mp}
}

func (c *PluginManifestCheck) Name() string     { return "plugin-manifests" }
func (c *PluginManifestCheck) Category() string { return "plugins" }

func (c *PluginManifestCheck) Run() *CheckResult {
	if c.mp == nil {
		return skipped(c)
	}
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	return fromValidation(result, PluginManifests(c.mp), localPlugins(c.mp), "plugin manifest(s)")
}

// PluginManifests validates the manifest of every local plugin in mp.
func PluginManifests(mp *marketplace.Marketplace) *validator.Result {
	all := &validator.Result{}
	for _, p := range mp.Plugins {
		if p.Dir == "" {
			continue
		}
		rel := relPath(mp.Root, marketplace.PluginManifestPath(p.Dir))
		if p.Manifest == nil && p.LoadErr != nil && !errors.Is(p.LoadErr, os.ErrNotExist) {
			r := validator.ForPath(rel)
			r.AddError("", "cannot parse plugin.json", p.LoadErr.Error())
			all.Merge(r)
			continue
		}
		all.Merge(validator.PluginManifest(rel, p.Entry, p.Manifest))
	}
	return all
}

func localPlugins(mp *marketplace.Marketplace) int {
	n := 0
	for _, p := range mp.Plugins {
		if p.Dir != "" {
			n++
		}
	}
	return n
}

// ComponentCheck validates agent, command and skill frontmatter.
type ComponentCheck struct {
	mp *marketplace.Marketplace
}

var _ Check = (*ComponentCheck)(nil)

// NewComponentCheck creates the check; mp may be nil.
func NewComponentCheck(mp *marketplace.Marketplace) *ComponentCheck {
	return &ComponentCheck{mp: mp}
}

func (c *ComponentCheck) Name() string     { return "components" }
func (c *ComponentCheck) Category() string { return "plugins" }

func (c *ComponentCheck) Run() *CheckResult {
	if c.mp == nil {
		return skipped(c)
	}
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	components := c.mp.Components()
	all := &validator.Result{}
	for _, comp := range components {
		all.Merge(validator.Component(comp))
	}
	return fromValidation(result, all, len(components), "component(s)")
}

// SettingsTemplateCheck validates templates/settings.json in each plugin.
type SettingsTemplateCheck struct {
	mp *marketplace.Marketplace
}

var _ Check = (*SettingsTemplateCheck)(nil)

// NewSettingsTemplateCheck creates the check; mp may be nil.
func NewSettingsTemplateCheck(mp *marketplace.Marketplace) *SettingsTemplateCheck {
	return &SettingsTemplateCheck{mp: mp}
}

func (c *SettingsTemplateCheck) Name() string     { return "settings-templates" }
func (c *SettingsTemplateCheck) Category() string { return "settings" }

func (c *SettingsTemplateCheck) Run() *CheckResult {
	if c.mp == nil {
		return skipped(c)
	}
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	all := &validator.Result{}
	checked := 0
	for _, p := range c.mp.Plugins {
		if p.Dir == "" {
			continue
		}
		path := filepath.Join(p.Dir, marketplace.TemplatesDir, marketplace.SettingsTemplate)
		data, err := fileutil.ReadFileWithLimit(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		checked++

		r := validator.ForPath(relPath(c.mp.Root, path))
		validateTemplate(r, data, err)
		all.Merge(r)
	}

	if checked == 0 {
		result.Status = SeverityInfo
		result.Message = "no settings templates found"
		return result
	}
	return fromValidation(result, all, checked, "settings template(s)")
}

func validateTemplate(r *validator.Result, data []byte, readErr error) {
	if readErr != nil {
		r.AddError("", "cannot read template", readErr.Error())
		return
	}
	doc, err := settings.ParseDocument(data)
	if err != nil {
		r.AddError("", err.Error(), nil)
		return
	}
	for _, pattern := range doc.Effective().Conflicts() {
		r.AddWarning("permissions", "pattern is both allowed and denied", pattern)
	}
}

// VersionCheck reports when version fields across the repository disagree.
// The text bump strategy only rewrites the first match in a file, so drift
// shows up here.
type VersionCheck struct {
	root     string
	excludes []string
}

var _ Check = (*VersionCheck)(nil)

// NewVersionCheck scans the JSON files under root not matched by excludes.
func NewVersionCheck(root string, excludes []string) *VersionCheck {
	return &VersionCheck{root: root, excludes: excludes}
}

func (c *VersionCheck) Name() string     { return "version-consistency" }
func (c *VersionCheck) Category() string { return "versions" }

func (c *VersionCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category(), Status: SeverityPass}

	files, err := bump.Discover(c.root, c.excludes)
	if err != nil {
		result.Status = SeverityError
		result.Message = "cannot list JSON files"
		result.Details = map[string]any{"error": err.Error()}
		return result
	}

	versions := map[string][]string{}
	var unparsed []string
	for _, f := range files {
		rel := relPath(c.root, f)
		data, err := fileutil.ReadFileWithLimit(f)
		if err != nil {
			unparsed = append(unparsed, rel)
			continue
		}
		root, err := jsonv.Parse(data)
		if err != nil {
			unparsed = append(unparsed, rel)
			continue
		}
		for _, m := range jsonv.MembersNamed(root, "version") {
			if m.Value.Kind != jsonv.String {
				continue
			}
			if !slices.Contains(versions[m.Value.Str], rel) {
				versions[m.Value.Str] = append(versions[m.Value.Str], rel)
			}
		}
	}

	result.Details = map[string]any{"files": len(files), "versions": versions}
	if len(unparsed) > 0 {
		result.Details["unparsed"] = unparsed
	}

	switch len(versions) {
	case 0:
		result.Status = SeverityInfo
		result.Message = "no version fields found"
	case 1:
		for v := range versions {
			result.Message = "all version fields are " + v
		}
	default:
		keys := slices.Sorted(maps.Keys(versions))
		parts := make([]string, 0, len(keys))
		for _, v := range keys {
			parts = append(parts, fmt.Sprintf("%s (%d file(s))", v, len(versions[v])))
		}
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%d distinct versions: %s", len(keys), strings.Join(parts, ", "))
		result.FixHint = "run 'aikit bump <version>' to align them"
	}
	if len(unparsed) > 0 && result.Status == SeverityPass {
		result.Raise(SeverityWarning)
		result.Message += fmt.Sprintf("; %d file(s) are not valid JSON", len(unparsed))
	}
	return result
}

// Standard returns the checks `aikit doctor` runs. mp may be nil when the
// marketplace could not be loaded; the manifest check reports why.
func Standard(root string, mp *marketplace.Marketplace, excludes []string) []Check {
	return []Check{
		NewManifestCheck(root),
		NewPluginManifestCheck(mp),
		NewComponentCheck(mp),
		NewSettingsTemplateCheck(mp),
		NewVersionCheck(root, excludes),
	}
}
