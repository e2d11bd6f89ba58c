// Package paths resolves the directories aikit reads and writes.
//
// Tool-owned state (config file, backups) lives under the XDG config home via
// github.com/adrg/xdg:
//
//	paths.AppConfigDir() // ~/.config/aikit
//	paths.BackupDir()    // ~/.config/aikit/backups
//
// Project-local assistant state lives in the project's .claude directory:
//
//	paths.ProjectClaudeDir(root)    // <root>/.claude
//	paths.ProjectSettingsPath(root) // <root>/.claude/settings.json
//
// Marketplace layout helpers (.claude-plugin manifests) are in
// internal/marketplace; this package only knows about the host-facing
// directories.
package paths
