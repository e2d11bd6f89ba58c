// Package backup keeps restorable copies of files before aikit rewrites them.
//
// Backups are grouped by scope, the command that made them ("settings" for
// a forced settings install, "bump" for version bumps). Each backup is a
// timestamped directory holding copies of the files and a manifest.json with
// their original paths, permissions and SHA256 hashes:
//
//	~/.config/aikit/backups/
//	└── bump/
//	    └── 20261019T101500/
//	        ├── manifest.json
//	        └── home/me/repo/plugins/dev/.claude-plugin/plugin.json
//
// [Manager.Backup] prunes the scope down to the retention count after every
// new backup. [Manager.Restore] verifies every hash before copying anything
// back.
package backup
