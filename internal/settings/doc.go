// Package settings installs a plugin's permission template into a project.
//
// A plugin ships templates/settings.json; on session start the host runs
// `aikit settings install`, which copies it to <project>/.claude/settings.json
// unless that file already exists. An existing file is never modified
// without Force, so running the installer any number of times leaves a
// user-edited file alone.
package settings
