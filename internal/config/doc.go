// Package config loads aikit's own settings with Viper.
//
// The file lives at ~/.config/aikit/config.yaml (or ./.aikit.yaml for a
// per-repository override) and every key can be set through an AIKIT_
// environment variable, with dots replaced by underscores:
//
//	settings:
//	  plugin_root_env: CLAUDE_PLUGIN_ROOT
//	  template: templates/settings.json
//	bump:
//	  strategy: auto        # auto | structured | text
//	  exclude: ["dist/**"]
//	backup:
//	  retention: 5
//	schema:
//	  port: 8000
//	  python: python3
//	  sync_timeout: 30s
//
// AIKIT_BUMP_STRATEGY=text overrides bump.strategy for a single run.
//
// Call [Init] once before [Load]. [Validate] reports every invalid field
// rather than stopping at the first.
package config
