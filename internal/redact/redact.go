// Package redact masks secrets before they reach logs or terminal output.
//
// Plugin manifests routinely carry MCP server credentials in env blocks and
// HTTP headers (Linear, Slack, Atlassian, Keboola tokens). Anything printed
// by aikit passes through these helpers first.
package redact

import (
	"net/url"
	"strings"
)

// SecretKeyPatterns are substrings that mark a key as sensitive.
// Keys are matched case-insensitively.
var SecretKeyPatterns = []string{
	"TOKEN",
	"KEY",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"PRIVATE",
}

// TokenPrefixes are well-known token prefixes that are masked regardless of
// the key they are stored under.
var TokenPrefixes = []string{
	"ghp_",     // GitHub personal access token
	"gho_",     // GitHub OAuth token
	"ghs_",     // GitHub server-to-server token
	"sk-",      // OpenAI/Anthropic keys
	"AKIA",     // AWS access key
	"xoxb-",    // Slack bot token
	"xoxp-",    // Slack user token
	"lin_api_", // Linear API key
	"ATATT",    // Atlassian API token
}

// Map returns a copy of m with sensitive values masked.
// Works for both env blocks and HTTP header maps.
func Map(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}

	masked := make(map[string]string, len(m))
	for k, v := range m {
		if ShouldMask(k) || ContainsTokenPrefix(v) {
			masked[k] = MaskValue(v)
		} else {
			masked[k] = v
		}
	}
	return masked
}

// MaskValue masks a string, keeping the last 4 characters of values longer
// than 4 characters ("****abcd"). Shorter values become "********".
func MaskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// URL masks the password component of a URL with embedded credentials.
// Unparseable URLs are returned unchanged.
func URL(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.User == nil {
		return rawURL
	}

	password, ok := parsed.User.Password()
	if !ok || password == "" {
		return rawURL
	}
	parsed.User = url.UserPassword(parsed.User.Username(), MaskValue(password))
	return parsed.String()
}

// ShouldMask reports whether a key name suggests sensitive content.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range SecretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// ContainsTokenPrefix reports whether value starts with a known token prefix.
func ContainsTokenPrefix(value string) bool {
	for _, prefix := range TokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}
