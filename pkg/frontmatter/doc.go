// Package frontmatter splits YAML frontmatter from Markdown documents.
//
// Agents, commands and skills in a plugin are Markdown files whose metadata
// sits between two "---" lines at the top of the file:
//
//	---
//	name: code-reviewer
//	description: Reviews Go changes for correctness
//	---
//	You are a meticulous reviewer...
//
// [Parse] accepts files without frontmatter (commands, agents) and returns
// the whole content as the body. [ParseRequired] returns [ErrMissing] when no
// frontmatter is present (skills). [ParseHeader] stops reading after the
// closing delimiter, which keeps marketplace scans cheap.
//
// LF and CRLF line endings are both accepted.
package frontmatter
