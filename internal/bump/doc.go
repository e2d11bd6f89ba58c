// Package bump propagates a release version to every "version" field in the
// JSON files of a repository.
//
// The transformation itself is [Apply], a pure function over in-memory
// documents. [Bumper] adds discovery, backups and writing on top of it.
//
// Three strategies exist. Structured edits every version member at any depth
// by splicing its byte span, so the rest of the file is untouched. Text
// replaces the first "version": "..." occurrence only; a file with two
// version fields keeps one stale value under it. Auto uses structured and
// falls back to text for files that are not valid JSON. Every outcome
// records the strategy that produced it.
package bump
