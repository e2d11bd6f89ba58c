// Package jsonv builds a typed tree of a JSON document that remembers where
// every value sits in the source bytes.
//
// The tree is read with gjson and then used two ways: walked with [Walk] to
// find values (every "version" key in a manifest), and edited with [Splice],
// which replaces selected byte spans and leaves every other byte of the
// original document alone. Formatting, key order and duplicate keys survive
// an edit because nothing is re-serialized.
//
// [Encode] renders a tree from scratch for output that has no source.
package jsonv
