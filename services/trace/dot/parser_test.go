// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parse is a test helper that parses a literal graph description.
func parse(t *testing.T, text string) *Graph {
	t.Helper()
	g, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	return g
}

func TestParse_EdgeLines(t *testing.T) {
	g := parse(t, `
digraph CallGraph {
    "main" -> "handler";
    "main" -> "setup";
    "handler" -> "db_query";
}
`)

	assert.Equal(t, []string{"handler", "setup"}, g.Successors("main"))
	assert.Equal(t, []string{"db_query"}, g.Successors("handler"))
	assert.Nil(t, g.Successors("db_query"))
	assert.Equal(t, 3, g.EdgeCount())
}

func TestParse_UnquotedEdges(t *testing.T) {
	g := parse(t, "a -> b\nb->c;\n")

	assert.Equal(t, []string{"b"}, g.Successors("a"))
	assert.Equal(t, []string{"c"}, g.Successors("b"))
}

func TestParse_DuplicateEdgesPreserved(t *testing.T) {
	g := parse(t, `
"a" -> "b";
"a" -> "b";
"a" -> "c";
`)

	// Duplicates are appended, never deduplicated.
	assert.Equal(t, []string{"b", "b", "c"}, g.Successors("a"))
	assert.Equal(t, 3, g.EdgeCount())
}

func TestParse_LabelLines(t *testing.T) {
	g := parse(t, `
"handler" [label="pkg/http/handler.go:42"]
"db_query" [label='query']
plain [label=bare]
`)

	assert.Equal(t, "pkg/http/handler.go:42", g.Label("handler"))
	assert.Equal(t, "query", g.Label("db_query"))
	assert.Equal(t, "bare", g.Label("plain"))
}

func TestParse_LabelOverwrite(t *testing.T) {
	g := parse(t, `
"n" [label="first"]
"n" [label="second"]
`)

	assert.Equal(t, "second", g.Label("n"))
}

func TestParse_MissingLabelIsEmpty(t *testing.T) {
	g := parse(t, `"a" -> "b";`)

	assert.Equal(t, "", g.Label("a"))
	assert.Equal(t, "", g.Label("never-seen"))
}

func TestParse_IgnoredLines(t *testing.T) {
	g := parse(t, `
digraph G {
    rankdir=LR;
    node [shape=box];
}
random garbage here
`)

	// "node [shape=box];" has a bracket but no label marker; the rest
	// match neither shape. Nothing should be recorded.
	assert.Equal(t, 0, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
}

func TestParse_LabelMarkerSplitBySpaceIsIgnored(t *testing.T) {
	// "[" and "label=" both present, but not as the contiguous marker.
	// The reference behavior is a no-op, not a crash.
	g := parse(t, `"a" [ label="x" ]`)

	assert.False(t, g.HasNode("a"))
}

func TestParse_MalformedEdgeDegradesToEmptyTokens(t *testing.T) {
	g := parse(t, `-> "b";`)

	// An empty-string node is acceptable, not an error.
	assert.Equal(t, []string{"b"}, g.Successors(""))
	assert.True(t, g.HasNode(""))
	assert.True(t, g.HasNode("b"))
}

func TestParse_EdgeWinsOverLabel(t *testing.T) {
	// A line with both markers is an edge line.
	g := parse(t, `"a" -> "b [label=c]";`)

	assert.Equal(t, []string{"b [label=c]"}, g.Successors("a"))
	assert.Equal(t, "", g.Label("b [label=c]"))
}

func TestParse_NodeOrderIsFirstAppearance(t *testing.T) {
	g := parse(t, `
"b" -> "a";
"c" [label="three"]
"a" -> "c";
`)

	assert.Equal(t, []string{"b", "a", "c"}, g.Nodes())
	assert.Equal(t, 3, g.NodeCount())
}

func TestParse_LabelWithoutClosingBracket(t *testing.T) {
	g := parse(t, `"n" [label="open`)

	assert.Equal(t, "open", g.Label("n"))
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.dot")
	require.NoError(t, os.WriteFile(path, []byte(`"x" -> "y";`), 0o644))

	g, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, g.Successors("x"))
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "absent.dot"))
	assert.Error(t, err)
}
