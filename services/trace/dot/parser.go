// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dot builds an in-memory call graph from a DOT-style text
// description, as produced by the TraceCraft analyzer.
//
// The format is deliberately permissive and line-oriented. Each line is
// one of:
//
//   - an edge line:  "main" -> "handler";
//   - a label line:  "handler" [label="pkg/http/handler.go:42"]
//   - anything else: ignored
//
// Lines that almost match a recognized shape degrade to best-effort
// tokens rather than raising errors; an unparseable line is a no-op.
// The parser never rejects input.
package dot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// edgeMarker separates the source and target of a directed edge.
	edgeMarker = "->"

	// labelMarker introduces a node's display label.
	labelMarker = "[label="
)

// maxLineBytes is the scanner buffer limit for a single input line.
// Generated graphs occasionally carry very long label values.
const maxLineBytes = 1 << 20

// Graph is a directed call graph with optional node labels.
//
// A Graph is read-only once built: Parse performs a single pass over the
// input and no mutating methods are exported. Successor order is the
// order edges appeared in the source, and duplicate edges are preserved.
//
// Nodes that appear only as edge targets, or only in label declarations,
// are valid nodes without outgoing edges.
type Graph struct {
	// adjacency maps a node to its successors in insertion order.
	adjacency map[string][]string

	// labels maps a node to its display label. Absent means empty.
	labels map[string]string

	// order records every node in first-appearance order.
	order []string

	// known tracks membership for order.
	known map[string]bool

	// edgeCount is the total number of recorded edges, duplicates included.
	edgeCount int
}

// newGraph returns an empty graph ready for a build pass.
func newGraph() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		labels:    make(map[string]string),
		known:     make(map[string]bool),
	}
}

// Parse reads a graph description line by line from r.
//
// Parsing is single-pass and never fails on content: only a read error
// from the underlying source is returned. See the package documentation
// for the line contract.
func Parse(r io.Reader) (*Graph, error) {
	g := newGraph()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		g.addLine(strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading graph description: %w", err)
	}

	return g, nil
}

// ParseFile reads a graph description from the file at path.
func ParseFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening graph file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// addLine classifies one input line and records it.
//
// Edge lines win over label lines: a line containing the edge marker is
// always treated as an edge, whatever else it contains.
func (g *Graph) addLine(line string) {
	if strings.Contains(line, edgeMarker) {
		cleaned := strings.NewReplacer(";", "", `"`, "").Replace(line)
		parts := strings.SplitN(cleaned, edgeMarker, 2)
		from := strings.TrimSpace(parts[0])
		to := strings.TrimSpace(parts[1])
		g.addEdge(from, to)
		return
	}

	if strings.Contains(line, "[") && strings.Contains(line, "label=") {
		idx := strings.Index(line, labelMarker)
		if idx < 0 {
			// "[" and "label=" present but not as a contiguous marker.
			return
		}

		node := strings.TrimSpace(strings.ReplaceAll(line[:idx], `"`, ""))

		value := line[idx+len(labelMarker):]
		if end := strings.IndexByte(value, ']'); end >= 0 {
			value = value[:end]
		}
		label := strings.Trim(value, " \t\"'")

		g.setLabel(node, label)
	}
}

// addEdge appends to to from's successor list. Empty tokens are legal.
func (g *Graph) addEdge(from, to string) {
	g.note(from)
	g.note(to)
	g.adjacency[from] = append(g.adjacency[from], to)
	g.edgeCount++
}

// setLabel records node's label, overwriting any earlier declaration.
func (g *Graph) setLabel(node, label string) {
	g.note(node)
	g.labels[node] = label
}

// note records a node's first appearance for ordered enumeration.
func (g *Graph) note(id string) {
	if g.known[id] {
		return
	}
	g.known[id] = true
	g.order = append(g.order, id)
}

// Successors returns the recorded successors of node in insertion order.
//
// The returned slice is a copy; a node with no outgoing edges (or one the
// graph has never seen) yields nil.
func (g *Graph) Successors(node string) []string {
	succs := g.adjacency[node]
	if len(succs) == 0 {
		return nil
	}
	out := make([]string, len(succs))
	copy(out, succs)
	return out
}

// Label returns node's display label, or the empty string if none was
// declared. Lookup never fails.
func (g *Graph) Label(node string) string {
	return g.labels[node]
}

// HasNode reports whether node appeared anywhere in the source text.
func (g *Graph) HasNode(node string) bool {
	return g.known[node]
}

// Nodes returns every node in first-appearance order, including nodes
// that only ever appeared as edge targets or label declarations.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// NodeCount returns the number of distinct nodes.
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of recorded edges, duplicates included.
func (g *Graph) EdgeCount() int {
	return g.edgeCount
}
