// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package report renders enumerated call traces as a human-readable
// listing.
//
// The plain (uncolored) output is a stable contract: a header line,
// then one numbered block per path with one indented node line each,
// and a blank line after every block. Styling only recolors that text;
// it never changes the characters written.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/AleutianAI/tracecraft/pkg/ux"
	"github.com/AleutianAI/tracecraft/services/trace/dot"
	"github.com/AleutianAI/tracecraft/services/trace/paths"
	"github.com/AleutianAI/tracecraft/services/trace/source"
)

// Writer renders trace reports to an io.Writer.
type Writer struct {
	out      io.Writer
	color    bool
	snippets *source.Manager
}

// NewWriter returns a Writer targeting out. Output is plain text
// unless styling is enabled with WithColor.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// WithColor enables or disables lipgloss styling and returns the
// Writer for chaining.
func (w *Writer) WithColor(enabled bool) *Writer {
	w.color = enabled
	return w
}

// WithSnippets attaches a source manager. When set, any node whose
// label parses as a file:line location gains an indented snippet line
// below it. A nil manager disables annotation.
func (w *Writer) WithSnippets(m *source.Manager) *Writer {
	w.snippets = m
	return w
}

// Render writes the full report for the given paths.
//
// Description:
//
//	Writes the report header naming the start node, then each path as
//	a numbered block. Every node line shows the node identifier
//	followed by its label in brackets; nodes without a declared label
//	show empty brackets. An empty path set still produces the header,
//	so a start node trapped in a cycle yields a report with no blocks.
//
// Inputs:
//   - g: the parsed graph, consulted for node labels.
//   - start: the requested start node, echoed in the header.
//   - traces: the enumerated maximal paths, printed in order.
//
// Outputs:
//   - error: the first write error, or nil.
func (w *Writer) Render(g *dot.Graph, start string, traces []paths.Path) error {
	header := fmt.Sprintf("=== All call traces from %s ===", start)
	if err := w.writeLine(header, ux.Styles.Title); err != nil {
		return err
	}
	for i, trace := range traces {
		if err := w.writeLine(fmt.Sprintf("Path %d:", i+1), ux.Styles.Bold); err != nil {
			return err
		}
		for _, node := range trace {
			label := g.Label(node)
			line := fmt.Sprintf("  %s [%s]", node, label)
			if err := w.writeLine(line, ux.Styles.Subtitle); err != nil {
				return err
			}
			if err := w.writeSnippet(label); err != nil {
				return err
			}
		}
		if err := w.writeLine("", ux.Styles.Subtitle); err != nil {
			return err
		}
	}
	return nil
}

// writeSnippet emits the annotation line for a label that resolves to
// a loaded source location. Labels that do not parse, or locations the
// manager cannot resolve, produce no output.
func (w *Writer) writeSnippet(label string) error {
	if w.snippets == nil {
		return nil
	}
	file, line, ok := source.SplitLocation(label)
	if !ok {
		return nil
	}
	snippet, ok := w.snippets.Snippet(file, line)
	if !ok {
		return nil
	}
	return w.writeLine(fmt.Sprintf("    > %s", snippet), ux.Styles.Muted)
}

func (w *Writer) writeLine(text string, style lipgloss.Style) error {
	if w.color && text != "" {
		text = style.Render(text)
	}
	_, err := fmt.Fprintln(w.out, text)
	return err
}
