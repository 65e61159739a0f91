// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package paths enumerates maximal simple call paths through a dot.Graph.
package paths

import (
	"github.com/AleutianAI/tracecraft/services/trace/dot"
)

// Path is an ordered sequence of node IDs. Each consecutive pair is an
// edge in the graph the path was enumerated from, and no node repeats.
type Path []string

// Contains reports whether node occurs anywhere in the path.
func (p Path) Contains(node string) bool {
	for _, id := range p {
		if id == node {
			return true
		}
	}
	return false
}

// Last returns the final node of the path. Panics on an empty path;
// Enumerate never produces one.
func (p Path) Last() string {
	return p[len(p)-1]
}

// Enumerate returns every maximal simple path in g starting at start.
//
// The traversal is a pre-order depth-first descent. A path is emitted
// exactly when the frontier node has zero recorded successors; a branch
// whose successors are all already on the current path is abandoned
// silently (cycles are suppressed, not reported). Successors are visited
// in the order they were recorded, so the result order is deterministic
// for a given input.
//
// A start node the graph has never seen is treated as having no
// successors and yields a single one-element path. The result is empty
// only when every descent from start runs into an already-visited node
// before reaching a childless one.
//
// The cost is proportional to the number of simple paths, which is
// exponential in the worst case. No depth or count cap is applied: a
// cap would silently truncate the caller's requested output.
func Enumerate(g *dot.Graph, start string) []Path {
	var results []Path

	var visit func(node string, prefix Path)
	visit = func(node string, prefix Path) {
		// Extend into a fresh slice so sibling branches never share
		// backing storage with this one.
		path := make(Path, len(prefix)+1)
		copy(path, prefix)
		path[len(prefix)] = node

		succs := g.Successors(node)
		if len(succs) == 0 {
			results = append(results, path)
			return
		}

		for _, next := range succs {
			if path.Contains(next) {
				continue
			}
			visit(next, path)
		}
	}

	visit(start, nil)
	return results
}
