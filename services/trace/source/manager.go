// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package source resolves "file:line" node labels to source snippets.
//
// When the analyzer records a node's location as its label, attaching a
// Manager to the report lets each trace step show the line of code it
// points at. Lookups are best effort: a miss is a miss, never an error.
package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// maxFileBytes skips files too large to be plausible source text.
const maxFileBytes = 4 << 20

// Manager holds the line contents of every source file under a root.
//
// A Manager is built once by Load and read-only afterwards.
type Manager struct {
	root string

	// files maps root-relative paths to their lines.
	files map[string][]string
}

// Load reads every regular file under root into memory.
//
// Files that cannot be read, and files larger than 4MB, are skipped
// silently; snippet lookup is an annotation aid, not a correctness
// requirement. Only a missing or unreadable root is an error.
func Load(root string) (*Manager, error) {
	m := &Manager{
		root:  root,
		files: make(map[string][]string),
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err != nil || info.Size() > maxFileBytes {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		m.files[filepath.ToSlash(rel)] = strings.Split(string(data), "\n")
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading source root %s: %w", root, err)
	}

	return m, nil
}

// FileCount returns the number of files held by the manager.
func (m *Manager) FileCount() int {
	return len(m.files)
}

// Snippet returns the trimmed content of the given 1-based line.
//
// The file path is tried as-is (relative to the load root), then by
// suffix match so labels recorded with a different path prefix still
// resolve. Unknown files, line 0, and out-of-range lines return false.
func (m *Manager) Snippet(file string, line int) (string, bool) {
	if line <= 0 {
		return "", false
	}

	lines, ok := m.files[filepath.ToSlash(file)]
	if !ok {
		lines, ok = m.bySuffix(file)
	}
	if !ok || line > len(lines) {
		return "", false
	}

	return strings.TrimSpace(lines[line-1]), true
}

// bySuffix finds the unique file whose path ends with file.
func (m *Manager) bySuffix(file string) ([]string, bool) {
	suffix := filepath.ToSlash(file)
	var found []string
	matches := 0
	for path, lines := range m.files {
		if strings.HasSuffix(path, suffix) {
			found = lines
			matches++
		}
	}
	if matches != 1 {
		return nil, false
	}
	return found, true
}

// SplitLocation parses a "file:line" label into its parts.
//
// Labels that are not in that shape (no colon, or a non-numeric line)
// report ok=false. The split is on the last colon so Windows drive
// letters and in-path colons survive.
func SplitLocation(label string) (file string, line int, ok bool) {
	idx := strings.LastIndex(label, ":")
	if idx < 0 {
		return "", 0, false
	}

	n, err := strconv.Atoi(label[idx+1:])
	if err != nil {
		return "", 0, false
	}

	return label[:idx], n, true
}
