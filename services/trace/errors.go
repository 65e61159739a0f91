// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package trace

import (
	"errors"
	"fmt"
)

// Sentinel errors for the trace service.
var (
	// ErrGraphNotLoaded is returned when a query arrives before any
	// graph has been loaded successfully.
	ErrGraphNotLoaded = errors.New("graph not loaded")

	// ErrEmptyStart is returned when a paths request names no start node.
	ErrEmptyStart = errors.New("start node must not be empty")
)

// LoadError wraps a graph load failure with the file that caused it.
type LoadError struct {
	File string
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load graph from %s: %v", e.File, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *LoadError) Unwrap() error {
	return e.Err
}
