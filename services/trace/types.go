// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package trace exposes the call-trace engine over HTTP.
//
// The package wraps the dot parser and the path enumerator behind a
// Service that holds the current graph, and provides Gin handlers for
// querying it. The graph can be hot-swapped when the underlying DOT
// file changes (see GraphWatcher).
package trace

import (
	"github.com/AleutianAI/tracecraft/services/trace/paths"
)

// ServiceVersion is the trace service version.
const ServiceVersion = "0.1.0"

// NodeDTO is a single graph node in API responses.
//
// Label falls back to the node ID when the DOT file declared none,
// so clients never see an empty label.
type NodeDTO struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// EdgeDTO is a single directed edge in API responses.
type EdgeDTO struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// edgeLabel is the fixed label on every exported edge. The graph
// model has exactly one edge kind.
const edgeLabel = "call"

// GraphResponse is the response for GET /v1/trace/graph.
type GraphResponse struct {
	Nodes []NodeDTO `json:"nodes"`
	Edges []EdgeDTO `json:"edges"`
}

// PathsRequest is the request body for POST /v1/trace/paths.
type PathsRequest struct {
	// Start is the node to enumerate traces from.
	Start string `json:"start" binding:"required"`
}

// PathDTO is one maximal trace in a PathsResponse.
type PathDTO struct {
	Nodes []NodeDTO `json:"nodes"`
}

// PathsResponse is the response for POST /v1/trace/paths.
type PathsResponse struct {
	Start     string    `json:"start"`
	PathCount int       `json:"path_count"`
	Paths     []PathDTO `json:"paths"`
}

// HealthResponse is the response for GET /v1/trace/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GraphFile string `json:"graph_file,omitempty"`
	Nodes     int    `json:"nodes"`
	Edges     int    `json:"edges"`
}

// ErrorResponse is the standard error body for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Stats summarizes the currently loaded graph.
type Stats struct {
	GraphFile string
	Nodes     int
	Edges     int
}

// pathDTO converts an enumerated path to its API shape, resolving
// labels through the given lookup.
func pathDTO(p paths.Path, label func(string) string) PathDTO {
	nodes := make([]NodeDTO, len(p))
	for i, id := range p {
		nodes[i] = NodeDTO{ID: id, Label: label(id)}
	}
	return PathDTO{Nodes: nodes}
}
