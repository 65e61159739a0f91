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
	"log/slog"
	"sync"
	"time"

	"github.com/AleutianAI/tracecraft/services/trace/dot"
	"github.com/AleutianAI/tracecraft/services/trace/paths"
)

// Service holds the current call graph and answers trace queries.
//
// The graph is replaced atomically on reload. Readers take the read
// lock for the duration of a query, so a reload never observes a
// half-swapped graph.
type Service struct {
	mu        sync.RWMutex
	graph     *dot.Graph
	graphFile string
}

// NewService creates an empty Service. Queries fail with
// ErrGraphNotLoaded until LoadGraph succeeds once.
func NewService() *Service {
	return &Service{}
}

// LoadGraph parses the DOT file at path and swaps it in as the
// current graph.
//
// Description:
//
//	Parses the file fully before taking the write lock, so a parse
//	failure leaves the previously loaded graph untouched and in
//	service. Node and edge gauges are updated on success.
//
// Inputs:
//   - path: filesystem path to the DOT graph file.
//
// Outputs:
//   - error: a *LoadError wrapping the parse or read failure, or nil.
func (s *Service) LoadGraph(path string) error {
	g, err := dot.ParseFile(path)
	if err != nil {
		graphReloadsTotal.WithLabelValues(outcomeError).Inc()
		return &LoadError{File: path, Err: err}
	}

	s.mu.Lock()
	s.graph = g
	s.graphFile = path
	s.mu.Unlock()

	graphReloadsTotal.WithLabelValues(outcomeOK).Inc()
	graphNodes.Set(float64(g.NodeCount()))
	graphEdges.Set(float64(g.EdgeCount()))

	slog.Info("Graph loaded",
		"file", path,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount())
	return nil
}

// Graph returns the current graph as API DTOs.
//
// Returns ErrGraphNotLoaded if no graph has been loaded yet.
func (s *Service) Graph() (GraphResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.graph == nil {
		return GraphResponse{}, ErrGraphNotLoaded
	}

	ids := s.graph.Nodes()
	nodes := make([]NodeDTO, len(ids))
	for i, id := range ids {
		nodes[i] = NodeDTO{ID: id, Label: s.labelOrID(id)}
	}

	edges := make([]EdgeDTO, 0, s.graph.EdgeCount())
	for _, from := range ids {
		for _, to := range s.graph.Successors(from) {
			edges = append(edges, EdgeDTO{From: from, To: to, Label: edgeLabel})
		}
	}

	return GraphResponse{Nodes: nodes, Edges: edges}, nil
}

// Trace enumerates all maximal simple paths from start.
//
// Description:
//
//	Runs the path enumerator against the current graph snapshot. A
//	start node absent from the graph yields a single one-node path;
//	a start node trapped in a cycle yields zero paths. Both are
//	successful outcomes, not errors.
//
// Inputs:
//   - start: the node to enumerate from. Must be non-empty.
//
// Outputs:
//   - PathsResponse: the enumerated paths with resolved labels.
//   - error: ErrEmptyStart, ErrGraphNotLoaded, or nil.
func (s *Service) Trace(start string) (PathsResponse, error) {
	if start == "" {
		traceRequestsTotal.WithLabelValues(outcomeError).Inc()
		return PathsResponse{}, ErrEmptyStart
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.graph == nil {
		traceRequestsTotal.WithLabelValues(outcomeError).Inc()
		return PathsResponse{}, ErrGraphNotLoaded
	}

	began := time.Now()
	traces := paths.Enumerate(s.graph, start)
	traceDurationSeconds.Observe(time.Since(began).Seconds())
	tracePathsReturned.Observe(float64(len(traces)))
	traceRequestsTotal.WithLabelValues(outcomeOK).Inc()

	resp := PathsResponse{
		Start:     start,
		PathCount: len(traces),
		Paths:     make([]PathDTO, len(traces)),
	}
	for i, p := range traces {
		resp.Paths[i] = pathDTO(p, s.labelOrID)
	}
	return resp, nil
}

// Stats returns counts for the currently loaded graph. A zero Stats
// with empty GraphFile means nothing is loaded.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.graph == nil {
		return Stats{}
	}
	return Stats{
		GraphFile: s.graphFile,
		Nodes:     s.graph.NodeCount(),
		Edges:     s.graph.EdgeCount(),
	}
}

// labelOrID resolves a node's label, falling back to the ID itself.
// Callers must hold at least the read lock.
func (s *Service) labelOrID(id string) string {
	if label := s.graph.Label(id); label != "" {
		return label
	}
	return id
}
