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
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handlers contains the HTTP handlers for the trace service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleHealth handles GET /v1/trace/health.
//
// Description:
//
//	Reports service liveness plus the shape of the loaded graph.
//	Returns 200 with status "ok" once a graph is loaded, and 503
//	with status "no_graph" before the first successful load.
//
// Response:
//
//	200 OK: HealthResponse
//	503 Service Unavailable: HealthResponse (no graph loaded)
func (h *Handlers) HandleHealth(c *gin.Context) {
	stats := h.svc.Stats()
	resp := HealthResponse{
		Status:    "ok",
		Version:   ServiceVersion,
		GraphFile: stats.GraphFile,
		Nodes:     stats.Nodes,
		Edges:     stats.Edges,
	}
	if stats.GraphFile == "" {
		resp.Status = "no_graph"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleGraph handles GET /v1/trace/graph.
//
// Description:
//
//	Returns the full loaded graph as nodes and edges. Node labels
//	fall back to the node ID; every edge carries the fixed "call"
//	label.
//
// Response:
//
//	200 OK: GraphResponse
//	503 Service Unavailable: No graph loaded yet
func (h *Handlers) HandleGraph(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleGraph")

	resp, err := h.svc.Graph()
	if err != nil {
		logger.Warn("Graph unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: err.Error(),
			Code:  "GRAPH_NOT_LOADED",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandlePaths handles POST /v1/trace/paths.
//
// Description:
//
//	Enumerates all maximal simple call traces from the requested
//	start node. An unknown start node is not an error: it yields a
//	single one-node path, matching CLI behavior.
//
// Request Body:
//
//	PathsRequest
//
// Response:
//
//	200 OK: PathsResponse
//	400 Bad Request: Validation error
//	503 Service Unavailable: No graph loaded yet
func (h *Handlers) HandlePaths(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandlePaths")

	var req PathsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.Trace(req.Start)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "TRACE_FAILED"

		if errors.Is(err, ErrGraphNotLoaded) {
			statusCode = http.StatusServiceUnavailable
			errCode = "GRAPH_NOT_LOADED"
		} else if errors.Is(err, ErrEmptyStart) {
			statusCode = http.StatusBadRequest
			errCode = "INVALID_START"
		}

		logger.Error("Trace failed", "error", err, "start", req.Start)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Trace completed",
		"start", req.Start,
		"path_count", resp.PathCount)

	c.JSON(http.StatusOK, resp)
}

// getOrCreateRequestID returns the X-Request-ID header, generating a
// fresh UUID when the client sent none. The ID is echoed back on the
// response either way.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
