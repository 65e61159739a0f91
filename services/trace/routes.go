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
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all trace routes with the router.
//
// Description:
//
//	Registers all /v1/trace/* endpoints with the given Gin router group.
//	The router group should already have any required middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	GET  /v1/trace/health - Health check and graph stats
//	GET  /v1/trace/graph - Full loaded graph (nodes and edges)
//	POST /v1/trace/paths - Enumerate call traces from a start node
//
// Example:
//
//	service := trace.NewService()
//	handlers := trace.NewHandlers(service)
//
//	v1 := router.Group("/v1")
//	trace.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	tr := rg.Group("/trace")
	{
		tr.GET("/health", handlers.HandleHealth)
		tr.GET("/graph", handlers.HandleGraph)
		tr.POST("/paths", handlers.HandlePaths)
	}
}
