// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// treetrace enumerates all call traces from a start node in a DOT graph.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/tracecraft/pkg/logging"
	"github.com/AleutianAI/tracecraft/pkg/ux"
	"github.com/AleutianAI/tracecraft/services/trace/dot"
	"github.com/AleutianAI/tracecraft/services/trace/paths"
	"github.com/AleutianAI/tracecraft/services/trace/report"
	"github.com/AleutianAI/tracecraft/services/trace/source"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	flagSourceRoot string
	flagNoColor    bool
	flagLogLevel   string
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

// rootCmd parses a DOT graph file and prints every maximal call trace
// from the given start node.
var rootCmd = &cobra.Command{
	Use:   "treetrace DOTFILE START_NODE",
	Short: "Enumerate call traces from a node in a DOT graph",
	Long: `Parse a DOT-style call graph and print every maximal simple path
from the given start node.

Each trace is printed as a numbered block of "node [label]" lines.
Nodes without a declared label show empty brackets. Cycles are
suppressed: a trace never visits the same node twice.

With --source-root, labels of the form "file:line" gain an indented
source snippet line below them.

Examples:
  treetrace callgraph.dot main
  treetrace callgraph.dot "pkg.Handler" --source-root ./src
  treetrace callgraph.dot main --no-color > traces.txt`,
	Args:          cobra.ExactArgs(2),
	RunE:          runTreetrace,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVar(&flagSourceRoot, "source-root", "", "Directory of source files for snippet annotation")
	rootCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "warn", "Minimum log level (debug, info, warn, error)")
}

func runTreetrace(cmd *cobra.Command, args []string) error {
	dotFile, startNode := args[0], args[1]

	level, err := logging.ParseLevel(flagLogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(logging.Config{
		Level:   level,
		Service: "treetrace",
	})
	defer logger.Close()

	g, err := dot.ParseFile(dotFile)
	if err != nil {
		logger.Error("Failed to parse graph", "file", dotFile, "error", err)
		return fmt.Errorf("parse %s: %w", dotFile, err)
	}
	logger.Info("Graph parsed",
		"file", dotFile,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount())

	traces := paths.Enumerate(g, startNode)
	logger.Info("Traces enumerated", "start", startNode, "paths", len(traces))

	writer := report.NewWriter(cmd.OutOrStdout()).
		WithColor(!flagNoColor && ux.StdoutIsTerminal())

	if flagSourceRoot != "" {
		mgr, err := source.Load(flagSourceRoot)
		if err != nil {
			logger.Error("Failed to load source root", "root", flagSourceRoot, "error", err)
			return fmt.Errorf("load source root %s: %w", flagSourceRoot, err)
		}
		logger.Info("Source files loaded", "root", flagSourceRoot, "files", mgr.FileCount())
		writer = writer.WithSnippets(mgr)
	}

	return writer.Render(g, startNode, traces)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ux.Styles.Error.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}
