// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
}

// Config holds the daemon configuration.
//
// Values come from an optional YAML file (-config) and can be
// overridden by command-line flags.
type Config struct {
	// Port is the HTTP listen port.
	Port int `yaml:"port" validate:"required,min=1,max=65535"`

	// GraphFile is the DOT graph to serve. Required.
	GraphFile string `yaml:"graph_file" validate:"required"`

	// Watch enables reloading the graph when the file changes.
	Watch bool `yaml:"watch"`

	// Debug enables Gin debug mode and request logging.
	Debug bool `yaml:"debug"`

	// LogDir enables file logging when set.
	LogDir string `yaml:"log_dir"`

	// Telemetry configuration.
	TraceExporter  string `yaml:"trace_exporter" validate:"omitempty,oneof=otlp jaeger stdout none"`
	MetricExporter string `yaml:"metric_exporter" validate:"omitempty,oneof=prometheus stdout none"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
}

// DefaultDaemonConfig returns the baseline configuration before file
// and flag overrides.
func DefaultDaemonConfig() Config {
	return Config{
		Port: 8080,
	}
}

// LoadConfig reads a YAML config file into the given base config.
//
// Description:
//
//	Unmarshals the file over the base values, so keys absent from the
//	file keep their defaults. An empty path returns the base config
//	unchanged.
//
// Inputs:
//   - path: the YAML file path, or "" for no file.
//   - base: configuration to overlay onto.
//
// Outputs:
//   - Config: the merged configuration (not yet validated).
//   - error: read or parse failure.
func LoadConfig(path string, base Config) (Config, error) {
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &base); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}
	return base, nil
}

// Validate checks the configuration against its constraints.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
