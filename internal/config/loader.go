// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader builds an AppConfig from defaults, an optional YAML file and
// CHESS_A2A_* environment keys, in increasing order of precedence.
type Loader struct {
	path    string
	version string
	seen    map[string]struct{}
}

// NewLoader returns a loader for the YAML file at path. An empty path means
// environment-only configuration.
func NewLoader(path, version string) *Loader {
	return &Loader{path: path, version: version, seen: map[string]struct{}{}}
}

// Path returns the config file path, empty for env-only configuration.
func (l *Loader) Path() string { return l.path }

// EnvKeys lists, sorted, every environment key the last Load consulted.
func (l *Loader) EnvKeys() []string {
	return slices.Sorted(maps.Keys(l.seen))
}

// Load layers file and environment over Defaults and validates the result.
// The returned config is usable for diagnostics even when err is non-nil.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()
	clear(l.seen)

	if l.path != "" {
		fc, err := readFile(l.path)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := mergeFileConfig(&cfg, fc); err != nil {
			return cfg, fmt.Errorf("merge file config: %w", err)
		}
	}
	l.mergeEnvConfig(&cfg)

	cfg.Version = l.version
	if dir := cfg.Artifacts.Dir; dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			cfg.Artifacts.Dir = abs
		}
	}

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// env records key as consulted and resolves it with parse.
func env[T any](l *Loader, key string, current T, parse func(string, T) T) T {
	l.seen[key] = struct{}{}
	return parse(key, current)
}

func (l *Loader) envString(key, cur string) string { return env(l, key, cur, ParseString) }
func (l *Loader) envBool(key string, cur bool) bool  { return env(l, key, cur, ParseBool) }
func (l *Loader) envInt(key string, cur int) int     { return env(l, key, cur, ParseInt) }
func (l *Loader) envFloat(key string, cur float64) float64 {
	return env(l, key, cur, ParseFloat)
}
func (l *Loader) envDuration(key string, cur time.Duration) time.Duration {
	return env(l, key, cur, ParseDuration)
}
func (l *Loader) envList(key string, cur []string) []string {
	return env(l, key, cur, ParseStringList)
}

func readFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("%w: %q (only YAML supported)", ErrUnsupportedFormat, ext)
	}

	// #nosec G304 -- the operator chooses the config path
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return parseFile(data)
}

// parseFile decodes exactly one YAML document. Unknown keys are fatal so a
// typo cannot silently fall back to a default.
func parseFile(data []byte) (*FileConfig, error) {
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	switch err := dec.Decode(&fc); {
	case errors.Is(err, io.EOF):
		return &FileConfig{}, nil
	case err != nil && isUnknownField(err):
		return nil, fmt.Errorf("%w: %w", ErrUnknownConfigField, err)
	case err != nil:
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("config file contains multiple documents or trailing content")
	}
	return &fc, nil
}

// isUnknownField matches yaml.v3's "field X not found in type Y".
func isUnknownField(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "field ") && strings.Contains(msg, " not found in type")
}
