// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/chess-a2a/internal/log"
)

// EnvPrefix prefixes every environment key read by the loader.
const EnvPrefix = "CHESS_A2A_"

// The Parse helpers below return def when key is unset, empty or does not
// parse. A value that does not parse is logged and otherwise ignored.

func ParseString(key, def string) string {
	return lookup(key, def, func(v string) (string, error) { return v, nil })
}

func ParseInt(key string, def int) int {
	return lookup(key, def, strconv.Atoi)
}

// ParseDuration expects Go duration syntax such as "750ms".
func ParseDuration(key string, def time.Duration) time.Duration {
	return lookup(key, def, time.ParseDuration)
}

func ParseFloat(key string, def float64) float64 {
	return lookup(key, def, func(v string) (float64, error) { return strconv.ParseFloat(v, 64) })
}

// ParseBool accepts true/false, 1/0 and yes/no in any case.
func ParseBool(key string, def bool) bool {
	return lookup(key, def, parseBool)
}

// ParseStringList splits on commas and drops blank items.
func ParseStringList(key string, def []string) []string {
	return lookup(key, def, func(v string) ([]string, error) {
		out := strings.FieldsFunc(v, func(r rune) bool { return r == ',' })
		kept := out[:0]
		for _, item := range out {
			if item = strings.TrimSpace(item); item != "" {
				kept = append(kept, item)
			}
		}
		return kept, nil
	})
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", v)
}

func lookup[T any](key string, def T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	logger := log.WithComponent("config")
	v, err := parse(raw)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("ignoring unparsable environment value")
		return def
	}
	evt := logger.Debug().Str("key", key)
	if isSensitiveKey(key) {
		evt = evt.Bool("sensitive", true)
	} else {
		evt = evt.Str("value", raw)
	}
	evt.Msg("environment override")
	return v
}

// expandEnv expands ${VAR} and $VAR references in file values.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}
