// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	agentlog "github.com/ManuGH/chess-a2a/internal/log"
)

// ConfigHolder publishes the current AppConfig and swaps it on reload.
// Readers never see a half-applied config: a reload that fails to load or
// validate leaves the previous one in place.
type ConfigHolder struct {
	loader *Loader
	logger zerolog.Logger
	// debounce coalesces bursts of file events into one reload.
	debounce time.Duration

	// reloading serializes Reload; SIGHUP and the file watcher may race.
	reloading sync.Mutex

	mu        sync.RWMutex
	current   AppConfig
	listeners []chan<- AppConfig
}

func NewConfigHolder(initial AppConfig, loader *Loader) *ConfigHolder {
	return &ConfigHolder{
		loader:   loader,
		logger:   agentlog.WithComponent("config"),
		debounce: 500 * time.Millisecond,
		current:  initial,
	}
}

// Get returns the current configuration.
func (h *ConfigHolder) Get() AppConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// RegisterListener subscribes ch to successful reloads. Sends never block:
// a listener whose buffer is full misses that reload.
func (h *ConfigHolder) RegisterListener(ch chan<- AppConfig) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, ch)
}

// Reload loads file and environment again and, if the result validates,
// makes it current and notifies the listeners.
func (h *ConfigHolder) Reload(_ context.Context) error {
	h.reloading.Lock()
	defer h.reloading.Unlock()

	next, err := h.loader.Load()
	if err != nil {
		h.logger.Error().Err(err).Str("event", "config.reload_failed").Msg("reload rejected, keeping current configuration")
		return fmt.Errorf("load config: %w", err)
	}

	h.mu.Lock()
	prev := h.current
	h.current = next
	listeners := slices.Clone(h.listeners)
	h.mu.Unlock()

	changes := Diff(prev, next)
	for _, c := range changes {
		h.logger.Info().Str("key", c.Key).Interface("old", c.Old).Interface("new", c.New).Msg("config changed")
	}
	for _, ch := range listeners {
		select {
		case ch <- next:
		default:
			h.logger.Warn().Str("event", "config.listener_skip").Msg("listener busy, reload not delivered")
		}
	}
	h.logger.Info().Str("event", "config.reload_success").Int("changes", len(changes)).Msg("configuration reloaded")
	return nil
}

// Change is one differing key between two configurations.
type Change struct {
	Key      string
	Old, New any
}

// Diff lists the keys that differ between a and b, sorted by key. Values
// are compared after MaskSecrets, so a rotated secret is not reported.
func Diff(a, b AppConfig) []Change {
	fa, fb := map[string]any{}, map[string]any{}
	flatten("", MaskSecrets(a), fa)
	flatten("", MaskSecrets(b), fb)

	union := maps.Clone(fa)
	maps.Copy(union, fb)

	var out []Change
	for _, k := range slices.Sorted(maps.Keys(union)) {
		va, inA := fa[k]
		vb, inB := fb[k]
		if inA && inB && reflect.DeepEqual(va, vb) {
			continue
		}
		out = append(out, Change{Key: k, Old: va, New: vb})
	}
	return out
}

func flatten(prefix string, v any, out map[string]any) {
	m, ok := v.(map[string]any)
	if !ok {
		out[prefix] = v
		return
	}
	for k, child := range m {
		if prefix != "" {
			k = prefix + "." + k
		}
		flatten(k, child, out)
	}
}
