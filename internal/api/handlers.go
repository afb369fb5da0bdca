// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/chess-a2a/internal/a2a"
	"github.com/ManuGH/chess-a2a/internal/artifact"
	"github.com/ManuGH/chess-a2a/internal/log"
)

const banner = "<p>Chess bot A2A</p>"

// handleRPC answers every envelope with HTTP 200; protocol failures travel
// inside the envelope.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		detail := "could not read request body"
		if errors.As(err, &tooLarge) {
			detail = "request body exceeds " + strconv.Itoa(MaxRequestBytes) + " bytes"
		}
		writeJSON(w, r, http.StatusOK, a2a.NewErrorResponse(nil, a2a.NewInvalidRequestError(map[string]string{"detail": detail})))
		return
	}

	resp := s.deps.RPC.Handle(r.Context(), body)
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	card := a2a.NewChessAgentCard(a2a.CardOptions{
		BaseURL: s.baseURL(r),
		Version: s.cfg.Version,
	})
	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !artifact.ValidName(name) {
		http.NotFound(w, r)
		return
	}

	blob, err := s.deps.Blobs.Get(r.Context(), name)
	switch {
	case errors.Is(err, artifact.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Error().
			Err(err).
			Str("artifact", name).
			Msg("artifact lookup failed")
		http.Error(w, "artifact store unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", blob.MimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	// Names are never reused, so the content is immutable.
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(blob.Data)
	}
}

func (s *Server) handleBanner(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, banner)
}

// baseURL prefers the configured URL and otherwise rebuilds it from the
// request, honouring X-Forwarded-Proto from a reverse proxy.
func (s *Server) baseURL(r *http.Request) string {
	if s.cfg.API.BaseURL != "" {
		return s.cfg.API.BaseURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", a2a.MimeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Error().
			Err(err).
			Msg("failed to encode response")
	}
}
