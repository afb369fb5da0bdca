// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/ManuGH/chess-a2a/internal/log"
)

// Recoverer turns a handler panic into a 500 carrying a JSON-RPC
// InternalError. The panic value and stack are logged, never returned.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			logger := log.WithComponentFromContext(r.Context(), "http")
			logger.Error().
				Str(log.FieldEvent, "http.panic").
				Str("panic", fmt.Sprint(rec)).
				Str(log.FieldPath, r.URL.Path).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")
			writeRPCError(w, http.StatusInternalServerError, "internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}
