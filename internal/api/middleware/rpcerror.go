// SPDX-License-Identifier: MIT

package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/chess-a2a/internal/a2a"
)

// writeRPCError answers a request the dispatcher never saw. The body is a
// JSON-RPC InternalError with a null id so agent clients parse it like any
// other reply.
func writeRPCError(w http.ResponseWriter, status int, detail string) {
	body, err := json.Marshal(a2a.NewErrorResponse(nil, a2a.NewInternalError(map[string]string{"detail": detail})))
	if err != nil {
		http.Error(w, detail, status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
