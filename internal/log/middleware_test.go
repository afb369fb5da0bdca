// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LogsRequestHandled(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf, Level: "debug"})
	defer Configure(Config{})

	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Debug().Msg("inside handler")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/rpc", nil)
	req = req.WithContext(ContextWithRequestID(req.Context(), "req-9"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)

	var handled map[string]any
	sc := bufio.NewScanner(&buf)
	lines := 0
	for sc.Scan() {
		lines++
		var entry map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
		assert.Equal(t, "req-9", entry[FieldRequestID])
		if entry[FieldEvent] == "request.handled" {
			handled = entry
		}
	}
	require.Equal(t, 2, lines)
	require.NotNil(t, handled)
	assert.Equal(t, float64(http.StatusTeapot), handled["status"])
	assert.Equal(t, float64(len("short and stout")), handled["bytes"])
	assert.Equal(t, "warn", handled["level"])
	assert.Equal(t, "/rpc", handled[FieldPath])
}
