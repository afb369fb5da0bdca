// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package a2a

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequest(t *testing.T) {
	s := DefaultSchemas()

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantID   string
	}{
		{"empty body", ``, CodeParseError, ""},
		{"not json", `{"jsonrpc":`, CodeParseError, ""},
		{"batch", `[{"jsonrpc":"2.0","id":1,"method":"tasks/get"}]`, CodeInvalidRequest, ""},
		{"wrong version", `{"jsonrpc":"1.0","id":7,"method":"tasks/get"}`, CodeInvalidRequest, "7"},
		{"missing method", `{"jsonrpc":"2.0","id":"a"}`, CodeInvalidRequest, `"a"`},
		{"scalar params", `{"jsonrpc":"2.0","id":1,"method":"tasks/get","params":5}`, CodeInvalidRequest, "1"},
		{"object id", `{"jsonrpc":"2.0","id":{},"method":"tasks/get"}`, CodeInvalidRequest, ""},
		{"valid", `{"jsonrpc":"2.0","id":3,"method":"tasks/get","params":{"id":"t"}}`, 0, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, id, rpcErr := s.DecodeRequest([]byte(tt.body))
			assert.Equal(t, tt.wantID, string(id))
			if tt.wantCode == 0 {
				require.Nil(t, rpcErr)
				require.NotNil(t, req)
				assert.Equal(t, MethodGet, req.Method)
				return
			}
			require.NotNil(t, rpcErr)
			assert.Equal(t, tt.wantCode, rpcErr.Code)
		})
	}
}

func TestDecodeParams_Send(t *testing.T) {
	s := DefaultSchemas()

	valid := `{"id":"t1","sessionId":"s1","message":{"role":"user","parts":[{"type":"text","text":"e4"}]}}`
	var p TaskSendParams
	require.Nil(t, s.DecodeParams(MethodSend, []byte(valid), &p))
	assert.Equal(t, "t1", p.ID)
	require.NotNil(t, p.SessionID)
	assert.Equal(t, "s1", *p.SessionID)
	move, err := p.Message.MoveText()
	require.NoError(t, err)
	assert.Equal(t, "e4", move)

	invalid := map[string]string{
		"missing params":  ``,
		"missing message": `{"id":"t1"}`,
		"empty parts":     `{"message":{"role":"user","parts":[]}}`,
		"unknown tag":     `{"message":{"role":"user","parts":[{"type":"audio","data":"x"}]}}`,
		"file both":       `{"message":{"role":"user","parts":[{"type":"file","file":{"bytes":"AA==","uri":"http://x"}}]}}`,
		"file neither":    `{"message":{"role":"user","parts":[{"type":"file","file":{"name":"x"}}]}}`,
		"bad role":        `{"message":{"role":"robot","parts":[{"type":"text","text":"e4"}]}}`,
		"negative hist":   `{"historyLength":-1,"message":{"role":"user","parts":[{"type":"text","text":"e4"}]}}`,
	}
	for name, raw := range invalid {
		t.Run(name, func(t *testing.T) {
			var p TaskSendParams
			rpcErr := s.DecodeParams(MethodSend, []byte(raw), &p)
			require.NotNil(t, rpcErr)
			assert.Equal(t, CodeInvalidParams, rpcErr.Code)
		})
	}
}

func TestDecodeParams_Get(t *testing.T) {
	s := DefaultSchemas()

	var q TaskQueryParams
	require.Nil(t, s.DecodeParams(MethodGet, []byte(`{"sessionId":"s1"}`), &q))
	require.Nil(t, s.DecodeParams(MethodGet, []byte(`{"id":"t1","historyLength":2}`), &q))

	rpcErr := s.DecodeParams(MethodGet, []byte(`{}`), &q)
	require.NotNil(t, rpcErr)
	assert.Equal(t, CodeInvalidParams, rpcErr.Code)
}
