// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package a2a

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
)

// ErrAmbiguousResponse is returned when a response carries both or neither of
// result and error.
var ErrAmbiguousResponse = errors.New("jsonrpc response must carry exactly one of result or error")

var nullID = json.RawMessage("null")

// Request is an inbound JSON-RPC envelope. ID and Params are kept raw so the
// id can be echoed verbatim and params decoded per method.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is an outbound JSON-RPC envelope.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// NewResultResponse builds a success envelope.
func NewResultResponse(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: JSONRPCVersion, ID: normalizeID(id), Result: result}
}

// NewErrorResponse builds a failure envelope.
func NewErrorResponse(id json.RawMessage, rpcErr *Error) *Response {
	if rpcErr == nil {
		rpcErr = NewInternalError(nil)
	}
	return &Response{JSONRPC: JSONRPCVersion, ID: normalizeID(id), Error: rpcErr}
}

func normalizeID(id json.RawMessage) json.RawMessage {
	if len(bytes.TrimSpace(id)) == 0 {
		return nullID
	}
	return id
}

// Validate reports ErrAmbiguousResponse unless exactly one of result/error is set.
func (r *Response) Validate() error {
	hasResult := !isNil(r.Result)
	hasError := r.Error != nil
	if hasResult == hasError {
		return ErrAmbiguousResponse
	}
	return nil
}

// MarshalJSON refuses to encode an envelope that violates result xor error.
func (r Response) MarshalJSON() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	type wire struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Result  any             `json:"result,omitempty"`
		Error   *Error          `json:"error,omitempty"`
	}
	version := r.JSONRPC
	if version == "" {
		version = JSONRPCVersion
	}
	return json.Marshal(wire{JSONRPC: version, ID: normalizeID(r.ID), Result: r.Result, Error: r.Error})
}

// UnmarshalJSON decodes an envelope, keeping the result raw.
func (r *Response) UnmarshalJSON(data []byte) error {
	var wire struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Result  json.RawMessage `json:"result"`
		Error   *Error          `json:"error"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.JSONRPC = wire.JSONRPC
	r.ID = wire.ID
	r.Error = wire.Error
	r.Result = nil
	if len(wire.Result) > 0 && !bytes.Equal(bytes.TrimSpace(wire.Result), nullID) {
		r.Result = wire.Result
	}
	return r.Validate()
}

// DecodeResult unmarshals the result of a decoded response into v.
func (r *Response) DecodeResult(v any) error {
	switch res := r.Result.(type) {
	case json.RawMessage:
		return json.Unmarshal(res, v)
	case nil:
		return ErrAmbiguousResponse
	default:
		buf, err := json.Marshal(res)
		if err != nil {
			return err
		}
		return json.Unmarshal(buf, v)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
