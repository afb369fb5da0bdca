// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package a2a

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://chess-a2a.local/schemas/"

var schemaFiles = []string{
	"envelope.json",
	"message.json",
	"task_send_params.json",
	"task_query_params.json",
	"task_id_params.json",
}

// Schemas holds the compiled request schemas.
type Schemas struct {
	envelope *jsonschema.Schema
	params   map[string]*jsonschema.Schema
}

// CompileSchemas compiles the embedded request schemas.
func CompileSchemas() (*Schemas, error) {
	c := jsonschema.NewCompiler()
	for _, name := range schemaFiles {
		raw, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("unmarshal schema %s: %w", name, err)
		}
		if err := c.AddResource(schemaBaseURL+name, doc); err != nil {
			return nil, fmt.Errorf("add schema resource %s: %w", name, err)
		}
	}

	compile := func(name string) (*jsonschema.Schema, error) {
		s, err := c.Compile(schemaBaseURL + name)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		return s, nil
	}

	envelope, err := compile("envelope.json")
	if err != nil {
		return nil, err
	}
	send, err := compile("task_send_params.json")
	if err != nil {
		return nil, err
	}
	query, err := compile("task_query_params.json")
	if err != nil {
		return nil, err
	}
	idParams, err := compile("task_id_params.json")
	if err != nil {
		return nil, err
	}

	return &Schemas{
		envelope: envelope,
		params: map[string]*jsonschema.Schema{
			MethodSend:                send,
			MethodSendSubscribe:       send,
			MethodGet:                 query,
			MethodCancel:              idParams,
			MethodResubscribe:         query,
			MethodPushNotificationGet: idParams,
		},
	}, nil
}

var defaultSchemas = sync.OnceValues(CompileSchemas)

// DefaultSchemas returns the process-wide compiled schemas. The schemas are
// embedded, so a compile error is a build defect and panics.
func DefaultSchemas() *Schemas {
	s, err := defaultSchemas()
	if err != nil {
		panic(err)
	}
	return s
}

// DecodeRequest parses and structurally validates a request body.
// Non-JSON input is a ParseError; a JSON value that is not a valid envelope
// is an InvalidRequest. The returned request id is best-effort and may be nil
// even when an error is returned.
func (s *Schemas) DecodeRequest(body []byte) (*Request, json.RawMessage, *Error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil, NewParseError(map[string]string{"detail": "empty body"})
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(trimmed))
	if err != nil {
		return nil, nil, NewParseError(map[string]string{"detail": err.Error()})
	}
	id := peekID(trimmed)
	if _, isBatch := doc.([]any); isBatch {
		return nil, nil, NewInvalidRequestError(map[string]string{"detail": "batch requests are not supported"})
	}
	if err := s.envelope.Validate(doc); err != nil {
		return nil, id, NewInvalidRequestError(map[string]string{"detail": err.Error()})
	}
	var req Request
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return nil, id, NewInvalidRequestError(map[string]string{"detail": err.Error()})
	}
	return &req, req.ID, nil
}

// DecodeParams validates raw params against the method's schema and decodes
// them into v. Any failure is an InvalidParams error.
func (s *Schemas) DecodeParams(method string, raw json.RawMessage, v any) *Error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, nullID) {
		raw = json.RawMessage("{}")
	}
	if schema, ok := s.params[method]; ok {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return NewInvalidParamsError(map[string]string{"detail": err.Error()})
		}
		if err := schema.Validate(doc); err != nil {
			return NewInvalidParamsError(map[string]string{"detail": err.Error()})
		}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return NewInvalidParamsError(map[string]string{"detail": err.Error()})
	}
	return nil
}

func peekID(body []byte) json.RawMessage {
	var probe struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil
	}
	switch {
	case len(probe.ID) == 0:
		return nil
	case probe.ID[0] == '"', probe.ID[0] == '-', probe.ID[0] >= '0' && probe.ID[0] <= '9':
		return probe.ID
	}
	return nil
}
