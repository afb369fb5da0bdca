// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldSessionID = "session_id"
	FieldRequestID = "request_id"
	FieldTaskID    = "task_id"
	FieldRPCID     = "rpc_id"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldMethod    = "method"
	FieldBackend   = "backend"

	// Game fields
	FieldMove      = "move"
	FieldAgentMove = "agent_move"
	FieldFEN       = "fen"
	FieldOutcome   = "outcome"

	// State fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"

	// RPC error fields
	FieldErrorCode = "error_code"

	// Path / URL fields
	FieldPath    = "path"
	FieldBaseURL = "base_url"
)
