// SPDX-License-Identifier: MIT

// Package telemetry provides OpenTelemetry tracing utilities for the chess agent.
package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"

	// RPC attributes
	RPCSystemKey    = "rpc.system"
	RPCMethodKey    = "rpc.method"
	RPCErrorCodeKey = "rpc.jsonrpc.error_code"

	// Task attributes
	TaskIDKey    = "a2a.task.id"
	TaskStateKey = "a2a.task.state"
	SessionIDKey = "a2a.session.id"

	// Game attributes
	GameMoveKey      = "chess.move"
	GameAgentMoveKey = "chess.agent_move"
	GameOutcomeKey   = "chess.outcome"
	GameMethodKey    = "chess.method"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// RPCAttributes describes one JSON-RPC call.
func RPCAttributes(method string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(RPCSystemKey, "jsonrpc"),
		attribute.String(RPCMethodKey, method),
	}
}

// TaskAttributes identifies the task and session a span works on.
func TaskAttributes(taskID, sessionID string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if taskID != "" {
		attrs = append(attrs, attribute.String(TaskIDKey, taskID))
	}
	if sessionID != "" {
		attrs = append(attrs, attribute.String(SessionIDKey, sessionID))
	}
	return attrs
}

// GameAttributes records one exchanged turn.
func GameAttributes(move, agentMove, outcome, method string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(GameMoveKey, move),
		attribute.String(GameOutcomeKey, outcome),
	}
	if agentMove != "" {
		attrs = append(attrs, attribute.String(GameAgentMoveKey, agentMove))
	}
	if method != "" {
		attrs = append(attrs, attribute.String(GameMethodKey, method))
	}
	return attrs
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(code int, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.Int(RPCErrorCodeKey, code),
		attribute.String(ErrorTypeKey, errorType),
	}
}
