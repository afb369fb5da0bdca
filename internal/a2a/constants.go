// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package a2a defines the wire types of the agent-to-agent task protocol:
// JSON-RPC 2.0 envelopes, the closed error registry, message parts, tasks and
// the agent card, together with structural validation of inbound requests.
package a2a

// JSONRPCVersion is the only protocol version accepted and emitted.
const JSONRPCVersion = "2.0"

// Method names. The namespace is closed; anything else is MethodNotFound.
const (
	MethodSend                = "tasks/send"
	MethodGet                 = "tasks/get"
	MethodCancel              = "tasks/cancel"
	MethodSendSubscribe       = "tasks/sendSubscribe"
	MethodResubscribe         = "tasks/resubscribe"
	MethodPushNotificationSet = "tasks/pushNotification/set"
	MethodPushNotificationGet = "tasks/pushNotification/get"
)

// Content types used in parts, cards and output-mode negotiation.
const (
	MimeText = "text/plain"
	MimeFEN  = "application/x-fen"
	MimePNG  = "image/png"
	MimeSVG  = "image/svg+xml"
	MimeJSON = "application/json"
)

// WellKnownCardPath is where the agent card is served.
const WellKnownCardPath = "/.well-known/agent.json"
