// SPDX-License-Identifier: MIT

package a2a

import (
	"fmt"
	"net/http"
)

// Standard JSON-RPC error codes plus the protocol's reserved server range.
// Codes are stable; a new error kind gets a new code.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	CodeTaskNotFound                 = -32001
	CodeTaskNotCancelable            = -32002
	CodePushNotificationNotSupported = -32003
	CodeUnsupportedOperation         = -32004
	CodeIncompatibleContentTypes     = -32005
)

// ErrorKind describes one registry entry.
type ErrorKind struct {
	Code    int
	Name    string
	Message string
}

var registry = map[int]ErrorKind{
	CodeParseError:                   {CodeParseError, "ParseError", "Invalid JSON payload"},
	CodeInvalidRequest:               {CodeInvalidRequest, "InvalidRequest", "Request payload validation error"},
	CodeMethodNotFound:               {CodeMethodNotFound, "MethodNotFound", "Method not found"},
	CodeInvalidParams:                {CodeInvalidParams, "InvalidParams", "Invalid parameters"},
	CodeInternalError:                {CodeInternalError, "InternalError", "Internal error"},
	CodeTaskNotFound:                 {CodeTaskNotFound, "TaskNotFound", "Task not found"},
	CodeTaskNotCancelable:            {CodeTaskNotCancelable, "TaskNotCancelable", "Task cannot be canceled"},
	CodePushNotificationNotSupported: {CodePushNotificationNotSupported, "PushNotificationNotSupported", "Push Notification is not supported"},
	CodeUnsupportedOperation:         {CodeUnsupportedOperation, "UnsupportedOperation", "This operation is not supported"},
	CodeIncompatibleContentTypes:     {CodeIncompatibleContentTypes, "IncompatibleContentTypes", "Incompatible content types"},
}

// Lookup returns the registry entry for code.
func Lookup(code int) (ErrorKind, bool) {
	k, ok := registry[code]
	return k, ok
}

// Codes returns every registered code.
func Codes() []int {
	out := make([]int, 0, len(registry))
	for c := range registry {
		out = append(out, c)
	}
	return out
}

// Error is the JSON-RPC error object. It implements error so it can travel
// through ordinary Go error paths and be recovered with errors.As.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// WithMessage returns a copy of e carrying an occurrence-specific message.
// The code is never overridden.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	if msg != "" {
		cp.Message = msg
	}
	return &cp
}

// NewError builds an error from the registry. Unknown codes collapse to
// InternalError so the emitted code space stays closed.
func NewError(code int, data any) *Error {
	k, ok := registry[code]
	if !ok {
		k = registry[CodeInternalError]
	}
	return &Error{Code: k.Code, Message: k.Message, Data: data}
}

func NewParseError(data any) *Error {
	return NewError(CodeParseError, data)
}

func NewInvalidRequestError(data any) *Error {
	return NewError(CodeInvalidRequest, data)
}

func NewMethodNotFoundError(method string) *Error {
	return NewError(CodeMethodNotFound, map[string]string{"method": method})
}

func NewInvalidParamsError(data any) *Error {
	return NewError(CodeInvalidParams, data)
}

func NewInternalError(data any) *Error {
	return NewError(CodeInternalError, data)
}

func NewTaskNotFoundError(taskID string) *Error {
	return NewError(CodeTaskNotFound, map[string]string{"taskId": taskID})
}

func NewTaskNotCancelableError(taskID string) *Error {
	return NewError(CodeTaskNotCancelable, map[string]string{"taskId": taskID})
}

func NewPushNotificationNotSupportedError() *Error {
	return NewError(CodePushNotificationNotSupported, nil)
}

func NewUnsupportedOperationError(operation string) *Error {
	return NewError(CodeUnsupportedOperation, map[string]string{"operation": operation})
}

func NewIncompatibleContentTypesError(accepted []string) *Error {
	return NewError(CodeIncompatibleContentTypes, map[string]any{"acceptedOutputModes": accepted})
}

// HTTPStatus maps an RPC error code to the HTTP status a REST-minded client
// would expect. The RPC endpoint itself always answers 200; this is used for
// access-log severity and metrics labels.
func HTTPStatus(code int) int {
	switch code {
	case CodeParseError, CodeInvalidRequest, CodeInvalidParams:
		return http.StatusBadRequest
	case CodeMethodNotFound, CodeTaskNotFound:
		return http.StatusNotFound
	case CodeTaskNotCancelable:
		return http.StatusConflict
	case CodePushNotificationNotSupported, CodeUnsupportedOperation:
		return http.StatusNotImplemented
	case CodeIncompatibleContentTypes:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}
