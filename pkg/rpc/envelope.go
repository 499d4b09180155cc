// Package rpc routes method-name requests to registered handlers and wraps
// every outcome in a response envelope.
package rpc

import "encoding/json"

// Error codes carried by failed responses.
const (
	CodeInvalidMethod      = "INVALID_METHOD"
	CodeMethodNotFound     = "METHOD_NOT_FOUND"
	CodeInvalidParams      = "INVALID_PARAMS"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeUnsupportedVersion = "UNSUPPORTED_VERSION"
	CodeInternalError      = "INTERNAL_ERROR"
)

// Request is the JSON envelope of an incoming call. A nil ID means the caller
// sent none.
type Request struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
	ID     *string         `json:"id,omitempty"`
	Ver    string          `json:"ver,omitempty"`
}

// Response is the JSON envelope of every reply. Exactly one of Result and
// Error is meaningful, selected by Success.
type Response struct {
	Success bool         `json:"success"`
	Result  interface{}  `json:"result,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
	ID      *string      `json:"id,omitempty"`
}

// ErrorDetail holds structured error information.
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ok builds a success response.
func ok(id *string, result interface{}) Response {
	return Response{Success: true, Result: result, ID: id}
}

// errorResponse builds a failed response.
func errorResponse(id *string, code, message string, details interface{}) Response {
	return Response{
		Success: false,
		Error:   &ErrorDetail{Code: code, Message: message, Details: details},
		ID:      id,
	}
}

// StringID returns a pointer to id, for building requests in code.
func StringID(id string) *string {
	return &id
}
