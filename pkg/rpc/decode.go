package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/morezero/employee-service/pkg/apperror"
)

// DecodeRequest parses a raw request frame. When the frame cannot be decoded
// it returns a ready INVALID_PARAMS response that still echoes any string id
// recoverable from the raw bytes.
func DecodeRequest(data []byte) (Request, *Response) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		resp := errorResponse(PeekID(data), CodeInvalidParams, fmt.Sprintf("Invalid request format: %v", err), nil)
		return Request{}, &resp
	}
	return req, nil
}

// PeekID extracts a string "id" from a possibly malformed frame.
func PeekID(data []byte) *string {
	if !gjson.ValidBytes(data) {
		return nil
	}
	res := gjson.GetBytes(data, "id")
	if res.Type != gjson.String {
		return nil
	}
	id := res.String()
	return &id
}

// PeekMethod extracts the "method" member from a frame without decoding it.
func PeekMethod(data []byte) string {
	return gjson.GetBytes(data, "method").String()
}

// Decode unmarshals params into T. Missing params are a validation failure;
// malformed params are INVALID_PARAMS.
func Decode[T any](method string, params json.RawMessage) (T, error) {
	var v T
	trimmed := bytes.TrimSpace(params)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return v, apperror.Invalid("Parameters are required for %s", method)
	}
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return v, apperror.InvalidParams(fmt.Sprintf("Invalid parameter format: %v", err), err)
	}
	return v, nil
}
