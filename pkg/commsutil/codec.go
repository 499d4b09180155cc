package commsutil

import (
	"encoding/json"
	"fmt"

	comms "github.com/nats-io/nats.go"
)

// HeaderContentType is set on every message built by NewJSONMsg.
const HeaderContentType = "Content-Type"

// ContentTypeJSON is the only payload encoding used on COMMS subjects.
const ContentTypeJSON = "application/json"

// EncodePayload serializes a value to JSON bytes.
func EncodePayload(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// NewJSONMsg encodes v into a message for subject with a JSON content type.
func NewJSONMsg(subject string, v interface{}) (*comms.Msg, error) {
	data, err := EncodePayload(v)
	if err != nil {
		return nil, fmt.Errorf("commsutil:codec - failed to encode payload for %s: %w", subject, err)
	}
	msg := comms.NewMsg(subject)
	msg.Header.Set(HeaderContentType, ContentTypeJSON)
	msg.Data = data
	return msg, nil
}
