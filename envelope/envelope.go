package envelope

import (
	"encoding/json"

	"github.com/Rippanteq7/whatsmeow-node/errors"
)

// Envelope is the uniform result wrapper for every boundary call.
// Exactly one of Data and Error is populated.
type Envelope struct {
	Ok    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Success serializes a success envelope around data.
func Success(data any) string {
	b, err := json.Marshal(Envelope{Ok: true, Data: data})
	if err != nil {
		// The payload came out of the bridge itself; an unencodable
		// value is a bridge bug, but it still must surface as a
		// failure envelope rather than a fault.
		return Fail(errors.Native(err))
	}
	return string(b)
}

// Empty is the success envelope for operations with no result payload.
func Empty() string {
	return Success(map[string]any{})
}

// Fail serializes a failure envelope carrying the error's message.
func Fail(err error) string {
	b, merr := json.Marshal(Envelope{Ok: false, Error: err.Error()})
	if merr != nil {
		// Error strings always marshal; this path is unreachable but
		// the contract forbids returning anything but an envelope.
		return `{"ok":false,"error":"unencodable error"}`
	}
	return string(b)
}

// Decode parses a request payload into v. A payload that fails to parse
// is a malformed-request failure, never a fault.
func Decode(request string, v any) error {
	if err := json.Unmarshal([]byte(request), v); err != nil {
		return errors.MalformedRequest(err)
	}
	return nil
}
