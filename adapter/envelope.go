package adapter

import "encoding/json"

// envelope is the JSON shape every driver invocation replies with on
// stdout: {"success": bool, "data": <op-specific>, "error": "msg"}.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// decodeEnvelope parses raw driver stdout into an envelope, wrapping a
// malformed payload in OutputParseError rather than a bare json error so
// callers can switch on Kind().
func decodeEnvelope(op string, raw []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &OutputParseError{Op: op, Output: string(raw), Cause: err}
	}
	return &env, nil
}

// decodeData unmarshals the envelope's data field into dest. Used by
// operations whose success result carries a value (e.g. isVisible's bool,
// eval's string result).
func decodeData(op string, env *envelope, dest any) error {
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return &OutputParseError{Op: op, Output: string(env.Data), Cause: err}
	}
	return nil
}
