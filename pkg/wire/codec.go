package wire

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedMessage indicates an inbound message that could not be
// decoded: invalid JSON, a non-object value, or a missing "type" tag.
// Malformed messages are dropped by the session layer, never fatal.
var ErrMalformedMessage = errors.New("malformed message")

// Reserved envelope keys. All other keys are type-specific fields.
const (
	keyType      = "type"
	keyTimestamp = "timestamp"
)

// Encode serializes an envelope to its flat JSON wire form: the "type"
// and "timestamp" keys merged with the type-specific fields.
func Encode(e Envelope) ([]byte, error) {
	obj := make(map[string]any, len(e.Fields)+2)
	for k, v := range e.Fields {
		obj[k] = v
	}
	obj[keyType] = e.Type
	obj[keyTimestamp] = e.Timestamp
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Type, err)
	}
	return data, nil
}

// Decode parses a flat JSON wire record into an envelope.
//
// A missing "type" tag fails with ErrMalformedMessage. An unknown "type"
// value is accepted; callers check KnownType to route it. A missing or
// non-numeric "timestamp" decodes as zero.
func Decode(data []byte) (Envelope, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	rawType, ok := obj[keyType]
	if !ok {
		return Envelope{}, fmt.Errorf("%w: missing type tag", ErrMalformedMessage)
	}
	var msgType string
	if err := json.Unmarshal(rawType, &msgType); err != nil {
		return Envelope{}, fmt.Errorf("%w: type tag is not a string", ErrMalformedMessage)
	}

	var timestamp int64
	if rawTS, ok := obj[keyTimestamp]; ok {
		// Tolerate a missing or malformed timestamp; the tag alone
		// identifies the message.
		_ = json.Unmarshal(rawTS, &timestamp)
	}

	// The timestamp stays in Fields as well, so binding a payload type
	// that carries its own timestamp field (PING, PONG) sees it.
	fields := make(map[string]any, len(obj))
	for k, raw := range obj {
		if k == keyType {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return Envelope{}, fmt.Errorf("%w: field %q: %v", ErrMalformedMessage, k, err)
		}
		fields[k] = v
	}

	return Envelope{
		Type:      msgType,
		Timestamp: timestamp,
		Fields:    fields,
	}, nil
}

// Bind re-marshals an envelope's type-specific fields into a typed
// payload struct. Fields absent from the envelope keep their zero value.
func Bind(e Envelope, out any) error {
	data, err := json.Marshal(e.Fields)
	if err != nil {
		return fmt.Errorf("bind %s: %w", e.Type, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("bind %s: %w", e.Type, err)
	}
	return nil
}

// flatten converts a payload value into the envelope field map.
func flatten(payload any) (map[string]any, error) {
	if payload == nil {
		return map[string]any{}, nil
	}
	if m, ok := payload.(map[string]any); ok {
		fields := make(map[string]any, len(m))
		for k, v := range m {
			fields[k] = v
		}
		return fields, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("flatten payload: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("flatten payload: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}
