package log

import "time"

// Event is one protocol event. CBOR encoding uses integer keys for
// compactness.
type Event struct {
	// Timestamp when the event occurred.
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID correlates events belonging to one transport
	// connection (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"4,keyasint"`

	// Type-specific payload; exactly one is set.
	Message     *MessageEvent     `cbor:"5,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"6,keyasint,omitempty"`
	Close       *CloseEvent       `cbor:"7,keyasint,omitempty"`
	Error       *ErrorEvent       `cbor:"8,keyasint,omitempty"`
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an inbound message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outbound message.
	DirectionOut Direction = 1
	// DirectionLocal indicates a local event with no wire direction.
	DirectionLocal Direction = 2
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	case DirectionLocal:
		return "LOCAL"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a wire message.
	CategoryMessage Category = 0
	// CategoryState indicates a connection state change.
	CategoryState Category = 1
	// CategoryClose indicates a transport close status.
	CategoryClose Category = 2
	// CategoryError indicates an error.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryClose:
		return "CLOSE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MessageEvent captures one wire message.
type MessageEvent struct {
	// Type is the message type tag.
	Type string `cbor:"1,keyasint"`

	// Size is the encoded message size in bytes.
	Size int `cbor:"2,keyasint"`
}

// StateChangeEvent captures a connection state transition.
type StateChangeEvent struct {
	// OldState is the previous state name.
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state name.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change, if available.
	Reason string `cbor:"3,keyasint,omitempty"`
}

// CloseEvent captures a transport close status verbatim.
type CloseEvent struct {
	// Code is the numeric close code.
	Code int `cbor:"1,keyasint"`

	// Reason is the close reason string.
	Reason string `cbor:"2,keyasint,omitempty"`
}

// ErrorEvent captures an error.
type ErrorEvent struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what was being done.
	Context string `cbor:"2,keyasint,omitempty"`
}
