// Package wire implements the Playlink message envelope and its JSON codec.
//
// Every message exchanged with the game server is a flat JSON object
// discriminated by a "type" tag and carrying a "timestamp" field with the
// sender's local clock in Unix milliseconds. Type-specific fields are
// merged into the same object (the flattened protocol variant; there is
// no "data" wrapper).
//
// Decoding is forward-compatible: a message with an unknown "type" tag is
// accepted and handed to the caller, which routes it to a default path.
// Only a missing "type" tag is a decode error.
package wire
