package protocol

import "errors"

var (
	// ErrMalformedMessage is returned for payloads that are not valid protocol messages.
	ErrMalformedMessage = errors.New("protocol: malformed message")
	// ErrUnknownMessageType is returned by DecodeOutbound for an unrecognized type tag.
	ErrUnknownMessageType = errors.New("protocol: unknown message type")
)
