package patch

import "errors"

var (
	// ErrMalformedPatch is returned when a PatchSet cannot be decoded.
	ErrMalformedPatch = errors.New("patch: malformed patch set")
)
