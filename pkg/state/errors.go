package state

import "errors"

var (
	// ErrEmptySharedDataKey is returned when an operation has no session group.
	ErrEmptySharedDataKey = errors.New("state: empty shared data key")
	// ErrPatchFailed wraps a patch engine failure.
	ErrPatchFailed = errors.New("state: patch engine failed")
)
