package rationale

import "errors"

var (
	// ErrEmptyQueue is returned by TryDismissFront when nothing is queued.
	ErrEmptyQueue = errors.New("rationale: queue is empty")

	// ErrUnrecognizedPermission is returned when no rationale text exists for a
	// permission identifier.
	ErrUnrecognizedPermission = errors.New("rationale: unrecognized permission")
)
