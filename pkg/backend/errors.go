package backend

import "fmt"

// NetworkError covers transport failures and unexpected HTTP statuses from
// the backend. It is never surfaced to the user directly except for booking
// submissions.
type NetworkError struct {
	Op  string // logical operation, e.g. "getEvents"
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: backend unreachable: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NotFoundError reports a resource the backend knows nothing about, such as
// a room image for a date with no booking. Callers substitute a placeholder.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// MalformedResponseError reports a payload the client could not decode.
type MalformedResponseError struct {
	Op  string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ValidationError carries the backend's human-readable rejection reason for
// a booking submission, taken from the JSON {detail} error body.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }
