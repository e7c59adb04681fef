package dashboard

import (
	"errors"
	"fmt"
)

// Failure taxonomy surfaced by gateways. The controller converts every one of
// these into a slot-local or global status message; none reach the caller of
// a navigation method.
var (
	// ErrEmptyData means the service holds no samples for the requested
	// range. Distinguished from a failure so the UI can say "no data yet".
	ErrEmptyData = errors.New("dashboard: no data for requested range")

	// ErrInsertConflict means every inserted sample was already known to the
	// service (data already synchronized).
	ErrInsertConflict = errors.New("dashboard: data already synchronized")
)

// NetworkError wraps transport-level failures (unreachable host, timeout).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("dashboard: network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError reports a non-2xx response from the visualization service.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("dashboard: service returned %d: %s", e.Status, e.Body)
}
