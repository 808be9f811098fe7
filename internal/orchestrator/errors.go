package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// DelegationError reports a failed delegation to a downstream agent. It
// distinguishes the failure modes callers map to HTTP statuses: timeout,
// network error and an agent-side non-2xx response.
type DelegationError struct {
	Agent      string
	Endpoint   string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *DelegationError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("delegation to agent %s timed out", e.Agent)
	case e.StatusCode != 0:
		return fmt.Sprintf("agent %s returned status %d", e.Agent, e.StatusCode)
	default:
		return fmt.Sprintf("delegation to agent %s failed: %v", e.Agent, e.Err)
	}
}

func (e *DelegationError) Unwrap() error {
	return e.Err
}

// isTimeout reports whether err is a deadline or network timeout
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
