package fetchclient

import (
	"time"

	"github.com/google/uuid"
)

// Kind says what a request delivers.
type Kind string

const (
	KindBody    Kind = "body"
	KindCookies Kind = "cookies"
)

// State is the lifecycle position of one tracked request. A request leaves
// the tracking set when it completes, so there is no completed state.
type State int

const (
	StateCreated State = iota
	StateInFlight
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInFlight:
		return "in-flight"
	default:
		return "unknown"
	}
}

// PendingRequest is a snapshot of one tracked request.
type PendingRequest struct {
	ID        uuid.UUID
	URL       string
	Kind      Kind
	State     State
	StartedAt time.Time
}
