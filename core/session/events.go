package session

import (
	"context"

	"github.com/clinreg/clinreg-go/pkg/broadcast"
)

// EventType identifies a session lifecycle signal.
type EventType string

const (
	// EventChanged fires on every token write or clear, in the publishing
	// process only. Collaborators such as the notification feed use it to
	// connect or disconnect.
	EventChanged EventType = "auth:changed"
	// EventLogout fires on teardown and is also fanned out across
	// processes so sibling windows can drop their sessions.
	EventLogout EventType = "LOGOUT"
)

// Event is the payload published on session lifecycle changes.
type Event struct {
	Type          EventType `json:"type"`
	Authenticated bool      `json:"authenticated"`
	User          *User     `json:"user,omitempty"`
}

// Notifier publishes session lifecycle events. broadcast.Broadcaster[Event]
// satisfies it; the manager only needs the publish half.
type Notifier interface {
	Broadcast(ctx context.Context, msg broadcast.Message[Event]) error
}
