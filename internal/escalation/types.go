// Package escalation hands questions the knowledge base cannot answer to a
// human supervisor, then waits for the answer on a polling loop.
package escalation

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a help request.
type Status string

const (
	// StatusPending means the request is waiting for a supervisor.
	StatusPending Status = "pending"

	// StatusResolved means a supervisor has supplied an answer.
	StatusResolved Status = "resolved"

	// StatusUnresolved means the request expired without an answer.
	StatusUnresolved Status = "unresolved"
)

// ErrCreateFailed marks a failure to file the help request itself, as
// opposed to a timeout waiting for the answer. Callers branch on it with
// errors.Is to play the right fallback line.
var ErrCreateFailed = errors.New("failed to create help request")

// Request is an escalation to be filed with the helpdesk.
type Request struct {
	Question    string `json:"question"`
	CallerName  string `json:"callerName,omitempty"`
	CallerPhone string `json:"callerPhone,omitempty"`
	Context     string `json:"context,omitempty"`
	SessionID   string `json:"sessionId,omitempty"`
}

// HelpRequest is a filed request as the helpdesk reports it.
type HelpRequest struct {
	ID          string    `json:"id"`
	Question    string    `json:"question"`
	CallerName  string    `json:"callerName,omitempty"`
	CallerPhone string    `json:"callerPhone,omitempty"`
	SessionID   string    `json:"sessionId,omitempty"`
	Status      Status    `json:"status"`
	Answer      string    `json:"answer,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ResolvedAt  time.Time `json:"resolvedAt,omitempty"`
}

// Outcome is the result of waiting on an escalation.
type Outcome struct {
	RequestID string
	Answer    string
	TimedOut  bool
	Elapsed   time.Duration
}
