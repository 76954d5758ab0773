// Package conversation tracks the rolling transcript of a single call.
//
// One Tracker exists per active call. It is append-only: turns are never
// mutated, and once the retention window is full the oldest turns are
// dropped. The tracker feeds both prompt construction and query enrichment,
// and is discarded when the call ends.
package conversation

import (
	"strings"
	"sync"
)

// Role identifies who produced a conversation turn.
type Role string

// Valid roles. The caller is the human on the phone; the agent is us.
const (
	RoleCaller Role = "caller"
	RoleAgent  Role = "agent"
)

// Turn is a single utterance in the conversation.
// Turns are immutable once appended.
type Turn struct {
	Role Role
	Text string
}

// DefaultMaxTurns is the retention window when none is configured.
const DefaultMaxTurns = 10

// Tracker is an append-only rolling window of conversation turns.
//
// Tracker is safe for concurrent use; the transport layer may append agent
// speech from a different goroutine than caller transcriptions.
type Tracker struct {
	mu       sync.RWMutex
	turns    []Turn
	maxTurns int
}

// NewTracker creates a Tracker retaining at most maxTurns turns.
// Non-positive maxTurns falls back to DefaultMaxTurns.
func NewTracker(maxTurns int) *Tracker {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Tracker{
		turns:    make([]Turn, 0, maxTurns),
		maxTurns: maxTurns,
	}
}

// Append records a turn, dropping the oldest turn if the window is full.
// Empty text is ignored.
func (t *Tracker) Append(role Role, text string) {
	if text == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.turns = append(t.turns, Turn{Role: role, Text: text})
	if len(t.turns) > t.maxTurns {
		// Shift rather than reslice so the dropped turn is released
		copy(t.turns, t.turns[1:])
		t.turns = t.turns[:t.maxTurns]
	}
}

// Turns returns a copy of the retained turns, oldest first.
func (t *Tracker) Turns() []Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of retained turns.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}

// RecentText renders the last n turns as "Caller: …" / "Agent: …" lines,
// oldest first. This is the context snapshot attached to help requests and
// the LLM prompt.
func (t *Tracker) RecentText(n int) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	turns := t.turns
	if n < len(turns) {
		turns = turns[len(turns)-n:]
	}

	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch turn.Role {
		case RoleCaller:
			b.WriteString("Caller: ")
		default:
			b.WriteString("Agent: ")
		}
		b.WriteString(turn.Text)
	}
	return b.String()
}

// RecentCallerTexts returns the caller utterances among the last n turns,
// oldest first. Used by the query enricher to resolve pronouns.
func (t *Tracker) RecentCallerTexts(n int) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	turns := t.turns
	if n < len(turns) {
		turns = turns[len(turns)-n:]
	}

	var texts []string
	for _, turn := range turns {
		if turn.Role == RoleCaller {
			texts = append(texts, turn.Text)
		}
	}
	return texts
}
