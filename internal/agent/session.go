package agent

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/luxevoice/frontdesk/internal/conversation"
	"github.com/luxevoice/frontdesk/internal/escalation"
	"github.com/luxevoice/frontdesk/internal/knowledge"
	"github.com/luxevoice/frontdesk/internal/log"
)

// Retriever is the retrieval surface a session consumes.
// *knowledge.Service satisfies it.
type Retriever interface {
	SearchWithContext(ctx context.Context, query string, history []conversation.Turn, topK int) (*knowledge.BusinessContext, []knowledge.Match)
}

// Escalator hands a question to a supervisor and waits for the outcome.
// *escalation.Coordinator satisfies it.
type Escalator interface {
	Escalate(ctx context.Context, req escalation.Request) (*escalation.Outcome, error)
}

// Reply is what a session produces for one caller utterance. The voice
// layer speaks Text (and HoldNotice first, when present); Context carries
// prompt material for the language model on a use-as-context decision.
type Reply struct {
	Decision   Decision
	Text       string
	HoldNotice string
	Context    string
	Matches    []knowledge.Match
	Escalated  bool
}

// SessionConfig carries the per-call tunables.
type SessionConfig struct {
	TopK         int
	HistoryTurns int // turns rendered into escalation context
	CallerPhone  string
}

// Session drives one phone call: it tracks the conversation, retrieves
// answers, and escalates what the knowledge base cannot answer.
//
// A Session belongs to a single call and is not shared across goroutines.
type Session struct {
	id        string
	tracker   *conversation.Tracker
	retriever Retriever
	escalator Escalator
	logger    log.Logger

	topK         int
	historyTurns int
	callerName   string
	callerPhone  string
}

// NewSession creates a Session for one incoming call.
func NewSession(retriever Retriever, escalator Escalator, cfg SessionConfig, logger log.Logger) *Session {
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = conversation.DefaultMaxTurns
	}
	if logger == nil {
		logger = log.NewNop()
	}

	return &Session{
		id:           uuid.NewString(),
		tracker:      conversation.NewTracker(cfg.HistoryTurns),
		retriever:    retriever,
		escalator:    escalator,
		logger:       logger,
		topK:         cfg.TopK,
		historyTurns: cfg.HistoryTurns,
		callerName:   UnknownCaller,
		callerPhone:  cfg.CallerPhone,
	}
}

// ID returns the session identifier attached to every help request this
// call files, so the helpdesk can group requests by call.
func (s *Session) ID() string { return s.id }

// CallerName returns the extracted caller name, or UnknownCaller.
func (s *Session) CallerName() string { return s.callerName }

// Tracker exposes the session's conversation history.
func (s *Session) Tracker() *conversation.Tracker { return s.tracker }

// HandleUtterance processes one caller utterance end to end and never
// fails: every branch, including a broken escalation path, produces a
// speakable Reply.
func (s *Session) HandleUtterance(ctx context.Context, text string) Reply {
	s.tracker.Append(conversation.RoleCaller, text)

	if s.callerName == UnknownCaller {
		if name, ok := ExtractCallerName(text); ok {
			s.callerName = name
			s.logger.Info("caller introduced themselves", "name", name)
		}
	}

	bc, matches := s.retriever.SearchWithContext(ctx, text, s.tracker.Turns(), s.topK)

	decision, best := Decide(matches)
	s.logger.Debug("utterance decision",
		"decision", decision,
		"matches", len(matches),
		"has_context", bc != nil)

	var reply Reply
	switch decision {
	case DecisionAnswer:
		reply = Reply{Decision: decision, Text: best.Answer, Matches: matches}
	case DecisionUseAsContext:
		reply = Reply{Decision: decision, Matches: matches, Context: promptContext(bc, matches)}
	default:
		reply = s.escalate(ctx, text)
	}

	if reply.Text != "" {
		s.tracker.Append(conversation.RoleAgent, reply.Text)
	}
	return reply
}

// escalate runs the supervisor hand-off and maps every terminal branch to
// a scripted caller-facing line.
func (s *Session) escalate(ctx context.Context, question string) Reply {
	reply := Reply{
		Decision:   DecisionEscalate,
		HoldNotice: HoldNotice,
		Escalated:  true,
	}

	outcome, err := s.escalator.Escalate(ctx, escalation.Request{
		Question:    question,
		CallerName:  s.callerName,
		CallerPhone: s.callerPhone,
		Context:     s.tracker.RecentText(s.historyTurns),
		SessionID:   s.id,
	})

	switch {
	case err != nil:
		s.logger.Error("escalation unavailable", "question", question, "error", err)
		reply.Text = CreateFailureMessage
	case outcome.TimedOut:
		reply.Text = TimeoutMessage(s.callerPhone)
	default:
		reply.Text = SupervisorRelay(outcome.Answer)
	}

	return reply
}

// promptContext assembles the language-model context from the business
// record and the formatted matches.
func promptContext(bc *knowledge.BusinessContext, matches []knowledge.Match) string {
	var parts []string
	if bc != nil {
		if text := bc.PromptText(); text != "" {
			parts = append(parts, "Business details:\n"+text)
		}
	}
	if formatted := FormatMatches(matches); formatted != "" {
		parts = append(parts, formatted)
	}
	return strings.Join(parts, "\n\n")
}
