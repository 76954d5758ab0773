package escalation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/luxevoice/frontdesk/internal/log"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeStore scripts helpdesk behavior per poll.
type fakeStore struct {
	mu        sync.Mutex
	createErr error
	createdID string
	created   []Request

	getErr     error
	getErrOnce bool // fail only the first Get
	resolveAt  int  // poll number (1-based) at which the request resolves; 0 = never
	answer     string
	getCalls   int
}

func (f *fakeStore) Create(ctx context.Context, req Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, req)
	if f.createdID == "" {
		f.createdID = "hr-1"
	}
	return f.createdID, nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (*HelpRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		if !f.getErrOnce || f.getCalls == 1 {
			return nil, f.getErr
		}
	}
	hr := &HelpRequest{ID: id, Status: StatusPending}
	if f.resolveAt > 0 && f.getCalls >= f.resolveAt {
		hr.Status = StatusResolved
		hr.Answer = f.answer
	}
	return hr, nil
}

func newTestCoordinator(store Store) *Coordinator {
	return NewCoordinator(store, time.Millisecond, 50*time.Millisecond, log.NewNop())
}

func TestEscalate_ResolvedOnFirstPoll(t *testing.T) {
	store := &fakeStore{resolveAt: 1, answer: "Yes, we take walk-ins on Sundays."}
	c := newTestCoordinator(store)

	outcome, err := c.Escalate(context.Background(), Request{Question: "Sunday walk-ins?"})
	if err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	if outcome.TimedOut {
		t.Error("outcome reports timeout for a resolved request")
	}
	if outcome.Answer != store.answer {
		t.Errorf("answer = %q, want supervisor answer", outcome.Answer)
	}
	if outcome.RequestID != "hr-1" {
		t.Errorf("request ID = %q, want hr-1", outcome.RequestID)
	}
}

func TestEscalate_ResolvedAfterSeveralPolls(t *testing.T) {
	store := &fakeStore{resolveAt: 4, answer: "Bridal packages start at ₹15000."}
	c := newTestCoordinator(store)

	outcome, err := c.Escalate(context.Background(), Request{Question: "bridal pricing"})
	if err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	if outcome.Answer != store.answer {
		t.Errorf("answer = %q, want supervisor answer", outcome.Answer)
	}
	if store.getCalls < 4 {
		t.Errorf("polled %d times, want at least 4", store.getCalls)
	}
}

func TestEscalate_ResolvedWithEmptyAnswer(t *testing.T) {
	// Resolution alone ends the wait; a supervisor closing the request
	// without a response must not leave the caller holding until timeout.
	store := &fakeStore{resolveAt: 1, answer: ""}
	c := newTestCoordinator(store)

	outcome, err := c.Escalate(context.Background(), Request{Question: "q"})
	if err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	if outcome.TimedOut {
		t.Error("resolved request polled to timeout")
	}
	if outcome.Answer != "" {
		t.Errorf("answer = %q, want empty", outcome.Answer)
	}
	if store.getCalls != 1 {
		t.Errorf("polled %d times, want 1", store.getCalls)
	}
}

func TestEscalate_TimesOutWithoutAnswer(t *testing.T) {
	store := &fakeStore{} // never resolves
	c := newTestCoordinator(store)

	outcome, err := c.Escalate(context.Background(), Request{Question: "unanswerable"})
	if err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	if !outcome.TimedOut {
		t.Fatal("outcome does not report timeout")
	}
	if outcome.Answer != "" {
		t.Errorf("timed-out outcome carries answer %q", outcome.Answer)
	}
	if outcome.Elapsed < 50*time.Millisecond {
		t.Errorf("elapsed = %v, want at least the wait ceiling", outcome.Elapsed)
	}
	// Interval 1ms, ceiling 50ms: roughly one poll per interval
	if store.getCalls < 10 {
		t.Errorf("polled %d times before ceiling, want many", store.getCalls)
	}
}

func TestEscalate_CreateFailure(t *testing.T) {
	store := &fakeStore{createErr: ErrCreateFailed}
	c := newTestCoordinator(store)

	outcome, err := c.Escalate(context.Background(), Request{Question: "q"})
	if outcome != nil {
		t.Errorf("outcome = %+v, want nil on create failure", outcome)
	}
	if !errors.Is(err, ErrCreateFailed) {
		t.Errorf("err = %v, want ErrCreateFailed in chain", err)
	}
	if store.getCalls != 0 {
		t.Error("polled despite create failure")
	}
}

func TestEscalate_TransientPollFailureTolerated(t *testing.T) {
	store := &fakeStore{
		getErr:     errors.New("helpdesk hiccup"),
		getErrOnce: true,
		resolveAt:  2,
		answer:     "answered after the hiccup",
	}
	c := newTestCoordinator(store)

	outcome, err := c.Escalate(context.Background(), Request{Question: "q"})
	if err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	if outcome.Answer != store.answer {
		t.Errorf("answer = %q, want answer despite transient failure", outcome.Answer)
	}
}

func TestEscalate_ContextCancellation(t *testing.T) {
	store := &fakeStore{} // never resolves
	c := NewCoordinator(store, time.Millisecond, time.Minute, log.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	outcome, err := c.Escalate(ctx, Request{Question: "q"})
	if outcome != nil {
		t.Errorf("outcome = %+v, want nil on cancellation", outcome)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled in chain", err)
	}
}

func TestEscalate_ForwardsRequestFields(t *testing.T) {
	store := &fakeStore{resolveAt: 1, answer: "ok"}
	c := newTestCoordinator(store)

	req := Request{
		Question:    "do you pierce ears",
		CallerName:  "Asha",
		CallerPhone: "+91 98x",
		Context:     "Caller: do you pierce ears",
		SessionID:   "sess-1",
	}
	if _, err := c.Escalate(context.Background(), req); err != nil {
		t.Fatalf("Escalate: %v", err)
	}

	if len(store.created) != 1 || store.created[0] != req {
		t.Errorf("created = %+v, want the request forwarded intact", store.created)
	}
}

func TestNewCoordinator_Defaults(t *testing.T) {
	c := NewCoordinator(&fakeStore{}, 0, 0, nil)

	if c.interval != DefaultPollInterval {
		t.Errorf("interval = %v, want default", c.interval)
	}
	if c.maxWait != DefaultMaxWait {
		t.Errorf("maxWait = %v, want default", c.maxWait)
	}
}

func TestEscalate_ErrorMentionsEscalation(t *testing.T) {
	store := &fakeStore{createErr: errors.New("boom")}
	c := newTestCoordinator(store)

	_, err := c.Escalate(context.Background(), Request{Question: "q"})
	if err == nil || !strings.Contains(err.Error(), "escalation failed") {
		t.Errorf("err = %v, want wrapped escalation error", err)
	}
}
