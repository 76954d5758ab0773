package escalation

import (
	"context"
	"fmt"
	"time"

	"github.com/luxevoice/frontdesk/internal/log"
)

// Default polling behavior. A supervisor answering within a call is a
// matter of minutes, so the wait ceiling is generous and the interval
// short enough to relay the answer promptly.
const (
	DefaultPollInterval = 2 * time.Second
	DefaultMaxWait      = 5 * time.Minute
)

// Store is the helpdesk surface the Coordinator needs. *Client satisfies
// it; tests substitute fakes.
type Store interface {
	Create(ctx context.Context, req Request) (string, error)
	Get(ctx context.Context, id string) (*HelpRequest, error)
}

// Coordinator files escalations and waits for supervisor answers.
//
// It holds no per-call state and is safe for concurrent use; each call
// session runs its own Escalate.
type Coordinator struct {
	store    Store
	interval time.Duration
	maxWait  time.Duration
	logger   log.Logger
}

// NewCoordinator creates a Coordinator. Non-positive durations fall back
// to the defaults.
func NewCoordinator(store Store, interval, maxWait time.Duration, logger log.Logger) *Coordinator {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Coordinator{
		store:    store,
		interval: interval,
		maxWait:  maxWait,
		logger:   logger,
	}
}

// Escalate files a help request and polls until the request resolves, the
// wait ceiling passes, or ctx is cancelled.
//
// A failure to file the request is returned as an error wrapping
// ErrCreateFailed; after filing succeeds, transient fetch failures are
// logged and polling continues. Hitting the ceiling is not an error: the
// Outcome reports TimedOut so the caller can promise a callback.
func (c *Coordinator) Escalate(ctx context.Context, req Request) (*Outcome, error) {
	id, err := c.store.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("escalation failed: %w", err)
	}

	c.logger.Info("escalated to supervisor",
		"request_id", id,
		"question", req.Question,
		"max_wait", c.maxWait)

	start := time.Now()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	deadline := time.NewTimer(c.maxWait)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("escalation wait cancelled: %w", ctx.Err())

		case <-deadline.C:
			c.logger.Warn("escalation timed out",
				"request_id", id,
				"elapsed", time.Since(start))
			return &Outcome{
				RequestID: id,
				TimedOut:  true,
				Elapsed:   time.Since(start),
			}, nil

		case <-ticker.C:
			hr, err := c.store.Get(ctx, id)
			if err != nil {
				c.logger.Warn("help request poll failed, will retry",
					"request_id", id, "error", err)
				continue
			}
			if hr.Status == StatusResolved {
				c.logger.Info("supervisor answered",
					"request_id", id,
					"elapsed", time.Since(start))
				return &Outcome{
					RequestID: id,
					Answer:    hr.Answer,
					Elapsed:   time.Since(start),
				}, nil
			}
		}
	}
}
