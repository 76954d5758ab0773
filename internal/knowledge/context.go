package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"golang.org/x/sync/singleflight"

	"github.com/luxevoice/frontdesk/internal/log"
)

// MasterContextQuestion is the sentinel question text of the single
// knowledge-base record that holds canonical business facts. The retrieval
// pipeline filters this record out of normal search results.
const MasterContextQuestion = "MASTER_BUSINESS_CONTEXT"

// TypeBusinessContext is the entry type of the master record.
const TypeBusinessContext = "business_context"

// BusinessContext is the structured business record parsed from the master
// entry's JSON payload. Field shapes follow the seeded record.
type BusinessContext struct {
	WorkingHours WorkingHours        `json:"workingHours"`
	Pricing      map[string]string   `json:"pricing"`
	Facilities   Facilities          `json:"facilities"`
	Location     Location            `json:"location"`
	Services     map[string][]string `json:"services"`
	Staff        Staff               `json:"staff"`
	Appointment  Appointment         `json:"appointment"`
	Policies     map[string]string   `json:"policies"`
}

// WorkingHours describes the weekly schedule.
type WorkingHours struct {
	Schedule string `json:"schedule"`
	Closed   string `json:"closed"`
	Note     string `json:"note"`
}

// Facilities describes on-site amenities.
type Facilities struct {
	Parking      Parking `json:"parking"`
	WiFi         bool    `json:"wifi"`
	Refreshments string  `json:"refreshments"`
	WaitingArea  string  `json:"waitingArea"`
}

// Parking describes parking availability.
type Parking struct {
	Available bool   `json:"available"`
	Type      string `json:"type"`
	Hours     string `json:"hours"`
	Cost      string `json:"cost"`
}

// Location describes the business address.
type Location struct {
	Address       string `json:"address"`
	Landmark      string `json:"landmark"`
	Accessibility string `json:"accessibility"`
}

// Staff lists stylists and booking notes.
type Staff struct {
	Stylists     []string `json:"stylists"`
	Availability string   `json:"availability"`
}

// Appointment describes booking and cancellation policy.
type Appointment struct {
	Booking      string `json:"booking"`
	Cancellation string `json:"cancellation"`
	Reschedule   string `json:"reschedule"`
	WalkIns      string `json:"walkIns"`
}

// PromptText renders the context as compact lines for the system prompt.
func (b *BusinessContext) PromptText() string {
	var lines []string

	if b.WorkingHours.Schedule != "" {
		lines = append(lines, "Hours: "+b.WorkingHours.Schedule)
		if b.WorkingHours.Closed != "" {
			lines = append(lines, "Closed: "+b.WorkingHours.Closed)
		}
	}
	if b.Location.Address != "" {
		lines = append(lines, "Location: "+b.Location.Address)
	}
	if b.Appointment.Booking != "" {
		lines = append(lines, "Booking: "+b.Appointment.Booking)
	}
	if b.Appointment.Cancellation != "" {
		lines = append(lines, "Cancellation: "+b.Appointment.Cancellation)
	}
	if b.Facilities.Parking.Available {
		lines = append(lines, "Parking: "+b.Facilities.Parking.Type+" ("+b.Facilities.Parking.Cost+")")
	}

	return strings.Join(lines, "\n")
}

// ContextCache fetches and memoizes the master business-context record.
//
// The fetch happens at most once per process lifetime: concurrent first
// calls converge on a single index query via singleflight, and any failure
// (record absent, embed error, unparseable payload) is cached as permanent
// absence. The cache never retries.
type ContextCache struct {
	index    Index
	embedder ai.Embedder
	logger   log.Logger

	group singleflight.Group

	mu      sync.RWMutex
	fetched bool
	record  *BusinessContext // nil means absent
}

// NewContextCache creates a ContextCache. One instance is shared by all
// calls in the process.
func NewContextCache(index Index, embedder ai.Embedder, logger log.Logger) *ContextCache {
	if logger == nil {
		logger = log.NewNop()
	}
	return &ContextCache{
		index:    index,
		embedder: embedder,
		logger:   logger,
	}
}

// Get returns the business context, fetching it on first use.
// The second return value is false when the record is absent (including
// every failure mode, which is cached and never retried).
func (c *ContextCache) Get(ctx context.Context) (*BusinessContext, bool) {
	c.mu.RLock()
	if c.fetched {
		record := c.record
		c.mu.RUnlock()
		return record, record != nil
	}
	c.mu.RUnlock()

	// Single key: all sessions want the same record
	result, _, _ := c.group.Do("master-context", func() (any, error) {
		record := c.fetch(ctx)

		c.mu.Lock()
		c.fetched = true
		c.record = record
		c.mu.Unlock()

		return record, nil
	})

	record, _ := result.(*BusinessContext)
	return record, record != nil
}

// fetch performs the one-time structured lookup. Any failure returns nil,
// which Get caches as permanent absence.
func (c *ContextCache) fetch(ctx context.Context) *BusinessContext {
	vector, err := EmbedText(ctx, c.embedder, MasterContextQuestion)
	if err != nil {
		c.logger.Error("business context fetch failed, caching absence", "error", err)
		return nil
	}

	active := true
	raws, err := c.index.Query(ctx, vector, 1, Filter{
		IsActive: &active,
		Question: MasterContextQuestion,
		Type:     TypeBusinessContext,
	}, true)
	if err != nil {
		c.logger.Error("business context query failed, caching absence", "error", err)
		return nil
	}
	if len(raws) == 0 {
		c.logger.Warn("no business context record in knowledge base")
		return nil
	}

	record, err := parseBusinessContext(raws[0].Metadata[metaAnswer])
	if err != nil {
		c.logger.Error("business context payload unparseable, caching absence",
			"id", raws[0].ID, "error", err)
		return nil
	}

	c.logger.Info("business context loaded", "id", raws[0].ID)
	return record
}

// parseBusinessContext parses the master record's JSON payload.
func parseBusinessContext(payload string) (*BusinessContext, error) {
	if payload == "" {
		return nil, fmt.Errorf("empty payload")
	}

	var record BusinessContext
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, fmt.Errorf("parsing business context: %w", err)
	}
	return &record, nil
}
