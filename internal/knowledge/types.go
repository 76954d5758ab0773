package knowledge

import (
	"context"
	"strings"
)

// Confidence classifies how closely a knowledge entry matched the caller's
// question. The agent answers directly on high confidence, feeds medium
// matches to the LLM as context, and escalates on low.
type Confidence string

// Confidence levels.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Thresholds maps similarity scores to confidence levels.
// Values come from configuration; see config.DefaultConfidenceHigh.
type Thresholds struct {
	High   float32
	Medium float32
}

// Classify returns the confidence level for a similarity score.
// High iff score >= High, medium iff Medium <= score < High, else low.
func (t Thresholds) Classify(score float32) Confidence {
	switch {
	case score >= t.High:
		return ConfidenceHigh
	case score >= t.Medium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Match is a single knowledge-base hit, immutable once produced.
type Match struct {
	ID         string
	Question   string
	Answer     string
	Type       string
	Tags       []string
	Score      float32
	Confidence Confidence
}

// Metadata keys stored alongside each vector in the index.
const (
	metaQuestion = "question"
	metaAnswer   = "answer"
	metaType     = "type"
	metaTags     = "tags"
)

// RawMatch is what the vector index returns before domain mapping.
// Metadata is validated at this boundary; internal components only ever see
// the typed Match.
type RawMatch struct {
	ID       string
	Score    float32
	Metadata map[string]string
}

// Filter restricts a vector index query by metadata predicates.
// Zero-value fields are not applied.
type Filter struct {
	// IsActive filters on the entry's active flag.
	IsActive *bool
	// Question filters on exact question text (used for the master
	// business-context record).
	Question string
	// Type filters on entry type, e.g. "business_context".
	Type string
	// Tags matches entries carrying any of the given tags.
	Tags []string
}

// Index is the vector index capability, defined by the consumer.
// Implementations rank by similarity, best first, with scores in [0, 1].
type Index interface {
	Query(ctx context.Context, vector []float32, topK int, filter Filter, includeMetadata bool) ([]RawMatch, error)
}

// matchFromRaw maps an index hit to the domain Match, splitting the
// comma-joined tag list and classifying confidence.
func matchFromRaw(raw RawMatch, t Thresholds) Match {
	var tags []string
	if s := raw.Metadata[metaTags]; s != "" {
		for _, tag := range strings.Split(s, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	return Match{
		ID:         raw.ID,
		Question:   raw.Metadata[metaQuestion],
		Answer:     raw.Metadata[metaAnswer],
		Type:       raw.Metadata[metaType],
		Tags:       tags,
		Score:      raw.Score,
		Confidence: t.Classify(raw.Score),
	}
}
