package knowledge

import (
	"context"
	"fmt"
	"sort"

	"github.com/firebase/genkit/go/ai"

	"github.com/luxevoice/frontdesk/internal/conversation"
	"github.com/luxevoice/frontdesk/internal/log"
)

// Service is the retrieval engine: it embeds queries, runs them against the
// vector index, and merges multi-query results into a ranked match list.
//
// A Service instance is process-scoped and safe for concurrent use; each
// call session invokes it independently. When construction of the retrieval
// subsystem fails at startup, use NewDisabledService so the caller-facing
// path keeps working with empty results.
type Service struct {
	index    Index
	embedder ai.Embedder
	enricher *Enricher
	cache    *ContextCache

	thresholds Thresholds
	logger     log.Logger
	disabled   bool
}

// NewService creates a retrieval Service.
func NewService(index Index, embedder ai.Embedder, cache *ContextCache, enricher *Enricher, thresholds Thresholds, logger log.Logger) *Service {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Service{
		index:      index,
		embedder:   embedder,
		enricher:   enricher,
		cache:      cache,
		thresholds: thresholds,
		logger:     logger,
	}
}

// NewDisabledService creates a Service whose every search returns empty
// results. Used when credentials or the index are unavailable at startup:
// the process still takes calls, it just never answers from the knowledge
// base.
func NewDisabledService(logger log.Logger) *Service {
	if logger == nil {
		logger = log.NewNop()
	}
	logger.Warn("knowledge retrieval disabled for process lifetime")
	return &Service{disabled: true, logger: logger}
}

// Search runs a single semantic query and returns ranked matches.
//
// Search never returns an error: embedding or index failures are logged and
// degrade to an empty result, indistinguishable from "no information".
func (s *Service) Search(ctx context.Context, query string, topK int, tags []string) []Match {
	if s.disabled {
		s.logger.Debug("search skipped, retrieval disabled")
		return nil
	}

	vector, err := EmbedText(ctx, s.embedder, query)
	if err != nil {
		s.logger.Warn("query embedding failed", "query", query, "error", err)
		return nil
	}

	active := true
	raws, err := s.index.Query(ctx, vector, topK, Filter{
		IsActive: &active,
		Tags:     tags,
	}, true)
	if err != nil {
		s.logger.Warn("index query failed", "query", query, "error", err)
		return nil
	}

	matches := make([]Match, 0, len(raws))
	for _, raw := range raws {
		matches = append(matches, matchFromRaw(raw, s.thresholds))
	}

	if len(matches) > 0 {
		s.logger.Debug("search hit",
			"query", query,
			"count", len(matches),
			"top_score", matches[0].Score,
			"top_confidence", matches[0].Confidence)
	}
	return matches
}

// SearchWithContext runs the full retrieval pipeline for a caller utterance:
// business-context lookup, query enrichment and expansion, one search per
// sub-query, and a deduplicating merge ranked by best score.
//
// If any pipeline stage fails, it falls back to a single plain Search and
// reports the business context as absent. The fallback itself cannot fail.
func (s *Service) SearchWithContext(ctx context.Context, query string, history []conversation.Turn, topK int) (*BusinessContext, []Match) {
	if s.disabled {
		return nil, nil
	}

	matches, err := s.expandedSearch(ctx, query, history, topK)
	if err != nil {
		s.logger.Error("retrieval pipeline failed, falling back to plain search",
			"query", query, "error", err)
		return nil, s.Search(ctx, query, topK, nil)
	}

	var bc *BusinessContext
	if s.cache != nil {
		bc, _ = s.cache.Get(ctx)
	}
	return bc, matches
}

// expandedSearch is the enrich → expand → search → merge pipeline. The
// recover guard keeps a heuristic bug from ever reaching the caller-facing
// path; SearchWithContext degrades to a plain search instead.
func (s *Service) expandedSearch(ctx context.Context, query string, history []conversation.Turn, topK int) (matches []Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			matches, err = nil, fmt.Errorf("retrieval pipeline panic: %v", r)
		}
	}()

	enriched := s.enricher.Enrich(query, history)
	subQueries := s.enricher.Expand(enriched)

	if len(subQueries) > 1 {
		s.logger.Debug("query expanded", "original", query, "sub_queries", len(subQueries))
	}

	merged := newMerger()
	for _, sub := range subQueries {
		merged.add(s.Search(ctx, sub, topK, nil))
	}

	return merged.ranked(topK), nil
}

// merger accumulates matches across sub-queries, keyed by match identity.
// For duplicate identities the highest score wins; the first-seen position
// is kept so equal scores rank in sub-query order.
type merger struct {
	order []Match
	seen  map[string]int
}

func newMerger() *merger {
	return &merger{seen: make(map[string]int)}
}

// add merges one sub-query's results. Re-adding identical results is a
// no-op, which makes the merge idempotent.
func (m *merger) add(matches []Match) {
	for _, match := range matches {
		idx, ok := m.seen[match.ID]
		if !ok {
			m.seen[match.ID] = len(m.order)
			m.order = append(m.order, match)
			continue
		}
		if match.Score > m.order[idx].Score {
			m.order[idx] = match
		}
	}
}

// ranked drops the master-context sentinel, sorts by score descending with
// first-seen order breaking ties, and truncates to topK.
func (m *merger) ranked(topK int) []Match {
	out := make([]Match, 0, len(m.order))
	for _, match := range m.order {
		if match.Question == MasterContextQuestion {
			continue
		}
		out = append(out, match)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}
