package knowledge

import (
	"strings"

	"github.com/luxevoice/frontdesk/internal/conversation"
)

// Keyword vocabularies for enrichment and expansion. All expansion checks
// are case-insensitive substring checks; marker checks are word-level to
// keep "it" from firing inside words like "time".
var (
	// contextualMarkers signal an anaphoric or elliptical question that
	// needs earlier conversation to make sense.
	contextualMarkers = []string{"that", "this", "it", "there", "same", "also", "too"}

	dayKeywords = []string{
		"monday", "tuesday", "wednesday", "thursday", "friday",
		"saturday", "sunday", "weekend", "weekday", "today", "tomorrow",
	}

	bookingKeywords = []string{"book", "appointment", "reserve", "slot", "visit"}

	hoursKeywords = []string{"hour", "open", "close", "timing", "time"}

	cancelKeywords = []string{"cancel", "reschedule", "postpone"}

	priceKeywords = []string{"price", "pricing", "cost", "how much", "charge", "fee", "rate"}

	// serviceNames is checked in order; order determines the order of the
	// derived "<service> pricing" sub-queries.
	serviceNames = []string{
		"haircut", "hair color", "coloring", "styling", "keratin",
		"facial", "cleanup", "bleach", "waxing", "threading",
		"manicure", "pedicure", "nail art", "bridal", "makeup", "beard",
	}
)

// minStandaloneWords is the word count below which a query is assumed to
// lean on conversation context.
const minStandaloneWords = 4

// Enricher rewrites raw caller queries before retrieval: it resolves
// context-dependent questions against recent history and expands queries
// into topic-specific sub-queries.
//
// Enricher is stateless and safe for concurrent use.
type Enricher struct {
	historyWindow int
}

// NewEnricher creates an Enricher that consults the last historyWindow
// turns when resolving context.
func NewEnricher(historyWindow int) *Enricher {
	if historyWindow <= 0 {
		historyWindow = 5
	}
	return &Enricher{historyWindow: historyWindow}
}

// Enrich combines the query with the most recent caller utterance when the
// query cannot stand alone: it contains a contextual marker ("that", "it",
// "same", …) or has fewer than four words. Otherwise the query is returned
// unchanged.
func (e *Enricher) Enrich(query string, history []conversation.Turn) string {
	if !needsContext(query) {
		return query
	}

	if len(history) > e.historyWindow {
		history = history[len(history)-e.historyWindow:]
	}

	// Most recent caller utterance, excluding the current question itself.
	// Only the newest matching turn is the current one; a verbatim repeat
	// still enriches with the earlier identical turn.
	skippedCurrent := false
	for i := len(history) - 1; i >= 0; i-- {
		turn := history[i]
		if turn.Role != conversation.RoleCaller {
			continue
		}
		if !skippedCurrent && turn.Text == query {
			skippedCurrent = true
			continue
		}
		return turn.Text + " " + query
	}

	return query
}

// needsContext reports whether the query leans on earlier conversation.
func needsContext(query string) bool {
	words := queryWords(query)
	if len(words) < minStandaloneWords {
		return true
	}

	for _, w := range words {
		for _, marker := range contextualMarkers {
			if w == marker {
				return true
			}
		}
	}
	return false
}

// queryWords lowercases and tokenizes a query, stripping edge punctuation.
func queryWords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if w := strings.Trim(f, ".,!?;:'\""); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// Expand derives topic-specific sub-queries from the (already enriched)
// query. The original query is always first; every matching rule fires, in
// listed order, each appending after the original. Rules are independent:
// a day keyword and a price keyword in the same query both contribute.
func (e *Enricher) Expand(query string) []string {
	q := strings.ToLower(query)

	hasDay := containsAny(q, dayKeywords)
	hasBooking := containsAny(q, bookingKeywords)
	hasHours := containsAny(q, hoursKeywords)
	hasCancel := containsAny(q, cancelKeywords)
	hasParking := strings.Contains(q, "parking")
	hasPrice := containsAny(q, priceKeywords)

	out := []string{query}

	if hasDay {
		switch {
		case hasBooking:
			out = append(out, "working hours schedule", "appointment booking")
		case !hasHours:
			out = append(out, "what are the working hours")
		}
	}

	if hasBooking {
		if hasCancel {
			out = append(out, "cancellation policy")
		} else {
			out = append(out, "how to book appointment")
			if hasDay {
				out = append(out, "working days schedule")
			}
		}
	}

	if hasParking {
		if hasHours {
			out = append(out, "parking availability", "facility hours")
		} else {
			out = append(out, "parking facilities")
		}
	}

	if hasPrice {
		for _, svc := range serviceNames {
			if strings.Contains(q, svc) {
				out = append(out, svc+" pricing")
			}
		}
	}

	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
