// Package agent turns retrieval results into per-utterance decisions and
// runs the caller-facing session loop, including the supervisor hand-off.
package agent

import (
	"fmt"
	"strings"

	"github.com/luxevoice/frontdesk/internal/knowledge"
)

// Decision is the per-utterance signal handed to the voice layer.
type Decision string

const (
	// DecisionAnswer speaks the top match's answer directly.
	DecisionAnswer Decision = "answer"

	// DecisionUseAsContext feeds the matches to the language model as
	// supporting context instead of answering verbatim.
	DecisionUseAsContext Decision = "use_as_context"

	// DecisionEscalate hands the question to a human supervisor.
	DecisionEscalate Decision = "escalate"
)

// Decide maps ranked matches to a decision based on the top confidence:
// high answers directly, medium becomes model context, low or no matches
// escalates.
func Decide(matches []knowledge.Match) (Decision, *knowledge.Match) {
	if len(matches) == 0 {
		return DecisionEscalate, nil
	}

	best := matches[0]
	switch best.Confidence {
	case knowledge.ConfidenceHigh:
		return DecisionAnswer, &best
	case knowledge.ConfidenceMedium:
		return DecisionUseAsContext, &best
	default:
		return DecisionEscalate, &best
	}
}

// FormatMatches renders matches as numbered context lines for the system
// prompt. Empty input renders as an empty string.
func FormatMatches(matches []knowledge.Match) string {
	if len(matches) == 0 {
		return ""
	}

	lines := []string{"Here is relevant information from the knowledge base:"}
	for i, match := range matches {
		lines = append(lines,
			fmt.Sprintf("\n%d. Q: %s", i+1, match.Question),
			fmt.Sprintf("   A: %s", match.Answer),
			fmt.Sprintf("   (Relevance: %.2f)", match.Score))
	}
	lines = append(lines, "\nUse this information to inform your response.")

	return strings.Join(lines, "\n")
}
