package agent

import (
	"strings"
	"testing"

	"github.com/luxevoice/frontdesk/internal/knowledge"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		matches []knowledge.Match
		want    Decision
	}{
		{
			name: "high confidence answers directly",
			matches: []knowledge.Match{
				{ID: "a", Score: 0.9, Confidence: knowledge.ConfidenceHigh},
			},
			want: DecisionAnswer,
		},
		{
			name: "medium confidence becomes context",
			matches: []knowledge.Match{
				{ID: "a", Score: 0.6, Confidence: knowledge.ConfidenceMedium},
				{ID: "b", Score: 0.58, Confidence: knowledge.ConfidenceMedium},
			},
			want: DecisionUseAsContext,
		},
		{
			name: "low confidence escalates",
			matches: []knowledge.Match{
				{ID: "a", Score: 0.3, Confidence: knowledge.ConfidenceLow},
			},
			want: DecisionEscalate,
		},
		{
			name: "no matches escalates",
			want: DecisionEscalate,
		},
		{
			name: "only the top match counts",
			matches: []knowledge.Match{
				{ID: "a", Score: 0.8, Confidence: knowledge.ConfidenceHigh},
				{ID: "b", Score: 0.3, Confidence: knowledge.ConfidenceLow},
			},
			want: DecisionAnswer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, best := Decide(tt.matches)
			if got != tt.want {
				t.Errorf("Decide = %v, want %v", got, tt.want)
			}
			if len(tt.matches) == 0 && best != nil {
				t.Errorf("best = %+v, want nil for no matches", best)
			}
			if len(tt.matches) > 0 && (best == nil || best.ID != tt.matches[0].ID) {
				t.Errorf("best = %+v, want top match", best)
			}
		})
	}
}

func TestFormatMatches(t *testing.T) {
	matches := []knowledge.Match{
		{Question: "Do you have parking?", Answer: "Yes, valet parking.", Score: 0.82},
		{Question: "What are your hours?", Answer: "10am to 8pm.", Score: 0.6},
	}

	got := FormatMatches(matches)

	for _, want := range []string{
		"Here is relevant information from the knowledge base:",
		"1. Q: Do you have parking?",
		"   A: Yes, valet parking.",
		"   (Relevance: 0.82)",
		"2. Q: What are your hours?",
		"Use this information to inform your response.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatMatches missing %q:\n%s", want, got)
		}
	}
}

func TestFormatMatches_Empty(t *testing.T) {
	if got := FormatMatches(nil); got != "" {
		t.Errorf("FormatMatches(nil) = %q, want empty", got)
	}
}
