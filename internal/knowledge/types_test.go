package knowledge

import (
	"reflect"
	"testing"
)

func defaultThresholds() Thresholds {
	return Thresholds{High: 0.75, Medium: 0.55}
}

func TestThresholds_Classify(t *testing.T) {
	th := defaultThresholds()

	tests := []struct {
		score float32
		want  Confidence
	}{
		{score: 1.0, want: ConfidenceHigh},
		{score: 0.76, want: ConfidenceHigh},
		{score: 0.75, want: ConfidenceHigh}, // boundary is inclusive
		{score: 0.7499, want: ConfidenceMedium},
		{score: 0.6, want: ConfidenceMedium},
		{score: 0.55, want: ConfidenceMedium}, // boundary is inclusive
		{score: 0.5499, want: ConfidenceLow},
		{score: 0.1, want: ConfidenceLow},
		{score: 0, want: ConfidenceLow},
	}

	for _, tt := range tests {
		if got := th.Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestMatchFromRaw(t *testing.T) {
	raw := RawMatch{
		ID:    "kb-42",
		Score: 0.8,
		Metadata: map[string]string{
			"question": "Do you have parking?",
			"answer":   "Yes, complimentary valet parking.",
			"type":     "learned_answer",
			"tags":     "facilities, parking ,",
		},
	}

	got := matchFromRaw(raw, defaultThresholds())

	if got.ID != "kb-42" || got.Question != "Do you have parking?" {
		t.Errorf("identity fields not mapped: %+v", got)
	}
	if got.Confidence != ConfidenceHigh {
		t.Errorf("Confidence = %v, want high for score 0.8", got.Confidence)
	}
	if want := []string{"facilities", "parking"}; !reflect.DeepEqual(got.Tags, want) {
		t.Errorf("Tags = %v, want %v", got.Tags, want)
	}
}

func TestMatchFromRaw_NoTags(t *testing.T) {
	got := matchFromRaw(RawMatch{ID: "x", Score: 0.3, Metadata: map[string]string{}}, defaultThresholds())

	if got.Tags != nil {
		t.Errorf("Tags = %v, want nil", got.Tags)
	}
	if got.Confidence != ConfidenceLow {
		t.Errorf("Confidence = %v, want low", got.Confidence)
	}
}
