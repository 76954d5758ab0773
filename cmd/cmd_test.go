package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"

	"github.com/luxevoice/frontdesk/internal/app"
	"github.com/luxevoice/frontdesk/internal/config"
	"github.com/luxevoice/frontdesk/internal/knowledge"
	"github.com/luxevoice/frontdesk/internal/log"
)

func testConfig() *config.Config {
	return &config.Config{
		EmbedderModel:   "gemini-embedding-001",
		HelpdeskBaseURL: "http://localhost:3000",
		TopK:            3,
	}
}

func TestNewRootCmd_RegistersSubcommands(t *testing.T) {
	root := newRootCmd(testConfig(), log.NewNop())

	want := []string{"call", "seed", "pending", "resolve", "version"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	root := newRootCmd(testConfig(), log.NewNop())
	root.SetArgs([]string{"version"})

	var out bytes.Buffer
	root.SetOut(&out)

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "frontdesk "+AppVersion) {
		t.Errorf("version output = %q", out.String())
	}
	if !strings.Contains(out.String(), "gemini-embedding-001") {
		t.Errorf("version output missing embedder: %q", out.String())
	}
}

func TestSeedFile_Parse(t *testing.T) {
	raw := `{
		"entries": [
			{"question": "Do you have parking?", "answer": "Yes, valet.", "tags": ["facilities"]}
		],
		"businessContext": {
			"workingHours": {"schedule": "Tue-Sun 10-8"}
		}
	}`

	var seed seedFile
	if err := json.Unmarshal([]byte(raw), &seed); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(seed.Entries) != 1 || seed.Entries[0].Question != "Do you have parking?" {
		t.Errorf("entries = %+v", seed.Entries)
	}
	if seed.BusinessContext == nil || seed.BusinessContext.WorkingHours.Schedule != "Tue-Sun 10-8" {
		t.Errorf("business context = %+v", seed.BusinessContext)
	}
}

// stubEmbedder implements ai.Embedder for seed tests.
type stubEmbedder struct{}

func (stubEmbedder) Name() string { return "stub-embedder" }

func (stubEmbedder) Register(api.Registry) {}

func (stubEmbedder) Embed(ctx context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	return &ai.EmbedResponse{
		Embeddings: []*ai.Embedding{{Embedding: []float32{0.1, 0.2, 0.3}}},
	}, nil
}

func TestBuildIndexEntries_MasterRecord(t *testing.T) {
	seed := seedFile{
		BusinessContext: &knowledge.BusinessContext{
			WorkingHours: knowledge.WorkingHours{Schedule: "Tue-Sun 10-8"},
		},
	}
	a := &app.App{Embedder: stubEmbedder{}}

	entries, err := buildIndexEntries(context.Background(), a, seed)
	if err != nil {
		t.Fatalf("buildIndexEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}

	master := entries[0]
	if master.ID != "master-business-context" {
		t.Errorf("id = %q", master.ID)
	}
	if master.Metadata["question"] != knowledge.MasterContextQuestion {
		t.Errorf("question = %q, want sentinel", master.Metadata["question"])
	}
	if master.Metadata["type"] != knowledge.TypeBusinessContext {
		t.Errorf("type = %q", master.Metadata["type"])
	}
	if master.Metadata["tags"] != "business_context" {
		t.Errorf("tags = %q, want business_context", master.Metadata["tags"])
	}

	var bc knowledge.BusinessContext
	if err := json.Unmarshal([]byte(master.Metadata["answer"]), &bc); err != nil {
		t.Fatalf("answer payload does not parse: %v", err)
	}
	if bc.WorkingHours.Schedule != "Tue-Sun 10-8" {
		t.Errorf("payload schedule = %q", bc.WorkingHours.Schedule)
	}
}
