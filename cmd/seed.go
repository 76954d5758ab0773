package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/luxevoice/frontdesk/internal/app"
	"github.com/luxevoice/frontdesk/internal/config"
	"github.com/luxevoice/frontdesk/internal/knowledge"
	"github.com/luxevoice/frontdesk/internal/log"
	"github.com/luxevoice/frontdesk/internal/vectorindex"
)

// seedFile is the on-disk format consumed by the seed command.
type seedFile struct {
	Entries []seedEntry `json:"entries"`

	// BusinessContext, when present, is stored as the single master
	// record the context cache looks up at runtime.
	BusinessContext *knowledge.BusinessContext `json:"businessContext,omitempty"`
}

type seedEntry struct {
	ID       string   `json:"id,omitempty"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Type     string   `json:"type,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// newSeedCmd creates the seed command, which embeds and upserts knowledge
// entries from a JSON file.
func newSeedCmd(cfg *config.Config, logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.json>",
		Short: "Embed and load knowledge entries into the vector index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), cfg, logger, args[0], cmd.OutOrStdout())
		},
	}
}

func runSeed(ctx context.Context, cfg *config.Config, logger log.Logger, path string, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parsing seed file: %w", err)
	}

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}
	defer func() { _ = a.Close() }()

	if a.Index == nil || a.Embedder == nil {
		return fmt.Errorf("retrieval subsystem unavailable, cannot seed")
	}

	entries, err := buildIndexEntries(ctx, a, seed)
	if err != nil {
		return err
	}

	if err := a.Index.Upsert(ctx, entries); err != nil {
		return fmt.Errorf("seeding index: %w", err)
	}

	total, err := a.Index.Count(ctx)
	if err != nil {
		return fmt.Errorf("verifying seed: %w", err)
	}

	fmt.Fprintf(out, "Seeded %d entries (%d total in index)\n", len(entries), total)
	return nil
}

// buildIndexEntries embeds every seed record. The business context record
// gets the sentinel question and its JSON payload as the answer, matching
// what the runtime cache expects.
func buildIndexEntries(ctx context.Context, a *app.App, seed seedFile) ([]vectorindex.Entry, error) {
	var entries []vectorindex.Entry

	for _, e := range seed.Entries {
		if e.Question == "" || e.Answer == "" {
			return nil, fmt.Errorf("seed entry missing question or answer: %+v", e)
		}

		entryType := e.Type
		if entryType == "" {
			entryType = "learned_answer"
		}
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}

		content := e.Question + "\n" + e.Answer
		vector, err := knowledge.EmbedText(ctx, a.Embedder, content)
		if err != nil {
			return nil, fmt.Errorf("embedding %q: %w", e.Question, err)
		}

		entries = append(entries, vectorindex.Entry{
			ID:        id,
			Content:   content,
			Embedding: vector,
			Metadata: map[string]string{
				"question": e.Question,
				"answer":   e.Answer,
				"type":     entryType,
				"tags":     strings.Join(e.Tags, ","),
				"isActive": "true",
			},
		})
	}

	if seed.BusinessContext != nil {
		payload, err := json.Marshal(seed.BusinessContext)
		if err != nil {
			return nil, fmt.Errorf("marshaling business context: %w", err)
		}

		vector, err := knowledge.EmbedText(ctx, a.Embedder, knowledge.MasterContextQuestion)
		if err != nil {
			return nil, fmt.Errorf("embedding business context sentinel: %w", err)
		}

		entries = append(entries, vectorindex.Entry{
			ID:        "master-business-context",
			Content:   knowledge.MasterContextQuestion,
			Embedding: vector,
			Metadata: map[string]string{
				"question": knowledge.MasterContextQuestion,
				"answer":   string(payload),
				"type":     knowledge.TypeBusinessContext,
				"tags":     "business_context",
				"isActive": "true",
			},
		})
	}

	return entries, nil
}
