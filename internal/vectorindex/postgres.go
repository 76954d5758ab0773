// Package vectorindex implements the knowledge index on PostgreSQL with the
// pgvector extension. Similarity is cosine: 1 - (embedding <=> query).
package vectorindex

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/luxevoice/frontdesk/internal/knowledge"
	"github.com/luxevoice/frontdesk/internal/log"
)

// Dimension is the embedding width the kb_entries schema is provisioned
// for. The embedder model must be configured to produce vectors of this
// size.
const Dimension = 768

// tagOverfetch widens the SQL limit when tag filtering happens in Go, so
// post-filtering still leaves enough rows to fill topK.
const tagOverfetch = 4

// Entry is a knowledge-base record for seeding.
type Entry struct {
	ID        string
	Content   string
	Embedding []float32
	Metadata  map[string]string
}

// Postgres implements knowledge.Index on a pgx connection pool.
type Postgres struct {
	pool   *pgxpool.Pool
	logger log.Logger
}

// New creates a Postgres index backed by the given pool.
func New(pool *pgxpool.Pool, logger log.Logger) *Postgres {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Postgres{pool: pool, logger: logger}
}

// Query runs a cosine-similarity search with metadata filtering.
//
// Equality predicates (isActive, question, type) are pushed into SQL as a
// JSONB containment filter. Tag filtering is any-of over a comma-joined
// metadata field, which JSONB containment cannot express, so it runs in Go
// over an over-fetched result set.
func (p *Postgres) Query(ctx context.Context, vector []float32, topK int, filter knowledge.Filter, includeMetadata bool) ([]knowledge.RawMatch, error) {
	if topK <= 0 {
		return nil, nil
	}

	filterJSON, err := json.Marshal(metadataFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata filter: %w", err)
	}

	limit := topK
	if len(filter.Tags) > 0 {
		limit = topK * tagOverfetch
	}

	rows, err := p.pool.Query(ctx, `
		SELECT id, metadata, 1 - (embedding <=> $1) AS similarity
		FROM kb_entries
		WHERE metadata @> $2
		ORDER BY embedding <=> $1
		LIMIT $3`,
		pgvector.NewVector(vector), filterJSON, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer rows.Close()

	var matches []knowledge.RawMatch
	for rows.Next() {
		var (
			id           string
			metadataJSON []byte
			similarity   float64
		)
		if err := rows.Scan(&id, &metadataJSON, &similarity); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}

		var metadata map[string]string
		if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
			p.logger.Warn("unparseable entry metadata, skipping", "id", id, "error", err)
			continue
		}

		if len(filter.Tags) > 0 && !matchesAnyTag(metadata["tags"], filter.Tags) {
			continue
		}

		match := knowledge.RawMatch{ID: id, Score: float32(similarity)}
		if includeMetadata {
			match.Metadata = metadata
		}
		matches = append(matches, match)

		if len(matches) == topK {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	return matches, nil
}

// Upsert inserts or replaces knowledge-base entries.
func (p *Postgres) Upsert(ctx context.Context, entries []Entry) error {
	for _, entry := range entries {
		metadataJSON, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for %q: %w", entry.ID, err)
		}

		_, err = p.pool.Exec(ctx, `
			INSERT INTO kb_entries (id, content, embedding, metadata)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				content = EXCLUDED.content,
				embedding = EXCLUDED.embedding,
				metadata = EXCLUDED.metadata`,
			entry.ID, entry.Content, pgvector.NewVector(entry.Embedding), metadataJSON)
		if err != nil {
			return fmt.Errorf("failed to upsert entry %q: %w", entry.ID, err)
		}

		p.logger.Debug("upserted entry", "id", entry.ID)
	}
	return nil
}

// Count returns the number of stored entries.
func (p *Postgres) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM kb_entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	return count, nil
}

// metadataFilter converts the equality predicates of a knowledge.Filter
// into the map used for JSONB containment.
func metadataFilter(filter knowledge.Filter) map[string]string {
	out := make(map[string]string)
	if filter.IsActive != nil {
		out["isActive"] = fmt.Sprintf("%t", *filter.IsActive)
	}
	if filter.Question != "" {
		out["question"] = filter.Question
	}
	if filter.Type != "" {
		out["type"] = filter.Type
	}
	return out
}

// matchesAnyTag reports whether the comma-joined metadata tag field shares
// at least one tag with the wanted set.
func matchesAnyTag(metaTags string, want []string) bool {
	if metaTags == "" {
		return false
	}
	for _, raw := range strings.Split(metaTags, ",") {
		tag := strings.TrimSpace(raw)
		for _, w := range want {
			if tag == w {
				return true
			}
		}
	}
	return false
}
