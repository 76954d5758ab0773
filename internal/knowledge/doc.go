// Package knowledge implements the retrieval side of the frontdesk agent:
// semantic search over the salon knowledge base, heuristic query enrichment
// and expansion, and the process-wide business-context cache.
//
// The package consumes two external capabilities through narrow seams: a
// Genkit ai.Embedder for text embeddings, and the Index interface for vector
// search (implemented by internal/vectorindex). Confidence classification,
// sub-query expansion, and result merging are local and deterministic.
//
// Retrieval never surfaces errors to the caller-facing path. A failed
// embedding or index query degrades to an empty result set, which callers
// must treat as "no information".
package knowledge
