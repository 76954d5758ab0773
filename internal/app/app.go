// Package app wires the application together: configuration, tracing,
// database, Genkit, retrieval, and escalation. Components receive their
// dependencies through constructors; nothing here is a global.
package app

import (
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/luxevoice/frontdesk/internal/agent"
	"github.com/luxevoice/frontdesk/internal/config"
	"github.com/luxevoice/frontdesk/internal/escalation"
	"github.com/luxevoice/frontdesk/internal/knowledge"
	"github.com/luxevoice/frontdesk/internal/log"
	"github.com/luxevoice/frontdesk/internal/vectorindex"
)

// App is the application container.
type App struct {
	Config *config.Config
	Logger log.Logger

	Genkit   *genkit.Genkit
	Embedder ai.Embedder
	DBPool   *pgxpool.Pool
	Index    *vectorindex.Postgres

	Knowledge   *knowledge.Service
	Helpdesk    *escalation.Client
	Coordinator *escalation.Coordinator

	otelCleanup func()
}

// NewSession creates an agent session for one incoming call.
func (a *App) NewSession(callerPhone string) *agent.Session {
	return agent.NewSession(a.Knowledge, a.Coordinator, agent.SessionConfig{
		TopK:         a.Config.TopK,
		HistoryTurns: a.Config.PromptHistoryTurns,
		CallerPhone:  callerPhone,
	}, a.Logger)
}

// Close releases all resources. Safe to call on a partially built App.
func (a *App) Close() error {
	a.Logger.Info("shutting down")

	if a.DBPool != nil {
		a.DBPool.Close()
		a.Logger.Info("database pool closed")
	}
	if a.otelCleanup != nil {
		a.otelCleanup()
	}

	return nil
}

// Compile-time checks that the concrete types satisfy the consumer seams.
var (
	_ agent.Retriever  = (*knowledge.Service)(nil)
	_ agent.Escalator  = (*escalation.Coordinator)(nil)
	_ escalation.Store = (*escalation.Client)(nil)
	_ knowledge.Index  = (*vectorindex.Postgres)(nil)
)
