package cmd

import (
	"github.com/spf13/cobra"

	"github.com/luxevoice/frontdesk/internal/config"
	"github.com/luxevoice/frontdesk/internal/log"
)

// newRootCmd assembles the command tree. Commands are factories taking
// their dependencies explicitly, so tests can build them with fakes.
func newRootCmd(cfg *config.Config, logger log.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "frontdesk",
		Short: "AI receptionist with knowledge retrieval and supervisor escalation",
		Long: `frontdesk answers caller questions from a semantic knowledge base and
escalates what it cannot answer to a human supervisor, keeping the caller
on hold until the supervisor responds or a timeout passes.

Running frontdesk without a subcommand starts an interactive call.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, cfg, logger, "")
		},
	}

	root.AddCommand(
		newCallCmd(cfg, logger),
		newSeedCmd(cfg, logger),
		newPendingCmd(cfg, logger),
		newResolveCmd(cfg, logger),
		newVersionCmd(cfg),
	)

	return root
}
