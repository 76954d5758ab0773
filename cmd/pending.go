package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxevoice/frontdesk/internal/config"
	"github.com/luxevoice/frontdesk/internal/escalation"
	"github.com/luxevoice/frontdesk/internal/log"
)

// newPendingCmd creates the pending command, a supervisor-side view of
// help requests still waiting for an answer.
func newPendingCmd(cfg *config.Config, logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List help requests waiting for a supervisor",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := escalation.NewClient(cfg.HelpdeskBaseURL, logger)
			if err != nil {
				return err
			}

			pending, err := client.Pending(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(pending) == 0 {
				fmt.Fprintln(out, "No pending help requests.")
				return nil
			}

			for _, hr := range pending {
				caller := hr.CallerName
				if caller == "" {
					caller = "Unknown"
				}
				fmt.Fprintf(out, "%s  [%s]  %s\n", hr.ID, caller, hr.Question)
			}
			return nil
		},
	}
}

// newResolveCmd creates the resolve command, which records a supervisor
// answer on a pending request.
func newResolveCmd(cfg *config.Config, logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <request-id> <answer>",
		Short: "Answer a pending help request as the supervisor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := escalation.NewClient(cfg.HelpdeskBaseURL, logger)
			if err != nil {
				return err
			}

			if err := client.Resolve(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Resolved %s\n", args[0])
			return nil
		},
	}
}
