package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luxevoice/frontdesk/internal/agent"
	"github.com/luxevoice/frontdesk/internal/app"
	"github.com/luxevoice/frontdesk/internal/config"
	"github.com/luxevoice/frontdesk/internal/log"
)

// newCallCmd creates the interactive call command. Each line on stdin is
// one caller utterance; the session decides per utterance whether to
// answer, defer to the model, or escalate.
func newCallCmd(cfg *config.Config, logger log.Logger) *cobra.Command {
	var phone string

	cmd := &cobra.Command{
		Use:   "call",
		Short: "Run an interactive call session on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, cfg, logger, phone)
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "caller phone number for callbacks")

	return cmd
}

func runCall(cmd *cobra.Command, cfg *config.Config, logger log.Logger, phone string) error {
	ctx := cmd.Context()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}
	defer func() { _ = a.Close() }()

	session := a.NewSession(phone)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, agent.Greeting)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "/bye" {
			break
		}

		reply := session.HandleUtterance(ctx, text)

		if reply.HoldNotice != "" {
			fmt.Fprintln(out, reply.HoldNotice)
		}
		switch {
		case reply.Text != "":
			fmt.Fprintln(out, reply.Text)
		case reply.Decision == agent.DecisionUseAsContext:
			// Without a live LLM in the loop, surface the context the
			// model would receive
			fmt.Fprintln(out, "[context for model]")
			fmt.Fprintln(out, reply.Context)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintln(out, "Thank you for calling. Goodbye!")
	return nil
}
