package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxevoice/frontdesk/internal/config"
)

// Version information (injected at build time via ldflags).
var (
	AppVersion = "0.1.0"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

// newVersionCmd creates the version command.
func newVersionCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "frontdesk %s\n", AppVersion)
			fmt.Fprintf(out, "Build Time: %s\n", BuildTime)
			fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Configuration:")
			fmt.Fprintf(out, "  Embedder: %s\n", cfg.EmbedderModel)
			fmt.Fprintf(out, "  Helpdesk: %s\n", cfg.HelpdeskBaseURL)
			fmt.Fprintf(out, "  Top-K: %d\n", cfg.TopK)
			return nil
		},
	}
}

// printVersionInfo handles the bare "version" invocation, which must work
// even when configuration cannot load.
func printVersionInfo() error {
	fmt.Printf("frontdesk %s\n", AppVersion)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)

	if key := os.Getenv("GEMINI_API_KEY"); key == "" {
		fmt.Println()
		fmt.Println("Hint: set GEMINI_API_KEY to enable knowledge retrieval")
	}
	return nil
}
