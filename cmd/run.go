package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/tutorpro/internal/app"
	"github.com/abhisek/tutorpro/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive tutor (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp builds the tutor service and launches the TUI. Logging is
// discarded while the alternate screen is up.
func runApp(cmd *cobra.Command) error {
	b, err := buildBackend(cmd.Context(), cmd, logger.Nop(), buildOpts{allowRemote: true})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Set TUTOR_GEMINI_API_KEY (or another provider key), or TUTOR_PROXY_URL to use a running backend.")
		return err
	}
	defer b.Close()

	return app.Run(b.svc)
}
