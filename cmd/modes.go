package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/tutorpro/internal/modes"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List the learning modes",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-12s  %-12s  %s\n", "Mode", "Name", "Description")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, m := range modes.All() {
			fmt.Fprintf(out, "%-12s  %-12s  %s\n", m, m.DisplayName(), m.Description())
		}
	},
}
