package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/tutorpro/internal/logger"
	"github.com/abhisek/tutorpro/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "tutorpro",
	Short: "AI tutor for any topic",
	Long:  "AI Tutor Pro: ask about any topic and learn it as an explanation, quiz, flashcards, exam, project, study plan or mind map.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnv(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TUTOR_DB env var)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional dotenv file loaded before reading configuration")
	rootCmd.PersistentFlags().String("log", "", "Log format: dev or prod (overrides TUTOR_LOG env var)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(telegramCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadEnv loads the dotenv file when it exists. Variables already present
// in the process environment win.
func loadEnv(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("env-file")
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// newLogger builds the process logger from --log, then TUTOR_LOG.
func newLogger(cmd *cobra.Command) (*logger.Logger, error) {
	mode, _ := cmd.Flags().GetString("log")
	if mode == "" {
		mode = os.Getenv("TUTOR_LOG")
	}
	return logger.New(mode)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then TUTOR_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
