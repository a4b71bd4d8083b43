package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/tutorpro/internal/logger"
	"github.com/abhisek/tutorpro/internal/modes"
	"github.com/abhisek/tutorpro/internal/observability"
	"github.com/abhisek/tutorpro/internal/render"
	"github.com/abhisek/tutorpro/internal/tutor"
)

var askCmd = &cobra.Command{
	Use:   "ask <topic>",
	Short: "Ask the tutor once and print the response",
	Example: `  tutorpro ask photosynthesis
  tutorpro ask --mode quiz --answers "binary search"
  tutorpro ask -m flashcards --json "french verbs"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modeArg, _ := cmd.Flags().GetString("mode")
		mode, err := modes.Parse(modeArg)
		if err != nil {
			return err
		}
		topic := strings.TrimSpace(strings.Join(args, " "))

		log, err := quietLogger(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx := cmd.Context()
		stopTracing := startTracing(ctx, log)
		defer flush(stopTracing, log)

		b, err := buildBackend(ctx, cmd, log, buildOpts{allowRemote: true})
		if err != nil {
			return err
		}
		defer b.Close()

		resp, err := b.svc.GetTutorResponse(ctx, topic, mode)
		if err != nil {
			te := tutor.AsError(err)
			log.Debug("tutor request failed", "kind", te.Kind, "error", err)
			return errors.New(te.Message)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}

		width, _ := cmd.Flags().GetInt("width")
		term := render.NewTerminal(width)
		all, _ := cmd.Flags().GetBool("reveal")
		term.Reveal.Hints, _ = cmd.Flags().GetBool("hints")
		term.Reveal.Answers, _ = cmd.Flags().GetBool("answers")
		term.Reveal.Backs, _ = cmd.Flags().GetBool("backs")
		if all {
			term.Reveal = render.Reveal{Hints: true, Answers: true, Backs: true}
		}
		_, err = lipgloss.Fprintln(cmd.OutOrStdout(), render.Response(term, resp))
		return err
	},
}

func init() {
	askCmd.Flags().StringP("mode", "m", string(modes.Default), "Learning mode (see tutorpro modes)")
	askCmd.Flags().Int("width", 80, "Wrap width in columns")
	askCmd.Flags().Bool("hints", false, "Show quiz hints")
	askCmd.Flags().Bool("answers", false, "Show quiz answers")
	askCmd.Flags().Bool("backs", false, "Show flashcard backs")
	askCmd.Flags().Bool("reveal", false, "Show hints, answers and flashcard backs")
	askCmd.Flags().Bool("json", false, "Print the validated response as JSON")
}

// quietLogger discards logs unless --log or TUTOR_LOG asks for them, so
// one-shot output stays clean.
func quietLogger(cmd *cobra.Command) (*logger.Logger, error) {
	mode, _ := cmd.Flags().GetString("log")
	if mode == "" && os.Getenv("TUTOR_LOG") == "" {
		return logger.Nop(), nil
	}
	return newLogger(cmd)
}

// startTracing initialises OpenTelemetry when OTEL_ENABLED is set.
func startTracing(ctx context.Context, log *logger.Logger) func(context.Context) error {
	return observability.Init(ctx, log, observability.Config{
		ServiceName: "tutorpro",
		Environment: os.Getenv("TUTOR_ENV"),
		Version:     version,
	})
}

func flush(stop func(context.Context) error, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := stop(ctx); err != nil {
		log.Warn("trace flush failed", "error", err)
	}
}
