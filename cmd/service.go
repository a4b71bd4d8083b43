package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/tutorpro/internal/llm"
	"github.com/abhisek/tutorpro/internal/logger"
	"github.com/abhisek/tutorpro/internal/store"
	"github.com/abhisek/tutorpro/internal/tutor"
)

// backend bundles a tutor service with the resources behind it.
type backend struct {
	svc   tutor.Service
	store *store.Store
}

func (b *backend) Close() {
	if b.store != nil {
		_ = b.store.Close()
	}
}

// buildOpts selects how buildBackend wires the service.
type buildOpts struct {
	// raw builds the unvalidated passthrough service.
	raw bool
	// allowRemote lets TUTOR_PROXY_URL route requests through a backend
	// proxy instead of calling the provider in-process.
	allowRemote bool
}

// buildBackend resolves the tutor service. With TUTOR_PROXY_URL set (and
// allowRemote) the process never needs the provider credential. Otherwise a
// missing credential is an error. The event store is best effort: when it
// cannot be opened generation still works, unlogged.
func buildBackend(ctx context.Context, cmd *cobra.Command, log *logger.Logger, opts buildOpts) (*backend, error) {
	cfg, err := tutor.ConfigFromEnv()
	if err != nil {
		return nil, err
	}

	if url := strings.TrimSpace(os.Getenv("TUTOR_PROXY_URL")); url != "" && opts.allowRemote {
		log.Debug("using tutor backend", "url", url)
		return &backend{svc: tutor.NewRemote(url, tutor.WithTimeout(cfg.Timeout))}, nil
	}

	b := &backend{}
	var recorder store.EventRecorder
	if dbPath, err := resolveDBPath(cmd); err != nil {
		log.Warn("event store unavailable", "error", err)
	} else if st, err := store.Open(dbPath); err != nil {
		log.Warn("event store unavailable", "path", dbPath, "error", err)
	} else {
		b.store = st
		recorder = st.EventRepo()
	}

	provider, err := llm.NewProviderFromEnv(ctx, recorder, log)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}
	log.Debug("using provider", "model", provider.ModelID())

	if opts.raw {
		b.svc = tutor.NewRaw(provider, cfg)
	} else {
		b.svc = tutor.NewDirect(provider, cfg)
	}
	return b, nil
}
