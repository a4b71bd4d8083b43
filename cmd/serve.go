package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/tutorpro/internal/logger"
	"github.com/abhisek/tutorpro/internal/observability"
	"github.com/abhisek/tutorpro/internal/proxy"
	"github.com/abhisek/tutorpro/internal/telegram"
	"github.com/abhisek/tutorpro/internal/tutor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the backend proxy that holds the provider credential",
	Long: `Run the HTTP backend proxy. Browser and TUI front-ends POST {"mode","topic"}
to /api/tutor and never see the provider credential.

With --telegram the Telegram bot runs in the same process and shares the
tutor service.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		cfg, err := proxy.ConfigFromEnv()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		if shape, _ := cmd.Flags().GetString("shape"); shape != "" {
			cfg.Shape = proxy.Shape(shape)
		}
		if cfg.Shape != proxy.ShapeStructured && cfg.Shape != proxy.ShapeRaw {
			return fmt.Errorf("unknown shape %q (want structured or raw)", cfg.Shape)
		}
		cfg.Tracing = observability.Enabled()
		withBot, _ := cmd.Flags().GetBool("telegram")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		stopTracing := startTracing(ctx, log)
		defer flush(stopTracing, log)

		// The proxy always calls the provider itself.
		b, err := buildBackend(ctx, cmd, log, buildOpts{raw: cfg.Shape == proxy.ShapeRaw})
		if err != nil {
			log.Error("startup failed", "error", err)
			return err
		}
		defer b.Close()

		tutorCfg, err := tutor.ConfigFromEnv()
		if err != nil {
			return err
		}
		router, err := proxy.NewRouter(b.svc, cfg, log)
		if err != nil {
			return err
		}
		srv := proxy.NewServer(router, cfg, tutorCfg.Timeout, log)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Run(gctx)
		})
		if withBot {
			if err := startBot(gctx, g, b.svc, log); err != nil {
				return err
			}
		}

		log.Info("tutorpro serving", "addr", cfg.Addr, "shape", cfg.Shape, "telegram", withBot)
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides TUTOR_ADDR, default :8080)")
	serveCmd.Flags().String("shape", "", "Response shape: structured or raw (overrides TUTOR_PROXY_SHAPE)")
	serveCmd.Flags().Bool("telegram", false, "Also run the Telegram bot (needs TELEGRAM_BOT_TOKEN)")
}

// startBot connects to Telegram and runs the bot under g.
func startBot(ctx context.Context, g *errgroup.Group, svc tutor.Service, log *logger.Logger) error {
	cfg, err := telegram.ConfigFromEnv()
	if err != nil {
		return err
	}
	api, err := telegram.Connect(cfg)
	if err != nil {
		return err
	}
	bot := telegram.New(api, svc, log.With("component", "telegram"))
	g.Go(func() error {
		return bot.Run(ctx, api, cfg.PollTimeout)
	})
	return nil
}
