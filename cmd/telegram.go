package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Run the Telegram bot front-end",
	Long: `Run the Telegram bot. Each chat keeps its own learning mode; send a
topic to get a response, /modes to list modes and /mode <name> to switch.

With TUTOR_PROXY_URL set the bot forwards requests to a running backend
proxy instead of holding the provider credential itself.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		stopTracing := startTracing(ctx, log)
		defer flush(stopTracing, log)

		b, err := buildBackend(ctx, cmd, log, buildOpts{allowRemote: true})
		if err != nil {
			log.Error("startup failed", "error", err)
			return err
		}
		defer b.Close()

		g, gctx := errgroup.WithContext(ctx)
		if err := startBot(gctx, g, b.svc, log); err != nil {
			return err
		}
		return g.Wait()
	},
}
