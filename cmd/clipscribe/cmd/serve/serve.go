package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"clipscribe/internal/app"
)

const shutdownGrace = 30 * time.Second

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the transcription API server",
	Long: `Start the transcription API server.

The server runs until SIGINT or SIGTERM, then drains in-flight requests
before exiting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := app.InitializeApp()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := application.Server.Start(); err != nil {
			return err
		}

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit
		application.Logger.Infow("signal received, shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return application.Server.Shutdown(ctx)
	},
}
