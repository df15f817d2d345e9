package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/acf-tools/startrack/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the roster processing API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("host") {
			cfg.Server.Host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}

		engine, err := newEngine()
		if err != nil {
			return err
		}
		srv, err := server.New(engine,
			server.Host(cfg.Server.Host),
			server.Port(cfg.Server.Port),
			server.Logger(logger),
			server.MaxUploadBytes(cfg.Server.MaxUploadBytes),
			server.Workers(cfg.Batch.Workers),
			server.RosterOptions(rosterOptions()),
		)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() { errc <- srv.Start() }()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("could not shut down server cleanly", zap.Error(err))
			return err
		}
		return <-errc
	},
}

func init() {
	serveCmd.Flags().String("host", "", "Host address to listen on (default from config)")
	serveCmd.Flags().Int("port", 0, "Port to listen on (default from config)")
}
