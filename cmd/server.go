package cmd

import (
	"context"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/config"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the dashboard HTTP server",
	Long:  `Start the HTTP server that exposes the dashboard state, the search box and direct Open-Meteo lookups.`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log.Info("Starting weather dashboard server",
		zap.String("config_path", configPath),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port),
		zap.String("location_provider", cfg.Location.Provider))

	srv, err := server.NewServer(cfg, log.Logger, tele)
	if err != nil {
		log.Error("Failed to build server", zap.Error(err))
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(cmd.Context())
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("Server error", zap.Error(err))
		}
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down server")

		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
