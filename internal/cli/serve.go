package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"diskmosaic/internal/logging"
	"diskmosaic/internal/routes"
	"diskmosaic/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveAddr string
	serveScan string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket API",
	Long: `Starts the API server. Scans are started with POST /api/scan and
browsed with the /api/view endpoints; changes are pushed on /ws.

Examples:
  disk-mosaic serve
  disk-mosaic serve --addr 0.0.0.0:9000
  disk-mosaic serve --scan /home`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default LISTEN_ADDR or localhost:8080)")
	serveCmd.Flags().StringVar(&serveScan, "scan", "", "start scanning this directory at launch")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.ListenAddr = serveAddr
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services.InitAuthService(cfg.JWTSecret, cfg.TokenExpiry)
	services.InitWebSocketHub()
	services.StartAnalyzerTicker(cfg.TickInterval)
	defer services.StopWebSocketHub()
	defer services.StopAnalyzerTicker()

	if serveScan != "" {
		if _, err := services.StartScan(ctx, serveScan); err != nil {
			return fmt.Errorf("start scan: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           routes.NewRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("listening", zap.String("addr", cfg.ListenAddr), zap.Bool("auth_required", cfg.AuthRequired))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
