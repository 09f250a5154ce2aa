package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/drivesearch-mcp/internal/config"
	"github.com/dshills/drivesearch-mcp/internal/mcp"
	"github.com/dshills/drivesearch-mcp/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	bindFlag(serveCmd, config.KeyMetricsAddr, "metrics-addr")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := openApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()
	logger := a.logger

	if appCfg.RootFolderID != "" {
		if err := a.drive.Verify(ctx, appCfg.RootFolderID); err != nil {
			return err
		}
	}

	logger.Info("drivesearch MCP server starting",
		zap.String("version", version),
		zap.String("db_driver", appCfg.DBDriver),
		zap.String("root_folder_id", appCfg.RootFolderID))

	var metricsSrv *http.Server
	if appCfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		metricsSrv = &http.Server{Addr: appCfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("metrics listening", zap.String("addr", appCfg.MetricsAddr))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	server := mcp.NewServer(a.svc, logger)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Serve(ctx)
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	case err = <-errChan:
	}

	if metricsSrv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}

	logger.Info("server stopped")
	return err
}
