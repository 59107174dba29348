// Package cmd - serve command
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quote-engine/adapters/contact"
	"quote-engine/adapters/storage"
	"quote-engine/api"
	"quote-engine/internal/config"
	"quote-engine/internal/logging"
)

var (
	serveAddr    string
	serveNoStore bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quote API over HTTP",
	Long: `Serve the quote API over HTTP.

Saved quote endpoints use the configured store unless --no-store is set.
Prometheus metrics are served when metrics are enabled in the config.

Examples:
  quote serve
  quote serve --addr :9090 --no-store`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveNoStore, "no-store", false, "disable the saved quote endpoints")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	logger := logging.Named("server")

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	calc := cfg.NewCalculator()
	opts := api.Options{
		Version:    Version,
		Calculator: calc,
		Contact:    contact.NewBuilder(cfg.Contact, calc.Engine().Factors()),
	}

	if !serveNoStore {
		store, err := storage.Open(cfg.Storage)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Store = store
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = api.NewMetrics("quote_engine")
		opts.MetricsPath = cfg.Metrics.Path
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      api.NewServer(opts),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", addr),
			zap.Bool("storage", opts.Store != nil),
			zap.Bool("metrics", opts.Metrics != nil),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Quote engine v%s listening on %s\n", Version, addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down HTTP server: %w", err)
	}
	return nil
}
