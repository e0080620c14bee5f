package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/pagukapadiya/chatgpt-clone-fullstack/internal/adapters/http"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/adapters/responder"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/adapters/storage/memory"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/app/conversation"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/app/sessions"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/config"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/observability"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Run the HTTP server. Settings come from defaults, then the --config YAML file,
then environment variables (PORT, API_PREFIX, CORS_ORIGIN, CHAT_THINK_DELAY,
CHAT_SEED_DEMO, LOG_LEVEL, LOG_FILE, CHAT_TELEMETRY, CHAT_TELEMETRY_DIR).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func runServer(ctx context.Context, cfg *config.Config) error {
	logger, closeLog := observability.NewLogger(observability.LogOptions{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
	})
	defer func() { _ = closeLog() }()
	observability.SetLogger(logger)
	slog.SetDefault(logger)

	tel := observability.NoopTelemetry()
	if cfg.Telemetry {
		t, cleanup, err := observability.InitTelemetry(ctx, cfg.TelemetryDir)
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		defer cleanup()
		tel = t
		logger.Info("telemetry enabled", "dir", cfg.TelemetryDir)
	}

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}

	return serveHTTP(ctx, ln, buildHandler(cfg, tel, logger))
}

// buildHandler wires the store, responder and services behind the HTTP adapter.
func buildHandler(cfg *config.Config, tel *observability.Telemetry, logger *slog.Logger) http.Handler {
	storeOpts := []memory.Option{memory.WithLogger(logger)}
	if cfg.SeedDemoData {
		storeOpts = append(storeOpts, memory.WithDemoData())
	}
	store := memory.NewSessionStore(storeOpts...)

	chat := conversation.NewService(store, responder.NewGenerator(),
		conversation.WithThinkDelay(cfg.ThinkDelay),
		conversation.WithTelemetry(tel),
	)

	return httpadapter.NewServer(chat, sessions.NewService(store), httpadapter.Options{
		APIPrefix:  cfg.APIPrefix,
		CORSOrigin: cfg.CORSOrigin,
	})
}

// serveHTTP serves on ln until ctx is cancelled, then shuts down gracefully.
func serveHTTP(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log := observability.WithFields("component", "http_server")
	errCh := make(chan error, 1)
	go func() {
		log.Info("chat API listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
