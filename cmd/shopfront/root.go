package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hyperengineering/shopfront/internal/api"
	"github.com/hyperengineering/shopfront/internal/assist"
	"github.com/hyperengineering/shopfront/internal/catalog"
	"github.com/hyperengineering/shopfront/internal/config"
	"github.com/hyperengineering/shopfront/internal/storefront"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "shopfront",
	Short: "Shopfront - AI-assisted storefront service",
	RunE:  run,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func run(cmd *cobra.Command, args []string) error {
	// 1. Signal handling
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// 2. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("configuration loaded")

	// 3. Initialize logger
	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)
	slog.Info("logger initialized", "level", cfg.Log.Level)

	// 4. Open the catalog database (migrations seed it) and load the
	// catalog once; it is immutable for the rest of the process.
	src, err := catalog.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer src.Close()

	cat, err := catalog.LoadFrom(ctx, src)
	if err != nil {
		return err
	}
	slog.Info("catalog loaded", "path", cfg.Database.Path, "products", cat.Len())

	// 5. Initialize AI gateways. A missing key is allowed: the search
	// falls back locally and the summary reports the missing credential.
	gateway := assist.NewOpenAI(cfg.Assist.APIKey, cfg.Assist.Model)
	if cfg.Assist.APIKey == "" {
		slog.Warn("no OPENAI_API_KEY set, AI features will degrade to fallbacks")
	}
	slog.Info("assist gateway initialized", "model", cfg.Assist.Model)

	// 6. Build the storefront service and HTTP router
	service := storefront.New(cat, gateway, gateway, logger)
	handler := api.NewHandler(service, gateway.ModelName(), cfg.Auth.APIKey, Version)
	router := api.NewRouter(handler)
	slog.Info("router initialized")

	// 7. Configure HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	// 8. Start HTTP server in goroutine
	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected error when Shutdown() is called
		// gracefully. Any other error indicates an actual server failure.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	// 9. Block until signal received
	<-ctx.Done()
	slog.Info("shutdown initiated")

	// 10. Graceful shutdown sequence
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// newLogger builds the process logger from config.
func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
