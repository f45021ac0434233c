package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/issuebridge/issuebridge-server/internal/api"
	"github.com/issuebridge/issuebridge-server/internal/config"
	"github.com/issuebridge/issuebridge-server/internal/db"
	"github.com/issuebridge/issuebridge-server/internal/gitlab"
	"github.com/issuebridge/issuebridge-server/internal/logger"
	"github.com/issuebridge/issuebridge-server/internal/store"
	pkgsync "github.com/issuebridge/issuebridge-server/internal/sync"
	"github.com/issuebridge/issuebridge-server/internal/sync/coordinator"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sync server",
	Long: `Start the IssueBridge server.

The server requires a configuration file (--config) that specifies:
- Database connection parameters
- Optional HTTP Basic auth credentials for the management API
- Sync engine defaults (interval, request timeout, overlap window)

See examples/ directory for sample configurations.`,
	RunE: runServe,
}

const (
	defaultGracefulTimeout = 30 * time.Second
	serverRequestTimeout   = 60 * time.Second // Manual sync triggers run a full cycle inline
	serverReadTimeout      = 10 * time.Second
	serverWriteTimeout     = 65 * time.Second // Must be > serverRequestTimeout to let middleware handle timeout
	serverIdleTimeout      = 60 * time.Second
)

func init() {
	serveCmd.Flags().String("address", "", "Address to listen on (overrides config)")
	serveCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")

	if err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address")); err != nil {
		logger.Fatalf("Failed to bind address flag: %v", err)
	}
	if err := viper.BindPFlag("config", serveCmd.Flags().Lookup("config")); err != nil {
		logger.Fatalf("Failed to bind config flag: %v", err)
	}

	if err := serveCmd.MarkFlagRequired("config"); err != nil {
		logger.Fatalf("Failed to mark config flag as required: %v", err)
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	configPath := viper.GetString("config")
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	address := viper.GetString("address")
	if address == "" {
		address = cfg.GetAddress()
	}
	logger.Infof("Starting IssueBridge server on %s", address)

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	st := store.NewDBStore(conn.Queries)

	engine := pkgsync.NewEngine(st, trackerClientFactory(cfg),
		pkgsync.WithOverlapWindow(cfg.GetOverlapWindow()),
	)

	syncCoordinator := coordinator.New(engine, st, cfg.GetDefaultInterval())

	syncCtx, syncCancel := context.WithCancel(context.Background())
	defer syncCancel()
	go func() {
		if err := syncCoordinator.Start(syncCtx); err != nil {
			logger.Errorf("Sync coordinator failed: %v", err)
		}
	}()

	middlewares := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Timeout(serverRequestTimeout),
		api.LoggingMiddleware,
	}
	if auth := cfg.Server.Auth; auth != nil && auth.Enabled {
		logger.Info("HTTP Basic auth enabled for the management API")
		middlewares = append(middlewares, api.BasicAuthMiddleware(auth))
	}

	router := api.NewServer(st, engine, api.WithMiddlewares(middlewares...))

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	go func() {
		logger.Infof("Server listening on %s", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	if err := syncCoordinator.Stop(); err != nil {
		logger.Errorf("Failed to stop sync coordinator: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logger.Info("Server shutdown complete")
	return nil
}

// trackerClientFactory builds a GitLab client per instance record. Each
// cycle constructs fresh clients so token rotation via the API takes
// effect on the next cycle without a restart.
func trackerClientFactory(cfg *config.Config) pkgsync.ClientFactory {
	return func(inst store.Instance) (pkgsync.TrackerClient, error) {
		return gitlab.NewClient(inst.URL, inst.AccessToken,
			gitlab.WithRequestTimeout(cfg.GetRequestTimeout()),
		)
	}
}
