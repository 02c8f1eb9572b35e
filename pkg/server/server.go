package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/KyleBrandon/cocalc/internal/config"
	"github.com/KyleBrandon/cocalc/internal/database"
	"github.com/KyleBrandon/cocalc/pkg/cocalc"
	"github.com/KyleBrandon/cocalc/pkg/document/manager"
	"github.com/KyleBrandon/cocalc/pkg/document/storage"
	"github.com/KyleBrandon/cocalc/pkg/server/service/health"
	"github.com/KyleBrandon/cocalc/pkg/server/service/latex"
)

const (
	DEFAULT_SERVER_HOST = "127.0.0.1"
	DEFAULT_SERVER_PORT = "8080"
)

type ServerConfig struct {
	mux *http.ServeMux

	// environment settings
	DatabaseURL string
	ServerHost  string
	ServerPort  string
	Settings    config.Config

	LoggerLevel *slog.LevelVar

	Client          *cocalc.Client
	DBConnection    *sql.DB
	queries         *database.Queries
	documentManager *manager.DocumentManager
}

// InitializeServer wires the CoCalc client, storage and history into the HTTP routes and serves until ctx is done.
func InitializeServer(ctx context.Context, settings config.Config, levelVar *slog.LevelVar) error {
	slog.Debug(">>InitializeServer")
	defer slog.Debug("<<InitializeServer")

	cfg, err := initializeServerConfig(ctx, settings, levelVar)
	if err != nil {
		return err
	}
	defer cfg.Close()

	listener, err := net.Listen("tcp", net.JoinHostPort(cfg.ServerHost, cfg.ServerPort))
	if err != nil {
		slog.Error("Failed to listen", "host", cfg.ServerHost, "port", cfg.ServerPort, "error", err)
		return err
	}

	return cfg.runServer(ctx, listener)
}

func initializeServerConfig(ctx context.Context, settings config.Config, levelVar *slog.LevelVar) (*ServerConfig, error) {
	slog.Debug(">>initializeServerConfig")
	defer slog.Debug("<<initializeServerConfig")

	cfg := &ServerConfig{
		Settings:    settings,
		LoggerLevel: levelVar,
		mux:         http.NewServeMux(),
	}
	cfg.readEnvironmentVariables()

	client, err := cocalc.NewFromEnv(cocalc.DefaultEnvNames())
	if err != nil {
		slog.Error("Failed to create the CoCalc client", "error", err)
		return nil, err
	}
	cfg.Client = client

	err = cfg.openDatabase(ctx)
	if err != nil {
		return nil, err
	}

	output, err := storage.BuildDocumentStorage(ctx, settings)
	if err != nil {
		cfg.Close()
		return nil, err
	}

	// a nil *Queries must not reach the interfaces below
	var history latex.HistoryStore
	var store manager.DocumentManagerStore
	if cfg.queries != nil {
		history = cfg.queries
		store = cfg.queries
	}

	cfg.documentManager = manager.New(cfg.Client, output, settings.OutputStore, store)

	health.NewHandler(cfg.mux, cfg.LoggerLevel, cfg.healthChecks())
	latex.NewHandler(cfg.mux, cfg.documentManager, history, settings.LatexCommand, settings.Temporary)

	return cfg, nil
}

func (sc *ServerConfig) readEnvironmentVariables() {
	slog.Debug(">>readEnvironmentVariables")
	defer slog.Debug("<<readEnvironmentVariables")

	sc.DatabaseURL = os.Getenv("DATABASE_URL")
	if len(sc.DatabaseURL) == 0 {
		slog.Info("no database connection string is configured, compilation history is disabled")
	}

	sc.ServerHost = os.Getenv("HOST")
	if len(sc.ServerHost) == 0 {
		sc.ServerHost = DEFAULT_SERVER_HOST
	}

	sc.ServerPort = os.Getenv("PORT")
	if len(sc.ServerPort) == 0 {
		sc.ServerPort = DEFAULT_SERVER_PORT
	}
}

func (sc *ServerConfig) healthChecks() map[string]health.Check {
	checks := map[string]health.Check{}
	if sc.DBConnection != nil {
		checks["database"] = sc.DBConnection.Ping
	}
	return checks
}

// runServer serves on listener until ctx is canceled
func (sc *ServerConfig) runServer(ctx context.Context, listener net.Listener) error {
	slog.Debug(">>runServer")
	defer slog.Debug("<<runServer")

	server := &http.Server{
		Handler:           sc.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "address", listener.Addr().String())
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		slog.Error("Server failed", "error", err)
		return err

	case <-ctx.Done():
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (sc *ServerConfig) openDatabase(ctx context.Context) error {
	if len(sc.DatabaseURL) == 0 {
		return nil
	}

	db, err := database.Open(ctx, sc.DatabaseURL)
	if err != nil {
		return err
	}

	sc.DBConnection = db
	sc.queries = database.New(db)

	return nil
}

// Close releases the database connection, if any.
func (sc *ServerConfig) Close() {
	if sc.DBConnection != nil {
		sc.DBConnection.Close()
	}
}
