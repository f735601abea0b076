package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/hostboard/internal/config"
	"github.com/rpggio/hostboard/internal/datasource/cache"
	"github.com/rpggio/hostboard/internal/datasource/graphql"
	"github.com/rpggio/hostboard/internal/domain/fees"
	"github.com/rpggio/hostboard/internal/domain/roster"
	"github.com/rpggio/hostboard/internal/fixtures"
	"github.com/rpggio/hostboard/internal/labels"
	"github.com/rpggio/hostboard/internal/mcp"
	"github.com/rpggio/hostboard/internal/sqlite"
	"github.com/rpggio/hostboard/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	rosterSource, feeSource, closeSources, err := openSources(&cfg, logger)
	if err != nil {
		logger.Error("failed to open data source", "kind", cfg.DataSource.Kind, "error", err)
		os.Exit(1)
	}
	defer closeSources()

	bundle, err := labels.LoadEmbedded()
	if err != nil {
		logger.Error("failed to load label catalogs", "error", err)
		os.Exit(1)
	}

	cacheCfg := cache.Config{Size: cfg.DataSource.CacheSize, TTL: cfg.DataSource.CacheTTL}
	rosterSvc := roster.NewService(cache.NewRosterSource(rosterSource, cacheCfg, logger), logger)
	feeSvc := fees.NewService(cache.NewFeeSource(feeSource, cacheCfg, logger), logger,
		fees.WithLocalizer(bundle.Localizers(cfg.Labels.Locale)),
	)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Rosters: rosterSvc,
			Fees:    feeSvc,
		},
		Locale: cfg.Labels.Locale,
		Logger: logger,
	})

	if cfg.Transport.Mode == "stdio" {
		runStdioMode(logger, mcpServer)
		return
	}

	gin.SetMode(gin.ReleaseMode)
	router := transport.NewServer(transport.Config{
		Rosters: rosterSvc,
		Fees:    feeSvc,
		MCP:     mcp.NewHTTPHandler(mcpServer),
		Logger:  logger,
	})
	runHTTPMode(logger, router, cfg.Server.Host, cfg.Server.Port)
}

// openSources returns the roster and fee sources for the configured kind
// and a function releasing what they hold.
func openSources(cfg *config.Config, logger *slog.Logger) (roster.Source, fees.Source, func(), error) {
	if cfg.DataSource.Kind == "graphql" {
		client, err := graphql.NewClient(cfg.DataSource.GraphQL.Endpoint, cfg.DataSource.GraphQL.Timeout,
			graphql.WithLogger(logger),
		)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("using graphql data source", "endpoint", cfg.DataSource.GraphQL.Endpoint)
		return graphql.NewRosterSource(client), graphql.NewFeeSource(client), func() {}, nil
	}

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, nil, nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	if cfg.DB.FixturesPath != "" {
		summary, err := fixtures.LoadFile(context.Background(), db, cfg.DB.FixturesPath)
		if err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		logger.Info("fixtures loaded",
			"path", cfg.DB.FixturesPath,
			"accounts", summary.Accounts,
			"members", summary.Members,
			"invitations", summary.Invitations,
			"host_fees", summary.HostFees,
			"settlements", summary.Settlements,
		)
	}
	logger.Info("using sqlite data source", "path", cfg.DB.Path)
	return sqlite.NewRosterRepository(db), sqlite.NewFeeRepository(db), func() { _ = db.Close() }, nil
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, handler http.Handler, host string, port int) {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
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
