package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/hostboard/internal/domain/fees"
	"github.com/rpggio/hostboard/internal/domain/roster"
)

// RosterService defines roster operations needed by MCP.
type RosterService interface {
	Load(ctx context.Context, accountSlug string) (*roster.View, error)
	CheckRemoval(ctx context.Context, accountSlug, entryKey string) (*roster.RemovalCheck, error)
}

// FeeService defines fee operations needed by MCP.
type FeeService interface {
	Years(ctx context.Context, hostSlug string) (*fees.YearsView, error)
	Series(ctx context.Context, req fees.SeriesRequest) (*fees.SeriesView, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Rosters RosterService
	Fees    FeeService
}

// Config contains server configuration.
type Config struct {
	Services Services
	// Locale is used by fee tools when a call does not name one.
	Locale string
	Logger *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "hostboard",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(sessionMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg)

	return server
}

// NewHTTPHandler serves server over the streamable HTTP transport.
func NewHTTPHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)
}
