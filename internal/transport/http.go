package transport

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Config wires the HTTP API.
type Config struct {
	Rosters RosterService
	Fees    FeeService
	// MCP is mounted at /mcp when set.
	MCP    http.Handler
	Logger *slog.Logger
}

// NewServer creates the HTTP router with middleware.
func NewServer(cfg Config) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logging(logger))

	r.GET("/health", handleHealth)

	api := r.Group("/api")
	if cfg.Rosters != nil {
		h := NewRosterHandler(cfg.Rosters)
		api.GET("/accounts/:slug/roster", h.GetRoster)
		api.GET("/accounts/:slug/roster/:key/removal", h.CheckRemoval)
	}
	if cfg.Fees != nil {
		h := NewFeeHandler(cfg.Fees)
		api.GET("/hosts/:slug/years", h.ListYears)
		api.GET("/hosts/:slug/fees", h.GetSeries)
	}

	if cfg.MCP != nil {
		r.Any("/mcp", gin.WrapH(cfg.MCP))
	}

	return r
}

func handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
