package testserver

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rpggio/hostboard/internal/datasource/cache"
	"github.com/rpggio/hostboard/internal/domain/fees"
	"github.com/rpggio/hostboard/internal/domain/roster"
	"github.com/rpggio/hostboard/internal/fixtures"
	"github.com/rpggio/hostboard/internal/labels"
	"github.com/rpggio/hostboard/internal/mcp"
	"github.com/rpggio/hostboard/internal/sqlite"
	"github.com/rpggio/hostboard/internal/transport"
	"github.com/stretchr/testify/require"
)

// Now is the fixed clock of every test server.
var Now = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

type TestServer struct {
	Server  *httptest.Server
	DB      *sqlite.DB
	Rosters *roster.Service
	Fees    *fees.Service
}

// New starts an HTTP server backed by an in-memory database seeded with the
// demo fixtures. Sources are wrapped in the cache decorator as in production.
func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	_, err = fixtures.LoadDemo(context.Background(), db)
	require.NoError(t, err)

	bundle, err := labels.LoadEmbedded()
	require.NoError(t, err)

	rosterSource := cache.NewRosterSource(sqlite.NewRosterRepository(db), cache.Config{}, nil)
	feeSource := cache.NewFeeSource(sqlite.NewFeeRepository(db), cache.Config{}, nil)

	rosterSvc := roster.NewService(rosterSource, nil)
	feeSvc := fees.NewService(feeSource, nil,
		fees.WithClock(func() time.Time { return Now }),
		fees.WithLocalizer(bundle.Localizers(labels.BaseLocale)),
	)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{Rosters: rosterSvc, Fees: feeSvc},
		Locale:   labels.BaseLocale,
	})

	gin.SetMode(gin.TestMode)
	router := transport.NewServer(transport.Config{
		Rosters: rosterSvc,
		Fees:    feeSvc,
		MCP:     mcp.NewHTTPHandler(mcpServer),
	})
	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:  server,
		DB:      db,
		Rosters: rosterSvc,
		Fees:    feeSvc,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// URL joins path onto the server address.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
