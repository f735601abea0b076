package functional_test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func newStdioSession(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()
	return newStdioSessionWithEnv(t, nil)
}

func newStdioSessionWithEnv(t *testing.T, extraEnv []string) *sdkmcp.ClientSession {
	t.Helper()

	binaryPath := "./bin/hostboard"
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		binaryPath = "../../bin/hostboard"
		if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
			t.Skip("Server binary not found. Run 'make build' first.")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	cmd := exec.CommandContext(ctx, binaryPath)
	cmd.Env = append(os.Environ(),
		"HOSTBOARD_TRANSPORT_MODE=stdio",
		"HOSTBOARD_DB_PATH=:memory:",
		"HOSTBOARD_DB_FIXTURES_PATH=../../internal/fixtures/demo.yaml",
	)
	cmd.Env = append(cmd.Env, extraEnv...)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, &sdkmcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		cancel()
		t.Fatalf("Failed to connect: %v", err)
	}

	t.Cleanup(func() {
		session.Close()
		cancel()
	})

	return session
}

func TestStdioFunctional_RosterAndFees(t *testing.T) {
	s := newStdioSession(t)

	var view rosterBody
	require.NoError(t, json.Unmarshal(callTool(t, s, "get_roster", map[string]any{"account_slug": "webpack"}), &view))
	require.Len(t, view.Roster.Entries, 3)

	var series seriesBody
	require.NoError(t, json.Unmarshal(callTool(t, s, "get_fee_series", map[string]any{
		"host_slug": "opensource",
		"year":      2023,
	}), &series))
	require.InDelta(t, 17.0, series.Series.NetProfit.Data[1], 1e-9)
}

func TestStdioFunctional_LogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "hostboard.log")
	s := newStdioSessionWithEnv(t, []string{
		"HOSTBOARD_LOG_PATH=" + logPath,
		"HOSTBOARD_LOG_LEVEL=debug",
	})

	_ = callTool(t, s, "list_fee_years", map[string]any{"host_slug": "opensource"})

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(logPath)
		if err != nil {
			return false
		}
		text := string(data)
		return strings.Contains(text, `msg="mcp traffic"`) &&
			strings.Contains(text, "stage=request") &&
			strings.Contains(text, "stage=response")
	}, 5*time.Second, 100*time.Millisecond)
}

func TestStdioFunctional_DocumentationResources(t *testing.T) {
	s := newStdioSession(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resources, err := s.ListResources(ctx, nil)
	require.NoError(t, err)

	uris := make(map[string]*sdkmcp.Resource, len(resources.Resources))
	for _, r := range resources.Resources {
		uris[r.URI] = r
	}

	for _, uri := range []string{"hostboard://docs/roster", "hostboard://docs/fees"} {
		r, ok := uris[uri]
		require.True(t, ok, "missing expected doc resource: %s", uri)
		require.NotEmpty(t, r.Name)
		require.Equal(t, "text/markdown", r.MIMEType)
		require.Greater(t, r.Size, int64(0))
	}

	read, err := s.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "hostboard://docs/fees"})
	require.NoError(t, err)
	require.NotEmpty(t, read.Contents)
	require.Equal(t, "hostboard://docs/fees", read.Contents[0].URI)
	require.Contains(t, read.Contents[0].Text, "NET_PROFIT")
}
