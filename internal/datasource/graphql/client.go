// Package graphql implements the roster and fee data sources on top of a
// remote GraphQL API.
package graphql

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rpggio/hostboard/internal/repository"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphql
var schemaSource string

//go:embed queries/*.graphql
var queryFS embed.FS

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 8 << 20

// ErrUpstream is returned when the remote API fails or answers with errors.
var ErrUpstream = fmt.Errorf("graphql upstream error: %w", repository.ErrUnavailable)

// Client sends validated query documents to a GraphQL endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	queries    map[string]string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for endpoint. Every embedded query document is
// validated against the embedded schema.
func NewClient(endpoint string, timeout time.Duration, opts ...Option) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("graphql endpoint is required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	queries, err := loadQueries()
	if err != nil {
		return nil, err
	}

	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		queries:    queries,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// loadQueries parses the embedded schema and returns every query document
// keyed by operation name.
func loadQueries() (map[string]string, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSource})
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	entries, err := queryFS.ReadDir("queries")
	if err != nil {
		return nil, fmt.Errorf("failed to read queries: %w", err)
	}

	queries := make(map[string]string, len(entries))
	for _, entry := range entries {
		data, err := queryFS.ReadFile("queries/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read query %s: %w", entry.Name(), err)
		}
		doc, errs := gqlparser.LoadQuery(schema, string(data))
		if len(errs) > 0 {
			return nil, fmt.Errorf("invalid query %s: %w", entry.Name(), errs)
		}
		for _, op := range doc.Operations {
			queries[op.Name] = string(data)
		}
	}
	return queries, nil
}

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// do runs the named operation and decodes its data into out.
func (c *Client) do(ctx context.Context, operation string, variables map[string]any, out any) error {
	query, ok := c.queries[operation]
	if !ok {
		return fmt.Errorf("unknown operation %q", operation)
	}

	body, err := json.Marshal(request{Query: query, OperationName: operation, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUpstream, operation, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: reading %s response: %v", ErrUpstream, operation, err)
	}

	c.logger.Debug("graphql request",
		"operation", operation,
		"status", httpResp.StatusCode,
		"bytes", len(respBody),
		"duration", time.Since(start),
	)

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: unexpected status %d", ErrUpstream, operation, httpResp.StatusCode)
	}

	var resp response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", ErrUpstream, operation, err)
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("%w: %s: %s", ErrUpstream, operation, strings.Join(msgs, "; "))
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("%w: decoding %s data: %v", ErrUpstream, operation, err)
	}
	return nil
}
