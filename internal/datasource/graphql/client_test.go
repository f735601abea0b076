package graphql

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpggio/hostboard/internal/domain/fees"
	"github.com/rpggio/hostboard/internal/domain/roster"
	"github.com/rpggio/hostboard/internal/repository"
	"github.com/stretchr/testify/require"
)

// stubServer answers each operation with a canned body and records the
// variables it was called with.
type stubServer struct {
	*httptest.Server
	responses map[string]string
	status    int
	lastVars  map[string]any
}

func newStub(t *testing.T, responses map[string]string) *stubServer {
	t.Helper()
	s := &stubServer{responses: responses, status: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req request
		require.NoError(t, json.Unmarshal(body, &req))
		require.NotEmpty(t, req.Query)
		s.lastVars = req.Variables

		w.WriteHeader(s.status)
		_, _ = io.WriteString(w, s.responses[req.OperationName])
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(url, time.Second)
	require.NoError(t, err)
	return c
}

func TestNewClient_ValidatesQueries(t *testing.T) {
	queries, err := loadQueries()
	require.NoError(t, err)
	require.Contains(t, queries, "Roster")
	require.Contains(t, queries, "Host")
	require.Contains(t, queries, "HostFees")

	_, err = NewClient("  ", time.Second)
	require.Error(t, err)
}

func TestRosterSource_FetchRoster(t *testing.T) {
	stub := newStub(t, map[string]string{"Roster": `{"data":{"account":{
		"id":"c1","slug":"webpack","parent":null,
		"members":{"nodes":[
			{"id":"m1","role":"ADMIN","since":"2020-01-01T00:00:00Z","description":"Founder","account":{"id":"a1","name":"Alice","slug":"alice","type":"INDIVIDUAL"}},
			null,
			{"id":"m2","role":"member","since":null,"account":{"id":"a2","slug":"bob"}}
		]},
		"memberInvitations":[{"id":"i1","role":"ADMIN","memberAccount":{"id":"a3","slug":"carol"}}]
	}}}`})

	src := NewRosterSource(newTestClient(t, stub.URL))
	res, err := src.FetchRoster(context.Background(), "webpack")
	require.NoError(t, err)
	require.Equal(t, "webpack", stub.lastVars["slug"])

	require.Len(t, res.Members, 2)
	require.Equal(t, "m1", res.Members[0].ID)
	require.Equal(t, roster.RoleAdmin, res.Members[0].Role)
	require.Equal(t, "Alice", res.Members[0].Account.Name)
	require.Equal(t, roster.RoleMember, res.Members[1].Role)
	require.True(t, res.Members[1].Since.IsZero())

	require.Len(t, res.Invitations, 1)
	require.Equal(t, "a3", res.Invitations[0].Account.ID)

	r := roster.Reconcile(res.Members, res.Invitations)
	require.Equal(t, 1, r.AdminCount)
	require.Equal(t, "collective-a3", r.Entries[2].Key)
}

func TestRosterSource_ParentAndMissing(t *testing.T) {
	stub := newStub(t, map[string]string{"Roster": `{"data":{"account":{"id":"e1","slug":"meetup","parent":{"slug":"webpack"}}}}`})
	src := NewRosterSource(newTestClient(t, stub.URL))

	res, err := src.FetchRoster(context.Background(), "meetup")
	require.NoError(t, err)
	require.Equal(t, "webpack", res.ParentSlug)

	stub.responses["Roster"] = `{"data":{"account":null}}`
	_, err = src.FetchRoster(context.Background(), "ghost")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFeeSource_FetchFees(t *testing.T) {
	stub := newStub(t, map[string]string{"HostFees": `{"data":{"host":{
		"slug":"osc","createdAt":"2019-05-01T00:00:00Z","currency":"USD",
		"hostMetricsTimeSeries":{
			"hostFees":{"nodes":[{"date":"2023-01-01T00:00:00Z","amount":{"value":10,"valueInCents":1000,"currency":"USD"}}]},
			"hostFeeShare":{"nodes":[
				{"date":"2023-01-01T00:00:00Z","settlementStatus":"OWED","amount":{"value":1,"valueInCents":100,"currency":"USD"}},
				null
			]}
		}
	}}}`})

	src := NewFeeSource(newTestClient(t, stub.URL))
	from, to := fees.YearRange(2023)
	res, err := src.FetchFees(context.Background(), fees.Query{HostSlug: "osc", From: from, To: to})
	require.NoError(t, err)
	require.Equal(t, "2023-01-01T00:00:00Z", stub.lastVars["dateFrom"])
	require.Equal(t, "2023-12-31T23:59:59Z", stub.lastVars["dateTo"])

	require.Equal(t, "2019-05-01T00:00:00Z", res.HostCreatedAt)
	require.Equal(t, "USD", res.HostCurrency)
	require.Len(t, res.HostFees, 1)
	require.Equal(t, int64(1000), res.HostFees[0].Amount.ValueInCents)
	require.Len(t, res.FeeShare, 1)
	require.Equal(t, "OWED", res.FeeShare[0].Status)
}

func TestFeeSource_FetchHost(t *testing.T) {
	stub := newStub(t, map[string]string{"Host": `{"data":{"host":{"slug":"osc","createdAt":"2019-05-01T00:00:00Z","currency":"EUR"}}}`})
	src := NewFeeSource(newTestClient(t, stub.URL))

	host, err := src.FetchHost(context.Background(), "osc")
	require.NoError(t, err)
	require.Equal(t, "EUR", host.Currency)

	stub.responses["Host"] = `{"data":{"host":null}}`
	_, err = src.FetchHost(context.Background(), "ghost")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestClient_UpstreamErrors(t *testing.T) {
	stub := newStub(t, map[string]string{"Host": `{"errors":[{"message":"rate limited"}],"data":null}`})
	src := NewFeeSource(newTestClient(t, stub.URL))

	_, err := src.FetchHost(context.Background(), "osc")
	require.ErrorIs(t, err, ErrUpstream)
	require.ErrorIs(t, err, repository.ErrUnavailable)
	require.Contains(t, err.Error(), "rate limited")

	stub.status = http.StatusBadGateway
	_, err = src.FetchHost(context.Background(), "osc")
	require.ErrorIs(t, err, ErrUpstream)

	stub.status = http.StatusOK
	stub.responses["Host"] = `not json`
	_, err = src.FetchHost(context.Background(), "osc")
	require.ErrorIs(t, err, ErrUpstream)
}
