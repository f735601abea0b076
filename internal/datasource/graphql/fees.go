package graphql

import (
	"context"
	"time"

	"github.com/rpggio/hostboard/internal/domain/fees"
	"github.com/rpggio/hostboard/internal/repository"
)

type amountNode struct {
	Value        float64 `json:"value"`
	ValueInCents int64   `json:"valueInCents"`
	Currency     string  `json:"currency"`
}

type feeNode struct {
	Date             time.Time  `json:"date"`
	Amount           amountNode `json:"amount"`
	SettlementStatus string     `json:"settlementStatus"`
}

func (n *feeNode) record() fees.MonthlyFeeRecord {
	return fees.MonthlyFeeRecord{
		Date:   n.Date,
		Amount: fees.NewAmount(n.Amount.ValueInCents, n.Amount.Currency),
	}
}

type hostNode struct {
	Slug       string `json:"slug"`
	CreatedAt  string `json:"createdAt"`
	Currency   string `json:"currency"`
	TimeSeries *struct {
		HostFees *struct {
			Nodes []*feeNode `json:"nodes"`
		} `json:"hostFees"`
		HostFeeShare *struct {
			Nodes []*feeNode `json:"nodes"`
		} `json:"hostFeeShare"`
	} `json:"hostMetricsTimeSeries"`
}

type hostData struct {
	Host *hostNode `json:"host"`
}

// FeeSource implements fees.Source.
type FeeSource struct {
	client *Client
}

// NewFeeSource creates a fee source backed by client.
func NewFeeSource(client *Client) *FeeSource {
	return &FeeSource{client: client}
}

// FetchHost fetches the host account.
func (s *FeeSource) FetchHost(ctx context.Context, hostSlug string) (*fees.Host, error) {
	var data hostData
	if err := s.client.do(ctx, "Host", map[string]any{"slug": hostSlug}, &data); err != nil {
		return nil, err
	}
	if data.Host == nil {
		return nil, repository.ErrNotFound
	}
	return &fees.Host{Slug: data.Host.Slug, CreatedAt: data.Host.CreatedAt, Currency: data.Host.Currency}, nil
}

// FetchFees fetches monthly host fee and fee-share nodes for the query range.
func (s *FeeSource) FetchFees(ctx context.Context, q fees.Query) (*fees.FetchResult, error) {
	vars := map[string]any{
		"slug":     q.HostSlug,
		"dateFrom": q.From.UTC().Format(time.RFC3339),
		"dateTo":   q.To.UTC().Format(time.RFC3339),
	}
	var data hostData
	if err := s.client.do(ctx, "HostFees", vars, &data); err != nil {
		return nil, err
	}
	if data.Host == nil {
		return nil, repository.ErrNotFound
	}

	res := &fees.FetchResult{
		HostCreatedAt: data.Host.CreatedAt,
		HostCurrency:  data.Host.Currency,
	}
	ts := data.Host.TimeSeries
	if ts == nil {
		return res, nil
	}
	if ts.HostFees != nil {
		for _, n := range ts.HostFees.Nodes {
			if n != nil {
				res.HostFees = append(res.HostFees, n.record())
			}
		}
	}
	if ts.HostFeeShare != nil {
		for _, n := range ts.HostFeeShare.Nodes {
			if n != nil {
				res.FeeShare = append(res.FeeShare, fees.SettlementRecord{
					MonthlyFeeRecord: n.record(),
					Status:           n.SettlementStatus,
				})
			}
		}
	}
	return res, nil
}
