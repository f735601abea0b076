package mocks

import (
	"context"

	"github.com/rpggio/hostboard/internal/domain/fees"
	"github.com/rpggio/hostboard/internal/domain/roster"
	"github.com/stretchr/testify/mock"
)

// RosterSource is a mock for roster.Source.
type RosterSource struct {
	mock.Mock
}

func (m *RosterSource) FetchRoster(ctx context.Context, accountSlug string) (*roster.FetchResult, error) {
	args := m.Called(ctx, accountSlug)
	if res, ok := args.Get(0).(*roster.FetchResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

// FeeSource is a mock for fees.Source.
type FeeSource struct {
	mock.Mock
}

func (m *FeeSource) FetchHost(ctx context.Context, hostSlug string) (*fees.Host, error) {
	args := m.Called(ctx, hostSlug)
	if host, ok := args.Get(0).(*fees.Host); ok {
		return host, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FeeSource) FetchFees(ctx context.Context, q fees.Query) (*fees.FetchResult, error) {
	args := m.Called(ctx, q)
	if res, ok := args.Get(0).(*fees.FetchResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}
