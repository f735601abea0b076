package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/rpggio/hostboard/internal/domain/fees"
	"github.com/rpggio/hostboard/internal/domain/roster"
)

// RosterSource caches a roster.Source by account slug.
type RosterSource struct {
	next    roster.Source
	rosters *store[*roster.FetchResult]
}

// NewRosterSource wraps next with a cache.
func NewRosterSource(next roster.Source, cfg Config, logger *slog.Logger) *RosterSource {
	return &RosterSource{next: next, rosters: newStore[*roster.FetchResult]("roster", cfg, logger)}
}

// FetchRoster returns the cached result for accountSlug or fetches it.
func (s *RosterSource) FetchRoster(ctx context.Context, accountSlug string) (*roster.FetchResult, error) {
	return s.rosters.get(ctx, accountSlug, func(ctx context.Context) (*roster.FetchResult, error) {
		return s.next.FetchRoster(ctx, accountSlug)
	})
}

// Purge drops every cached roster.
func (s *RosterSource) Purge() {
	s.rosters.purge()
}

// FeeSource caches a fees.Source by host slug and query range.
type FeeSource struct {
	next  fees.Source
	hosts *store[*fees.Host]
	fees  *store[*fees.FetchResult]
}

// NewFeeSource wraps next with a cache.
func NewFeeSource(next fees.Source, cfg Config, logger *slog.Logger) *FeeSource {
	return &FeeSource{
		next:  next,
		hosts: newStore[*fees.Host]("host", cfg, logger),
		fees:  newStore[*fees.FetchResult]("fees", cfg, logger),
	}
}

// FetchHost returns the cached host or fetches it.
func (s *FeeSource) FetchHost(ctx context.Context, hostSlug string) (*fees.Host, error) {
	return s.hosts.get(ctx, hostSlug, func(ctx context.Context) (*fees.Host, error) {
		return s.next.FetchHost(ctx, hostSlug)
	})
}

// FetchFees returns the cached fee result for q or fetches it.
func (s *FeeSource) FetchFees(ctx context.Context, q fees.Query) (*fees.FetchResult, error) {
	key := q.HostSlug + "|" + q.From.UTC().Format(time.RFC3339) + "|" + q.To.UTC().Format(time.RFC3339)
	return s.fees.get(ctx, key, func(ctx context.Context) (*fees.FetchResult, error) {
		return s.next.FetchFees(ctx, q)
	})
}

// Purge drops every cached host and fee result.
func (s *FeeSource) Purge() {
	s.hosts.purge()
	s.fees.purge()
}
