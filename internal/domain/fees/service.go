package fees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rpggio/hostboard/internal/repository"
)

// maxTrackedViews bounds how many per-host aggregators are kept.
const maxTrackedViews = 512

// Service builds fee chart views.
type Service struct {
	source      Source
	localize    LocalizerFunc
	aggregators *lru.Cache[string, *Aggregator]
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used to pick the current year.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocalizer sets how labels and amounts are localized.
func WithLocalizer(f LocalizerFunc) Option {
	return func(s *Service) { s.localize = f }
}

// NewService creates a new fee service.
func NewService(source Source, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	aggregators, _ := lru.New[string, *Aggregator](maxTrackedViews)
	s := &Service{
		source:      source,
		aggregators: aggregators,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.localize == nil {
		s.localize = func(string) Localizer { return plainLocalizer{} }
	}
	return s
}

// Years lists the years a host can be charted for.
func (s *Service) Years(ctx context.Context, hostSlug string) (*YearsView, error) {
	hostSlug = strings.TrimSpace(hostSlug)
	if hostSlug == "" {
		return nil, ErrInvalidInput
	}

	host, err := s.source.FetchHost(ctx, hostSlug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHostNotFound
		}
		return nil, fmt.Errorf("fetching host: %w", err)
	}

	now := s.now()
	return &YearsView{
		HostSlug: hostSlug,
		Years:    AvailableYears(host.CreatedAt, now),
		Default:  now.UTC().Year(),
	}, nil
}

// Series fetches and aggregates one host year.
func (s *Service) Series(ctx context.Context, req SeriesRequest) (*SeriesView, error) {
	hostSlug := strings.TrimSpace(req.HostSlug)
	if hostSlug == "" || req.Year < 0 {
		return nil, ErrInvalidInput
	}

	now := s.now()
	year := req.Year
	if year == 0 {
		year = now.UTC().Year()
	}
	if year > now.UTC().Year() {
		return nil, fmt.Errorf("%w: %d", ErrYearOutOfRange, year)
	}

	from, to := YearRange(year)
	res, err := s.source.FetchFees(ctx, Query{HostSlug: hostSlug, From: from, To: to})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHostNotFound
		}
		return nil, fmt.Errorf("fetching fees: %w", err)
	}

	years := AvailableYears(res.HostCreatedAt, now)
	if !containsYear(years, year) {
		return nil, fmt.Errorf("%w: %d", ErrYearOutOfRange, year)
	}

	loc := s.localize(req.Locale)
	ys, cached := s.aggregator(hostSlug, req.Locale, loc).Aggregate(res.HostFees, res.FeeShare)
	ys.Year = year
	ys.Currency = res.HostCurrency

	s.logger.Debug("fee series aggregated",
		"host", hostSlug,
		"year", year,
		"host_fees", len(res.HostFees),
		"settlements", len(res.FeeShare),
		"statuses", len(ys.Statuses),
		"cached", cached,
	)

	return &SeriesView{
		HostSlug:       hostSlug,
		AvailableYears: years,
		Series:         ys,
		Chart:          BuildChart(ys, loc),
	}, nil
}

func (s *Service) aggregator(hostSlug, locale string, labels Labeler) *Aggregator {
	key := hostSlug + "|" + locale
	if a, ok := s.aggregators.Get(key); ok {
		return a
	}
	a := NewAggregator(labels)
	if prev, ok, _ := s.aggregators.PeekOrAdd(key, a); ok {
		return prev
	}
	return a
}
