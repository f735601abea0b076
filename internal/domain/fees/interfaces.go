package fees

import (
	"context"
	"time"
)

// Source fetches host fee data.
type Source interface {
	FetchHost(ctx context.Context, hostSlug string) (*Host, error)
	FetchFees(ctx context.Context, q Query) (*FetchResult, error)
}

// Labeler resolves a human readable label for a series key.
type Labeler interface {
	SeriesLabel(key string) string
}

// Localizer resolves every locale dependent string of a fee chart.
type Localizer interface {
	Labeler
	MonthLabel(month time.Month) string
	FormatAmount(value float64, currency string) string
}

// LocalizerFunc picks a Localizer for a locale tag such as "en-US".
type LocalizerFunc func(locale string) Localizer
