package fees

import "time"

// Months is the length of every series.
const Months = 12

// NetProfitKey is the key of the net profit series.
const NetProfitKey = "NET_PROFIT"

// Amount is a monetary amount. Value is always ValueInCents / 100.
type Amount struct {
	ValueInCents int64   `json:"value_in_cents"`
	Value        float64 `json:"value"`
	Currency     string  `json:"currency"`
}

// NewAmount builds an Amount from minor units.
func NewAmount(cents int64, currency string) Amount {
	return Amount{ValueInCents: cents, Value: float64(cents) / 100, Currency: currency}
}

// MonthlyFeeRecord is one monthly data point. Only the month of Date is
// meaningful, evaluated in UTC.
type MonthlyFeeRecord struct {
	Date   time.Time `json:"date"`
	Amount Amount    `json:"amount"`
}

// Month returns the 0-indexed calendar month of the record.
func (r MonthlyFeeRecord) Month() int {
	return int(r.Date.UTC().Month()) - 1
}

// SettlementRecord is a fee-share settlement data point.
type SettlementRecord struct {
	MonthlyFeeRecord
	Status string `json:"status"`
}

// Series is a fixed-length monthly series in major units.
type Series struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Data  [Months]float64 `json:"data"`
}

// Total sums the series.
func (s Series) Total() float64 {
	var total float64
	for _, v := range s.Data {
		total += v
	}
	return total
}

// YearSeries is the charted view of one host year.
type YearSeries struct {
	Year      int      `json:"year"`
	Currency  string   `json:"currency"`
	NetProfit Series   `json:"net_profit"`
	Statuses  []Series `json:"statuses"`
}

// All returns the net profit series followed by the status series.
func (y YearSeries) All() []Series {
	out := make([]Series, 0, len(y.Statuses)+1)
	out = append(out, y.NetProfit)
	return append(out, y.Statuses...)
}

// Query selects the fee records of one host within a UTC time range.
type Query struct {
	HostSlug string
	From     time.Time
	To       time.Time
}

// FetchResult is what a Source returns for a fee query.
type FetchResult struct {
	HostFees      []MonthlyFeeRecord
	FeeShare      []SettlementRecord
	HostCreatedAt string
	HostCurrency  string
}

// Host is the subset of host account data used to pick a year.
type Host struct {
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at"`
	Currency  string `json:"currency"`
}

// SeriesRequest selects the host year to chart.
type SeriesRequest struct {
	HostSlug string
	// Year defaults to the current year when zero.
	Year   int
	Locale string
}

// SeriesView is the fee view model for one host year.
type SeriesView struct {
	HostSlug       string     `json:"host_slug"`
	AvailableYears []int      `json:"available_years"`
	Series         YearSeries `json:"series"`
	Chart          Chart      `json:"chart"`
}

// YearsView lists the years a host can be charted for.
type YearsView struct {
	HostSlug string `json:"host_slug"`
	Years    []int  `json:"years"`
	Default  int    `json:"default"`
}
