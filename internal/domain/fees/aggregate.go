package fees

import (
	"sort"

	"github.com/rpggio/hostboard/internal/memo"
)

// Aggregate nets gross host fees against fee-share settlements per month and
// slots the result, plus one series per settlement status, into 12 months.
// Records are expected to fall within a single year. Statuses are ordered
// lexically. When several records share a month, the last one wins.
func Aggregate(hostFees []MonthlyFeeRecord, feeShare []SettlementRecord, labels Labeler) YearSeries {
	totals := SettlementTotals(feeShare)
	net := NetProfit(hostFees, totals)

	ys := YearSeries{
		NetProfit: Series{
			Key:   NetProfitKey,
			Label: label(labels, NetProfitKey),
			Data:  Slot(net),
		},
	}

	statuses, groups := GroupByStatus(feeShare)
	ys.Statuses = make([]Series, 0, len(statuses))
	for _, status := range statuses {
		ys.Statuses = append(ys.Statuses, Series{
			Key:   status,
			Label: label(labels, status),
			Data:  Slot(groups[status]),
		})
	}
	return ys
}

// SettlementTotals sums settlement minor units per 0-indexed month.
func SettlementTotals(feeShare []SettlementRecord) [Months]int64 {
	var totals [Months]int64
	for _, s := range feeShare {
		totals[s.Month()] += s.Amount.ValueInCents
	}
	return totals
}

// NetProfit subtracts each month's settlement total from the gross records
// of that month. Records in months without settlements pass through as is.
func NetProfit(hostFees []MonthlyFeeRecord, totals [Months]int64) []MonthlyFeeRecord {
	out := make([]MonthlyFeeRecord, 0, len(hostFees))
	for _, fee := range hostFees {
		settled := totals[fee.Month()]
		if settled == 0 {
			out = append(out, fee)
			continue
		}
		out = append(out, MonthlyFeeRecord{
			Date:   fee.Date,
			Amount: NewAmount(fee.Amount.ValueInCents-settled, fee.Amount.Currency),
		})
	}
	return out
}

// Slot places each record's major unit value at its month. Months without
// a record are 0.
func Slot(records []MonthlyFeeRecord) [Months]float64 {
	var data [Months]float64
	for _, r := range records {
		data[r.Month()] = r.Amount.Value
	}
	return data
}

// GroupByStatus splits settlements by status. The returned statuses are
// sorted so the grouping does not depend on the source's ordering.
func GroupByStatus(feeShare []SettlementRecord) ([]string, map[string][]MonthlyFeeRecord) {
	groups := make(map[string][]MonthlyFeeRecord)
	var statuses []string
	for _, s := range feeShare {
		if _, ok := groups[s.Status]; !ok {
			statuses = append(statuses, s.Status)
		}
		groups[s.Status] = append(groups[s.Status], s.MonthlyFeeRecord)
	}
	sort.Strings(statuses)
	return statuses, groups
}

func label(labels Labeler, key string) string {
	if labels == nil {
		return key
	}
	return labels.SeriesLabel(key)
}

// Aggregator memoizes Aggregate on the identity of its inputs for a fixed
// Labeler.
type Aggregator struct {
	labels Labeler
	last   memo.Pair[MonthlyFeeRecord, SettlementRecord, YearSeries]
}

// NewAggregator creates an Aggregator resolving labels with labels.
func NewAggregator(labels Labeler) *Aggregator {
	return &Aggregator{labels: labels}
}

// Aggregate returns the year series for the inputs and whether it came from
// cache.
func (a *Aggregator) Aggregate(hostFees []MonthlyFeeRecord, feeShare []SettlementRecord) (YearSeries, bool) {
	return a.last.Get(hostFees, feeShare, func(h []MonthlyFeeRecord, f []SettlementRecord) YearSeries {
		return Aggregate(h, f, a.labels)
	})
}
