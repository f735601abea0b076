package fees

import "time"

// ChartSeries is one series as handed to a renderer.
type ChartSeries struct {
	Key            string          `json:"key"`
	Label          string          `json:"label"`
	Data           [Months]float64 `json:"data"`
	Total          float64         `json:"total"`
	FormattedTotal string          `json:"formatted_total"`
}

// Chart is the renderer configuration derived from a YearSeries.
type Chart struct {
	Type     string        `json:"type"`
	Stacked  bool          `json:"stacked"`
	Currency string        `json:"currency"`
	Months   []string      `json:"months"`
	Series   []ChartSeries `json:"series"`
}

// BuildChart derives a stacked bar chart from ys. Labels and amounts are
// localized by loc; a nil loc falls back to English month names and bare
// numbers.
func BuildChart(ys YearSeries, loc Localizer) Chart {
	if loc == nil {
		loc = plainLocalizer{}
	}

	chart := Chart{
		Type:     "bar",
		Stacked:  true,
		Currency: ys.Currency,
		Months:   make([]string, 0, Months),
	}
	for m := time.January; m <= time.December; m++ {
		chart.Months = append(chart.Months, loc.MonthLabel(m))
	}
	for _, s := range ys.All() {
		total := s.Total()
		chart.Series = append(chart.Series, ChartSeries{
			Key:            s.Key,
			Label:          s.Label,
			Data:           s.Data,
			Total:          total,
			FormattedTotal: loc.FormatAmount(total, ys.Currency),
		})
	}
	return chart
}

type plainLocalizer struct{}

func (plainLocalizer) SeriesLabel(key string) string { return key }

func (plainLocalizer) MonthLabel(month time.Month) string { return month.String()[:3] }

func (plainLocalizer) FormatAmount(value float64, currency string) string {
	return formatPlain(value, currency)
}
