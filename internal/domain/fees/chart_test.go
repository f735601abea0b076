package fees_test

import (
	"testing"
	"time"

	"github.com/rpggio/hostboard/internal/domain/fees"
	"github.com/stretchr/testify/require"
)

func TestBuildChart_PlainLocalizer(t *testing.T) {
	ys := fees.Aggregate(
		[]fees.MonthlyFeeRecord{fee(2023, time.January, 1000), fee(2023, time.March, 250)},
		[]fees.SettlementRecord{settlement(2023, time.January, 300, "INVOICE")},
		nil,
	)
	ys.Currency = "USD"

	chart := fees.BuildChart(ys, nil)
	require.Equal(t, "bar", chart.Type)
	require.True(t, chart.Stacked)
	require.Len(t, chart.Months, fees.Months)
	require.Equal(t, "Jan", chart.Months[0])
	require.Equal(t, "Dec", chart.Months[11])

	require.Len(t, chart.Series, 2)
	require.Equal(t, fees.NetProfitKey, chart.Series[0].Key)
	require.InDelta(t, 9.50, chart.Series[0].Total, 1e-9)
	require.Equal(t, "USD 9.50", chart.Series[0].FormattedTotal)
	require.Equal(t, "USD 3.00", chart.Series[1].FormattedTotal)
}
