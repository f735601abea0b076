package fees_test

import (
	"testing"
	"time"

	"github.com/rpggio/hostboard/internal/domain/fees"
	"github.com/stretchr/testify/require"
)

func TestYearRange(t *testing.T) {
	from, to := fees.YearRange(2021)
	require.Equal(t, "2021-01-01T00:00:00Z", from.Format(time.RFC3339))
	require.Equal(t, "2021-12-31T23:59:59Z", to.Format(time.RFC3339))
}

func TestAvailableYears(t *testing.T) {
	now := time.Date(2024, time.May, 3, 12, 0, 0, 0, time.UTC)

	require.Equal(t, []int{2021, 2022, 2023, 2024}, fees.AvailableYears("2021-06-01T10:00:00.000Z", now))
	require.Equal(t, []int{2024}, fees.AvailableYears("2024-01-01", now))
	require.Equal(t, []int{2024}, fees.AvailableYears("", now))
	require.Equal(t, []int{2024}, fees.AvailableYears("n/a", now))
	require.Equal(t, []int{2024}, fees.AvailableYears("2030-01-01", now))
}
