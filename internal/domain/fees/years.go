package fees

import (
	"strconv"
	"time"
)

// YearRange returns the inclusive UTC bounds of a calendar year.
func YearRange(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	return from, to
}

// AvailableYears lists the years from the host's creation year through the
// year of now. The creation year is read from the leading four digits of
// hostCreatedAt; when it is missing or unreadable only the current year is
// available.
func AvailableYears(hostCreatedAt string, now time.Time) []int {
	current := now.UTC().Year()
	start := current
	if len(hostCreatedAt) >= 4 {
		if y, err := strconv.Atoi(hostCreatedAt[:4]); err == nil && y <= current {
			start = y
		}
	}

	years := make([]int, 0, current-start+1)
	for y := start; y <= current; y++ {
		years = append(years, y)
	}
	return years
}

func containsYear(years []int, year int) bool {
	for _, y := range years {
		if y == year {
			return true
		}
	}
	return false
}
