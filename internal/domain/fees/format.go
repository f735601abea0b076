package fees

import "strconv"

func formatPlain(value float64, currency string) string {
	s := strconv.FormatFloat(value, 'f', 2, 64)
	if currency == "" {
		return s
	}
	return currency + " " + s
}
