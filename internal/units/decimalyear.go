package units

import "time"

// DecimalYear converts a date to a fractional year, with day precision.
// Geomagnetic model coefficients are indexed by decimal year.
func DecimalYear(t time.Time) float64 {
	year := t.Year()
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	day := time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return float64(year) + day.Sub(start).Hours()/end.Sub(start).Hours()
}
