package domain

import (
	"fmt"
	"strconv"
)

// MonthNames lists month names in calendar order, indexed by zero-based month.
var MonthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Summary holds the scalars derived once from the full dataset.
type Summary struct {
	BaseTemperature float64 `json:"base_temperature"`
	MinYear         int     `json:"min_year"`
	MaxYear         int     `json:"max_year"`
	MinVariance     float64 `json:"min_variance"`
	MaxVariance     float64 `json:"max_variance"`
	Records         int     `json:"records"`
}

// Summarize scans the dataset once for its year and variance extremes.
// The dataset must be non-empty; NewDataset guarantees that.
func Summarize(ds Dataset) Summary {
	first := ds.Points[0]
	s := Summary{
		BaseTemperature: ds.BaseTemperature,
		MinYear:         first.Year,
		MaxYear:         first.Year,
		MinVariance:     first.Variance,
		MaxVariance:     first.Variance,
		Records:         len(ds.Points),
	}
	for _, p := range ds.Points[1:] {
		s.MinYear = min(s.MinYear, p.Year)
		s.MaxYear = max(s.MaxYear, p.Year)
		s.MinVariance = min(s.MinVariance, p.Variance)
		s.MaxVariance = max(s.MaxVariance, p.Variance)
	}
	return s
}

// TemperatureDomain returns the absolute temperature range covered by the dataset.
func (s Summary) TemperatureDomain() (lo, hi float64) {
	return roundTemperature(s.BaseTemperature + s.MinVariance), roundTemperature(s.BaseTemperature + s.MaxVariance)
}

// Subheading formats the chart description, e.g. "1753 - 2015, base temperature 8.66°C".
func (s Summary) Subheading() string {
	return fmt.Sprintf("%d - %d, base temperature %s°C", s.MinYear, s.MaxYear, FormatTemperature(s.BaseTemperature))
}

// FormatTemperature renders a temperature with the fewest digits that
// round-trip, matching how the values appear in the source document.
func FormatTemperature(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatTick renders a legend tick value with one decimal.
func FormatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
