// Package mockdata generates deterministic synthetic temperature datasets
// for fixtures and tests.
package mockdata

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// Options controls the generated range and noise.
type Options struct {
	FromYear        int
	ToYear          int
	BaseTemperature float64
	Seed            uint64
}

// DefaultOptions matches the span and base of the published dataset.
func DefaultOptions() Options {
	return Options{FromYear: 1753, ToYear: 2015, BaseTemperature: 8.66, Seed: 1}
}

// Generate produces one record per month of every year in the range, with a
// linear warming trend plus Gaussian noise. The same options always yield
// the same dataset.
func Generate(opts Options) (domain.RawDataset, error) {
	if opts.ToYear < opts.FromYear {
		return domain.RawDataset{}, fmt.Errorf("invalid year range %d-%d", opts.FromYear, opts.ToYear)
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	span := float64(opts.ToYear - opts.FromYear + 1)

	out := domain.RawDataset{
		BaseTemperature: opts.BaseTemperature,
		MonthlyVariance: make([]domain.MonthlyVariance, 0, int(span)*12),
	}
	for year := opts.FromYear; year <= opts.ToYear; year++ {
		trend := -0.8 + 1.6*float64(year-opts.FromYear)/span
		for month := 1; month <= 12; month++ {
			v := trend + rng.NormFloat64()*0.45
			out.MonthlyVariance = append(out.MonthlyVariance, domain.MonthlyVariance{
				Year:     year,
				Month:    month,
				Variance: math.Round(v*1000) / 1000,
			})
		}
	}
	return out, nil
}
