// Command genmock writes a deterministic synthetic temperature dataset in
// the published JSON shape, for fixtures and offline runs of the service.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/global-temperature.json
//	go run ./cmd/genmock -out testdata/small.json -from 1949 -to 1951 -seed 7
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/mockdata"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	defaults := mockdata.DefaultOptions()
	out := flag.String("out", "", "output path for the generated dataset")
	from := flag.Int("from", defaults.FromYear, "first year")
	to := flag.Int("to", defaults.ToYear, "last year")
	base := flag.Float64("base", defaults.BaseTemperature, "base temperature in °C")
	seed := flag.Uint64("seed", defaults.Seed, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	raw, err := mockdata.Generate(mockdata.Options{
		FromYear:        *from,
		ToYear:          *to,
		BaseTemperature: *base,
		Seed:            *seed,
	})
	if err != nil {
		return err
	}

	if err := writeJSON(*out, raw); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	log.Printf("wrote %d records (%d-%d) to %s", len(raw.MonthlyVariance), *from, *to, *out)

	printStats(raw)
	return nil
}

func writeJSON(path string, raw domain.RawDataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func printStats(raw domain.RawDataset) {
	ds, err := domain.NewDataset(raw)
	if err != nil {
		log.Printf("stats unavailable: %v", err)
		return
	}
	s := domain.Summarize(ds)
	lo, hi := s.TemperatureDomain()
	log.Printf("variance %.3f..%.3f, temperature %s..%s °C",
		s.MinVariance, s.MaxVariance, domain.FormatTemperature(lo), domain.FormatTemperature(hi))
}
