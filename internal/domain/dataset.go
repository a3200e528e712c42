package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrEmptyDataset is returned when a dataset carries no monthly records.
var ErrEmptyDataset = errors.New("dataset has no monthly variance records")

// DatasetSource fetches the raw dataset document.
type DatasetSource interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// RawDataset is the JSON document as published by the data source.
type RawDataset struct {
	BaseTemperature float64           `json:"baseTemperature"`
	MonthlyVariance []MonthlyVariance `json:"monthlyVariance"`
}

// MonthlyVariance is one record of the source document. Month is one-based.
type MonthlyVariance struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Variance float64 `json:"variance"`
}

// ParsedPoint is a monthly record with a zero-based month (0 = January).
type ParsedPoint struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Variance float64 `json:"variance"`
}

// Dataset is the parsed, validated form of a RawDataset.
type Dataset struct {
	BaseTemperature float64
	Points          []ParsedPoint
}

// ParseDataset decodes a raw JSON payload and converts it into a Dataset.
func ParseDataset(payload []byte) (Dataset, error) {
	var raw RawDataset
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	return NewDataset(raw)
}

// NewDataset shifts every record to a zero-based month. It rejects empty
// datasets and months outside 1..12.
func NewDataset(raw RawDataset) (Dataset, error) {
	if len(raw.MonthlyVariance) == 0 {
		return Dataset{}, ErrEmptyDataset
	}

	points := make([]ParsedPoint, len(raw.MonthlyVariance))
	for i, rec := range raw.MonthlyVariance {
		if rec.Month < 1 || rec.Month > 12 {
			return Dataset{}, fmt.Errorf("record %d (year %d): month %d out of range 1-12", i, rec.Year, rec.Month)
		}
		points[i] = ParsedPoint{
			Year:     rec.Year,
			Month:    rec.Month - 1,
			Variance: rec.Variance,
		}
	}

	return Dataset{BaseTemperature: raw.BaseTemperature, Points: points}, nil
}

// Temperature returns the absolute temperature of p for the given base.
func (p ParsedPoint) Temperature(base float64) float64 {
	return roundTemperature(base + p.Variance)
}

// roundTemperature rounds to three decimals, the precision of the source data.
func roundTemperature(v float64) float64 {
	return math.Round(v*1000) / 1000
}
