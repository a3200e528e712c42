package domain

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSample(t *testing.T) Dataset {
	t.Helper()
	payload, err := os.ReadFile("testdata/sample.json")
	require.NoError(t, err)
	ds, err := ParseDataset(payload)
	require.NoError(t, err)
	return ds
}

func TestParseDataset(t *testing.T) {
	t.Run("sample document", func(t *testing.T) {
		ds := loadSample(t)

		assert.Equal(t, 8.66, ds.BaseTemperature)
		require.Len(t, ds.Points, 36)
		assert.Equal(t, ParsedPoint{Year: 1949, Month: 0, Variance: -0.31}, ds.Points[0])
		assert.Equal(t, ParsedPoint{Year: 1951, Month: 11, Variance: 0.286}, ds.Points[35])
	})

	t.Run("months shift to zero-based", func(t *testing.T) {
		ds, err := ParseDataset([]byte(`{"baseTemperature":8.66,"monthlyVariance":[
			{"year":1753,"month":1,"variance":-1.366},
			{"year":1753,"month":12,"variance":-0.5}]}`))

		require.NoError(t, err)
		assert.Equal(t, 0, ds.Points[0].Month)
		assert.Equal(t, 11, ds.Points[1].Month)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := ParseDataset([]byte(`{"baseTemperature":`))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode dataset")
	})

	t.Run("empty records", func(t *testing.T) {
		_, err := ParseDataset([]byte(`{"baseTemperature":8.66,"monthlyVariance":[]}`))

		assert.ErrorIs(t, err, ErrEmptyDataset)
	})

	t.Run("missing records field", func(t *testing.T) {
		_, err := ParseDataset([]byte(`{"baseTemperature":8.66}`))

		assert.ErrorIs(t, err, ErrEmptyDataset)
	})

	t.Run("month out of range", func(t *testing.T) {
		for _, month := range []int{0, 13} {
			_, err := NewDataset(RawDataset{
				BaseTemperature: 8.66,
				MonthlyVariance: []MonthlyVariance{{Year: 1900, Month: month, Variance: 0.1}},
			})
			assert.Error(t, err, "month %d", month)
		}
	})
}

func TestParsedPointTemperature(t *testing.T) {
	tests := []struct {
		name     string
		variance float64
		want     float64
	}{
		{"negative variance", -0.5, 8.16},
		{"positive variance", 0.332, 8.992},
		{"zero variance", 0, 8.66},
		{"float noise is rounded away", -1.217, 7.443},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsedPoint{Year: 1950, Month: 0, Variance: tt.variance}
			assert.Equal(t, tt.want, p.Temperature(8.66))
		})
	}
}
