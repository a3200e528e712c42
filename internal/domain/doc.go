// Package domain models the global land-surface temperature dataset and
// its projection onto a year-by-month heat map.
//
// # Data Source
//
// The dataset is a single JSON document, by default the freeCodeCamp
// reference file at
// https://raw.githubusercontent.com/freeCodeCamp/ProjectReferenceData/master/global-temperature.json.
// It carries one reference temperature and one record per observed month:
//
//	{
//	  "baseTemperature": 8.66,
//	  "monthlyVariance": [
//	    {"year": 1753, "month": 1, "variance": -1.366},
//	    ...
//	  ]
//	}
//
// Months are one-based in the document (1 = January). [ParseDataset]
// shifts them to zero-based so they index [MonthNames] directly.
//
// Absolute temperature:
//
//	temperature = baseTemperature + variance
//
// rounded to three decimals. The source publishes variances with three
// decimals, so rounding only strips binary floating-point noise
// (8.66 + -0.2 would otherwise print as 8.459999999999999).
//
// # Scales
//
// Four pure scales parameterize the chart, all derived once from the full
// dataset (see [Summarize]):
//
//	x       band scale, one band per distinct year, left to right
//	y       band scale, one band per month name, January at the top
//	legend  linear scale, temperature domain onto the legend width
//	color   threshold scale, k equal steps over the temperature domain
//
// Threshold breakpoints are
//
//	b_i = min + i*(max-min)/k    for i in [0, k)
//
// and the half-open interval [b_i, b_(i+1)) maps to palette[i]; the last
// interval is unbounded. A value on a breakpoint belongs to the interval
// it starts. Values below b_0 cannot occur for data in the domain and are
// clamped to palette[0].
//
// Legend swatches are colored with the color of the interval they start,
// color(b_i), which is palette[i] by construction.
//
// # Layout
//
// [DefaultLayout] reproduces the reference chart: a 1024x500 plot area,
// margins of 30/30/80/40 (top/bottom/left/right) and a 400x60 legend strip
// below the plot. [BuildChart] projects a dataset through the scales into
// a renderer-independent [Chart].
package domain
