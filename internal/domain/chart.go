package domain

import (
	"fmt"
	"time"
)

// ChartTitle is the heading shown above the chart.
const ChartTitle = "Monthly Global Land-Surface Temperature"

// Margin is the space around the plot area, in pixels.
type Margin struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// Layout fixes the chart geometry and palette.
type Layout struct {
	Width        float64 // plot area
	Height       float64 // plot area
	LegendWidth  float64
	LegendHeight float64
	Margin       Margin
	Palette      Palette
}

// DefaultLayout returns the geometry of the reference chart.
func DefaultLayout() Layout {
	return Layout{
		Width:        1024,
		Height:       500,
		LegendWidth:  400,
		LegendHeight: 60,
		Margin:       Margin{Top: 30, Bottom: 30, Left: 80, Right: 40},
		Palette:      HeatPalette,
	}
}

// CanvasWidth is the width of the whole drawing surface.
func (l Layout) CanvasWidth() float64 { return l.Width + l.Margin.Left + l.Margin.Right }

// CanvasHeight is the height of the whole drawing surface, legend included.
func (l Layout) CanvasHeight() float64 {
	return l.Height + l.Margin.Top + l.Margin.Bottom + l.LegendHeight
}

// Tick is one labelled axis tick at Position along the axis.
type Tick struct {
	Position float64 `json:"position"`
	Label    string  `json:"label"`
}

// Axis is a positioned axis. Offset is the translation perpendicular to
// the axis line; Start and End bound the axis line itself.
type Axis struct {
	Offset   float64 `json:"offset"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	TickSize float64 `json:"tick_size"`
	Ticks    []Tick  `json:"ticks"`
}

// Cell is one data rectangle.
type Cell struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Fill        Color   `json:"fill"`
	Year        int     `json:"year"`
	Month       int     `json:"month"` // zero-based
	Variance    float64 `json:"variance"`
	Temperature float64 `json:"temperature"`
	Tooltip     string  `json:"tooltip"`
}

// Swatch is one legend color block.
type Swatch struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Fill       Color   `json:"fill"`
	Breakpoint float64 `json:"breakpoint"`
}

// Legend is the color key below the plot. X and Y translate the whole
// legend; swatches and the axis are relative to that origin.
type Legend struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Axis     Axis     `json:"axis"`
	Swatches []Swatch `json:"swatches"`
}

// Chart is the fully projected heat map, independent of output format.
type Chart struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Subheading  string    `json:"subheading"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Summary     Summary   `json:"summary"`
	Breakpoints []float64 `json:"breakpoints"`
	XAxis       Axis      `json:"x_axis"`
	YAxis       Axis      `json:"y_axis"`
	Cells       []Cell    `json:"cells"`
	Legend      Legend    `json:"legend"`
	RenderedAt  time.Time `json:"rendered_at"`
}

// legendTickSize is the tick length of the legend axis.
const legendTickSize = 10

// axisTickSize is the tick length of the x and y axes.
const axisTickSize = 6

// BuildChart derives every scale from ds and projects each point into a cell.
// Points must carry zero-based months, as produced by NewDataset.
func BuildChart(ds Dataset, layout Layout) (Chart, error) {
	if len(ds.Points) == 0 {
		return Chart{}, ErrEmptyDataset
	}
	for i, p := range ds.Points {
		if p.Month < 0 || p.Month >= len(MonthNames) {
			return Chart{}, fmt.Errorf("point %d (year %d): month %d out of range 0-11", i, p.Year, p.Month)
		}
	}
	summary := Summarize(ds)
	lo, hi := summary.TemperatureDomain()

	colors, err := NewThresholdScale(lo, hi, layout.Palette)
	if err != nil {
		return Chart{}, fmt.Errorf("color scale: %w", err)
	}

	years := make([]int, len(ds.Points))
	for i, p := range ds.Points {
		years[i] = p.Year
	}
	m := layout.Margin
	xScale := NewBandScale(years, m.Left, m.Left+layout.Width)
	yScale := NewBandScale(MonthNames[:], m.Top, m.Top+layout.Height)

	cells := make([]Cell, len(ds.Points))
	for i, p := range ds.Points {
		x, _ := xScale.Position(p.Year)
		y, _ := yScale.Position(MonthNames[p.Month])
		temp := p.Temperature(ds.BaseTemperature)
		cells[i] = Cell{
			X:           x,
			Y:           y,
			Width:       xScale.Bandwidth(),
			Height:      yScale.Bandwidth(),
			Fill:        colors.Color(temp),
			Year:        p.Year,
			Month:       p.Month,
			Variance:    p.Variance,
			Temperature: temp,
			Tooltip:     TooltipText(p.Month, p.Year, temp),
		}
	}

	return Chart{
		Title:       ChartTitle,
		Subheading:  summary.Subheading(),
		Width:       layout.CanvasWidth(),
		Height:      layout.CanvasHeight(),
		Summary:     summary,
		Breakpoints: colors.Breakpoints(),
		XAxis:       xAxis(xScale, layout),
		YAxis:       yAxis(yScale, layout),
		Cells:       cells,
		Legend:      legend(colors, lo, hi, layout),
		RenderedAt:  clock.Now().UTC(),
	}, nil
}

// xAxis labels only the years divisible by ten.
func xAxis(scale *BandScale[int], layout Layout) Axis {
	a := Axis{
		Offset:   layout.Margin.Top + layout.Height,
		Start:    layout.Margin.Left,
		End:      layout.Margin.Left + layout.Width,
		TickSize: axisTickSize,
	}
	for _, year := range scale.Domain() {
		if year%10 != 0 {
			continue
		}
		pos, _ := scale.Center(year)
		a.Ticks = append(a.Ticks, Tick{Position: pos, Label: fmt.Sprint(year)})
	}
	return a
}

func yAxis(scale *BandScale[string], layout Layout) Axis {
	a := Axis{
		Offset:   layout.Margin.Left,
		Start:    layout.Margin.Top,
		End:      layout.Margin.Top + layout.Height,
		TickSize: axisTickSize,
	}
	for _, name := range scale.Domain() {
		pos, _ := scale.Center(name)
		a.Ticks = append(a.Ticks, Tick{Position: pos, Label: name})
	}
	return a
}

// legend places one tick and one swatch per breakpoint along a linear
// scale over [lo, hi]. Swatches sit above the legend axis.
func legend(colors *ThresholdScale, lo, hi float64, layout Layout) Legend {
	m := layout.Margin
	breakpoints := colors.Breakpoints()
	temps := NewLinearScale(lo, hi, m.Left, m.Left+layout.LegendWidth)
	swatchWidth := layout.LegendWidth / float64(len(breakpoints))

	l := Legend{
		X: m.Left,
		Y: m.Top + layout.Height + layout.LegendHeight,
		Axis: Axis{
			Start:    m.Left,
			End:      m.Left + layout.LegendWidth,
			TickSize: legendTickSize,
		},
	}
	for _, b := range breakpoints {
		x := temps.Scale(b)
		l.Axis.Ticks = append(l.Axis.Ticks, Tick{Position: x, Label: FormatTick(b)})
		l.Swatches = append(l.Swatches, Swatch{
			X:          x,
			Y:          -m.Bottom,
			Width:      swatchWidth,
			Height:     layout.LegendHeight - m.Bottom,
			Fill:       colors.Color(b),
			Breakpoint: b,
		})
	}
	return l
}

// CellRecord is the published form of a rendered cell.
type CellRecord struct {
	RenderID    string    `json:"render_id"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	Variance    float64   `json:"variance"`
	Temperature float64   `json:"temperature"`
	Color       string    `json:"color"`
	RenderedAt  time.Time `json:"rendered_at"`
}

// CellRecords flattens the chart's cells for downstream consumers.
func (c Chart) CellRecords() []CellRecord {
	out := make([]CellRecord, len(c.Cells))
	for i, cell := range c.Cells {
		out[i] = CellRecord{
			RenderID:    c.ID,
			Year:        cell.Year,
			Month:       cell.Month,
			Variance:    cell.Variance,
			Temperature: cell.Temperature,
			Color:       cell.Fill.Name,
			RenderedAt:  c.RenderedAt,
		}
	}
	return out
}
