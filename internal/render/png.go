package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

const (
	fontSize    = 10
	labelMargin = 3
)

// raster draws a chart through go-chart's low-level renderer.
type raster struct {
	font *truetype.Font
}

func newRaster() (*raster, error) {
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return &raster{font: font}, nil
}

func (r *raster) draw(w io.Writer, c domain.Chart) error {
	canvas, err := chart.PNG(px(c.Width), px(c.Height))
	if err != nil {
		return fmt.Errorf("create canvas: %w", err)
	}
	canvas.SetFont(r.font)
	canvas.SetFontSize(fontSize)
	canvas.SetFontColor(drawing.ColorBlack)

	fillRect(canvas, 0, 0, c.Width, c.Height, drawing.ColorWhite)
	for _, cell := range c.Cells {
		fillRect(canvas, cell.X, cell.Y, cell.Width, cell.Height, hexColor(cell.Fill))
	}

	// x axis
	y0 := c.XAxis.Offset
	line(canvas, c.XAxis.Start, y0, c.XAxis.End, y0)
	for _, t := range c.XAxis.Ticks {
		line(canvas, t.Position, y0, t.Position, y0+c.XAxis.TickSize)
		centeredText(canvas, t.Label, t.Position, y0+c.XAxis.TickSize+labelMargin+fontSize)
	}

	// y axis
	x0 := c.YAxis.Offset
	line(canvas, x0, c.YAxis.Start, x0, c.YAxis.End)
	for _, t := range c.YAxis.Ticks {
		line(canvas, x0-c.YAxis.TickSize, t.Position, x0, t.Position)
		box := canvas.MeasureText(t.Label)
		canvas.Text(t.Label, px(x0-c.YAxis.TickSize-labelMargin)-box.Width(), px(t.Position)+box.Height()/2)
	}

	// Legend coordinates are relative to its origin.
	lg := c.Legend
	for _, s := range lg.Swatches {
		fillRect(canvas, lg.X+s.X, lg.Y+s.Y, s.Width, s.Height, hexColor(s.Fill))
	}
	line(canvas, lg.X+lg.Axis.Start, lg.Y, lg.X+lg.Axis.End, lg.Y)
	for _, t := range lg.Axis.Ticks {
		line(canvas, lg.X+t.Position, lg.Y, lg.X+t.Position, lg.Y+lg.Axis.TickSize)
		centeredText(canvas, t.Label, lg.X+t.Position, lg.Y+lg.Axis.TickSize+labelMargin+fontSize)
	}

	if err := canvas.Save(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func fillRect(r chart.Renderer, x, y, width, height float64, color drawing.Color) {
	r.SetFillColor(color)
	r.SetStrokeWidth(0)
	r.MoveTo(px(x), px(y))
	r.LineTo(px(x+width), px(y))
	r.LineTo(px(x+width), px(y+height))
	r.LineTo(px(x), px(y+height))
	r.Close()
	r.Fill()
}

func line(r chart.Renderer, x1, y1, x2, y2 float64) {
	r.SetStrokeColor(drawing.ColorBlack)
	r.SetStrokeWidth(1)
	r.MoveTo(px(x1), px(y1))
	r.LineTo(px(x2), px(y2))
	r.Stroke()
}

func centeredText(r chart.Renderer, label string, x, baseline float64) {
	box := r.MeasureText(label)
	r.Text(label, px(x)-box.Width()/2, px(baseline))
}

func hexColor(c domain.Color) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(c.Hex, "#"))
}

func px(v float64) int { return int(math.Round(v)) }
