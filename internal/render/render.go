// Package render turns a projected domain.Chart into an HTML document,
// a standalone SVG or a PNG.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

//go:embed static/tooltip.js
var tooltipScript string

// TooltipAttrs configures the hover script through data attributes on the
// tooltip element. State and InitialOpacity describe the tooltip before the
// first hover; Opacity is applied while shown.
type TooltipAttrs struct {
	State          string
	InitialOpacity float64
	OffsetX        float64
	OffsetY        float64
	Opacity        float64
}

// PageData is the view model for the document. A nil Chart renders the
// page with an empty graph container.
type PageData struct {
	Title   string
	Chart   *domain.Chart
	Tooltip TooltipAttrs
	Script  template.JS
}

// NewPageData wraps a chart (or nil) with the default tooltip settings.
// The tooltip starts idle.
func NewPageData(c *domain.Chart) PageData {
	var idle domain.Tooltip
	return PageData{
		Title: domain.ChartTitle,
		Chart: c,
		Tooltip: TooltipAttrs{
			State:          idle.State().String(),
			InitialOpacity: idle.Opacity(),
			OffsetX:        domain.TooltipOffsetX,
			OffsetY:        domain.TooltipOffsetY,
			Opacity:        domain.TooltipOpacity,
		},
		Script: template.JS(tooltipScript),
	}
}

// Renderer renders charts. It is safe for concurrent use.
type Renderer struct {
	templates *template.Template
	raster    *raster
}

// New parses the embedded templates and loads the PNG font.
func New() (*Renderer, error) {
	tmpl, err := template.New("render").Funcs(template.FuncMap{
		"num":  formatNumber,
		"temp": domain.FormatTemperature,
		"add":  func(a, b float64) float64 { return a + b },
	}).ParseFS(templateFS, "templates/*")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r, err := newRaster()
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: tmpl, raster: r}, nil
}

// HTML writes the full document.
func (r *Renderer) HTML(w io.Writer, data PageData) error {
	if err := r.templates.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// SVG writes the chart as a standalone SVG document.
func (r *Renderer) SVG(w io.Writer, c domain.Chart) error {
	if err := r.templates.ExecuteTemplate(w, "chart", c); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	return nil
}

// PNG rasterizes the chart at its canvas size.
func (r *Renderer) PNG(w io.Writer, c domain.Chart) error {
	return r.raster.draw(w, c)
}

// formatNumber rounds pixel values to two decimals and drops trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
