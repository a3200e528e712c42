// Command validate loads a temperature dataset from a file or URL, builds
// the heat map, and checks the chart invariants: month range, temperatures
// inside the color domain, breakpoint ordering, one cell per record, band
// coverage, and that every output format renders. It can also write the
// SVG and PNG exports.
//
// Usage:
//
//	go run ./cmd/validate -in data/mock/global-temperature.json
//	go run ./cmd/validate -url https://example.org/global-temperature.json \
//	  -svg heatmap.svg -png heatmap.png
package main

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/temperature-heatmap/internal/adapter/dataset"
	"github.com/couchcryptid/temperature-heatmap/internal/config"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/render"
)

const tolerance = 1e-6

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	in := flag.String("in", "", "path to a dataset JSON file")
	url := flag.String("url", "", "dataset URL (used when -in is empty)")
	svgOut := flag.String("svg", "", "write the SVG export to this path")
	pngOut := flag.String("png", "", "write the PNG export to this path")
	timeout := flag.Duration("timeout", 10*time.Second, "fetch timeout for -url")
	flag.Parse()

	if (*in == "") == (*url == "") {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*in, *url, *timeout, *svgOut, *pngOut))
}

func run(in, url string, timeout time.Duration, svgOut, pngOut string) int {
	// Fixed clock so repeated exports are byte-identical.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2015, time.October, 1, 0, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	fmt.Println("=== Heat Map Validation ===")
	fmt.Println()

	payload, err := loadPayload(in, url, timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}

	ds, err := domain.ParseDataset(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse dataset: %v\n", err)
		return 1
	}
	layout := domain.DefaultLayout()
	c, err := domain.BuildChart(ds, layout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: build chart: %v\n", err)
		return 1
	}
	renderer, err := render.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load renderer: %v\n", err)
		return 1
	}

	// ── Run validation phases ──
	phases := []*phase{
		validateTemperatures(ds, c),
		validateColorScale(c, layout),
		validateProjection(ds, c, layout),
		validateTooltip(c),
		validateRenders(renderer, c),
	}

	// ── Report results ──
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d, years %d-%d, base %s°C\n",
		c.Summary.Records, c.Summary.MinYear, c.Summary.MaxYear, domain.FormatTemperature(c.Summary.BaseTemperature))

	// Print detailed errors, capped per phase.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == 20 {
				fmt.Printf("  ... %d more\n", len(p.errors)-i)
				break
			}
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if err := writeExports(renderer, c, svgOut, pngOut); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: write exports: %v\n", err)
		return 1
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadPayload(in, url string, timeout time.Duration) ([]byte, error) {
	if in != "" {
		return os.ReadFile(in)
	}
	logger := observability.NewLogger(&config.Config{LogFormat: "text", LogLevel: "warn"})
	client := dataset.NewClient(url, timeout, logger, observability.NewMetricsForTesting())
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return client.Fetch(ctx)
}

// ── Phases ──

func validateTemperatures(ds domain.Dataset, c domain.Chart) *phase {
	p := &phase{name: "Temperatures inside color domain"}
	lo, hi := c.Summary.TemperatureDomain()
	for i, pt := range ds.Points {
		want := ds.BaseTemperature + pt.Variance
		got := pt.Temperature(ds.BaseTemperature)
		// Temperatures are rounded to three decimals.
		if math.Abs(want-got) > 0.0005+tolerance {
			p.errorf("record %d (%d-%02d): temperature %v, want %v", i, pt.Year, pt.Month+1, got, want)
		}
		if got < lo || got > hi {
			p.errorf("record %d (%d-%02d): temperature %v outside [%v, %v]", i, pt.Year, pt.Month+1, got, lo, hi)
		}
	}
	return p
}

func validateColorScale(c domain.Chart, layout domain.Layout) *phase {
	p := &phase{name: "Color scale breakpoints and fills"}
	bp := c.Breakpoints
	if len(bp) != len(layout.Palette) {
		p.errorf("%d breakpoints, want %d", len(bp), len(layout.Palette))
		return p
	}
	lo, hi := c.Summary.TemperatureDomain()
	if bp[0] != lo {
		p.errorf("first breakpoint %v, want domain minimum %v", bp[0], lo)
	}
	if lo < hi {
		for i := 1; i < len(bp); i++ {
			if bp[i] <= bp[i-1] {
				p.errorf("breakpoint %d (%v) not above breakpoint %d (%v)", i, bp[i], i-1, bp[i-1])
			}
		}
	}

	colors, err := domain.NewThresholdScale(lo, hi, layout.Palette)
	if err != nil {
		p.errorf("rebuild color scale: %v", err)
		return p
	}
	for i, cell := range c.Cells {
		if want := colors.Color(cell.Temperature); cell.Fill != want {
			p.errorf("cell %d (%d %s): fill %s, want %s", i, cell.Year, domain.MonthNames[cell.Month], cell.Fill.Name, want.Name)
		}
	}
	for i, s := range c.Legend.Swatches {
		if lo < hi && s.Fill != layout.Palette[i] {
			p.errorf("legend swatch %d: fill %s, want %s", i, s.Fill.Name, layout.Palette[i].Name)
		}
	}
	return p
}

func validateProjection(ds domain.Dataset, c domain.Chart, layout domain.Layout) *phase {
	p := &phase{name: "Chart projection and band coverage"}
	if len(c.Cells) != len(ds.Points) {
		p.errorf("%d cells for %d records", len(c.Cells), len(ds.Points))
		return p
	}

	years := c.Summary.MaxYear - c.Summary.MinYear + 1
	if len(c.Cells) > 0 {
		w, h := c.Cells[0].Width, c.Cells[0].Height
		// Years may be sparse, so coverage is checked against distinct years.
		distinct := make(map[int]struct{})
		for _, pt := range ds.Points {
			distinct[pt.Year] = struct{}{}
		}
		if math.Abs(w*float64(len(distinct))-layout.Width) > tolerance {
			p.errorf("x bands cover %v px, want %v", w*float64(len(distinct)), layout.Width)
		}
		if math.Abs(h*12-layout.Height) > tolerance {
			p.errorf("y bands cover %v px, want %v", h*12, layout.Height)
		}
		if len(distinct) != years {
			p.errorf("dataset has %d distinct years over a %d-year span", len(distinct), years)
		}
	}

	m := layout.Margin
	for i, cell := range c.Cells {
		pt := ds.Points[i]
		if cell.Year != pt.Year || cell.Month != pt.Month {
			p.errorf("cell %d is %d-%d, want %d-%d", i, cell.Year, cell.Month, pt.Year, pt.Month)
		}
		if cell.X < m.Left-tolerance || cell.X+cell.Width > m.Left+layout.Width+tolerance ||
			cell.Y < m.Top-tolerance || cell.Y+cell.Height > m.Top+layout.Height+tolerance {
			p.errorf("cell %d (%d %s) outside the plot area", i, cell.Year, domain.MonthNames[cell.Month])
		}
		if want := domain.TooltipText(cell.Month, cell.Year, cell.Temperature); cell.Tooltip != want {
			p.errorf("cell %d tooltip %q, want %q", i, cell.Tooltip, want)
		}
	}

	for _, t := range c.XAxis.Ticks {
		if !strings.HasSuffix(t.Label, "0") {
			p.errorf("x tick %q is not a multiple of ten", t.Label)
		}
	}
	if len(c.YAxis.Ticks) != 12 {
		p.errorf("%d y ticks, want 12", len(c.YAxis.Ticks))
	}
	for i, t := range c.YAxis.Ticks {
		if i < 12 && t.Label != domain.MonthNames[i] {
			p.errorf("y tick %d is %q, want %q", i, t.Label, domain.MonthNames[i])
		}
	}
	return p
}

// validateTooltip hovers every cell in turn, then leaves the last one.
func validateTooltip(c domain.Chart) *phase {
	p := &phase{name: "Tooltip hover states"}
	var tip domain.Tooltip
	if tip.State() != domain.TooltipIdle || tip.Opacity() != 0 {
		p.errorf("tooltip starts %s with opacity %v", tip.State(), tip.Opacity())
	}
	for i, cell := range c.Cells {
		// Hover at the cell's top-left corner.
		tip.Enter(cell, cell.X, cell.Y)
		if tip.State() != domain.TooltipShown || tip.Opacity() != domain.TooltipOpacity {
			p.errorf("cell %d: tooltip %s with opacity %v after hover", i, tip.State(), tip.Opacity())
		}
		if want := domain.TooltipText(cell.Month, cell.Year, cell.Temperature); tip.Content() != want {
			p.errorf("cell %d: tooltip shows %q, want %q", i, tip.Content(), want)
		}
		if tip.Year() != cell.Year {
			p.errorf("cell %d: tooltip year %d, want %d", i, tip.Year(), cell.Year)
		}
		left, top := tip.Position()
		if left != cell.X+domain.TooltipOffsetX || top != cell.Y+domain.TooltipOffsetY {
			p.errorf("cell %d: tooltip at (%v, %v), want pointer offset by (%d, %d)",
				i, left, top, domain.TooltipOffsetX, domain.TooltipOffsetY)
		}
	}
	tip.Leave()
	if tip.State() != domain.TooltipIdle || tip.Opacity() != 0 {
		p.errorf("tooltip %s with opacity %v after leaving", tip.State(), tip.Opacity())
	}
	return p
}

func validateRenders(r *render.Renderer, c domain.Chart) *phase {
	p := &phase{name: "HTML, SVG and PNG renders"}

	var html bytes.Buffer
	if err := r.HTML(&html, render.NewPageData(&c)); err != nil {
		p.errorf("html: %v", err)
	} else if n := strings.Count(html.String(), `class="cell"`); n != len(c.Cells) {
		p.errorf("html has %d cells, want %d", n, len(c.Cells))
	}

	var svg bytes.Buffer
	if err := r.SVG(&svg, c); err != nil {
		p.errorf("svg: %v", err)
	} else if err := checkXML(svg.Bytes()); err != nil {
		p.errorf("svg is not well-formed: %v", err)
	}

	var img bytes.Buffer
	if err := r.PNG(&img, c); err != nil {
		p.errorf("png: %v", err)
	} else if cfg, err := png.DecodeConfig(&img); err != nil {
		p.errorf("png does not decode: %v", err)
	} else if cfg.Width != int(c.Width) || cfg.Height != int(c.Height) {
		p.errorf("png is %dx%d, want %vx%v", cfg.Width, cfg.Height, c.Width, c.Height)
	}
	return p
}

func checkXML(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// ── Exports ──

func writeExports(r *render.Renderer, c domain.Chart, svgOut, pngOut string) error {
	if svgOut != "" {
		if err := writeFile(svgOut, func(w io.Writer) error { return r.SVG(w, c) }); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	if pngOut != "" {
		if err := writeFile(pngOut, func(w io.Writer) error { return r.PNG(w, c) }); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", pngOut)
	}
	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
