package domain

import "fmt"

// Tooltip placement relative to the pointer, and its opacity while shown.
const (
	TooltipOffsetX = 15
	TooltipOffsetY = 8
	TooltipOpacity = 0.75
)

// TooltipState is the visibility state of the hover tooltip.
type TooltipState int

const (
	TooltipIdle TooltipState = iota
	TooltipShown
)

func (s TooltipState) String() string {
	switch s {
	case TooltipIdle:
		return "idle"
	case TooltipShown:
		return "shown"
	default:
		return fmt.Sprintf("TooltipState(%d)", int(s))
	}
}

// Tooltip is the single floating tooltip shared by every cell.
// The zero value is idle.
type Tooltip struct {
	state   TooltipState
	content string
	year    int
	left    float64
	top     float64
}

// Enter shows the tooltip for cell c with the pointer at (pageX, pageY).
// Entering another cell while shown updates content and position in place.
func (t *Tooltip) Enter(c Cell, pageX, pageY float64) {
	t.state = TooltipShown
	t.content = c.Tooltip
	t.year = c.Year
	t.left = pageX + TooltipOffsetX
	t.top = pageY + TooltipOffsetY
}

// Leave hides the tooltip. Content and position are kept but no longer visible.
func (t *Tooltip) Leave() {
	t.state = TooltipIdle
}

// State reports whether the tooltip is idle or shown.
func (t *Tooltip) State() TooltipState { return t.state }

// Opacity is 0 while idle.
func (t *Tooltip) Opacity() float64 {
	if t.state == TooltipShown {
		return TooltipOpacity
	}
	return 0
}

// Content is the HTML shown inside the tooltip.
func (t *Tooltip) Content() string { return t.content }

// Year is the year of the last hovered cell, exposed as data-year.
func (t *Tooltip) Year() int { return t.year }

// Position returns the page coordinates of the tooltip's top-left corner.
func (t *Tooltip) Position() (left, top float64) { return t.left, t.top }

// TooltipText formats the tooltip body, e.g. "January 1950<br>8.16°C".
// month is zero-based.
func TooltipText(month, year int, temperature float64) string {
	return fmt.Sprintf("%s %d<br>%s°C", MonthNames[month], year, FormatTemperature(temperature))
}
