package domain

// Color is a named CSS color with its hex equivalent for raster output.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Palette is an ordered list of colors, coldest first.
type Palette []Color

// HeatPalette is the six-step palette of the reference chart.
var HeatPalette = Palette{
	{Name: "violet", Hex: "#ee82ee"},
	{Name: "blue", Hex: "#0000ff"},
	{Name: "green", Hex: "#008000"},
	{Name: "yellow", Hex: "#ffff00"},
	{Name: "orange", Hex: "#ffa500"},
	{Name: "red", Hex: "#ff0000"},
}
