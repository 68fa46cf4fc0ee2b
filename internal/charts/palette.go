package charts

// Palette defines the dashboard color scheme (teal aviation theme).
type Palette struct {
	Background string
	Surface    string
	Text       string
	TextMuted  string
	Accent     string
	Grid       string
	Border     string
}

var DefaultPalette = Palette{
	Background: "#f8fafc",
	Surface:    "#ffffff",
	Text:       "#134e4a",
	TextMuted:  "#14b8a6",
	Accent:     "#0d9488",
	Grid:       "#e2e8f0",
	Border:     "#99f6e4",
}

// chartPalette colors categorical series (airlines). Assignment is by
// alphabetical airline position so colors stay stable across frames.
var chartPalette = []string{
	"#0d9488", // teal
	"#0ea5e9", // sky blue
	"#f59e0b", // amber
	"#8b5cf6", // violet
	"#ef4444", // red
	"#06b6d4", // cyan
	"#ec4899", // pink
	"#84cc16", // lime
	"#6366f1", // indigo
	"#14b8a6", // teal-light
}

// tealScale is the sequential scale used by the choropleth map.
var tealScale = ColorScale{
	{0.0, "#d1eeea"},
	{1.0 / 7.0, "#a8dbd9"},
	{2.0 / 7.0, "#85c4c9"},
	{3.0 / 7.0, "#68abb8"},
	{4.0 / 7.0, "#4f90a6"},
	{5.0 / 7.0, "#3b738f"},
	{6.0 / 7.0, "#2a5674"},
	{1.0, "#1d3954"},
}

// delayScale colors sunburst sectors from low (cyan) to high (red) delay.
var delayScale = ColorScale{
	{0.0, "#0891b2"},
	{0.2, "#0d9488"},
	{0.4, "#14b8a6"},
	{0.6, "#fbbf24"},
	{0.8, "#f97316"},
	{1.0, "#dc2626"},
}

// Sunburst sectors are colored on a fixed 0-40 minute delay range.
const (
	delayScaleMin = 0.0
	delayScaleMax = 40.0
)
