// Package charts turns the aggregated flight tables into renderable chart
// specifications: a choropleth map, an animated daily bar chart and a
// hierarchical sunburst. Every prepared structure is a pure function of its
// inputs; renderers do structural translation only.
package charts

// Figure is a plotly-compatible chart specification. Renderers return it
// fully built and it is never modified afterwards.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
	Frames []Frame `json:"frames,omitempty"`
}

// Frame is one animation step, named so slider steps can address it.
type Frame struct {
	Name string  `json:"name"`
	Data []Trace `json:"data"`
}

// Trace covers the union of the trace fields the three chart types use.
type Trace struct {
	Type        string    `json:"type"`
	Name        string    `json:"name,omitempty"`
	X           []float64 `json:"x,omitempty"`
	Y           []string  `json:"y,omitempty"`
	Orientation string    `json:"orientation,omitempty"`
	Text        []string  `json:"text,omitempty"`
	TextInfo    string    `json:"textinfo,omitempty"`
	HoverText   []string  `json:"hovertext,omitempty"`
	HoverInfo   string    `json:"hoverinfo,omitempty"`

	// Choropleth fields.
	Locations    []string   `json:"locations,omitempty"`
	LocationMode string     `json:"locationmode,omitempty"`
	Z            []*float64 `json:"z,omitempty"`
	ZMin         *float64   `json:"zmin,omitempty"`
	ZMax         *float64   `json:"zmax,omitempty"`
	ColorScale   ColorScale `json:"colorscale,omitempty"`
	ColorBar     *ColorBar  `json:"colorbar,omitempty"`

	// Sunburst fields.
	IDs          []string  `json:"ids,omitempty"`
	Labels       []string  `json:"labels,omitempty"`
	Parents      []string  `json:"parents,omitempty"`
	Values       []float64 `json:"values,omitempty"`
	BranchValues string    `json:"branchvalues,omitempty"`

	Marker *Marker `json:"marker,omitempty"`
}

// ColorScale is a list of (position, color) stops in plotly's array form.
type ColorScale [][2]any

type Marker struct {
	// Color is either a single CSS color or a list of per-point colors.
	Color      any        `json:"color,omitempty"`
	Colors     []float64  `json:"colors,omitempty"`
	ColorScale ColorScale `json:"colorscale,omitempty"`
	CMin       *float64   `json:"cmin,omitempty"`
	CMax       *float64   `json:"cmax,omitempty"`
	ShowScale  bool       `json:"showscale,omitempty"`
	ColorBar   *ColorBar  `json:"colorbar,omitempty"`
	Line       *Line      `json:"line,omitempty"`
}

type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

type ColorBar struct {
	Title     *Title  `json:"title,omitempty"`
	Len       float64 `json:"len,omitempty"`
	Thickness float64 `json:"thickness,omitempty"`
}

type Title struct {
	Text string `json:"text"`
}

type Layout struct {
	Title       *Title       `json:"title,omitempty"`
	Height      int          `json:"height,omitempty"`
	ShowLegend  *bool        `json:"showlegend,omitempty"`
	PaperBG     string       `json:"paper_bgcolor,omitempty"`
	PlotBG      string       `json:"plot_bgcolor,omitempty"`
	Font        *Font        `json:"font,omitempty"`
	Margin      *Margin      `json:"margin,omitempty"`
	Geo         *Geo         `json:"geo,omitempty"`
	XAxis       *Axis        `json:"xaxis,omitempty"`
	YAxis       *Axis        `json:"yaxis,omitempty"`
	Sliders     []Slider     `json:"sliders,omitempty"`
	UpdateMenus []UpdateMenu `json:"updatemenus,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

type Font struct {
	Color string `json:"color,omitempty"`
	Size  int    `json:"size,omitempty"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type Geo struct {
	Scope     string `json:"scope,omitempty"`
	BGColor   string `json:"bgcolor,omitempty"`
	LakeColor string `json:"lakecolor,omitempty"`
	LandColor string `json:"landcolor,omitempty"`
	ShowLakes bool   `json:"showlakes,omitempty"`
}

type Axis struct {
	Title         *Title      `json:"title,omitempty"`
	Range         *[2]float64 `json:"range,omitempty"`
	GridColor     string      `json:"gridcolor,omitempty"`
	CategoryOrder string      `json:"categoryorder,omitempty"`
	TickFont      *Font       `json:"tickfont,omitempty"`
}

type Slider struct {
	Active       int           `json:"active"`
	CurrentValue *CurrentValue `json:"currentvalue,omitempty"`
	Steps        []SliderStep  `json:"steps"`
}

type CurrentValue struct {
	Prefix string `json:"prefix,omitempty"`
	Font   *Font  `json:"font,omitempty"`
}

type SliderStep struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

type UpdateMenu struct {
	Type       string       `json:"type,omitempty"`
	ShowActive bool         `json:"showactive"`
	X          float64      `json:"x"`
	Y          float64      `json:"y"`
	Buttons    []MenuButton `json:"buttons"`
}

type MenuButton struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

type Annotation struct {
	Text      string  `json:"text"`
	ShowArrow bool    `json:"showarrow"`
	XRef      string  `json:"xref,omitempty"`
	YRef      string  `json:"yref,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Font      *Font   `json:"font,omitempty"`
}

// Placeholder returns an empty figure carrying an inline message, used when a
// selection matches no data or a table failed to load. It renders as a blank
// panel rather than failing the whole dashboard.
func Placeholder(title, message string) Figure {
	return Figure{
		Data: []Trace{},
		Layout: Layout{
			Title:   &Title{Text: title},
			Height:  500,
			PaperBG: DefaultPalette.Background,
			PlotBG:  DefaultPalette.Surface,
			Font:    &Font{Color: DefaultPalette.Text},
			Annotations: []Annotation{{
				Text:      message,
				ShowArrow: false,
				XRef:      "paper",
				YRef:      "paper",
				X:         0.5,
				Y:         0.5,
				Font:      &Font{Color: DefaultPalette.TextMuted, Size: 16},
			}},
		},
	}
}

func ptr(v float64) *float64 { return &v }
