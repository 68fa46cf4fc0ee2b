package charts

import (
	"fmt"

	"github.com/lox/flightdeck/internal/metric"
	"github.com/lox/flightdeck/internal/models"
)

// StateValue is one state's prepared value for the map. Value is nil when the
// state has no data for the selected metric (zero recorded flights).
type StateValue struct {
	Code    string
	Name    string
	Flights int64
	Value   *float64
}

// ChoroplethInput is the prepared structure the map renderer consumes. Min
// and Max span only states that carry a value; HasRange is false when no
// state does.
type ChoroplethInput struct {
	Metric   metric.Descriptor
	States   []StateValue
	Min, Max float64
	HasRange bool
}

// PrepareMap extracts the selected metric for every state and computes the
// shared color-scale range. Rate metrics are undefined for states with zero
// flights; those states get a nil value and never contribute to the range.
func PrepareMap(rows []models.StateMetric, desc metric.Descriptor) ChoroplethInput {
	in := ChoroplethInput{Metric: desc, States: make([]StateValue, 0, len(rows))}

	for _, row := range rows {
		sv := StateValue{Code: row.StateCode, Name: row.StateName, Flights: row.FlightCount}
		if v, ok := stateValue(row, desc.Key); ok {
			sv.Value = ptr(v)
			if !in.HasRange || v < in.Min {
				in.Min = v
			}
			if !in.HasRange || v > in.Max {
				in.Max = v
			}
			in.HasRange = true
		}
		in.States = append(in.States, sv)
	}
	return in
}

// stateValue extracts a metric column from a state row. The second return is
// false for the "no data" sentinel.
func stateValue(row models.StateMetric, key string) (float64, bool) {
	switch key {
	case "FlightCount":
		return float64(row.FlightCount), true
	case "AvgDepDelay":
		if row.FlightCount == 0 {
			return 0, false
		}
		return row.AvgDepDelay, true
	case "CancellationRate":
		if row.FlightCount == 0 {
			return 0, false
		}
		return row.CancellationRate, true
	default:
		return 0, false
	}
}

// RenderChoropleth translates prepared state values into a USA-states
// choropleth specification.
func RenderChoropleth(in ChoroplethInput) Figure {
	title := fmt.Sprintf("%s by State", in.Metric.Label)
	if len(in.States) == 0 {
		return Placeholder(title, "No state data for this selection")
	}

	locations := make([]string, len(in.States))
	z := make([]*float64, len(in.States))
	hover := make([]string, len(in.States))
	for i, sv := range in.States {
		locations[i] = sv.Code
		z[i] = sv.Value
		if sv.Value != nil {
			hover[i] = fmt.Sprintf("%s<br>%s: %s", sv.Name, in.Metric.Label, in.Metric.Format(*sv.Value))
		} else {
			hover[i] = fmt.Sprintf("%s<br>no data", sv.Name)
		}
	}

	trace := Trace{
		Type:         "choropleth",
		Locations:    locations,
		LocationMode: "USA-states",
		Z:            z,
		ColorScale:   tealScale,
		HoverInfo:    "text",
		HoverText:    hover,
		ColorBar:     &ColorBar{Title: &Title{Text: in.Metric.Label}},
	}
	if in.HasRange {
		trace.ZMin = ptr(in.Min)
		trace.ZMax = ptr(in.Max)
	}

	return Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Title:   &Title{Text: title},
			Height:  500,
			PaperBG: DefaultPalette.Background,
			Font:    &Font{Color: DefaultPalette.Text},
			Margin:  &Margin{L: 0, R: 0, T: 50, B: 0},
			Geo: &Geo{
				Scope:     "usa",
				BGColor:   DefaultPalette.Surface,
				LakeColor: DefaultPalette.Background,
				LandColor: DefaultPalette.Surface,
				ShowLakes: true,
			},
		},
	}
}
