package charts

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/lox/flightdeck/internal/metric"
	"github.com/lox/flightdeck/internal/models"
)

// ErrEmptyFilter is returned when an airline filter matches no rows anywhere
// in the daily table.
var ErrEmptyFilter = errors.New("charts: airline filter matches no data")

// FrameEntry is one airline's value within a single day's frame.
type FrameEntry struct {
	Airline string
	Value   float64
}

// TimelineFrame is one day of the animation. Entries are ordered for a
// horizontal bar chart: the first entry draws at the bottom, so the leading
// airline for the selected metric comes last.
type TimelineFrame struct {
	Day     int
	Entries []FrameEntry
}

// BuildTimeline pivots daily per-airline rows into day-ordered animation
// frames, restricted to the given airline subset. An empty subset means all
// airlines. (day, airline) combinations absent from the table are omitted
// from that day's frame, never interpolated.
func BuildTimeline(rows []models.DailyAirlineMetric, desc metric.Descriptor, airlines []string) ([]TimelineFrame, error) {
	var subset map[string]bool
	if len(airlines) > 0 {
		subset = make(map[string]bool, len(airlines))
		for _, a := range airlines {
			subset[a] = true
		}
	}

	byDay := make(map[int][]FrameEntry)
	matched := false
	for _, row := range rows {
		if subset != nil && !subset[row.Airline] {
			continue
		}
		matched = true
		byDay[row.Day] = append(byDay[row.Day], FrameEntry{
			Airline: row.Airline,
			Value:   dailyValue(row, desc.Key),
		})
	}
	if subset != nil && !matched {
		return nil, fmt.Errorf("%w: %v", ErrEmptyFilter, airlines)
	}

	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)

	frames := make([]TimelineFrame, 0, len(days))
	for _, d := range days {
		entries := byDay[d]
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Value != entries[j].Value {
				if desc.HigherIsBetter {
					return entries[i].Value < entries[j].Value
				}
				return entries[i].Value > entries[j].Value
			}
			return entries[i].Airline < entries[j].Airline
		})
		frames = append(frames, TimelineFrame{Day: d, Entries: entries})
	}
	return frames, nil
}

func dailyValue(row models.DailyAirlineMetric, key string) float64 {
	switch key {
	case "FlightCount":
		return float64(row.FlightCount)
	case "AvgDepDelay":
		return row.AvgDepDelay
	case "OnTimeRate":
		return row.OnTimeRate
	case "CancellationRate":
		return row.CancellationRate
	default:
		return 0
	}
}

// RenderTimeline translates day frames into an animated horizontal bar chart
// with a play/pause control and a day slider.
func RenderTimeline(frames []TimelineFrame, desc metric.Descriptor) Figure {
	title := fmt.Sprintf("Daily %s by Airline", desc.Label)
	if len(frames) == 0 {
		return Placeholder(title, "No data for this selection")
	}

	// Stable color per airline, assigned alphabetically across all frames.
	colorFor := airlineColors(frames)

	// Fixed x-range across the animation, with 10% headroom.
	var max float64
	for _, f := range frames {
		for _, e := range f.Entries {
			if e.Value > max {
				max = e.Value
			}
		}
	}
	xMax := max * 1.1
	if xMax == 0 {
		xMax = 100
	}

	figFrames := make([]Frame, len(frames))
	steps := make([]SliderStep, len(frames))
	for i, f := range frames {
		name := strconv.Itoa(f.Day)
		figFrames[i] = Frame{Name: name, Data: []Trace{frameTrace(f, desc, colorFor)}}
		steps[i] = SliderStep{
			Label:  name,
			Method: "animate",
			Args: []any{
				[]string{name},
				map[string]any{
					"mode":       "immediate",
					"frame":      map[string]any{"duration": 400, "redraw": true},
					"transition": map[string]any{"duration": 150},
				},
			},
		}
	}

	showLegend := false
	return Figure{
		Data: []Trace{frameTrace(frames[0], desc, colorFor)},
		Layout: Layout{
			Title:      &Title{Text: title},
			Height:     500,
			ShowLegend: &showLegend,
			PaperBG:    DefaultPalette.Background,
			PlotBG:     DefaultPalette.Surface,
			Font:       &Font{Color: DefaultPalette.Text},
			Margin:     &Margin{L: 150, R: 20, T: 80, B: 60},
			XAxis: &Axis{
				Title:     &Title{Text: desc.Label},
				Range:     &[2]float64{0, xMax},
				GridColor: DefaultPalette.Grid,
			},
			YAxis: &Axis{TickFont: &Font{Size: 10}},
			UpdateMenus: []UpdateMenu{{
				Type:       "buttons",
				ShowActive: false,
				X:          0.05,
				Y:          1.12,
				Buttons: []MenuButton{
					{
						Label:  "Play",
						Method: "animate",
						Args: []any{
							nil,
							map[string]any{
								"fromcurrent": true,
								"frame":       map[string]any{"duration": 400, "redraw": true},
								"transition":  map[string]any{"duration": 150},
							},
						},
					},
					{
						Label:  "Pause",
						Method: "animate",
						Args: []any{
							[]any{nil},
							map[string]any{
								"mode":       "immediate",
								"frame":      map[string]any{"duration": 0, "redraw": false},
								"transition": map[string]any{"duration": 0},
							},
						},
					},
				},
			}},
			Sliders: []Slider{{
				Active:       0,
				CurrentValue: &CurrentValue{Prefix: "Day: ", Font: &Font{Color: DefaultPalette.Text, Size: 14}},
				Steps:        steps,
			}},
		},
		Frames: figFrames,
	}
}

func frameTrace(f TimelineFrame, desc metric.Descriptor, colorFor map[string]string) Trace {
	x := make([]float64, len(f.Entries))
	y := make([]string, len(f.Entries))
	colors := make([]string, len(f.Entries))
	hover := make([]string, len(f.Entries))
	for i, e := range f.Entries {
		x[i] = e.Value
		y[i] = e.Airline
		colors[i] = colorFor[e.Airline]
		hover[i] = fmt.Sprintf("%s<br>Day %d<br>%s: %s", e.Airline, f.Day, desc.Label, desc.Format(e.Value))
	}
	return Trace{
		Type:        "bar",
		Orientation: "h",
		X:           x,
		Y:           y,
		HoverInfo:   "text",
		HoverText:   hover,
		Marker:      &Marker{Color: colors},
	}
}

func airlineColors(frames []TimelineFrame) map[string]string {
	seen := make(map[string]bool)
	var names []string
	for _, f := range frames {
		for _, e := range f.Entries {
			if !seen[e.Airline] {
				seen[e.Airline] = true
				names = append(names, e.Airline)
			}
		}
	}
	sort.Strings(names)

	colors := make(map[string]string, len(names))
	for i, n := range names {
		colors[n] = chartPalette[i%len(chartPalette)]
	}
	return colors
}
