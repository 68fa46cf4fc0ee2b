package charts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lox/flightdeck/internal/models"
)

// Node is one entry in the flattened sunburst hierarchy. Nodes are keyed by
// their full path, so identically named segments under different parents
// (two states with a city called Springfield) never merge. Root nodes have an
// empty Parent.
type Node struct {
	ID     string
	Parent string
	Label  string
	// Value is the sum of leaf flight counts beneath this node.
	Value int64
	// Color is the flight-count-weighted average delay of the leaves.
	Color float64
}

// pathSep joins path segments into node IDs. Airport codes and place names in
// the source data never contain it.
const pathSep = "/"

// BuildHierarchy groups flat State/City/Airport/Airline rows into the four
// fixed nesting levels and flattens the result for the sunburst renderer,
// sorted by full path so sibling order (and therefore angle allocation) is
// deterministic. An empty states slice means no filtering. Leaves with zero
// flights are dropped: an average delay is undefined for them.
func BuildHierarchy(rows []models.HierarchyRow, states []string) []Node {
	var filter map[string]bool
	if len(states) > 0 {
		filter = make(map[string]bool, len(states))
		for _, s := range states {
			filter[s] = true
		}
	}

	type agg struct {
		flights  int64
		weighted float64 // sum of AvgDelay * FlightCount
	}
	sums := make(map[string]*agg)
	parents := make(map[string]string)
	labels := make(map[string]string)

	for _, row := range rows {
		if filter != nil && !filter[row.State] {
			continue
		}
		if row.FlightCount == 0 {
			continue
		}

		segments := []string{row.State, row.City, row.Airport, row.Airline}
		parent := ""
		for i, seg := range segments {
			id := strings.Join(segments[:i+1], pathSep)
			a := sums[id]
			if a == nil {
				a = &agg{}
				sums[id] = a
				parents[id] = parent
				labels[id] = seg
			}
			a.flights += row.FlightCount
			a.weighted += row.AvgDelay * float64(row.FlightCount)
			parent = id
		}
	}

	ids := make([]string, 0, len(sums))
	for id := range sums {
		ids = append(ids, id)
	}
	// Lexicographic ID order is path order: parents always precede children.
	sort.Strings(ids)

	nodes := make([]Node, len(ids))
	for i, id := range ids {
		a := sums[id]
		nodes[i] = Node{
			ID:     id,
			Parent: parents[id],
			Label:  labels[id],
			Value:  a.flights,
			Color:  a.weighted / float64(a.flights),
		}
	}
	return nodes
}

// RenderSunburst translates flattened hierarchy nodes into a sunburst
// specification colored by average delay on a fixed 0-40 minute scale.
func RenderSunburst(nodes []Node, stateFilter string) Figure {
	title := "Flight Volume Hierarchy"
	subtitle := "State → City → Airport → Airline"
	if stateFilter != "" {
		subtitle = "Filtered: " + stateFilter
	}
	if len(nodes) == 0 {
		return Placeholder(title, "No data for this selection")
	}

	ids := make([]string, len(nodes))
	labels := make([]string, len(nodes))
	parents := make([]string, len(nodes))
	values := make([]float64, len(nodes))
	colors := make([]float64, len(nodes))
	hover := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
		labels[i] = n.Label
		parents[i] = n.Parent
		values[i] = float64(n.Value)
		colors[i] = n.Color
		hover[i] = fmt.Sprintf("%s<br>Flights: %d<br>Avg Delay: %.1f min", n.Label, n.Value, n.Color)
	}

	return Figure{
		Data: []Trace{{
			Type:         "sunburst",
			IDs:          ids,
			Labels:       labels,
			Parents:      parents,
			Values:       values,
			BranchValues: "total",
			HoverInfo:    "text",
			HoverText:    hover,
			TextInfo:     "label+percent entry",
			Marker: &Marker{
				Colors:     colors,
				ColorScale: delayScale,
				CMin:       ptr(delayScaleMin),
				CMax:       ptr(delayScaleMax),
				ShowScale:  true,
				ColorBar:   &ColorBar{Title: &Title{Text: "Avg Delay (minutes)"}, Len: 0.5, Thickness: 15},
				Line:       &Line{Color: "white", Width: 2.5},
			},
		}},
		Layout: Layout{
			Title:   &Title{Text: fmt.Sprintf("%s<br><sub>%s</sub>", title, subtitle)},
			Height:  700,
			PaperBG: DefaultPalette.Background,
			Font:    &Font{Color: DefaultPalette.Text, Size: 13},
			Margin:  &Margin{L: 10, R: 120, T: 60, B: 10},
		},
	}
}
