package charts

import (
	"math"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/lox/flightdeck/internal/models"
)

var hierarchyRows = []models.HierarchyRow{
	{State: "CA", City: "Los Angeles", Airport: "LAX", Airline: "AA", FlightCount: 8000, AvgDelay: 9},
	{State: "CA", City: "Los Angeles", Airport: "LAX", Airline: "DL", FlightCount: 7000, AvgDelay: 12},
	{State: "CA", City: "San Francisco", Airport: "SFO", Airline: "UA", FlightCount: 9000, AvgDelay: 15},
	{State: "TX", City: "Dallas", Airport: "DFW", Airline: "AA", FlightCount: 9500, AvgDelay: 10},
	{State: "TX", City: "Houston", Airport: "IAH", Airline: "UA", FlightCount: 6000, AvgDelay: 13},
	// Zero-flight leaf: must be dropped, average delay is undefined.
	{State: "TX", City: "Houston", Airport: "HOU", Airline: "WN", FlightCount: 0, AvgDelay: 0},
	// Same city name under two states: full-path keys keep them apart.
	{State: "IL", City: "Springfield", Airport: "SPI", Airline: "UA", FlightCount: 300, AvgDelay: 7},
	{State: "MO", City: "Springfield", Airport: "SGF", Airline: "AA", FlightCount: 400, AvgDelay: 6},
}

func nodeByID(nodes []Node, id string) *Node {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i]
		}
	}
	return nil
}

func TestBuildHierarchyParentSums(t *testing.T) {
	t.Parallel()
	nodes := BuildHierarchy(hierarchyRows, nil)

	// Every non-leaf node's value equals the sum of its children.
	children := make(map[string]int64)
	for _, n := range nodes {
		if n.Parent != "" {
			children[n.Parent] += n.Value
		}
	}
	for _, n := range nodes {
		if sum, ok := children[n.ID]; ok && sum != n.Value {
			t.Errorf("%s: value %d != child sum %d", n.ID, n.Value, sum)
		}
	}

	ca := nodeByID(nodes, "CA")
	if ca == nil || ca.Value != 24000 {
		t.Errorf("CA = %+v, want value 24000", ca)
	}
}

func TestBuildHierarchyWeightedColor(t *testing.T) {
	t.Parallel()
	nodes := BuildHierarchy(hierarchyRows, nil)

	lax := nodeByID(nodes, "CA/Los Angeles/LAX")
	if lax == nil {
		t.Fatal("LAX node missing")
	}
	// (9*8000 + 12*7000) / 15000 = 10.4
	if math.Abs(lax.Color-10.4) > 1e-9 {
		t.Errorf("LAX color = %v, want 10.4", lax.Color)
	}
}

func TestBuildHierarchyStateFilter(t *testing.T) {
	t.Parallel()
	nodes := BuildHierarchy(hierarchyRows, []string{"CA"})

	var leafTotal int64
	for _, n := range nodes {
		if !strings.HasPrefix(n.ID, "CA") {
			t.Errorf("node %s outside the CA filter", n.ID)
		}
		if strings.Count(n.ID, pathSep) == 3 {
			leafTotal += n.Value
		}
	}
	// Total leaf flights equals the sum of CA rows in the raw table.
	if leafTotal != 24000 {
		t.Errorf("leaf total = %d, want 24000", leafTotal)
	}
}

func TestBuildHierarchyDropsZeroFlightLeaves(t *testing.T) {
	t.Parallel()
	nodes := BuildHierarchy(hierarchyRows, nil)
	if n := nodeByID(nodes, "TX/Houston/HOU"); n != nil {
		t.Errorf("zero-flight airport not dropped: %+v", n)
	}
	if n := nodeByID(nodes, "TX/Houston/HOU/WN"); n != nil {
		t.Errorf("zero-flight leaf not dropped: %+v", n)
	}
}

func TestBuildHierarchySpringfieldsStayApart(t *testing.T) {
	t.Parallel()
	nodes := BuildHierarchy(hierarchyRows, nil)

	il := nodeByID(nodes, "IL/Springfield")
	mo := nodeByID(nodes, "MO/Springfield")
	if il == nil || mo == nil {
		t.Fatal("expected a Springfield under both IL and MO")
	}
	if il.Value != 300 || mo.Value != 400 {
		t.Errorf("Springfields merged: IL=%d MO=%d", il.Value, mo.Value)
	}
	if il.Label != "Springfield" || mo.Label != "Springfield" {
		t.Errorf("labels = %q, %q", il.Label, mo.Label)
	}
}

func TestBuildHierarchyOrdering(t *testing.T) {
	t.Parallel()
	nodes := BuildHierarchy(hierarchyRows, nil)

	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	if !sort.StringsAreSorted(ids) {
		t.Error("nodes not in path order")
	}

	// Parents must appear before their children.
	seen := make(map[string]bool)
	for _, n := range nodes {
		if n.Parent != "" && !seen[n.Parent] {
			t.Errorf("node %s appears before its parent", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestBuildHierarchyDeterministic(t *testing.T) {
	t.Parallel()
	a := BuildHierarchy(hierarchyRows, []string{"TX", "CA"})
	b := BuildHierarchy(hierarchyRows, []string{"TX", "CA"})
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different node lists")
	}
}

func TestRenderSunburst(t *testing.T) {
	t.Parallel()
	nodes := BuildHierarchy(hierarchyRows, nil)
	fig := RenderSunburst(nodes, "")

	if len(fig.Data) != 1 || fig.Data[0].Type != "sunburst" {
		t.Fatalf("unexpected traces: %+v", fig.Data)
	}
	tr := fig.Data[0]
	if len(tr.IDs) != len(nodes) || len(tr.Parents) != len(nodes) || len(tr.Values) != len(nodes) {
		t.Error("flattened arrays must be parallel to the node list")
	}
	if tr.BranchValues != "total" {
		t.Errorf("branchvalues = %q, want total", tr.BranchValues)
	}
	if tr.Marker == nil || tr.Marker.CMax == nil || *tr.Marker.CMax != 40 {
		t.Error("expected fixed 0-40 delay color range")
	}
}

func TestRenderSunburstEmpty(t *testing.T) {
	t.Parallel()
	fig := RenderSunburst(nil, "ZZ")
	if len(fig.Data) != 0 || len(fig.Layout.Annotations) != 1 {
		t.Error("expected placeholder figure for empty hierarchy")
	}
}
