package charts

import (
	"reflect"
	"testing"

	"github.com/lox/flightdeck/internal/metric"
	"github.com/lox/flightdeck/internal/models"
)

func mustResolve(t *testing.T, name string) metric.Descriptor {
	t.Helper()
	d, err := metric.Resolve(name)
	if err != nil {
		t.Fatalf("resolve %s: %v", name, err)
	}
	return d
}

var stateRows = []models.StateMetric{
	{StateCode: "CA", StateName: "California", FlightCount: 65000, AvgDepDelay: 11.2, CancellationRate: 1.85},
	{StateCode: "PR", StateName: "Puerto Rico", FlightCount: 0},
	{StateCode: "TX", StateName: "Texas", FlightCount: 52000, AvgDepDelay: 9.8, CancellationRate: 2.10},
	{StateCode: "WY", StateName: "Wyoming", FlightCount: 1200, AvgDepDelay: 4.1, CancellationRate: 0.9},
}

func TestPrepareMapZeroFlightSentinel(t *testing.T) {
	t.Parallel()
	in := PrepareMap(stateRows, mustResolve(t, "Average Delay"))

	var pr *StateValue
	for i := range in.States {
		if in.States[i].Code == "PR" {
			pr = &in.States[i]
		}
	}
	if pr == nil {
		t.Fatal("PR row missing from prepared map")
	}
	if pr.Value != nil {
		t.Errorf("PR value = %v, want nil sentinel", *pr.Value)
	}

	// The sentinel state must not contribute to the color range.
	if in.Min != 4.1 || in.Max != 11.2 {
		t.Errorf("range = [%v, %v], want [4.1, 11.2]", in.Min, in.Max)
	}
}

func TestPrepareMapFlightVolume(t *testing.T) {
	t.Parallel()
	in := PrepareMap(stateRows, mustResolve(t, "Flight Volume"))

	if len(in.States) != len(stateRows) {
		t.Fatalf("states = %d, want %d", len(in.States), len(stateRows))
	}
	for _, sv := range in.States {
		if sv.Value == nil {
			t.Errorf("%s: flight volume must always be present", sv.Code)
			continue
		}
		if *sv.Value < 0 {
			t.Errorf("%s: negative flight volume %v", sv.Code, *sv.Value)
		}
	}
	// Min is the smallest reported count, including zero-flight states.
	if !in.HasRange || in.Min != 0 {
		t.Errorf("min = %v (hasRange=%v), want 0", in.Min, in.HasRange)
	}
	if in.Max != 65000 {
		t.Errorf("max = %v, want 65000", in.Max)
	}
}

func TestPrepareMapDeterministic(t *testing.T) {
	t.Parallel()
	desc := mustResolve(t, "Cancellation Rate")
	a := PrepareMap(stateRows, desc)
	b := PrepareMap(stateRows, desc)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different prepared structures")
	}
}

func TestRenderChoropleth(t *testing.T) {
	t.Parallel()
	fig := RenderChoropleth(PrepareMap(stateRows, mustResolve(t, "Average Delay")))

	if len(fig.Data) != 1 || fig.Data[0].Type != "choropleth" {
		t.Fatalf("unexpected traces: %+v", fig.Data)
	}
	tr := fig.Data[0]
	if tr.LocationMode != "USA-states" {
		t.Errorf("locationmode = %q", tr.LocationMode)
	}
	if len(tr.Locations) != 4 || len(tr.Z) != 4 {
		t.Errorf("locations/z = %d/%d, want 4/4", len(tr.Locations), len(tr.Z))
	}
	if tr.ZMin == nil || tr.ZMax == nil || *tr.ZMin != 4.1 || *tr.ZMax != 11.2 {
		t.Errorf("z range = %v/%v", tr.ZMin, tr.ZMax)
	}
	if fig.Layout.Geo == nil || fig.Layout.Geo.Scope != "usa" {
		t.Error("expected usa geo scope")
	}
}

func TestRenderChoroplethEmpty(t *testing.T) {
	t.Parallel()
	fig := RenderChoropleth(PrepareMap(nil, mustResolve(t, "Flight Volume")))

	if len(fig.Data) != 0 {
		t.Errorf("expected placeholder with no traces, got %d", len(fig.Data))
	}
	if len(fig.Layout.Annotations) != 1 {
		t.Fatal("expected inline message annotation")
	}
}
