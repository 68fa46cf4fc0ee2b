// Package metric maps the sidebar's logical metric names onto the source
// columns of the aggregated tables, along with display formatting rules.
package metric

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
)

// Unit describes how a metric's values are formatted for display.
type Unit int

const (
	Count Unit = iota
	Minutes
	Percent
)

// Descriptor is the resolved form of a metric selection. Descriptors are
// constructed once at init and never change.
type Descriptor struct {
	// Key is the source column in the aggregated tables, e.g. "AvgDepDelay".
	Key string
	// Label is the logical name shown in the sidebar, e.g. "Average Delay".
	Label string
	Unit  Unit
	// Decimals applied when formatting values.
	Decimals int
	// Suffix appended to formatted values, e.g. " min".
	Suffix string
	// HigherIsBetter orders timeline bars: volume and on-time rate rank the
	// biggest value first, delay and cancellations rank the worst first.
	HigherIsBetter bool
}

// ErrUnknown is returned when a name matches no supported metric.
var ErrUnknown = errors.New("metric: unknown metric")

var descriptors = []Descriptor{
	{Key: "FlightCount", Label: "Flight Volume", Unit: Count, Decimals: 0, Suffix: " flights", HigherIsBetter: true},
	{Key: "AvgDepDelay", Label: "Average Delay", Unit: Minutes, Decimals: 1, Suffix: " min"},
	{Key: "OnTimeRate", Label: "On-Time %", Unit: Percent, Decimals: 1, Suffix: "%", HigherIsBetter: true},
	{Key: "CancellationRate", Label: "Cancellation Rate", Unit: Percent, Decimals: 2, Suffix: "%"},
}

var byName = func() map[string]Descriptor {
	m := make(map[string]Descriptor, 2*len(descriptors))
	for _, d := range descriptors {
		m[d.Key] = d
		m[d.Label] = d
	}
	return m
}()

// Resolve looks a metric up by its logical label or its column key.
func Resolve(name string) (Descriptor, error) {
	d, ok := byName[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return d, nil
}

// MapMetrics enumerates the metrics selectable for the choropleth map.
func MapMetrics() []Descriptor {
	return pick("AvgDepDelay", "CancellationRate", "FlightCount")
}

// TimelineMetrics enumerates the metrics selectable for the daily animation.
func TimelineMetrics() []Descriptor {
	return pick("FlightCount", "AvgDepDelay", "OnTimeRate", "CancellationRate")
}

func pick(keys ...string) []Descriptor {
	out := make([]Descriptor, len(keys))
	for i, k := range keys {
		out[i] = byName[k]
	}
	return out
}

// Format renders a metric value for hover text and labels.
func (d Descriptor) Format(v float64) string {
	if d.Unit == Count {
		return humanize.Commaf(v) + d.Suffix
	}
	return fmt.Sprintf("%.*f%s", d.Decimals, v, d.Suffix)
}
