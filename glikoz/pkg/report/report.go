// Package report turns a summary into the ordered, format-independent
// sequence of sections that every rendering backend serializes.
package report

import (
	"fmt"

	"glikoz/glikoz/pkg/summary"
)

// Canonical pie roles, in emission order. Colors are assigned positionally
// to whichever parts survive zero filtering.
const (
	InRangeLabel    = "In Range"
	BelowRangeLabel = "Below Range"
	AboveRangeLabel = "Above Range"
)

// Section is one self-contained unit of report content. The concrete types
// are NumberSection, PieSection, StackedBarSection and LineSection.
type Section interface {
	sectionTag()
}

// NumberSection is a labeled scalar. Integer selects whole-number
// formatting; Defined is false when the metric has no value for the given
// data, in which case renderers must emit an explicit placeholder.
type NumberSection struct {
	Label   string
	Value   float64
	Integer bool
	Defined bool
}

type PiePart struct {
	Label    string
	Fraction float64
}

// PieSection holds the parts that survived zero filtering, in canonical
// order. It may be empty.
type PieSection struct {
	Title string
	Parts []PiePart
}

type BarSeries struct {
	Label  string
	Values []float64
}

// StackedBarSection carries one bar per category with stacked series.
type StackedBarSection struct {
	Title      string
	Categories []string
	Series     []BarSeries
}

// LineSection carries one y value per x label. Present marks which points
// are backed by data; a false entry means "no readings", not "zero".
type LineSection struct {
	Title   string
	XLabels []string
	YValues []float64
	Present []bool
}

func (NumberSection) sectionTag()     {}
func (PieSection) sectionTag()        {}
func (StackedBarSection) sectionTag() {}
func (LineSection) sectionTag()       {}

// Build produces the report sections for s, in the fixed document order.
// It only reads summary fields; the sole transformation is dropping pie
// parts with no share.
func Build(s *summary.Summary) []Section {
	hours := hourLabels()

	present := make([]bool, len(s.GlucoseCountByHour))
	for h, n := range s.GlucoseCountByHour {
		present[h] = n > 0
	}

	return []Section{
		number("HbA1c", s.HbA1c),
		integer("Entry Count", s.TotalEntryCount),
		integer("Glucose Entry Count", s.TotalGlucoseEntryCount),
		NumberSection{Label: "Mean Daily Glucose Entry Rate", Value: s.MeanDailyGlucoseRate, Defined: true},
		integer("Total Low Count", s.TotalLowCount),
		integer("Total Very Low Count", s.TotalVeryLowCount),
		NumberSection{Label: "Mean Daily Fast Insulin Intake", Value: s.MeanFastInsulinPerDay, Defined: true},
		pie("Time in Range", []PiePart{
			{Label: InRangeLabel, Fraction: s.TimeInRange},
			{Label: BelowRangeLabel, Fraction: s.TimeBelowRange},
			{Label: AboveRangeLabel, Fraction: s.TimeAboveRange},
		}),
		StackedBarSection{
			Title:      "Time in Range by Hour",
			Categories: hours,
			Series: []BarSeries{
				{Label: InRangeLabel, Values: s.TimeInRangeByHour},
				{Label: BelowRangeLabel, Values: s.TimeBelowRangeByHour},
				{Label: AboveRangeLabel, Values: s.TimeAboveRangeByHour},
			},
		},
		LineSection{
			Title:   "Mean Glucose by Hour",
			XLabels: hours,
			YValues: s.MeanGlucoseByHour,
			Present: present,
		},
	}
}

func number(label string, v *float64) NumberSection {
	ns := NumberSection{Label: label}
	if v != nil {
		ns.Value = *v
		ns.Defined = true
	}
	return ns
}

func integer(label string, v int) NumberSection {
	return NumberSection{Label: label, Value: float64(v), Integer: true, Defined: true}
}

// pie drops parts with fraction <= 0, keeping the order of the rest.
func pie(title string, parts []PiePart) PieSection {
	kept := make([]PiePart, 0, len(parts))
	for _, p := range parts {
		if p.Fraction > 0 {
			kept = append(kept, p)
		}
	}
	return PieSection{Title: title, Parts: kept}
}

func hourLabels() []string {
	labels := make([]string, 24)
	for h := range labels {
		labels[h] = fmt.Sprintf("%02d", h)
	}
	return labels
}
