// Package summary derives the full set of report metrics from an entry
// series. Construction is a pure pass over the entries; the resulting
// Summary is immutable and safe to share.
package summary

import (
	"errors"
	"time"

	"glikoz/glikoz/defs"

	"github.com/montanaflynn/stats"
)

// ErrNoEntries is returned when a summary is requested for an empty series.
var ErrNoEntries = errors.New("summary: entry series is empty")

// HbA1cWindow is the averaging window for the estimated HbA1c, anchored at
// the most recent entry rather than at the current time.
const HbA1cWindow = 90 * 24 * time.Hour

const hoursPerDay = 24

// Summary holds every derived metric for one entry series. HbA1c is nil
// when no glucose reading falls inside the averaging window; all other
// zero-denominator metrics resolve to zero. The by-hour slices are always
// length 24, indexed by hour of day, with GlucoseCountByHour recording how
// many readings backed each index so a zero can be told apart from an
// hour that simply has no data.
type Summary struct {
	Thresholds defs.Thresholds

	HbA1c *float64

	TotalEntryCount        int
	TotalGlucoseEntryCount int
	MeanDailyGlucoseRate   float64
	TotalLowCount          int
	TotalVeryLowCount      int
	MeanFastInsulinPerDay  float64
	TimeInRange            float64
	TimeBelowRange         float64
	TimeAboveRange         float64
	TimeInRangeByHour      []float64
	TimeBelowRangeByHour   []float64
	TimeAboveRangeByHour   []float64
	MeanGlucoseByHour      []float64
	GlucoseCountByHour     []int
}

// New computes a Summary from entries using th. The entries need not be
// sorted; they are read once and never mutated. An empty series is a usage
// error, every other degenerate shape yields defined values.
func New(entries []defs.Entry, th defs.Thresholds) (*Summary, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	s := &Summary{
		Thresholds:           th,
		TotalEntryCount:      len(entries),
		TimeInRangeByHour:    make([]float64, hoursPerDay),
		TimeBelowRangeByHour: make([]float64, hoursPerDay),
		TimeAboveRangeByHour: make([]float64, hoursPerDay),
		MeanGlucoseByHour:    make([]float64, hoursPerDay),
		GlucoseCountByHour:   make([]int, hoursPerDay),
	}

	var (
		hourly    [hoursPerDay][]float64
		days      = make(map[string]struct{})
		maxTime   time.Time
		fastTotal float64
	)

	// Single pass: bucket present readings by hour, track distinct
	// calendar days, insulin totals, and the most recent timestamp.
	for i := range entries {
		e := &entries[i]
		days[e.Time.Format("2006-01-02")] = struct{}{}
		if e.Time.After(maxTime) {
			maxTime = e.Time
		}
		if e.FastInsulin != nil {
			fastTotal += *e.FastInsulin
		}
		if e.Glucose != nil {
			hourly[e.Time.Hour()] = append(hourly[e.Time.Hour()], *e.Glucose)
		}
	}

	var below, veryLow, above, inRange int
	for h, readings := range hourly {
		s.GlucoseCountByHour[h] = len(readings)
		s.TotalGlucoseEntryCount += len(readings)
		if len(readings) == 0 {
			continue
		}

		var hBelow, hAbove int
		for _, g := range readings {
			switch {
			case g < th.Low:
				hBelow++
			case g >= th.High:
				hAbove++
			}
			if g < th.VeryLow {
				veryLow++
			}
		}
		hIn := len(readings) - hBelow - hAbove
		below += hBelow
		above += hAbove
		inRange += hIn

		total := float64(len(readings))
		s.TimeInRangeByHour[h] = float64(hIn) / total
		s.TimeBelowRangeByHour[h] = float64(hBelow) / total
		s.TimeAboveRangeByHour[h] = float64(hAbove) / total
		s.MeanGlucoseByHour[h], _ = stats.Mean(readings)
	}

	if s.TotalGlucoseEntryCount > 0 {
		total := float64(s.TotalGlucoseEntryCount)
		s.TimeInRange = float64(inRange) / total
		s.TimeBelowRange = float64(below) / total
		s.TimeAboveRange = float64(above) / total
	}
	s.TotalLowCount = below
	s.TotalVeryLowCount = veryLow

	if len(days) > 0 {
		s.MeanDailyGlucoseRate = float64(s.TotalGlucoseEntryCount) / float64(len(days))
		s.MeanFastInsulinPerDay = fastTotal / float64(len(days))
	}

	s.HbA1c = estimateHbA1c(entries, maxTime)

	return s, nil
}

// estimateHbA1c applies the eAG regression from Nathan et al. (2008) to the
// mean glucose of the trailing window. Nil when the window holds no reading.
func estimateHbA1c(entries []defs.Entry, maxTime time.Time) *float64 {
	cutoff := maxTime.Add(-HbA1cWindow)

	var windowed []float64
	for i := range entries {
		e := &entries[i]
		if e.Glucose != nil && !e.Time.Before(cutoff) {
			windowed = append(windowed, *e.Glucose)
		}
	}
	if len(windowed) == 0 {
		return nil
	}

	mean, _ := stats.Mean(windowed)
	return defs.Float((mean + 46.7) / 28.7)
}
