package defs

import (
	"time"
)

// Entry is one logged observation. Glucose is mg/dL, insulin is in units.
// Optional fields are nil when the log carried no value for them; a nil
// insulin amount counts as zero for totals but is excluded from presence
// counts.
type Entry struct {
	Time         time.Time `bson:"time"`
	Glucose      *float64  `bson:"glucose,omitempty"`
	FastInsulin  *float64  `bson:"fastInsulin,omitempty"`
	BasalInsulin *float64  `bson:"basalInsulin,omitempty"`
	Carbs        *float64  `bson:"carbs,omitempty"`
}

func (e *Entry) GetTime() time.Time {
	return e.Time
}

// Glucose thresholds in mg/dL. They travel with the summary they were used
// for, never as global state.
const (
	DefaultLowThreshold     = 70
	DefaultHighThreshold    = 180
	DefaultVeryLowThreshold = 54
)

type Thresholds struct {
	Low     float64 `yaml:"low"`
	High    float64 `yaml:"high"`
	VeryLow float64 `yaml:"veryLow"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Low:     DefaultLowThreshold,
		High:    DefaultHighThreshold,
		VeryLow: DefaultVeryLowThreshold,
	}
}

// Float returns a pointer to v, for literal optional fields.
func Float(v float64) *float64 {
	return &v
}
