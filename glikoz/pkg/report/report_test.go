package report

import (
	"testing"
	"time"

	"glikoz/glikoz/defs"
	"glikoz/glikoz/pkg/summary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ReportTestSuite struct {
	suite.Suite
}

func TestReportTestSuite(t *testing.T) {
	suite.Run(t, new(ReportTestSuite))
}

func (suite *ReportTestSuite) TestSectionOrder() {
	sections := Build(fullSummary(suite.T()))
	assert.Len(suite.T(), sections, 10)

	labels := []string{
		"HbA1c",
		"Entry Count",
		"Glucose Entry Count",
		"Mean Daily Glucose Entry Rate",
		"Total Low Count",
		"Total Very Low Count",
		"Mean Daily Fast Insulin Intake",
	}
	for i, label := range labels {
		ns, ok := sections[i].(NumberSection)
		if assert.True(suite.T(), ok, "section %d should be a number", i) {
			assert.Equal(suite.T(), label, ns.Label)
		}
	}

	_, ok := sections[7].(PieSection)
	assert.True(suite.T(), ok, "section 7 should be the pie")
	_, ok = sections[8].(StackedBarSection)
	assert.True(suite.T(), ok, "section 8 should be the stacked bars")
	_, ok = sections[9].(LineSection)
	assert.True(suite.T(), ok, "section 9 should be the line")
}

func (suite *ReportTestSuite) TestPieFiltersZeroParts() {
	sections := Build(fullSummary(suite.T()))
	pie := sections[7].(PieSection)

	// The fixture has no below-range readings; the remaining parts keep
	// their canonical order.
	assert.Len(suite.T(), pie.Parts, 2)
	assert.Equal(suite.T(), InRangeLabel, pie.Parts[0].Label)
	assert.Equal(suite.T(), AboveRangeLabel, pie.Parts[1].Label)

	var percent float64
	for _, p := range pie.Parts {
		percent += p.Fraction * 100
	}
	assert.LessOrEqual(suite.T(), percent, 100.0+1e-9)
}

func (suite *ReportTestSuite) TestPieEmptyWhenNoGlucose() {
	s, err := summary.New([]defs.Entry{
		{Time: mustTime(suite.T(), "2024-01-01 08:00")},
	}, defs.DefaultThresholds())
	assert.NoError(suite.T(), err)

	sections := Build(s)
	pie := sections[7].(PieSection)
	assert.Empty(suite.T(), pie.Parts, "all-zero fractions leave an empty pie")

	hba1c := sections[0].(NumberSection)
	assert.False(suite.T(), hba1c.Defined, "no reading in window")
}

func (suite *ReportTestSuite) TestHourAxes() {
	sections := Build(fullSummary(suite.T()))

	bars := sections[8].(StackedBarSection)
	assert.Len(suite.T(), bars.Categories, 24)
	assert.Equal(suite.T(), "00", bars.Categories[0])
	assert.Equal(suite.T(), "23", bars.Categories[23])
	assert.Len(suite.T(), bars.Series, 3)
	for _, series := range bars.Series {
		assert.Len(suite.T(), series.Values, 24)
	}

	line := sections[9].(LineSection)
	assert.Len(suite.T(), line.YValues, 24)
	assert.True(suite.T(), line.Present[8])
	assert.False(suite.T(), line.Present[0], "no readings at midnight")
}

func (suite *ReportTestSuite) TestIntegerFlags() {
	sections := Build(fullSummary(suite.T()))

	assert.True(suite.T(), sections[1].(NumberSection).Integer, "entry count is whole")
	assert.False(suite.T(), sections[3].(NumberSection).Integer, "rates keep decimals")
}

func fullSummary(t *testing.T) *summary.Summary {
	entries := []defs.Entry{
		{Time: mustTime(t, "2024-01-01 08:00"), Glucose: defs.Float(100)},
		{Time: mustTime(t, "2024-01-01 18:00"), Glucose: defs.Float(200)},
		{Time: mustTime(t, "2024-01-02 08:00"), Glucose: defs.Float(120)},
	}
	s, err := summary.New(entries, defs.DefaultThresholds())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mustTime(t *testing.T, ts string) time.Time {
	parsed, err := time.Parse("2006-01-02 15:04", ts)
	if err != nil {
		t.Fatal(err)
	}
	return parsed
}
