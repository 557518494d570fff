package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"glikoz/glikoz/defs"
	"glikoz/glikoz/pkg/report"
	"glikoz/glikoz/pkg/summary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type RenderTestSuite struct {
	suite.Suite

	summary  *summary.Summary
	sections []report.Section
}

func TestRenderTestSuite(t *testing.T) {
	suite.Run(t, new(RenderTestSuite))
}

func (suite *RenderTestSuite) SetupSuite() {
	entries := []defs.Entry{
		{Time: ts("2024-01-01 08:00"), Glucose: defs.Float(100), FastInsulin: defs.Float(2)},
		{Time: ts("2024-01-01 18:00"), Glucose: defs.Float(200)},
		{Time: ts("2024-01-02 08:00"), Glucose: defs.Float(120), FastInsulin: defs.Float(4)},
	}

	s, err := summary.New(entries, defs.DefaultThresholds())
	if err != nil {
		panic(err)
	}
	suite.summary = s
	suite.sections = report.Build(s)
}

func (suite *RenderTestSuite) render(r Renderer) []byte {
	var buf bytes.Buffer
	assert.NoError(suite.T(), r.Render(suite.summary, suite.sections, &buf))
	return buf.Bytes()
}

func (suite *RenderTestSuite) TestDeterminism() {
	for _, name := range []string{"latex", "json", "plot"} {
		r, err := ForFormat(name)
		assert.NoError(suite.T(), err)
		assert.Equal(suite.T(), suite.render(r), suite.render(r), "%s output should be byte-identical", name)
	}
}

func (suite *RenderTestSuite) TestUnknownFormat() {
	_, err := ForFormat("html")
	assert.Error(suite.T(), err)
}

func (suite *RenderTestSuite) TestLaTeXDocument() {
	out := string(suite.render(&LaTeXRenderer{}))

	assert.Contains(suite.T(), out, `\documentclass[a4paper]{article}`)
	assert.Contains(suite.T(), out, `\end{document}`)
	assert.Contains(suite.T(), out, `\textbf{Entry Count:} 3`)
	assert.Contains(suite.T(), out, `\textbf{Mean Daily Fast Insulin Intake:} 3.00`)

	// No below-range share in the fixture, so only two slices survive and
	// colors shift up positionally.
	assert.Contains(suite.T(), out, `\pie[color={green,blue}]{66.7/In Range,33.3/Above Range}`)
	assert.Contains(suite.T(), out, "ybar stacked")
	assert.Contains(suite.T(), out, `xticklabels={00,01`)
}

func (suite *RenderTestSuite) TestLaTeXUndefinedHbA1c() {
	s, err := summary.New([]defs.Entry{{Time: ts("2024-01-01 08:00")}}, defs.DefaultThresholds())
	assert.NoError(suite.T(), err)

	var buf bytes.Buffer
	assert.NoError(suite.T(), (&LaTeXRenderer{}).Render(s, report.Build(s), &buf))
	assert.Contains(suite.T(), buf.String(), `\textbf{HbA1c:} N/A`)
}

func (suite *RenderTestSuite) TestLaTeXLineSkipsEmptyHours() {
	out := string(suite.render(&LaTeXRenderer{}))

	idx := strings.Index(out, `\addplot[mark=*`)
	if !assert.GreaterOrEqual(suite.T(), idx, 0, "line plot should be present") {
		return
	}
	linePlot := out[idx:]

	assert.Contains(suite.T(), linePlot, "(8,110)")
	assert.Contains(suite.T(), linePlot, "(18,200)")
	assert.NotContains(suite.T(), linePlot, "(0,", "hours without readings are not plotted")
}

func (suite *RenderTestSuite) TestJSONDocument() {
	out := suite.render(&JSONRenderer{})

	var doc struct {
		Thresholds struct {
			Low     float64 `json:"low"`
			High    float64 `json:"high"`
			VeryLow float64 `json:"veryLow"`
		} `json:"thresholds"`
		Sections []map[string]interface{} `json:"sections"`
	}
	assert.NoError(suite.T(), json.Unmarshal(out, &doc))

	assert.Equal(suite.T(), 70.0, doc.Thresholds.Low)
	assert.Equal(suite.T(), 180.0, doc.Thresholds.High)
	assert.Equal(suite.T(), 54.0, doc.Thresholds.VeryLow)
	assert.Len(suite.T(), doc.Sections, 10)

	assert.Equal(suite.T(), "number", doc.Sections[0]["type"])
	assert.Equal(suite.T(), "HbA1c", doc.Sections[0]["label"])
	assert.Equal(suite.T(), "pie", doc.Sections[7]["type"])
	assert.Equal(suite.T(), "stackedBar", doc.Sections[8]["type"])
	assert.Equal(suite.T(), "line", doc.Sections[9]["type"])

	parts := doc.Sections[7]["parts"].([]interface{})
	assert.Len(suite.T(), parts, 2)
	first := parts[0].(map[string]interface{})
	assert.Equal(suite.T(), "In Range", first["label"])
	assert.Equal(suite.T(), 66.7, first["percent"])
}

func (suite *RenderTestSuite) TestJSONUndefinedHbA1c() {
	s, err := summary.New([]defs.Entry{{Time: ts("2024-01-01 08:00")}}, defs.DefaultThresholds())
	assert.NoError(suite.T(), err)

	var buf bytes.Buffer
	assert.NoError(suite.T(), (&JSONRenderer{}).Render(s, report.Build(s), &buf))
	assert.Contains(suite.T(), buf.String(), `"value": "N/A"`)
}

func (suite *RenderTestSuite) TestPlotDocumentPages() {
	out := suite.render(&PlotRenderer{})

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), pageWidth, cfg.Width)
	assert.Equal(suite.T(), 4*pageHeight, cfg.Height, "numbers, pie, bars and line pages")
}

func (suite *RenderTestSuite) TestToFile() {
	dir := suite.T().TempDir()
	path := filepath.Join(dir, "report.tex")

	assert.NoError(suite.T(), ToFile(path, &LaTeXRenderer{}, suite.summary, suite.sections))

	content, err := os.ReadFile(path)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.render(&LaTeXRenderer{}), content)
}

func (suite *RenderTestSuite) TestToFileLeavesNoPartialArtifact() {
	dir := suite.T().TempDir()
	path := filepath.Join(dir, "report.tex")

	err := ToFile(path, failingRenderer{}, suite.summary, suite.sections)
	assert.Error(suite.T(), err)

	files, readErr := os.ReadDir(dir)
	assert.NoError(suite.T(), readErr)
	assert.Empty(suite.T(), files, "failed render should clean up after itself")
}

type failingRenderer struct{}

func (failingRenderer) Render(*summary.Summary, []report.Section, io.Writer) error {
	return errors.New("boom")
}

func ts(value string) time.Time {
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		panic(err)
	}
	return parsed
}
