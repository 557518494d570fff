package render

import (
	"encoding/json"
	"io"

	"glikoz/glikoz/pkg/report"
	"glikoz/glikoz/pkg/summary"
)

// JSONRenderer dumps the thresholds and the ordered section list as an
// indented JSON document. Numbers are pre-formatted to the contract's
// decimal places so the bytes are stable across runs.
type JSONRenderer struct{}

type jsonDocument struct {
	Thresholds jsonThresholds `json:"thresholds"`
	Sections   []jsonSection  `json:"sections"`
}

type jsonThresholds struct {
	Low     json.Number `json:"low"`
	High    json.Number `json:"high"`
	VeryLow json.Number `json:"veryLow"`
}

type jsonSection struct {
	Type       string          `json:"type"`
	Label      string          `json:"label,omitempty"`
	Title      string          `json:"title,omitempty"`
	Value      interface{}     `json:"value,omitempty"`
	Parts      []jsonPiePart   `json:"parts,omitempty"`
	Categories []string        `json:"categories,omitempty"`
	Series     []jsonBarSeries `json:"series,omitempty"`
	XLabels    []string        `json:"xLabels,omitempty"`
	YValues    []json.Number   `json:"yValues,omitempty"`
	Present    []bool          `json:"present,omitempty"`
}

type jsonPiePart struct {
	Label   string      `json:"label"`
	Percent json.Number `json:"percent"`
}

type jsonBarSeries struct {
	Label  string        `json:"label"`
	Values []json.Number `json:"values"`
}

func (r *JSONRenderer) Render(s *summary.Summary, sections []report.Section, w io.Writer) error {
	doc := jsonDocument{
		Thresholds: jsonThresholds{
			Low:     scalar(s.Thresholds.Low),
			High:    scalar(s.Thresholds.High),
			VeryLow: scalar(s.Thresholds.VeryLow),
		},
		Sections: make([]jsonSection, 0, len(sections)),
	}

	for _, sec := range sections {
		switch sec := sec.(type) {
		case report.NumberSection:
			js := jsonSection{Type: "number", Label: sec.Label}
			if sec.Defined {
				js.Value = json.Number(formatNumber(sec))
			} else {
				js.Value = Undefined
			}
			doc.Sections = append(doc.Sections, js)
		case report.PieSection:
			parts := make([]jsonPiePart, len(sec.Parts))
			for i, p := range sec.Parts {
				parts[i] = jsonPiePart{Label: p.Label, Percent: json.Number(formatPercent(p.Fraction))}
			}
			doc.Sections = append(doc.Sections, jsonSection{Type: "pie", Title: sec.Title, Parts: parts})
		case report.StackedBarSection:
			series := make([]jsonBarSeries, len(sec.Series))
			for i, bs := range sec.Series {
				series[i] = jsonBarSeries{Label: bs.Label, Values: scalars(bs.Values)}
			}
			doc.Sections = append(doc.Sections, jsonSection{
				Type:       "stackedBar",
				Title:      sec.Title,
				Categories: sec.Categories,
				Series:     series,
			})
		case report.LineSection:
			doc.Sections = append(doc.Sections, jsonSection{
				Type:    "line",
				Title:   sec.Title,
				XLabels: sec.XLabels,
				YValues: scalars(sec.YValues),
				Present: sec.Present,
			})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func scalar(v float64) json.Number {
	return json.Number(formatNumber(report.NumberSection{Value: v, Defined: true}))
}

func scalars(vs []float64) []json.Number {
	out := make([]json.Number, len(vs))
	for i, v := range vs {
		out[i] = scalar(v)
	}
	return out
}
