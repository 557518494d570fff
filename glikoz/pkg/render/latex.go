package render

import (
	"fmt"
	"io"
	"strings"

	"glikoz/glikoz/pkg/report"
	"glikoz/glikoz/pkg/summary"
)

// pieColors are assigned positionally to whichever pie parts survived
// zero filtering, matching the canonical In/Below/Above order.
var pieColors = []string{"green", "blue", "red"}

// LaTeXRenderer emits a standalone article using pgfplots and pgf-pie.
type LaTeXRenderer struct{}

func (r *LaTeXRenderer) Render(s *summary.Summary, sections []report.Section, w io.Writer) error {
	var b strings.Builder

	b.WriteString(strings.Join([]string{
		`\documentclass[a4paper]{article}`,
		`\usepackage{graphicx}`,
		`\usepackage{pgfplots}`,
		`\usepackage{pgf-pie}`,
		`\pgfplotsset{compat=1.18}`,
		`\begin{document}`,
		`\title{Glikoz Report}`,
		`\date{\today}`,
		`\maketitle`,
		"",
	}, "\n"))

	for _, sec := range sections {
		switch sec := sec.(type) {
		case report.NumberSection:
			fmt.Fprintf(&b, "\\textbf{%s:} %s\n\n", sec.Label, formatNumber(sec))
		case report.PieSection:
			writePie(&b, sec)
		case report.StackedBarSection:
			writeStackedBars(&b, sec)
		case report.LineSection:
			writeLine(&b, sec)
		}
	}

	b.WriteString("\n\\end{document}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writePie(b *strings.Builder, sec report.PieSection) {
	fmt.Fprintf(b, "\\subsection*{%s}\n", sec.Title)
	b.WriteString("\\begin{center}\n\\begin{tikzpicture}\n")

	parts := make([]string, len(sec.Parts))
	colors := make([]string, len(sec.Parts))
	for i, p := range sec.Parts {
		parts[i] = formatPercent(p.Fraction) + "/" + p.Label
		colors[i] = pieColors[i%len(pieColors)]
	}

	fmt.Fprintf(b, "\\pie[color={%s}]{%s}\n", strings.Join(colors, ","), strings.Join(parts, ","))
	b.WriteString("\\end{tikzpicture}\n\\end{center}\n\n")
}

func writeStackedBars(b *strings.Builder, sec report.StackedBarSection) {
	fmt.Fprintf(b, "\\subsection*{%s}\n", sec.Title)
	b.WriteString("\\begin{center}\n\\begin{tikzpicture}\n")
	b.WriteString("\\begin{axis}[\n")
	b.WriteString("    ybar stacked,\n")
	b.WriteString("    width=1.2\\textwidth,\n")
	b.WriteString("    height=8cm,\n")
	b.WriteString("    xlabel={Hour},\n")
	b.WriteString("    ylabel={Percentage},\n")
	b.WriteString("    ymin=0,\n")
	b.WriteString("    ymax=1,\n")
	b.WriteString("    ytick={0.25,0.5,0.75},\n")
	b.WriteString("    enlarge x limits=false,\n")
	b.WriteString("    xtick=data,\n")
	fmt.Fprintf(b, "    xticklabels={%s},\n", strings.Join(sec.Categories, ","))
	b.WriteString("    x tick label style={font=\\small},\n")
	b.WriteString("    legend style={at={(0.5,-0.2)}, anchor=north, legend columns=3},\n")
	b.WriteString("]\n")

	for i, series := range sec.Series {
		fmt.Fprintf(b, "\\addplot[fill=%s] coordinates {\n", pieColors[i%len(pieColors)])
		for x, v := range series.Values {
			fmt.Fprintf(b, "    (%d,%g)\n", x, v)
		}
		b.WriteString("};\n")
		fmt.Fprintf(b, "\\addlegendentry{%s}\n", series.Label)
	}

	b.WriteString("\\end{axis}\n\\end{tikzpicture}\n\\end{center}\n\n")
}

func writeLine(b *strings.Builder, sec report.LineSection) {
	fmt.Fprintf(b, "\\subsection*{%s}\n", sec.Title)
	b.WriteString("\\begin{center}\n\\begin{tikzpicture}\n")
	b.WriteString("\\begin{axis}[\n")
	b.WriteString("    width=1.2\\textwidth,\n")
	b.WriteString("    height=8cm,\n")
	b.WriteString("    xlabel={Hour},\n")
	b.WriteString("    ylabel={Glucose (mg/dL)},\n")
	fmt.Fprintf(b, "    xmin=0, xmax=%d,\n", len(sec.XLabels)-1)
	fmt.Fprintf(b, "    xtick={0,1,...,%d},\n", len(sec.XLabels)-1)
	fmt.Fprintf(b, "    xticklabels={%s},\n", strings.Join(sec.XLabels, ","))
	b.WriteString("    x tick label style={font=\\small},\n")
	b.WriteString("    grid=major,\n")
	b.WriteString("    legend style={at={(0.5,-0.15)}, anchor=north},\n")
	b.WriteString("]\n")
	b.WriteString("\\addplot[mark=*, blue, thick] coordinates {\n")
	for x, y := range sec.YValues {
		if sec.Present[x] {
			fmt.Fprintf(b, "    (%d,%g)\n", x, y)
		}
	}
	b.WriteString("};\n")
	b.WriteString("\\addlegendentry{Mean Glucose}\n")
	b.WriteString("\\end{axis}\n\\end{tikzpicture}\n\\end{center}\n\n")
}
