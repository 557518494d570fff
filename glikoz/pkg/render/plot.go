package render

import (
	"fmt"
	"image/png"
	"io"

	"glikoz/glikoz/pkg/report"
	"glikoz/glikoz/pkg/summary"

	"github.com/fogleman/gg"
)

// A5 landscape at ~100dpi.
const (
	pageWidth  = 827
	pageHeight = 583
	pageMargin = 48
)

type plotColor struct{ r, g, b float64 }

// Positional palette matching the canonical pie/bar ordering.
var plotPalette = []plotColor{
	{0.20, 0.60, 0.25}, // green
	{0.25, 0.40, 0.80}, // blue
	{0.80, 0.25, 0.20}, // red
}

// PlotRenderer draws each visual section on its own A5 page and writes the
// pages, stacked vertically, as a single PNG. Every page owns its drawing
// context for its whole lifetime; nothing is shared between pages.
type PlotRenderer struct{}

func (r *PlotRenderer) Render(s *summary.Summary, sections []report.Section, w io.Writer) error {
	var (
		pages   []*gg.Context
		numbers []report.NumberSection
	)

	flushNumbers := func() {
		if len(numbers) == 0 {
			return
		}
		pages = append(pages, drawNumbersPage(numbers))
		numbers = nil
	}

	for _, sec := range sections {
		switch sec := sec.(type) {
		case report.NumberSection:
			numbers = append(numbers, sec)
		case report.PieSection:
			flushNumbers()
			pages = append(pages, drawPiePage(sec))
		case report.StackedBarSection:
			flushNumbers()
			pages = append(pages, drawBarPage(sec))
		case report.LineSection:
			flushNumbers()
			pages = append(pages, drawLinePage(sec))
		}
	}
	flushNumbers()

	doc := gg.NewContext(pageWidth, pageHeight*len(pages))
	for i, page := range pages {
		doc.DrawImage(page.Image(), 0, i*pageHeight)
	}

	if err := png.Encode(w, doc.Image()); err != nil {
		return fmt.Errorf("render: unable to encode plot document: %w", err)
	}
	return nil
}

func newPage(title string) *gg.Context {
	dc := gg.NewContext(pageWidth, pageHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.DrawString(title, pageMargin, pageMargin)
	return dc
}

func drawNumbersPage(numbers []report.NumberSection) *gg.Context {
	dc := newPage("Statistics")
	y := float64(pageMargin) + 32
	for _, ns := range numbers {
		dc.DrawString(fmt.Sprintf("%s: %s", ns.Label, formatNumber(ns)), pageMargin, y)
		y += 22
	}
	return dc
}

func drawPiePage(sec report.PieSection) *gg.Context {
	dc := newPage(sec.Title)

	cx, cy := float64(pageWidth)/2, float64(pageHeight)/2+16
	radius := float64(pageHeight)/2 - 2*pageMargin

	angle := -gg.Radians(90)
	for i, part := range sec.Parts {
		c := plotPalette[i%len(plotPalette)]
		sweep := part.Fraction * 2 * gg.Radians(180)

		dc.SetRGB(c.r, c.g, c.b)
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, radius, angle, angle+sweep)
		dc.ClosePath()
		dc.Fill()
		angle += sweep
	}

	// Legend with one-decimal percentages down the left edge.
	y := float64(pageMargin) + 32
	for i, part := range sec.Parts {
		c := plotPalette[i%len(plotPalette)]
		dc.SetRGB(c.r, c.g, c.b)
		dc.DrawRectangle(pageMargin, y-9, 12, 12)
		dc.Fill()
		dc.SetRGB(0, 0, 0)
		dc.DrawString(fmt.Sprintf("%s %s%%", part.Label, formatPercent(part.Fraction)), pageMargin+18, y)
		y += 20
	}
	return dc
}

func drawBarPage(sec report.StackedBarSection) *gg.Context {
	dc := newPage(sec.Title)

	plotW := float64(pageWidth) - 2*pageMargin
	plotH := float64(pageHeight) - 3*pageMargin
	baseY := float64(pageHeight) - 1.5*pageMargin
	barW := plotW / float64(len(sec.Categories))

	for x, label := range sec.Categories {
		x0 := pageMargin + float64(x)*barW
		y := baseY
		for si, series := range sec.Series {
			c := plotPalette[si%len(plotPalette)]
			h := series.Values[x] * plotH
			dc.SetRGB(c.r, c.g, c.b)
			dc.DrawRectangle(x0+1, y-h, barW-2, h)
			dc.Fill()
			y -= h
		}
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(label, x0+barW/2, baseY+14, 0.5, 0.5)
	}

	// Legend along the bottom.
	lx := float64(pageMargin)
	ly := float64(pageHeight) - pageMargin/2
	for si, series := range sec.Series {
		c := plotPalette[si%len(plotPalette)]
		dc.SetRGB(c.r, c.g, c.b)
		dc.DrawRectangle(lx, ly-9, 12, 12)
		dc.Fill()
		dc.SetRGB(0, 0, 0)
		dc.DrawString(series.Label, lx+18, ly)
		lx += float64(len(series.Label))*8 + 60
	}
	return dc
}

func drawLinePage(sec report.LineSection) *gg.Context {
	dc := newPage(sec.Title)

	plotW := float64(pageWidth) - 2*pageMargin
	plotH := float64(pageHeight) - 3*pageMargin
	baseY := float64(pageHeight) - 1.5*pageMargin
	stepX := plotW / float64(len(sec.XLabels)-1)

	maxY := 1.0
	for x, present := range sec.Present {
		if present && sec.YValues[x] > maxY {
			maxY = sec.YValues[x]
		}
	}

	toXY := func(x int) (float64, float64) {
		return pageMargin + float64(x)*stepX, baseY - sec.YValues[x]/maxY*plotH
	}

	// Hour gridlines and labels.
	dc.SetRGB(0.85, 0.85, 0.85)
	dc.SetLineWidth(1)
	for x := range sec.XLabels {
		px := pageMargin + float64(x)*stepX
		dc.DrawLine(px, baseY-plotH, px, baseY)
		dc.Stroke()
	}
	dc.SetRGB(0, 0, 0)
	for x, label := range sec.XLabels {
		dc.DrawStringAnchored(label, pageMargin+float64(x)*stepX, baseY+14, 0.5, 0.5)
	}

	// Connect consecutive backed points; hours without readings leave gaps.
	c := plotPalette[1]
	dc.SetRGB(c.r, c.g, c.b)
	dc.SetLineWidth(2)
	prev := -1
	for x := range sec.XLabels {
		if !sec.Present[x] {
			continue
		}
		px, py := toXY(x)
		if prev >= 0 && prev == x-1 {
			qx, qy := toXY(prev)
			dc.DrawLine(qx, qy, px, py)
			dc.Stroke()
		}
		dc.DrawCircle(px, py, 3)
		dc.Fill()
		prev = x
	}
	return dc
}
