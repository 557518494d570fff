package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"glikoz/glikoz/defs"
)

// ReadDiaguard parses a Diaguard backup export. The file interleaves
// "food" definitions (carbs per 100g) with "entry" blocks whose following
// lines carry measurements, eaten foods, and tags until the next
// non-detail line.
func ReadDiaguard(r io.Reader) ([]defs.Entry, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("loader: unable to read diaguard backup: %w", err)
	}

	d := diaguardParser{foods: make(map[string]float64)}
	i := 0
	for i < len(lines) {
		name, content := splitLine(lines[i])
		switch name {
		case "food":
			d.addFood(content)
			i++
		case "entry":
			var err error
			if i, err = d.addEntry(lines, content, i+1); err != nil {
				return nil, err
			}
		default:
			i++
		}
	}
	return d.entries, nil
}

type diaguardParser struct {
	foods   map[string]float64 // carbs per 100g, keyed by lowercase name
	entries []defs.Entry
}

func (d *diaguardParser) addFood(content []string) {
	if len(content) == 0 {
		return
	}
	ratio, _ := strconv.ParseFloat(content[len(content)-1], 64)
	d.foods[strings.ToLower(content[0])] = ratio
}

// addEntry consumes the detail lines following an "entry" line and returns
// the index of the first line it did not consume.
func (d *diaguardParser) addEntry(lines, content []string, i int) (int, error) {
	if len(content) == 0 {
		return i, fmt.Errorf("loader: diaguard entry without a date")
	}
	ts, err := parseTime(content[0])
	if err != nil {
		return i, fmt.Errorf("loader: %w", err)
	}

	entry := defs.Entry{Time: ts}
	var carbs float64
	var hasCarbs bool

	for i < len(lines) {
		field, values := splitLine(lines[i])
		switch field {
		case "measurement":
			if len(values) < 2 {
				break
			}
			switch values[0] {
			case "bloodsugar":
				g, _ := strconv.ParseFloat(values[1], 64)
				entry.Glucose = defs.Float(g)
			case "insulin":
				if len(values) >= 4 {
					bolus, _ := strconv.ParseFloat(values[1], 64)
					correction, _ := strconv.ParseFloat(values[2], 64)
					basal, _ := strconv.ParseFloat(values[3], 64)
					entry.FastInsulin = defs.Float(bolus + correction)
					entry.BasalInsulin = defs.Float(basal)
				}
			case "meal":
				g, _ := strconv.ParseFloat(values[1], 64)
				carbs += g
				hasCarbs = true
			}
		case "foodEaten":
			if len(values) >= 2 {
				ratio, ok := d.foods[strings.ToLower(values[0])]
				if !ok {
					return i, fmt.Errorf("loader: diaguard entry references unknown food %q", values[0])
				}
				weight, _ := strconv.ParseFloat(values[1], 64)
				carbs += weight * ratio / 100
				hasCarbs = true
			}
		case "entryTag":
			// Tags carry no metric data.
		default:
			if hasCarbs {
				entry.Carbs = defs.Float(carbs)
			}
			d.entries = append(d.entries, entry)
			return i, nil
		}
		i++
	}

	if hasCarbs {
		entry.Carbs = defs.Float(carbs)
	}
	d.entries = append(d.entries, entry)
	return i, nil
}

// splitLine breaks a semicolon-separated backup line into its leading
// field name and values, trimming the surrounding double quotes.
func splitLine(line string) (string, []string) {
	fields := strings.Split(line, ";")
	for i, f := range fields {
		fields[i] = strings.Trim(f, `"`)
	}
	return fields[0], fields[1:]
}
