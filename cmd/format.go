package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// column is one table column. Width 0 leaves the cell unpadded, which
// only makes sense for the last column.
type column struct {
	Title string
	Width int
	Right bool
}

// table writes rows of cells aligned to display width.
type table struct {
	w    io.Writer
	cols []column
}

func newTable(w io.Writer, cols ...column) *table {
	return &table{w: w, cols: cols}
}

func (t *table) header() {
	cells := make([]string, len(t.cols))
	for i, c := range t.cols {
		cells[i] = strings.ToUpper(c.Title)
	}
	t.row(cells...)
}

func (t *table) row(cells ...string) {
	parts := make([]string, len(t.cols))
	for i, c := range t.cols {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		if c.Right {
			parts[i] = padLeft(cell, c.Width)
		} else {
			parts[i] = padToWidth(cell, c.Width)
		}
	}
	fmt.Fprintln(t.w, strings.TrimRight(strings.Join(parts, "  "), " "))
}

// padToWidth pads or truncates text to a fixed display width.
// Width is measured in display columns, accounting for Unicode characters.
// If width <= 0, returns text unchanged.
// If text is longer than width, truncates with "..." suffix.
// If text is shorter than width, pads with spaces.
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}

	currentWidth := runewidth.StringWidth(text)
	if currentWidth > width {
		const ellipsis = "..."
		if width <= len(ellipsis) {
			return runewidth.Truncate(ellipsis, width, "")
		}
		truncated := runewidth.Truncate(text, width-len(ellipsis), "") + ellipsis
		// Wide runes can leave the result one column short
		return runewidth.FillRight(truncated, width)
	}
	return runewidth.FillRight(text, width)
}

// padLeft right-aligns text in width columns. Text wider than width is
// returned unchanged so numbers are never cut.
func padLeft(text string, width int) string {
	if runewidth.StringWidth(text) >= width {
		return text
	}
	return runewidth.FillLeft(text, width)
}

// dollars renders an earnings estimate like "0.0040" as "$0.0040".
func dollars(estimate string) string {
	if estimate == "" {
		return ""
	}
	return "$" + estimate
}

// count renders a play count with thousands separators.
func count(n int) string {
	return humanize.Comma(int64(n))
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// formatTemplate applies a Go template to data
func formatTemplate(data interface{}, templateStr string) (string, error) {
	tmpl, err := template.New("output").Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("invalid template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}

	return buf.String(), nil
}
