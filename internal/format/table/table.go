package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Format returns the rows padded according to the widest entry in each
// column. Widths are measured in terminal cells, so styled cells align.
func Format(rows [][]string, alignments []Alignment) []string {
	if len(rows) == 0 {
		return nil
	}
	widths := columnWidths(rows)
	out := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		for c, cell := range row {
			if c > 0 {
				b.WriteString("  ")
			}
			pad := widths[c] - lipgloss.Width(cell)
			if c < len(alignments) && alignments[c] == AlignRight {
				b.WriteString(strings.Repeat(" ", max(pad, 0)))
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				if c < len(row)-1 {
					b.WriteString(strings.Repeat(" ", max(pad, 0)))
				}
			}
		}
		out[i] = b.String()
	}
	return out
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for c, cell := range row {
			if c >= len(widths) {
				widths = append(widths, 0)
			}
			widths[c] = max(widths[c], lipgloss.Width(cell))
		}
	}
	return widths
}

// Row is one key/value line of a details panel.
type Row struct {
	Key   string
	Value string
	// Style overrides the value style when set.
	Style *lipgloss.Style
}

// KeyValues renders rows as a right-aligned key column followed by values
// truncated to fit width cells.
func KeyValues(rows []Row, width int, key, value lipgloss.Style) []string {
	if len(rows) == 0 {
		return nil
	}
	keyWidth := 0
	for _, r := range rows {
		keyWidth = max(keyWidth, lipgloss.Width(r.Key))
	}
	room := width - keyWidth - 2
	out := make([]string, len(rows))
	for i, r := range rows {
		k := strings.Repeat(" ", keyWidth-lipgloss.Width(r.Key)) + r.Key
		v := r.Value
		if room > 0 {
			v = truncate.StringWithTail(v, uint(room), "…")
		}
		style := value
		if r.Style != nil {
			style = *r.Style
		}
		out[i] = key.Render(k) + "  " + style.Render(v)
	}
	return out
}
