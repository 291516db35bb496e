package rank

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Render formats ranked entries into display lines: a numbered item line,
// an intensity bar with the rounded rating, and a stats line when the item
// has been played. barWidth below MaxIntensity shrinks bars proportionally.
func Render(entries []Entry, barWidth int) []string {
	if len(entries) == 0 {
		return nil
	}
	if barWidth <= 0 || barWidth > MaxIntensity {
		barWidth = MaxIntensity
	}
	lines := make([]string, 0, len(entries)*4)
	for i, e := range entries {
		lines = append(lines, fmt.Sprintf("%2d. %s", i+1, e.Item))
		bar := strings.Repeat("-", scaleBar(e.Intensity, barWidth))
		lines = append(lines, fmt.Sprintf("    %s (%.0f)", bar, e.Rating))
		if e.Plays > 0 {
			lines = append(lines, fmt.Sprintf("    Plays: %d, Wins: %d, Losses: %d", e.Plays, e.Wins, e.Losses))
		}
		lines = append(lines, "")
	}
	return lines
}

func scaleBar(intensity, barWidth int) int {
	if barWidth >= MaxIntensity {
		return intensity
	}
	scaled := intensity * barWidth / MaxIntensity
	if scaled < 1 {
		scaled = 1
	}
	return scaled
}

// FormatTable lays out rows into columns padded by display width. Columns in
// rightAlign are padded on the left.
func FormatTable(headers []string, rows [][]string, rightAlign map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlign))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlign))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlign map[int]bool) string {
	var b strings.Builder
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		padding := width - runewidth.StringWidth(cell)
		if padding < 0 {
			padding = 0
		}
		if rightAlign[i] {
			b.WriteString(strings.Repeat(" ", padding))
			b.WriteString(cell)
		} else {
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", padding))
		}
	}
	return strings.TrimRight(b.String(), " ")
}
