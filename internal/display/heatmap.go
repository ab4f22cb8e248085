package display

import (
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/drill"
)

// Heatmap renders drill accuracy with the dealer upcard across and the
// player hand down. Cells show the accuracy percentage, coloured by rating.
func Heatmap(stats drill.Stats) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%-6s", ""))
	for _, d := range drill.DealerValues {
		b.WriteString(fmt.Sprintf("%5s", dealerLabel(d)))
	}
	b.WriteString("\n")

	var last drill.Category
	for _, row := range stats.Heatmap() {
		if row.Category != last {
			b.WriteString(HeaderStyle.Render(categoryName(row.Category)) + "\n")
			last = row.Category
		}
		b.WriteString(fmt.Sprintf("%-6s", row.Label))
		for _, cell := range row.Cells {
			b.WriteString(" " + Cell(cell))
		}
		b.WriteString("\n")
	}

	total := stats.Totals()
	fmt.Fprintf(&b, "Overall: %d/%d (%.0f%%)\n", total.Correct, total.Total, total.Accuracy()*100)
	return b.String()
}

// Cell renders one record as a four-character cell.
func Cell(r drill.Record) string {
	switch r.Rate() {
	case drill.Good:
		return GoodCellStyle.Render(percent(r))
	case drill.Fair:
		return FairCellStyle.Render(percent(r))
	case drill.Weak:
		return WeakCellStyle.Render(percent(r))
	default:
		return UnseenCellStyle.Render("   ·")
	}
}

func percent(r drill.Record) string {
	return fmt.Sprintf("%3.0f%%", r.Accuracy()*100)
}

func dealerLabel(d int) string {
	switch d {
	case 10:
		return "T"
	case 11:
		return "A"
	default:
		return fmt.Sprint(d)
	}
}

func categoryName(c drill.Category) string {
	switch c {
	case drill.Hard:
		return "Hard"
	case drill.Soft:
		return "Soft"
	default:
		return "Pairs"
	}
}

// Weakest lists the scenarios most worth practising.
func Weakest(stats drill.Stats, n, minSamples int) string {
	entries := stats.Weakest(n, minSamples)
	if len(entries) == 0 {
		return InfoStyle.Render("Not enough drill decisions yet") + "\n"
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%-8s %s %d/%d\n", e.Key, Cell(e.Record), e.Record.Correct, e.Record.Total)
	}
	return b.String()
}
