// Package observability provides formatted output utilities for verbose
// CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jgarber/feedback-radar/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxComplaintsToShow is the default number of complaints to display
	maxComplaintsToShow = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMatrix outputs the feedback matrix as an aligned grid.
func (p *Printer) PrintMatrix(features, feedbackTypes []string, cell func(feature, feedbackType string) int) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-18s", ""))
	for _, t := range feedbackTypes {
		sb.WriteString(fmt.Sprintf("%-10s", abbreviate(t, 9)))
	}
	sb.WriteString("\n")

	for _, f := range features {
		sb.WriteString(fmt.Sprintf("%-18s", abbreviate(f, 17)))
		for _, t := range feedbackTypes {
			sb.WriteString(fmt.Sprintf("%-10d", cell(f, t)))
		}
		sb.WriteString("\n")
	}

	p.printBox("FEEDBACK MATRIX", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDistribution outputs each feature's share of total feedback.
func (p *Printer) PrintDistribution(features []string, percentages map[string]float64) {
	var sb strings.Builder
	for _, f := range features {
		sb.WriteString(fmt.Sprintf("%-18s %5.1f%%\n", abbreviate(f, 17), percentages[f]))
	}
	p.printBox("FEEDBACK BY FEATURE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSourceTally outputs accepted item counts per platform.
func (p *Printer) PrintSourceTally(tally map[string]int) {
	if len(tally) == 0 {
		return
	}
	var sb strings.Builder
	for _, source := range sortedKeys(tally) {
		sb.WriteString(fmt.Sprintf("%-18s %d\n", source, tally[source]))
	}
	p.printBox("FEEDBACK BY SOURCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTopComplaints outputs the most frequent canonical complaints with
// their occurrence counts.
func (p *Printer) PrintTopComplaints(entries []*types.CanonicalEntry) {
	if len(entries) == 0 {
		return
	}
	count := len(entries)
	if count > maxComplaintsToShow {
		count = maxComplaintsToShow
	}

	var sb strings.Builder
	for i := 0; i < count; i++ {
		entry := entries[i]
		sb.WriteString(fmt.Sprintf("%2d. (%dx) %s\n", i+1, entry.Count, entry.Summary))
	}
	if len(entries) > count {
		sb.WriteString(fmt.Sprintf("    ... and %d more\n", len(entries)-count))
	}
	p.printBox("TOP COMPLAINTS", strings.TrimSuffix(sb.String(), "\n"))
}

func abbreviate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
