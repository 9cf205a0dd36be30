// Package export writes analysis results as flat CSV tables.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jgarber/feedback-radar/internal/types"
)

// detailHeader is the column order of the per-item detail table.
var detailHeader = []string{"title", "feature", "feedback_type", "summary", "url", "source"}

// WriteDetails writes one row per accepted classified item, in arrival
// order.
func WriteDetails(w io.Writer, details []types.DetailRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(detailHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range details {
		row := []string{rec.Title, rec.Feature, rec.FeedbackType, rec.Summary, rec.URL, rec.Source}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteComplaints writes canonical complaint entries as {summary, count}
// rows. Callers pass entries already ordered (typically count-descending).
func WriteComplaints(w io.Writer, entries []*types.CanonicalEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"summary", "category", "count"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, entry := range entries {
		row := []string{entry.Summary, string(entry.Category), strconv.Itoa(entry.Count)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTopComplaints writes at most n entries.
func WriteTopComplaints(w io.Writer, entries []*types.CanonicalEntry, n int) error {
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return WriteComplaints(w, entries)
}

// WriteMatrixCSV writes the feature x feedback-type grid with features as
// rows.
func WriteMatrixCSV(w io.Writer, features, feedbackTypes []string, cell func(feature, feedbackType string) int) error {
	cw := csv.NewWriter(w)
	header := append([]string{"feature"}, feedbackTypes...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, f := range features {
		row := make([]string, 0, len(feedbackTypes)+1)
		row = append(row, f)
		for _, t := range feedbackTypes {
			row = append(row, strconv.Itoa(cell(f, t)))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV creates path (and its directory) and writes with fn.
func SaveCSV(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := fn(f); err != nil {
		return err
	}
	return f.Close()
}
