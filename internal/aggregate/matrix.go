// Package aggregate accumulates classified feedback items into a
// feature x feedback-type count matrix with per-source tallies and an
// append-only detail list.
package aggregate

import (
	"fmt"

	"github.com/jgarber/feedback-radar/internal/types"
)

// features is the closed feature vocabulary of the matrix axis. It is a
// superset-compatible list distinct from the clustering categories.
var features = []string{
	"design",
	"camera",
	"performance",
	"battery",
	"software features",
	"display",
	"price",
	"audio",
	"build quality",
}

// feedbackTypes is the closed feedback-type vocabulary.
var feedbackTypes = []string{
	"missing_feature",
	"poor_compared_to_competitor",
	"unnecessary_feature",
	"awesome",
}

var (
	featureSet      = toSet(features)
	feedbackTypeSet = toSet(feedbackTypes)
)

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// Features returns the feature axis in declaration order.
func Features() []string {
	out := make([]string, len(features))
	copy(out, features)
	return out
}

// FeedbackTypes returns the feedback-type axis in declaration order.
func FeedbackTypes() []string {
	out := make([]string, len(feedbackTypes))
	copy(out, feedbackTypes)
	return out
}

// ValidFeature reports membership in the feature vocabulary.
func ValidFeature(feature string) bool { return featureSet[feature] }

// ValidFeedbackType reports membership in the feedback-type vocabulary.
func ValidFeedbackType(feedbackType string) bool { return feedbackTypeSet[feedbackType] }

// UnknownLabelError reports a feature or feedback type outside the closed
// vocabulary. The offending record is skipped; the matrix is unaffected.
// Callers log it as a data-quality warning rather than aborting.
type UnknownLabelError struct {
	Field string
	Value string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown %s label %q", e.Field, e.Value)
}

// Aggregator accumulates the matrix, source tally, and detail records.
// Not safe for concurrent use; recording is a single logical thread.
type Aggregator struct {
	cells   map[string]map[string]int
	sources map[string]int
	details []types.DetailRecord
}

// New returns an empty aggregator with every matrix cell present at zero.
func New() *Aggregator {
	cells := make(map[string]map[string]int, len(features))
	for _, f := range features {
		row := make(map[string]int, len(feedbackTypes))
		for _, t := range feedbackTypes {
			row[t] = 0
		}
		cells[f] = row
	}
	return &Aggregator{
		cells:   cells,
		sources: make(map[string]int),
	}
}

// Record validates and accumulates one classified feedback item. Exactly one
// cell and one source tally are incremented per accepted record. A record
// with an unknown feature or feedback type returns UnknownLabelError and
// leaves all state unchanged.
func (a *Aggregator) Record(rec types.DetailRecord) error {
	if !ValidFeature(rec.Feature) {
		return &UnknownLabelError{Field: "feature", Value: rec.Feature}
	}
	if !ValidFeedbackType(rec.FeedbackType) {
		return &UnknownLabelError{Field: "feedback type", Value: rec.FeedbackType}
	}

	a.cells[rec.Feature][rec.FeedbackType]++
	a.sources[rec.Source]++
	a.details = append(a.details, rec)
	return nil
}

// Cell returns one matrix count. Unknown labels read as 0.
func (a *Aggregator) Cell(feature, feedbackType string) int {
	row, ok := a.cells[feature]
	if !ok {
		return 0
	}
	return row[feedbackType]
}

// Matrix returns a copy of the full count grid keyed by feature then
// feedback type.
func (a *Aggregator) Matrix() map[string]map[string]int {
	out := make(map[string]map[string]int, len(a.cells))
	for f, row := range a.cells {
		cp := make(map[string]int, len(row))
		for t, n := range row {
			cp[t] = n
		}
		out[f] = cp
	}
	return out
}

// SourceTally returns a copy of the per-platform accepted-item counts.
func (a *Aggregator) SourceTally() map[string]int {
	out := make(map[string]int, len(a.sources))
	for s, n := range a.sources {
		out[s] = n
	}
	return out
}

// Details returns the accepted records in arrival order.
func (a *Aggregator) Details() []types.DetailRecord {
	out := make([]types.DetailRecord, len(a.details))
	copy(out, a.details)
	return out
}

// Total returns the sum of all matrix cells, which equals the number of
// accepted Record calls.
func (a *Aggregator) Total() int {
	total := 0
	for _, row := range a.cells {
		for _, n := range row {
			total += n
		}
	}
	return total
}

// FeatureTotals returns row sums keyed by feature.
func (a *Aggregator) FeatureTotals() map[string]int {
	out := make(map[string]int, len(a.cells))
	for f, row := range a.cells {
		sum := 0
		for _, n := range row {
			sum += n
		}
		out[f] = sum
	}
	return out
}

// FeaturePercentages returns each feature's share of the grand total in
// percent. All shares are 0 when the grand total is 0.
func (a *Aggregator) FeaturePercentages() map[string]float64 {
	totals := a.FeatureTotals()
	grand := a.Total()
	out := make(map[string]float64, len(totals))
	for f, n := range totals {
		if grand == 0 {
			out[f] = 0
			continue
		}
		out[f] = float64(n) / float64(grand) * 100
	}
	return out
}
