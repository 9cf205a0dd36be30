package llm

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jgarber/feedback-radar/internal/aggregate"
	"github.com/jgarber/feedback-radar/internal/types"
)

// featureHints describes each matrix feature for the classification prompt.
var featureHints = map[string]string{
	"design":            "Overall look, aesthetics, and visual appeal",
	"camera":            "Photo and video capabilities, image quality",
	"performance":       "Speed, responsiveness, and processing power",
	"battery":           "Battery life and charging capabilities",
	"software features": "OS, apps, and software functionality",
	"display":           "Screen quality, size, and display features",
	"price":             "Cost and value proposition",
	"audio":             "Speaker quality, headphone jack, and audio features",
	"build quality":     "Durability, materials, and construction quality",
}

// nonSpecificPrefixes mark classifier summaries that carry no actual
// feedback. Items with these summaries are dropped before aggregation.
var nonSpecificPrefixes = []string{
	"no specific", "no feedback", "no mention", "not provided", "no comments",
}

// BuildFeedbackPrompt constructs the classification prompt for one fetched
// item about product.
func BuildFeedbackPrompt(product string, item types.RawText) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Analyze the following feedback about %s and categorize it by feature and feedback type.\n", product))
	sb.WriteString("Focus only on specific, meaningful feedback. Ignore generic or empty responses.\n\n")

	sb.WriteString(fmt.Sprintf("Post/Video Title: %s\n", item.Title))
	sb.WriteString(fmt.Sprintf("Content: %s\n\n", item.Content))

	sb.WriteString("Features to analyze:\n")
	for _, feature := range aggregate.Features() {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", feature, featureHints[feature]))
	}

	sb.WriteString(fmt.Sprintf("\nFeedback types: %s\n\n", strings.Join(aggregate.FeedbackTypes(), ", ")))

	sb.WriteString("For each feature mentioned, provide:\n")
	sb.WriteString("1. The type of feedback (one of the feedback types)\n")
	sb.WriteString("2. A brief summary of the specific feedback\n\n")
	sb.WriteString("Only include features where there is actual, specific feedback provided.\n")
	sb.WriteString("If a feature is mentioned but no specific feedback is given, exclude it from the response.\n\n")

	sb.WriteString("Example response format:\n")
	sb.WriteString(`{
  "design": {"type": "awesome", "summary": "Unique transparent back design stands out"},
  "build quality": {"type": "poor_compared_to_competitor", "summary": "Back glass scratches easily compared to other phones"},
  "software features": {"type": "missing_feature", "summary": "Lacks eSIM support in the standard version"}
}`)
	sb.WriteString("\n\nReturn ONLY valid JSON. Do not include any other text.\n")

	return sb.String()
}

// feedbackJSON is the per-feature object shape of the classifier response.
type feedbackJSON struct {
	Type    string `json:"type"`
	Summary string `json:"summary"`
}

// ParseFeedbackResponse parses a classifier JSON response into classified
// feedback items. Features are emitted in the canonical axis order so the
// arrival order of detail records is deterministic. Features outside the
// closed vocabulary are kept (the aggregator rejects and logs them);
// summaries matching the non-specific prefixes are dropped here.
func ParseFeedbackResponse(jsonText string) ([]types.ClassifiedFeedback, error) {
	var raw map[string]feedbackJSON
	if err := json.Unmarshal([]byte(CleanJSONBlock(jsonText)), &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal classification JSON: %w", err)
	}

	ordered := make([]types.ClassifiedFeedback, 0, len(raw))
	emit := func(feature string) {
		fb, ok := raw[feature]
		if !ok {
			return
		}
		delete(raw, feature)
		if fb.Summary == "" || isNonSpecific(fb.Summary) {
			return
		}
		ordered = append(ordered, types.ClassifiedFeedback{
			Feature: feature,
			Type:    fb.Type,
			Summary: fb.Summary,
		})
	}

	for _, feature := range aggregate.Features() {
		emit(feature)
	}
	// Unknown features, if any, in sorted order for determinism.
	if len(raw) > 0 {
		rest := make([]string, 0, len(raw))
		for feature := range raw {
			rest = append(rest, feature)
		}
		sort.Strings(rest)
		for _, feature := range rest {
			emit(feature)
		}
	}

	return ordered, nil
}

func isNonSpecific(summary string) bool {
	lower := strings.ToLower(summary)
	for _, prefix := range nonSpecificPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
