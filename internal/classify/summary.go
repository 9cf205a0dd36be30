package classify

import (
	"fmt"
	"strings"

	"github.com/jgarber/feedback-radar/internal/ingestion"
)

// Sentence length window for summary candidates, in tokens. Shorter
// sentences carry too little context; longer ones are rants, not summaries.
const (
	minSummaryTokens = 5
	maxSummaryTokens = 25
)

// complaintIndicators are tokens that mark text as an actual complaint.
// Text containing none of them is treated as non-complaint feedback and
// dropped from clustering.
var complaintIndicators = tokenSet(
	"bad", "terrible", "awful", "disappointed", "disappointing", "issue",
	"issues", "problem", "problems", "bug", "bugs", "crash", "crashes",
	"crashed", "broken", "poor", "horrible", "worst", "fail", "fails",
	"failed", "faulty", "defect", "defective", "slow", "sluggish", "lag",
	"laggy", "lags", "drain", "drains", "drained", "overheat", "overheats",
	"overheating", "hot", "scratch", "scratches", "scratched", "flimsy",
	"expensive", "overpriced", "annoying", "useless", "lacks", "lacking",
	"missing", "weak", "dim", "stutter", "stutters", "dies", "dying",
)

// positiveMarkers flag praise. A sentence carrying any of these is not a
// complaint summary candidate.
var positiveMarkers = tokenSet(
	"great", "love", "loved", "loving", "awesome", "amazing", "excellent",
	"perfect", "best", "fantastic", "good", "nice", "impressive", "happy",
	"incredible", "beautiful", "stunning", "solid",
)

// anecdoteMarkers flag first-person narration. Sentences about the
// reviewer's story rather than the product are excluded.
var anecdoteMarkers = tokenSet(
	"i", "my", "me", "mine", "im", "ive", "we", "our", "bought", "tried",
	"ordered", "returned", "upgraded",
)

func tokenSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// HasComplaintIndicator reports whether any token of text belongs to the
// complaint-indicator vocabulary.
func HasComplaintIndicator(text string) bool {
	for tok := range Tokenize(text) {
		if complaintIndicators[tok] {
			return true
		}
	}
	return false
}

// ExtractSummary derives a short, human-readable complaint summary from
// sentence-preserving cleaned text. It keeps sentences that are inside the
// token window, carry no first-person or positive markers, and contain both
// a trigger keyword of cat and a complaint indicator; among survivors the
// shortest wins. When the text has a complaint indicator but no sentence
// survives the filters, a templated fallback naming the category is
// returned.
//
// The second return value is false when the text contains no complaint
// indicator at all, meaning it is not a complaint and should be discarded.
// This is a best-effort extractive heuristic, not semantically validated.
func ExtractSummary(cleanedSentences string, cat Category) (string, bool) {
	if !HasComplaintIndicator(cleanedSentences) {
		return "", false
	}

	var best string
	bestLen := 0
	for _, sentence := range ingestion.SplitSentences(cleanedSentences) {
		tokens := strings.Fields(strings.ToLower(sentence))
		if len(tokens) < minSummaryTokens || len(tokens) > maxSummaryTokens {
			continue
		}
		if containsAny(tokens, anecdoteMarkers) || containsAny(tokens, positiveMarkers) {
			continue
		}
		if len(TriggerKeywords(sentence, cat)) == 0 {
			continue
		}
		if !containsAny(tokens, complaintIndicators) {
			continue
		}
		// Shortest survivor is treated as the most focused.
		if best == "" || len(tokens) < bestLen {
			best = strings.ToLower(strings.Join(tokens, " "))
			bestLen = len(tokens)
		}
	}

	if best == "" {
		return fmt.Sprintf("reported problems with %s", cat), true
	}
	return best, true
}

func containsAny(tokens []string, set map[string]bool) bool {
	for _, tok := range tokens {
		if set[strings.Trim(tok, ".!?")] {
			return true
		}
	}
	return false
}
