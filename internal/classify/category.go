// Package classify assigns product feedback text to feature categories
// using a fixed keyword trigger table, and extracts short complaint
// summaries from cleaned text.
package classify

import "strings"

// Category is a feature area of the product under analysis. The vocabulary
// is closed; free-form strings never enter the pipeline as categories.
type Category string

const (
	// CategoryCamera covers photo and video capabilities
	CategoryCamera Category = "camera"
	// CategoryBattery covers battery life and charging
	CategoryBattery Category = "battery"
	// CategoryPerformance covers speed and responsiveness
	CategoryPerformance Category = "performance"
	// CategoryDisplay covers screen quality and display features
	CategoryDisplay Category = "display"
	// CategoryPrice covers cost and value
	CategoryPrice Category = "price"
	// CategoryBuildQuality covers materials and durability
	CategoryBuildQuality Category = "build quality"
	// CategorySoftware covers OS, apps, and updates
	CategorySoftware Category = "software"
	// CategoryAudio covers speakers, microphones, and sound
	CategoryAudio Category = "audio"
	// CategoryDesign covers look, aesthetics, and form factor
	CategoryDesign Category = "design"
	// CategoryUncategorized is the sentinel for text that triggers no category.
	// Callers treat uncategorized text as "not a usable complaint".
	CategoryUncategorized Category = "uncategorized"
)

// categoryOrder fixes the declaration order used for deterministic
// tie-breaking in Categorize. Do not reorder without updating tests.
var categoryOrder = []Category{
	CategoryCamera,
	CategoryBattery,
	CategoryPerformance,
	CategoryDisplay,
	CategoryPrice,
	CategoryBuildQuality,
	CategorySoftware,
	CategoryAudio,
	CategoryDesign,
}

// categoryKeywords maps each category to its lexical trigger keywords.
// Matching is whole-token and case-insensitive, so common inflections are
// listed explicitly rather than relying on substring matches.
var categoryKeywords = map[Category][]string{
	CategoryCamera: {
		"camera", "cameras", "lens", "photo", "photos", "picture", "pictures",
		"video", "videos", "zoom", "selfie", "selfies", "sensor", "megapixel",
	},
	CategoryBattery: {
		"battery", "charge", "charging", "charger", "drain", "drains", "drained",
		"overheat", "overheats", "overheating", "hot", "mah", "standby",
	},
	CategoryPerformance: {
		"performance", "slow", "sluggish", "lag", "laggy", "lags", "speed",
		"stutter", "stutters", "processor", "chip", "chipset", "ram", "benchmark",
	},
	CategoryDisplay: {
		"display", "screen", "brightness", "refresh", "resolution", "oled",
		"amoled", "bezel", "bezels", "panel", "hz", "nits",
	},
	CategoryPrice: {
		"price", "pricing", "expensive", "cheap", "cheaper", "cost", "value",
		"overpriced", "money", "worth",
	},
	CategoryBuildQuality: {
		"build", "quality", "plastic", "glass", "scratch", "scratches",
		"scratched", "flimsy", "sturdy", "durability", "durable", "crack",
		"cracked", "creaks",
	},
	CategorySoftware: {
		"software", "android", "ios", "os", "update", "updates", "bug", "bugs",
		"bloatware", "app", "apps", "ui", "firmware", "glitch", "glitches",
		"launcher",
	},
	CategoryAudio: {
		"audio", "speaker", "speakers", "sound", "volume", "headphone",
		"headphones", "jack", "bass", "mic", "microphone", "earpiece",
	},
	CategoryDesign: {
		"design", "look", "looks", "aesthetic", "aesthetics", "style", "color",
		"colors", "weight", "thin", "thick", "sleek", "bulky",
	},
}

// keywordSets holds the same table as categoryKeywords with set semantics
// for O(1) membership tests during similarity scoring.
var keywordSets = func() map[Category]map[string]bool {
	sets := make(map[Category]map[string]bool, len(categoryKeywords))
	for cat, words := range categoryKeywords {
		set := make(map[string]bool, len(words))
		for _, w := range words {
			set[w] = true
		}
		sets[cat] = set
	}
	return sets
}()

// Categories returns the closed category vocabulary in declaration order,
// excluding the uncategorized sentinel.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Valid reports whether c is a member of the closed vocabulary
// (the uncategorized sentinel counts as valid).
func (c Category) Valid() bool {
	if c == CategoryUncategorized {
		return true
	}
	_, ok := categoryKeywords[c]
	return ok
}

// Categorize assigns a category to cleaned text by counting trigger keyword
// hits per category. The strictly highest count wins; ties resolve to the
// first-declared category. Text that triggers no category at all returns
// CategoryUncategorized.
func Categorize(cleaned string) Category {
	tokens := Tokenize(cleaned)
	if len(tokens) == 0 {
		return CategoryUncategorized
	}

	best := CategoryUncategorized
	bestCount := 0
	for _, cat := range categoryOrder {
		count := 0
		set := keywordSets[cat]
		for tok := range tokens {
			if set[tok] {
				count++
			}
		}
		// Strictly greater keeps the first-declared category on ties.
		if count > bestCount {
			bestCount = count
			best = cat
		}
	}
	return best
}

// Tokenize lowercases text and returns its whitespace-delimited tokens as a
// set. Sentence-terminal punctuation left by the sentence-preserving cleaner
// is stripped so token matching stays whole-word.
func Tokenize(text string) map[string]bool {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make(map[string]bool, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".!?")
		if f != "" {
			tokens[f] = true
		}
	}
	return tokens
}

// TriggerKeywords returns the tokens of text that belong to the trigger
// vocabulary of cat. This is the restricted token set the lexical similarity
// strategy intersects.
func TriggerKeywords(text string, cat Category) map[string]bool {
	set, ok := keywordSets[cat]
	if !ok {
		return map[string]bool{}
	}
	out := make(map[string]bool)
	for tok := range Tokenize(text) {
		if set[tok] {
			out[tok] = true
		}
	}
	return out
}
