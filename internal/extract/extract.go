// Package extract pulls structured running-shoe specs out of free-text
// search snippets. This is heuristic pattern matching, not parsing: unfound
// fields stay empty and malformed input never causes an error.
package extract

import (
	"regexp"
	"strings"

	"mspro-labs/sole-scout/internal/models"
)

var (
	// "heel-to-toe drop of 8mm", "drop: 8 mm", "offset of 10mm"
	reDropAfter = regexp.MustCompile(`(?i)(?:heel[\s-]?to[\s-]?toe\s+)?(?:drop|offset)(?:\s+of)?\s*:?\s*(\d+(?:\.\d+)?)\s*mm`)
	// "8mm drop", "8 mm heel-to-toe drop"
	reDropBefore = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mm\s+(?:heel[\s-]?to[\s-]?toe\s+)?drop`)
	// "stack height: 32mm/24mm", "stack height of 38 mm"
	reStack = regexp.MustCompile(`(?i)stack\s*height(?:\s+of)?\s*:?\s*(\d+(?:\.\d+)?\s*mm(?:\s*/\s*\d+(?:\.\d+)?\s*mm)?)`)
	// "36mm in the heel and 28mm in the forefoot", "36mm heel / 28mm forefoot"
	reStackPair = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mm(?:\s+in the)?\s+heel\s*(?:/|,|and)\s*(?:a\s+)?(\d+(?:\.\d+)?)\s*mm(?:\s+in the)?\s+forefoot`)
	// "weighs 9.8 oz", "weight: 278 g (9.8 ounces)"
	reWeight = regexp.MustCompile(`(?i)(?:weighs?|weight)\s*(?:in at|of)?\s*:?\s*(\d+(?:\.\d+)?)\s*(oz|ounces?|g|grams?)\b`)
	// bare "9.8 oz" as a fallback when no weight keyword is nearby
	reWeightBare = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(oz|ounces)\b`)

	cushionWords = []string{"cushion", "plush", "responsive", "firm ride", "soft ride", "max-cushion"}
)

// FromSnippets runs the extractor over each snippet in order; the first
// match for a field wins. Always returns a record, possibly all-empty.
func FromSnippets(name string, snippets []string) models.ShoeSpecs {
	specs := models.ShoeSpecs{Name: name}
	for _, s := range snippets {
		apply(&specs, s)
		if complete(specs) {
			break
		}
	}
	return specs
}

// FromText extracts specs from a single block of text, e.g. a scraped page.
func FromText(name, text string) models.ShoeSpecs {
	specs := models.ShoeSpecs{Name: name}
	apply(&specs, text)
	return specs
}

func apply(specs *models.ShoeSpecs, text string) {
	if specs.HeelToToeDrop == "" {
		if m := reDropAfter.FindStringSubmatch(text); m != nil {
			specs.HeelToToeDrop = m[1] + "mm"
		} else if m := reDropBefore.FindStringSubmatch(text); m != nil {
			specs.HeelToToeDrop = m[1] + "mm"
		}
	}
	if specs.StackHeight == "" {
		if m := reStack.FindStringSubmatch(text); m != nil {
			specs.StackHeight = compactMM(m[1])
		} else if m := reStackPair.FindStringSubmatch(text); m != nil {
			specs.StackHeight = m[1] + "mm/" + m[2] + "mm"
		}
	}
	if specs.Weight == "" {
		if m := reWeight.FindStringSubmatch(text); m != nil {
			specs.Weight = m[1] + normalizeUnit(m[2])
		} else if m := reWeightBare.FindStringSubmatch(text); m != nil {
			specs.Weight = m[1] + "oz"
		}
	}
	if specs.Cushioning == "" {
		specs.Cushioning = cushioningSentence(text)
	}
}

func complete(s models.ShoeSpecs) bool {
	return s.HeelToToeDrop != "" && s.StackHeight != "" && s.Weight != "" && s.Cushioning != ""
}

// compactMM normalizes "32 mm / 24 mm" style captures to "32mm/24mm".
func compactMM(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	return s
}

func normalizeUnit(u string) string {
	switch strings.ToLower(u) {
	case "oz", "ounce", "ounces":
		return "oz"
	default:
		return "g"
	}
}

// cushioningSentence returns the first reasonably short sentence that talks
// about cushioning, or "" when none is found.
func cushioningSentence(text string) string {
	for _, sentence := range strings.Split(text, ".") {
		trimmed := strings.TrimSpace(sentence)
		if trimmed == "" || len(trimmed) > 200 {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, w := range cushionWords {
			if strings.Contains(lower, w) {
				return trimmed
			}
		}
	}
	return ""
}
