package agent

import (
	"strings"
	"unicode"
)

// UnknownCaller is the placeholder used until the caller introduces
// themselves.
const UnknownCaller = "Unknown"

// nameCues are the tokens a self-introduction pivots on: the word right
// after one of these is the candidate name.
var nameCues = map[string]bool{
	"is":  true,
	"i'm": true,
	"am":  true,
}

// ExtractCallerName pulls a name out of a self-introduction like "my name
// is Asha" or "I'm Ravi". The heuristic requires the candidate word to be
// capitalized, which filters most false positives from "i'm looking for".
func ExtractCallerName(text string) (string, bool) {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "my name is") &&
		!strings.Contains(lower, "i'm") &&
		!strings.Contains(lower, "i am") {
		return "", false
	}

	words := strings.Fields(text)
	for i, word := range words {
		if !nameCues[strings.ToLower(word)] || i+1 >= len(words) {
			continue
		}
		candidate := strings.Trim(words[i+1], ".,!?")
		if candidate == "" {
			continue
		}
		if unicode.IsUpper([]rune(candidate)[0]) {
			return candidate, true
		}
	}

	return "", false
}
