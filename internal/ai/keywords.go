package ai

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	keywordMinLen = 5
	keywordCount  = 5
)

// extractKeywords returns the five most frequent words longer than four
// characters, comma-joined. Words are lower-cased with punctuation removed;
// equally frequent words keep the order in which they first appear.
func extractKeywords(content string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, content)

	counts := make(map[string]int)
	var order []string
	for _, w := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(w) < keywordMinLen {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > keywordCount {
		order = order[:keywordCount]
	}
	return strings.Join(order, ", ")
}
