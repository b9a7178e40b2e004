package validator

import (
	"regexp"
	"strings"
)

// missingKeywords returns the required keywords absent from the query,
// in the order the spec listed them. Matching is case-insensitive and
// whole-word: "JOIN" must not match inside an identifier like
// "disjoint_table". Multi-word keywords ("ORDER BY") tolerate any
// whitespace between their words.
func missingKeywords(query string, required []string) []string {
	var missing []string
	for _, keyword := range required {
		if !keywordPattern(keyword).MatchString(query) {
			missing = append(missing, strings.ToUpper(keyword))
		}
	}
	return missing
}

func keywordPattern(keyword string) *regexp.Regexp {
	words := strings.Fields(keyword)
	if len(words) == 0 {
		return regexp.MustCompile(``)
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}

	// \b only means something against a word-character edge. A keyword
	// like "COUNT(*)" ends in punctuation, and anchoring it would make
	// the pattern unmatchable before whitespace.
	prefix, suffix := "", ""
	first := words[0]
	last := words[len(words)-1]
	if isWordByte(first[0]) {
		prefix = `\b`
	}
	if isWordByte(last[len(last)-1]) {
		suffix = `\b`
	}
	return regexp.MustCompile(`(?i)` + prefix + strings.Join(quoted, `\s+`) + suffix)
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
