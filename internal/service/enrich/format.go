package enrich

import (
	"regexp"
	"strings"
)

// maxDisplayLen is the per-line display budget for formatted translations.
const maxDisplayLen = 20

// posToken matches a part-of-speech abbreviation at the start of the string
// or after whitespace/semicolons, optionally terminated by a period. The
// terminator group also accepts whitespace or end-of-string so that a bare
// token ("n 苹果") is recognized while a token-shaped prefix inside a longer
// word ("international") is not. Longer alternatives come first so "adj.comb"
// wins over "adj".
var posToken = regexp.MustCompile(`(?i)(?:^|[\s;；]+)(adj\.comb|modal|comb|prep|pron|conj|aux|art|num|int|adj|adv|vt|vi|n|v)(\.|\s|$)`)

// displayBoundary is the set of characters translation text may be cut at.
const displayBoundary = " ，。；、．,.;:：!！?？"

// leadingSeparators are stripped from the front of per-token content.
const leadingSeparators = " ．.。，,;；:：、"

// FormatTranslation shapes a raw multilingual translation string into a
// bounded, per-part-of-speech display form:
//
//	"n. 苹果；欧洲栽培……; v. 食用" → "n. 苹果；欧洲栽培\nv. 食用"
//
// Strings without recognized POS tokens are returned whole, truncated at a
// display boundary. Pure and total: empty input yields empty output.
func FormatTranslation(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	matches := posToken.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return truncateDisplay(raw)
	}

	var lines []string
	for i, m := range matches {
		token := strings.ToLower(raw[m[2]:m[3]])

		contentStart := m[1]
		contentEnd := len(raw)
		if i+1 < len(matches) {
			contentEnd = matches[i+1][0]
		}

		content := strings.TrimSpace(raw[contentStart:contentEnd])
		content = strings.TrimLeft(content, leadingSeparators)
		content = truncateDisplay(content)
		if content == "" {
			continue
		}

		lines = append(lines, token+". "+content)
	}

	if len(lines) == 0 {
		return truncateDisplay(raw)
	}
	return strings.Join(lines, "\n")
}

// truncateDisplay bounds s to maxDisplayLen display characters. When s is
// longer, the cut point is the first boundary character at or after the
// limit, so no word (or CJK phrase) is split mid-unit; with no boundary in
// sight the cut is exactly at the limit. Trailing boundary characters are
// stripped from the result.
func truncateDisplay(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)

	if len(runes) > maxDisplayLen {
		// First boundary at or after the limit; a run without boundaries is
		// cut hard at the limit.
		cut := -1
		for i := maxDisplayLen; i < len(runes); i++ {
			if isBoundary(runes[i]) {
				cut = i
				break
			}
		}
		if cut == -1 {
			cut = maxDisplayLen
		}
		runes = runes[:cut]
	}

	for len(runes) > 0 && isBoundary(runes[len(runes)-1]) {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}

func isBoundary(r rune) bool {
	return strings.ContainsRune(displayBoundary, r)
}
