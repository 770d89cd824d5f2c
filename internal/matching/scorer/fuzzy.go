package scorer

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	edlib "github.com/hbollon/go-edlib"
)

// tokenize lower-cases s, treats every non-alphanumeric rune as a separator
// and returns the distinct words in sorted order.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// ratio is the normalised indel similarity of a and b in 0..100: edits are
// insertions and deletions only, so a substitution costs 2. Only identical
// strings score 100; halves round to even.
func ratio(a, b string) int {
	if a == b {
		return 100
	}
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	dist := edlib.LCSEditDistance(a, b)
	score := int(math.RoundToEven(100 * float64(total-dist) / float64(total)))
	if score >= 100 {
		score = 99
	}
	if score < 0 {
		score = 0
	}
	return score
}

// TokenSetRatio compares a and b as word sets. The shared words are compared
// against each side's shared-plus-remaining words and the best pairing wins,
// so word order and repetition do not matter and a subset scores 100.
// Either side having no words scores 0.
func TokenSetRatio(a, b string) int {
	ta, tb := tokenize(a), tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inB := make(map[string]struct{}, len(tb))
	for _, t := range tb {
		inB[t] = struct{}{}
	}
	inA := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		inA[t] = struct{}{}
	}

	var common, onlyA, onlyB []string
	for _, t := range ta {
		if _, ok := inB[t]; ok {
			common = append(common, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range tb {
		if _, ok := inA[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}

	sect := strings.Join(common, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	best := ratio(combinedA, combinedB)
	if sect != "" {
		best = max(best, ratio(sect, combinedA), ratio(sect, combinedB))
	}
	return best
}
