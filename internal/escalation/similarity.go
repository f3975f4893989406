package escalation

import "strings"

// Similarity is the Jaccard index of the lowercase whitespace-separated word
// sets of a and b. Two inputs without any words score 0.
func Similarity(a, b string) float64 {
	wa := wordSet(a)
	wb := wordSet(b)

	union := len(wa)
	intersection := 0
	for w := range wb {
		if _, ok := wa[w]; ok {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
