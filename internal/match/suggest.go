package match

import "unicode/utf8"

// Closest returns the known name nearest to name after normalization. A
// candidate qualifies when its distance is at most a quarter of the
// normalized length of name, and at least one edit is always tolerated. Ties
// go to the earlier candidate.
func Closest(name string, known []string) (string, bool) {
	norm := NormalizeIdent(name)
	if norm == "" {
		return "", false
	}

	var (
		best     string
		bestDist = -1
	)

	for _, k := range known {
		d := Levenshtein(norm, NormalizeIdent(k))
		if bestDist < 0 || d < bestDist {
			best, bestDist = k, d
		}
	}

	if bestDist < 0 || bestDist > max(1, utf8.RuneCountInString(norm)/4) {
		return "", false
	}

	return best, true
}
