// Package match finds the closest known name for a misspelled identifier.
// Names are compared after normalization (case folded, separators stripped)
// by Levenshtein distance.
package match
