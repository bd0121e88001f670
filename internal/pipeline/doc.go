// Package pipeline runs the generator end to end: it loads union specs from a
// schema file or a Go package, resolves them, generates one file per union and
// writes the files that changed.
//
// A union that fails at any stage is reported in the diagnostics and skipped;
// the other unions are still generated.
package pipeline
