package model

import (
	"strconv"
	"strings"
)

// Arg is a single key or key=value pair inside an annotation block.
type Arg struct {
	Key      string
	Value    string
	HasValue bool
}

// String renders the arg the way it is written in a directive.
func (a Arg) String() string {
	if !a.HasValue {
		return a.Key
	}

	if needsQuote(a.Value) {
		return a.Key + "=" + strconv.Quote(a.Value)
	}

	return a.Key + "=" + a.Value
}

// Annotation is one raw annotation block, e.g. `variant: value="x" index=2`.
// Several blocks with the same namespace may be attached to one item.
type Annotation struct {
	Namespace string
	Args      []Arg
}

// String renders the block verbatim as "namespace:args" so that it can be
// re-emitted as a directive comment.
func (a Annotation) String() string {
	if len(a.Args) == 0 {
		return a.Namespace
	}

	return a.Namespace + ":" + a.ArgsString()
}

// ArgsString renders only the args, space separated. The result parses back
// into the same args.
func (a Annotation) ArgsString() string {
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = arg.String()
	}

	return strings.Join(parts, " ")
}

// DirectivePrefix starts every annotation line in Go source.
const DirectivePrefix = "//enumgen:"

// Directive renders the block as a Go directive comment line, e.g.
// `//enumgen:repr i8`.
func (a Annotation) Directive() string {
	if len(a.Args) == 0 {
		return DirectivePrefix + a.Namespace
	}

	return DirectivePrefix + a.Namespace + " " + a.ArgsString()
}

// Clone returns a deep copy of the block.
func (a Annotation) Clone() Annotation {
	return Annotation{
		Namespace: a.Namespace,
		Args:      append([]Arg(nil), a.Args...),
	}
}

// CloneAnnotations deep-copies a list of blocks.
func CloneAnnotations(anns []Annotation) []Annotation {
	if anns == nil {
		return nil
	}

	out := make([]Annotation, len(anns))
	for i, a := range anns {
		out[i] = a.Clone()
	}

	return out
}

func needsQuote(s string) bool {
	if s == "" {
		return true
	}

	return strings.ContainsAny(s, " \t\n\",=")
}
