package repr

import "fmt"

// Source records which rule selected the representation.
type Source string

const (
	SourceExplicit Source = "explicit" // an explicit width hint
	SourcePlatform Source = "platform" // the C alias
	SourceLiteral  Source = "literal"  // defaulted because a variant has a literal discriminant
	SourceDefault  Source = "default"  // no hints at all
)

// Resolved is the outcome of representation resolution.
type Resolved struct {
	Width Width
	// Emit is true when the width must be written on the output so that the
	// generated type has a fixed layout.
	Emit   bool
	Source Source
}

// Resolve picks the representation from the enum-level hint tokens and
// whether any variant declares a literal discriminant:
//  1. an explicit width is used verbatim;
//  2. otherwise the C alias maps to u32;
//  3. otherwise a literal discriminant defaults to i32 and emits the hint;
//  4. otherwise i32 with no emitted hint.
//
// Two different explicit widths are an error. Tokens that are neither a width
// nor the C alias are rejected; callers filter passthrough tokens first.
func Resolve(hints []string, hasLiteral bool) (Resolved, error) {
	var (
		explicit    *Width
		hasPlatform bool
	)

	for _, h := range hints {
		if h == PlatformAlias {
			hasPlatform = true
			continue
		}

		w, err := ParseWidth(h)
		if err != nil {
			return Resolved{}, err
		}

		if explicit != nil && *explicit != w {
			return Resolved{}, fmt.Errorf("%w: %s and %s", ErrConflictingWidths, *explicit, w)
		}

		explicit = &w
	}

	switch {
	case explicit != nil:
		return Resolved{Width: *explicit, Emit: true, Source: SourceExplicit}, nil
	case hasPlatform:
		return Resolved{Width: U32, Emit: true, Source: SourcePlatform}, nil
	case hasLiteral:
		return Resolved{Width: I32, Emit: true, Source: SourceLiteral}, nil
	default:
		return Resolved{Width: I32, Source: SourceDefault}, nil
	}
}
