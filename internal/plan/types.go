package plan

import (
	"math/big"

	"enum-generator/internal/diagnostic"
	"enum-generator/internal/model"
	"enum-generator/internal/repr"
)

// ResolvedPlan is the final output of the resolution pipeline.
// It contains everything needed for code generation.
type ResolvedPlan struct {
	// Package is the Go package the unions are generated into.
	Package string
	// Enums is the list of successfully resolved unions, in input order.
	Enums []ResolvedEnum
	// Diagnostics contains all errors, warnings and infos from resolution.
	Diagnostics diagnostic.Diagnostics
}

// ResolvedEnum is one union with every discriminant and display string fixed.
type ResolvedEnum struct {
	// Schema is the extracted copy of the input model. Its Variants keep the
	// declared specs; Variants below carry the resolved values.
	Schema *model.Enum
	// Repr is the representation shared by all discriminants.
	Repr repr.Resolved
	// Variants in declaration order.
	Variants []ResolvedVariant
}

// Name returns the union identifier.
func (e *ResolvedEnum) Name() string {
	return e.Schema.Name
}

// Caps returns the capability set of the union.
func (e *ResolvedEnum) Caps() model.Capabilities {
	return e.Schema.Caps
}

// Variant returns the resolved variant with the given identifier, or nil.
func (e *ResolvedEnum) Variant(name string) *ResolvedVariant {
	for i := range e.Variants {
		if e.Variants[i].Spec.Name == name {
			return &e.Variants[i]
		}
	}

	return nil
}

// IndexSource describes where a resolved discriminant came from.
type IndexSource string

const (
	IndexAnnotated IndexSource = "annotation" // variant index annotation
	IndexLiteral   IndexSource = "literal"    // literal numeric discriminant
	IndexAuto      IndexSource = "auto"       // previous + 1 (or 0)
	IndexClamped   IndexSource = "clamped"    // auto-increment overflowed, previous reused
)

// ResolvedVariant is a variant spec plus its final display string and
// discriminant. It is immutable after resolution.
type ResolvedVariant struct {
	Spec   model.Variant
	Value  string
	Index  *big.Int
	Source IndexSource
}

// IsUnit reports whether the variant carries no fields.
func (v *ResolvedVariant) IsUnit() bool {
	return v.Spec.IsUnit()
}
