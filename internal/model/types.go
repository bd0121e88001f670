package model

import "unicode"

//go:generate go tool stringer -type=FieldShape -linecomment -output=fieldshape_string.go

// FieldShape describes which kind of payload a variant carries.
type FieldShape int

const (
	ShapeUnit       FieldShape = iota // unit
	ShapePositional                   // positional
	ShapeNamed                        // named
)

// Field is one field of a variant payload. Positional fields have no Name.
type Field struct {
	Name string
	Type string
	// Tag is a raw Go struct tag passed through to the generated struct.
	Tag string
}

// Capabilities is the set of optional methods requested for an enum.
// It is computed once by the attribute extractor.
type Capabilities struct {
	Display     bool
	Serialize   bool
	Deserialize bool
	// Strict disables the identifier alias when parsing strings.
	Strict bool
}

// Variant is one named alternative of a union (VariantSpec).
type Variant struct {
	Name   string
	Doc    string
	Shape  FieldShape
	Fields []Field
	// Annotations is the raw annotation list from the frontend.
	Annotations []Annotation
	// Discriminant is the optional literal numeric discriminant expression.
	Discriminant string
	// Ordinal is the position in declaration order.
	Ordinal int
	// Pos is a human-readable source location (may be empty).
	Pos string

	// Filled by the attribute extractor.
	Display     *string
	IndexExpr   string
	HasIndex    bool
	Passthrough []Annotation
}

// IsUnit reports whether the variant carries no fields.
func (v *Variant) IsUnit() bool {
	return v.Shape == ShapeUnit
}

// Enum is one union definition (EnumSchema).
type Enum struct {
	Name     string
	Doc      string
	Exported bool
	Variants []Variant
	// Annotations is the raw enum-level annotation list.
	Annotations []Annotation
	// Imports are package paths referenced by field types.
	Imports []string
	Pos     string

	// Filled by the attribute extractor.
	Hints       []string
	Caps        Capabilities
	Passthrough []Annotation
}

// HasLiteralDiscriminant reports whether any variant declares a literal
// numeric discriminant.
func (e *Enum) HasLiteralDiscriminant() bool {
	for i := range e.Variants {
		if e.Variants[i].Discriminant != "" {
			return true
		}
	}

	return false
}

// Clone returns a deep copy of the enum so that extraction can mutate it
// without touching the caller's value.
func (e *Enum) Clone() *Enum {
	out := *e
	out.Annotations = CloneAnnotations(e.Annotations)
	out.Passthrough = CloneAnnotations(e.Passthrough)
	out.Imports = append([]string(nil), e.Imports...)
	out.Hints = append([]string(nil), e.Hints...)
	out.Variants = make([]Variant, len(e.Variants))

	for i, v := range e.Variants {
		nv := v
		nv.Fields = append([]Field(nil), v.Fields...)
		nv.Annotations = CloneAnnotations(v.Annotations)
		nv.Passthrough = CloneAnnotations(v.Passthrough)

		if v.Display != nil {
			d := *v.Display
			nv.Display = &d
		}

		out.Variants[i] = nv
	}

	return &out
}

// IsExportedName reports whether name starts with an upper-case letter.
func IsExportedName(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}

	return false
}
