package schema

import "gopkg.in/yaml.v3"

// File represents the root of a union schema file.
type File struct {
	// Version of the schema format (for future compatibility).
	Version string `yaml:"version,omitempty" json:"version,omitempty"`

	// Package is the Go package the unions are generated into.
	Package string `yaml:"package" json:"package" validate:"required,goident"`

	// Imports are package paths shared by every union in the file.
	Imports []string `yaml:"imports,omitempty" json:"imports,omitempty"`

	// Enums is the list of union definitions.
	Enums []EnumDef `yaml:"enums" json:"enums" validate:"required,min=1,unique=Name,dive"`

	// source is the path the file was loaded from, used for positions.
	source string
}

// EnumDef defines one tagged union.
type EnumDef struct {
	Name string `yaml:"name" json:"name" validate:"required,goident"`
	Doc  string `yaml:"doc,omitempty" json:"doc,omitempty"`

	// Exported overrides the visibility derived from the name.
	Exported *bool `yaml:"exported,omitempty" json:"exported,omitempty"`

	// Imports are package paths referenced by field types of this union.
	Imports []string `yaml:"imports,omitempty" json:"imports,omitempty"`

	// Annotations holds enum-level blocks such as repr and derive.
	Annotations Annotations `yaml:"annotations,omitempty" json:"annotations,omitempty"`

	Variants []VariantDef `yaml:"variants" json:"variants" validate:"required,min=1,unique=Name,dive"`

	// Line is the line of the definition in a YAML file (0 when unknown).
	Line int `yaml:"-" json:"-"`
}

// VariantDef defines one variant of a union.
type VariantDef struct {
	Name string `yaml:"name" json:"name" validate:"required,goident"`
	Doc  string `yaml:"doc,omitempty" json:"doc,omitempty"`

	// Discriminant is an optional literal numeric discriminant expression.
	Discriminant string `yaml:"discriminant,omitempty" json:"discriminant,omitempty"`

	Annotations Annotations `yaml:"annotations,omitempty" json:"annotations,omitempty"`

	// Fields is nil for unit variants.
	Fields *FieldsDef `yaml:"fields,omitempty" json:"fields,omitempty"`

	Line int `yaml:"-" json:"-"`
}

// FieldsDef holds the payload of a variant. Only one of Positional and Named
// may be set.
type FieldsDef struct {
	// Positional lists field types.
	Positional []string `yaml:"positional,omitempty" json:"positional,omitempty" validate:"dive,required"`

	Named []NamedField `yaml:"named,omitempty" json:"named,omitempty" validate:"dive"`
}

// NamedField is one named payload field.
type NamedField struct {
	Name string `yaml:"name" json:"name" validate:"required,goident"`
	Type string `yaml:"type" json:"type" validate:"required"`
	// Tag is a raw Go struct tag, without backquotes.
	Tag string `yaml:"tag,omitempty" json:"tag,omitempty"`
}

// UnmarshalYAML records the line of the definition.
func (e *EnumDef) UnmarshalYAML(node *yaml.Node) error {
	type plain EnumDef
	if err := node.Decode((*plain)(e)); err != nil {
		return err
	}

	e.Line = node.Line

	return nil
}

// UnmarshalYAML records the line of the definition.
func (v *VariantDef) UnmarshalYAML(node *yaml.Node) error {
	type plain VariantDef
	if err := node.Decode((*plain)(v)); err != nil {
		return err
	}

	v.Line = node.Line

	return nil
}
