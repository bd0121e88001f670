package schema

import (
	"fmt"
	"slices"

	"enum-generator/internal/model"
)

// ToModel converts the file into schema models, one per union, in file order.
// Callers should Validate first.
func (f *File) ToModel() []*model.Enum {
	out := make([]*model.Enum, 0, len(f.Enums))

	for i := range f.Enums {
		out = append(out, f.enumToModel(&f.Enums[i]))
	}

	return out
}

func (f *File) enumToModel(def *EnumDef) *model.Enum {
	e := &model.Enum{
		Name:        def.Name,
		Doc:         def.Doc,
		Exported:    model.IsExportedName(def.Name),
		Annotations: model.CloneAnnotations(def.Annotations),
		Pos:         f.pos(def.Line),
	}

	if def.Exported != nil {
		e.Exported = *def.Exported
	}

	for _, imp := range append(slices.Clone(f.Imports), def.Imports...) {
		if !slices.Contains(e.Imports, imp) {
			e.Imports = append(e.Imports, imp)
		}
	}

	for i := range def.Variants {
		vd := &def.Variants[i]

		v := model.Variant{
			Name:         vd.Name,
			Doc:          vd.Doc,
			Shape:        model.ShapeUnit,
			Annotations:  model.CloneAnnotations(vd.Annotations),
			Discriminant: vd.Discriminant,
			Ordinal:      i,
			Pos:          f.pos(vd.Line),
		}

		if vd.Fields != nil {
			switch {
			case len(vd.Fields.Named) > 0:
				v.Shape = model.ShapeNamed
				for _, nf := range vd.Fields.Named {
					v.Fields = append(v.Fields, model.Field{Name: nf.Name, Type: nf.Type, Tag: nf.Tag})
				}
			case len(vd.Fields.Positional) > 0:
				v.Shape = model.ShapePositional
				for _, typ := range vd.Fields.Positional {
					v.Fields = append(v.Fields, model.Field{Type: typ})
				}
			}
		}

		e.Variants = append(e.Variants, v)
	}

	return e
}

func (f *File) pos(line int) string {
	switch {
	case f.source == "":
		return ""
	case line > 0:
		return fmt.Sprintf("%s:%d", f.source, line)
	default:
		return f.source
	}
}

// FromModel builds a schema file from models, e.g. ones read from annotated
// Go source. Extracted attributes are ignored; the raw annotations are kept.
func FromModel(pkg string, enums []*model.Enum) *File {
	f := &File{
		Version: "1",
		Package: pkg,
		Enums:   make([]EnumDef, 0, len(enums)),
	}

	for _, e := range enums {
		def := EnumDef{
			Name:        e.Name,
			Doc:         e.Doc,
			Imports:     slices.Clone(e.Imports),
			Annotations: model.CloneAnnotations(e.Annotations),
		}

		if e.Exported != model.IsExportedName(e.Name) {
			exported := e.Exported
			def.Exported = &exported
		}

		for _, v := range e.Variants {
			vd := VariantDef{
				Name:         v.Name,
				Doc:          v.Doc,
				Discriminant: v.Discriminant,
				Annotations:  model.CloneAnnotations(v.Annotations),
			}

			switch v.Shape {
			case model.ShapeNamed:
				vd.Fields = &FieldsDef{}
				for _, fld := range v.Fields {
					vd.Fields.Named = append(vd.Fields.Named, NamedField{Name: fld.Name, Type: fld.Type, Tag: fld.Tag})
				}
			case model.ShapePositional:
				vd.Fields = &FieldsDef{}
				for _, fld := range v.Fields {
					vd.Fields.Positional = append(vd.Fields.Positional, fld.Type)
				}
			}

			def.Variants = append(def.Variants, vd)
		}

		f.Enums = append(f.Enums, def)
	}

	return f
}
