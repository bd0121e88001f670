package analyze

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path"
	"reflect"
	"strconv"
	"strings"

	"enum-generator/internal/diagnostic"
	"enum-generator/internal/model"
)

// Diagnostic codes emitted while reading Go source.
const (
	CodeBadDirective  = "bad_directive"
	CodeBadSpec       = "bad_spec"
	CodeBadEnumName   = "bad_enum_name"
	CodeBadVariant    = "bad_variant"
	CodeUnsupportedTy = "unsupported_type"
)

// DiscriminantTag is the struct tag key carrying a literal discriminant.
const DiscriminantTag = "discriminant"

// specError is a problem with one spec type; the spec is skipped.
type specError struct {
	code    string
	variant string
	pos     token.Pos
	err     error
}

func (e *specError) Error() string {
	return e.err.Error()
}

// ImportResolver maps the package qualifier of a selector in a field type to
// an import spec, either "path" or "alias path".
type ImportResolver func(qualifier *ast.Ident) (string, bool)

// FileImports resolves qualifiers from the import declarations of f. The
// package name is assumed to be the last path element unless aliased.
func FileImports(f *ast.File) ImportResolver {
	byName := make(map[string]string)

	for _, imp := range f.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}

		name, spec := path.Base(p), p

		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				continue
			}

			name = imp.Name.Name
			spec = name + " " + p
		}

		byName[name] = spec
	}

	return func(id *ast.Ident) (string, bool) {
		spec, ok := byName[id.Name]
		return spec, ok
	}
}

// typesImports resolves qualifiers through type information and falls back
// to the syntactic resolver when info is missing.
func typesImports(info *types.Info, fallback ImportResolver) ImportResolver {
	return func(id *ast.Ident) (string, bool) {
		if info != nil {
			if pn, ok := info.Uses[id].(*types.PkgName); ok {
				p := pn.Imported().Path()
				if pn.Name() != path.Base(p) {
					return pn.Name() + " " + p, true
				}

				return p, true
			}
		}

		return fallback(id)
	}
}

type fileParser struct {
	fset    *token.FileSet
	resolve ImportResolver
}

// ParseFile extracts every union spec declared in file. A spec with errors
// is reported in the returned diagnostics and skipped; the others are still
// returned.
func ParseFile(fset *token.FileSet, file *ast.File, resolve ImportResolver) ([]*model.Enum, diagnostic.Diagnostics) {
	if resolve == nil {
		resolve = FileImports(file)
	}

	p := &fileParser{fset: fset, resolve: resolve}

	var (
		enums []*model.Enum
		diags diagnostic.Diagnostics
	)

	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}

		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			doc := ts.Doc
			if !gd.Lparen.IsValid() {
				doc = gd.Doc
			}

			e, err := p.parseSpec(ts, doc, ts.Comment)
			if err != nil {
				diags.Add(p.diagnostic(ts, err))
				continue
			}

			if e != nil {
				enums = append(enums, e)
			}
		}
	}

	return enums, diags
}

func (p *fileParser) diagnostic(ts *ast.TypeSpec, err error) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Code:     CodeBadSpec,
		Message:  err.Error(),
		Enum:     ts.Name.Name,
		Pos:      p.position(ts.Pos()),
	}

	var se *specError
	if errors.As(err, &se) {
		d.Code = se.code
		d.Variant = se.variant

		if se.pos.IsValid() {
			d.Pos = p.position(se.pos)
		}
	}

	return d
}

func (p *fileParser) position(pos token.Pos) string {
	return p.fset.Position(pos).String()
}

// parseSpec returns nil without error for types that carry no enum directive.
func (p *fileParser) parseSpec(ts *ast.TypeSpec, groups ...*ast.CommentGroup) (*model.Enum, error) {
	info, err := splitComments(groups...)
	if err != nil {
		return nil, &specError{code: CodeBadDirective, err: err}
	}

	dir, rest, err := findEnumDirective(info.Annotations)
	if err != nil {
		return nil, &specError{code: CodeBadDirective, err: err}
	}

	if dir == nil {
		return nil, nil
	}

	if ts.TypeParams != nil && len(ts.TypeParams.List) > 0 {
		return nil, &specError{code: CodeBadSpec, err: errors.New("spec type must not be generic")}
	}

	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return nil, &specError{code: CodeBadSpec, err: errors.New("spec type must be a struct")}
	}

	name := dir.Name
	if name == "" {
		name = strings.TrimSuffix(ts.Name.Name, "Spec")
	}

	switch {
	case name == ts.Name.Name:
		return nil, &specError{
			code: CodeBadEnumName,
			err:  fmt.Errorf("union name %s must differ from the spec type; name it in the directive or add a Spec suffix", name),
		}
	case !token.IsIdentifier(name):
		return nil, &specError{code: CodeBadEnumName, err: fmt.Errorf("union name %q is not a Go identifier", name)}
	}

	e := &model.Enum{
		Name:        name,
		Doc:         info.Doc,
		Exported:    model.IsExportedName(name),
		Annotations: rest,
		Pos:         p.position(ts.Pos()),
	}

	if dir.Exported != nil {
		e.Exported = *dir.Exported
	}

	imports := &importSet{}

	for _, f := range st.Fields.List {
		variants, err := p.parseVariants(f, imports)
		if err != nil {
			return nil, err
		}

		for _, v := range variants {
			v.Ordinal = len(e.Variants)
			e.Variants = append(e.Variants, v)
		}
	}

	if len(e.Variants) == 0 {
		return nil, &specError{code: CodeBadSpec, err: errors.New("spec struct declares no variants")}
	}

	e.Imports = imports.list

	return e, nil
}

func (p *fileParser) parseVariants(f *ast.Field, imports *importSet) ([]model.Variant, error) {
	if len(f.Names) == 0 {
		return nil, &specError{
			code: CodeBadVariant,
			pos:  f.Pos(),
			err:  fmt.Errorf("embedded field %s cannot be a variant", types.ExprString(f.Type)),
		}
	}

	info, err := splitComments(f.Doc, f.Comment)
	if err != nil {
		return nil, &specError{code: CodeBadDirective, variant: f.Names[0].Name, pos: f.Pos(), err: err}
	}

	var discriminant string

	if f.Tag != nil {
		tag, err := strconv.Unquote(f.Tag.Value)
		if err != nil {
			return nil, &specError{code: CodeBadVariant, variant: f.Names[0].Name, pos: f.Tag.Pos(), err: err}
		}

		discriminant = strings.TrimSpace(reflect.StructTag(tag).Get(DiscriminantTag))
	}

	shape, fields, err := p.payload(f.Type, imports)
	if err != nil {
		return nil, &specError{code: CodeUnsupportedTy, variant: f.Names[0].Name, pos: f.Type.Pos(), err: err}
	}

	out := make([]model.Variant, 0, len(f.Names))

	for _, n := range f.Names {
		if n.Name == "_" {
			return nil, &specError{code: CodeBadVariant, pos: n.Pos(), err: errors.New("blank field cannot be a variant")}
		}

		out = append(out, model.Variant{
			Name:         n.Name,
			Doc:          info.Doc,
			Shape:        shape,
			Fields:       append([]model.Field(nil), fields...),
			Annotations:  model.CloneAnnotations(info.Annotations),
			Discriminant: discriminant,
			Pos:          p.position(n.Pos()),
		})
	}

	return out, nil
}

// payload maps the type of a spec field to the variant's field shape.
func (p *fileParser) payload(expr ast.Expr, imports *importSet) (model.FieldShape, []model.Field, error) {
	switch t := expr.(type) {
	case *ast.StructType:
		if t.Fields == nil || len(t.Fields.List) == 0 {
			return model.ShapeUnit, nil, nil
		}

		var fields []model.Field

		for _, f := range t.Fields.List {
			if len(f.Names) == 0 {
				return 0, nil, fmt.Errorf("embedded payload field %s is not supported", types.ExprString(f.Type))
			}

			typ := p.typeString(f.Type, imports)

			var tag string

			if f.Tag != nil {
				var err error
				if tag, err = strconv.Unquote(f.Tag.Value); err != nil {
					return 0, nil, err
				}
			}

			for _, n := range f.Names {
				fields = append(fields, model.Field{Name: n.Name, Type: typ, Tag: tag})
			}
		}

		return model.ShapeNamed, fields, nil

	case *ast.FuncType:
		if t.Results != nil && len(t.Results.List) > 0 {
			return 0, nil, errors.New("func payload must not declare results")
		}

		if t.Params == nil || len(t.Params.List) == 0 {
			return model.ShapeUnit, nil, nil
		}

		var fields []model.Field

		for _, f := range t.Params.List {
			if _, ok := f.Type.(*ast.Ellipsis); ok {
				return 0, nil, errors.New("variadic func payload is not supported")
			}

			typ := p.typeString(f.Type, imports)

			for range max(1, len(f.Names)) {
				fields = append(fields, model.Field{Type: typ})
			}
		}

		return model.ShapePositional, fields, nil

	default:
		return model.ShapePositional, []model.Field{{Type: p.typeString(expr, imports)}}, nil
	}
}

// typeString renders a type expression and records the packages it uses.
func (p *fileParser) typeString(expr ast.Expr, imports *importSet) string {
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}

		if id, ok := sel.X.(*ast.Ident); ok {
			if spec, ok := p.resolve(id); ok {
				imports.add(spec)
			}
		}

		return false
	})

	return types.ExprString(expr)
}

// importSet keeps import specs in first-use order.
type importSet struct {
	list []string
}

func (s *importSet) add(spec string) {
	for _, existing := range s.list {
		if existing == spec {
			return
		}
	}

	s.list = append(s.list, spec)
}
