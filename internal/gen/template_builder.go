package gen

import (
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"enum-generator/internal/model"
	"enum-generator/internal/plan"
)

// templateData holds all data needed for the union templates.
type templateData struct {
	PackageName      string
	Filename         string
	Imports          []importSpec
	Names            names
	Doc              []string
	Directives       []string
	ReprType         string
	GenerateComments bool
	Caps             model.Capabilities
	Aliases          bool
	Variants         []variantData
	UnitVariants     []variantData
	FieldVariants    []variantData
	ParseCases       []caseData
	IndexCases       []caseData
}

// importSpec is one line of the import block.
type importSpec struct {
	Alias string
	Path  string
}

// variantData is one variant as the templates see it.
type variantData struct {
	// Tag is the quoted identifier used as the JSON variant key.
	Tag        string
	Type       string
	Doc        []string
	Directives []string
	Fields     []fieldData
	// Value is the quoted display string.
	Value  string
	Index  string
	IsUnit bool
	Named  bool
}

type fieldData struct {
	Name string
	Type string
	// Tag includes the surrounding backquotes.
	Tag string
}

// caseData is one switch case of a conversion.
type caseData struct {
	Key  string
	Type string
}

// buildTemplateData constructs the template data from a resolved union.
func (g *Generator) buildTemplateData(e *plan.ResolvedEnum) (*templateData, error) {
	goType := e.Repr.Width.GoType()
	if goType == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedWidth, e.Repr.Width)
	}

	n := newNames(e.Name(), e.Schema.Exported)
	caps := e.Caps()

	variantNames := make([]string, len(e.Variants))
	for i := range e.Variants {
		variantNames[i] = e.Variants[i].Spec.Name
	}

	if err := checkCollisions(n, variantNames); err != nil {
		return nil, err
	}

	data := &templateData{
		PackageName:      g.config.PackageName,
		Filename:         n.Filename,
		Names:            n,
		ReprType:         goType,
		GenerateComments: g.config.GenerateComments,
		Caps:             caps,
		Aliases:          g.config.IdentifierAliases && !caps.Strict,
	}

	data.Doc = commentLines(e.Schema.Doc)
	if len(data.Doc) == 0 && g.config.GenerateComments {
		data.Doc = []string{fmt.Sprintf("// %s is a tagged union of %d variants.", n.Interface, len(e.Variants))}
	}

	if e.Repr.Emit {
		data.Directives = append(data.Directives, model.DirectivePrefix+"repr "+e.Repr.Width.String())
	}

	for _, a := range e.Schema.Passthrough {
		data.Directives = append(data.Directives, a.Directive())
	}

	reserved := reservedMethods(n, caps)

	for i := range e.Variants {
		vd, err := g.buildVariant(n, &e.Variants[i], reserved)
		if err != nil {
			return nil, fmt.Errorf("variant %s: %w", e.Variants[i].Spec.Name, err)
		}

		data.Variants = append(data.Variants, vd)
		if vd.IsUnit {
			data.UnitVariants = append(data.UnitVariants, vd)
		} else {
			data.FieldVariants = append(data.FieldVariants, vd)
		}
	}

	data.ParseCases = parseCases(e, n, data.Aliases)
	data.IndexCases = indexCases(e, n)
	data.Imports = g.collectImports(e.Schema.Imports, caps)

	return data, nil
}

func (g *Generator) buildVariant(n names, v *plan.ResolvedVariant, reserved map[string]bool) (variantData, error) {
	typ := n.variantType(v.Spec.Name)

	vd := variantData{
		Tag:    strconv.Quote(v.Spec.Name),
		Type:   typ,
		Value:  strconv.Quote(v.Value),
		Index:  v.Index.String(),
		IsUnit: v.IsUnit(),
		Named:  v.Spec.Shape == model.ShapeNamed,
	}

	vd.Doc = commentLines(v.Spec.Doc)
	if len(vd.Doc) == 0 && g.config.GenerateComments {
		vd.Doc = []string{fmt.Sprintf("// %s is the %s variant of %s.", typ, v.Spec.Name, n.Interface)}
	}

	for _, a := range v.Spec.Passthrough {
		vd.Directives = append(vd.Directives, a.Directive())
	}

	for i, f := range v.Spec.Fields {
		fd := fieldData{Name: f.Name, Type: f.Type}

		if v.Spec.Shape == model.ShapePositional {
			fd.Name = positionalField(i)
		}

		if fd.Name == "" {
			return vd, fmt.Errorf("%w: field %d has no name", ErrInvalidField, i)
		}

		if fd.Type == "" {
			return vd, fmt.Errorf("%w: field %s has no type", ErrInvalidField, fd.Name)
		}

		if reserved[fd.Name] {
			return vd, fmt.Errorf("%w: field %s collides with a generated method", ErrInvalidField, fd.Name)
		}

		if f.Tag != "" {
			if strings.Contains(f.Tag, "`") {
				return vd, fmt.Errorf("%w: tag of field %s contains a backquote", ErrInvalidField, fd.Name)
			}

			fd.Tag = "`" + f.Tag + "`"
		}

		vd.Fields = append(vd.Fields, fd)
	}

	return vd, nil
}

func reservedMethods(n names, caps model.Capabilities) map[string]bool {
	reserved := map[string]bool{
		"Value":  true,
		"Index":  true,
		n.Marker: true,
	}
	if caps.Display {
		reserved["String"] = true
	}

	return reserved
}

// parseCases lists display strings first, then identifiers when aliases are
// enabled. A key already taken keeps its first owner.
func parseCases(e *plan.ResolvedEnum, n names, aliases bool) []caseData {
	seen := make(map[string]bool)

	var cases []caseData

	add := func(key, variant string) {
		if seen[key] {
			return
		}

		seen[key] = true
		cases = append(cases, caseData{Key: strconv.Quote(key), Type: n.variantType(variant)})
	}

	for _, v := range e.Variants {
		add(v.Value, v.Spec.Name)
	}

	if aliases {
		for _, v := range e.Variants {
			add(v.Spec.Name, v.Spec.Name)
		}
	}

	return cases
}

// indexCases lists unit variants by discriminant. A shared discriminant
// selects the first variant in declaration order.
func indexCases(e *plan.ResolvedEnum, n names) []caseData {
	seen := make(map[string]bool)

	var cases []caseData

	for _, v := range e.Variants {
		if !v.IsUnit() {
			continue
		}

		key := v.Index.String()
		if seen[key] {
			continue
		}

		seen[key] = true
		cases = append(cases, caseData{Key: key, Type: n.variantType(v.Spec.Name)})
	}

	return cases
}

func (g *Generator) collectImports(extra []string, caps model.Capabilities) []importSpec {
	imports := map[string]importSpec{
		"errors": {Path: "errors"},
		"fmt":    {Path: "fmt"},
	}

	if caps.Serialize || caps.Deserialize {
		jsonPath := g.config.JSONPackage
		if jsonPath == "" {
			jsonPath = DefaultJSONPackage
		}

		spec := importSpec{Path: jsonPath}
		if path.Base(jsonPath) != "json" {
			spec.Alias = "json"
		}

		imports[jsonPath] = spec
	}

	for _, imp := range extra {
		spec := parseImport(imp)
		if spec.Path != "" {
			imports[spec.Path] = spec
		}
	}

	out := make([]importSpec, 0, len(imports))
	for _, spec := range imports {
		out = append(out, spec)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})

	return out
}

// parseImport accepts "path" or "alias path", with optional quotes.
func parseImport(s string) importSpec {
	fields := strings.Fields(s)

	switch len(fields) {
	case 1:
		return importSpec{Path: strings.Trim(fields[0], `"`)}
	case 2:
		return importSpec{Alias: fields[0], Path: strings.Trim(fields[1], `"`)}
	default:
		return importSpec{}
	}
}

// commentLines turns free-form doc text into "//" comment lines.
func commentLines(doc string) []string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			lines = append(lines, "//")
			continue
		}

		lines = append(lines, "// "+line)
	}

	return lines
}
