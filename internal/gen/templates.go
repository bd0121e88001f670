package gen

import "text/template"

// Fragment names. Each fragment renders one independent part of the union
// file; the generator concatenates the enabled ones in this order.
const (
	fragmentHeader      = "header"
	fragmentDecl        = "decl"
	fragmentMethods     = "methods"
	fragmentConversions = "conversions"
	fragmentDisplay     = "display"
	fragmentMarshal     = "marshal"
	fragmentUnmarshal   = "unmarshal"
)

// fragmentNames returns the fragments enabled for data.
func fragmentNames(data *templateData) []string {
	out := []string{fragmentHeader, fragmentDecl, fragmentMethods, fragmentConversions}

	if data.Caps.Display {
		out = append(out, fragmentDisplay)
	}

	if data.Caps.Serialize {
		out = append(out, fragmentMarshal)
	}

	if data.Caps.Deserialize {
		out = append(out, fragmentUnmarshal)
	}

	return out
}

var unionTemplate = template.Must(template.New("union").Parse(headerTemplate +
	declTemplate + methodsTemplate + conversionsTemplate +
	displayTemplate + marshalTemplate + unmarshalTemplate))

const headerTemplate = `{{define "header"}}// Code generated by enum-generator. DO NOT EDIT.

package {{.PackageName}}

import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}`

const declTemplate = `{{define "decl"}}
{{range .Doc}}{{.}}
{{end}}{{if and .Doc .Directives}}//
{{end}}{{range .Directives}}{{.}}
{{end}}type {{.Names.Interface}} interface {
	{{.Names.Marker}}()
{{if .GenerateComments}}	// Value returns the display string of the variant.
{{end}}	Value() string
{{if .GenerateComments}}	// Index returns the numeric discriminant of the variant.
{{end}}	Index() {{.ReprType}}
}
{{range .Variants}}
{{range .Doc}}{{.}}
{{end}}{{if and .Doc .Directives}}//
{{end}}{{range .Directives}}{{.}}
{{end}}type {{.Type}} struct{{if .Fields}} {
{{range .Fields}}	{{.Name}} {{.Type}}{{if .Tag}} {{.Tag}}{{end}}
{{end}}}{{else}}{}{{end}}
{{end}}{{end}}`

const methodsTemplate = `{{define "methods"}}{{$r := .}}
{{range .Variants}}
func ({{.Type}}) {{$r.Names.Marker}}() {}

{{if $r.GenerateComments}}// Value returns {{.Value}}.
{{end}}func ({{.Type}}) Value() string { return {{.Value}} }

{{if $r.GenerateComments}}// Index returns {{.Index}}.
{{end}}func ({{.Type}}) Index() {{$r.ReprType}} { return {{.Index}} }
{{end}}
{{if .GenerateComments}}// {{.Names.Count}} is the number of declared variants of {{.Names.Interface}}.
{{end}}const {{.Names.Count}} = {{len .Variants}}

{{if .GenerateComments}}// {{.Names.Variants}} returns a zero-valued instance of every variant of
// {{.Names.Interface}} in declaration order.
{{end}}func {{.Names.Variants}}() []{{.Names.Interface}} {
	return []{{.Names.Interface}}{
{{range .Variants}}		{{.Type}}{},
{{end}}	}
}
{{end}}`

const conversionsTemplate = `{{define "conversions"}}
{{if .GenerateComments}}// {{.Names.Err}} is returned when a string or number does not name a
// variant of {{.Names.Interface}}.
{{end}}var {{.Names.Err}} = errors.New("invalid {{.Names.Interface}}")

{{if .GenerateComments}}// {{.Names.Parse}} returns the variant whose display string is s{{if .Aliases}},
// falling back to the variant identifier{{end}}. Variants that carry fields
// are returned with zero-valued fields.
{{end}}func {{.Names.Parse}}(s string) ({{.Names.Interface}}, error) {
	switch s {
{{range .ParseCases}}	case {{.Key}}:
		return {{.Type}}{}, nil
{{end}}	}

	return nil, fmt.Errorf("%w: invalid string value %q", {{.Names.Err}}, s)
}

{{if .GenerateComments}}// {{.Names.FromIndex}} returns the unit variant whose discriminant is n.
{{end}}func {{.Names.FromIndex}}(n {{.ReprType}}) ({{.Names.Interface}}, error) {
{{if .IndexCases}}	switch n {
{{range .IndexCases}}	case {{.Key}}:
		return {{.Type}}{}, nil
{{end}}	}

{{end}}	return nil, fmt.Errorf("%w: invalid value %d for {{.ReprType}}", {{.Names.Err}}, n)
}
{{end}}`

const displayTemplate = `{{define "display"}}{{$r := .}}
{{range .Variants}}
{{if $r.GenerateComments}}// String returns the display string of the variant.
{{end}}func (v {{.Type}}) String() string { return v.Value() }
{{end}}{{end}}`

const marshalTemplate = `{{define "marshal"}}
{{if .GenerateComments}}// {{.Names.Marshal}} encodes v externally tagged: unit variants as their
// name, variants with fields as an object keyed by the name.
{{end}}func {{.Names.Marshal}}(v {{.Names.Interface}}) ([]byte, error) {
	switch {{if .FieldVariants}}v := {{end}}v.(type) {
{{range .Variants}}	case {{.Type}}:
{{if .IsUnit}}		return json.Marshal({{.Tag}})
{{else if .Named}}		return json.Marshal(map[string]{{.Type}}{ {{.Tag}}: v })
{{else if eq (len .Fields) 1}}		return json.Marshal(map[string]any{ {{.Tag}}: v.F0 })
{{else}}		return json.Marshal(map[string][]any{ {{.Tag}}: { {{range $i, $f := .Fields}}{{if $i}}, {{end}}v.{{$f.Name}}{{end}} } })
{{end}}{{end}}	}

	return nil, fmt.Errorf("%w: cannot marshal %T", {{.Names.Err}}, v)
}
{{end}}`

const unmarshalTemplate = `{{define "unmarshal"}}{{$r := .}}
{{if .GenerateComments}}// {{.Names.Unmarshal}} decodes the externally tagged form written by
// {{.Names.Marshal}}.
{{end}}func {{.Names.Unmarshal}}(data []byte) ({{.Names.Interface}}, error) {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
{{if .UnitVariants}}		switch tag {
{{range .UnitVariants}}		case {{.Tag}}:
			return {{.Type}}{}, nil
{{end}}		}

{{end}}		return nil, fmt.Errorf("%w: unknown variant %q", {{.Names.Err}}, tag)
	}
{{if .FieldVariants}}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("%w: %w", {{.Names.Err}}, err)
	}

	if len(obj) != 1 {
		return nil, fmt.Errorf("%w: expected one variant key, got %d", {{.Names.Err}}, len(obj))
	}

	var payload json.RawMessage
	for k, p := range obj {
		tag, payload = k, p
	}

	switch tag {
{{range .FieldVariants}}	case {{.Tag}}:
		var v {{.Type}}
{{if .Named}}		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", {{$r.Names.Err}}, tag, err)
		}
{{else if eq (len .Fields) 1}}		if err := json.Unmarshal(payload, &v.F0); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", {{$r.Names.Err}}, tag, err)
		}
{{else}}		var items []json.RawMessage
		if err := json.Unmarshal(payload, &items); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", {{$r.Names.Err}}, tag, err)
		}

		if len(items) != {{len .Fields}} {
			return nil, fmt.Errorf("%w: %s: expected {{len .Fields}} fields, got %d", {{$r.Names.Err}}, tag, len(items))
		}
{{range $i, $f := .Fields}}
		if err := json.Unmarshal(items[{{$i}}], &v.{{$f.Name}}); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", {{$r.Names.Err}}, tag, err)
		}
{{end}}{{end}}
		return v, nil
{{end}}	}

	return nil, fmt.Errorf("%w: unknown variant %q", {{.Names.Err}}, tag)
{{else}}
	return nil, fmt.Errorf("%w: expected a variant name", {{.Names.Err}})
{{end}}}
{{end}}`
