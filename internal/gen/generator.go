package gen

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/tools/imports"

	"enum-generator/internal/plan"
)

// DefaultJSONPackage is the JSON package used by generated hooks when none is
// configured.
const DefaultJSONPackage = "encoding/json"

var (
	// ErrUnsupportedWidth is returned for representation widths without a Go
	// integer type.
	ErrUnsupportedWidth = errors.New("representation width has no Go integer type")
	// ErrInvalidField is returned for fields that cannot be rendered.
	ErrInvalidField = errors.New("invalid field")
	// ErrNameCollision is returned when two generated top-level identifiers
	// of one union are equal.
	ErrNameCollision = errors.New("generated name collision")
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// OutputDir is the directory where generated files are written.
	OutputDir string
	// GenerateComments enables doc comments on generated declarations.
	GenerateComments bool
	// IdentifierAliases lets string parsing fall back to variant identifiers.
	// Unions with the Strict capability never get aliases.
	IdentifierAliases bool
	// JSONPackage is the import path used by the JSON hooks.
	JSONPackage string
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName:       "enums",
		OutputDir:         ".",
		GenerateComments:  true,
		IdentifierAliases: true,
		JSONPackage:       DefaultJSONPackage,
	}
}

// Generator generates Go code from a resolved plan.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Enum is the union the file was generated for.
	Enum string
	// Filename is the name of the file (e.g., "http_status_enum.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate generates one file per union in p. A union that fails does not
// stop the others; the returned error joins every failure.
func (g *Generator) Generate(p *plan.ResolvedPlan) ([]GeneratedFile, error) {
	var (
		files []GeneratedFile
		errs  []error
	)

	for i := range p.Enums {
		file, err := g.GenerateEnum(&p.Enums[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}

		files = append(files, *file)
	}

	return files, errors.Join(errs...)
}

// GenerateEnum generates the file for a single union. When formatting fails
// the unformatted file is returned together with the error.
func (g *Generator) GenerateEnum(e *plan.ResolvedEnum) (*GeneratedFile, error) {
	data, err := g.buildTemplateData(e)
	if err != nil {
		return nil, fmt.Errorf("generating %s: %w", e.Name(), err)
	}

	var buf bytes.Buffer
	for _, name := range fragmentNames(data) {
		if err := unionTemplate.ExecuteTemplate(&buf, name, data); err != nil {
			return nil, fmt.Errorf("generating %s: executing %s template: %w", e.Name(), name, err)
		}
	}

	formatted, err := imports.Process(data.Filename, buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		_ = writeSidecar(g.config.OutputDir, data.Filename, buf.Bytes())

		return &GeneratedFile{
			Enum:     e.Name(),
			Filename: data.Filename,
			Content:  buf.Bytes(),
		}, fmt.Errorf("generating %s: formatting code: %w", e.Name(), err)
	}

	return &GeneratedFile{
		Enum:     e.Name(),
		Filename: data.Filename,
		Content:  formatted,
	}, nil
}
