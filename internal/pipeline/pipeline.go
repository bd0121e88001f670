package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"enum-generator/internal/analyze"
	"enum-generator/internal/diagnostic"
	"enum-generator/internal/gen"
	"enum-generator/internal/model"
	"enum-generator/internal/plan"
	"enum-generator/internal/schema"
)

// Diagnostic codes added by the pipeline.
const (
	CodeGenerateFailed = "generate_failed"
	CodeFormatFailed   = "format_failed"
)

var (
	// ErrNoInput is returned when neither a schema file nor a package pattern
	// is set.
	ErrNoInput = errors.New("no input: set a schema file or a package pattern")
	// ErrConflictingInput is returned when both inputs are set.
	ErrConflictingInput = errors.New("schema file and package pattern are mutually exclusive")
	// ErrFailed is returned when the run produced errors that make its output
	// unusable.
	ErrFailed = errors.New("generation failed")
)

// Options configures a pipeline run.
type Options struct {
	// SchemaPath is a YAML or JSON schema file.
	SchemaPath string
	// Pattern is a Go package pattern, resolved relative to Dir.
	Pattern string
	// Dir is the working directory for package loading.
	Dir string
	// OutputDir overrides the output directory. By default files are written
	// next to the schema file or into the package directory.
	OutputDir string
	// PackageName overrides the package name of generated files.
	PackageName string
	// DryRun generates in memory and reports stale files without writing.
	DryRun bool

	Resolution plan.ResolutionConfig
	Generator  gen.GeneratorConfig
	Logger     zerolog.Logger
}

// DefaultOptions returns options with default resolution and generation
// settings and a disabled logger.
func DefaultOptions() Options {
	return Options{
		Dir:        ".",
		Resolution: plan.DefaultConfig(),
		Generator:  gen.DefaultGeneratorConfig(),
		Logger:     zerolog.Nop(),
	}
}

// Input is the set of union specs read from one schema file or package.
type Input struct {
	Package     string
	Dir         string
	Enums       []*model.Enum
	Diagnostics diagnostic.Diagnostics
}

// Result is the outcome of a run.
type Result struct {
	Package string
	// InputDir is the directory of the schema file or package sources.
	InputDir    string
	OutputDir   string
	Plan        *plan.ResolvedPlan
	Files       []gen.GeneratedFile
	Diagnostics diagnostic.Diagnostics

	// Written holds the paths that were created or changed.
	Written []string
	// Stale holds, for dry runs, the paths whose content on disk differs
	// from the generated content.
	Stale []string
}

// Load reads the union specs of the configured input.
func Load(ctx context.Context, opts Options) (*Input, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case opts.SchemaPath != "" && opts.Pattern != "":
		return nil, ErrConflictingInput
	case opts.SchemaPath != "":
		f, err := schema.LoadFile(opts.SchemaPath)
		if err != nil {
			return nil, err
		}

		if err := schema.Validate(f); err != nil {
			return nil, fmt.Errorf("%s: %w", opts.SchemaPath, err)
		}

		opts.Logger.Debug().
			Str("path", opts.SchemaPath).
			Int("enums", len(f.Enums)).
			Msg("loaded schema")

		return withPackage(&Input{
			Package: f.Package,
			Dir:     filepath.Dir(opts.SchemaPath),
			Enums:   f.ToModel(),
		}, opts.PackageName), nil
	case opts.Pattern != "":
		res, err := analyze.LoadPackage(opts.Dir, opts.Pattern)
		if err != nil {
			return nil, err
		}

		opts.Logger.Debug().
			Str("package", res.PkgPath).
			Int("enums", len(res.Enums)).
			Msg("loaded package")

		dir := res.Dir
		if dir == "" {
			dir = opts.Dir
		}

		return withPackage(&Input{
			Package:     res.Package,
			Dir:         dir,
			Enums:       res.Enums,
			Diagnostics: res.Diagnostics,
		}, opts.PackageName), nil
	default:
		return nil, ErrNoInput
	}
}

func withPackage(in *Input, name string) *Input {
	if name != "" {
		in.Package = name
	}

	return in
}

// Resolve loads the input and resolves every union. It does not generate.
func Resolve(ctx context.Context, opts Options) (*Result, error) {
	in, err := Load(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		Package:     in.Package,
		InputDir:    in.Dir,
		OutputDir:   in.Dir,
		Diagnostics: in.Diagnostics,
	}

	if opts.OutputDir != "" {
		res.OutputDir = opts.OutputDir
	}

	p, err := plan.NewResolver(opts.Resolution).Resolve(in.Package, in.Enums)
	res.Plan = p

	if p != nil {
		res.Diagnostics.Merge(p.Diagnostics)
	}

	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrFailed, err)
	}

	opts.Logger.Debug().
		Int("resolved", len(p.Enums)).
		Int("errors", len(res.Diagnostics.Errors)).
		Int("warnings", len(res.Diagnostics.Warnings)).
		Msg("resolved unions")

	return res, nil
}

// Run loads, resolves, generates and writes. It returns an error only when
// the input cannot be read, when no file could be produced from a non-empty
// input, or when any error occurred in strict mode. In every other case the
// diagnostics in the result describe what was skipped.
func Run(ctx context.Context, opts Options) (*Result, error) {
	res, err := Resolve(ctx, opts)
	if err != nil {
		return res, err
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	res.Files = generate(res, opts)

	if opts.Resolution.StrictMode && res.Diagnostics.HasErrors() {
		return res, fmt.Errorf("%w: strict mode: %w", ErrFailed, res.Diagnostics.Error())
	}

	if len(res.Files) == 0 && res.Diagnostics.HasErrors() {
		return res, fmt.Errorf("%w: %w", ErrFailed, res.Diagnostics.Error())
	}

	if len(res.Files) == 0 {
		opts.Logger.Warn().Msg("no unions found")
		return res, nil
	}

	if opts.DryRun {
		res.Stale, err = staleFiles(res.Files, res.OutputDir)
		return res, err
	}

	res.Written, err = gen.WriteFiles(res.Files, res.OutputDir)
	if err != nil {
		return res, err
	}

	if len(res.Written) == 0 {
		opts.Logger.Info().Str("dir", res.OutputDir).Msg("generated files are up to date")
	}

	for _, path := range res.Written {
		opts.Logger.Info().Str("file", path).Msg("wrote")
	}

	return res, nil
}

// generate produces the file of every resolved union. Failures become
// diagnostics for that union.
func generate(res *Result, opts Options) []gen.GeneratedFile {
	cfg := opts.Generator
	cfg.PackageName = res.Package
	cfg.OutputDir = res.OutputDir

	if opts.DryRun {
		cfg.OutputDir = ""
	}

	g := gen.NewGenerator(cfg)

	var files []gen.GeneratedFile

	for i := range res.Plan.Enums {
		e := &res.Plan.Enums[i]

		file, err := g.GenerateEnum(e)
		if err != nil {
			code := CodeGenerateFailed
			if file != nil {
				code = CodeFormatFailed
			}

			res.Diagnostics.Add(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityError,
				Code:     code,
				Message:  err.Error(),
				Enum:     e.Name(),
				Pos:      e.Schema.Pos,
			})

			opts.Logger.Error().Err(err).Str("enum", e.Name()).Msg("generation failed")

			continue
		}

		opts.Logger.Debug().
			Str("enum", e.Name()).
			Str("file", file.Filename).
			Int("variants", len(e.Variants)).
			Msg("generated")

		files = append(files, *file)
	}

	return files
}

func staleFiles(files []gen.GeneratedFile, dir string) ([]string, error) {
	var stale []string

	for _, file := range files {
		path := filepath.Join(dir, file.Filename)

		existing, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return stale, fmt.Errorf("reading file %s: %w", file.Filename, err)
		}

		if err != nil || !bytes.Equal(existing, file.Content) {
			stale = append(stale, path)
		}
	}

	return stale, nil
}
