package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"enum-generator/internal/diagnostic"
	"enum-generator/internal/gen"
	"enum-generator/internal/pipeline"
	"enum-generator/internal/plan"
	"enum-generator/internal/schema"
	"enum-generator/internal/watch"
)

var (
	errCheckFailed = errors.New("check failed")
	errStale       = errors.New("generated files are stale")
)

// InputFlags select where union specs are read from.
type InputFlags struct {
	Pattern string `arg:"" optional:"" help:"Go package pattern holding the spec structs (default: .)."`
	Schema  string `help:"YAML or JSON schema file to read instead of Go source." short:"s" type:"existingfile"`
	Dir     string `help:"Working directory for package loading." default:"." type:"existingdir"`
	Package string `help:"Package name of generated files (default: the input's package)."`
	Strict  bool   `help:"Fail on any error instead of skipping broken unions."`
}

func (f InputFlags) options(app *App) pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.SchemaPath = f.Schema
	opts.Pattern = f.Pattern
	opts.Dir = f.Dir
	opts.PackageName = f.Package
	opts.Resolution.StrictMode = f.Strict
	opts.Logger = app.logger

	if opts.SchemaPath == "" && opts.Pattern == "" {
		opts.Pattern = "."
	}

	return opts
}

// GenFlags shape the generated code.
type GenFlags struct {
	Out         string `help:"Output directory (default: next to the input)." short:"o"`
	NoComments  bool   `help:"Omit doc comments on generated declarations."`
	NoAliases   bool   `help:"Do not accept variant identifiers when parsing strings."`
	JSONPackage string `help:"Import path of the JSON package used by generated hooks." default:"encoding/json" name:"json-package"`
}

func (f GenFlags) apply(opts *pipeline.Options) {
	opts.OutputDir = f.Out
	opts.Generator.GenerateComments = !f.NoComments
	opts.Generator.IdentifierAliases = !f.NoAliases

	if f.JSONPackage != "" {
		opts.Generator.JSONPackage = f.JSONPackage
	} else {
		opts.Generator.JSONPackage = gen.DefaultJSONPackage
	}
}

func reportDiagnostics(app *App, diags *diagnostic.Diagnostics) {
	if err := diags.Write(app.stderr, app.color); err != nil {
		app.logger.Error().Err(err).Msg("cannot write diagnostics")
	}
}

// GenCmd generates and writes union files.
type GenCmd struct {
	InputFlags `embed:""`
	GenFlags   `embed:""`

	Watch    bool          `help:"Watch for changes and regenerate." short:"w"`
	Debounce time.Duration `help:"Time to wait for changes to settle in watch mode." default:"200ms"`
}

func (c *GenCmd) Run(app *App) error {
	opts := c.InputFlags.options(app)
	c.GenFlags.apply(&opts)

	err := c.generate(app, opts)
	if !c.Watch {
		return err
	}

	if err != nil {
		app.logger.Error().Err(err).Msg("generation failed, watching for changes")
	}

	return c.watch(app, opts)
}

func (c *GenCmd) generate(app *App, opts pipeline.Options) error {
	res, err := pipeline.Run(app.ctx, opts)
	if res != nil {
		reportDiagnostics(app, &res.Diagnostics)
	}

	if err != nil {
		return err
	}

	app.logger.Info().
		Int("files", len(res.Files)).
		Int("written", len(res.Written)).
		Msg("generation complete")

	return nil
}

func (c *GenCmd) watch(app *App, opts pipeline.Options) error {
	var (
		mu       sync.Mutex
		patterns []string
	)

	// A schema file adds itself as the only pattern.
	if opts.SchemaPath == "" {
		patterns = []string{"*.go"}
	}

	w, err := watch.New(watch.Options{
		Patterns: patterns,
		Debounce: c.Debounce,
		Logger:   app.logger,
	}, func(paths []string) {
		mu.Lock()
		defer mu.Unlock()

		app.logger.Info().Strs("paths", paths).Msg("change detected")

		if err := c.generate(app, opts); err != nil && !errors.Is(err, context.Canceled) {
			app.logger.Error().Err(err).Msg("generation failed")
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	if opts.SchemaPath != "" {
		err = w.AddFile(opts.SchemaPath)
	} else {
		err = w.AddDirectory(watchRoot(opts.Dir, opts.Pattern))
	}

	if err != nil {
		return err
	}

	app.logger.Info().Msg("watching for changes, press Ctrl+C to stop")

	if err := w.Start(app.ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

// watchRoot maps a package pattern to the directory tree it covers.
func watchRoot(dir, pattern string) string {
	pattern = strings.TrimSuffix(pattern, "...")
	if pattern == "" {
		return dir
	}

	return filepath.Join(dir, pattern)
}

// CheckCmd generates in memory and fails when the output would differ.
type CheckCmd struct {
	InputFlags `embed:""`
	GenFlags   `embed:""`
}

func (c *CheckCmd) Run(app *App) error {
	opts := c.InputFlags.options(app)
	c.GenFlags.apply(&opts)
	opts.DryRun = true

	res, err := pipeline.Run(app.ctx, opts)
	if res != nil {
		reportDiagnostics(app, &res.Diagnostics)
	}

	if err != nil {
		return err
	}

	if res.Diagnostics.HasErrors() {
		return fmt.Errorf("%w: %d errors", errCheckFailed, len(res.Diagnostics.Errors))
	}

	for _, path := range res.Stale {
		fmt.Fprintf(app.stderr, "stale: %s\n", path)
	}

	if len(res.Stale) > 0 {
		return fmt.Errorf("%w: %d of %d", errStale, len(res.Stale), len(res.Files))
	}

	fmt.Fprintf(app.stdout, "ok: %d unions\n", len(res.Files))

	return nil
}

// ResolveCmd prints the resolved plan without generating code.
type ResolveCmd struct {
	InputFlags `embed:""`

	Format string `help:"Output format." enum:"yaml,json,dump" default:"yaml" short:"f"`
}

func (c *ResolveCmd) Run(app *App) error {
	res, err := pipeline.Resolve(app.ctx, c.InputFlags.options(app))
	if res != nil {
		reportDiagnostics(app, &res.Diagnostics)
	}

	if err != nil {
		return err
	}

	var out []byte

	switch c.Format {
	case "json":
		out, err = plan.ExportJSON(res.Plan)
		out = append(out, '\n')
	case "dump":
		out = []byte(plan.Dump(res.Plan))
	default:
		out, err = plan.ExportYAML(res.Plan)
	}

	if err != nil {
		return fmt.Errorf("failed to export plan: %w", err)
	}

	_, err = app.stdout.Write(out)

	return err
}

// SchemaCmd reads annotated Go specs and writes the equivalent schema file.
type SchemaCmd struct {
	Pattern string `arg:"" optional:"" help:"Go package pattern holding the spec structs." default:"."`
	Dir     string `help:"Working directory for package loading." default:"." type:"existingdir"`
	Package string `help:"Package name recorded in the schema (default: the Go package)."`
	Out     string `help:"Schema file to write (default: stdout)." short:"o"`
}

func (c *SchemaCmd) Run(app *App) error {
	opts := pipeline.DefaultOptions()
	opts.Pattern = c.Pattern
	opts.Dir = c.Dir
	opts.PackageName = c.Package
	opts.Logger = app.logger

	in, err := pipeline.Load(app.ctx, opts)
	if err != nil {
		return err
	}

	reportDiagnostics(app, &in.Diagnostics)

	f := schema.FromModel(in.Package, in.Enums)

	if c.Out != "" {
		if err := schema.WriteFile(f, c.Out); err != nil {
			return err
		}

		app.logger.Info().Str("file", c.Out).Int("enums", len(f.Enums)).Msg("wrote schema")

		return nil
	}

	data, err := schema.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	_, err = app.stdout.Write(data)

	return err
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(app *App) error {
	_, err := fmt.Fprintln(app.stdout, Version())
	return err
}
