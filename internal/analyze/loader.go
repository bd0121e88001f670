package analyze

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"enum-generator/internal/diagnostic"
	"enum-generator/internal/model"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// GeneratedSuffix is the file suffix of generated union files.
const GeneratedSuffix = "_enum.go"

// Result is the set of union specs found in one package.
type Result struct {
	// Package is the package name.
	Package string
	// PkgPath is the import path (empty for single files).
	PkgPath string
	// Dir is the directory of the package sources.
	Dir string
	// Enums in source order.
	Enums []*model.Enum
	// Diagnostics for specs that were skipped.
	Diagnostics diagnostic.Diagnostics
}

// LoadPackage loads the package matching pattern relative to dir and
// extracts its union specs. Type errors do not fail the load; only listing
// and parse errors do.
func LoadPackage(dir, pattern string) (*Result, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  dir,
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	if len(pkgs) != 1 {
		return nil, fmt.Errorf("pattern %q matched %d packages, want 1", pattern, len(pkgs))
	}

	pkg := pkgs[0]

	var errs []error

	for _, e := range pkg.Errors {
		if e.Kind == packages.TypeError {
			continue
		}

		errs = append(errs, e)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	res := &Result{
		Package: pkg.Name,
		PkgPath: pkg.PkgPath,
	}

	if len(pkg.GoFiles) > 0 {
		res.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	for _, file := range pkg.Syntax {
		if isGenerated(pkg.Fset, file) {
			continue
		}

		enums, diags := ParseFile(pkg.Fset, file, typesImports(pkg.TypesInfo, FileImports(file)))
		res.Enums = append(res.Enums, enums...)
		res.Diagnostics.Merge(diags)
	}

	return res, nil
}

// isGenerated skips our own output and any file marked as generated.
func isGenerated(fset *token.FileSet, file *ast.File) bool {
	if strings.HasSuffix(fset.Position(file.Pos()).Filename, GeneratedSuffix) {
		return true
	}

	return ast.IsGenerated(file)
}

// ParseSource parses a single Go source file and extracts its union specs.
func ParseSource(filename string, src []byte) (*Result, error) {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	enums, diags := ParseFile(fset, file, nil)

	return &Result{
		Package:     file.Name.Name,
		Dir:         filepath.Dir(filename),
		Enums:       enums,
		Diagnostics: diags,
	}, nil
}
