package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enum-generator/internal/analyze"
	"enum-generator/internal/plan"
)

const shapesSchema = `package: shapes
enums:
  - name: Shape
    annotations:
      - derive: [Display, Serialize, Deserialize]
    variants:
      - name: Circle
        annotations:
          - variant: {value: circle}
        fields:
          named:
            - {name: Radius, type: float64, tag: 'json:"radius"'}
      - name: Square
        fields:
          positional: [float64]
      - name: Empty
  - name: Bad
    annotations:
      - repr: i8
    variants:
      - name: A
        annotations:
          - variant: {index: 300}
  - name: Mode
    annotations:
      - repr: u8
    variants:
      - name: Fast
      - name: Slow
`

func writeSchema(t *testing.T, content string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "unions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return dir, path
}

func options(path string) Options {
	opts := DefaultOptions()
	opts.SchemaPath = path
	opts.Logger = zerolog.New(os.Stderr).Level(zerolog.ErrorLevel)

	return opts
}

func TestRun_Schema(t *testing.T) {
	dir, path := writeSchema(t, shapesSchema)

	res, err := Run(context.Background(), options(path))
	require.NoError(t, err)

	assert.Equal(t, "shapes", res.Package)
	assert.Equal(t, dir, res.OutputDir)

	// Bad is out of range for i8 and skipped; its siblings are generated.
	require.Len(t, res.Diagnostics.Errors, 1)
	assert.Equal(t, plan.CodeIndexOutOfRange, res.Diagnostics.Errors[0].Code)
	assert.Equal(t, "Bad", res.Diagnostics.Errors[0].Enum)

	require.Len(t, res.Files, 2)
	assert.Equal(t, "shape_enum.go", res.Files[0].Filename)
	assert.Equal(t, "mode_enum.go", res.Files[1].Filename)

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "shape_enum.go"),
		filepath.Join(dir, "mode_enum.go"),
	}, res.Written)

	content, err := os.ReadFile(filepath.Join(dir, "shape_enum.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "package shapes")
	assert.Contains(t, string(content), "func ParseShape(s string) (Shape, error)")
	assert.Contains(t, string(content), "func MarshalShapeJSON(v Shape) ([]byte, error)")

	// A second run finds nothing to write.
	res, err = Run(context.Background(), options(path))
	require.NoError(t, err)
	assert.Empty(t, res.Written)
}

func TestRun_DryRun(t *testing.T) {
	dir, path := writeSchema(t, shapesSchema)

	opts := options(path)
	opts.DryRun = true

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Empty(t, res.Written)
	assert.Len(t, res.Stale, 2)

	_, err = os.Stat(filepath.Join(dir, "shape_enum.go"))
	assert.True(t, os.IsNotExist(err))

	// After a real run nothing is stale.
	_, err = Run(context.Background(), options(path))
	require.NoError(t, err)

	res, err = Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, res.Stale)
}

func TestRun_Strict(t *testing.T) {
	dir, path := writeSchema(t, shapesSchema)

	opts := options(path)
	opts.Resolution.StrictMode = true

	res, err := Run(context.Background(), opts)
	require.ErrorIs(t, err, ErrFailed)
	require.NotNil(t, res)
	assert.True(t, res.Diagnostics.HasErrors())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "strict mode writes nothing")
}

func TestRun_NothingProduced(t *testing.T) {
	_, path := writeSchema(t, `package: p
enums:
  - name: Bad
    annotations:
      - repr: [i8, u16]
    variants:
      - name: A
`)

	res, err := Run(context.Background(), options(path))
	require.ErrorIs(t, err, ErrFailed)
	assert.Equal(t, plan.CodeConflictingRepr, res.Diagnostics.Errors[0].Code)
}

func TestRun_OverridesAndOutputDir(t *testing.T) {
	_, path := writeSchema(t, shapesSchema)
	out := filepath.Join(t.TempDir(), "gen")

	opts := options(path)
	opts.OutputDir = out
	opts.PackageName = "generated"

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, out, res.OutputDir)

	content, err := os.ReadFile(filepath.Join(out, "mode_enum.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "package generated")
}

func TestRun_NameCollisionSkipsUnion(t *testing.T) {
	dir, path := writeSchema(t, `package: p
enums:
  - name: Shape
    variants:
      - name: circle
      - name: Circle
  - name: Mode
    variants:
      - name: Fast
`)

	res, err := Run(context.Background(), options(path))
	require.NoError(t, err)

	require.Len(t, res.Diagnostics.Errors, 1)
	assert.Equal(t, CodeGenerateFailed, res.Diagnostics.Errors[0].Code)
	assert.Equal(t, "Shape", res.Diagnostics.Errors[0].Enum)

	assert.Equal(t, []string{filepath.Join(dir, "mode_enum.go")}, res.Written)
}

func TestLoad_InputErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := Load(ctx, DefaultOptions())
	require.ErrorIs(t, err, ErrNoInput)

	opts := DefaultOptions()
	opts.SchemaPath = "a.yaml"
	opts.Pattern = "./..."
	_, err = Load(ctx, opts)
	require.ErrorIs(t, err, ErrConflictingInput)

	opts = DefaultOptions()
	opts.SchemaPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = Load(ctx, opts)
	require.Error(t, err)
}

func TestLoad_InvalidSchema(t *testing.T) {
	_, path := writeSchema(t, "package: p\nenums: []\n")

	_, err := Load(context.Background(), options(path))
	require.Error(t, err)
}

func TestRun_Cancelled(t *testing.T) {
	_, path := writeSchema(t, shapesSchema)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, options(path))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_GoSource(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/shapes\n\ngo 1.24\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spec.go"), []byte(`package shapes

import "time"

//enumgen:enum
//enumgen:derive Display
type EventSpec struct {
	Tick  time.Duration
	Stop  struct{}
}
`), 0o644))

	opts := DefaultOptions()
	opts.Dir = dir
	opts.Pattern = "."

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, res.Diagnostics.IsValid(), res.Diagnostics.Error())

	require.Len(t, res.Written, 1)
	assert.Equal(t, filepath.Join(dir, "event_enum.go"), res.Written[0])

	content, err := os.ReadFile(res.Written[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), `"time"`)
	assert.Contains(t, string(content), "type EventTick struct")

	// The generated file is skipped when the package is loaded again.
	again, err := analyze.LoadPackage(dir, ".")
	require.NoError(t, err)
	require.Len(t, again.Enums, 1)
	assert.Equal(t, "Event", again.Enums[0].Name)
}

func TestRun_Examples(t *testing.T) {
	t.Run("schema", func(t *testing.T) {
		opts := DefaultOptions()
		opts.SchemaPath = filepath.Join("..", "..", "examples", "palette", "unions.yaml")
		opts.DryRun = true

		res, err := Run(context.Background(), opts)
		require.NoError(t, err)
		assert.True(t, res.Diagnostics.IsValid(), res.Diagnostics.Error())
		require.Len(t, res.Files, 1)

		// Custom and Named are clamped to 127.
		assert.Len(t, res.Diagnostics.ForEnum("Color").Warnings, 2)
	})

	t.Run("go source", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Dir = filepath.Join("..", "..", "examples", "shapes")
		opts.Pattern = "."
		opts.DryRun = true

		res, err := Run(context.Background(), opts)
		require.NoError(t, err)
		assert.True(t, res.Diagnostics.IsValid(), res.Diagnostics.Error())
		require.Len(t, res.Files, 2)
		assert.Equal(t, "shape_enum.go", res.Files[0].Filename)
		assert.Equal(t, "event_enum.go", res.Files[1].Filename)
	})
}
