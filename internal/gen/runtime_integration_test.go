package gen

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// shapeRuntimeTest runs against the generated Shape union inside its own
// module.
const shapeRuntimeTest = `package shapes

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestParseRoundTrip(t *testing.T) {
	for _, v := range ShapeVariants() {
		got, err := ParseShape(v.Value())
		if err != nil {
			t.Fatalf("ParseShape(%q): %v", v.Value(), err)
		}

		if !reflect.DeepEqual(got, v) {
			t.Fatalf("ParseShape(%q) = %#v, want %#v", v.Value(), got, v)
		}
	}
}

func TestFromIndexRoundTrip(t *testing.T) {
	for _, v := range []Shape{ShapeNone{}, ShapeOther{}} {
		got, err := ShapeFromIndex(v.Index())
		if err != nil {
			t.Fatalf("ShapeFromIndex(%d): %v", v.Index(), err)
		}

		if got != v {
			t.Fatalf("ShapeFromIndex(%d) = %#v, want %#v", v.Index(), got, v)
		}
	}

	// Variants with fields are not reachable by index.
	if _, err := ShapeFromIndex(ShapeCircle{}.Index()); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("ShapeFromIndex(10) error = %v", err)
	}
}

func TestIndices(t *testing.T) {
	want := map[string]int8{"circle": 10, "Pair": 11, "Wait": 12, "None": 20, "Other": 21}

	for _, v := range ShapeVariants() {
		if v.Index() != want[v.Value()] {
			t.Fatalf("%s.Index() = %d, want %d", v.Value(), v.Index(), want[v.Value()])
		}
	}

	if ShapeVariantCount != len(want) {
		t.Fatalf("ShapeVariantCount = %d", ShapeVariantCount)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := ParseShape("nope")
	if !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("ParseShape error = %v", err)
	}

	if got, want := err.Error(), ` + "`invalid Shape: invalid string value \"nope\"`" + `; got != want {
		t.Fatalf("error = %q, want %q", got, want)
	}

	if _, err := ShapeFromIndex(-1); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("ShapeFromIndex(-1) error = %v", err)
	}
}

func TestIdentifierAlias(t *testing.T) {
	got, err := ParseShape("Circle")
	if err != nil || got != (ShapeCircle{}) {
		t.Fatalf("ParseShape(Circle) = %#v, %v", got, err)
	}
}

func TestString(t *testing.T) {
	if got := (ShapeCircle{Radius: 2}).String(); got != "circle" {
		t.Fatalf("String() = %q", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	tests := []struct {
		value Shape
		want  string
	}{
		{value: ShapeNone{}, want: ` + "`\"None\"`" + `},
		{value: ShapeWait{F0: time.Second}, want: ` + "`{\"Wait\":1000000000}`" + `},
		{value: ShapePair{F0: "x", F1: 3}, want: ` + "`{\"Pair\":[\"x\",3]}`" + `},
		{value: ShapeCircle{Radius: 1.5}, want: ` + "`{\"Circle\":{\"radius\":1.5}}`" + `},
	}

	for _, tt := range tests {
		data, err := MarshalShapeJSON(tt.value)
		if err != nil {
			t.Fatalf("MarshalShapeJSON(%#v): %v", tt.value, err)
		}

		if string(data) != tt.want {
			t.Fatalf("MarshalShapeJSON(%#v) = %s, want %s", tt.value, data, tt.want)
		}

		got, err := UnmarshalShapeJSON(data)
		if err != nil {
			t.Fatalf("UnmarshalShapeJSON(%s): %v", data, err)
		}

		if got != tt.value {
			t.Fatalf("UnmarshalShapeJSON(%s) = %#v, want %#v", data, got, tt.value)
		}
	}
}

func TestJSONErrors(t *testing.T) {
	for _, in := range []string{` + "`\"Nope\"`, `{\"Pair\":[\"x\"]}`, `{\"A\":1,\"B\":2}`, `3`" + `} {
		if _, err := UnmarshalShapeJSON([]byte(in)); !errors.Is(err, ErrInvalidShape) {
			t.Fatalf("UnmarshalShapeJSON(%s) error = %v", in, err)
		}
	}
}
`

// TestGeneratedShapeRuntime builds the generated union in a scratch module and
// runs its behavior tests with the go tool.
func TestGeneratedShapeRuntime(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go tool")
	}

	goTool, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go tool not found")
	}

	p := resolve(t, shapeEnum())

	file, err := NewGenerator(testConfig()).GenerateEnum(&p.Enums[0])
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/shapes\n\ngo 1.24\n"), filePerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, file.Filename), file.Content, filePerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shape_runtime_test.go"), []byte(shapeRuntimeTest), filePerm))

	cmd := exec.CommandContext(t.Context(), goTool, "test", "-count=1", ".")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod")

	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("generated file %s:\n%s", file.Filename, file.Content)
		t.Fatalf("go test failed: %v\n%s", err, out)
	}
}
