package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enum-generator/internal/model"
)

const shapesYAML = `package: shapes
imports: [time]
enums:
  - name: Shape
    doc: Shape is a drawable thing.
    annotations:
      - repr: i8
      - derive: [Display, Serialize, Deserialize]
      - deprecated
    variants:
      - name: Circle
        annotations:
          - variant: {value: circle, index: 10}
        fields:
          named:
            - {name: Radius, type: float64, tag: 'json:"radius"'}
      - name: Pair
        fields:
          positional: [string, int]
      - name: Blank
        annotations:
          - variant: value="" index="1 << 5"
      - name: None
        discriminant: "20"
`

func TestParseYAML(t *testing.T) {
	f, err := Parse([]byte(shapesYAML))
	require.NoError(t, err)
	require.NoError(t, Validate(f))

	assert.Equal(t, "1", f.Version)
	assert.Equal(t, "shapes", f.Package)
	require.Len(t, f.Enums, 1)

	e := f.Enums[0]
	assert.Equal(t, 4, e.Line)
	require.Len(t, e.Annotations, 3)
	assert.Equal(t, "repr:i8", e.Annotations[0].String())
	assert.Equal(t, "derive:Display Serialize Deserialize", e.Annotations[1].String())
	assert.Equal(t, "deprecated", e.Annotations[2].String())

	circle := e.Variants[0]
	assert.Equal(t, []model.Arg{
		{Key: "value", Value: "circle", HasValue: true},
		{Key: "index", Value: "10", HasValue: true},
	}, circle.Annotations[0].Args)

	blank := e.Variants[2]
	assert.Equal(t, []model.Arg{
		{Key: "value", Value: "", HasValue: true},
		{Key: "index", Value: "1 << 5", HasValue: true},
	}, blank.Annotations[0].Args)
}

func TestParseJSON(t *testing.T) {
	data := `{
  "package": "codes",
  "enums": [{
    "name": "Code",
    "annotations": ["deprecated", {"repr": "u8", "derive": ["JSON"]}],
    "variants": [
      {"name": "Ok", "annotations": [{"variant": {"index": 200, "value": "ok"}}]},
      {"name": "Wrap", "fields": {"positional": ["string"]}}
    ]
  }]
}`

	f, err := Parse([]byte(data))
	require.NoError(t, err)
	require.NoError(t, Validate(f))

	anns := f.Enums[0].Annotations
	require.Len(t, anns, 3)
	assert.Equal(t, "deprecated", anns[0].Namespace)
	// Object keys are taken in sorted order.
	assert.Equal(t, "derive:JSON", anns[1].String())
	assert.Equal(t, "repr:u8", anns[2].String())

	assert.Equal(t, []model.Arg{
		{Key: "index", Value: "200", HasValue: true},
		{Key: "value", Value: "ok", HasValue: true},
	}, f.Enums[0].Variants[0].Annotations[0].Args)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "annotations not a list", data: "package: p\nenums:\n  - name: E\n    annotations: {repr: i8}\n"},
		{name: "nested value", data: "package: p\nenums:\n  - name: E\n    annotations:\n      - variant: {value: [a]}\n"},
		{name: "malformed args", data: "package: p\nenums:\n  - name: E\n    annotations:\n      - variant: 'value=\"x'\n"},
		{name: "bad json", data: `{"package": "p", "enums": [{"name": "E", "annotations": [3]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		message string
	}{
		{
			name:    "missing package",
			data:    "enums:\n  - name: E\n    variants: [{name: A}]\n",
			message: "package: required",
		},
		{
			name:    "no enums",
			data:    "package: p\n",
			message: "enums: required",
		},
		{
			name:    "bad identifier",
			data:    "package: p\nenums:\n  - name: 9lives\n    variants: [{name: A}]\n",
			message: `enums[0].name: "9lives" is not a Go identifier`,
		},
		{
			name:    "duplicate enum",
			data:    "package: p\nenums:\n  - {name: E, variants: [{name: A}]}\n  - {name: E, variants: [{name: A}]}\n",
			message: "enums: name must be unique",
		},
		{
			name:    "duplicate variant",
			data:    "package: p\nenums:\n  - {name: E, variants: [{name: A}, {name: A}]}\n",
			message: "enums[0].variants: name must be unique",
		},
		{
			name:    "no variants",
			data:    "package: p\nenums:\n  - {name: E}\n",
			message: "enums[0].variants: required",
		},
		{
			name: "mixed fields",
			data: "package: p\nenums:\n  - name: E\n    variants:\n      - name: A\n        fields:\n" +
				"          positional: [int]\n          named: [{name: X, type: int}]\n",
			message: "cannot be combined with positional fields",
		},
		{
			name:    "field without type",
			data:    "package: p\nenums:\n  - name: E\n    variants:\n      - {name: A, fields: {named: [{name: X}]}}\n",
			message: "enums[0].variants[0].fields.named[0].type: required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := Parse([]byte(tt.data))
			require.NoError(t, err)

			err = Validate(f)
			require.ErrorIs(t, err, ErrInvalidSchema)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestToModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shapes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(shapesYAML), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Source())

	enums := f.ToModel()
	require.Len(t, enums, 1)

	e := enums[0]
	assert.True(t, e.Exported)
	assert.Equal(t, []string{"time"}, e.Imports)
	assert.Equal(t, path+":4", e.Pos)

	require.Len(t, e.Variants, 4)
	assert.Equal(t, model.ShapeNamed, e.Variants[0].Shape)
	assert.Equal(t, model.Field{Name: "Radius", Type: "float64", Tag: `json:"radius"`}, e.Variants[0].Fields[0])
	assert.Equal(t, model.ShapePositional, e.Variants[1].Shape)
	assert.Equal(t, []model.Field{{Type: "string"}, {Type: "int"}}, e.Variants[1].Fields)
	assert.True(t, e.Variants[3].IsUnit())
	assert.Equal(t, "20", e.Variants[3].Discriminant)
	assert.Equal(t, 3, e.Variants[3].Ordinal)
}

func TestLoadFile_JSONExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "codes.json")
	require.NoError(t, os.WriteFile(path, []byte(`  {"package": "p", "enums": [{"name": "E", "variants": [{"name": "A"}]}]}`), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, Validate(f))
	assert.Equal(t, "E", f.Enums[0].Name)
}

func TestRoundTrip(t *testing.T) {
	f, err := Parse([]byte(shapesYAML))
	require.NoError(t, err)

	enums := f.ToModel()

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, WriteFile(FromModel("shapes", enums), path))

	again, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, Validate(again))

	got := again.ToModel()
	require.Len(t, got, 1)

	for i, v := range got[0].Variants {
		want := enums[0].Variants[i]
		assert.Equal(t, want.Name, v.Name)
		assert.Equal(t, want.Shape, v.Shape)
		assert.Equal(t, want.Fields, v.Fields)
		assert.Equal(t, want.Annotations, v.Annotations)
		assert.Equal(t, want.Discriminant, v.Discriminant)
	}

	assert.Equal(t, enums[0].Annotations, got[0].Annotations)
}

func TestFromModel_ExportedOverride(t *testing.T) {
	f := FromModel("p", []*model.Enum{{Name: "Hidden", Exported: false, Variants: []model.Variant{{Name: "A"}}}})

	require.NotNil(t, f.Enums[0].Exported)
	assert.False(t, *f.Enums[0].Exported)
	assert.False(t, f.ToModel()[0].Exported)
}
