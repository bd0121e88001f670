package plan

import (
	"github.com/davecgh/go-spew/spew"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"enum-generator/internal/model"
)

// ExportedPlan is the serializable view of a ResolvedPlan, used by the
// resolve command to show what the generator would emit.
type ExportedPlan struct {
	Package string         `yaml:"package" json:"package"`
	Enums   []ExportedEnum `yaml:"enums" json:"enums"`
}

// ExportedEnum is the serializable view of one resolved union.
type ExportedEnum struct {
	Name         string            `yaml:"name" json:"name"`
	Repr         string            `yaml:"repr" json:"repr"`
	ReprSource   string            `yaml:"repr_source" json:"repr_source"`
	ReprEmitted  bool              `yaml:"repr_emitted" json:"repr_emitted"`
	Capabilities []string          `yaml:"capabilities,omitempty" json:"capabilities,omitempty"`
	Passthrough  []string          `yaml:"passthrough,omitempty" json:"passthrough,omitempty"`
	Variants     []ExportedVariant `yaml:"variants" json:"variants"`
}

// ExportedVariant is the serializable view of one resolved variant. Index is
// a decimal string so that 64-bit unsigned values survive JSON readers.
type ExportedVariant struct {
	Name        string   `yaml:"name" json:"name"`
	Shape       string   `yaml:"shape" json:"shape"`
	Value       string   `yaml:"value" json:"value"`
	Index       string   `yaml:"index" json:"index"`
	IndexSource string   `yaml:"index_source" json:"index_source"`
	Passthrough []string `yaml:"passthrough,omitempty" json:"passthrough,omitempty"`
}

// Export builds the serializable view of plan.
func Export(plan *ResolvedPlan) *ExportedPlan {
	out := &ExportedPlan{
		Package: plan.Package,
		Enums:   make([]ExportedEnum, 0, len(plan.Enums)),
	}

	for i := range plan.Enums {
		out.Enums = append(out.Enums, exportEnum(&plan.Enums[i]))
	}

	return out
}

func exportEnum(e *ResolvedEnum) ExportedEnum {
	ee := ExportedEnum{
		Name:         e.Name(),
		Repr:         e.Repr.Width.String(),
		ReprSource:   string(e.Repr.Source),
		ReprEmitted:  e.Repr.Emit,
		Capabilities: capabilityNames(e.Caps()),
		Variants:     make([]ExportedVariant, 0, len(e.Variants)),
	}

	for _, a := range e.Schema.Passthrough {
		ee.Passthrough = append(ee.Passthrough, a.String())
	}

	for _, v := range e.Variants {
		ev := ExportedVariant{
			Name:        v.Spec.Name,
			Shape:       v.Spec.Shape.String(),
			Value:       v.Value,
			Index:       v.Index.String(),
			IndexSource: string(v.Source),
		}

		for _, a := range v.Spec.Passthrough {
			ev.Passthrough = append(ev.Passthrough, a.String())
		}

		ee.Variants = append(ee.Variants, ev)
	}

	return ee
}

func capabilityNames(c model.Capabilities) []string {
	var names []string
	if c.Display {
		names = append(names, "display")
	}

	if c.Serialize {
		names = append(names, "serialize")
	}

	if c.Deserialize {
		names = append(names, "deserialize")
	}

	if c.Strict {
		names = append(names, "strict")
	}

	return names
}

// ExportYAML renders the resolved plan as YAML.
func ExportYAML(plan *ResolvedPlan) ([]byte, error) {
	return yaml.Marshal(Export(plan))
}

// ExportJSON renders the resolved plan as indented JSON.
func ExportJSON(plan *ResolvedPlan) ([]byte, error) {
	return json.MarshalIndent(Export(plan), "", "  ")
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump returns a debug rendering of the full plan, including source specs.
func Dump(plan *ResolvedPlan) string {
	return dumper.Sdump(plan)
}
